package groundwater

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/hydromesh/hydromesh/grid"
)

// MaxDepth is the deepest water table the model represents, in mm.
// Smoothed depths are clamped to it.
const MaxDepth = 32000

// streamSlope stands in for the local slope where the terrain is flat
// in a channel cell, the tangent of roughly five degrees.
const streamSlope = 0.0875

// minBinSamples is the smallest sample count for which a contributing
// area bin gets a standard deviation and its cells get clamped to the
// two sigma band.
const minBinSamples = 5

// Params configures the water table computation.
type Params struct {
	// BasinArea is the basin area in km^2. It only feeds the dry
	// stream cell summary.
	BasinArea float64
	// Baseflow is the reference discharge at the outlet in m^3/s.
	Baseflow float64
	// BaseflowZero is the zero baseflow from recession analysis in
	// m^3/s.
	BaseflowZero float64
	// ChannelThreshold is the contributing area, in cells, above
	// which a cell is treated as stream.
	ChannelThreshold int
	// BurnStreams pins every stream cell to zero depth after
	// smoothing, leaving the channel network saturated.
	BurnStreams bool
	// AvgDepth is the basin average depth to the water table in mm.
	// When zero it is derived from the baseflow pair and the soil
	// conductivity decay.
	AvgDepth float64
	// Window sizes the smoothing neighborhood. Zero means 3x3.
	Window grid.Window
	// SmoothPasses is the number of smoothing sweeps over the result.
	SmoothPasses int
}

func (p Params) validate() error {
	if p.ChannelThreshold < 1 {
		return errors.Errorf("channel threshold must be at least 1 cell, got %d", p.ChannelThreshold)
	}
	if p.AvgDepth < 0 {
		return errors.Errorf("average depth must not be negative, got %v", p.AvgDepth)
	}
	if p.SmoothPasses < 0 {
		return errors.Errorf("smoothing pass count must not be negative, got %d", p.SmoothPasses)
	}
	if p.Window != 0 && p.Window != grid.Window3 && p.Window != grid.Window5 {
		return errors.Errorf("smoothing window must be %d or %d cells, got %d",
			grid.Window3, grid.Window5, int(p.Window))
	}
	return nil
}

// AvgDepthFromRecession estimates the basin average depth to the water
// table in mm from the reference baseflow and the zero baseflow of a
// recession analysis, given the conductivity decay f in 1/mm.
func AvgDepthFromRecession(baseflow, baseflowZero, f float64) float64 {
	return -math.Log(baseflow/baseflowZero) / f
}

// BinStat summarizes the ln(area/slope) samples of the hillslope cells
// sharing one contributing area value.
type BinStat struct {
	Area    int     // contributing area, cells
	Cells   int     // hillslope cells with this area
	Samples int     // cells with a finite ln(area/slope) of at least 0
	Mean    float64 // mean ln(area/slope)
	Std     float64 // sample standard deviation, -1 below minBinSamples
}

// Result holds the derived water table grids and summary statistics.
type Result struct {
	Depth       *grid.Raster // depth to the water table, mm
	Absolute    *grid.Raster // water table elevation, m
	StreamDepth *grid.Raster // depth in stream cells, mm, nodata elsewhere
	Occurrence  *grid.Raster // area bin of each clamped hillslope cell, 0 where untouched
	TopoIndex   *grid.Raster // topographic index ln(a/tan b), in ln(mm)

	BinStats []BinStat

	Lambda         float64 // areal mean topographic index
	Gamma          float64 // ln(K0 Ar / f)
	AvgDepthBefore float64 // mm, before smoothing
	AvgDepthAfter  float64 // mm, after smoothing
	MinDepth       float64 // mm, before clamping at zero
	MaxDepth       float64 // mm, before clamping at zero
	MaxLnAreaSlope float64

	ValidCells     int
	HillslopeCells int
	DryStreamCells int // stream cells clamped to zero depth
	NegativeSlopes int // cells whose coded receiver sat higher than the cell
	RevertedCells  int // smoothing updates undone to keep the table below ground
	CappedCells    int // cells clamped to MaxDepth
	BurnedCells    int // stream cells the burn in pulled up to the surface
	OutletRow      int
	OutletCol      int
}

// Compute derives the steady state water table for a basin from its
// DEM, D8 flow accumulation, and ArcInfo coded flow direction grids.
// Elevations are in meters, depths in millimeters.
func Compute(dem, accum, dirs *grid.Raster, soil Soil, p Params, logger golog.Logger) (*Result, error) {
	if err := soil.validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if !dem.SameShape(accum) || !dem.SameShape(dirs) {
		return nil, errors.New("dem, accumulation, and direction grids must share one shape")
	}
	if p.Window == 0 {
		p.Window = grid.Window3
	}

	avgDepth := p.AvgDepth
	if avgDepth == 0 {
		if p.Baseflow <= 0 || p.BaseflowZero <= 0 {
			return nil, errors.New("either an average depth or a positive baseflow pair is required")
		}
		avgDepth = AvgDepthFromRecession(p.Baseflow, p.BaseflowZero, soil.Decay)
		if avgDepth < 0 {
			return nil, errors.Errorf("baseflow pair implies a negative average depth %v mm", avgDepth)
		}
		logger.Infof("average water table depth from recession analysis: %.1f mm", avgDepth)
	}

	b, err := newBasin(dem, accum, dirs, p.ChannelThreshold, logger)
	if err != nil {
		return nil, err
	}
	b.computeSlopes()

	res := &Result{
		Gamma:      soil.Gamma(),
		ValidCells: b.valid,
		OutletRow:  b.outletI,
		OutletCol:  b.outletJ,
	}
	for _, c := range b.hillCount {
		res.HillslopeCells += c
	}
	res.NegativeSlopes = b.negatives

	res.BinStats = b.binStats()
	logger.Infof("topographic index statistics over %d hillslope cells in %d bins",
		res.HillslopeCells, len(res.BinStats))

	var occ *grid.Raster
	res.TopoIndex, occ, res.Lambda, res.MaxLnAreaSlope = b.topographicIndex(res.BinStats)
	res.Occurrence = occ
	logger.Infof("areal mean topographic index %.4f, gamma %.4f", res.Lambda, res.Gamma)

	depth, dry, minD, maxD := b.waterTable(res.TopoIndex, res.Lambda, avgDepth, soil)
	res.DryStreamCells = dry
	res.MinDepth, res.MaxDepth = minD, maxD
	res.AvgDepthBefore = b.meanDepth(depth)

	abs := b.absoluteTable(depth)
	logger.Infof("average depth before smoothing %.1f mm (%d dry stream cells)",
		res.AvgDepthBefore, dry)
	if p.BasinArea > 0 && dry > 0 {
		cover := float64(dry) * b.dem.CellSize() * b.dem.CellSize() / 1e6
		logger.Infof("dry stream cells cover %.3f km^2 (%.2f%% of the basin)",
			cover, 100*cover/p.BasinArea)
	}

	depth, abs, reverted := b.smoothTable(depth, abs, p.Window, p.SmoothPasses)
	res.RevertedCells = reverted
	res.CappedCells = b.capDepth(depth, abs)
	if res.CappedCells > 0 {
		logger.Warnf("%d cells deeper than %d mm clamped", res.CappedCells, MaxDepth)
	}
	if p.BurnStreams {
		res.BurnedCells = b.burnStreams(depth, abs)
		logger.Infof("stream burn in saturated %d channel cells", res.BurnedCells)
	}

	res.Depth = depth
	res.Absolute = abs
	res.StreamDepth = b.streamDepth(depth)
	res.AvgDepthAfter = b.meanDepth(depth)
	logger.Infof("average depth after smoothing %.1f mm (%d reverted updates)",
		res.AvgDepthAfter, reverted)

	return res, nil
}

// basin carries the cross validated input grids with directions
// remapped to ring codes and accumulations made self inclusive.
type basin struct {
	dem    *grid.Raster
	area   *grid.Raster
	dirs   *grid.Raster
	slopes *grid.Raster
	thresh int
	logger golog.Logger

	valid     int
	outletI   int
	outletJ   int
	negatives int
	hillCount []int
}

func newBasin(dem, accum, dirs *grid.Raster, thresh int, logger golog.Logger) (*basin, error) {
	b := &basin{
		dem:       dem,
		area:      grid.NewRasterLike(accum),
		dirs:      grid.NewRasterLike(dirs),
		thresh:    thresh,
		logger:    logger,
		outletI:   -1,
		outletJ:   -1,
		hillCount: make([]int, thresh),
	}

	minElev := math.Inf(1)
	for i := 0; i < dem.Rows(); i++ {
		for j := 0; j < dem.Cols(); j++ {
			demOK := !dem.IsNoData(i, j)

			if !dirs.IsNoData(i, j) && dirs.At(i, j) >= 0 {
				ring := grid.FromArcCode(int(dirs.At(i, j)))
				if ring == 0 && demOK {
					return nil, errors.Errorf("flow direction grid holds code %v at row %d col %d",
						dirs.At(i, j), i, j)
				}
				if ring != 0 {
					b.dirs.Set(i, j, float64(ring))
				}
			}

			if !accum.IsNoData(i, j) && accum.At(i, j) >= 0 {
				// make the contributing area self inclusive
				b.area.Set(i, j, accum.At(i, j)+1)
			}

			if demOK == b.area.IsNoData(i, j) {
				return nil, errors.Errorf("flow accumulation mismatches the DEM at row %d col %d", i, j)
			}
			if demOK == b.dirs.IsNoData(i, j) {
				return nil, errors.Errorf("flow directions mismatch the DEM at row %d col %d", i, j)
			}
			if !demOK {
				continue
			}

			b.valid++
			if a := int(b.area.At(i, j)); a <= thresh {
				b.hillCount[a-1]++
			}
			if v := dem.At(i, j); v > 0 && v < minElev {
				minElev = v
				b.outletI, b.outletJ = i, j
			}
		}
	}

	if b.valid == 0 {
		return nil, errors.New("the DEM holds no data cells")
	}
	if b.outletI < 0 {
		return nil, errors.New("no positive elevation cell to take as the outlet")
	}
	logger.Infof("basin of %d cells, outlet at row %d col %d (%.2f m)",
		b.valid, b.outletI, b.outletJ, minElev)
	return b, nil
}

// computeSlopes fills the slope of every valid cell toward its coded
// receiver. Cells whose receiver leaves the grid or holds no data stay
// nodata. A negative drop reassigns the receiver to the steepest
// downslope neighbor, or leaves a zero slope when none exists.
func (b *basin) computeSlopes() {
	b.slopes = grid.NewRasterLike(b.dem)
	cs := b.dem.CellSize()
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) {
				continue
			}
			code := int(b.dirs.At(i, j))
			ii, jj := grid.Downstream(i, j, code)
			if !b.dem.InBounds(ii, jj) || b.dem.IsNoData(ii, jj) {
				continue
			}
			slope := (b.dem.At(i, j) - b.dem.At(ii, jj)) / grid.DirDistance(code, cs)
			if slope < 0 {
				slope = b.adjustNegativeSlope(i, j)
			}
			b.slopes.Set(i, j, slope)
		}
	}
}

// adjustNegativeSlope searches the neighbors of a cell whose coded
// receiver sits above it for the steepest positive drop, reassigning
// the flow direction when one exists. It returns the new slope, zero
// when every neighbor is higher.
func (b *basin) adjustNegativeSlope(i, j int) float64 {
	cs := b.dem.CellSize()
	elev := b.dem.At(i, j)
	best := 0.0
	bestCode := 0
	for code := 1; code <= 8; code++ {
		ii, jj := grid.Downstream(i, j, code)
		if !b.dem.InBounds(ii, jj) || b.dem.IsNoData(ii, jj) {
			continue
		}
		down := b.dem.At(ii, jj)
		if elev < down || down <= 0 {
			continue
		}
		if s := (elev - down) / grid.DirDistance(code, cs); s > best {
			best = s
			bestCode = code
		}
	}
	b.negatives++
	if bestCode != 0 {
		b.dirs.Set(i, j, float64(bestCode))
		b.logger.Debugf("negative slope at row %d col %d reassigned to direction %d", i, j, bestCode)
	} else {
		b.logger.Debugf("negative slope at row %d col %d has no downslope neighbor", i, j)
	}
	return best
}

// binStats gathers ln(area/slope) for every hillslope cell with a
// positive finite ratio of at least 1, grouped by contributing area.
func (b *basin) binStats() []BinStat {
	bins := make([][]float64, b.thresh)
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) || b.slopes.IsNoData(i, j) {
				continue
			}
			slope := b.slopes.At(i, j)
			if slope == 0 {
				continue
			}
			a := int(b.area.At(i, j))
			if a > b.thresh {
				continue
			}
			if ratio := float64(a) / slope; ratio >= 1 {
				bins[a-1] = append(bins[a-1], math.Log(ratio))
			}
		}
	}

	out := make([]BinStat, b.thresh)
	for k, samples := range bins {
		bs := BinStat{Area: k + 1, Cells: b.hillCount[k], Samples: len(samples), Std: -1}
		if len(samples) > 0 {
			if m, err := stats.Mean(samples); err == nil {
				bs.Mean = m
			}
		}
		if len(samples) >= minBinSamples {
			if sd, err := stats.StandardDeviationSample(samples); err == nil {
				bs.Std = sd
			}
		}
		out[k] = bs
	}
	return out
}

// topographicIndex computes ln(a / tan b) per cell in ln(mm), with
// hillslope cells clamped to their bin's two sigma band and flat
// stream cells falling back to a five degree slope. It returns the
// index grid, the clamp occurrence grid, the areal mean, and the
// largest ln(area/slope) seen.
func (b *basin) topographicIndex(binStats []BinStat) (topo, occ *grid.Raster, lambda, lmax float64) {
	topo = grid.NewRasterLike(b.dem)
	occ = grid.NewRasterLike(b.dem)
	cs := b.dem.CellSize()

	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) {
				continue
			}

			a := int(b.area.At(i, j))
			var ratio float64
			occVal := 0.0

			switch {
			case i == b.outletI && j == b.outletJ:
				// the outlet drains off grid, assume a five degree slope
				ratio = float64(a) / streamSlope
			case b.slopes.IsNoData(i, j):
				// no receiver to take a slope from
				continue
			case a <= b.thresh:
				bs := binStats[a-1]
				slope := b.slopes.At(i, j)
				if bs.Std > 0 {
					lo, hi := bs.Mean-2*bs.Std, bs.Mean+2*bs.Std
					if slope == 0 {
						ratio = math.Exp(hi)
						occVal = float64(a)
					} else {
						ratio = float64(a) / slope
						switch l := math.Log(ratio); {
						case l < lo:
							ratio = math.Exp(lo)
							occVal = float64(a)
						case l > hi:
							ratio = math.Exp(hi)
							occVal = float64(a)
						}
					}
				} else {
					// too few samples to clamp against
					if slope == 0 {
						ratio = math.Exp(bs.Mean)
					} else {
						ratio = float64(a) / slope
					}
				}
			default:
				if slope := b.slopes.At(i, j); slope == 0 {
					ratio = float64(a) / streamSlope
				} else {
					ratio = float64(a) / slope
				}
			}

			width := grid.D8Width(int(b.dirs.At(i, j)), cs)
			idx := math.Log(ratio * cs * cs * 1000 / width)
			topo.Set(i, j, idx)
			occ.Set(i, j, occVal)
			lambda += idx
			if l := math.Log(ratio); l > lmax {
				lmax = l
			}
		}
	}
	lambda /= float64(b.valid)
	return topo, occ, lambda, lmax
}

// waterTable maps the topographic index to a depth to saturation per
// cell, clamping below at zero. Cells without an index sit at the
// basin average.
func (b *basin) waterTable(topo *grid.Raster, lambda, avgDepth float64, soil Soil) (depth *grid.Raster, dry int, minD, maxD float64) {
	depth = grid.NewRasterLike(b.dem)
	minD, maxD = math.Inf(1), math.Inf(-1)
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) {
				continue
			}
			d := avgDepth
			if !topo.IsNoData(i, j) {
				d = avgDepth - (topo.At(i, j)-lambda)/soil.Decay
			}
			if d < minD {
				minD = d
			}
			if d > maxD {
				maxD = d
			}
			if d < 0 {
				d = 0
				if int(b.area.At(i, j)) > b.thresh {
					dry++
				}
			}
			depth.Set(i, j, d)
		}
	}
	return depth, dry, minD, maxD
}

// absoluteTable converts a depth grid in mm to water table elevations
// in meters.
func (b *basin) absoluteTable(depth *grid.Raster) *grid.Raster {
	abs := grid.NewRasterLike(b.dem)
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) {
				continue
			}
			abs.Set(i, j, b.dem.At(i, j)-depth.At(i, j)/1000)
		}
	}
	return abs
}

// smoothTable runs weighted moving average sweeps over the absolute
// water table, undoing any update that would lift the table above the
// terrain. Each pass reads the previous pass's grids, so the result
// does not depend on sweep order.
func (b *basin) smoothTable(depth, abs *grid.Raster, w grid.Window, passes int) (*grid.Raster, *grid.Raster, int) {
	di, dj := w.Offsets()
	weights := w.Weights()
	reverted := 0

	for p := 0; p < passes; p++ {
		nd := grid.NewRasterLike(depth)
		na := grid.NewRasterLike(abs)
		count := 0
		for i := 0; i < b.dem.Rows(); i++ {
			for j := 0; j < b.dem.Cols(); j++ {
				if b.dem.IsNoData(i, j) {
					continue
				}
				total := abs.At(i, j)
				wsum := 1.0
				for k := range di {
					ii, jj := i+di[k], j+dj[k]
					if !b.dem.InBounds(ii, jj) || b.dem.IsNoData(ii, jj) {
						continue
					}
					total += abs.At(ii, jj) * weights[k]
					wsum += weights[k]
				}
				sm := total / wsum
				d := (b.dem.At(i, j) - sm) * 1000
				if d < 0 {
					// the table cannot sit above the surface
					count++
					d = depth.At(i, j)
					sm = abs.At(i, j)
				}
				nd.Set(i, j, d)
				na.Set(i, j, sm)
			}
		}
		depth, abs = nd, na
		reverted += count
		b.logger.Debugf("smoothing pass %d reverted %d cells", p+1, count)
	}
	return depth, abs, reverted
}

// capDepth clamps depths at MaxDepth, lifting the absolute table to
// match, and returns the number of clamped cells.
func (b *basin) capDepth(depth, abs *grid.Raster) int {
	capped := 0
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) {
				continue
			}
			if d := depth.At(i, j); d >= MaxDepth {
				abs.Set(i, j, abs.At(i, j)+(d-MaxDepth)/1000)
				depth.Set(i, j, MaxDepth)
				if d > MaxDepth {
					capped++
				}
			}
		}
	}
	return capped
}

// burnStreams pins every stream cell to the surface, lifting the
// absolute table to the terrain. It returns the number of cells whose
// depth changed.
func (b *basin) burnStreams(depth, abs *grid.Raster) int {
	burned := 0
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) || int(b.area.At(i, j)) <= b.thresh {
				continue
			}
			if depth.At(i, j) != 0 {
				burned++
				depth.Set(i, j, 0)
				abs.Set(i, j, b.dem.At(i, j))
			}
		}
	}
	return burned
}

// streamDepth extracts the depth of stream cells into a fresh grid.
func (b *basin) streamDepth(depth *grid.Raster) *grid.Raster {
	out := grid.NewRasterLike(depth)
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if b.dem.IsNoData(i, j) || int(b.area.At(i, j)) <= b.thresh {
				continue
			}
			out.Set(i, j, depth.At(i, j))
		}
	}
	return out
}

func (b *basin) meanDepth(depth *grid.Raster) float64 {
	sum := 0.0
	for i := 0; i < b.dem.Rows(); i++ {
		for j := 0; j < b.dem.Cols(); j++ {
			if !b.dem.IsNoData(i, j) {
				sum += depth.At(i, j)
			}
		}
	}
	return sum / float64(b.valid)
}
