// Package main contains a command to derive the initial water table of
// a basin from its terrain, flow, and soil grids.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/hydromesh/hydromesh/grid"
	"github.com/hydromesh/hydromesh/groundwater"
)

var logger = golog.NewDevelopmentLogger("initialgw")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DEM       string    `flag:"dem,required,usage=DEM elevation grid in ESRI ASCII format (m)"`
	Accum     string    `flag:"accum,required,usage=D8 flow accumulation grid (cells)"`
	Dirs      string    `flag:"dirs,required,usage=ArcInfo coded flow direction grid"`
	Soil      string    `flag:"soil,required,usage=soil reclassification table"`
	OutDir    string    `flag:"out,default=.,usage=output directory"`
	Prefix    string    `flag:"prefix,default=basin,usage=output file name prefix"`
	Threshold int       `flag:"threshold,default=100,usage=channel contributing area threshold (cells)"`
	Window    int       `flag:"window,default=3,usage=smoothing window size (3 or 5)"`
	Passes    int       `flag:"passes,default=2,usage=smoothing passes"`
	Burn      bool      `flag:"burn,usage=pin stream cells to zero depth after smoothing"`
	Area      floatFlag `flag:"area,usage=basin area (km^2)"`
	Baseflow  floatFlag `flag:"baseflow,usage=reference baseflow at the outlet (m^3/s)"`
	Baseflow0 floatFlag `flag:"baseflow0,usage=zero baseflow from recession analysis (m^3/s)"`
	AvgDepth  floatFlag `flag:"avgdepth,usage=basin average depth to the water table (mm)"`
}

type floatFlag float64

func (ff *floatFlag) String() string {
	return strconv.FormatFloat(float64(*ff), 'g', -1, 64)
}

func (ff *floatFlag) Set(val string) error {
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return err
	}
	*ff = floatFlag(v)
	return nil
}

func (ff *floatFlag) Get() interface{} {
	return float64(*ff)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	return runInitialGW(ctx, argsParsed, logger)
}

func runInitialGW(_ context.Context, args Arguments, logger golog.Logger) error {
	dem, err := grid.ReadASCII(args.DEM)
	if err != nil {
		return err
	}
	logger.Infof("DEM %q: %dx%d cells of %g m", args.DEM, dem.Cols(), dem.Rows(), dem.CellSize())

	accum, err := grid.ReadASCII(args.Accum)
	if err != nil {
		return err
	}
	dirs, err := grid.ReadASCII(args.Dirs)
	if err != nil {
		return err
	}

	soil, err := groundwater.ReadSoilTable(args.Soil)
	if err != nil {
		return err
	}
	logger.Infof("soil type %d: K0 %g mm/hr, f %g 1/mm, anisotropy %g",
		soil.ID, soil.Conductivity, soil.Decay, soil.Anisotropy)

	res, err := groundwater.Compute(dem, accum, dirs, soil, groundwater.Params{
		BasinArea:        float64(args.Area),
		Baseflow:         float64(args.Baseflow),
		BaseflowZero:     float64(args.Baseflow0),
		ChannelThreshold: args.Threshold,
		AvgDepth:         float64(args.AvgDepth),
		Window:           grid.Window(args.Window),
		SmoothPasses:     args.Passes,
		BurnStreams:      args.Burn,
	}, logger)
	if err != nil {
		return err
	}

	for _, bs := range res.BinStats {
		if bs.Cells == 0 {
			continue
		}
		logger.Infof("area %4d: %5d cells, mean ln(a/tanb) %8.4f, std %8.4f",
			bs.Area, bs.Cells, bs.Mean, bs.Std)
	}

	outputs := []struct {
		suffix string
		r      *grid.Raster
	}{
		{"_GWTdepth.asc", res.Depth},
		{"_GWTabs.asc", res.Absolute},
		{"_depth_instream.asc", res.StreamDepth},
		{"_occurrence.asc", res.Occurrence},
	}
	for _, out := range outputs {
		fn := filepath.Join(args.OutDir, args.Prefix+out.suffix)
		if err := grid.WriteASCII(fn, out.r); err != nil {
			return err
		}
		logger.Infof("wrote %q", fn)
	}

	fn := filepath.Join(args.OutDir, args.Prefix+"_MeanStd.hist")
	if err := writeBinStats(fn, res.BinStats); err != nil {
		return err
	}
	logger.Infof("wrote %q", fn)
	return nil
}

// writeBinStats writes the per contributing area bin statistics as a
// whitespace separated table.
func writeBinStats(fn string, bins []groundwater.BinStat) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "area cells samples mean std"); err != nil {
		return err
	}
	for _, bs := range bins {
		if _, err := fmt.Fprintf(w, "%d %d %d %g %g\n",
			bs.Area, bs.Cells, bs.Samples, bs.Mean, bs.Std); err != nil {
			return err
		}
	}
	return w.Flush()
}
