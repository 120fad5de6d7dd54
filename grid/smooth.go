package grid

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Window is a square moving average window size.
type Window int

const (
	// Window3 averages over the 3x3 neighborhood.
	Window3 Window = 3
	// Window5 averages over the 5x5 neighborhood.
	Window5 Window = 5
)

// windowI and windowJ list neighbor offsets outward from the center
// cell: the eight cells of the 3x3 ring first, then the sixteen of the
// 5x5 ring. Index 0 is the center itself.
var (
	windowI = [25]int{0, 0, -1, -1, -1, 0, 1, 1, 1, 0, -1, -2, -2, -2, -2, -2, -1, 0, 1, 2, 2, 2, 2, 2, 1}
	windowJ = [25]int{0, 1, 1, 0, -1, -1, -1, 0, 1, 2, 2, 2, 1, 0, -1, -2, -2, -2, -2, -2, -1, 0, 1, 2, 2}
)

func (w Window) valid() bool {
	return w == Window3 || w == Window5
}

// Offsets returns the row and column offsets of the cells in the
// window, excluding the center.
func (w Window) Offsets() (di, dj []int) {
	n := int(w) * int(w)
	return windowI[1:n], windowJ[1:n]
}

// Weights returns the inverse distance weight of each offset cell,
// aligned with Offsets. The center cell carries an implicit weight of
// 1 and the weights are independent of cell size for square cells.
func (w Window) Weights() []float64 {
	di, dj := w.Offsets()
	weights := make([]float64, len(di))
	for k := range weights {
		weights[k] = 1 / math.Hypot(float64(di[k]), float64(dj[k]))
	}
	return weights
}

// Smooth returns a copy of r with passes rounds of inverse distance
// weighted moving average smoothing. Nodata cells keep their value and
// do not contribute to their neighbors' averages. Each pass reads the
// previous grid and writes a fresh one with rows running in parallel,
// so the output is deterministic.
func Smooth(r *Raster, w Window, passes int) (*Raster, error) {
	if !w.valid() {
		return nil, errors.Errorf("bad smoothing window %d", int(w))
	}
	if passes < 0 {
		return nil, errors.Errorf("bad smoothing pass count %d", passes)
	}

	di, dj := w.Offsets()
	weights := w.Weights()

	src := r.Clone()
	for p := 0; p < passes; p++ {
		dst := NewRasterLike(src)
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := 0; i < src.nrows; i++ {
			g.Go(func() error {
				smoothRow(src, dst, i, di, dj, weights)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		src = dst
	}
	return src, nil
}

func smoothRow(src, dst *Raster, i int, di, dj []int, weights []float64) {
	for j := 0; j < src.ncols; j++ {
		if src.IsNoData(i, j) {
			continue
		}
		total := src.data[i][j]
		wsum := 1.0
		for k := range di {
			ii, jj := i+di[k], j+dj[k]
			if !src.InBounds(ii, jj) || src.IsNoData(ii, jj) {
				continue
			}
			total += src.data[ii][jj] * weights[k]
			wsum += weights[k]
		}
		dst.data[i][j] = total / wsum
	}
}
