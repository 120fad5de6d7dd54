// Package grid provides dense ESRI ASCII rasters together with the D8
// flow direction conventions, bilinear sampling, and moving average
// smoothing used by the watershed initialization tools.
package grid

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Raster is a dense float64 grid in ESRI ASCII layout. Row 0 is the
// northernmost row and values are stored row major, so At(i, j) reads
// row i counted from the top and column j counted from the west edge.
type Raster struct {
	ncols int
	nrows int

	xll      float64
	yll      float64
	cellSize float64
	nodata   float64

	data [][]float64
}

// NewRaster allocates a raster of the given shape with every cell set
// to the nodata value. xll and yll locate the outer corner of the
// lower left cell.
func NewRaster(ncols, nrows int, xll, yll, cellSize, nodata float64) (*Raster, error) {
	if ncols <= 0 || nrows <= 0 {
		return nil, errors.Errorf("bad raster shape %dx%d", ncols, nrows)
	}
	if cellSize <= 0 {
		return nil, errors.Errorf("bad cell size %v", cellSize)
	}
	r := &Raster{
		ncols:    ncols,
		nrows:    nrows,
		xll:      xll,
		yll:      yll,
		cellSize: cellSize,
		nodata:   nodata,
	}
	r.data = make([][]float64, nrows)
	for i := range r.data {
		row := make([]float64, ncols)
		for j := range row {
			row[j] = nodata
		}
		r.data[i] = row
	}
	return r, nil
}

// NewRasterLike allocates an all nodata raster with the same shape and
// georeferencing as ref.
func NewRasterLike(ref *Raster) *Raster {
	r, err := NewRaster(ref.ncols, ref.nrows, ref.xll, ref.yll, ref.cellSize, ref.nodata)
	if err != nil {
		// ref was already validated
		panic(err)
	}
	return r
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := NewRasterLike(r)
	for i := range r.data {
		copy(out.data[i], r.data[i])
	}
	return out
}

func (r *Raster) Cols() int { return r.ncols }

func (r *Raster) Rows() int { return r.nrows }

func (r *Raster) CellSize() float64 { return r.cellSize }

func (r *Raster) NoData() float64 { return r.nodata }

// At returns the value at row i, column j.
func (r *Raster) At(i, j int) float64 {
	return r.data[i][j]
}

// Set stores v at row i, column j.
func (r *Raster) Set(i, j int, v float64) {
	r.data[i][j] = v
}

// InBounds reports whether row i, column j lies inside the grid.
func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < r.nrows && j < r.ncols
}

// IsNoData reports whether the cell at row i, column j holds the
// nodata value.
func (r *Raster) IsNoData(i, j int) bool {
	return r.data[i][j] == r.nodata
}

// SameShape reports whether o covers the same grid as r: identical
// dimensions, corner, and cell size.
func (r *Raster) SameShape(o *Raster) bool {
	return r.ncols == o.ncols && r.nrows == o.nrows &&
		r.xll == o.xll && r.yll == o.yll && r.cellSize == o.cellSize
}

// Bounds returns the lower left and upper right corners of the grid
// extent in world coordinates.
func (r *Raster) Bounds() (r2.Point, r2.Point) {
	ur := r2.Point{
		X: r.xll + float64(r.ncols)*r.cellSize,
		Y: r.yll + float64(r.nrows)*r.cellSize,
	}
	return r2.Point{X: r.xll, Y: r.yll}, ur
}

// CellCenter returns the world coordinate of the center of cell (i, j).
func (r *Raster) CellCenter(i, j int) r2.Point {
	return r2.Point{
		X: r.xll + (float64(j)+0.5)*r.cellSize,
		Y: r.yll + (float64(r.nrows-1-i)+0.5)*r.cellSize,
	}
}

// CellAt returns the row and column of the cell containing the world
// coordinate p. ok is false when p falls outside the grid extent.
func (r *Raster) CellAt(p r2.Point) (i, j int, ok bool) {
	fx := (p.X - r.xll) / r.cellSize
	fy := (p.Y - r.yll) / r.cellSize
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	j = int(fx)
	i = r.nrows - 1 - int(fy)
	if !r.InBounds(i, j) {
		return 0, 0, false
	}
	return i, j, true
}

// ValidCount returns the number of cells holding data.
func (r *Raster) ValidCount() int {
	n := 0
	for i := 0; i < r.nrows; i++ {
		for j := 0; j < r.ncols; j++ {
			if r.data[i][j] != r.nodata {
				n++
			}
		}
	}
	return n
}

// MinMax returns the smallest and largest data values. ok is false
// when every cell is nodata.
func (r *Raster) MinMax() (min, max float64, ok bool) {
	for i := 0; i < r.nrows; i++ {
		for j := 0; j < r.ncols; j++ {
			v := r.data[i][j]
			if v == r.nodata {
				continue
			}
			if !ok {
				min, max = v, v
				ok = true
				continue
			}
			if v < min {
				min = v
			} else if v > max {
				max = v
			}
		}
	}
	return min, max, ok
}

// Fill sets every data cell to v, leaving nodata cells alone.
func (r *Raster) Fill(v float64) {
	for i := 0; i < r.nrows; i++ {
		for j := 0; j < r.ncols; j++ {
			if r.data[i][j] != r.nodata {
				r.data[i][j] = v
			}
		}
	}
}
