package grid

import (
	"math"

	"github.com/golang/geo/r2"
)

// BilinearSample interpolates the raster at world coordinate p from
// the four surrounding cell centers. Corners that are nodata or lie
// outside the grid are dropped and the remaining weights renormalized,
// so points near the edge degrade toward the nearest valid cell. ok is
// false when p is outside the grid extent or no corner holds data.
func BilinearSample(r *Raster, p r2.Point) (float64, bool) {
	ll, ur := r.Bounds()
	if p.X < ll.X || p.X > ur.X || p.Y < ll.Y || p.Y > ur.Y {
		return 0, false
	}

	// continuous coordinates in cell center space, rows counted from
	// the bottom edge
	u := (p.X-r.xll)/r.cellSize - 0.5
	v := (p.Y-r.yll)/r.cellSize - 0.5
	j0 := int(math.Floor(u))
	b0 := int(math.Floor(v))
	fu := u - float64(j0)
	fv := v - float64(b0)

	var sum, wsum float64
	corner := func(j, b int, w float64) {
		if w == 0 {
			return
		}
		i := r.nrows - 1 - b
		if !r.InBounds(i, j) || r.IsNoData(i, j) {
			return
		}
		sum += w * r.data[i][j]
		wsum += w
	}
	corner(j0, b0, (1-fu)*(1-fv))
	corner(j0+1, b0, fu*(1-fv))
	corner(j0, b0+1, (1-fu)*fv)
	corner(j0+1, b0+1, fu*fv)

	if wsum == 0 {
		return 0, false
	}
	return sum / wsum, true
}
