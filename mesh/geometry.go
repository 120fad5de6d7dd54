package mesh

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/hydromesh/hydromesh/robust"
)

// PointsCCW reports whether the three points wind counterclockwise.
func PointsCCW(p0, p1, p2 r2.Point) bool {
	return robust.Orient2D(p0, p1, p2) > 0
}

// TriPasses reports whether the counterclockwise triangle p0 p1 p2
// satisfies the Delaunay criterion with respect to test: the test point must
// lie outside or on the circumcircle.
func TriPasses(test, p0, p1, p2 r2.Point) bool {
	return robust.InCircle(p0, p1, p2, test) <= 0
}

// Distance returns the planform distance between two points.
func Distance(p, q r2.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// CosineAngle returns the cosine of the angle formed at p2 by the rays
// toward p0 and p1.
func CosineAngle(p0, p1, p2 r2.Point) float64 {
	u := p0.Sub(p2)
	v := p1.Sub(p2)
	nu := math.Hypot(u.X, u.Y)
	nv := math.Hypot(v.X, v.Y)
	if nu == 0 || nv == 0 {
		return 0
	}
	return (u.X*v.X + u.Y*v.Y) / (nu * nv)
}

func onSegment(p, q, r r2.Point) bool {
	return math.Min(p.X, r.X) <= q.X && q.X <= math.Max(p.X, r.X) &&
		math.Min(p.Y, r.Y) <= q.Y && q.Y <= math.Max(p.Y, r.Y)
}

// SegmentsIntersect reports whether segments a1 a2 and b1 b2 share a point.
// Endpoint touches and collinear overlaps count.
func SegmentsIntersect(a1, a2, b1, b2 r2.Point) bool {
	d1 := robust.Orient2D(b1, b2, a1)
	d2 := robust.Orient2D(b1, b2, a2)
	d3 := robust.Orient2D(a1, a2, b1)
	d4 := robust.Orient2D(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(b1, a1, b2):
		return true
	case d2 == 0 && onSegment(b1, a2, b2):
		return true
	case d3 == 0 && onSegment(a1, b1, a2):
		return true
	case d4 == 0 && onSegment(a1, b2, a2):
		return true
	}
	return false
}

// IntersectionPoint returns where the lines through a1 a2 and b1 b2 cross.
// The determinant test is exact, so parallel and coincident lines are
// detected reliably even when nearly so.
func IntersectionPoint(a1, a2, b1, b2 r2.Point) (r2.Point, error) {
	denom := robust.DiffOfProducts(a2.X, a1.X, b2.Y, b1.Y, a2.Y, a1.Y, b2.X, b1.X)
	if denom == 0 {
		return r2.Point{}, errors.New("segments are parallel or coincident")
	}
	tnum := (b1.X-a1.X)*(b2.Y-b1.Y) - (b1.Y-a1.Y)*(b2.X-b1.X)
	t := tnum / denom
	return r2.Point{
		X: a1.X + t*(a2.X-a1.X),
		Y: a1.Y + t*(a2.Y-a1.Y),
	}, nil
}

// LineFit linearly interpolates the value at nx along the line through
// (x1, y1) and (x2, y2).
func LineFit(x1, y1, x2, y2, nx float64) float64 {
	if x2 == x1 {
		return y1
	}
	return y1 + (nx-x1)*(y2-y1)/(x2-x1)
}

// PlaneFit evaluates, at (x, y), the plane through the three corner points
// with heights z. The plane coefficients come from solving the corner
// system directly.
func PlaneFit(x, y float64, p0, p1, p2 r2.Point, z [3]float64) (float64, error) {
	a := mat.NewDense(3, 3, []float64{
		1, p0.X, p0.Y,
		1, p1.X, p1.Y,
		1, p2.X, p2.Y,
	})
	b := mat.NewVecDense(3, []float64{z[0], z[1], z[2]})
	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return 0, errors.Wrap(err, "plane through corners is degenerate")
	}
	return coef.AtVec(0) + coef.AtVec(1)*x + coef.AtVec(2)*y, nil
}
