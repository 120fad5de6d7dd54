package mesh

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/hydromesh/hydromesh/robust"
)

// Triangle is one face of the network. P holds the corner nodes in
// counterclockwise order, E[i] is the edge from P[i] to P[(i+1)%3], and
// T[i] is the neighbor across from P[i] (nil along the boundary).
type Triangle struct {
	ID int
	P  [3]*Node
	E  [3]*Edge
	T  [3]*Triangle
}

// CCW reports whether the corners are in counterclockwise order.
func (tri *Triangle) CCW() bool {
	return PointsCCW(tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY())
}

// Contains reports whether p lies inside the triangle or on its border.
func (tri *Triangle) Contains(p r2.Point) bool {
	a, b, c := tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY()
	return robust.Orient2D(a, b, p) >= 0 &&
		robust.Orient2D(b, c, p) >= 0 &&
		robust.Orient2D(c, a, p) >= 0
}

// Area returns the signed area, positive for counterclockwise corners.
func (tri *Triangle) Area() float64 {
	return 0.5 * robust.Orient2D(tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY())
}

// Circumcenter returns the center of the circle through the three corners.
// Degenerate triangles have no circumcircle.
func (tri *Triangle) Circumcenter() (r2.Point, error) {
	a, b, c := tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY()
	d := 2 * robust.Orient2D(a, b, c)
	if d == 0 {
		return r2.Point{}, errors.Errorf("triangle %d is degenerate", tri.ID)
	}
	al := a.X*a.X + a.Y*a.Y
	bl := b.X*b.X + b.Y*b.Y
	cl := c.X*c.X + c.Y*c.Y
	ux := (al*(b.Y-c.Y) + bl*(c.Y-a.Y) + cl*(a.Y-b.Y)) / d
	uy := (al*(c.X-b.X) + bl*(a.X-c.X) + cl*(b.X-a.X)) / d
	return r2.Point{X: ux, Y: uy}, nil
}

// Passes reports whether the triangle satisfies the Delaunay criterion with
// respect to p, that is whether p lies outside or on its circumcircle.
func (tri *Triangle) Passes(p r2.Point) bool {
	return TriPasses(p, tri.P[0].XY(), tri.P[1].XY(), tri.P[2].XY())
}
