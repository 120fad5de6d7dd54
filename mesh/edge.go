package mesh

import (
	"math"

	"github.com/golang/geo/r2"
)

// Edge is a directed edge from Org to Dest. Every mesh edge appears twice,
// once per direction. CCW links the next spoke counterclockwise around Org.
type Edge struct {
	ID        int
	Org, Dest *Node
	CCW       *Edge
	// VEdgLen is the length of the Voronoi cell side shared by Org and
	// Dest; it scales flux across this edge.
	VEdgLen float64
}

// Len returns the planform length of the edge.
func (e *Edge) Len() float64 {
	return Distance(e.Org.XY(), e.Dest.XY())
}

// Slope returns the drop from origin to destination per unit planform
// length. A zero-length edge has zero slope.
func (e *Edge) Slope() float64 {
	length := e.Len()
	if length == 0 {
		return 0
	}
	return (e.Org.Z() - e.Dest.Z()) / length
}

// UnitVector returns the planform direction of the edge. A zero-length edge
// yields the zero vector.
func (e *Edge) UnitVector() r2.Point {
	d := e.Dest.XY().Sub(e.Org.XY())
	norm := math.Hypot(d.X, d.Y)
	if norm == 0 {
		return r2.Point{}
	}
	return r2.Point{X: d.X / norm, Y: d.Y / norm}
}

// FlowAllowed reports whether flux may cross this edge: the origin must be
// active and the destination must not sit on a closed boundary.
func (e *Edge) FlowAllowed() bool {
	return e.Org.Active() && e.Dest.Boundary != ClosedBoundary
}
