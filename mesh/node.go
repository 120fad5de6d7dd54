// Package mesh provides the elements of a triangulated irregular network:
// nodes, directed spoke edges, triangles, and the active/boundary
// partitioned lists that hold them during a simulation.
package mesh

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// BoundaryFlag classifies a node's role along the network boundary.
type BoundaryFlag int

const (
	// NonBoundary marks an interior node subject to active processes.
	NonBoundary BoundaryFlag = iota
	// ClosedBoundary marks a node along an impermeable boundary.
	ClosedBoundary
	// OpenBoundary marks a node where flow may exit the network.
	OpenBoundary
	// Stream marks a channel node. Stream nodes stay active.
	Stream
)

// Active reports whether a node with this flag participates in active
// processes. Interior and stream nodes do; boundary nodes do not.
func (f BoundaryFlag) Active() bool {
	return f == NonBoundary || f == Stream
}

func (f BoundaryFlag) String() string {
	switch f {
	case NonBoundary:
		return "interior"
	case ClosedBoundary:
		return "closed-boundary"
	case OpenBoundary:
		return "open-boundary"
	case Stream:
		return "stream"
	default:
		return "unknown"
	}
}

// Node is a single vertex of the network. Edg points at one outgoing spoke;
// the rest are reached by following the counterclockwise spoke ring.
type Node struct {
	ID       int
	Loc      r3.Vector
	Boundary BoundaryFlag
	Edg      *Edge
	// VArea is the area of the node's Voronoi polygon.
	VArea float64
}

// XY projects the node onto the horizontal plane.
func (n *Node) XY() r2.Point {
	return r2.Point{X: n.Loc.X, Y: n.Loc.Y}
}

// Z returns the node elevation.
func (n *Node) Z() float64 {
	return n.Loc.Z
}

// Active reports whether the node participates in active processes.
func (n *Node) Active() bool {
	return n.Boundary.Active()
}

// EachSpoke calls fn for every outgoing edge in counterclockwise order,
// starting at Edg, until fn returns false or the ring closes.
func (n *Node) EachSpoke(fn func(*Edge) bool) {
	e := n.Edg
	if e == nil {
		return
	}
	for {
		if !fn(e) {
			return
		}
		e = e.CCW
		if e == nil || e == n.Edg {
			return
		}
	}
}

// SpokeDegree counts the outgoing edges around the node.
func (n *Node) SpokeDegree() int {
	degree := 0
	n.EachSpoke(func(*Edge) bool {
		degree++
		return true
	})
	return degree
}
