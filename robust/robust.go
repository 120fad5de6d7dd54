// Package robust implements adaptive-precision floating-point predicates for
// planar computational geometry.
//
// The predicates decide the orientation of a point triple and whether a point
// lies inside the circumcircle of a triangle. Both questions reduce to the
// sign of a small determinant, and evaluating that determinant naively in
// float64 can report the wrong sign when the input is nearly degenerate,
// which in turn corrupts any triangulation built on top of the answers. Each
// predicate therefore runs a fixed sequence of increasingly precise
// evaluations: an ordinary floating-point filter first, then partial
// corrections, and in the rare worst case an exact multi-component expansion
// of the determinant whose sign is provably correct. The techniques follow
// Shewchuk, "Adaptive Precision Floating-Point Arithmetic and Fast Robust
// Geometric Predicates" (Discrete & Computational Geometry 18, 1997).
//
// All predicates are pure and safe for concurrent use.
package robust

import (
	"sync"
	"sync/atomic"

	"github.com/golang/geo/r2"
)

// Engine evaluates the predicates against one immutable set of error bounds.
// It keeps counters of how often evaluations had to escalate past the
// floating-point filter, which is useful when judging how degenerate a given
// mesh's geometry is. Engines must be created with NewEngine.
type Engine struct {
	eb ErrorBounds

	orientAdapt   atomic.Uint64
	orientExact   atomic.Uint64
	incircleAdapt atomic.Uint64
	incircleExact atomic.Uint64
	diffAdapt     atomic.Uint64
	diffExact     atomic.Uint64
}

// NewEngine derives the machine error bounds and returns an engine ready for
// concurrent use.
func NewEngine() *Engine {
	return &Engine{eb: NewErrorBounds()}
}

// Bounds returns a copy of the engine's error bound table.
func (eng *Engine) Bounds() ErrorBounds {
	return eng.eb
}

// Stats is a snapshot of an engine's escalation counters. Adapt counts
// evaluations that failed the initial floating-point filter; Exact counts the
// subset that fell all the way through to the fully exact expansion.
type Stats struct {
	Orient2DAdapt       uint64
	Orient2DExact       uint64
	InCircleAdapt       uint64
	InCircleExact       uint64
	DiffOfProductsAdapt uint64
	DiffOfProductsExact uint64
}

// Stats returns a snapshot of the engine's escalation counters.
func (eng *Engine) Stats() Stats {
	return Stats{
		Orient2DAdapt:       eng.orientAdapt.Load(),
		Orient2DExact:       eng.orientExact.Load(),
		InCircleAdapt:       eng.incircleAdapt.Load(),
		InCircleExact:       eng.incircleExact.Load(),
		DiffOfProductsAdapt: eng.diffAdapt.Load(),
		DiffOfProductsExact: eng.diffExact.Load(),
	}
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

// Default returns the shared engine behind the package-level predicate
// functions, creating it on first use.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// Orient2D evaluates the orientation predicate on the shared engine.
func Orient2D(a, b, c r2.Point) float64 {
	return Default().Orient2D(a, b, c)
}

// InCircle evaluates the circumcircle predicate on the shared engine.
func InCircle(a, b, c, d r2.Point) float64 {
	return Default().InCircle(a, b, c, d)
}

// DiffOfProducts evaluates (a-b)(c-d) - (e-f)(g-h) on the shared engine.
func DiffOfProducts(a, b, c, d, e, f, g, h float64) float64 {
	return Default().DiffOfProducts(a, b, c, d, e, f, g, h)
}
