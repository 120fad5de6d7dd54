package robust

import (
	"math"

	"github.com/golang/geo/r2"
)

// Refinement capacities. Every escalation folds a four-component correction
// into the running determinant expansion with a zero-eliminating sum, and a
// zero-eliminating sum never returns more components than its two inputs
// hold together, so the expansion grows from the four-component B by four
// per stage.
const (
	orientStage1Cap = 4 + 4
	orientStage2Cap = orientStage1Cap + 4
	orientExactCap  = orientStage2Cap + 4
)

// conclusive reports whether an approximate determinant lies far enough from
// zero, given the forward error bound of its computation, for its sign to be
// trusted.
func conclusive(det, errbound float64) bool {
	return det >= errbound || -det >= errbound
}

// Orient2D returns a positive value if the points a, b, and c occur in
// counterclockwise order, a negative value if they occur in clockwise order,
// and zero if they are collinear. The magnitude approximates twice the
// signed area of the triangle abc; the sign is always exact.
func (eng *Engine) Orient2D(a, b, c r2.Point) float64 {
	detleft := float64((a.X - c.X) * (b.Y - c.Y))
	detright := float64((a.Y - c.Y) * (b.X - c.X))
	det := detleft - detright

	// When the two products disagree in sign, or either is zero, the
	// subtraction is benign and det can be returned as is.
	var detsum float64
	switch {
	case detleft > 0.0:
		if detright <= 0.0 {
			return det
		}
		detsum = detleft + detright
	case detleft < 0.0:
		if detright >= 0.0 {
			return det
		}
		detsum = -detleft - detright
	default:
		return det
	}

	if conclusive(det, eng.eb.orientA*detsum) {
		return det
	}
	return eng.orient2DAdapt(a, b, c, detsum)
}

// orient2DAdapt re-evaluates the orientation determinant in up to three
// further stages, each reusing the work of the one before: first the exact
// expansion B of the rounded difference products, then a cheap correction by
// the difference tails, and finally the fully exact expansion D whose top
// component settles the sign unconditionally.
func (eng *Engine) orient2DAdapt(a, b, c r2.Point, detsum float64) float64 {
	eng.orientAdapt.Add(1)
	eb := &eng.eb

	acx := a.X - c.X
	bcx := b.X - c.X
	acy := a.Y - c.Y
	bcy := b.Y - c.Y

	detleft, detlefttail := eb.twoProduct(acx, bcy)
	detright, detrighttail := eb.twoProduct(acy, bcx)
	detB := twoTwoDiff(detleft, detlefttail, detright, detrighttail)

	det := estimate(detB[:])
	if conclusive(det, eb.orientB*detsum) {
		return det
	}

	acxtail := twoDiffTail(a.X, c.X, acx)
	bcxtail := twoDiffTail(b.X, c.X, bcx)
	acytail := twoDiffTail(a.Y, c.Y, acy)
	bcytail := twoDiffTail(b.Y, c.Y, bcy)
	if acxtail == 0.0 && acytail == 0.0 && bcxtail == 0.0 && bcytail == 0.0 {
		// The coordinate differences were exact, so B already is the true
		// determinant.
		return det
	}

	errbound := eb.orientC*detsum + eb.resultErr*math.Abs(det)
	det += (float64(acx*bcytail) + float64(bcy*acxtail)) -
		(float64(acy*bcxtail) + float64(bcx*acytail))
	if conclusive(det, errbound) {
		return det
	}

	eng.orientExact.Add(1)

	var c1buf [orientStage1Cap]float64
	s1, s0 := eb.twoProduct(acxtail, bcy)
	t1, t0 := eb.twoProduct(acytail, bcx)
	u := twoTwoDiff(s1, s0, t1, t0)
	c1 := fastExpansionSumZeroElim(detB[:], u[:], c1buf[:])

	var c2buf [orientStage2Cap]float64
	s1, s0 = eb.twoProduct(acx, bcytail)
	t1, t0 = eb.twoProduct(acy, bcxtail)
	u = twoTwoDiff(s1, s0, t1, t0)
	c2 := fastExpansionSumZeroElim(c1, u[:], c2buf[:])

	var dbuf [orientExactCap]float64
	s1, s0 = eb.twoProduct(acxtail, bcytail)
	t1, t0 = eb.twoProduct(acytail, bcxtail)
	u = twoTwoDiff(s1, s0, t1, t0)
	d := fastExpansionSumZeroElim(c2, u[:], dbuf[:])

	return d[len(d)-1]
}
