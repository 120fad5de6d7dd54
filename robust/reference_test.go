package robust

import (
	"math/big"

	"github.com/golang/geo/r2"
)

// Exact rational reference evaluations. Every finite float64 converts to a
// big.Rat without loss, and the predicate determinants are polynomials, so
// the rational results are exact and their signs are ground truth.

func rat(v float64) *big.Rat {
	return new(big.Rat).SetFloat64(v)
}

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// ratOf returns the exact value represented by an expansion.
func ratOf(e []float64) *big.Rat {
	sum := new(big.Rat)
	for _, comp := range e {
		sum.Add(sum, rat(comp))
	}
	return sum
}

func ratSub(a, b float64) *big.Rat {
	return new(big.Rat).Sub(rat(a), rat(b))
}

func ratOrient2D(a, b, c r2.Point) *big.Rat {
	acx := ratSub(a.X, c.X)
	bcx := ratSub(b.X, c.X)
	acy := ratSub(a.Y, c.Y)
	bcy := ratSub(b.Y, c.Y)
	left := new(big.Rat).Mul(acx, bcy)
	right := new(big.Rat).Mul(acy, bcx)
	return left.Sub(left, right)
}

func ratInCircle(a, b, c, d r2.Point) *big.Rat {
	adx := ratSub(a.X, d.X)
	ady := ratSub(a.Y, d.Y)
	bdx := ratSub(b.X, d.X)
	bdy := ratSub(b.Y, d.Y)
	cdx := ratSub(c.X, d.X)
	cdy := ratSub(c.Y, d.Y)

	lift := func(x, y *big.Rat) *big.Rat {
		xx := new(big.Rat).Mul(x, x)
		yy := new(big.Rat).Mul(y, y)
		return xx.Add(xx, yy)
	}
	minor := func(x1, y1, x2, y2 *big.Rat) *big.Rat {
		left := new(big.Rat).Mul(x1, y2)
		right := new(big.Rat).Mul(x2, y1)
		return left.Sub(left, right)
	}

	det := new(big.Rat).Mul(lift(adx, ady), minor(bdx, bdy, cdx, cdy))
	det.Add(det, new(big.Rat).Mul(lift(bdx, bdy), minor(cdx, cdy, adx, ady)))
	det.Add(det, new(big.Rat).Mul(lift(cdx, cdy), minor(adx, ady, bdx, bdy)))
	return det
}

func ratDiffOfProducts(a, b, c, d, e, f, g, h float64) *big.Rat {
	left := new(big.Rat).Mul(ratSub(a, b), ratSub(c, d))
	right := new(big.Rat).Mul(ratSub(e, f), ratSub(g, h))
	return left.Sub(left, right)
}

func signOf(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
