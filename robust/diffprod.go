package robust

import "math"

// DiffOfProducts returns (a-b)*(c-d) - (e-f)*(g-h) with an exactly correct
// sign. The expression is the orientation determinant with its coordinate
// differences exposed as free terms, which makes it the right tool for exact
// segment crossing tests where the differences do not share a common point.
func (eng *Engine) DiffOfProducts(a, b, c, d, e, f, g, h float64) float64 {
	left := float64((a - b) * (c - d))
	right := float64((e - f) * (g - h))
	diff := left - right

	var sum float64
	switch {
	case left > 0.0:
		if right <= 0.0 {
			return diff
		}
		sum = left + right
	case left < 0.0:
		if right >= 0.0 {
			return diff
		}
		sum = -left - right
	default:
		return diff
	}

	if conclusive(diff, eng.eb.orientA*sum) {
		return diff
	}
	return eng.diffOfProductsAdapt(a, b, c, d, e, f, g, h, sum)
}

// diffOfProductsAdapt mirrors orient2DAdapt over the four free differences,
// with the same escalation stages and the same error bound coefficients.
func (eng *Engine) diffOfProductsAdapt(a, b, c, d, e, f, g, h, sum float64) float64 {
	eng.diffAdapt.Add(1)
	eb := &eng.eb

	diff1 := a - b
	diff2 := c - d
	diff3 := e - f
	diff4 := g - h

	left, lefttail := eb.twoProduct(diff1, diff2)
	right, righttail := eb.twoProduct(diff3, diff4)
	detB := twoTwoDiff(left, lefttail, right, righttail)

	diff := estimate(detB[:])
	if conclusive(diff, eb.orientB*sum) {
		return diff
	}

	diff1tail := twoDiffTail(a, b, diff1)
	diff2tail := twoDiffTail(c, d, diff2)
	diff3tail := twoDiffTail(e, f, diff3)
	diff4tail := twoDiffTail(g, h, diff4)
	if diff1tail == 0.0 && diff2tail == 0.0 && diff3tail == 0.0 && diff4tail == 0.0 {
		return diff
	}

	errbound := eb.orientC*sum + eb.resultErr*math.Abs(diff)
	diff += (float64(diff1*diff2tail) + float64(diff2*diff1tail)) -
		(float64(diff3*diff4tail) + float64(diff4*diff3tail))
	if conclusive(diff, errbound) {
		return diff
	}

	eng.diffExact.Add(1)

	var c1buf [orientStage1Cap]float64
	s1, s0 := eb.twoProduct(diff1tail, diff2)
	t1, t0 := eb.twoProduct(diff3tail, diff4)
	u := twoTwoDiff(s1, s0, t1, t0)
	c1 := fastExpansionSumZeroElim(detB[:], u[:], c1buf[:])

	var c2buf [orientStage2Cap]float64
	s1, s0 = eb.twoProduct(diff1, diff2tail)
	t1, t0 = eb.twoProduct(diff3, diff4tail)
	u = twoTwoDiff(s1, s0, t1, t0)
	c2 := fastExpansionSumZeroElim(c1, u[:], c2buf[:])

	var dbuf [orientExactCap]float64
	s1, s0 = eb.twoProduct(diff1tail, diff2tail)
	t1, t0 = eb.twoProduct(diff3tail, diff4tail)
	u = twoTwoDiff(s1, s0, t1, t0)
	final := fastExpansionSumZeroElim(c2, u[:], dbuf[:])

	return final[len(final)-1]
}
