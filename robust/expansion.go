package robust

// An expansion is a slice of float64 components ordered by increasing
// magnitude whose exact sum is the value it represents. Components never
// overlap in significand bits, so the most significant component alone
// determines the sign. The operations below write into a caller-supplied
// destination slice and return the filled prefix; destinations must not
// alias the inputs except where noted. Capacity requirements are simple:
// adding expansions of m and n components needs m+n, scaling an
// n-component expansion needs 2n.
//
// The merge-based sums order their picks with the test
// (fnow > enow) == (fnow > -enow), true exactly when enow has the smaller
// magnitude, which dodges the two calls to math.Abs a direct comparison
// would need.
//
// Variants suffixed ZeroElim drop zero components as they go and always
// return at least one component, a single 0.0 when everything cancels.

// growExpansion adds the scalar b to expansion e, writing len(e)+1
// components into h.
func growExpansion(e []float64, b float64, h []float64) []float64 {
	q := b
	for eindex, enow := range e {
		q, h[eindex] = twoSum(q, enow)
	}
	h[len(e)] = q
	return h[:len(e)+1]
}

// growExpansionZeroElim adds the scalar b to expansion e, dropping zero
// components from the result.
func growExpansionZeroElim(e []float64, b float64, h []float64) []float64 {
	hindex := 0
	q := b
	for _, enow := range e {
		var hh float64
		q, hh = twoSum(q, enow)
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	if q != 0.0 || hindex == 0 {
		h[hindex] = q
		hindex++
	}
	return h[:hindex]
}

// expansionSum adds expansions e and f by repeated scalar growth, writing
// len(e)+len(f) components into h. Slower than fastExpansionSum but
// preserves the nonoverlapping invariant without requiring strong
// nonoverlap of its inputs.
func expansionSum(e, f []float64, h []float64) []float64 {
	q := f[0]
	for hindex, enow := range e {
		q, h[hindex] = twoSum(q, enow)
	}
	h[len(e)] = q
	hlast := len(e)
	for findex := 1; findex < len(f); findex++ {
		q = f[findex]
		for hindex := findex; hindex <= hlast; hindex++ {
			q, h[hindex] = twoSum(q, h[hindex])
		}
		hlast++
		h[hlast] = q
	}
	return h[:hlast+1]
}

// expansionSumZeroElim1 is expansionSum followed by a separate pass that
// squeezes out zero components.
func expansionSumZeroElim1(e, f []float64, h []float64) []float64 {
	full := expansionSum(e, f, h)
	hindex := 0
	for _, hnow := range full {
		if hnow != 0.0 {
			h[hindex] = hnow
			hindex++
		}
	}
	if hindex == 0 {
		return h[:1]
	}
	return h[:hindex]
}

// expansionSumZeroElim2 is expansionSum with zero components dropped during
// every growth pass rather than at the end.
func expansionSumZeroElim2(e, f []float64, h []float64) []float64 {
	hindex := 0
	q := f[0]
	for _, enow := range e {
		var hh float64
		q, hh = twoSum(q, enow)
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	h[hindex] = q
	hlast := hindex
	for findex := 1; findex < len(f); findex++ {
		hindex = 0
		q = f[findex]
		for eindex := 0; eindex <= hlast; eindex++ {
			var hh float64
			q, hh = twoSum(q, h[eindex])
			if hh != 0.0 {
				h[hindex] = hh
				hindex++
			}
		}
		h[hindex] = q
		hlast = hindex
	}
	return h[:hlast+1]
}

// fastExpansionSum merges expansions e and f by magnitude and sums along the
// merged order, writing len(e)+len(f) components into h. Requires strongly
// nonoverlapping inputs, which every expansion produced by this package
// satisfies.
func fastExpansionSum(e, f []float64, h []float64) []float64 {
	var q float64
	eindex, findex := 0, 0
	if (f[0] > e[0]) == (f[0] > -e[0]) {
		q = e[0]
		eindex++
	} else {
		q = f[0]
		findex++
	}
	hindex := 0
	if eindex < len(e) && findex < len(f) {
		enow, fnow := e[eindex], f[findex]
		if (fnow > enow) == (fnow > -enow) {
			q, h[0] = fastTwoSum(enow, q)
			eindex++
		} else {
			q, h[0] = fastTwoSum(fnow, q)
			findex++
		}
		hindex = 1
		for eindex < len(e) && findex < len(f) {
			enow, fnow = e[eindex], f[findex]
			if (fnow > enow) == (fnow > -enow) {
				q, h[hindex] = twoSum(q, enow)
				eindex++
			} else {
				q, h[hindex] = twoSum(q, fnow)
				findex++
			}
			hindex++
		}
	}
	for ; eindex < len(e); eindex++ {
		q, h[hindex] = twoSum(q, e[eindex])
		hindex++
	}
	for ; findex < len(f); findex++ {
		q, h[hindex] = twoSum(q, f[findex])
		hindex++
	}
	h[hindex] = q
	return h[:hindex+1]
}

// fastExpansionSumZeroElim is fastExpansionSum with zero components dropped
// as they are produced. This is the workhorse of both predicates.
func fastExpansionSumZeroElim(e, f []float64, h []float64) []float64 {
	var q, hh float64
	eindex, findex := 0, 0
	if (f[0] > e[0]) == (f[0] > -e[0]) {
		q = e[0]
		eindex++
	} else {
		q = f[0]
		findex++
	}
	hindex := 0
	if eindex < len(e) && findex < len(f) {
		enow, fnow := e[eindex], f[findex]
		if (fnow > enow) == (fnow > -enow) {
			q, hh = fastTwoSum(enow, q)
			eindex++
		} else {
			q, hh = fastTwoSum(fnow, q)
			findex++
		}
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
		for eindex < len(e) && findex < len(f) {
			enow, fnow = e[eindex], f[findex]
			if (fnow > enow) == (fnow > -enow) {
				q, hh = twoSum(q, enow)
				eindex++
			} else {
				q, hh = twoSum(q, fnow)
				findex++
			}
			if hh != 0.0 {
				h[hindex] = hh
				hindex++
			}
		}
	}
	for ; eindex < len(e); eindex++ {
		q, hh = twoSum(q, e[eindex])
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	for ; findex < len(f); findex++ {
		q, hh = twoSum(q, f[findex])
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	if q != 0.0 || hindex == 0 {
		h[hindex] = q
		hindex++
	}
	return h[:hindex]
}

// linearExpansionSum merges and sums e and f in a single linear pass,
// carrying a two-component accumulator. Works for any nonoverlapping
// inputs.
func linearExpansionSum(e, f []float64, h []float64) []float64 {
	elen, flen := len(e), len(f)
	eindex, findex := 0, 0
	var g0 float64
	if (f[0] > e[0]) == (f[0] > -e[0]) {
		g0 = e[0]
		eindex++
	} else {
		g0 = f[0]
		findex++
	}
	var q, lo float64
	if eindex < elen && (findex >= flen ||
		(f[findex] > e[eindex]) == (f[findex] > -e[eindex])) {
		q, lo = fastTwoSum(e[eindex], g0)
		eindex++
	} else {
		q, lo = fastTwoSum(f[findex], g0)
		findex++
	}
	hindex := 0
	for ; hindex < elen+flen-2; hindex++ {
		var r float64
		if eindex < elen && (findex >= flen ||
			(f[findex] > e[eindex]) == (f[findex] > -e[eindex])) {
			r, h[hindex] = fastTwoSum(e[eindex], lo)
			eindex++
		} else {
			r, h[hindex] = fastTwoSum(f[findex], lo)
			findex++
		}
		q, lo = twoSum(q, r)
	}
	h[hindex] = lo
	h[hindex+1] = q
	return h[:hindex+2]
}

// linearExpansionSumZeroElim is linearExpansionSum with zero components
// dropped as they are produced.
func linearExpansionSumZeroElim(e, f []float64, h []float64) []float64 {
	elen, flen := len(e), len(f)
	eindex, findex := 0, 0
	hindex := 0
	var g0 float64
	if (f[0] > e[0]) == (f[0] > -e[0]) {
		g0 = e[0]
		eindex++
	} else {
		g0 = f[0]
		findex++
	}
	var q, lo float64
	if eindex < elen && (findex >= flen ||
		(f[findex] > e[eindex]) == (f[findex] > -e[eindex])) {
		q, lo = fastTwoSum(e[eindex], g0)
		eindex++
	} else {
		q, lo = fastTwoSum(f[findex], g0)
		findex++
	}
	for count := 2; count < elen+flen; count++ {
		var r, hh float64
		if eindex < elen && (findex >= flen ||
			(f[findex] > e[eindex]) == (f[findex] > -e[eindex])) {
			r, hh = fastTwoSum(e[eindex], lo)
			eindex++
		} else {
			r, hh = fastTwoSum(f[findex], lo)
			findex++
		}
		q, lo = twoSum(q, r)
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	if lo != 0.0 {
		h[hindex] = lo
		hindex++
	}
	if q != 0.0 || hindex == 0 {
		h[hindex] = q
		hindex++
	}
	return h[:hindex]
}

// scaleExpansion multiplies expansion e by the scalar b, writing 2*len(e)
// components into h.
func (eb *ErrorBounds) scaleExpansion(e []float64, b float64, h []float64) []float64 {
	bhi, blo := eb.split(b)
	var q float64
	q, h[0] = eb.twoProductPresplit(e[0], b, bhi, blo)
	hindex := 1
	for eindex := 1; eindex < len(e); eindex++ {
		product1, product0 := eb.twoProductPresplit(e[eindex], b, bhi, blo)
		var sum float64
		sum, h[hindex] = twoSum(q, product0)
		hindex++
		q, h[hindex] = twoSum(product1, sum)
		hindex++
	}
	h[hindex] = q
	return h[:hindex+1]
}

// scaleExpansionZeroElim multiplies expansion e by the scalar b, dropping
// zero components from the result.
func (eb *ErrorBounds) scaleExpansionZeroElim(e []float64, b float64, h []float64) []float64 {
	bhi, blo := eb.split(b)
	q, hh := eb.twoProductPresplit(e[0], b, bhi, blo)
	hindex := 0
	if hh != 0.0 {
		h[hindex] = hh
		hindex++
	}
	for eindex := 1; eindex < len(e); eindex++ {
		product1, product0 := eb.twoProductPresplit(e[eindex], b, bhi, blo)
		var sum float64
		sum, hh = twoSum(q, product0)
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
		q, hh = fastTwoSum(product1, sum)
		if hh != 0.0 {
			h[hindex] = hh
			hindex++
		}
	}
	if q != 0.0 || hindex == 0 {
		h[hindex] = q
		hindex++
	}
	return h[:hindex]
}

// compress squeezes an expansion to its shortest nonoverlapping form, at
// most len(e) components written into h. h may alias e. The most
// significant component of the result is a good approximation of the whole
// expansion's value.
func compress(e []float64, h []float64) []float64 {
	bottom := len(e) - 1
	q := e[bottom]
	for eindex := len(e) - 2; eindex >= 0; eindex-- {
		qnew, small := fastTwoSum(q, e[eindex])
		if small != 0 {
			h[bottom] = qnew
			bottom--
			q = small
		} else {
			q = qnew
		}
	}
	top := 0
	for hindex := bottom + 1; hindex < len(e); hindex++ {
		qnew, small := fastTwoSum(h[hindex], q)
		if small != 0 {
			h[top] = small
			top++
		}
		q = qnew
	}
	h[top] = q
	return h[:top+1]
}

// estimate returns a one-word approximation of an expansion's value, summed
// least significant first.
func estimate(e []float64) float64 {
	q := e[0]
	for _, enow := range e[1:] {
		q += enow
	}
	return q
}
