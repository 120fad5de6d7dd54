package robust

import (
	"math"

	"github.com/golang/geo/r2"
)

// Worst-case component counts for the exact stage of the circumcircle test.
// The running expansion is seeded with at most 96 components (the 64 of
// abdet plus the 32 of cdet) and then grows by at most the length of each
// folded correction: the six initial tail corrections contribute up to 48
// components apiece, and each of the three point rotations can fold another
// 144 along its x tail (48 + 16 + 16 + 64) and 112 along its y tail
// (48 + 64).
const (
	incircleSeedCap  = 64 + 32
	incircleExactCap = incircleSeedCap + 6*48 + 3*(144+112)
)

// accumulator folds exact corrections into a running determinant expansion.
// Each fold reads the current expansion from one scratch buffer and writes
// the sum into the other, so the two buffers strictly alternate and no fold
// ever reads the buffer it is writing.
type accumulator struct {
	scratch [2][incircleExactCap]float64
	cur     []float64
	next    int
}

func (ac *accumulator) seed(e, f []float64) {
	ac.cur = fastExpansionSumZeroElim(e, f, ac.scratch[0][:])
	ac.next = 1
}

func (ac *accumulator) fold(e []float64) {
	ac.cur = fastExpansionSumZeroElim(ac.cur, e, ac.scratch[ac.next][:])
	ac.next ^= 1
}

func (ac *accumulator) estimate() float64 {
	return estimate(ac.cur)
}

// top returns the most significant component, which alone carries the sign
// of the accumulated expansion.
func (ac *accumulator) top() float64 {
	return ac.cur[len(ac.cur)-1]
}

// InCircle returns a positive value if the point d lies inside the circle
// through a, b, and c, a negative value if it lies outside, and zero if the
// four points are cocircular. The points a, b, and c must be in
// counterclockwise order, or the sign of the result is reversed. The sign is
// always exact.
func (eng *Engine) InCircle(a, b, c, d r2.Point) float64 {
	adx := a.X - d.X
	bdx := b.X - d.X
	cdx := c.X - d.X
	ady := a.Y - d.Y
	bdy := b.Y - d.Y
	cdy := c.Y - d.Y

	bdxcdy := float64(bdx * cdy)
	cdxbdy := float64(cdx * bdy)
	alift := float64(adx*adx) + float64(ady*ady)

	cdxady := float64(cdx * ady)
	adxcdy := float64(adx * cdy)
	blift := float64(bdx*bdx) + float64(bdy*bdy)

	adxbdy := float64(adx * bdy)
	bdxady := float64(bdx * ady)
	clift := float64(cdx*cdx) + float64(cdy*cdy)

	det := float64(alift*(bdxcdy-cdxbdy)) +
		float64(blift*(cdxady-adxcdy)) +
		float64(clift*(adxbdy-bdxady))

	// The permanent replaces the determinant's cancelling sums with sums of
	// magnitudes, giving the scale against which roundoff is bounded.
	permanent := float64((math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift) +
		float64((math.Abs(cdxady)+math.Abs(adxcdy))*blift) +
		float64((math.Abs(adxbdy)+math.Abs(bdxady))*clift)
	errbound := eng.eb.incircleA * permanent
	if det > errbound || -det > errbound {
		return det
	}
	return eng.inCircleAdapt(a, b, c, d, permanent)
}

// inCircleAdapt re-evaluates the circumcircle determinant in up to three
// further stages. The first reuses exact 2x2 minors scaled by the rounded
// coordinate differences, the second corrects the estimate by the first-order
// contribution of the difference tails, and the last folds every remaining
// tail product into an exact expansion whose top component settles the sign.
func (eng *Engine) inCircleAdapt(a, b, c, d r2.Point, permanent float64) float64 {
	eng.incircleAdapt.Add(1)
	eb := &eng.eb

	adx := a.X - d.X
	bdx := b.X - d.X
	cdx := c.X - d.X
	ady := a.Y - d.Y
	bdy := b.Y - d.Y
	cdy := c.Y - d.Y

	var s8 [8]float64
	var s16a, s16b [16]float64

	// Row for a: the bc minor, exactly, scaled by adx twice and ady twice.
	bdxcdy1, bdxcdy0 := eb.twoProduct(bdx, cdy)
	cdxbdy1, cdxbdy0 := eb.twoProduct(cdx, bdy)
	bc := twoTwoDiff(bdxcdy1, bdxcdy0, cdxbdy1, cdxbdy0)

	var adetBuf [32]float64
	axbc := eb.scaleExpansionZeroElim(bc[:], adx, s8[:])
	axxbc := eb.scaleExpansionZeroElim(axbc, adx, s16a[:])
	aybc := eb.scaleExpansionZeroElim(bc[:], ady, s8[:])
	ayybc := eb.scaleExpansionZeroElim(aybc, ady, s16b[:])
	adet := fastExpansionSumZeroElim(axxbc, ayybc, adetBuf[:])

	cdxady1, cdxady0 := eb.twoProduct(cdx, ady)
	adxcdy1, adxcdy0 := eb.twoProduct(adx, cdy)
	ca := twoTwoDiff(cdxady1, cdxady0, adxcdy1, adxcdy0)

	var bdetBuf [32]float64
	bxca := eb.scaleExpansionZeroElim(ca[:], bdx, s8[:])
	bxxca := eb.scaleExpansionZeroElim(bxca, bdx, s16a[:])
	byca := eb.scaleExpansionZeroElim(ca[:], bdy, s8[:])
	byyca := eb.scaleExpansionZeroElim(byca, bdy, s16b[:])
	bdet := fastExpansionSumZeroElim(bxxca, byyca, bdetBuf[:])

	adxbdy1, adxbdy0 := eb.twoProduct(adx, bdy)
	bdxady1, bdxady0 := eb.twoProduct(bdx, ady)
	ab := twoTwoDiff(adxbdy1, adxbdy0, bdxady1, bdxady0)

	var cdetBuf [32]float64
	cxab := eb.scaleExpansionZeroElim(ab[:], cdx, s8[:])
	cxxab := eb.scaleExpansionZeroElim(cxab, cdx, s16a[:])
	cyab := eb.scaleExpansionZeroElim(ab[:], cdy, s8[:])
	cyyab := eb.scaleExpansionZeroElim(cyab, cdy, s16b[:])
	cdet := fastExpansionSumZeroElim(cxxab, cyyab, cdetBuf[:])

	var abdetBuf [64]float64
	abdet := fastExpansionSumZeroElim(adet, bdet, abdetBuf[:])

	var fin accumulator
	fin.seed(abdet, cdet)

	det := fin.estimate()
	if conclusive(det, eb.incircleB*permanent) {
		return det
	}

	adxtail := twoDiffTail(a.X, d.X, adx)
	adytail := twoDiffTail(a.Y, d.Y, ady)
	bdxtail := twoDiffTail(b.X, d.X, bdx)
	bdytail := twoDiffTail(b.Y, d.Y, bdy)
	cdxtail := twoDiffTail(c.X, d.X, cdx)
	cdytail := twoDiffTail(c.Y, d.Y, cdy)
	if adxtail == 0.0 && bdxtail == 0.0 && cdxtail == 0.0 &&
		adytail == 0.0 && bdytail == 0.0 && cdytail == 0.0 {
		return det
	}

	// First-order correction by the difference tails.
	errbound := eb.incircleC*permanent + eb.resultErr*math.Abs(det)
	alift := float64(adx*adx) + float64(ady*ady)
	blift := float64(bdx*bdx) + float64(bdy*bdy)
	clift := float64(cdx*cdx) + float64(cdy*cdy)
	adot := float64(adx*adxtail) + float64(ady*adytail)
	bdot := float64(bdx*bdxtail) + float64(bdy*bdytail)
	cdot := float64(cdx*cdxtail) + float64(cdy*cdytail)
	bcTail := float64(bdx*cdytail) + float64(cdy*bdxtail) -
		(float64(bdy*cdxtail) + float64(cdx*bdytail))
	caTail := float64(cdx*adytail) + float64(ady*cdxtail) -
		(float64(cdy*adxtail) + float64(adx*cdytail))
	abTail := float64(adx*bdytail) + float64(bdy*adxtail) -
		(float64(ady*bdxtail) + float64(bdx*adytail))
	bcCross := float64(bdx*cdy) - float64(bdy*cdx)
	caCross := float64(cdx*ady) - float64(cdy*adx)
	abCross := float64(adx*bdy) - float64(ady*bdx)
	det += (float64(alift*bcTail) + float64(2.0*adot*bcCross)) +
		(float64(blift*caTail) + float64(2.0*bdot*caCross)) +
		(float64(clift*abTail) + float64(2.0*cdot*abCross))
	if conclusive(det, errbound) {
		return det
	}

	eng.incircleExact.Add(1)

	// The exact stage. Squared lengths of the rounded differences are needed
	// whenever another point carries a tail.
	var aa, bb, cc [4]float64
	if bdxtail != 0.0 || bdytail != 0.0 || cdxtail != 0.0 || cdytail != 0.0 {
		adxadx1, adxadx0 := eb.square(adx)
		adyady1, adyady0 := eb.square(ady)
		aa = twoTwoSum(adxadx1, adxadx0, adyady1, adyady0)
	}
	if cdxtail != 0.0 || cdytail != 0.0 || adxtail != 0.0 || adytail != 0.0 {
		bdxbdx1, bdxbdx0 := eb.square(bdx)
		bdybdy1, bdybdy0 := eb.square(bdy)
		bb = twoTwoSum(bdxbdx1, bdxbdx0, bdybdy1, bdybdy0)
	}
	if adxtail != 0.0 || adytail != 0.0 || bdxtail != 0.0 || bdytail != 0.0 {
		cdxcdx1, cdxcdx0 := eb.square(cdx)
		cdycdy1, cdycdy0 := eb.square(cdy)
		cc = twoTwoSum(cdxcdx1, cdxcdx0, cdycdy1, cdycdy0)
	}

	var temp8 [8]float64
	var temp16a, temp16b, temp16c [16]float64
	var temp32a, temp32b [32]float64
	var temp48 [48]float64
	var temp64 [64]float64

	// One tail times one minor at a time, each correction weighted by the
	// matching rounded coordinate. The six scaled products are kept for the
	// second-order corrections below.
	var axtbcBuf, aytbcBuf, bxtcaBuf, bytcaBuf, cxtabBuf, cytabBuf [8]float64
	var axtbc, aytbc, bxtca, bytca, cxtab, cytab []float64

	if adxtail != 0.0 {
		axtbc = eb.scaleExpansionZeroElim(bc[:], adxtail, axtbcBuf[:])
		t16a := eb.scaleExpansionZeroElim(axtbc, 2.0*adx, temp16a[:])

		axtcc := eb.scaleExpansionZeroElim(cc[:], adxtail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(axtcc, bdy, temp16b[:])

		axtbb := eb.scaleExpansionZeroElim(bb[:], adxtail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(axtbb, -cdy, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}
	if adytail != 0.0 {
		aytbc = eb.scaleExpansionZeroElim(bc[:], adytail, aytbcBuf[:])
		t16a := eb.scaleExpansionZeroElim(aytbc, 2.0*ady, temp16a[:])

		aytbb := eb.scaleExpansionZeroElim(bb[:], adytail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(aytbb, cdx, temp16b[:])

		aytcc := eb.scaleExpansionZeroElim(cc[:], adytail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(aytcc, -bdx, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}
	if bdxtail != 0.0 {
		bxtca = eb.scaleExpansionZeroElim(ca[:], bdxtail, bxtcaBuf[:])
		t16a := eb.scaleExpansionZeroElim(bxtca, 2.0*bdx, temp16a[:])

		bxtaa := eb.scaleExpansionZeroElim(aa[:], bdxtail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(bxtaa, cdy, temp16b[:])

		bxtcc := eb.scaleExpansionZeroElim(cc[:], bdxtail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(bxtcc, -ady, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}
	if bdytail != 0.0 {
		bytca = eb.scaleExpansionZeroElim(ca[:], bdytail, bytcaBuf[:])
		t16a := eb.scaleExpansionZeroElim(bytca, 2.0*bdy, temp16a[:])

		bytcc := eb.scaleExpansionZeroElim(cc[:], bdytail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(bytcc, adx, temp16b[:])

		bytaa := eb.scaleExpansionZeroElim(aa[:], bdytail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(bytaa, -cdx, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}
	if cdxtail != 0.0 {
		cxtab = eb.scaleExpansionZeroElim(ab[:], cdxtail, cxtabBuf[:])
		t16a := eb.scaleExpansionZeroElim(cxtab, 2.0*cdx, temp16a[:])

		cxtbb := eb.scaleExpansionZeroElim(bb[:], cdxtail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(cxtbb, ady, temp16b[:])

		cxtaa := eb.scaleExpansionZeroElim(aa[:], cdxtail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(cxtaa, -bdy, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}
	if cdytail != 0.0 {
		cytab = eb.scaleExpansionZeroElim(ab[:], cdytail, cytabBuf[:])
		t16a := eb.scaleExpansionZeroElim(cytab, 2.0*cdy, temp16a[:])

		cytaa := eb.scaleExpansionZeroElim(aa[:], cdytail, temp8[:])
		t16b := eb.scaleExpansionZeroElim(cytaa, bdx, temp16b[:])

		cytbb := eb.scaleExpansionZeroElim(bb[:], cdytail, temp8[:])
		t16c := eb.scaleExpansionZeroElim(cytbb, -adx, temp16c[:])

		t32a := fastExpansionSumZeroElim(t16a, t16b, temp32a[:])
		t48 := fastExpansionSumZeroElim(t16c, t32a, temp48[:])
		fin.fold(t48)
	}

	// Second-order corrections, one point rotation at a time. For each
	// rotation the cross term of the other two points' tails enters once
	// scaled by the rounded coordinate and once by the tail itself.
	var crossBuf [8]float64
	var tbctBuf [16]float64
	var tbcttBuf [8]float64

	if adxtail != 0.0 || adytail != 0.0 {
		var bct, bctt []float64
		var bcttArr [4]float64
		if bdxtail != 0.0 || bdytail != 0.0 || cdxtail != 0.0 || cdytail != 0.0 {
			ti1, ti0 := eb.twoProduct(bdxtail, cdy)
			tj1, tj0 := eb.twoProduct(bdx, cdytail)
			u := twoTwoSum(ti1, ti0, tj1, tj0)
			ti1, ti0 = eb.twoProduct(cdxtail, -bdy)
			tj1, tj0 = eb.twoProduct(cdx, -bdytail)
			v := twoTwoSum(ti1, ti0, tj1, tj0)
			bct = fastExpansionSumZeroElim(u[:], v[:], crossBuf[:])

			ti1, ti0 = eb.twoProduct(bdxtail, cdytail)
			tj1, tj0 = eb.twoProduct(cdxtail, bdytail)
			bcttArr = twoTwoDiff(ti1, ti0, tj1, tj0)
			bctt = bcttArr[:]
		} else {
			crossBuf[0] = 0.0
			bct = crossBuf[:1]
			bcttArr[0] = 0.0
			bctt = bcttArr[:1]
		}

		if adxtail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(axtbc, adxtail, temp16a[:])
			axtbct := eb.scaleExpansionZeroElim(bct, adxtail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(axtbct, 2.0*adx, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			if bdytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(cc[:], adxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, bdytail, temp16a[:])
				fin.fold(t16)
			}
			if cdytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(bb[:], -adxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, cdytail, temp16a[:])
				fin.fold(t16)
			}

			t32a = eb.scaleExpansionZeroElim(axtbct, adxtail, temp32a[:])
			axtbctt := eb.scaleExpansionZeroElim(bctt, adxtail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(axtbctt, 2.0*adx, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(axtbctt, adxtail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
		if adytail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(aytbc, adytail, temp16a[:])
			aytbct := eb.scaleExpansionZeroElim(bct, adytail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(aytbct, 2.0*ady, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			t32a = eb.scaleExpansionZeroElim(aytbct, adytail, temp32a[:])
			aytbctt := eb.scaleExpansionZeroElim(bctt, adytail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(aytbctt, 2.0*ady, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(aytbctt, adytail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
	}

	if bdxtail != 0.0 || bdytail != 0.0 {
		var cat, catt []float64
		var cattArr [4]float64
		if cdxtail != 0.0 || cdytail != 0.0 || adxtail != 0.0 || adytail != 0.0 {
			ti1, ti0 := eb.twoProduct(cdxtail, ady)
			tj1, tj0 := eb.twoProduct(cdx, adytail)
			u := twoTwoSum(ti1, ti0, tj1, tj0)
			ti1, ti0 = eb.twoProduct(adxtail, -cdy)
			tj1, tj0 = eb.twoProduct(adx, -cdytail)
			v := twoTwoSum(ti1, ti0, tj1, tj0)
			cat = fastExpansionSumZeroElim(u[:], v[:], crossBuf[:])

			ti1, ti0 = eb.twoProduct(cdxtail, adytail)
			tj1, tj0 = eb.twoProduct(adxtail, cdytail)
			cattArr = twoTwoDiff(ti1, ti0, tj1, tj0)
			catt = cattArr[:]
		} else {
			crossBuf[0] = 0.0
			cat = crossBuf[:1]
			cattArr[0] = 0.0
			catt = cattArr[:1]
		}

		if bdxtail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(bxtca, bdxtail, temp16a[:])
			bxtcat := eb.scaleExpansionZeroElim(cat, bdxtail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(bxtcat, 2.0*bdx, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			if cdytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(aa[:], bdxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, cdytail, temp16a[:])
				fin.fold(t16)
			}
			if adytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(cc[:], -bdxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, adytail, temp16a[:])
				fin.fold(t16)
			}

			t32a = eb.scaleExpansionZeroElim(bxtcat, bdxtail, temp32a[:])
			bxtcatt := eb.scaleExpansionZeroElim(catt, bdxtail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(bxtcatt, 2.0*bdx, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(bxtcatt, bdxtail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
		if bdytail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(bytca, bdytail, temp16a[:])
			bytcat := eb.scaleExpansionZeroElim(cat, bdytail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(bytcat, 2.0*bdy, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			t32a = eb.scaleExpansionZeroElim(bytcat, bdytail, temp32a[:])
			bytcatt := eb.scaleExpansionZeroElim(catt, bdytail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(bytcatt, 2.0*bdy, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(bytcatt, bdytail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
	}

	if cdxtail != 0.0 || cdytail != 0.0 {
		var abt, abtt []float64
		var abttArr [4]float64
		if adxtail != 0.0 || adytail != 0.0 || bdxtail != 0.0 || bdytail != 0.0 {
			ti1, ti0 := eb.twoProduct(adxtail, bdy)
			tj1, tj0 := eb.twoProduct(adx, bdytail)
			u := twoTwoSum(ti1, ti0, tj1, tj0)
			ti1, ti0 = eb.twoProduct(bdxtail, -ady)
			tj1, tj0 = eb.twoProduct(bdx, -adytail)
			v := twoTwoSum(ti1, ti0, tj1, tj0)
			abt = fastExpansionSumZeroElim(u[:], v[:], crossBuf[:])

			ti1, ti0 = eb.twoProduct(adxtail, bdytail)
			tj1, tj0 = eb.twoProduct(bdxtail, adytail)
			abttArr = twoTwoDiff(ti1, ti0, tj1, tj0)
			abtt = abttArr[:]
		} else {
			crossBuf[0] = 0.0
			abt = crossBuf[:1]
			abttArr[0] = 0.0
			abtt = abttArr[:1]
		}

		if cdxtail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(cxtab, cdxtail, temp16a[:])
			cxtabt := eb.scaleExpansionZeroElim(abt, cdxtail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(cxtabt, 2.0*cdx, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			if adytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(bb[:], cdxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, adytail, temp16a[:])
				fin.fold(t16)
			}
			if bdytail != 0.0 {
				t8 := eb.scaleExpansionZeroElim(aa[:], -cdxtail, temp8[:])
				t16 := eb.scaleExpansionZeroElim(t8, bdytail, temp16a[:])
				fin.fold(t16)
			}

			t32a = eb.scaleExpansionZeroElim(cxtabt, cdxtail, temp32a[:])
			cxtabtt := eb.scaleExpansionZeroElim(abtt, cdxtail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(cxtabtt, 2.0*cdx, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(cxtabtt, cdxtail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
		if cdytail != 0.0 {
			t16a := eb.scaleExpansionZeroElim(cytab, cdytail, temp16a[:])
			cytabt := eb.scaleExpansionZeroElim(abt, cdytail, tbctBuf[:])
			t32a := eb.scaleExpansionZeroElim(cytabt, 2.0*cdy, temp32a[:])
			t48 := fastExpansionSumZeroElim(t16a, t32a, temp48[:])
			fin.fold(t48)

			t32a = eb.scaleExpansionZeroElim(cytabt, cdytail, temp32a[:])
			cytabtt := eb.scaleExpansionZeroElim(abtt, cdytail, tbcttBuf[:])
			t16a = eb.scaleExpansionZeroElim(cytabtt, 2.0*cdy, temp16a[:])
			t16b := eb.scaleExpansionZeroElim(cytabtt, cdytail, temp16b[:])
			t32b := fastExpansionSumZeroElim(t16a, t16b, temp32b[:])
			t64 := fastExpansionSumZeroElim(t32a, t32b, temp64[:])
			fin.fold(t64)
		}
	}

	return fin.top()
}
