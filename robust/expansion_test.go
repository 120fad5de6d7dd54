package robust

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

// randExpansion builds a valid expansion of up to eight components by running
// random inputs through the expansion algebra itself.
func randExpansion(r *rand.Rand, eb ErrorBounds) []float64 {
	p1, p0 := eb.twoProduct(randFloat(r), randFloat(r))
	q1, q0 := eb.twoProduct(randFloat(r), randFloat(r))
	seed := twoTwoDiff(p1, p0, q1, q0)
	if r.Intn(2) == 0 {
		out := make([]float64, 8)
		return eb.scaleExpansionZeroElim(seed[:], randFloat(r), out)
	}
	out := make([]float64, 4)
	copy(out, seed[:])
	return out
}

func noInternalZeros(e []float64) bool {
	if len(e) == 1 {
		return true
	}
	for _, comp := range e {
		if comp == 0 {
			return false
		}
	}
	return true
}

func TestGrowExpansion(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(10))
	for i := 0; i < 200; i++ {
		e := randExpansion(r, eb)
		b := randFloat(r)
		want := new(big.Rat).Add(ratOf(e), rat(b))

		var buf [9]float64
		h := growExpansion(e, b, buf[:])
		test.That(t, len(h), test.ShouldEqual, len(e)+1)
		test.That(t, ratOf(h).Cmp(want), test.ShouldEqual, 0)

		var zbuf [9]float64
		zh := growExpansionZeroElim(e, b, zbuf[:])
		test.That(t, len(zh), test.ShouldBeGreaterThanOrEqualTo, 1)
		test.That(t, noInternalZeros(zh), test.ShouldBeTrue)
		test.That(t, ratOf(zh).Cmp(want), test.ShouldEqual, 0)
	}
}

func TestExpansionSums(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		e := randExpansion(r, eb)
		f := randExpansion(r, eb)
		want := new(big.Rat).Add(ratOf(e), ratOf(f))

		var b1, b2, b3, b4, b5, b6, b7 [16]float64
		h := expansionSum(e, f, b1[:])
		test.That(t, ratOf(h).Cmp(want), test.ShouldEqual, 0)

		z1 := expansionSumZeroElim1(e, f, b2[:])
		test.That(t, noInternalZeros(z1), test.ShouldBeTrue)
		test.That(t, ratOf(z1).Cmp(want), test.ShouldEqual, 0)

		z2 := expansionSumZeroElim2(e, f, b3[:])
		test.That(t, noInternalZeros(z2), test.ShouldBeTrue)
		test.That(t, ratOf(z2).Cmp(want), test.ShouldEqual, 0)

		fh := fastExpansionSum(e, f, b4[:])
		test.That(t, ratOf(fh).Cmp(want), test.ShouldEqual, 0)

		fz := fastExpansionSumZeroElim(e, f, b5[:])
		test.That(t, noInternalZeros(fz), test.ShouldBeTrue)
		test.That(t, ratOf(fz).Cmp(want), test.ShouldEqual, 0)

		lh := linearExpansionSum(e, f, b6[:])
		test.That(t, ratOf(lh).Cmp(want), test.ShouldEqual, 0)

		lz := linearExpansionSumZeroElim(e, f, b7[:])
		test.That(t, noInternalZeros(lz), test.ShouldBeTrue)
		test.That(t, ratOf(lz).Cmp(want), test.ShouldEqual, 0)
	}
}

func TestExpansionSumCancellation(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(12))
	e := randExpansion(r, eb)
	neg := make([]float64, len(e))
	for i, comp := range e {
		neg[i] = -comp
	}

	// Total cancellation still yields a usable one-component expansion.
	var buf [16]float64
	h := fastExpansionSumZeroElim(e, neg, buf[:])
	test.That(t, h, test.ShouldResemble, []float64{0})

	var lbuf [16]float64
	lh := linearExpansionSumZeroElim(e, neg, lbuf[:])
	test.That(t, lh, test.ShouldResemble, []float64{0})

	var gbuf [9]float64
	gh := growExpansionZeroElim(e[:1], -e[0], gbuf[:])
	test.That(t, gh, test.ShouldResemble, []float64{0})
}

func TestScaleExpansion(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(13))
	for i := 0; i < 200; i++ {
		e := randExpansion(r, eb)
		b := randFloat(r)
		want := new(big.Rat).Mul(ratOf(e), rat(b))

		var buf [16]float64
		h := eb.scaleExpansion(e, b, buf[:])
		test.That(t, len(h), test.ShouldEqual, 2*len(e))
		test.That(t, ratOf(h).Cmp(want), test.ShouldEqual, 0)

		var zbuf [16]float64
		zh := eb.scaleExpansionZeroElim(e, b, zbuf[:])
		test.That(t, len(zh), test.ShouldBeGreaterThanOrEqualTo, 1)
		test.That(t, noInternalZeros(zh), test.ShouldBeTrue)
		test.That(t, ratOf(zh).Cmp(want), test.ShouldEqual, 0)
	}
}

func TestCompress(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(14))
	for i := 0; i < 200; i++ {
		e := randExpansion(r, eb)
		want := ratOf(e)
		approx, _ := want.Float64()

		var buf [16]float64
		h := compress(e, buf[:])
		test.That(t, len(h), test.ShouldBeLessThanOrEqualTo, len(e))
		test.That(t, ratOf(h).Cmp(want), test.ShouldEqual, 0)

		// The top component approximates the whole expansion to high
		// relative accuracy.
		top := h[len(h)-1]
		if approx == 0 {
			test.That(t, top, test.ShouldEqual, 0.0)
		} else {
			relErr := math.Abs(top-approx) / math.Abs(approx)
			test.That(t, relErr, test.ShouldBeLessThan, 1e-15)
		}

		// Compressing in place is allowed.
		inPlace := make([]float64, len(e))
		copy(inPlace, e)
		ih := compress(inPlace, inPlace)
		test.That(t, ratOf(ih).Cmp(want), test.ShouldEqual, 0)
	}
}

func TestEstimate(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(15))
	for i := 0; i < 200; i++ {
		e := randExpansion(r, eb)
		approx, _ := ratOf(e).Float64()
		est := estimate(e)
		if approx == 0 {
			test.That(t, est, test.ShouldEqual, 0.0)
			continue
		}
		relErr := math.Abs(est-approx) / math.Abs(approx)
		test.That(t, relErr, test.ShouldBeLessThan, 1e-12)
	}
}
