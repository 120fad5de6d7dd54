package robust

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

// randFloat spreads values over many binades so sums and products actually
// incur roundoff.
func randFloat(r *rand.Rand) float64 {
	return (r.Float64()*2.0 - 1.0) * math.Ldexp(1, r.Intn(60)-30)
}

func TestTwoSum(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a, b := randFloat(r), randFloat(r)
		x, y := twoSum(a, b)
		test.That(t, x, test.ShouldEqual, a+b)
		got := new(big.Rat).Add(rat(x), rat(y))
		want := new(big.Rat).Add(rat(a), rat(b))
		test.That(t, got.Cmp(want), test.ShouldEqual, 0)
	}
}

func TestFastTwoSum(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a, b := randFloat(r), randFloat(r)
		if math.Abs(a) < math.Abs(b) {
			a, b = b, a
		}
		x, y := fastTwoSum(a, b)
		test.That(t, x, test.ShouldEqual, a+b)
		got := new(big.Rat).Add(rat(x), rat(y))
		want := new(big.Rat).Add(rat(a), rat(b))
		test.That(t, got.Cmp(want), test.ShouldEqual, 0)
	}
}

func TestTwoDiff(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a, b := randFloat(r), randFloat(r)
		x, y := twoDiff(a, b)
		test.That(t, x, test.ShouldEqual, a-b)
		test.That(t, twoDiffTail(a, b, x), test.ShouldEqual, y)
		got := new(big.Rat).Add(rat(x), rat(y))
		want := ratSub(a, b)
		test.That(t, got.Cmp(want), test.ShouldEqual, 0)
	}
}

func TestSplit(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		a := randFloat(r)
		hi, lo := eb.split(a)
		test.That(t, hi+lo, test.ShouldEqual, a)
		// Each half carries few enough bits that squaring it is exact.
		hiSq := new(big.Rat).Mul(rat(hi), rat(hi))
		test.That(t, rat(hi*hi).Cmp(hiSq), test.ShouldEqual, 0)
		loSq := new(big.Rat).Mul(rat(lo), rat(lo))
		test.That(t, rat(lo*lo).Cmp(loSq), test.ShouldEqual, 0)
	}
}

func TestTwoProduct(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 500; i++ {
		a, b := randFloat(r), randFloat(r)
		x, y := eb.twoProduct(a, b)
		test.That(t, x, test.ShouldEqual, a*b)
		got := new(big.Rat).Add(rat(x), rat(y))
		want := new(big.Rat).Mul(rat(a), rat(b))
		test.That(t, got.Cmp(want), test.ShouldEqual, 0)

		bhi, blo := eb.split(b)
		px, py := eb.twoProductPresplit(a, b, bhi, blo)
		test.That(t, px, test.ShouldEqual, x)
		test.That(t, py, test.ShouldEqual, y)
	}
}

func TestSquare(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(6))
	for i := 0; i < 500; i++ {
		a := randFloat(r)
		x, y := eb.square(a)
		px, py := eb.twoProduct(a, a)
		test.That(t, x, test.ShouldEqual, px)
		test.That(t, y, test.ShouldEqual, py)
		got := new(big.Rat).Add(rat(x), rat(y))
		want := new(big.Rat).Mul(rat(a), rat(a))
		test.That(t, got.Cmp(want), test.ShouldEqual, 0)
	}
}

func TestTwoTwoArithmetic(t *testing.T) {
	eb := NewErrorBounds()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a1, a0 := eb.twoProduct(randFloat(r), randFloat(r))
		b1, b0 := eb.twoProduct(randFloat(r), randFloat(r))

		sum := twoTwoSum(a1, a0, b1, b0)
		wantSum := new(big.Rat).Add(
			new(big.Rat).Add(rat(a1), rat(a0)),
			new(big.Rat).Add(rat(b1), rat(b0)),
		)
		test.That(t, ratOf(sum[:]).Cmp(wantSum), test.ShouldEqual, 0)

		diff := twoTwoDiff(a1, a0, b1, b0)
		wantDiff := new(big.Rat).Sub(
			new(big.Rat).Add(rat(a1), rat(a0)),
			new(big.Rat).Add(rat(b1), rat(b0)),
		)
		test.That(t, ratOf(diff[:]).Cmp(wantDiff), test.ShouldEqual, 0)
	}
}
