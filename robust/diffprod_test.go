package robust

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestDiffOfProductsExactZeros(t *testing.T) {
	eng := NewEngine()

	// (5-2)(8-4) == (7-1)(6-4), both 12.
	test.That(t, eng.DiffOfProducts(5, 2, 8, 4, 7, 1, 6, 4), test.ShouldEqual, 0.0)
	// Identical halves cancel regardless of rounding in the differences.
	test.That(t, eng.DiffOfProducts(0.3, 0.1, 0.7, 0.2, 0.3, 0.1, 0.7, 0.2), test.ShouldEqual, 0.0)
}

func TestDiffOfProductsMatchesOrient2D(t *testing.T) {
	eng := NewEngine()
	r := rand.New(rand.NewSource(40))
	for i := 0; i < 200; i++ {
		a, b, c := randPoint(r), randPoint(r), randPoint(r)
		if i%2 == 1 {
			a, b, c = nearCollinear(r)
		}
		// The orientation determinant is a difference of products of
		// differences, so the two entry points must agree bit for bit.
		got := eng.DiffOfProducts(a.X, c.X, b.Y, c.Y, a.Y, c.Y, b.X, c.X)
		test.That(t, got, test.ShouldEqual, eng.Orient2D(a, b, c))
	}
}

func TestDiffOfProductsMatchesExactReference(t *testing.T) {
	eng := NewEngine()
	r := rand.New(rand.NewSource(41))

	t.Run("random", func(t *testing.T) {
		for i := 0; i < 300; i++ {
			a, b, c, d := randFloat(r), randFloat(r), randFloat(r), randFloat(r)
			e, f, g, h := randFloat(r), randFloat(r), randFloat(r), randFloat(r)
			got := signOf(eng.DiffOfProducts(a, b, c, d, e, f, g, h))
			test.That(t, got, test.ShouldEqual, ratDiffOfProducts(a, b, c, d, e, f, g, h).Sign())
		}
	})

	t.Run("near cancellation", func(t *testing.T) {
		for i := 0; i < 300; i++ {
			a, b, c, d := randFloat(r), randFloat(r), randFloat(r), randFloat(r)
			// The second product reuses the first operands with a few
			// ulps of jitter, forcing heavy cancellation.
			h := d
			for j := 0; j < r.Intn(3); j++ {
				h = math.Nextafter(h, math.Inf(1))
			}
			got := signOf(eng.DiffOfProducts(a, b, c, d, a, b, c, h))
			test.That(t, got, test.ShouldEqual, ratDiffOfProducts(a, b, c, d, a, b, c, h).Sign())
		}
	})
}

func TestDiffOfProductsAntisymmetric(t *testing.T) {
	eng := NewEngine()
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a, b, c, d := randFloat(r), randFloat(r), randFloat(r), randFloat(r)
		e, f, g, h := randFloat(r), randFloat(r), randFloat(r), randFloat(r)
		det := eng.DiffOfProducts(a, b, c, d, e, f, g, h)
		test.That(t, eng.DiffOfProducts(e, f, g, h, a, b, c, d), test.ShouldEqual, -det)
	}
}

func TestDiffOfProductsExactTier(t *testing.T) {
	eng := NewEngine()

	// Both products are (2^54 - 2^-20)(1 - 2^-20). The differences round,
	// so proving the cancellation takes the fully exact stage.
	huge := math.Ldexp(1, 54)
	tiny := math.Ldexp(1, -20)

	before := eng.Stats()
	det := eng.DiffOfProducts(huge, tiny, 1, tiny, huge, tiny, 1, tiny)
	after := eng.Stats()

	test.That(t, det, test.ShouldEqual, 0.0)
	test.That(t, after.DiffOfProductsAdapt, test.ShouldEqual, before.DiffOfProductsAdapt+1)
	test.That(t, after.DiffOfProductsExact, test.ShouldEqual, before.DiffOfProductsExact+1)
}

func TestDiffOfProductsPackageLevel(t *testing.T) {
	test.That(t, DiffOfProducts(5, 2, 8, 4, 7, 1, 6, 4), test.ShouldEqual, 0.0)
	test.That(t, DiffOfProducts(5, 2, 8, 4, 7, 1, 6, 5), test.ShouldBeGreaterThan, 0.0)
	test.That(t, DiffOfProducts(5, 2, 8, 4, 7, 1, 6, 3), test.ShouldBeLessThan, 0.0)
}