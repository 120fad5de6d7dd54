package robust

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"golang.org/x/sync/errgroup"
)

var errWrongSign = errors.New("adaptive sign disagrees with exact reference")

func TestDefaultEngineSingleton(t *testing.T) {
	test.That(t, Default(), test.ShouldEqual, Default())
	test.That(t, Default(), test.ShouldNotBeNil)
}

func TestEngineBoundsCopy(t *testing.T) {
	eng := NewEngine()
	eb := eng.Bounds()
	eb.epsilon = 42
	fresh := eng.Bounds()
	test.That(t, fresh.Epsilon(), test.ShouldNotEqual, 42.0)
	test.That(t, eng.Bounds(), test.ShouldResemble, NewErrorBounds())
}

func TestEngineConcurrentUse(t *testing.T) {
	eng := NewEngine()

	var group errgroup.Group
	for worker := 0; worker < 8; worker++ {
		seed := int64(worker)
		group.Go(func() error {
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 200; i++ {
				a, b, c := nearCollinear(r)
				if signOf(eng.Orient2D(a, b, c)) != ratOrient2D(a, b, c).Sign() {
					return errWrongSign
				}
				w, x, y, z := nearCocircular(r)
				if signOf(eng.InCircle(w, x, y, z)) != ratInCircle(w, x, y, z).Sign() {
					return errWrongSign
				}
			}
			return nil
		})
	}
	test.That(t, group.Wait(), test.ShouldBeNil)

	// Escalations observed from every goroutine are all accounted for.
	stats := eng.Stats()
	test.That(t, stats.Orient2DAdapt, test.ShouldBeGreaterThan, 0)
	test.That(t, stats.InCircleAdapt, test.ShouldBeGreaterThan, 0)
}

func TestStatsMonotonic(t *testing.T) {
	eng := NewEngine()
	prev := eng.Stats()
	r := rand.New(rand.NewSource(50))
	for i := 0; i < 50; i++ {
		a, b, c := nearCollinear(r)
		eng.Orient2D(a, b, c)
		cur := eng.Stats()
		test.That(t, cur.Orient2DAdapt, test.ShouldBeGreaterThanOrEqualTo, prev.Orient2DAdapt)
		test.That(t, cur.Orient2DExact, test.ShouldBeGreaterThanOrEqualTo, prev.Orient2DExact)
		prev = cur
	}
}
