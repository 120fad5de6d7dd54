package robust

// ErrorBounds holds the machine epsilon, the multiplier used to split a
// float64 into half-length halves, and the derived error bound coefficients
// that gate each stage of the adaptive predicates. The table is immutable
// once constructed; every Engine owns its own copy and no package state is
// ever written.
type ErrorBounds struct {
	epsilon  float64
	splitter float64

	// resultErr bounds the relative roundoff of the running determinant
	// estimate itself; the remaining coefficients bound the roundoff of the
	// successive approximations of each predicate, from the cheap filter (A)
	// through the tail-corrected stage (C).
	resultErr float64

	orientA, orientB, orientC       float64
	orient3A, orient3B, orient3C    float64
	incircleA, incircleB, incircleC float64
	insphereA, insphereB, insphereC float64
}

// NewErrorBounds measures the floating-point behavior of the host and
// derives the predicate error bounds from it.
//
// epsilon is found by halving until 1.0 + epsilon rounds to 1.0, so it comes
// out as the largest power of two that is invisible next to 1.0 rather than
// as a hardcoded constant; on any IEEE-754 double implementation that is
// 2^-53. splitter doubles on every other halving, landing on 2^27 + 1, the
// multiplier that separates a 53-bit significand into two 26-bit halves.
// The loop also terminates on machines that do not underflow cleanly, by
// watching for the check value to stop changing.
func NewErrorBounds() ErrorBounds {
	every := true
	epsilon := 1.0
	splitter := 1.0
	check := 1.0
	for {
		lastcheck := check
		epsilon *= 0.5
		if every {
			splitter *= 2.0
		}
		every = !every
		check = 1.0 + epsilon
		if check == 1.0 || check == lastcheck {
			break
		}
	}
	splitter += 1.0

	return ErrorBounds{
		epsilon:   epsilon,
		splitter:  splitter,
		resultErr: (3.0 + 8.0*epsilon) * epsilon,
		orientA:   (3.0 + 16.0*epsilon) * epsilon,
		orientB:   (2.0 + 12.0*epsilon) * epsilon,
		orientC:   (9.0 + 64.0*epsilon) * epsilon * epsilon,
		orient3A:  (7.0 + 56.0*epsilon) * epsilon,
		orient3B:  (3.0 + 28.0*epsilon) * epsilon,
		orient3C:  (26.0 + 288.0*epsilon) * epsilon * epsilon,
		incircleA: (10.0 + 96.0*epsilon) * epsilon,
		incircleB: (4.0 + 48.0*epsilon) * epsilon,
		incircleC: (44.0 + 576.0*epsilon) * epsilon * epsilon,
		insphereA: (16.0 + 224.0*epsilon) * epsilon,
		insphereB: (5.0 + 72.0*epsilon) * epsilon,
		insphereC: (71.0 + 1408.0*epsilon) * epsilon * epsilon,
	}
}

// Epsilon returns the measured machine epsilon, the largest power of two
// such that 1.0 + Epsilon() rounds to 1.0.
func (eb *ErrorBounds) Epsilon() float64 {
	return eb.epsilon
}

// Splitter returns the multiplier used to split a float64 significand into
// two half-length halves for exact multiplication.
func (eb *ErrorBounds) Splitter() float64 {
	return eb.splitter
}
