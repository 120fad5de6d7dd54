package robust

// Error-free transforms: each function returns the rounded result of a
// float64 operation together with the exact roundoff that was lost, so the
// pair (x, y) satisfies x + y == a op b in real arithmetic. Throughout this
// file and the rest of the package, multiplications are wrapped in explicit
// float64 conversions: the Go spec lets the compiler fuse a multiply and a
// following add or subtract into a single FMA, and that skipped rounding
// would falsify the roundoff being recovered. A conversion pins the product
// to exactly one rounding.

// twoSum returns x = fl(a+b) and the exact roundoff y, valid for any inputs.
func twoSum(a, b float64) (x, y float64) {
	x = a + b
	bvirt := x - a
	avirt := x - bvirt
	bround := b - bvirt
	around := a - avirt
	y = around + bround
	return x, y
}

// fastTwoSum returns x = fl(a+b) and the exact roundoff y, requiring
// |a| >= |b|.
func fastTwoSum(a, b float64) (x, y float64) {
	x = a + b
	bvirt := x - a
	y = b - bvirt
	return x, y
}

// twoDiff returns x = fl(a-b) and the exact roundoff y, valid for any
// inputs.
func twoDiff(a, b float64) (x, y float64) {
	x = a - b
	return x, twoDiffTail(a, b, x)
}

// twoDiffTail recovers the exact roundoff of an already computed
// x = fl(a-b).
func twoDiffTail(a, b, x float64) float64 {
	bvirt := a - x
	avirt := x + bvirt
	bround := bvirt - b
	around := a - avirt
	return around + bround
}

// split separates a into hi and lo halves of at most 26 significant bits
// each, with a == hi + lo exactly. Products of halves are then exact in
// float64.
func (eb *ErrorBounds) split(a float64) (hi, lo float64) {
	c := float64(eb.splitter * a)
	abig := float64(c - a)
	hi = c - abig
	lo = a - hi
	return hi, lo
}

// twoProduct returns x = fl(a*b) and the exact roundoff y.
func (eb *ErrorBounds) twoProduct(a, b float64) (x, y float64) {
	x = float64(a * b)
	ahi, alo := eb.split(a)
	bhi, blo := eb.split(b)
	err1 := x - float64(ahi*bhi)
	err2 := err1 - float64(alo*bhi)
	err3 := err2 - float64(ahi*blo)
	y = float64(alo*blo) - err3
	return x, y
}

// twoProductPresplit is twoProduct with b already split into bhi and blo,
// saving the repeated split when one factor scales a whole expansion.
func (eb *ErrorBounds) twoProductPresplit(a, b, bhi, blo float64) (x, y float64) {
	x = float64(a * b)
	ahi, alo := eb.split(a)
	err1 := x - float64(ahi*bhi)
	err2 := err1 - float64(alo*bhi)
	err3 := err2 - float64(ahi*blo)
	y = float64(alo*blo) - err3
	return x, y
}

// square returns x = fl(a*a) and the exact roundoff y. Squaring needs one
// split and one fewer correction than a general product.
func (eb *ErrorBounds) square(a float64) (x, y float64) {
	x = float64(a * a)
	ahi, alo := eb.split(a)
	err1 := x - float64(ahi*ahi)
	err3 := err1 - float64((ahi+ahi)*alo)
	y = float64(alo*alo) - err3
	return x, y
}

// twoOneSum adds the scalar b to the two-component expansion (a1, a0),
// returning the three-component result with x2 most significant.
func twoOneSum(a1, a0, b float64) (x2, x1, x0 float64) {
	i, x0 := twoSum(a0, b)
	x2, x1 = twoSum(a1, i)
	return x2, x1, x0
}

// twoOneDiff subtracts the scalar b from the two-component expansion
// (a1, a0), returning the three-component result with x2 most significant.
func twoOneDiff(a1, a0, b float64) (x2, x1, x0 float64) {
	i, x0 := twoDiff(a0, b)
	x2, x1 = twoSum(a1, i)
	return x2, x1, x0
}

// twoTwoSum adds the two-component expansions (a1, a0) and (b1, b0),
// returning the four-component result ordered least significant first.
func twoTwoSum(a1, a0, b1, b0 float64) [4]float64 {
	j, r0, x0 := twoOneSum(a1, a0, b0)
	x3, x2, x1 := twoOneSum(j, r0, b1)
	return [4]float64{x0, x1, x2, x3}
}

// twoTwoDiff subtracts the two-component expansion (b1, b0) from (a1, a0),
// returning the four-component result ordered least significant first.
func twoTwoDiff(a1, a0, b1, b0 float64) [4]float64 {
	j, r0, x0 := twoOneDiff(a1, a0, b0)
	x3, x2, x1 := twoOneDiff(j, r0, b1)
	return [4]float64{x0, x1, x2, x3}
}
