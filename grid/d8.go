package grid

import "math"

// D8 flow directions are ring codes in 1..8. Code 1 points east and
// successive codes advance counterclockwise:
//
//	4 3 2
//	5 . 1
//	6 7 8
//
// ArcInfo grids instead encode directions as powers of two with 1
// east and codes advancing clockwise (1 E, 2 SE, 4 S, ... 128 NE).

// dirI and dirJ hold the row and column offsets of the neighbor in
// each ring direction. Index 0 is the cell itself.
var (
	dirI = [9]int{0, 0, -1, -1, -1, 0, 1, 1, 1}
	dirJ = [9]int{0, 1, 1, 0, -1, -1, -1, 0, 1}
)

var arcToRing = map[int]int{
	1:   1,
	2:   8,
	4:   7,
	8:   6,
	16:  5,
	32:  4,
	64:  3,
	128: 2,
}

// ValidCode reports whether code is a ring direction code.
func ValidCode(code int) bool {
	return code >= 1 && code <= 8
}

// FromArcCode converts an ArcInfo power of two flow code to a ring
// code. It returns 0 when code is not a valid Arc direction.
func FromArcCode(code int) int {
	return arcToRing[code]
}

// DirOffset returns the row and column offsets of the neighbor in ring
// direction code. Invalid codes return the cell itself.
func DirOffset(code int) (di, dj int) {
	if !ValidCode(code) {
		return 0, 0
	}
	return dirI[code], dirJ[code]
}

// Downstream returns the cell receiving flow from row i, column j
// under ring direction code.
func Downstream(i, j, code int) (int, int) {
	di, dj := DirOffset(code)
	return i + di, j + dj
}

// DirDistance returns the center to center distance between a cell and
// its neighbor in ring direction code for a square cell of the given
// size. Invalid codes return 0.
func DirDistance(code int, cellSize float64) float64 {
	if !ValidCode(code) {
		return 0
	}
	di, dj := dirI[code], dirJ[code]
	return cellSize * math.Hypot(float64(di), float64(dj))
}

// D8Width returns the width of the cell face crossed by flow leaving
// in ring direction code: the cell size for cardinal directions and
// the cell diagonal otherwise. Invalid codes return -1.
func D8Width(code int, cellSize float64) float64 {
	switch code {
	case 1, 3, 5, 7:
		return cellSize
	case 2, 4, 6, 8:
		return cellSize * math.Sqrt2
	default:
		return -1
	}
}

// EffectiveWidth returns the effective contour width for flow leaving
// in ring direction code, used when a cell drains to several
// neighbors. Invalid codes return -1.
func EffectiveWidth(code int, cellSize float64) float64 {
	switch code {
	case 1, 3, 5, 7:
		return 0.5 * cellSize
	case 2, 4, 6, 8:
		return 0.354 * cellSize
	default:
		return -1
	}
}
