// ABOUTME: Geometry rasterizer turning vector commands into sample pairs
// ABOUTME: Line stepping works in amplitude space and always extends from the last sample
package scope

import "math"

// UnitStep is the amplitude change of one coordinate unit
const UnitStep = 0.01

type (
	emitFunc  func(left, right float32)
	traceFunc func(format string, v ...any)
)

// Normalize maps a coordinate pair from 0..200 to -1.0..1.0
func Normalize(x, y uint) (left, right float32) {
	return normalize(x), normalize(y)
}

func normalize(c uint) float32 {
	return float32(float64(c)*UnitStep - 1.0)
}

// rasterizeLine emits the samples of l and returns how many it wrote.
//
// Distances to the target are recomputed from the last emitted sample on every
// step, so rounding error in the increments never accumulates. The loop is
// bounded by the line's capacity.
func rasterizeLine(l Line, emit emitFunc, trace traceFunc) int {
	targetX, targetY := Normalize(l.X2, l.Y2)
	curX, curY := Normalize(l.X1, l.Y1)
	signX := direction(l.X1, l.X2)
	signY := direction(l.Y1, l.Y2)

	emit(curX, curY)
	written := 1

	limit := l.Capacity() - 1
	for step := 0; step < limit; step++ {
		distX := stepsBetween(curX, targetX)
		distY := stepsBetween(curY, targetY)
		if distX == 0 && distY == 0 {
			break
		}

		incX, incY := increments(distX, distY)
		curX = float32(float64(curX) + float64(signX*incX)*UnitStep)
		curY = float32(float64(curY) + float64(signY*incY)*UnitStep)

		if trace != nil {
			trace("line step %d: dist=(%d,%d) inc=(%d,%d) -> (%.4f, %.4f)",
				step, distX, distY, signX*incX, signY*incY, curX, curY)
		}

		emit(curX, curY)
		written++
	}

	return written
}

// increments returns the per-axis step counts for one line step. The axis
// with the longer way to go moves ratio units while the other moves one. An
// axis that has already arrived holds still.
func increments(distX, distY int) (incX, incY int) {
	switch {
	case distX == 0:
		return 0, 1
	case distY == 0:
		return 1, 0
	case distX > distY:
		return ratio(distX, distY), 1
	case distX < distY:
		return 1, ratio(distY, distX)
	default:
		return 1, 1
	}
}

func ratio(longer, shorter int) int {
	return int(math.Round(float64(longer) / float64(shorter)))
}

// stepsBetween returns the non-negative distance from a to b in unit steps
func stepsBetween(a, b float32) int {
	return int(math.Round(math.Abs(float64(b)-float64(a)) / UnitStep))
}

func direction(from, to uint) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}

// rasterizePoint writes the point once and then holds it for the dwell
func rasterizePoint(p Point, emit emitFunc, trace traceFunc) int {
	x, y := Normalize(p.X, p.Y)
	emit(x, y)
	for i := uint(0); i < p.Dwell; i++ {
		emit(x, y)
	}
	if trace != nil {
		trace("point (%.4f, %.4f) held for %d frames", x, y, p.Dwell)
	}
	return int(p.Dwell) + 1
}
