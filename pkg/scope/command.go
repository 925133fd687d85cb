// ABOUTME: Vector drawing commands accepted by the render session
// ABOUTME: Line segments and dwell points in the 0..200 coordinate domain
package scope

import (
	"fmt"
	"math"
)

// CoordinateMax is the largest coordinate on either axis
const CoordinateMax = 200

// Command is a vector drawing command that can be rasterized into samples
type Command interface {
	// Capacity returns the number of frames the buffer must grow by before
	// the command is rasterized.
	Capacity() int

	// Validate checks the command's coordinates
	Validate() error

	rasterize(emit emitFunc, trace traceFunc) int
}

// Line is a straight beam movement from (X1, Y1) to (X2, Y2)
type Line struct {
	X1, Y1 uint
	X2, Y2 uint
}

// Capacity is the Euclidean length rounded up, plus one guard frame
func (l Line) Capacity() int {
	dx := float64(l.X2) - float64(l.X1)
	dy := float64(l.Y2) - float64(l.Y1)
	return int(math.Ceil(math.Hypot(dx, dy))) + 1
}

func (l Line) Validate() error {
	return checkCoordinates(l.X1, l.Y1, l.X2, l.Y2)
}

func (l Line) String() string {
	return fmt.Sprintf("line(%d,%d)-(%d,%d)", l.X1, l.Y1, l.X2, l.Y2)
}

func (l Line) rasterize(emit emitFunc, trace traceFunc) int {
	return rasterizeLine(l, emit, trace)
}

// Point holds the beam at (X, Y) for Dwell extra frames. Longer dwell makes
// a brighter dot.
type Point struct {
	X, Y  uint
	Dwell uint
}

// Capacity saturates at math.MaxInt so an oversized dwell fails in Grow
func (p Point) Capacity() int {
	if uint64(p.Dwell) >= uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(p.Dwell) + 1
}

func (p Point) Validate() error {
	return checkCoordinates(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("point(%d,%d)x%d", p.X, p.Y, p.Dwell)
}

func (p Point) rasterize(emit emitFunc, trace traceFunc) int {
	return rasterizePoint(p, emit, trace)
}

func checkCoordinates(coords ...uint) error {
	for _, c := range coords {
		if c > CoordinateMax {
			return fmt.Errorf("%w: %d (max %d)", ErrCoordinateRange, c, CoordinateMax)
		}
	}
	return nil
}
