// ABOUTME: Shape helpers that expand into line and point commands
// ABOUTME: Polylines, rectangles and the full-screen calibration square
package scope

// Vertex is a point in the 0..200 coordinate domain
type Vertex struct {
	X, Y uint
}

// Polyline connects consecutive vertices with lines. Fewer than two vertices
// produce a single point, or nothing.
func Polyline(vertices ...Vertex) []Command {
	switch len(vertices) {
	case 0:
		return nil
	case 1:
		return []Command{Point{X: vertices[0].X, Y: vertices[0].Y}}
	}

	cmds := make([]Command, 0, len(vertices)-1)
	for i := 1; i < len(vertices); i++ {
		a, b := vertices[i-1], vertices[i]
		cmds = append(cmds, Line{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y})
	}
	return cmds
}

// Rect outlines the rectangle with corners (x1, y1) and (x2, y2)
func Rect(x1, y1, x2, y2 uint) []Command {
	return Polyline(
		Vertex{x1, y1},
		Vertex{x2, y1},
		Vertex{x2, y2},
		Vertex{x1, y2},
		Vertex{x1, y1},
	)
}

// TestPattern traces the border of the whole screen: right along the
// bottom, up, left along the top and back down. Useful for lining up the
// scope's X and Y gain.
func TestPattern() []Command {
	return Rect(0, 0, CoordinateMax, CoordinateMax)
}
