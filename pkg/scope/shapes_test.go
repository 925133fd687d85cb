// ABOUTME: Tests for shape helpers
// ABOUTME: Tests polyline expansion, rectangles and the calibration square
package scope

import "testing"

func TestPolyline(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Vertex
		expected []Command
	}{
		{"empty", nil, nil},
		{"single vertex", []Vertex{{10, 20}}, []Command{Point{X: 10, Y: 20}}},
		{"two vertices", []Vertex{{0, 0}, {5, 5}}, []Command{Line{0, 0, 5, 5}}},
		{"three vertices", []Vertex{{0, 0}, {5, 5}, {10, 0}}, []Command{Line{0, 0, 5, 5}, Line{5, 5, 10, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Polyline(tt.vertices...)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d commands, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("command %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestRectIsClosed(t *testing.T) {
	cmds := Rect(20, 30, 180, 170)
	if len(cmds) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(cmds))
	}

	first := cmds[0].(Line)
	last := cmds[3].(Line)
	if last.X2 != first.X1 || last.Y2 != first.Y1 {
		t.Errorf("rectangle not closed: ends at (%d,%d), starts at (%d,%d)", last.X2, last.Y2, first.X1, first.Y1)
	}
}

func TestTestPattern(t *testing.T) {
	cmds := TestPattern()
	for i, cmd := range cmds {
		if err := cmd.Validate(); err != nil {
			t.Errorf("edge %d invalid: %v", i, err)
		}
	}
	if cmds[1] != (Line{CoordinateMax, 0, CoordinateMax, CoordinateMax}) {
		t.Errorf("expected right edge going up, got %v", cmds[1])
	}
}
