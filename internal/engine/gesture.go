package engine

import (
	"image/color"

	"Glowpoint/internal/geometry"
	"Glowpoint/internal/state"
)

// Gesture is the stroke being drawn. Sampled tools keep every decimated
// sample; the others keep the press point and the latest point.
type Gesture struct {
	Tool   state.ToolKind
	Start  state.Point
	Points []state.Point
	Color  color.NRGBA
	Width  float64
}

func newGesture(tool state.ToolKind, p state.Point, col color.NRGBA, width float64) *Gesture {
	return &Gesture{
		Tool:   tool,
		Start:  p,
		Points: []state.Point{p},
		Color:  col,
		Width:  width,
	}
}

// Move records p and reports whether the gesture changed.
func (g *Gesture) Move(p state.Point, threshold float64) bool {
	if geometry.Sampled(g.Tool) {
		var added bool
		g.Points, added = geometry.AppendSample(g.Points, p, threshold)
		return added
	}
	if len(g.Points) == 2 && g.Points[1] == p {
		return false
	}
	g.Points = []state.Point{g.Start, p}
	return true
}

// End is the last recorded point.
func (g *Gesture) End() state.Point {
	return g.Points[len(g.Points)-1]
}

// Shape builds the committed form of the gesture. ok is false for
// degenerate geometry.
func (g *Gesture) Shape() (state.Shape, bool) {
	points := geometry.Canonical(g.Tool, g.Points)
	if _, ok := geometry.Build(g.Tool, points, g.Width); !ok {
		return state.Shape{}, false
	}
	return state.Shape{
		ID:     state.NewShapeID(),
		Tool:   g.Tool,
		Points: points,
		Color:  g.Color,
		Width:  g.Width,
	}, true
}

// Preview is the path drawn while the gesture is live. A line that has not
// left its press point previews as a dot.
func (g *Gesture) Preview() (geometry.Path, bool) {
	path, ok := geometry.Build(g.Tool, geometry.Canonical(g.Tool, g.Points), g.Width)
	if ok {
		return path, true
	}
	if g.Tool == state.ToolLine {
		return geometry.Smooth([]state.Point{g.Start}), true
	}
	return geometry.Path{}, false
}
