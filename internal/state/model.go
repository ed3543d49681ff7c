package state

import (
	"image/color"
	"math"
	"strings"
)

// Point is a screen-space coordinate in device pixels.
type Point struct{ X, Y float64 }

func (p Point) Sub(q Point) Point        { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Add(q Point) Point        { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Scale(f float64) Point    { return Point{X: p.X * f, Y: p.Y * f} }
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Equal reports whether p and q match within eps on both axes.
func (p Point) Equal(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// ToolKind selects how a gesture is turned into geometry.
type ToolKind int

const (
	ToolFreehand ToolKind = iota
	ToolLine
	ToolRectangle
	ToolArrow
	ToolCircle
)

// Tools lists every tool in shortcut order.
var Tools = []ToolKind{ToolFreehand, ToolLine, ToolRectangle, ToolArrow, ToolCircle}

var toolNames = [...]string{
	ToolFreehand:  "freehand",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolArrow:     "arrow",
	ToolCircle:    "circle",
}

func (t ToolKind) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// Title is the display name used in notifications.
func (t ToolKind) Title() string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseTool maps a config/command name back to its ToolKind.
func ParseTool(name string) (ToolKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range toolNames {
		if n == name {
			return ToolKind(i), true
		}
	}
	return ToolFreehand, false
}

// Shape is a committed annotation. Shapes are never mutated after commit;
// History hands out copies.
type Shape struct {
	ID     string
	Tool   ToolKind
	Points []Point
	Color  color.NRGBA
	Width  float64
}

// Clone returns a copy that shares no backing storage with s.
func (s Shape) Clone() Shape {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// SpotlightStyle picks between the two spotlight renderings.
type SpotlightStyle string

const (
	SpotlightHighlight SpotlightStyle = "highlight"
	SpotlightDim       SpotlightStyle = "dim"
)

// Spotlight is the cursor highlight state.
type Spotlight struct {
	Enabled    bool
	Cursor     Point
	Radius     float64
	RingRadius float64
	Opacity    float64
	Color      color.NRGBA
	Style      SpotlightStyle
}
