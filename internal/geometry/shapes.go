package geometry

import (
	"math"

	"Glowpoint/internal/state"
)

const (
	// MinShapeExtent is the smallest rectangle side, circle radius or arrow
	// length that is committed.
	MinShapeExtent = 2.0
	// lineEpsilon is the distance under which a line counts as a point.
	lineEpsilon = 0.5
	circleKappa = 0.5522847498307936
)

// toolEntry is the single per-tool dispatch entry: how samples are
// collected, how they are reduced to stored points, and how they are built.
type toolEntry struct {
	sampled   bool
	canonical func(points []state.Point) []state.Point
	build     func(points []state.Point, width float64) (Path, bool)
	cap       Cap
	join      Join
}

var tools = map[state.ToolKind]toolEntry{
	state.ToolFreehand: {
		sampled:   true,
		canonical: clonePoints,
		build:     buildFreehand,
		cap:       CapRound,
		join:      JoinRound,
	},
	state.ToolLine: {
		canonical: endpoints,
		build:     buildLine,
		cap:       CapRound,
		join:      JoinRound,
	},
	state.ToolRectangle: {
		canonical: normalizedCorners,
		build:     buildRectangle,
		cap:       CapSquare,
		join:      JoinMiter,
	},
	state.ToolArrow: {
		canonical: endpoints,
		build:     buildArrow,
		cap:       CapRound,
		join:      JoinRound,
	},
	state.ToolCircle: {
		canonical: endpoints,
		build:     buildCircle,
		cap:       CapRound,
		join:      JoinRound,
	},
}

func lookup(tool state.ToolKind) toolEntry {
	if s, ok := tools[tool]; ok {
		return s
	}
	return tools[state.ToolFreehand]
}

// Sampled reports whether the tool records every pointer sample (freehand)
// rather than just the press and current points.
func Sampled(tool state.ToolKind) bool { return lookup(tool).sampled }

// Canonical reduces gesture points to the points stored in a Shape.
func Canonical(tool state.ToolKind, points []state.Point) []state.Point {
	if len(points) == 0 {
		return nil
	}
	return lookup(tool).canonical(points)
}

// Build produces the renderable path for tool. It returns false, with an
// empty path, when the input is degenerate and must not be committed.
func Build(tool state.ToolKind, points []state.Point, width float64) (Path, bool) {
	s := lookup(tool)
	if len(points) == 0 {
		return Path{}, false
	}
	p, ok := s.build(s.canonical(points), width)
	if !ok {
		return Path{}, false
	}
	p.Cap, p.Join = s.cap, s.join
	return p, true
}

// BuildShape rebuilds the path of a committed shape.
func BuildShape(s state.Shape) (Path, bool) {
	return Build(s.Tool, s.Points, s.Width)
}

func clonePoints(points []state.Point) []state.Point {
	return append([]state.Point(nil), points...)
}

func endpoints(points []state.Point) []state.Point {
	if len(points) == 1 {
		return []state.Point{points[0]}
	}
	return []state.Point{points[0], points[len(points)-1]}
}

// normalizedCorners returns the min and max corners regardless of the
// direction the rectangle was dragged in.
func normalizedCorners(points []state.Point) []state.Point {
	pts := endpoints(points)
	if len(pts) < 2 {
		return pts
	}
	a, b := pts[0], pts[1]
	return []state.Point{
		{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

func buildFreehand(points []state.Point, _ float64) (Path, bool) {
	p := Smooth(points)
	return p, !p.Empty()
}

func buildLine(points []state.Point, _ float64) (Path, bool) {
	if len(points) < 2 || points[0].Distance(points[1]) < lineEpsilon {
		return Path{}, false
	}
	return Smooth(points), true
}

func buildRectangle(points []state.Point, _ float64) (Path, bool) {
	if len(points) < 2 {
		return Path{}, false
	}
	lo, hi := points[0], points[1]
	if hi.X-lo.X < MinShapeExtent && hi.Y-lo.Y < MinShapeExtent {
		return Path{}, false
	}
	sp := Subpath{
		Start: lo,
		Segments: []Segment{
			lineTo(state.Point{X: hi.X, Y: lo.Y}),
			lineTo(hi),
			lineTo(state.Point{X: lo.X, Y: hi.Y}),
			lineTo(lo),
		},
		Closed: true,
	}
	return Path{Subpaths: []Subpath{sp}}, true
}

// Radius returns the circle radius encoded by a center and edge point.
func Radius(points []state.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	return points[0].Distance(points[len(points)-1])
}

func buildCircle(points []state.Point, _ float64) (Path, bool) {
	r := Radius(points)
	if r < MinShapeExtent {
		return Path{}, false
	}
	return Path{Subpaths: []Subpath{ellipse(points[0], r, r)}}, true
}

func ellipse(c state.Point, rx, ry float64) Subpath {
	ox, oy := rx*circleKappa, ry*circleKappa
	pt := func(x, y float64) state.Point { return state.Point{X: c.X + x, Y: c.Y + y} }
	return Subpath{
		Start: pt(rx, 0),
		Segments: []Segment{
			cubicTo(pt(rx, oy), pt(ox, ry), pt(0, ry)),
			cubicTo(pt(-ox, ry), pt(-rx, oy), pt(-rx, 0)),
			cubicTo(pt(-rx, -oy), pt(-ox, -ry), pt(0, -ry)),
			cubicTo(pt(ox, -ry), pt(rx, -oy), pt(rx, 0)),
		},
		Closed: true,
	}
}

// ArrowHead returns the head length and half-width for a stroke width.
// Both grow with the width so thick arrows keep their proportions.
func ArrowHead(width float64) (length, halfWidth float64) {
	return math.Max(width*4, 15), math.Max(width*2.5, 10)
}

func buildArrow(points []state.Point, width float64) (Path, bool) {
	if len(points) < 2 {
		return Path{}, false
	}
	start, end := points[0], points[1]
	length := start.Distance(end)
	if length < MinShapeExtent {
		return Path{}, false
	}

	headLen, half := ArrowHead(width)
	headLen = math.Min(headLen, length)
	dir := end.Sub(start).Scale(1 / length)
	perp := state.Point{X: -dir.Y, Y: dir.X}
	base := end.Sub(dir.Scale(headLen))

	shaft := Subpath{Start: start, Segments: []Segment{lineTo(base)}}
	head := Subpath{
		Start: end,
		Segments: []Segment{
			lineTo(base.Add(perp.Scale(half))),
			lineTo(base.Sub(perp.Scale(half))),
			lineTo(end),
		},
		Closed: true,
		Filled: true,
	}
	return Path{Subpaths: []Subpath{shaft, head}}, true
}
