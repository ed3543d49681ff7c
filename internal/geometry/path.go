// Package geometry turns pointer samples into renderable vector paths.
package geometry

import (
	"math"

	"Glowpoint/internal/state"
)

// SegmentKind is the drawing operation of a Segment.
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentCubic
)

// Segment continues a subpath from the previous end point to To.
type Segment struct {
	Kind   SegmentKind
	C1, C2 state.Point // cubic control points, unused for lines
	To     state.Point
}

// Subpath is one connected run of segments.
type Subpath struct {
	Start    state.Point
	Segments []Segment
	Closed   bool
	Filled   bool
}

// Degenerate reports whether the subpath has no extent. These render as a
// single cap-sized dot.
func (s Subpath) Degenerate() bool {
	for _, seg := range s.Segments {
		if seg.To != s.Start || (seg.Kind == SegmentCubic && (seg.C1 != s.Start || seg.C2 != s.Start)) {
			return false
		}
	}
	return true
}

// Cap is the stroke end style.
type Cap int

const (
	CapRound Cap = iota
	CapSquare
)

// Join is the stroke corner style.
type Join int

const (
	JoinRound Join = iota
	JoinMiter
)

// Path is the RenderablePath handed to the render pipeline.
type Path struct {
	Subpaths []Subpath
	Cap      Cap
	Join     Join
}

// Empty reports whether there is nothing to draw.
func (p Path) Empty() bool { return len(p.Subpaths) == 0 }

// Bounds returns the box spanned by all end and control points.
func (p Path) Bounds() (lo, hi state.Point) {
	lo = state.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = state.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(q state.Point) {
		lo.X, lo.Y = math.Min(lo.X, q.X), math.Min(lo.Y, q.Y)
		hi.X, hi.Y = math.Max(hi.X, q.X), math.Max(hi.Y, q.Y)
	}
	for _, sp := range p.Subpaths {
		grow(sp.Start)
		for _, seg := range sp.Segments {
			if seg.Kind == SegmentCubic {
				grow(seg.C1)
				grow(seg.C2)
			}
			grow(seg.To)
		}
	}
	if p.Empty() {
		return state.Point{}, state.Point{}
	}
	return lo, hi
}

func lineTo(p state.Point) Segment { return Segment{Kind: SegmentLine, To: p} }

func cubicTo(c1, c2, p state.Point) Segment {
	return Segment{Kind: SegmentCubic, C1: c1, C2: c2, To: p}
}
