package geometry

import "Glowpoint/internal/state"

// DefaultSampleDistance is the minimum pointer travel, in pixels, between
// two recorded freehand samples.
const DefaultSampleDistance = 8.0

// AppendSample records p only when it lies farther than threshold from the
// last recorded sample. The first sample is always kept.
func AppendSample(points []state.Point, p state.Point, threshold float64) ([]state.Point, bool) {
	if n := len(points); n > 0 && points[n-1].Distance(p) <= threshold {
		return points, false
	}
	return append(points, p), true
}

// Smooth converts ordered samples into a path through every sample.
//
// A single sample becomes a zero-length segment so the stroke's round caps
// draw a dot whose size follows the pen width. Two samples give a straight
// segment. Longer runs are joined with Catmull-Rom splines expressed as
// cubic Bezier segments; the neighbours of the first and last samples are
// clamped to the endpoints.
func Smooth(points []state.Point) Path {
	switch len(points) {
	case 0:
		return Path{}
	case 1:
		p := points[0]
		return Path{Subpaths: []Subpath{{Start: p, Segments: []Segment{lineTo(p)}}}}
	case 2:
		return Path{Subpaths: []Subpath{{Start: points[0], Segments: []Segment{lineTo(points[1])}}}}
	}

	n := len(points)
	segs := make([]Segment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]

		c1 := p1.Add(p2.Sub(p0).Scale(1.0 / 6))
		c2 := p2.Sub(p3.Sub(p1).Scale(1.0 / 6))
		segs = append(segs, cubicTo(c1, c2, p2))
	}
	return Path{Subpaths: []Subpath{{Start: points[0], Segments: segs}}}
}
