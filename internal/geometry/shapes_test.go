package geometry

import (
	"testing"

	"Glowpoint/internal/state"
)

func pt(x, y float64) state.Point { return state.Point{X: x, Y: y} }

func TestBuild_RectangleThreshold(t *testing.T) {
	tests := []struct {
		name   string
		from   state.Point
		to     state.Point
		commit bool
	}{
		{"zero delta", pt(10, 10), pt(10, 10), false},
		{"one pixel", pt(10, 10), pt(10, 11), false},
		{"just under on both axes", pt(10, 10), pt(11.9, 11.9), false},
		{"tall and thin", pt(10, 10), pt(10, 80), true},
		{"regular", pt(10, 10), pt(50, 80), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Build(state.ToolRectangle, []state.Point{tt.from, tt.to}, 4)
			if ok != tt.commit {
				t.Fatalf("ok = %v, want %v", ok, tt.commit)
			}
			if !ok && !p.Empty() {
				t.Errorf("rejected rectangle returned path %+v", p)
			}
		})
	}
}

func TestCanonical_RectangleNormalizedAnyDirection(t *testing.T) {
	want := []state.Point{pt(10, 10), pt(50, 80)}
	drags := [][]state.Point{
		{pt(10, 10), pt(50, 80)},
		{pt(50, 80), pt(10, 10)},
		{pt(10, 80), pt(30, 40), pt(50, 10)},
		{pt(50, 10), pt(10, 80)},
	}
	for _, d := range drags {
		got := Canonical(state.ToolRectangle, d)
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("Canonical(%v) = %v, want %v", d, got, want)
		}
		a, _ := Build(state.ToolRectangle, d, 3)
		b, _ := Build(state.ToolRectangle, want, 3)
		lo1, hi1 := a.Bounds()
		lo2, hi2 := b.Bounds()
		if lo1 != lo2 || hi1 != hi2 {
			t.Errorf("drag %v built bounds %v-%v, want %v-%v", d, lo1, hi1, lo2, hi2)
		}
	}
}

func TestBuild_RectangleStyle(t *testing.T) {
	p, ok := Build(state.ToolRectangle, []state.Point{pt(0, 0), pt(20, 20)}, 4)
	if !ok {
		t.Fatal("rectangle rejected")
	}
	if p.Cap != CapSquare || p.Join != JoinMiter {
		t.Errorf("cap/join %v/%v, want square/miter", p.Cap, p.Join)
	}
	if !p.Subpaths[0].Closed {
		t.Error("rectangle subpath should be closed")
	}
	line, _ := Build(state.ToolLine, []state.Point{pt(0, 0), pt(20, 20)}, 4)
	if line.Cap != CapRound || line.Join != JoinRound {
		t.Errorf("line cap/join %v/%v, want round/round", line.Cap, line.Join)
	}
}

func TestBuild_Circle(t *testing.T) {
	center := pt(100, 100)
	if _, ok := Build(state.ToolCircle, []state.Point{center, pt(101, 100)}, 4); ok {
		t.Error("radius 1 circle committed")
	}
	p, ok := Build(state.ToolCircle, []state.Point{center, pt(150, 100)}, 4)
	if !ok {
		t.Fatal("radius 50 circle rejected")
	}
	if r := Radius([]state.Point{center, pt(150, 100)}); r != 50 {
		t.Errorf("Radius = %v, want 50", r)
	}
	lo, hi := p.Bounds()
	if lo != pt(50, 50) || hi != pt(150, 150) {
		t.Errorf("circle bounds %v-%v, want (50,50)-(150,150)", lo, hi)
	}
}

func TestBuild_Line(t *testing.T) {
	if _, ok := Build(state.ToolLine, []state.Point{pt(3, 3)}, 4); ok {
		t.Error("line without a second point committed")
	}
	if _, ok := Build(state.ToolLine, []state.Point{pt(3, 3), pt(3, 3)}, 4); ok {
		t.Error("zero-length line committed")
	}
	p, ok := Build(state.ToolLine, []state.Point{pt(0, 0), pt(5, 5), pt(40, 0)}, 4)
	if !ok {
		t.Fatal("line rejected")
	}
	sp := p.Subpaths[0]
	if sp.Start != pt(0, 0) || len(sp.Segments) != 1 || sp.Segments[0].To != pt(40, 0) {
		t.Errorf("line %+v, want first-to-last segment", sp)
	}
}

func TestBuild_FreehandSinglePoint(t *testing.T) {
	p, ok := Build(state.ToolFreehand, []state.Point{pt(1, 2)}, 4)
	if !ok || len(p.Subpaths) != 1 || !p.Subpaths[0].Degenerate() {
		t.Errorf("single freehand sample = %+v, %v; want dot", p, ok)
	}
	if _, ok := Build(state.ToolFreehand, nil, 4); ok {
		t.Error("empty freehand committed")
	}
}

func TestArrowHead_ScalesWithWidth(t *testing.T) {
	l2, w2 := ArrowHead(2)
	l10, w10 := ArrowHead(10)
	if l10 <= l2 || w10 <= w2 {
		t.Errorf("head at width 10 (%v,%v) not larger than at width 2 (%v,%v)", l10, w10, l2, w2)
	}
	if l2 != 15 || w2 != 10 {
		t.Errorf("minimum head (%v,%v), want (15,10)", l2, w2)
	}
}

func TestBuild_Arrow(t *testing.T) {
	if _, ok := Build(state.ToolArrow, []state.Point{pt(0, 0), pt(1, 1)}, 4); ok {
		t.Error("sub-2px arrow committed")
	}
	p, ok := Build(state.ToolArrow, []state.Point{pt(0, 0), pt(100, 0)}, 4)
	if !ok {
		t.Fatal("arrow rejected")
	}
	if len(p.Subpaths) != 2 {
		t.Fatalf("arrow has %d subpaths, want shaft and head", len(p.Subpaths))
	}
	shaft, head := p.Subpaths[0], p.Subpaths[1]
	headLen, half := ArrowHead(4)
	if got := shaft.Segments[0].To; !got.Equal(pt(100-headLen, 0), 1e-9) {
		t.Errorf("shaft ends at %v, want base %v", got, pt(100-headLen, 0))
	}
	if !head.Filled || !head.Closed || head.Start != pt(100, 0) {
		t.Errorf("head %+v, want closed filled triangle at tip", head)
	}
	if got := head.Segments[0].To; !got.Equal(pt(100-headLen, half), 1e-9) {
		t.Errorf("head corner %v, want %v", got, pt(100-headLen, half))
	}
}

func TestBuild_ShortArrowClampsHead(t *testing.T) {
	p, ok := Build(state.ToolArrow, []state.Point{pt(0, 0), pt(10, 0)}, 4)
	if !ok {
		t.Fatal("10px arrow rejected")
	}
	if base := p.Subpaths[0].Segments[0].To; base.X < 0 {
		t.Errorf("arrow base %v behind start", base)
	}
}

func TestSampled(t *testing.T) {
	if !Sampled(state.ToolFreehand) {
		t.Error("freehand should be sampled")
	}
	for _, tool := range []state.ToolKind{state.ToolLine, state.ToolRectangle, state.ToolArrow, state.ToolCircle} {
		if Sampled(tool) {
			t.Errorf("%v should not be sampled", tool)
		}
	}
}

func TestEveryToolHasEntry(t *testing.T) {
	for _, tool := range state.Tools {
		if _, ok := tools[tool]; !ok {
			t.Errorf("tool %v missing from dispatch table", tool)
		}
	}
}
