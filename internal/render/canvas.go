package render

import "github.com/gogpu/gg"

// Canvas is the subset of *gg.Context the pipeline draws with.
type Canvas interface {
	Width() int
	Height() int
	SetFillBrush(b gg.Brush)
	SetStrokeBrush(b gg.Brush)
	SetLineWidth(width float64)
	SetLineCap(lineCap gg.LineCap)
	SetLineJoin(join gg.LineJoin)
	SetFillRule(rule gg.FillRule)
	SetDash(lengths ...float64)
	ClearDash()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)
	Stroke() error
	Fill() error
}

var _ Canvas = (*gg.Context)(nil)
