package render

import (
	"errors"
	"image/color"

	"github.com/gogpu/gg"

	"Glowpoint/internal/state"
)

// paintSpotlight draws either the glowing highlight or the dimmed screen
// with a hole, plus the ring at RingRadius.
func (p *Pipeline) paintSpotlight(c Canvas, pr projection, s state.Spotlight) error {
	if s.Radius <= 0 {
		return nil
	}
	cx, cy := pr.point(s.Cursor)
	r := pr.length(s.Radius)
	op := clamp01(s.Opacity)

	var errs []error
	switch s.Style {
	case state.SpotlightDim:
		c.SetFillRule(gg.FillRuleEvenOdd)
		c.SetFillBrush(gg.Solid(gg.RGBA{A: op * dimStrength}))
		c.DrawRectangle(0, 0, float64(c.Width()), float64(c.Height()))
		c.DrawCircle(cx, cy, r)
		errs = append(errs, c.Fill())
		c.SetFillRule(gg.FillRuleNonZero)
	default:
		base := s.Color
		grad := gg.NewRadialGradientBrush(cx, cy, 0, r).
			AddColorStop(0, toRGBA(base, scaleAlpha(255, op))).
			AddColorStop(0.3, toRGBA(base, scaleAlpha(170, op))).
			AddColorStop(0.7, toRGBA(base, scaleAlpha(85, op))).
			AddColorStop(1, toRGBA(base, 0))
		c.SetFillBrush(grad)
		c.DrawCircle(cx, cy, r)
		errs = append(errs, c.Fill())
	}

	if s.RingRadius > 0 {
		c.SetStrokeBrush(gg.Solid(toRGBA(s.Color, scaleAlpha(200, op))))
		c.SetLineWidth(ringWidth)
		c.DrawCircle(cx, cy, pr.length(s.RingRadius))
		errs = append(errs, c.Stroke())
	}
	return errors.Join(errs...)
}

// paintIndicator draws a dashed ring the size of the pen at the cursor.
func paintIndicator(c Canvas, pr projection, ind Indicator) error {
	x, y := pr.point(ind.Center)
	col := ind.Color
	if col.A == 0 {
		col = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	c.SetStrokeBrush(gg.Solid(toRGBA(col, 220)))
	c.SetLineWidth(1.5)
	c.SetDash(indicatorDash, indicatorSpace)
	c.DrawCircle(x, y, max(pr.length(ind.Width)/2, 2)+2)
	err := c.Stroke()
	c.ClearDash()
	return err
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
