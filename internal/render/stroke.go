package render

import (
	"errors"
	"image/color"

	"github.com/gogpu/gg"

	"Glowpoint/internal/geometry"
)

// strokeFeathered draws the feather passes and then the solid stroke.
func (p *Pipeline) strokeFeathered(c Canvas, pr projection, path geometry.Path, col color.NRGBA, width float64) error {
	var errs []error
	for _, pass := range p.passes {
		alpha := scaleAlpha(pass.Alpha, float64(col.A)/255)
		errs = append(errs, strokePass(c, pr, path, col, alpha, width*pass.Scale))
	}
	errs = append(errs, strokePass(c, pr, path, col, col.A, width))
	return errors.Join(errs...)
}

func strokePass(c Canvas, pr projection, path geometry.Path, col color.NRGBA, alpha uint8, width float64) error {
	w := pr.length(width)
	brush := gg.Solid(toRGBA(col, alpha))
	c.SetStrokeBrush(brush)
	c.SetFillBrush(brush)
	c.SetLineWidth(w)
	c.SetLineCap(lineCap(path.Cap))
	c.SetLineJoin(lineJoin(path.Join))

	var errs []error
	for _, sp := range path.Subpaths {
		if sp.Degenerate() {
			errs = append(errs, drawDot(c, pr, sp, path.Cap, w))
			continue
		}
		trace(c, pr, sp)
		errs = append(errs, c.Stroke())
		if sp.Filled {
			trace(c, pr, sp)
			errs = append(errs, c.Fill())
		}
	}
	return errors.Join(errs...)
}

// drawDot renders the cap of a zero-length segment. Rasterizers disagree on
// whether such a segment produces any coverage, so the cap is filled
// explicitly.
func drawDot(c Canvas, pr projection, sp geometry.Subpath, cp geometry.Cap, w float64) error {
	x, y := pr.point(sp.Start)
	if cp == geometry.CapSquare {
		c.DrawRectangle(x-w/2, y-w/2, w, w)
	} else {
		c.DrawCircle(x, y, w/2)
	}
	return c.Fill()
}

func trace(c Canvas, pr projection, sp geometry.Subpath) {
	c.MoveTo(pr.point(sp.Start))
	for _, seg := range sp.Segments {
		x, y := pr.point(seg.To)
		switch seg.Kind {
		case geometry.SegmentCubic:
			c1x, c1y := pr.point(seg.C1)
			c2x, c2y := pr.point(seg.C2)
			c.CubicTo(c1x, c1y, c2x, c2y, x, y)
		default:
			c.LineTo(x, y)
		}
	}
	if sp.Closed {
		c.ClosePath()
	}
}

func lineCap(c geometry.Cap) gg.LineCap {
	if c == geometry.CapSquare {
		return gg.LineCapSquare
	}
	return gg.LineCapRound
}

func lineJoin(j geometry.Join) gg.LineJoin {
	if j == geometry.JoinMiter {
		return gg.LineJoinMiter
	}
	return gg.LineJoinRound
}
