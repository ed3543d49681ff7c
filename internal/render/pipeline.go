package render

import (
	"errors"
	"image"
	"image/color"
	"log"

	"github.com/gogpu/gg"

	"Glowpoint/internal/display"
	"Glowpoint/internal/geometry"
	"Glowpoint/internal/state"
)

// Pass is one feather layer: the stroke drawn Scale times wider at Alpha
// (of 255) before the solid stroke.
type Pass struct {
	Scale float64
	Alpha uint8
}

// FeatherPasses are drawn widest first, under the opaque stroke.
var FeatherPasses = []Pass{
	{Scale: 2.2, Alpha: 20},
	{Scale: 1.6, Alpha: 40},
	{Scale: 1.2, Alpha: 70},
}

const (
	ringWidth      = 3.0
	dimStrength    = 0.6
	indicatorDash  = 4.0
	indicatorSpace = 4.0
)

// Pipeline paints scenes. Paths of committed shapes are cached by shape ID
// since committed shapes never change. A Pipeline must only be used from
// one goroutine.
type Pipeline struct {
	passes []Pass
	cache  map[string]geometry.Path
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		passes: FeatherPasses,
		cache:  make(map[string]geometry.Path),
	}
}

// Render paints scene into a new w×h image, scaling the viewport to fit.
func (p *Pipeline) Render(scene Scene, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()
	if err := p.Paint(dc, scene); err != nil {
		log.Printf("[render] paint: %v", err)
	}
	if err := dc.FlushGPU(); err != nil {
		log.Printf("[render] flush: %v", err)
	}
	return dc.Image()
}

// Paint draws, bottom to top: spotlight, committed shapes, the preview
// stroke and the width indicator. An empty viewport draws nothing.
func (p *Pipeline) Paint(c Canvas, scene Scene) error {
	if scene.Viewport.Empty() {
		return nil
	}
	pr := newProjection(scene.Viewport, c.Width(), c.Height())

	var errs []error
	if scene.Spotlight.Enabled {
		errs = append(errs, p.paintSpotlight(c, pr, scene.Spotlight))
	}

	live := make(map[string]bool, len(scene.Shapes))
	for _, s := range scene.Shapes {
		live[s.ID] = true
		path, ok := p.cachedPath(s)
		if !ok {
			continue
		}
		errs = append(errs, p.strokeFeathered(c, pr, path, s.Color, s.Width))
	}
	for id := range p.cache {
		if !live[id] {
			delete(p.cache, id)
		}
	}

	if pv := scene.Preview; pv != nil && !pv.Path.Empty() {
		errs = append(errs, p.strokeFeathered(c, pr, pv.Path, pv.Color, pv.Width))
	}
	if ind := scene.Indicator; ind != nil {
		errs = append(errs, paintIndicator(c, pr, *ind))
	}
	return errors.Join(errs...)
}

func (p *Pipeline) cachedPath(s state.Shape) (geometry.Path, bool) {
	if s.ID != "" {
		if path, ok := p.cache[s.ID]; ok {
			return path, true
		}
	}
	path, ok := geometry.BuildShape(s)
	if ok && s.ID != "" {
		p.cache[s.ID] = path
	}
	return path, ok
}

// CacheLen reports how many shape paths are cached.
func (p *Pipeline) CacheLen() int { return len(p.cache) }

// projection maps screen-space points onto the canvas.
type projection struct {
	originX, originY float64
	scaleX, scaleY   float64
}

func newProjection(vp display.Area, w, h int) projection {
	return projection{
		originX: float64(vp.X),
		originY: float64(vp.Y),
		scaleX:  float64(w) / float64(vp.Width),
		scaleY:  float64(h) / float64(vp.Height),
	}
}

func (pr projection) point(pt state.Point) (float64, float64) {
	return (pt.X - pr.originX) * pr.scaleX, (pt.Y - pr.originY) * pr.scaleY
}

// length scales a distance; strokes use the mean of both axis scales.
func (pr projection) length(v float64) float64 {
	return v * (pr.scaleX + pr.scaleY) / 2
}

func toRGBA(c color.NRGBA, alpha uint8) gg.RGBA {
	return gg.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(alpha) / 255,
	}
}

func scaleAlpha(a uint8, f float64) uint8 {
	v := float64(a) * f
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
