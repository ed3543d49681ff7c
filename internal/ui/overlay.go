package ui

import (
	"image"
	"strings"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Glowpoint/internal/command"
	"Glowpoint/internal/engine"
	"Glowpoint/internal/render"
	"Glowpoint/internal/state"
)

// Handler is the part of the engine the overlay drives.
type Handler interface {
	PointerDown(p state.Point, mods engine.Modifiers) bool
	PointerMove(p state.Point)
	PointerUp(p state.Point)
	KeyPress(key string, mods engine.Modifiers) bool
	Wheel(dy float64)
	Scene() *render.Scene
}

// Overlay is the full-viewport widget that paints the latest scene and
// forwards input to the engine.
type Overlay struct {
	widget.BaseWidget
	handler   Handler
	raster    *canvas.Raster
	backdrop  *canvas.Image
	pipeline  *render.Pipeline
	painted   atomic.Pointer[render.Scene]
	mods      fyne.KeyModifier
	capturing bool
	hotkeys   map[string]command.Command
	post      func(command.Command)
}

var _ fyne.Widget = (*Overlay)(nil)
var _ desktop.Mouseable = (*Overlay)(nil)
var _ desktop.Hoverable = (*Overlay)(nil)
var _ desktop.Keyable = (*Overlay)(nil)
var _ desktop.Cursorable = (*Overlay)(nil)
var _ fyne.Scrollable = (*Overlay)(nil)
var _ fyne.Shortcutable = (*Overlay)(nil)

// NewOverlay paints scenes from h. Global hotkeys that arrive while the
// overlay has focus are passed to post.
func NewOverlay(h Handler, post func(command.Command)) *Overlay {
	o := &Overlay{
		handler:  h,
		pipeline: render.NewPipeline(),
		post:     post,
		hotkeys:  map[string]command.Command{},
	}
	o.raster = canvas.NewRaster(o.draw)
	o.raster.ScaleMode = canvas.ImageScaleFastest
	o.backdrop = &canvas.Image{FillMode: canvas.ImageFillStretch, ScaleMode: canvas.ImageScaleFastest}
	o.backdrop.Hide()
	o.ExtendBaseWidget(o)
	return o
}

// draw runs on the render thread and only reads the published scene.
func (o *Overlay) draw(w, h int) image.Image {
	scene := o.handler.Scene()
	o.painted.Store(scene)
	if scene == nil || w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	return o.pipeline.Render(*scene, w, h)
}

// Stale reports whether a newer scene was published since the last paint.
func (o *Overlay) Stale() bool {
	return o.handler.Scene() != o.painted.Load()
}

func (o *Overlay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(o.backdrop, o.raster))
}

// SetBackdrop shows img, a capture of the desktop, under the scene. nil
// leaves the overlay opaque.
func (o *Overlay) SetBackdrop(img image.Image) {
	o.backdrop.Image = img
	if img == nil {
		o.backdrop.Hide()
	} else {
		o.backdrop.Show()
	}
	o.backdrop.Refresh()
}

// Invalidate repaints the raster with the latest scene.
func (o *Overlay) Invalidate() {
	o.raster.Refresh()
}

// SetCapturing switches the cursor between crosshair and default.
func (o *Overlay) SetCapturing(on bool) {
	o.capturing = on
	if !on {
		o.mods = 0
	}
}

// SetHotkeys replaces the chord table used while the overlay has focus.
func (o *Overlay) SetHotkeys(hotkeys map[string]command.Command) {
	o.hotkeys = hotkeys
}

func (o *Overlay) Cursor() desktop.Cursor {
	if o.capturing {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

// toScreen maps a widget position to screen pixels using the viewport
// origin of the current scene.
func (o *Overlay) toScreen(pos fyne.Position) state.Point {
	scale := float32(1)
	if c := fyne.CurrentApp().Driver().CanvasForObject(o); c != nil {
		scale = c.Scale()
	}
	var ox, oy float64
	if sc := o.handler.Scene(); sc != nil {
		ox, oy = float64(sc.Viewport.X), float64(sc.Viewport.Y)
	}
	return state.Point{
		X: ox + float64(pos.X*scale),
		Y: oy + float64(pos.Y*scale),
	}
}

func (o *Overlay) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	o.mods = e.Modifier
	o.handler.PointerDown(o.toScreen(e.Position), toModifiers(e.Modifier))
}

func (o *Overlay) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	o.handler.PointerUp(o.toScreen(e.Position))
}

func (o *Overlay) MouseIn(e *desktop.MouseEvent) { o.handler.PointerMove(o.toScreen(e.Position)) }
func (o *Overlay) MouseMoved(e *desktop.MouseEvent) {
	o.handler.PointerMove(o.toScreen(e.Position))
}
func (o *Overlay) MouseOut() {}

func (o *Overlay) Scrolled(e *fyne.ScrollEvent) {
	o.handler.Wheel(float64(e.Scrolled.DY))
}

func (o *Overlay) FocusGained()   {}
func (o *Overlay) FocusLost()     { o.mods = 0 }
func (o *Overlay) TypedRune(rune) {}

func (o *Overlay) TypedKey(e *fyne.KeyEvent) {
	o.handler.KeyPress(string(e.Name), toModifiers(o.mods))
}

// KeyDown and KeyUp only track modifiers; key actions arrive through
// TypedKey and TypedShortcut.
func (o *Overlay) KeyDown(e *fyne.KeyEvent) {
	if m, ok := modifierKeys[e.Name]; ok {
		o.mods |= m
	}
}

func (o *Overlay) KeyUp(e *fyne.KeyEvent) {
	if m, ok := modifierKeys[e.Name]; ok {
		o.mods &^= m
	}
}

// TypedShortcut receives every modifier chord while the overlay is focused.
func (o *Overlay) TypedShortcut(s fyne.Shortcut) {
	switch sc := s.(type) {
	case *desktop.CustomShortcut:
		if cmd, ok := o.hotkeys[chordKey(sc.KeyName, sc.Modifier)]; ok && o.post != nil {
			o.post(cmd)
			return
		}
		o.handler.KeyPress(string(sc.KeyName), toModifiers(sc.Modifier))
		return
	}
	switch s.ShortcutName() {
	case "Undo":
		o.handler.KeyPress(string(fyne.KeyZ), engine.ModCtrl)
	case "Redo":
		o.handler.KeyPress(string(fyne.KeyZ), engine.ModCtrl|engine.ModShift)
	}
}

var modifierKeys = map[fyne.KeyName]fyne.KeyModifier{
	desktop.KeyShiftLeft:    fyne.KeyModifierShift,
	desktop.KeyShiftRight:   fyne.KeyModifierShift,
	desktop.KeyControlLeft:  fyne.KeyModifierControl,
	desktop.KeyControlRight: fyne.KeyModifierControl,
	desktop.KeyAltLeft:      fyne.KeyModifierAlt,
	desktop.KeyAltRight:     fyne.KeyModifierAlt,
	desktop.KeySuperLeft:    fyne.KeyModifierSuper,
	desktop.KeySuperRight:   fyne.KeyModifierSuper,
}

func toModifiers(m fyne.KeyModifier) engine.Modifiers {
	var out engine.Modifiers
	if m&fyne.KeyModifierShift != 0 {
		out |= engine.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= engine.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= engine.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= engine.ModSuper
	}
	return out
}

// chordKey is the lookup key for a modifier chord, e.g. "ctrl+shift+r".
func chordKey(key fyne.KeyName, m fyne.KeyModifier) string {
	var parts []string
	if m&fyne.KeyModifierControl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&fyne.KeyModifierAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&fyne.KeyModifierShift != 0 {
		parts = append(parts, "shift")
	}
	if m&fyne.KeyModifierSuper != 0 {
		parts = append(parts, "super")
	}
	parts = append(parts, strings.ToLower(string(key)))
	return strings.Join(parts, "+")
}
