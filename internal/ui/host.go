package ui

import (
	"errors"
	"log"

	"fyne.io/fyne/v2"

	"Glowpoint/internal/display"
	"Glowpoint/internal/render"
	"Glowpoint/internal/state"
)

// windowHost implements engine.Host on a fyne window. Drawing mode shows the
// window over a capture of the desktop. Click-through mode hides it and
// paints on the platform's click-through layer when there is one.
type windowHost struct {
	app      fyne.App
	win      fyne.Window
	overlay  *Overlay
	platform platform
	layer    clickThroughLayer
	scene    func() *render.Scene
	visible  bool
	onMode   func(tool string)
}

func (h *windowHost) EnterDrawing(area display.Area) {
	if h.layer != nil {
		h.layer.Hide()
	}
	img, err := h.platform.Capture(area)
	if err != nil && !errors.Is(err, errUnsupported) {
		log.Printf("[ui] capture desktop: %v", err)
	}
	h.overlay.SetBackdrop(img)

	h.resize(area)
	h.overlay.SetCapturing(true)
	h.win.Show()
	if !h.platform.Place(h.win, area) {
		h.win.SetFullScreen(true)
	}
	h.win.RequestFocus()
	h.win.Canvas().Focus(h.overlay)
	h.visible = true
	h.overlay.Invalidate()
}

func (h *windowHost) ExitDrawing() {
	h.overlay.SetCapturing(false)
	h.win.Canvas().Unfocus()
	h.win.Hide()
	h.overlay.SetBackdrop(nil)
	h.visible = false
	h.paintLayer()
}

func (h *windowHost) ViewportChanged(area display.Area) {
	h.resize(area)
	if h.visible {
		h.platform.Place(h.win, area)
	}
}

func (h *windowHost) Invalidate() {
	if h.visible {
		h.overlay.Invalidate()
		return
	}
	h.paintLayer()
}

func (h *windowHost) ModeChanged(tool string) {
	if t, ok := state.ParseTool(tool); ok {
		h.app.SendNotification(fyne.NewNotification("Glowpoint", "Drawing: "+t.Title()))
	}
	if h.onMode != nil {
		h.onMode(tool)
	}
}

func (h *windowHost) paintLayer() {
	if h.layer == nil || h.scene == nil {
		return
	}
	h.layer.Show(h.scene())
}

func (h *windowHost) close() {
	if h.layer != nil {
		h.layer.Close()
	}
}

// resize sizes the window to the viewport in device-independent units.
func (h *windowHost) resize(area display.Area) {
	if area.Empty() {
		return
	}
	scale := h.win.Canvas().Scale()
	if scale <= 0 {
		scale = 1
	}
	h.win.Resize(fyne.NewSize(float32(area.Width)/scale, float32(area.Height)/scale))
}
