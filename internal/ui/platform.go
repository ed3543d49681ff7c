package ui

import (
	"errors"
	"image"

	"fyne.io/fyne/v2"

	"Glowpoint/internal/display"
	"Glowpoint/internal/render"
	"Glowpoint/internal/state"
)

var errUnsupported = errors.New("not supported on this platform")

// platform is the desktop integration fyne does not provide.
type platform interface {
	// Cursor reports the pointer position in screen pixels, wherever it is.
	Cursor() (state.Point, bool)
	// Capture grabs the desktop under area.
	Capture(area display.Area) (image.Image, error)
	// Place makes win borderless and top-most and moves it over area. It
	// reports false when the window cannot be positioned.
	Place(win fyne.Window, area display.Area) bool
	// ClickThrough returns a layer that shows scenes above every window
	// without taking input, or nil.
	ClickThrough() clickThroughLayer
}

// clickThroughLayer paints scenes in click-through mode.
type clickThroughLayer interface {
	// Show paints scene over its viewport and shows the layer. Repeated
	// calls repaint.
	Show(scene *render.Scene)
	Hide()
	Close()
}

// nopPlatform is used by tests and where no native integration exists.
type nopPlatform struct{}

func (nopPlatform) Cursor() (state.Point, bool)               { return state.Point{}, false }
func (nopPlatform) Capture(display.Area) (image.Image, error) { return nil, errUnsupported }
func (nopPlatform) Place(fyne.Window, display.Area) bool      { return false }
func (nopPlatform) ClickThrough() clickThroughLayer           { return nil }
