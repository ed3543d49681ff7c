// Package render paints overlay scenes with the gg rasterizer.
package render

import (
	"image/color"

	"Glowpoint/internal/display"
	"Glowpoint/internal/geometry"
	"Glowpoint/internal/state"
)

// Stroke is an uncommitted path drawn with the committed-shape styling.
type Stroke struct {
	Path  geometry.Path
	Color color.NRGBA
	Width float64
}

// Indicator is the transient pen-size ring shown after a width change.
type Indicator struct {
	Center state.Point
	Width  float64
	Color  color.NRGBA
}

// Scene is an immutable snapshot of everything on screen. The engine builds
// a new Scene for every invalidation; the painter never reads engine state.
type Scene struct {
	Viewport  display.Area
	Spotlight state.Spotlight
	Shapes    []state.Shape
	Preview   *Stroke
	Indicator *Indicator
}
