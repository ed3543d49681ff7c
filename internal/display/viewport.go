// Package display tracks the screen area the overlay has to cover.
package display

import (
	"fmt"
	"log"
	"sync"
)

// Area is a rectangle in virtual-desktop pixels.
type Area struct {
	X, Y          int
	Width, Height int
}

func (a Area) Empty() bool { return a.Width <= 0 || a.Height <= 0 }

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", a.X, a.Y, a.X+a.Width, a.Y+a.Height)
}

// Contains reports whether b lies completely inside a.
func (a Area) Contains(b Area) bool {
	return b.X >= a.X && b.Y >= a.Y &&
		b.X+b.Width <= a.X+a.Width && b.Y+b.Height <= a.Y+a.Height
}

// Display is one active monitor.
type Display struct {
	Name     string
	Bounds   Area
	WorkArea Area // bounds minus task bars and docks
	Primary  bool
}

// Source enumerates the active displays.
type Source interface {
	Displays() ([]Display, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]Display, error)

func (f SourceFunc) Displays() ([]Display, error) { return f() }

// Union returns the bounding box of every display's work area. Displays
// with an empty work area are skipped; no displays gives an empty Area.
func Union(displays []Display) Area {
	var (
		minX, minY, maxX, maxY int
		found                  bool
	)
	for _, d := range displays {
		w := d.WorkArea
		if w.Empty() {
			continue
		}
		if !found {
			minX, minY = w.X, w.Y
			maxX, maxY = w.X+w.Width, w.Y+w.Height
			found = true
			continue
		}
		minX = min(minX, w.X)
		minY = min(minY, w.Y)
		maxX = max(maxX, w.X+w.Width)
		maxY = max(maxY, w.Y+w.Height)
	}
	if !found {
		return Area{}
	}
	return Area{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Tracker keeps the current viewport and recomputes it from its Source.
type Tracker struct {
	source   Source
	mu       sync.RWMutex
	viewport Area
	displays []Display
}

func NewTracker(source Source) *Tracker {
	return &Tracker{source: source}
}

// Recompute enumerates the displays and returns the new viewport. An
// enumeration error keeps the previous viewport.
func (t *Tracker) Recompute() Area {
	if t.source == nil {
		return t.Viewport()
	}
	displays, err := t.source.Displays()
	if err != nil {
		log.Printf("[display] enumerate failed: %v", err)
		return t.Viewport()
	}
	next := Union(displays)

	t.mu.Lock()
	prev := t.viewport
	t.viewport = next
	t.displays = append(t.displays[:0], displays...)
	t.mu.Unlock()

	if next != prev {
		log.Printf("[display] viewport %s across %d display(s)", next, len(displays))
	}
	return next
}

func (t *Tracker) Viewport() Area {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.viewport
}

// Displays returns the displays seen by the last Recompute.
func (t *Tracker) Displays() []Display {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Display(nil), t.displays...)
}
