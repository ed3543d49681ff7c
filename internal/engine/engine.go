// Package engine turns pointer, keyboard and timer events into committed
// annotations and publishes immutable scenes for the renderer.
//
// Every method except Scene and Status must be called from the UI event
// loop. Other goroutines post a command.Command instead.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync/atomic"
	"time"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
	"Glowpoint/internal/display"
	"Glowpoint/internal/geometry"
	"Glowpoint/internal/render"
	"Glowpoint/internal/state"
)

// IndicatorTimeout is how long the width indicator stays up after a wheel
// change.
const IndicatorTimeout = 800 * time.Millisecond

var (
	// ErrUnknownColor is returned for colours that are neither a palette
	// name nor a hex string.
	ErrUnknownColor = errors.New("unknown colour")
	// ErrUnknownTool is returned by Apply for an unknown tool name.
	ErrUnknownTool = errors.New("unknown tool")
)

// Host is the windowing side of the overlay.
type Host interface {
	// EnterDrawing shows and raises the overlay over area, sets the
	// crosshair cursor and grabs keyboard focus.
	EnterDrawing(area display.Area)
	// ExitDrawing releases focus and returns input to other applications.
	ExitDrawing()
	// ViewportChanged is called when the display union changes.
	ViewportChanged(area display.Area)
	// Invalidate schedules a repaint of the latest scene.
	Invalidate()
	// ModeChanged reports the active tool name when drawing starts or the
	// tool changes.
	ModeChanged(tool string)
}

// Preferences receives the two settings the engine writes back.
type Preferences interface {
	SetSpotlightEnabled(enabled bool) error
	SetLineWidth(width int) error
}

// Status is a read-only summary, safe to read from any goroutine.
type Status struct {
	Session   string       `json:"session"`
	Mode      string       `json:"mode"`
	Tool      string       `json:"tool"`
	Color     string       `json:"color"`
	Width     int          `json:"width"`
	Spotlight bool         `json:"spotlight"`
	Shapes    int          `json:"shapes"`
	Redo      int          `json:"redo"`
	Drawing   bool         `json:"gesture"`
	Viewport  display.Area `json:"viewport"`
	Displays  int          `json:"displays"`
	// Commits counts shapes committed this session, including undone and
	// cleared ones.
	Commits uint64 `json:"commits"`
}

// Engine composes the mode controller, history, geometry and display
// tracker.
type Engine struct {
	host    Host
	prefs   Preferences
	tracker *display.Tracker
	ctrl    *Controller
	history *state.History

	settings  config.Settings
	palette   map[string]color.NRGBA
	colorName string
	color     color.NRGBA
	width     int
	sampleGap float64

	gesture   *Gesture
	anchor    *state.Point
	spotlight state.Spotlight
	viewport  display.Area
	shapes    []state.Shape

	indicatorUntil time.Time
	now            func() time.Time

	scene  atomic.Pointer[render.Scene]
	status atomic.Pointer[Status]
}

// New builds an engine from a settings snapshot and computes the initial
// viewport.
func New(host Host, prefs Preferences, tracker *display.Tracker, settings config.Settings) *Engine {
	e := &Engine{
		host:    host,
		prefs:   prefs,
		tracker: tracker,
		history: state.NewHistory(),
		now:     time.Now,
	}
	e.ctrl = NewController(settings.Drawing.ToolShortcuts, Transitions{
		Enter: func() { e.host.EnterDrawing(e.viewport) },
		Exit:  func() { e.host.ExitDrawing() },
	})
	e.ApplySettings(settings)
	e.viewport = tracker.Recompute()
	e.publish()
	return e
}

// ApplySettings takes a new configuration snapshot. The active colour is
// kept by name when it is still in the palette.
func (e *Engine) ApplySettings(s config.Settings) {
	e.settings = s
	e.palette = make(map[string]color.NRGBA, len(s.Drawing.Colors))
	for name, hex := range s.Drawing.Colors {
		c, err := config.ParseColor(hex)
		if err != nil {
			log.Printf("[engine] colour %s: %v", name, err)
			continue
		}
		e.palette[name] = c
	}
	if c, ok := e.palette[e.colorName]; ok {
		e.color = c
	} else if names := s.ColorNames(); len(names) > 0 && e.colorName == "" {
		e.colorName = names[0]
		e.color = e.palette[e.colorName]
	}

	e.width = config.ClampWidth(s.Drawing.LineWidth, s.Drawing.MinLineWidth, s.Drawing.MaxLineWidth)
	e.sampleGap = s.Drawing.SampleDistance
	if e.sampleGap < 0 {
		e.sampleGap = geometry.DefaultSampleDistance
	}
	e.ctrl.SetShortcuts(s.Drawing.ToolShortcuts)

	spot, err := config.ParseColor(s.Spotlight.Color)
	if err != nil {
		spot = color.NRGBA{R: 255, G: 255, B: 100, A: 255}
	}
	e.spotlight.Enabled = s.Spotlight.Enabled
	e.spotlight.Radius = s.Spotlight.Radius
	e.spotlight.RingRadius = s.Spotlight.RingRadius
	e.spotlight.Opacity = s.Spotlight.Opacity
	e.spotlight.Color = spot
	e.spotlight.Style = state.SpotlightStyle(s.Spotlight.Style)
	e.changed()
}

// resolveColor accepts a palette name or a hex colour.
func (e *Engine) resolveColor(name string) (color.NRGBA, error) {
	if c, ok := e.palette[name]; ok {
		return c, nil
	}
	if c, err := config.ParseColor(name); err == nil {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}

// StartDrawing enters drawing mode with the given colour. An empty name
// keeps the current colour.
func (e *Engine) StartDrawing(colorName string) error {
	if colorName != "" {
		c, err := e.resolveColor(colorName)
		if err != nil {
			return err
		}
		e.colorName, e.color = colorName, c
	}
	if area := e.tracker.Recompute(); area != e.viewport {
		e.viewport = area
		e.host.ViewportChanged(area)
	}
	if e.ctrl.Enter() {
		e.host.ModeChanged(e.ctrl.Tool().String())
	}
	e.changed()
	return nil
}

// StopDrawing commits any valid gesture and returns to click-through mode.
// History is kept.
func (e *Engine) StopDrawing() {
	e.commitGesture()
	e.anchor = nil
	e.ctrl.Exit()
	e.changed()
}

// ToggleDrawing stops drawing when colorName is already the active colour,
// and otherwise starts drawing with it.
func (e *Engine) ToggleDrawing(colorName string) error {
	if e.ctrl.Drawing() && (colorName == "" || colorName == e.colorName) {
		e.StopDrawing()
		return nil
	}
	return e.StartDrawing(colorName)
}

// ClearDrawings removes every shape, the redo buffer and the gesture.
func (e *Engine) ClearDrawings() {
	e.history.Clear()
	e.gesture = nil
	e.anchor = nil
	e.historyChanged()
}

// ToggleSpotlight flips the spotlight and persists the new state.
func (e *Engine) ToggleSpotlight() bool {
	e.spotlight.Enabled = !e.spotlight.Enabled
	if e.prefs != nil {
		if err := e.prefs.SetSpotlightEnabled(e.spotlight.Enabled); err != nil {
			log.Printf("[engine] save spotlight.enabled: %v", err)
		}
	}
	e.changed()
	return e.spotlight.Enabled
}

func (e *Engine) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	e.historyChanged()
	return true
}

func (e *Engine) Redo() bool {
	if !e.history.Redo() {
		return false
	}
	e.historyChanged()
	return true
}

// SelectTool switches tools. It is ignored while a gesture is in progress.
func (e *Engine) SelectTool(tool state.ToolKind) bool {
	if !e.ctrl.SelectTool(tool, e.gesture != nil) {
		return false
	}
	e.anchor = nil
	e.host.ModeChanged(tool.String())
	e.changed()
	return true
}

// PointerDown starts a gesture, or with Shift held and a remembered
// endpoint, commits a straight line to p. It reports whether the press was
// consumed.
func (e *Engine) PointerDown(p state.Point, mods Modifiers) bool {
	e.spotlight.Cursor = p
	if !e.ctrl.Drawing() || e.gesture != nil {
		e.changed()
		return false
	}
	if e.ctrl.StraightLine(mods, e.anchor != nil) {
		g := newGesture(state.ToolLine, *e.anchor, e.color, float64(e.width))
		g.Move(p, 0)
		if s, ok := g.Shape(); ok {
			e.history.Commit(s)
			e.anchor = &p
			e.refreshShapes()
		}
		e.changed()
		return true
	}
	e.gesture = newGesture(e.ctrl.Tool(), p, e.color, float64(e.width))
	e.changed()
	return true
}

// PointerMove updates the spotlight and the live gesture.
func (e *Engine) PointerMove(p state.Point) {
	e.spotlight.Cursor = p
	if e.gesture != nil {
		e.gesture.Move(p, e.sampleGap)
	}
	e.changed()
}

// PointerUp commits the gesture when its geometry is valid.
func (e *Engine) PointerUp(p state.Point) {
	e.spotlight.Cursor = p
	if e.gesture == nil {
		e.changed()
		return
	}
	e.gesture.Move(p, e.sampleGap)
	e.commitGesture()
	e.changed()
}

func (e *Engine) commitGesture() {
	g := e.gesture
	e.gesture = nil
	if g == nil {
		return
	}
	s, ok := g.Shape()
	if !ok {
		return
	}
	e.history.Commit(s)
	end := g.End()
	e.anchor = &end
	e.refreshShapes()
}

// CancelGesture drops the live gesture without touching history.
func (e *Engine) CancelGesture() {
	if e.gesture == nil {
		return
	}
	e.gesture = nil
	e.changed()
}

// KeyPress handles a key in drawing mode and reports whether it was used.
func (e *Engine) KeyPress(key string, mods Modifiers) bool {
	action, tool := e.ctrl.Interpret(key, mods)
	switch action {
	case KeyCancel:
		e.gesture = nil
		e.anchor = nil
		e.ctrl.Exit()
		e.changed()
	case KeyUndo:
		e.Undo()
	case KeyRedo:
		e.Redo()
	case KeySelectTool:
		e.SelectTool(tool)
	default:
		return false
	}
	return true
}

// Wheel changes the pen width by one pixel per notch, for the next stroke
// and the live gesture. Committed shapes keep their width.
func (e *Engine) Wheel(dy float64) {
	if !e.ctrl.Drawing() || dy == 0 {
		return
	}
	step := 1
	if dy < 0 {
		step = -1
	}
	d := e.settings.Drawing
	width := config.ClampWidth(e.width+step, d.MinLineWidth, d.MaxLineWidth)
	e.indicatorUntil = e.now().Add(IndicatorTimeout)
	if width != e.width {
		e.width = width
		e.settings.Drawing.LineWidth = width
		if e.gesture != nil {
			e.gesture.Width = float64(width)
		}
		if e.prefs != nil {
			if err := e.prefs.SetLineWidth(width); err != nil {
				log.Printf("[engine] save drawing.line_width: %v", err)
			}
		}
	}
	e.changed()
}

// Tick runs on the repaint timer with the latest cursor sample; ok is false
// when the platform cannot report the cursor outside the overlay. Tick moves
// the spotlight, hides an expired width indicator and reports whether it
// published a new scene.
func (e *Engine) Tick(cursor state.Point, ok bool) bool {
	due := false
	if ok && cursor != e.spotlight.Cursor {
		e.spotlight.Cursor = cursor
		due = e.spotlight.Enabled || e.indicatorShown()
	}
	if !e.indicatorUntil.IsZero() && !e.now().Before(e.indicatorUntil) {
		e.indicatorUntil = time.Time{}
		due = true
	}
	if due {
		e.changed()
	}
	return due
}

func (e *Engine) indicatorShown() bool {
	return !e.indicatorUntil.IsZero() && e.now().Before(e.indicatorUntil)
}

// DisplaysChanged recomputes the viewport after a monitor change.
func (e *Engine) DisplaysChanged() display.Area {
	area := e.tracker.Recompute()
	if area != e.viewport {
		e.viewport = area
		e.host.ViewportChanged(area)
	}
	e.changed()
	return area
}

// Apply runs a queued command. Quit and ReloadConfig are left to the host.
func (e *Engine) Apply(cmd command.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	switch cmd.Action {
	case command.ToggleSpotlight:
		e.ToggleSpotlight()
	case command.StartDrawing:
		return e.StartDrawing(cmd.Color)
	case command.StopDrawing:
		e.StopDrawing()
	case command.ToggleDrawing:
		return e.ToggleDrawing(cmd.Color)
	case command.ClearDrawings:
		e.ClearDrawings()
	case command.Undo:
		e.Undo()
	case command.Redo:
		e.Redo()
	case command.SelectTool:
		tool, ok := state.ParseTool(cmd.Tool)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTool, cmd.Tool)
		}
		e.SelectTool(tool)
	case command.DisplaysChanged:
		e.DisplaysChanged()
	default:
		return fmt.Errorf("%s is not an engine action", cmd.Action)
	}
	return nil
}

func (e *Engine) Mode() Mode           { return e.ctrl.Mode() }
func (e *Engine) Tool() state.ToolKind { return e.ctrl.Tool() }
func (e *Engine) Width() int           { return e.width }
func (e *Engine) ColorName() string    { return e.colorName }
func (e *Engine) Gesture() *Gesture    { return e.gesture }

// Scene returns the latest published scene. It may be called from any
// goroutine.
func (e *Engine) Scene() *render.Scene { return e.scene.Load() }

// Status returns the latest published status. It may be called from any
// goroutine.
func (e *Engine) Status() Status {
	if s := e.status.Load(); s != nil {
		return *s
	}
	return Status{}
}

func (e *Engine) historyChanged() {
	e.refreshShapes()
	e.changed()
}

// refreshShapes replaces the shared shape slice. Published scenes keep the
// old slice, which is never written again.
func (e *Engine) refreshShapes() {
	e.shapes = e.history.Shapes()
}

func (e *Engine) changed() {
	e.publish()
	if e.host != nil {
		e.host.Invalidate()
	}
}

func (e *Engine) publish() {
	scene := &render.Scene{
		Viewport:  e.viewport,
		Spotlight: e.spotlight,
		Shapes:    e.shapes,
	}
	if g := e.gesture; g != nil {
		if path, ok := g.Preview(); ok {
			scene.Preview = &render.Stroke{Path: path, Color: g.Color, Width: g.Width}
		}
	}
	if e.indicatorShown() {
		scene.Indicator = &render.Indicator{
			Center: e.spotlight.Cursor,
			Width:  float64(e.width),
			Color:  e.color,
		}
	}
	e.scene.Store(scene)
	e.status.Store(&Status{
		Session:   state.SessionID(),
		Mode:      e.ctrl.Mode().String(),
		Tool:      e.ctrl.Tool().String(),
		Color:     e.colorName,
		Width:     e.width,
		Spotlight: e.spotlight.Enabled,
		Shapes:    e.history.Len(),
		Redo:      e.history.RedoLen(),
		Drawing:   e.gesture != nil,
		Viewport:  e.viewport,
		Displays:  len(e.tracker.Displays()),
		Commits:   state.CommitCount(),
	})
}
