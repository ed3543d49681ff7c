package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
	"Glowpoint/internal/display"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	return newTestAppOn(t, nopPlatform{})
}

func newTestAppOn(t *testing.T, p platform) (*App, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	source := display.SourceFunc(func() ([]display.Display, error) {
		return []display.Display{{Name: "primary", WorkArea: display.Area{Width: 1280, Height: 720}, Primary: true}}, nil
	})
	a := newApp(test.NewTempApp(t), store, command.NewQueue(8), source, p)
	return a, path
}

func primary(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
}

func TestApp_DrawThroughOverlay(t *testing.T) {
	a, _ := newTestApp(t)

	a.Handle(command.Command{Action: command.StartDrawing, Color: "red"})
	st := a.Engine().Status()
	if st.Mode != "drawing" || st.Color != "red" {
		t.Fatalf("status after start = %+v", st)
	}

	a.overlay.TypedKey(&fyne.KeyEvent{Name: fyne.Key3})
	a.overlay.MouseDown(primary(10, 10))
	a.overlay.MouseMoved(primary(60, 40))
	a.overlay.MouseUp(primary(60, 40))

	st = a.Engine().Status()
	if st.Tool != "rectangle" || st.Shapes != 1 {
		t.Fatalf("status after drag = %+v", st)
	}

	a.Handle(command.Command{Action: command.ClearDrawings})
	if st = a.Engine().Status(); st.Shapes != 0 {
		t.Errorf("shapes after clear = %d", st.Shapes)
	}

	a.overlay.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if st = a.Engine().Status(); st.Mode != "click-through" {
		t.Errorf("mode after Escape = %s", st.Mode)
	}
}

func TestApp_HandleRejectsInvalidCommand(t *testing.T) {
	a, _ := newTestApp(t)
	a.Handle(command.Command{Action: command.SelectTool, Tool: "lasso"})
	if st := a.Engine().Status(); st.Tool != "freehand" {
		t.Errorf("tool = %s, want freehand", st.Tool)
	}
}

func TestApp_ReloadConfigRereadsFile(t *testing.T) {
	a, path := newTestApp(t)
	body := `{"drawing": {"line_width": 7}, "shortcuts": {"undo": "<ctrl>+u"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Handle(command.Command{Action: command.ReloadConfig})

	if w := a.Engine().Status().Width; w != 7 {
		t.Errorf("width after reload = %d, want 7", w)
	}
	if got := a.overlay.hotkeys["ctrl+u"]; got.Action != command.Undo {
		t.Errorf("hotkey ctrl+u = %v, want undo", got)
	}
}

func TestApp_StatusListeners(t *testing.T) {
	a, _ := newTestApp(t)
	done := make(chan struct{}, 4)
	a.OnStatus(func() { done <- struct{}{} })
	a.Handle(command.Command{Action: command.ToggleSpotlight})
	<-done
	if a.Engine().Status().Spotlight {
		t.Error("spotlight still on after toggle")
	}
}

type fakeBinder struct {
	accept map[string]bool
	bound  []Binding
	post   func(command.Command)
	closed bool
}

func (b *fakeBinder) Bind(bindings []Binding, post func(command.Command)) map[string]bool {
	b.bound, b.post = bindings, post
	out := map[string]bool{}
	for _, bd := range bindings {
		if b.accept[bd.Chord()] {
			out[bd.Chord()] = true
		}
	}
	return out
}

func (b *fakeBinder) Close() { b.closed = true }

func TestApp_GlobalHotkeysLeaveOverlayTable(t *testing.T) {
	a, _ := newTestApp(t)
	b := &fakeBinder{accept: map[string]bool{"ctrl+shift+s": true}}
	a.binder = b
	a.bindHotkeys(a.store.Snapshot())

	if _, ok := a.overlay.hotkeys["ctrl+shift+s"]; ok {
		t.Error("globally registered chord still in the overlay table")
	}
	if got := a.overlay.hotkeys["ctrl+shift+c"]; got.Action != command.ClearDrawings {
		t.Errorf("ctrl+shift+c = %v, want clear_screen in the overlay table", got)
	}
	if len(b.bound) != len(a.store.Snapshot().Shortcuts) {
		t.Errorf("bound %d shortcuts, want %d", len(b.bound), len(a.store.Snapshot().Shortcuts))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan command.Command, 1)
	go a.queue.Pump(ctx, func(f func()) { f() }, func(cmd command.Command) { got <- cmd })

	b.post(command.Command{Action: command.ToggleSpotlight})
	select {
	case cmd := <-got:
		if cmd.Action != command.ToggleSpotlight {
			t.Errorf("queued %v, want toggle_spotlight", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("global hotkey did not reach the queue")
	}
}

func TestApp_ReloadRebindsGlobalHotkeys(t *testing.T) {
	a, path := newTestApp(t)
	b := &fakeBinder{accept: map[string]bool{"ctrl+u": true}}
	a.binder = b
	body := `{"shortcuts": {"undo": "<ctrl>+u"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Handle(command.Command{Action: command.ReloadConfig})

	found := false
	for _, bd := range b.bound {
		if bd.Chord() == "ctrl+u" && bd.Command.Action == command.Undo {
			found = true
		}
	}
	if !found {
		t.Errorf("ctrl+u not bound after reload: %v", b.bound)
	}
	if _, ok := a.overlay.hotkeys["ctrl+u"]; ok {
		t.Error("ctrl+u handled by both the desktop and the overlay")
	}
}
