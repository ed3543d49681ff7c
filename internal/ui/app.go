// Package ui hosts the engine in a fyne application: the overlay window,
// the system tray menu, notifications and monitor tracking.
package ui

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
	"Glowpoint/internal/display"
	"Glowpoint/internal/engine"
	"Glowpoint/internal/state"
)

const (
	appID     = "io.glowpoint.overlay"
	frameRate = 60
)

// App owns the fyne application and the engine it drives.
type App struct {
	fyne     fyne.App
	win      fyne.Window
	overlay  *Overlay
	host     *windowHost
	engine   *engine.Engine
	tracker  *display.Tracker
	store    *config.Store
	queue    *command.Queue
	monitors *monitorSource
	platform platform
	binder   hotkeyBinder
	onStatus []func()
}

// New creates the desktop application. Monitors are enumerated through
// glfw once the driver has started.
func New(store *config.Store, queue *command.Queue) *App {
	monitors := &monitorSource{}
	a := newApp(app.NewWithID(appID), store, queue, monitors, newPlatform())
	a.monitors = monitors
	a.binder = newHotkeyBinder()
	return a
}

func newApp(fa fyne.App, store *config.Store, queue *command.Queue, source display.Source, p platform) *App {
	a := &App{
		fyne:     fa,
		store:    store,
		queue:    queue,
		tracker:  display.NewTracker(source),
		platform: p,
		binder:   nopBinder{},
	}
	a.win = fa.NewWindow("Glowpoint")
	a.win.SetPadded(false)
	a.win.SetCloseIntercept(func() {
		a.queue.Post(command.Command{Action: command.StopDrawing})
	})

	a.host = &windowHost{
		app:      fa,
		win:      a.win,
		platform: p,
		layer:    p.ClickThrough(),
		onMode:   func(string) { a.statusChanged() },
	}
	if a.host.layer == nil {
		log.Println("[ui] no click-through layer, overlay hides outside drawing mode")
	}
	settings := store.Snapshot()
	a.engine = engine.New(a.host, store, a.tracker, settings)
	a.host.scene = a.engine.Scene

	a.overlay = NewOverlay(input{Engine: a.engine, changed: a.statusChanged}, func(cmd command.Command) {
		a.queue.Post(cmd)
	})
	a.overlay.SetHotkeys(Hotkeys(settings))
	a.host.overlay = a.overlay
	a.win.SetContent(a.overlay)
	return a
}

// Engine is the annotation engine. Only Scene and Status may be called off
// the event loop.
func (a *App) Engine() *engine.Engine { return a.engine }

// OnStatus registers fn to run, on its own goroutine, after every state
// change visible in Status.
func (a *App) OnStatus(fn func()) {
	a.onStatus = append(a.onStatus, fn)
}

// Run blocks until the application quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.fyne.Lifecycle().SetOnStarted(func() {
		if a.monitors != nil {
			a.monitors.start(func() {
				a.queue.Post(command.Command{Action: command.DisplaysChanged})
			})
		}
		a.bindHotkeys(a.store.Snapshot())
		area := a.engine.DisplaysChanged()
		log.Printf("[ui] started, session %s, viewport %s", state.SessionID(), area)
		a.refreshTray()
	})

	go a.queue.Pump(ctx, fyne.Do, a.Handle)
	go a.tick(ctx)
	go func() {
		if err := a.store.Watch(ctx, func(config.Settings) {
			a.queue.Post(command.Command{Action: command.ReloadConfig})
		}); err != nil {
			log.Printf("[config] watch: %v", err)
		}
	}()
	go func() {
		select {
		case <-parent.Done():
			fyne.Do(a.fyne.Quit)
		case <-ctx.Done():
		}
	}()

	a.fyne.Run()
	a.binder.Close()
	a.host.close()
}

// Handle runs one queued command on the event loop.
func (a *App) Handle(cmd command.Command) {
	switch cmd.Action {
	case command.Quit:
		log.Println("[ui] quit requested")
		a.fyne.Quit()
		return
	case command.ReloadConfig:
		if err := a.store.Reload(); err != nil {
			log.Printf("[config] reload: %v", err)
		}
		a.applySettings(a.store.Snapshot())
	default:
		if err := a.engine.Apply(cmd); err != nil {
			log.Printf("[ui] %s: %v", cmd, err)
			return
		}
	}

	switch cmd.Action {
	case command.ClearDrawings:
		a.notify("Drawings cleared")
	case command.ToggleSpotlight:
		if a.engine.Status().Spotlight {
			a.notify("Spotlight on")
		} else {
			a.notify("Spotlight off")
		}
	}
	a.statusChanged()
}

func (a *App) applySettings(s config.Settings) {
	a.engine.ApplySettings(s)
	a.bindHotkeys(s)
}

// bindHotkeys registers the shortcuts system-wide where the desktop allows
// it. The rest only work while the overlay has focus.
func (a *App) bindHotkeys(s config.Settings) {
	bindings := Bindings(s)
	global := a.binder.Bind(bindings, func(cmd command.Command) { a.queue.Post(cmd) })
	a.overlay.SetHotkeys(focusedHotkeys(bindings, global))
}

func (a *App) tick(ctx context.Context) {
	t := time.NewTicker(time.Second / frameRate)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fyne.Do(a.onTick)
		}
	}
}

// onTick samples the cursor so the spotlight follows it outside the
// overlay, and repaints a frame the overlay missed.
func (a *App) onTick() {
	a.engine.Tick(a.platform.Cursor())
	if a.host.visible && a.overlay.Stale() {
		a.overlay.Invalidate()
	}
}

func (a *App) statusChanged() {
	a.refreshTray()
	for _, fn := range a.onStatus {
		go fn()
	}
}

func (a *App) refreshTray() {
	desk, ok := a.fyne.(desktop.App)
	if !ok {
		return
	}
	desk.SetSystemTrayMenu(trayMenu(a.store.Snapshot(), a.engine.Status(), func(cmd command.Command) {
		a.queue.Post(cmd)
	}))
}

func (a *App) notify(msg string) {
	a.fyne.SendNotification(fyne.NewNotification("Glowpoint", msg))
}

// input refreshes the tray and remote clients after input that can change
// the mode, tool or history.
type input struct {
	*engine.Engine
	changed func()
}

func (in input) PointerDown(p state.Point, mods engine.Modifiers) bool {
	consumed := in.Engine.PointerDown(p, mods)
	if consumed && in.Engine.Gesture() == nil {
		in.changed()
	}
	return consumed
}

func (in input) PointerUp(p state.Point) {
	in.Engine.PointerUp(p)
	in.changed()
}

func (in input) KeyPress(key string, mods engine.Modifiers) bool {
	handled := in.Engine.KeyPress(key, mods)
	if handled {
		in.changed()
	}
	return handled
}
