// Package command carries actions from background goroutines (remote
// control, config watcher, hotkey sources) to the UI event loop.
package command

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// ErrUnknownAction is returned by Parse for unrecognised action names.
var ErrUnknownAction = errors.New("unknown action")

// Action names a host-level operation.
type Action string

const (
	ToggleSpotlight Action = "toggle_spotlight"
	StartDrawing    Action = "start_drawing"
	StopDrawing     Action = "stop_drawing"
	ToggleDrawing   Action = "toggle_drawing"
	ClearDrawings   Action = "clear_screen"
	Undo            Action = "undo"
	Redo            Action = "redo"
	SelectTool      Action = "select_tool"
	DisplaysChanged Action = "displays_changed"
	ReloadConfig    Action = "reload_config"
	Quit            Action = "quit"
)

var actions = map[Action]bool{
	ToggleSpotlight: true,
	StartDrawing:    true,
	StopDrawing:     true,
	ToggleDrawing:   true,
	ClearDrawings:   true,
	Undo:            true,
	Redo:            true,
	SelectTool:      true,
	DisplaysChanged: true,
	ReloadConfig:    true,
	Quit:            true,
}

// Command is one queued request. Color applies to the drawing actions and
// Tool to SelectTool.
type Command struct {
	Action Action `json:"action"`
	Color  string `json:"color,omitempty"`
	Tool   string `json:"tool,omitempty"`
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(string(c.Action))
	if c.Color != "" {
		fmt.Fprintf(&b, " color=%s", c.Color)
	}
	if c.Tool != "" {
		fmt.Fprintf(&b, " tool=%s", c.Tool)
	}
	return b.String()
}

// Validate checks the action name and required arguments.
func (c Command) Validate() error {
	if !actions[c.Action] {
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
	switch c.Action {
	case StartDrawing, ToggleDrawing:
		if c.Color == "" {
			return fmt.Errorf("%s needs a color", c.Action)
		}
	case SelectTool:
		if c.Tool == "" {
			return fmt.Errorf("%s needs a tool", c.Action)
		}
	}
	return nil
}

// Parse reads the short textual form used by hotkey bindings and the HTTP
// API: "undo", "select_tool:arrow", "draw_red" (shorthand for
// toggle_drawing:red), "toggle_drawing:red".
func Parse(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if color, ok := strings.CutPrefix(s, "draw_"); ok {
		cmd := Command{Action: ToggleDrawing, Color: color}
		return cmd, cmd.Validate()
	}
	name, arg, _ := strings.Cut(s, ":")
	cmd := Command{Action: Action(name)}
	switch cmd.Action {
	case SelectTool:
		cmd.Tool = arg
	case StartDrawing, ToggleDrawing:
		cmd.Color = arg
	}
	return cmd, cmd.Validate()
}

// Queue is a bounded, non-blocking mailbox. Post may be called from any
// goroutine; only the event loop consumes.
type Queue struct {
	ch      chan Command
	dropped atomic.Uint64
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan Command, size)}
}

// Post enqueues cmd without blocking. A full queue drops the command and
// reports false.
func (q *Queue) Post(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		q.dropped.Add(1)
		log.Printf("[command] queue full, dropped %s", cmd)
		return false
	}
}

// Dropped is the number of commands lost to a full queue.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

// Pump forwards queued commands to handle until ctx is done. Each command
// is passed through post, which must run its argument on the event loop
// (fyne.Do in the application, a direct call in tests).
func (q *Queue) Pump(ctx context.Context, post func(func()), handle func(Command)) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-q.ch:
			post(func() { handle(cmd) })
		}
	}
}
