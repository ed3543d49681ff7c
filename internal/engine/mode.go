package engine

import (
	"log"
	"strings"

	"Glowpoint/internal/state"
)

// Mode is the overlay's input mode.
type Mode int

const (
	// ModeClickThrough leaves pointer input to the applications underneath.
	ModeClickThrough Mode = iota
	// ModeDrawing captures pointer and keyboard input for annotation.
	ModeDrawing
)

func (m Mode) String() string {
	if m == ModeDrawing {
		return "drawing"
	}
	return "click-through"
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

// KeyAction is what a key press means in drawing mode.
type KeyAction int

const (
	KeyIgnored KeyAction = iota
	KeyCancel
	KeyUndo
	KeyRedo
	KeySelectTool
)

// Transitions are run when the controller changes mode.
type Transitions struct {
	Enter func()
	Exit  func()
}

// Controller owns the mode and the active tool.
type Controller struct {
	mode      Mode
	tool      state.ToolKind
	shortcuts map[string]state.ToolKind
	on        Transitions
}

// NewController starts in click-through mode with the freehand tool.
func NewController(shortcuts map[string]string, on Transitions) *Controller {
	c := &Controller{tool: state.ToolFreehand, on: on}
	c.SetShortcuts(shortcuts)
	return c
}

// SetShortcuts replaces the tool key table. Keys are matched case
// insensitively; unknown tool names are logged and skipped.
func (c *Controller) SetShortcuts(shortcuts map[string]string) {
	table := make(map[string]state.ToolKind, len(shortcuts))
	for name, key := range shortcuts {
		tool, ok := state.ParseTool(name)
		if !ok {
			log.Printf("[engine] tool shortcut for unknown tool %q ignored", name)
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		table[key] = tool
	}
	c.shortcuts = table
}

func (c *Controller) Mode() Mode           { return c.mode }
func (c *Controller) Drawing() bool        { return c.mode == ModeDrawing }
func (c *Controller) Tool() state.ToolKind { return c.tool }

// Enter switches to drawing mode. It reports false if already drawing.
func (c *Controller) Enter() bool {
	if c.mode == ModeDrawing {
		return false
	}
	c.mode = ModeDrawing
	if c.on.Enter != nil {
		c.on.Enter()
	}
	return true
}

// Exit returns to click-through mode. It reports false if not drawing.
func (c *Controller) Exit() bool {
	if c.mode != ModeDrawing {
		return false
	}
	c.mode = ModeClickThrough
	if c.on.Exit != nil {
		c.on.Exit()
	}
	return true
}

// SelectTool changes the active tool unless a gesture is in progress.
func (c *Controller) SelectTool(tool state.ToolKind, busy bool) bool {
	if busy || tool == c.tool {
		return false
	}
	c.tool = tool
	return true
}

// Interpret maps a key press to an action. Keys are fyne key names
// ("Escape", "Z", "1"). Only meaningful in drawing mode.
func (c *Controller) Interpret(key string, mods Modifiers) (KeyAction, state.ToolKind) {
	if c.mode != ModeDrawing {
		return KeyIgnored, c.tool
	}
	k := strings.ToLower(key)
	if k == "escape" {
		return KeyCancel, c.tool
	}
	if mods.Has(ModCtrl) {
		switch {
		case k == "z" && mods.Has(ModShift), k == "y":
			return KeyRedo, c.tool
		case k == "z":
			return KeyUndo, c.tool
		}
		return KeyIgnored, c.tool
	}
	if mods.Has(ModAlt) || mods.Has(ModSuper) {
		return KeyIgnored, c.tool
	}
	if tool, ok := c.shortcuts[k]; ok {
		return KeySelectTool, tool
	}
	return KeyIgnored, c.tool
}

// StraightLine reports whether a press should draw an instant line from the
// remembered endpoint instead of starting a gesture.
func (c *Controller) StraightLine(mods Modifiers, haveAnchor bool) bool {
	return haveAnchor && c.tool == state.ToolFreehand && mods.Has(ModShift)
}
