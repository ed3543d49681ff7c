package engine

import (
	"testing"

	"Glowpoint/internal/config"
	"Glowpoint/internal/state"
)

func TestController_Transitions(t *testing.T) {
	var enters, exits int
	c := NewController(nil, Transitions{
		Enter: func() { enters++ },
		Exit:  func() { exits++ },
	})
	if c.Exit() {
		t.Error("Exit from click-through reported a change")
	}
	if !c.Enter() || c.Enter() {
		t.Error("Enter should change mode exactly once")
	}
	if !c.Exit() {
		t.Error("Exit from drawing reported no change")
	}
	if enters != 1 || exits != 1 {
		t.Errorf("enter/exit actions ran %d/%d times", enters, exits)
	}
}

func TestController_Interpret(t *testing.T) {
	c := NewController(config.Defaults().Drawing.ToolShortcuts, Transitions{})
	c.Enter()

	tests := []struct {
		key    string
		mods   Modifiers
		action KeyAction
		tool   state.ToolKind
	}{
		{"Escape", 0, KeyCancel, state.ToolFreehand},
		{"Z", ModCtrl, KeyUndo, state.ToolFreehand},
		{"Z", ModCtrl | ModShift, KeyRedo, state.ToolFreehand},
		{"Y", ModCtrl, KeyRedo, state.ToolFreehand},
		{"Z", 0, KeyIgnored, state.ToolFreehand},
		{"4", 0, KeySelectTool, state.ToolArrow},
		{"4", ModAlt, KeyIgnored, state.ToolFreehand},
		{"2", ModCtrl, KeyIgnored, state.ToolFreehand},
		{"9", 0, KeyIgnored, state.ToolFreehand},
	}
	for _, tt := range tests {
		action, tool := c.Interpret(tt.key, tt.mods)
		if action != tt.action || tool != tt.tool {
			t.Errorf("Interpret(%q, %b) = %v, %v; want %v, %v", tt.key, tt.mods, action, tool, tt.action, tt.tool)
		}
	}
}

func TestController_InterpretIgnoresClickThrough(t *testing.T) {
	c := NewController(config.Defaults().Drawing.ToolShortcuts, Transitions{})
	if action, _ := c.Interpret("Escape", 0); action != KeyIgnored {
		t.Errorf("Escape in click-through = %v", action)
	}
}

func TestController_UnknownShortcutSkipped(t *testing.T) {
	c := NewController(map[string]string{"lasso": "l", "line": " L "}, Transitions{})
	c.Enter()
	if action, tool := c.Interpret("l", 0); action != KeySelectTool || tool != state.ToolLine {
		t.Errorf("Interpret(l) = %v, %v", action, tool)
	}
}

func TestController_StraightLine(t *testing.T) {
	c := NewController(nil, Transitions{})
	if !c.StraightLine(ModShift, true) {
		t.Error("shift with anchor should draw a straight line")
	}
	if c.StraightLine(ModShift, false) || c.StraightLine(0, true) {
		t.Error("straight line without shift or anchor")
	}
	c.SelectTool(state.ToolCircle, false)
	if c.StraightLine(ModShift, true) {
		t.Error("straight line with circle tool")
	}
}
