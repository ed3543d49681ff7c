package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
)

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		in      string
		key     fyne.KeyName
		mods    fyne.KeyModifier
		wantErr bool
	}{
		{"<ctrl>+<shift>+s", fyne.KeyS, fyne.KeyModifierControl | fyne.KeyModifierShift, false},
		{" <Alt>+F1 ", fyne.KeyF1, fyne.KeyModifierAlt, false},
		{"<cmd>+q", fyne.KeyQ, fyne.KeyModifierSuper, false},
		{"x", fyne.KeyX, 0, false},
		{"<ctrl>+<shift>", "", 0, true},
		{"<ctrl>+a+b", "", 0, true},
		{"<hyper>+a", "", 0, true},
		{"", "", 0, true},
	}
	for _, tt := range tests {
		key, mods, err := ParseHotkey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHotkey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if key != tt.key || mods != tt.mods {
			t.Errorf("ParseHotkey(%q) = %q, %v; want %q, %v", tt.in, key, mods, tt.key, tt.mods)
		}
	}
}

func TestHotkeys_Defaults(t *testing.T) {
	table := Hotkeys(config.Defaults())
	tests := map[string]command.Command{
		"ctrl+shift+s": {Action: command.ToggleSpotlight},
		"ctrl+shift+r": {Action: command.ToggleDrawing, Color: "red"},
		"ctrl+shift+c": {Action: command.ClearDrawings},
		"ctrl+shift+q": {Action: command.Quit},
	}
	for chord, want := range tests {
		if got, ok := table[chord]; !ok || got != want {
			t.Errorf("table[%q] = %v, %v; want %v", chord, got, ok, want)
		}
	}
	if len(table) != len(config.Defaults().Shortcuts) {
		t.Errorf("len(table) = %d, want %d", len(table), len(config.Defaults().Shortcuts))
	}
}

func TestHotkeys_SkipsBadEntries(t *testing.T) {
	s := config.Defaults()
	s.Shortcuts = map[string]string{
		"undo":              "<ctrl>+u",
		"fly_away":          "<ctrl>+f",
		"clear_screen":      "<ctrl>+",
		"select_tool:arrow": "<alt>+4",
	}
	table := Hotkeys(s)
	if len(table) != 2 {
		t.Fatalf("table = %v, want 2 entries", table)
	}
	if got := table["alt+4"]; got.Tool != "arrow" {
		t.Errorf("alt+4 = %v, want select_tool arrow", got)
	}
}

func TestChordKey(t *testing.T) {
	got := chordKey(fyne.KeyR, fyne.KeyModifierShift|fyne.KeyModifierControl)
	if got != "ctrl+shift+r" {
		t.Errorf("chordKey = %q, want ctrl+shift+r", got)
	}
}

func TestBindings_SortedByChord(t *testing.T) {
	s := config.Defaults()
	s.Shortcuts = map[string]string{
		"undo":             "<ctrl>+z",
		"clear_screen":     "<ctrl>+<shift>+c",
		"toggle_spotlight": "<alt>+s",
	}
	got := Bindings(s)
	want := []string{"alt+s", "ctrl+shift+c", "ctrl+z"}
	if len(got) != len(want) {
		t.Fatalf("Bindings = %v", got)
	}
	for i, b := range got {
		if b.Chord() != want[i] {
			t.Errorf("Bindings[%d] = %s, want %s", i, b.Chord(), want[i])
		}
	}
}

func TestFocusedHotkeys_SkipsGlobal(t *testing.T) {
	bindings := Bindings(config.Defaults())
	table := focusedHotkeys(bindings, map[string]bool{"ctrl+shift+q": true})
	if _, ok := table["ctrl+shift+q"]; ok {
		t.Error("global chord kept in the focused table")
	}
	if len(table) != len(bindings)-1 {
		t.Errorf("len(table) = %d, want %d", len(table), len(bindings)-1)
	}
}
