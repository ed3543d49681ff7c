package ui

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"fyne.io/fyne/v2"

	"Glowpoint/internal/command"
	"Glowpoint/internal/config"
)

var hotkeyModifiers = map[string]fyne.KeyModifier{
	"<ctrl>":  fyne.KeyModifierControl,
	"<shift>": fyne.KeyModifierShift,
	"<alt>":   fyne.KeyModifierAlt,
	"<cmd>":   fyne.KeyModifierSuper,
	"<super>": fyne.KeyModifierSuper,
}

// ParseHotkey reads a shortcut such as "<ctrl>+<shift>+s".
func ParseHotkey(s string) (fyne.KeyName, fyne.KeyModifier, error) {
	var (
		mods fyne.KeyModifier
		key  fyne.KeyName
	)
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "+") {
		if m, ok := hotkeyModifiers[part]; ok {
			mods |= m
			continue
		}
		if key != "" || part == "" || strings.HasPrefix(part, "<") {
			return "", 0, fmt.Errorf("bad hotkey %q", s)
		}
		key = fyne.KeyName(strings.ToUpper(part))
	}
	if key == "" {
		return "", 0, fmt.Errorf("hotkey %q has no key", s)
	}
	return key, mods, nil
}

// Binding is one configured shortcut.
type Binding struct {
	Key     fyne.KeyName
	Mods    fyne.KeyModifier
	Command command.Command
}

// Chord is the lookup key used by the overlay, e.g. "ctrl+shift+s".
func (b Binding) Chord() string { return chordKey(b.Key, b.Mods) }

// Bindings reads the shortcuts section, sorted by chord. Entries that do not
// parse are logged and skipped.
func Bindings(s config.Settings) []Binding {
	out := make([]Binding, 0, len(s.Shortcuts))
	for action, shortcut := range s.Shortcuts {
		cmd, err := command.Parse(action)
		if err != nil {
			log.Printf("[ui] shortcut %s: %v", action, err)
			continue
		}
		key, mods, err := ParseHotkey(shortcut)
		if err != nil {
			log.Printf("[ui] shortcut %s: %v", action, err)
			continue
		}
		out = append(out, Binding{Key: key, Mods: mods, Command: cmd})
	}
	slices.SortFunc(out, func(a, b Binding) int { return strings.Compare(a.Chord(), b.Chord()) })
	return out
}

// Hotkeys builds the overlay's chord table from the shortcuts section.
func Hotkeys(s config.Settings) map[string]command.Command {
	return focusedHotkeys(Bindings(s), nil)
}

// focusedHotkeys is the chord table for the focused overlay, leaving out
// chords already registered system-wide so they do not fire twice.
func focusedHotkeys(bindings []Binding, global map[string]bool) map[string]command.Command {
	out := make(map[string]command.Command, len(bindings))
	for _, b := range bindings {
		if !global[b.Chord()] {
			out[b.Chord()] = b.Command
		}
	}
	return out
}

// hotkeyBinder registers shortcuts with the desktop so they work while
// another application has focus.
type hotkeyBinder interface {
	// Bind replaces every registered shortcut and reports the chords that
	// were registered.
	Bind(bindings []Binding, post func(command.Command)) map[string]bool
	Close()
}

type nopBinder struct{}

func (nopBinder) Bind([]Binding, func(command.Command)) map[string]bool { return nil }
func (nopBinder) Close()                                                {}
