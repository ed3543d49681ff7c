package config

import "strings"

var modifierNames = strings.NewReplacer(
	"<ctrl>", "Ctrl",
	"<shift>", "Shift",
	"<alt>", "Alt",
	"<cmd>", "Cmd",
	"<meta>", "Meta",
	"<esc>", "Esc",
	"<tab>", "Tab",
	"<space>", "Space",
	"<enter>", "Enter",
)

// FormatShortcut renders "<ctrl>+<shift>+s" as "Ctrl+Shift+S".
func FormatShortcut(shortcut string) string {
	if shortcut == "" {
		return ""
	}
	parts := strings.Split(modifierNames.Replace(shortcut), "+")
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = strings.ToUpper(p)
		}
	}
	return strings.Join(parts, "+")
}

// ShortcutDisplay returns the formatted global shortcut for action.
func (s Settings) ShortcutDisplay(action string) string {
	return FormatShortcut(s.Shortcuts[action])
}
