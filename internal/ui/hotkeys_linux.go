//go:build linux

package ui

import (
	"fyne.io/fyne/v2"
	"golang.design/x/hotkey"
)

// X11 reports Alt as Mod1 and Super as Mod4 on common keymaps.
var modifierTable = []struct {
	fyne fyne.KeyModifier
	mod  hotkey.Modifier
}{
	{fyne.KeyModifierControl, hotkey.ModCtrl},
	{fyne.KeyModifierShift, hotkey.ModShift},
	{fyne.KeyModifierAlt, hotkey.Mod1},
	{fyne.KeyModifierSuper, hotkey.Mod4},
}
