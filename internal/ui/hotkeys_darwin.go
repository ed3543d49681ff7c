//go:build darwin

package ui

import (
	"fyne.io/fyne/v2"
	"golang.design/x/hotkey"
)

var modifierTable = []struct {
	fyne fyne.KeyModifier
	mod  hotkey.Modifier
}{
	{fyne.KeyModifierControl, hotkey.ModCtrl},
	{fyne.KeyModifierShift, hotkey.ModShift},
	{fyne.KeyModifierAlt, hotkey.ModOption},
	{fyne.KeyModifierSuper, hotkey.ModCmd},
}
