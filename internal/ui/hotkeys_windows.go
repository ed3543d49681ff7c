//go:build windows

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
	{fyne.KeyModifierAlt, hotkey.ModAlt},
	{fyne.KeyModifierSuper, hotkey.ModWin},
}
