//go:build !windows && !linux && !darwin

package ui

func newHotkeyBinder() hotkeyBinder { return nopBinder{} }
