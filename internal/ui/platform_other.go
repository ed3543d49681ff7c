//go:build !windows && !linux

package ui

func newPlatform() platform { return nopPlatform{} }
