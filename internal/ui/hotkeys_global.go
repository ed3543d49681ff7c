//go:build windows || linux || darwin

package ui

import (
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"golang.design/x/hotkey"

	"Glowpoint/internal/command"
)

// globalHotkeys registers shortcuts with the OS. Each registered hotkey has
// a goroutine that posts its command on key down.
type globalHotkeys struct {
	active []*registeredHotkey
}

type registeredHotkey struct {
	hk   *hotkey.Hotkey
	done chan struct{}
}

func newHotkeyBinder() hotkeyBinder { return &globalHotkeys{} }

func (g *globalHotkeys) Bind(bindings []Binding, post func(command.Command)) map[string]bool {
	g.Close()
	out := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		key, ok := hotkeyKey(b.Key)
		if !ok {
			log.Printf("[ui] global hotkey %s: key not supported, focused only", b.Chord())
			continue
		}
		hk := hotkey.New(hotkeyMods(b.Mods), key)
		if err := hk.Register(); err != nil {
			log.Printf("[ui] global hotkey %s: %v", b.Chord(), err)
			continue
		}
		r := &registeredHotkey{hk: hk, done: make(chan struct{})}
		go r.listen(b.Command, post)
		g.active = append(g.active, r)
		out[b.Chord()] = true
	}
	if len(out) > 0 {
		log.Printf("[ui] %d global hotkeys registered", len(out))
	}
	return out
}

func (g *globalHotkeys) Close() {
	for _, r := range g.active {
		close(r.done)
		if err := r.hk.Unregister(); err != nil {
			log.Printf("[ui] unregister hotkey: %v", err)
		}
	}
	g.active = nil
}

func (r *registeredHotkey) listen(cmd command.Command, post func(command.Command)) {
	for {
		select {
		case <-r.done:
			return
		case _, ok := <-r.hk.Keydown():
			if !ok {
				return
			}
			post(cmd)
		}
	}
}

var hotkeyKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
}

func hotkeyKey(name fyne.KeyName) (hotkey.Key, bool) {
	k, ok := hotkeyKeys[strings.ToLower(string(name))]
	return k, ok
}

func hotkeyMods(m fyne.KeyModifier) []hotkey.Modifier {
	var out []hotkey.Modifier
	for _, mm := range modifierTable {
		if m&mm.fyne != 0 {
			out = append(out, mm.mod)
		}
	}
	return out
}
