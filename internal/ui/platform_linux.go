//go:build linux

package ui

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"github.com/godbus/dbus/v5"

	"Glowpoint/internal/display"
	"Glowpoint/internal/state"
)

const portalTimeout = 5 * time.Second

// linuxPlatform captures the desktop through the xdg-desktop-portal. X11
// and Wayland give no portable way to read the global cursor, place a window
// or pass input through, so those report unsupported.
type linuxPlatform struct{}

func newPlatform() platform { return linuxPlatform{} }

func (linuxPlatform) Cursor() (state.Point, bool)          { return state.Point{}, false }
func (linuxPlatform) Place(fyne.Window, display.Area) bool { return false }
func (linuxPlatform) ClickThrough() clickThroughLayer      { return nil }

func (linuxPlatform) Capture(display.Area) (image.Image, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.portal.Request"),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return nil, fmt.Errorf("match portal response: %w", err)
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	opts := map[string]dbus.Variant{"interactive": dbus.MakeVariant(false)}
	var handle dbus.ObjectPath
	if err := obj.Call("org.freedesktop.portal.Screenshot.Screenshot", 0, "", opts).Store(&handle); err != nil {
		return nil, fmt.Errorf("screenshot request: %w", err)
	}

	timeout := time.After(portalTimeout)
	for {
		select {
		case sig := <-signals:
			if sig.Path != handle || len(sig.Body) < 2 {
				continue
			}
			return readPortalScreenshot(sig.Body)
		case <-timeout:
			return nil, errors.New("screenshot portal timed out")
		}
	}
}

func readPortalScreenshot(body []any) (image.Image, error) {
	if code, _ := body[0].(uint32); code != 0 {
		return nil, fmt.Errorf("screenshot portal refused (%d)", code)
	}
	results, _ := body[1].(map[string]dbus.Variant)
	uri, _ := results["uri"].Value().(string)
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return nil, fmt.Errorf("screenshot uri %q", uri)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return nil, err
	}
	defer os.Remove(u.Path)
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
