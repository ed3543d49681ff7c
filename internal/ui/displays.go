package ui

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"

	"Glowpoint/internal/display"
)

var errMonitorsNotReady = errors.New("monitor enumeration before the driver started")

// monitorSource lists monitors through glfw, which the fyne desktop driver
// initialises. It must only be used on the main thread once the app has
// started.
type monitorSource struct {
	ready atomic.Bool
}

func (s *monitorSource) Displays() (displays []display.Display, err error) {
	if !s.ready.Load() {
		return nil, errMonitorsNotReady
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("glfw: %v", r)
		}
	}()

	primary := glfw.GetPrimaryMonitor()
	for _, m := range glfw.GetMonitors() {
		x, y := m.GetPos()
		d := display.Display{
			Name:    m.GetName(),
			Primary: m == primary,
		}
		if mode := m.GetVideoMode(); mode != nil {
			d.Bounds = display.Area{X: x, Y: y, Width: mode.Width, Height: mode.Height}
		}
		wx, wy, ww, wh := m.GetWorkarea()
		d.WorkArea = display.Area{X: wx, Y: wy, Width: ww, Height: wh}
		if d.WorkArea.Empty() {
			d.WorkArea = d.Bounds
		}
		displays = append(displays, d)
	}
	return displays, nil
}

// start enables enumeration and calls changed on every monitor connect or
// disconnect.
func (s *monitorSource) start(changed func()) {
	s.ready.Store(true)
	glfw.SetMonitorCallback(func(_ *glfw.Monitor, _ glfw.PeripheralEvent) {
		changed()
	})
}
