//go:build windows

package ui

import (
	"errors"
	"image"
	"image/draw"
	"log"
	"runtime"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"Glowpoint/internal/render"
)

const layerClass = "GlowpointClickThrough"

// layeredWindow is a per-pixel-alpha popup that ignores input. It lives on
// its own locked OS thread, which owns the window and pumps its messages;
// other goroutines hand it work through ops.
type layeredWindow struct {
	thread   uint32
	hwnd     uintptr
	ops      chan func()
	latest   atomic.Pointer[render.Scene]
	pending  atomic.Bool
	pipeline *render.Pipeline
	surface  *dib
	shown    bool
}

func newLayeredWindow() (*layeredWindow, error) {
	l := &layeredWindow{
		ops:      make(chan func(), 16),
		pipeline: render.NewPipeline(),
	}
	ready := make(chan error, 1)
	go l.run(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return l, nil
}

func layerProc(hwnd, message, wparam, lparam uintptr) uintptr {
	if message == wmNCHitTest {
		return ^uintptr(0) // HTTRANSPARENT
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wparam, lparam)
	return r
}

func (l *layeredWindow) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	instance, _, _ := procGetModuleHandleW.Call(0)
	class, _ := windows.UTF16PtrFromString(layerClass)
	wc := wndClassEx{
		WndProc:   windows.NewCallback(layerProc),
		Instance:  instance,
		ClassName: class,
	}
	wc.Size = uint32(unsafe.Sizeof(wc))
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	hwnd, _, err := procCreateWindowExW.Call(
		wsExLayered|wsExTransparent|wsExTopmost|wsExToolWindow|wsExNoActivate,
		uintptr(unsafe.Pointer(class)), 0, wsPopup,
		0, 0, 1, 1, 0, 0, instance, 0)
	if hwnd == 0 {
		ready <- errors.Join(errors.New("CreateWindowEx failed"), err)
		return
	}
	l.hwnd = hwnd
	l.thread = windows.GetCurrentThreadId()
	ready <- nil

	var m msg
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
		if m.Hwnd == 0 && m.Message == wmApp {
			l.drain()
			continue
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (l *layeredWindow) drain() {
	for {
		select {
		case op := <-l.ops:
			op()
		default:
			return
		}
	}
}

func (l *layeredWindow) do(op func()) {
	l.ops <- op
	procPostThreadMessageW.Call(uintptr(l.thread), wmApp, 0, 0)
}

// Show coalesces repaints: only the latest scene is painted.
func (l *layeredWindow) Show(scene *render.Scene) {
	if scene == nil {
		return
	}
	l.latest.Store(scene)
	if l.pending.Swap(true) {
		return
	}
	l.do(func() {
		l.pending.Store(false)
		l.paint(l.latest.Load())
	})
}

// Hide returns once the layer is off screen, so a capture taken next does
// not include it.
func (l *layeredWindow) Hide() {
	done := make(chan struct{})
	l.do(func() {
		defer close(done)
		if l.shown {
			procShowWindow.Call(l.hwnd, swHide)
			l.shown = false
		}
	})
	<-done
}

func (l *layeredWindow) Close() {
	l.do(func() {
		if l.surface != nil {
			l.surface.release()
			l.surface = nil
		}
		procDestroyWindow.Call(l.hwnd)
		procPostThreadMessageW.Call(uintptr(l.thread), wmQuit, 0, 0)
	})
}

func (l *layeredWindow) paint(scene *render.Scene) {
	vp := scene.Viewport
	if vp.Empty() {
		return
	}
	if l.surface == nil || l.surface.w != vp.Width || l.surface.h != vp.Height {
		if l.surface != nil {
			l.surface.release()
		}
		s, err := newDIB(vp.Width, vp.Height)
		if err != nil {
			log.Printf("[ui] click-through surface: %v", err)
			l.surface = nil
			return
		}
		l.surface = s
	}
	copyPremultipliedBGRA(l.surface.bits, l.pipeline.Render(*scene, vp.Width, vp.Height))

	screen, _, _ := procGetDC.Call(0)
	defer procReleaseDC.Call(0, screen)
	dst := point{X: int32(vp.X), Y: int32(vp.Y)}
	sz := size{CX: int32(vp.Width), CY: int32(vp.Height)}
	var src point
	blend := blendFunction{BlendOp: acSrcOver, SourceConstantAlpha: 0xff, AlphaFormat: acSrcAlpha}
	r, _, err := procUpdateLayeredWindow.Call(l.hwnd, screen,
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&sz)),
		l.surface.dc, uintptr(unsafe.Pointer(&src)), 0,
		uintptr(unsafe.Pointer(&blend)), ulwAlpha)
	if r == 0 {
		log.Printf("[ui] UpdateLayeredWindow: %v", err)
		return
	}
	if !l.shown {
		procShowWindow.Call(l.hwnd, swShowNoActivate)
		l.shown = true
	}
}

// copyPremultipliedBGRA writes img into a BGRA buffer with premultiplied
// alpha, the format UpdateLayeredWindow expects.
func copyPremultipliedBGRA(dst []byte, img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	n := min(len(dst), len(rgba.Pix))
	for i := 0; i+3 < n; i += 4 {
		dst[i] = rgba.Pix[i+2]
		dst[i+1] = rgba.Pix[i+1]
		dst[i+2] = rgba.Pix[i]
		dst[i+3] = rgba.Pix[i+3]
	}
}
