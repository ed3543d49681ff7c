//go:build windows

package ui

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"unsafe"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"Glowpoint/internal/display"
	"Glowpoint/internal/state"
)

// winPlatform drives the overlay through user32 and gdi32.
type winPlatform struct {
	once  sync.Once
	layer *layeredWindow
}

func newPlatform() platform { return &winPlatform{} }

func (p *winPlatform) Cursor() (state.Point, bool) {
	var pt point
	if r, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); r == 0 {
		return state.Point{}, false
	}
	return state.Point{X: float64(pt.X), Y: float64(pt.Y)}, true
}

func (p *winPlatform) Capture(area display.Area) (image.Image, error) {
	if area.Empty() {
		return nil, errors.New("empty capture area")
	}
	d, err := newDIB(area.Width, area.Height)
	if err != nil {
		return nil, err
	}
	defer d.release()

	screen, _, _ := procGetDC.Call(0)
	if screen == 0 {
		return nil, errors.New("GetDC failed")
	}
	defer procReleaseDC.Call(0, screen)
	r, _, _ := procBitBlt.Call(d.dc, 0, 0, uintptr(area.Width), uintptr(area.Height),
		screen, uintptr(int32(area.X)), uintptr(int32(area.Y)), srcCopy)
	if r == 0 {
		return nil, errors.New("BitBlt failed")
	}

	img := image.NewRGBA(image.Rect(0, 0, area.Width, area.Height))
	for i := 0; i+3 < len(d.bits); i += 4 {
		img.Pix[i] = d.bits[i+2]
		img.Pix[i+1] = d.bits[i+1]
		img.Pix[i+2] = d.bits[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

func (p *winPlatform) Place(win fyne.Window, area display.Area) bool {
	hwnd := nativeHWND(win)
	if hwnd == 0 || area.Empty() {
		return false
	}
	procSetWindowLongPtrW.Call(hwnd, uintptr(gwlStyle), wsPopup|wsVisible)
	ex, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(gwlExStyle))
	procSetWindowLongPtrW.Call(hwnd, uintptr(gwlExStyle), ex|wsExTopmost|wsExToolWindow)
	r, _, _ := procSetWindowPos.Call(hwnd, hwndTopmost,
		uintptr(int32(area.X)), uintptr(int32(area.Y)), uintptr(area.Width), uintptr(area.Height),
		swpFrameChanged|swpShowWindow)
	return r != 0
}

func (p *winPlatform) ClickThrough() clickThroughLayer {
	p.once.Do(func() {
		l, err := newLayeredWindow()
		if err != nil {
			log.Printf("[ui] click-through layer: %v", err)
			return
		}
		p.layer = l
	})
	if p.layer == nil {
		return nil
	}
	return p.layer
}

func nativeHWND(win fyne.Window) uintptr {
	nw, ok := win.(driver.NativeWindow)
	if !ok {
		return 0
	}
	var hwnd uintptr
	nw.RunNative(func(ctx any) {
		if wc, ok := ctx.(driver.WindowsWindowContext); ok {
			hwnd = wc.HWND
		}
	})
	return hwnd
}

// dib is a top-down 32-bit BGRA bitmap selected into a memory DC.
type dib struct {
	dc, bitmap, old uintptr
	bits            []byte
	w, h            int
}

func newDIB(w, h int) (*dib, error) {
	screen, _, _ := procGetDC.Call(0)
	if screen == 0 {
		return nil, errors.New("GetDC failed")
	}
	defer procReleaseDC.Call(0, screen)

	dc, _, _ := procCreateCompatibleDC.Call(screen)
	if dc == 0 {
		return nil, errors.New("CreateCompatibleDC failed")
	}
	hdr := bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       int32(w),
		Height:      -int32(h),
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}
	var bits unsafe.Pointer
	bm, _, _ := procCreateDIBSection.Call(dc, uintptr(unsafe.Pointer(&hdr)), dibRGB,
		uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bm == 0 || bits == nil {
		procDeleteDC.Call(dc)
		return nil, fmt.Errorf("CreateDIBSection %dx%d failed", w, h)
	}
	old, _, _ := procSelectObject.Call(dc, bm)
	return &dib{
		dc:     dc,
		bitmap: bm,
		old:    old,
		bits:   unsafe.Slice((*byte)(bits), w*h*4),
		w:      w,
		h:      h,
	}, nil
}

func (d *dib) release() {
	procSelectObject.Call(d.dc, d.old)
	procDeleteObject.Call(d.bitmap)
	procDeleteDC.Call(d.dc)
}
