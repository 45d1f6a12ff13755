//go:build windows

// Package native injects pointer input through the host's input APIs.
package native

import (
	"unsafe"

	"github.com/lxn/win"

	"github.com/frudas24/padlink/internal/inject"
)

// WinInjector injects pointer input using SendInput.
type WinInjector struct{}

// New returns a Windows pointer injector.
func New() (inject.Injector, error) {
	return &WinInjector{}, nil
}

// sendMouseInput dispatches a single mouse input event.
func sendMouseInput(flags uint32, dx, dy int32) error {
	input := win.MOUSE_INPUT{
		Type: win.INPUT_MOUSE,
		Mi: win.MOUSEINPUT{
			Dx:      dx,
			Dy:      dy,
			DwFlags: flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return inject.ErrUnsupported
	}
	return nil
}
