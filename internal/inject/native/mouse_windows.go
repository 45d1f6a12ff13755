//go:build windows

package native

import (
	"github.com/lxn/win"

	"github.com/frudas24/padlink/internal/inject"
)

// MoveRel moves the cursor by a relative offset.
func (w *WinInjector) MoveRel(dx, dy int) error {
	return sendMouseInput(win.MOUSEEVENTF_MOVE, int32(dx), int32(dy))
}

// Press presses a mouse button.
func (w *WinInjector) Press(b inject.Button) error {
	if b == inject.Right {
		return sendMouseInput(win.MOUSEEVENTF_RIGHTDOWN, 0, 0)
	}
	return sendMouseInput(win.MOUSEEVENTF_LEFTDOWN, 0, 0)
}

// Release releases a mouse button.
func (w *WinInjector) Release(b inject.Button) error {
	if b == inject.Right {
		return sendMouseInput(win.MOUSEEVENTF_RIGHTUP, 0, 0)
	}
	return sendMouseInput(win.MOUSEEVENTF_LEFTUP, 0, 0)
}
