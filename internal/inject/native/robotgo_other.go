//go:build !windows

// Package native injects pointer input through the host's input APIs.
package native

import (
	"github.com/go-vgo/robotgo"

	"github.com/frudas24/padlink/internal/inject"
)

// RobotInjector injects pointer input through robotgo.
type RobotInjector struct{}

// New returns a robotgo-backed pointer injector.
func New() (inject.Injector, error) {
	return &RobotInjector{}, nil
}

// MoveRel moves the cursor by a relative offset.
func (r *RobotInjector) MoveRel(dx, dy int) error {
	robotgo.MoveRelative(dx, dy)
	return nil
}

// Press presses a mouse button.
func (r *RobotInjector) Press(b inject.Button) error {
	robotgo.MouseDown(b.String())
	return nil
}

// Release releases a mouse button.
func (r *RobotInjector) Release(b inject.Button) error {
	robotgo.MouseUp(b.String())
	return nil
}
