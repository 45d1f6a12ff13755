// Package testutil provides fakes shared by package tests.
package testutil

import (
	"sync"

	"github.com/frudas24/padlink/internal/inject"
)

// Call records a single injected action.
type Call struct {
	Name   string
	DX     int
	DY     int
	Button inject.Button
}

// FakeInjector implements inject.Injector and records calls for tests.
type FakeInjector struct {
	mu    sync.Mutex
	calls []Call
}

// Ensure FakeInjector implements the interface.
var _ inject.Injector = (*FakeInjector)(nil)

// MoveRel records a relative move.
func (f *FakeInjector) MoveRel(dx, dy int) error {
	f.record(Call{Name: "MoveRel", DX: dx, DY: dy})
	return nil
}

// Press records a button press.
func (f *FakeInjector) Press(b inject.Button) error {
	f.record(Call{Name: "Press", Button: b})
	return nil
}

// Release records a button release.
func (f *FakeInjector) Release(b inject.Button) error {
	f.record(Call{Name: "Release", Button: b})
	return nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeInjector) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// record appends a call.
func (f *FakeInjector) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}
