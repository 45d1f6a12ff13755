// Package link owns the outbound stream to the receiver.
package link

import (
	"context"
	"sync"
)

// Attempt tracks one asynchronous connect.
type Attempt struct {
	address string
	done    chan struct{}
	once    sync.Once
	err     error
}

// newAttempt returns a pending attempt for address.
func newAttempt(address string) *Attempt {
	return &Attempt{address: address, done: make(chan struct{})}
}

// Address returns the address being dialed.
func (a *Attempt) Address() string {
	return a.address
}

// Done is closed once the attempt has succeeded or failed.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Err returns the outcome. It is nil while the attempt is pending and after success.
func (a *Attempt) Err() error {
	select {
	case <-a.done:
		return a.err
	default:
		return nil
	}
}

// Wait blocks until the attempt finishes or ctx is done.
func (a *Attempt) Wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish records the outcome and releases waiters.
func (a *Attempt) finish(err error) {
	a.once.Do(func() {
		a.err = err
		close(a.done)
	})
}
