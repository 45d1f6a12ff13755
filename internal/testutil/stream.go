// Package testutil provides fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrStreamClosed is returned by writes to a closed FakeStream.
var ErrStreamClosed = errors.New("fake stream closed")

// FakeStream records writes and closes.
type FakeStream struct {
	mu       sync.Mutex
	Name     string
	writes   [][]byte
	closed   int
	WriteErr error
}

// Write records p, or fails when closed or WriteErr is set.
func (s *FakeStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed > 0 {
		return 0, ErrStreamClosed
	}
	if s.WriteErr != nil {
		return 0, s.WriteErr
	}
	s.writes = append(s.writes, append([]byte(nil), p...))
	return len(p), nil
}

// Close marks the stream closed.
func (s *FakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Writes returns a copy of the recorded writes.
func (s *FakeStream) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.writes))
	copy(out, s.writes)
	return out
}

// WaitWrites polls until at least n writes are recorded or timeout passes,
// then returns the writes seen.
func (s *FakeStream) WaitWrites(n int, timeout time.Duration) [][]byte {
	deadline := time.Now().Add(timeout)
	for {
		writes := s.Writes()
		if len(writes) >= n || time.Now().After(deadline) {
			return writes
		}
		time.Sleep(time.Millisecond)
	}
}

// Closed returns how many times Close was called.
func (s *FakeStream) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// StallStream is a peer that stopped reading: every Write blocks until Close.
type StallStream struct {
	once    sync.Once
	closed  chan struct{}
	entered chan struct{}
	enter   sync.Once
}

// NewStallStream creates an open stalled stream.
func NewStallStream() *StallStream {
	return &StallStream{closed: make(chan struct{}), entered: make(chan struct{})}
}

// Write blocks until Close and then fails.
func (s *StallStream) Write([]byte) (int, error) {
	s.enter.Do(func() { close(s.entered) })
	<-s.closed
	return 0, ErrStreamClosed
}

// Close releases blocked writers.
func (s *StallStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// Entered is closed once a Write has started blocking.
func (s *StallStream) Entered() <-chan struct{} {
	return s.entered
}

// IsClosed reports whether Close was called.
func (s *StallStream) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// DialFunc produces the result of one fake dial.
type DialFunc func(ctx context.Context, address string) (io.WriteCloser, error)

// FakeDialer accepts any non-empty address and delegates dialing to Fn.
type FakeDialer struct {
	Fn DialFunc

	mu    sync.Mutex
	dials []string
}

// ValidateAddress rejects only empty addresses.
func (d *FakeDialer) ValidateAddress(address string) error {
	if address == "" {
		return errors.New("empty address")
	}
	return nil
}

// Dial records the address and calls Fn.
func (d *FakeDialer) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	d.mu.Lock()
	d.dials = append(d.dials, address)
	d.mu.Unlock()
	if d.Fn == nil {
		return &FakeStream{Name: address}, nil
	}
	return d.Fn(ctx, address)
}

// Dials returns the dialed addresses in order.
func (d *FakeDialer) Dials() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dials...)
}
