// Package link owns the outbound stream to the receiver.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultConnectTimeout bounds a single connect attempt.
	DefaultConnectTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds one frame write on streams that support deadlines.
	DefaultWriteTimeout = 2 * time.Second

	// sendQueueSize is how many frames wait for the writer before Send drops.
	sendQueueSize = 64
)

var (
	// ErrInvalidAddress is returned synchronously when an address fails validation.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrSuperseded is reported by an attempt replaced by a newer Connect or Disconnect.
	ErrSuperseded = errors.New("connect attempt superseded")
	// ErrClosed is returned by Connect after Close.
	ErrClosed = errors.New("link manager closed")
)

// Dialer opens a writable stream to a receiver address.
type Dialer interface {
	ValidateAddress(address string) error
	Dial(ctx context.Context, address string) (io.WriteCloser, error)
}

// Options configures a Manager.
type Options struct {
	Dialer         Dialer
	Notify         Notifier
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
}

// Manager holds at most one active stream. Send never blocks on connection
// setup or on the network; Connect dials on its own goroutine and swaps the
// stream in atomically.
type Manager struct {
	dialer       Dialer
	notify       Notifier
	timeout      time.Duration
	writeTimeout time.Duration

	active atomic.Pointer[stream]

	mu            sync.Mutex
	gen           uint64
	cancelPending context.CancelFunc
	closed        bool
	workers       sync.WaitGroup
}

// NewManager creates a manager for the given dialer.
func NewManager(opts Options) (*Manager, error) {
	if opts.Dialer == nil {
		return nil, errors.New("dialer is required")
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Manager{
		dialer:       opts.Dialer,
		notify:       opts.Notify,
		timeout:      timeout,
		writeTimeout: writeTimeout,
	}, nil
}

// Connect validates address and starts an asynchronous connect attempt.
// The previous stream stays active until the new one is established, then it
// is closed. A failed attempt leaves the previous stream untouched.
func (m *Manager) Connect(address string) (*Attempt, error) {
	address = strings.TrimSpace(address)
	if err := m.dialer.ValidateAddress(address); err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidAddress, err)
		m.emit(Event{Kind: EventInvalidAddress, Address: address, Err: err})
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.supersedeLocked()
	gen := m.gen
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancelPending = cancel
	m.workers.Add(1)
	m.mu.Unlock()

	attempt := newAttempt(address)
	m.emit(Event{Kind: EventConnecting, Address: address})
	go m.dial(ctx, cancel, gen, attempt)
	return attempt, nil
}

// dial runs one connect attempt and installs the stream if it is still current.
func (m *Manager) dial(ctx context.Context, cancel context.CancelFunc, gen uint64, attempt *Attempt) {
	defer m.workers.Done()
	defer cancel()

	w, err := m.dialer.Dial(ctx, attempt.address)

	m.mu.Lock()
	if gen != m.gen || m.closed {
		m.mu.Unlock()
		if w != nil {
			_ = w.Close()
		}
		log.Printf("link: attempt to %s superseded", attempt.address)
		attempt.finish(ErrSuperseded)
		return
	}
	m.cancelPending = nil
	if err != nil {
		m.mu.Unlock()
		log.Printf("link: connect %s: %v", attempt.address, err)
		m.emit(Event{Kind: EventConnectFailed, Address: attempt.address, Err: err})
		attempt.finish(err)
		return
	}
	old := m.active.Swap(newStream(attempt.address, w, m.writeTimeout))
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	log.Printf("link: connected to %s", attempt.address)
	m.emit(Event{Kind: EventConnected, Address: attempt.address})
	attempt.finish(nil)
}

// Send queues one frame for the active stream and returns immediately.
// Without a stream it is a no-op. Frames are dropped when the queue is full or
// the stream is broken; failures are logged once per stream.
func (m *Manager) Send(p []byte) {
	st := m.active.Load()
	if st == nil {
		return
	}
	st.send(p)
}

// Disconnect cancels any pending attempt and closes the active stream. It is
// idempotent and never fails.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.supersedeLocked()
	old := m.active.Swap(nil)
	m.mu.Unlock()

	if old == nil {
		return
	}
	old.close()
	log.Printf("link: disconnected from %s", old.address)
	m.emit(Event{Kind: EventDisconnected, Address: old.address})
}

// Close disconnects, rejects further Connect calls, and waits for pending workers.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.Disconnect()
	m.workers.Wait()
}

// Connected returns the active address, if any. A stream whose writes failed
// is not reported as connected.
func (m *Manager) Connected() (string, bool) {
	st := m.active.Load()
	if st == nil || st.isClosed() || st.broken.Load() {
		return "", false
	}
	return st.address, true
}

// supersedeLocked invalidates the pending attempt. Callers hold m.mu.
func (m *Manager) supersedeLocked() {
	if m.cancelPending != nil {
		m.cancelPending()
		m.cancelPending = nil
	}
	m.gen++
}

// emit forwards an event to the notifier when one is configured.
func (m *Manager) emit(ev Event) {
	if m.notify != nil {
		m.notify(ev)
	}
}

// stream is one open connection. A single writer goroutine drains its queue,
// so frames stay whole and in order when motion and clicks race.
type stream struct {
	address string
	w       io.WriteCloser
	timeout time.Duration

	queue chan []byte
	done  chan struct{}

	broken    atomic.Bool
	closed    atomic.Bool
	queueFull atomic.Bool
}

// newStream wraps w and starts its writer.
func newStream(address string, w io.WriteCloser, timeout time.Duration) *stream {
	s := &stream{
		address: address,
		w:       w,
		timeout: timeout,
		queue:   make(chan []byte, sendQueueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// send queues a copy of p without blocking.
func (s *stream) send(p []byte) {
	if s.broken.Load() || s.closed.Load() {
		return
	}
	frame := append([]byte(nil), p...)
	select {
	case <-s.done:
	case s.queue <- frame:
	default:
		if !s.queueFull.Swap(true) {
			log.Printf("link: send queue to %s full, dropping frames", s.address)
		}
	}
}

// run writes queued frames until the stream is closed or a write fails.
func (s *stream) run() {
	for {
		select {
		case <-s.done:
			return
		case p := <-s.queue:
			if err := s.write(p); err != nil {
				if s.closed.Load() {
					return
				}
				s.broken.Store(true)
				log.Printf("link: send to %s failed, dropping frames until reconnect: %v", s.address, err)
				return
			}
			s.queueFull.Store(false)
		}
	}
}

// write sends p in a single call, bounded by the write timeout when the
// handle supports deadlines.
func (s *stream) write(p []byte) error {
	if d, ok := s.w.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now().Add(s.timeout))
	}
	_, err := s.w.Write(p)
	return err
}

// close closes the underlying handle once, ignoring errors from broken handles.
// Closing the handle also unblocks a writer stuck in Write.
func (s *stream) close() {
	if s.closed.Swap(true) {
		return
	}
	close(s.done)
	if err := s.w.Close(); err != nil && debugEnabled() {
		log.Printf("debug: close %s: %v", s.address, err)
	}
}

// isClosed reports whether close has been called.
func (s *stream) isClosed() bool {
	return s.closed.Load()
}

var debugLink atomic.Bool

// SetDebugLogging enables/disables verbose link logs.
func SetDebugLogging(enabled bool) {
	debugLink.Store(enabled)
}

// debugEnabled reports whether verbose link logs are enabled.
func debugEnabled() bool {
	return debugLink.Load()
}
