// Package motion coalesces pointer deltas and flushes them on a fixed tick.
package motion

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frudas24/padlink/internal/packet"
)

// DefaultInterval is the flush period. It bounds pointer latency and caps the
// motion packet rate at roughly 66 packets per second.
const DefaultInterval = 15 * time.Millisecond

// Sender delivers encoded frames. Implementations must not block on connection setup.
type Sender interface {
	Send(p []byte)
}

// Stats counts dispatcher activity.
type Stats struct {
	Ticks   uint64
	Packets uint64
}

// Dispatcher drains an Accumulator on a fixed interval and sends motion frames.
type Dispatcher struct {
	acc      *Accumulator
	out      Sender
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	ticks   atomic.Uint64
	packets atomic.Uint64
}

// NewDispatcher creates a dispatcher. A non-positive interval selects DefaultInterval.
func NewDispatcher(acc *Accumulator, out Sender, interval time.Duration) (*Dispatcher, error) {
	if acc == nil {
		return nil, errors.New("accumulator is required")
	}
	if out == nil {
		return nil, errors.New("sender is required")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dispatcher{acc: acc, out: out, interval: interval}, nil
}

// Interval returns the flush period.
func (d *Dispatcher) Interval() time.Duration {
	return d.interval
}

// Start launches the flush loop. Calling Start on a running dispatcher is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true
	go func(done chan struct{}) {
		defer close(done)
		d.Run(ctx)
	}(d.done)
}

// Stop cancels the flush loop and waits for it to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	done := d.done
	d.running = false
	d.mu.Unlock()
	<-done
}

// Running reports whether the flush loop is active.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Run flushes on every tick until ctx is cancelled. Ticks never overlap; a
// slow send makes the ticker drop ticks instead of queueing them.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick drains the accumulator once and sends a motion frame when there is
// motion to report. Axes beyond the int16 range are saturated and the rest is
// put back for the next tick.
func (d *Dispatcher) Tick() bool {
	d.ticks.Add(1)
	dx, dy := d.acc.Drain()
	if dx == 0 && dy == 0 {
		return false
	}
	sx, restX := packet.Clamp16(dx)
	sy, restY := packet.Clamp16(dy)
	if restX != 0 || restY != 0 {
		d.acc.Add(restX, restY)
	}
	p := packet.Motion(int(sx), int(sy))
	if debugEnabled() {
		log.Printf("debug: motion dx=%d dy=%d", sx, sy)
	}
	d.out.Send(p.Bytes())
	d.packets.Add(1)
	return true
}

// Stats returns a snapshot of the tick and packet counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{Ticks: d.ticks.Load(), Packets: d.packets.Load()}
}

var debugMotion atomic.Bool

// SetDebugLogging enables/disables per-packet motion logs.
func SetDebugLogging(enabled bool) {
	debugMotion.Store(enabled)
}

// debugEnabled reports whether per-packet logs are enabled.
func debugEnabled() bool {
	return debugMotion.Load()
}
