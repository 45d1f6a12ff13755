// Package receiver decodes pointer frames from a stream and injects them locally.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/frudas24/padlink/internal/inject"
	"github.com/frudas24/padlink/internal/packet"
	"github.com/frudas24/padlink/internal/transport"
)

// retryDelay is the pause after a failed Accept.
const retryDelay = time.Second

// Options tunes how decoded motion is applied.
type Options struct {
	// SpeedPct scales motion: 100 is 1:1, 50 half, 200 double, negative inverts.
	SpeedPct int
	// InterpSteps splits each motion frame into that many sub-moves; 0 disables it.
	InterpSteps int
}

// Receiver applies frames to an injector.
type Receiver struct {
	inj   inject.Injector
	mult  int
	steps int

	mu     sync.Mutex
	client io.Closer
}

// New validates opts and returns a receiver.
func New(inj inject.Injector, opts Options) (*Receiver, error) {
	if inj == nil {
		return nil, errors.New("injector is required")
	}
	if opts.InterpSteps < 0 {
		return nil, fmt.Errorf("interp steps must be >= 0 (got %d)", opts.InterpSteps)
	}
	r := &Receiver{
		inj:   inj,
		mult:  SpeedMultiplier(opts.SpeedPct),
		steps: opts.InterpSteps,
	}
	log.Printf("receiver: speed coefficient = %d (Q16.16), interp steps = %d", r.mult, r.steps)
	return r, nil
}

// SpeedMultiplier converts a percentage into a Q16.16 factor.
func SpeedMultiplier(pct int) int {
	return pct * 65536 / 100
}

// Serve accepts one sender at a time until ctx is done or the listener closes.
func (r *Receiver) Serve(ctx context.Context, ln transport.Listener) error {
	done := make(chan struct{})
	watcher := make(chan struct{})
	go func() {
		defer close(watcher)
		select {
		case <-ctx.Done():
			_ = ln.Close()
			r.dropClient()
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-watcher
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrListenerClosed) {
				return nil
			}
			log.Printf("receiver: accept: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryDelay):
			}
			continue
		}
		log.Printf("receiver: client connected")
		r.setClient(conn)
		err = r.Handle(conn)
		r.dropClient()
		if err != nil && ctx.Err() == nil {
			log.Printf("receiver: client error: %v", err)
		}
		log.Printf("receiver: client disconnected")
	}
}

// Handle reads whole frames from rd until EOF and applies each one.
func (r *Receiver) Handle(rd io.Reader) error {
	var p packet.Packet
	for {
		if _, err := io.ReadFull(rd, p[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
		if err := r.Apply(packet.Decode(p)); err != nil {
			return err
		}
	}
}

// Apply injects one frame: button pulses first, then motion.
func (r *Receiver) Apply(f packet.Frame) error {
	if f.Buttons&packet.ButtonLeft != 0 {
		if err := r.pulse(inject.Left); err != nil {
			return err
		}
	}
	if f.Buttons&packet.ButtonRight != 0 {
		if err := r.pulse(inject.Right); err != nil {
			return err
		}
	}
	dx, dy := r.scale(f.DX), r.scale(f.DY)
	if dx == 0 && dy == 0 {
		return nil
	}
	for _, step := range Split(dx, dy, r.steps) {
		if err := r.inj.MoveRel(step[0], step[1]); err != nil {
			return err
		}
	}
	return nil
}

// pulse presses and releases b.
func (r *Receiver) pulse(b inject.Button) error {
	if err := r.inj.Press(b); err != nil {
		return err
	}
	return r.inj.Release(b)
}

// scale applies the Q16.16 speed factor and keeps the result in int16 range.
func (r *Receiver) scale(v int16) int {
	return int(int16((int(v) * r.mult) >> 16))
}

// Split divides a move into steps equal sub-moves, folding the remainder into
// the last one so the total is preserved. steps <= 1 returns the move as is.
func Split(dx, dy, steps int) [][2]int {
	if steps <= 1 {
		return [][2]int{{dx, dy}}
	}
	out := make([][2]int, steps)
	sx, sy := dx/steps, dy/steps
	for i := range out {
		out[i] = [2]int{sx, sy}
	}
	out[steps-1][0] += dx - sx*steps
	out[steps-1][1] += dy - sy*steps
	return out
}

// setClient records the active client so shutdown can close it.
func (r *Receiver) setClient(c io.Closer) {
	r.mu.Lock()
	r.client = c
	r.mu.Unlock()
}

// dropClient closes the active client, if any.
func (r *Receiver) dropClient() {
	r.mu.Lock()
	c := r.client
	r.client = nil
	r.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}
