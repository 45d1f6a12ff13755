// Package control turns touchpad events into motion and click packets.
package control

import (
	"errors"
	"sync"

	"github.com/frudas24/padlink/internal/motion"
	"github.com/frudas24/padlink/internal/packet"
)

// Translator converts absolute pointer samples into relative deltas. Only the
// pointer that pressed first drives motion until it is lifted.
type Translator struct {
	acc     *motion.Accumulator
	out     motion.Sender
	enabled func() bool

	mu          sync.Mutex
	active      bool
	pointer     int
	lastX       float64
	lastY       float64
	firstSample bool
}

// NewTranslator creates a translator feeding acc for motion and out for clicks.
// enabled may be nil, in which case input is always relayed.
func NewTranslator(acc *motion.Accumulator, out motion.Sender, enabled func() bool) (*Translator, error) {
	if acc == nil {
		return nil, errors.New("accumulator is required")
	}
	if out == nil {
		return nil, errors.New("sender is required")
	}
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Translator{acc: acc, out: out, enabled: enabled}, nil
}

// HandleDown starts a touch session at (x, y). The next move only re-anchors
// the reference so the finger landing never jumps the cursor.
func (t *Translator) HandleDown(pointerID int, x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled() {
		t.active = false
		return
	}
	if t.active && t.pointer != pointerID {
		return
	}
	t.active = true
	t.pointer = pointerID
	t.lastX = x
	t.lastY = y
	t.firstSample = true
}

// HandleMove adds the delta from the previous sample to the accumulator.
// Deltas are truncated toward zero per sample.
func (t *Translator) HandleMove(pointerID int, x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.pointer != pointerID {
		return
	}
	if t.firstSample {
		t.firstSample = false
		t.lastX = x
		t.lastY = y
		return
	}
	dx := int(x - t.lastX)
	dy := int(y - t.lastY)
	t.lastX = x
	t.lastY = y
	if !t.enabled() {
		return
	}
	t.acc.Add(dx, dy)
}

// HandleUp ends the touch session for pointerID. It emits nothing.
func (t *Translator) HandleUp(pointerID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active && t.pointer == pointerID {
		t.active = false
	}
}

// Click sends a button frame immediately, bypassing the accumulator. Pending
// motion is left for the next dispatcher tick. It reports whether a frame was sent.
func (t *Translator) Click(buttons uint8) bool {
	if buttons&(packet.ButtonLeft|packet.ButtonRight) == 0 || !t.enabled() {
		return false
	}
	t.out.Send(packet.Click(buttons).Bytes())
	return true
}

// ButtonFromName maps "left"/"right" to a button mask; unknown names map to 0.
func ButtonFromName(name string) uint8 {
	switch name {
	case "left":
		return packet.ButtonLeft
	case "right":
		return packet.ButtonRight
	default:
		return 0
	}
}
