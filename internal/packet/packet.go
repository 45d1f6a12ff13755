// Package packet encodes and decodes the 5-byte pointer wire frame.
package packet

import (
	"encoding/binary"
	"math"
)

// Size is the length of every frame on the wire.
const Size = 5

const (
	// ButtonLeft is the left-button pulse bit.
	ButtonLeft uint8 = 1 << 0
	// ButtonRight is the right-button pulse bit.
	ButtonRight uint8 = 1 << 1

	buttonMask = ButtonLeft | ButtonRight
)

// Packet is one encoded frame: buttons, dx (big-endian int16), dy (big-endian int16).
type Packet [Size]byte

// Frame is a decoded packet.
type Frame struct {
	Buttons uint8
	DX      int16
	DY      int16
}

// Encode builds a frame. Axes are truncated to int16 with two's-complement
// wraparound and only the low two button bits are kept.
func Encode(dx, dy int, buttons uint8) Packet {
	var p Packet
	p[0] = buttons & buttonMask
	binary.BigEndian.PutUint16(p[1:3], uint16(int16(dx)))
	binary.BigEndian.PutUint16(p[3:5], uint16(int16(dy)))
	return p
}

// Motion builds a motion-only frame.
func Motion(dx, dy int) Packet {
	return Encode(dx, dy, 0)
}

// Click builds a button-only frame.
func Click(buttons uint8) Packet {
	return Encode(0, 0, buttons)
}

// Decode parses a frame, sign-extending both axes.
func Decode(p Packet) Frame {
	return Frame{
		Buttons: p[0] & buttonMask,
		DX:      int16(binary.BigEndian.Uint16(p[1:3])),
		DY:      int16(binary.BigEndian.Uint16(p[3:5])),
	}
}

// Bytes returns the frame as a slice for stream writes.
func (p Packet) Bytes() []byte {
	return p[:]
}

// Clamp16 saturates v to the int16 range and returns the part that did not fit.
func Clamp16(v int) (int16, int) {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16, v - math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16, v - math.MinInt16
	default:
		return int16(v), 0
	}
}
