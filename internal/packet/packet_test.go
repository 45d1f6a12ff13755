package packet

import (
	"bytes"
	"testing"
)

// TestEncode_Reference verifies the documented reference frame.
func TestEncode_Reference(t *testing.T) {
	got := Encode(300, -4, 1)
	want := []byte{0x01, 0x01, 0x2C, 0xFF, 0xFC}
	if !bytes.Equal(got.Bytes(), want) {
		t.Fatalf("expected % X, got % X", want, got.Bytes())
	}
}

// TestEncode_IgnoresHighButtonBits verifies only left/right bits reach the wire.
func TestEncode_IgnoresHighButtonBits(t *testing.T) {
	got := Encode(0, 0, 0xFF)
	if got[0] != ButtonLeft|ButtonRight {
		t.Fatalf("expected button byte 0x03, got 0x%02X", got[0])
	}
}

// TestEncode_WrapsOverflow verifies out-of-range axes wrap like int16 truncation.
func TestEncode_WrapsOverflow(t *testing.T) {
	got := Encode(40000, -40000, 0)
	f := Decode(got)
	if f.DX != int16(40000-65536) || f.DY != int16(-40000+65536) {
		t.Fatalf("unexpected wrapped frame %+v", f)
	}
}

// TestClick_LeftFrame verifies a left click frame carries no motion.
func TestClick_LeftFrame(t *testing.T) {
	got := Click(ButtonLeft)
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got.Bytes(), want) {
		t.Fatalf("expected % X, got % X", want, got.Bytes())
	}
}

// TestMotion_NoButtons verifies motion frames never carry button bits.
func TestMotion_NoButtons(t *testing.T) {
	got := Motion(-1, 1)
	want := []byte{0x00, 0xFF, 0xFF, 0x00, 0x01}
	if !bytes.Equal(got.Bytes(), want) {
		t.Fatalf("expected % X, got % X", want, got.Bytes())
	}
}

// TestDecode_SignExtends verifies negative axes decode as negative values.
func TestDecode_SignExtends(t *testing.T) {
	f := Decode(Packet{0x02, 0xFF, 0xFC, 0x01, 0x2C})
	if f.Buttons != ButtonRight || f.DX != -4 || f.DY != 300 {
		t.Fatalf("unexpected frame %+v", f)
	}
}

// TestClamp16_Saturates verifies the remainder is returned for oversized values.
func TestClamp16_Saturates(t *testing.T) {
	v, rest := Clamp16(40000)
	if v != 32767 || rest != 40000-32767 {
		t.Fatalf("expected (32767,%d), got (%d,%d)", 40000-32767, v, rest)
	}
	v, rest = Clamp16(-40000)
	if v != -32768 || rest != -40000+32768 {
		t.Fatalf("expected (-32768,%d), got (%d,%d)", -40000+32768, v, rest)
	}
	v, rest = Clamp16(12)
	if v != 12 || rest != 0 {
		t.Fatalf("expected (12,0), got (%d,%d)", v, rest)
	}
}
