// Package link owns the outbound stream to the receiver.
package link

import (
	"fmt"
	"strconv"
)

// HardwareAddressLen is the length of a colon-separated hardware address.
const HardwareAddressLen = 17

// ParseHardwareAddress parses "AA:BB:CC:DD:EE:FF" into bytes in display order.
func ParseHardwareAddress(s string) ([6]byte, error) {
	var out [6]byte
	if len(s) != HardwareAddressLen {
		return out, fmt.Errorf("address must be %d characters, got %d", HardwareAddressLen, len(s))
	}
	for i := 0; i < 6; i++ {
		part := s[i*3 : i*3+2]
		if i < 5 && s[i*3+2] != ':' {
			return out, fmt.Errorf("expected ':' at offset %d", i*3+2)
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return out, fmt.Errorf("bad octet %q", part)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// ValidateHardwareAddress checks the fixed-length colon-separated shape.
func ValidateHardwareAddress(s string) error {
	_, err := ParseHardwareAddress(s)
	return err
}
