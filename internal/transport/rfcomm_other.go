//go:build !linux

// Package transport provides the stream dialers and listeners the pointer link runs over.
package transport

import (
	"context"
	"io"

	"github.com/frudas24/padlink/internal/link"
)

// RFCOMMDialer connects to a receiver over Bluetooth RFCOMM.
type RFCOMMDialer struct {
	Channel int
}

// ValidateAddress requires a colon-separated hardware address.
func (d RFCOMMDialer) ValidateAddress(address string) error {
	return link.ValidateHardwareAddress(address)
}

// Dial returns ErrUnsupported.
func (d RFCOMMDialer) Dial(context.Context, string) (io.WriteCloser, error) {
	return nil, ErrUnsupported
}

// RFCOMMListener is unavailable on this platform.
type RFCOMMListener struct{}

// ListenRFCOMM returns ErrUnsupported.
func ListenRFCOMM(int) (*RFCOMMListener, error) {
	return nil, ErrUnsupported
}

// Accept returns ErrUnsupported.
func (l *RFCOMMListener) Accept() (io.ReadCloser, error) {
	return nil, ErrUnsupported
}

// Close is a no-op.
func (l *RFCOMMListener) Close() error {
	return nil
}
