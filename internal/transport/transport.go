// Package transport provides the stream dialers and listeners the pointer link runs over.
package transport

import (
	"errors"
	"io"
	"strings"
)

const (
	// KindRFCOMM selects a Bluetooth RFCOMM stream.
	KindRFCOMM = "rfcomm"
	// KindTCP selects a plain TCP stream.
	KindTCP = "tcp"
	// KindWebRTC selects a WebRTC data channel negotiated over websocket signaling.
	KindWebRTC = "webrtc"
)

// DefaultRFCOMMChannel is the channel the receiver listens on.
const DefaultRFCOMMChannel = 1

var (
	// ErrUnsupported indicates the transport is not available on this platform.
	ErrUnsupported = errors.New("transport not supported on this platform")
	// ErrListenerClosed is returned by Accept after Close.
	ErrListenerClosed = errors.New("listener closed")
)

// Listener accepts inbound pointer streams on the receiver.
type Listener interface {
	Accept() (io.ReadCloser, error)
	Close() error
}

// NormalizeKind maps a configured transport name to a supported kind.
func NormalizeKind(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case KindTCP:
		return KindTCP
	case KindWebRTC:
		return KindWebRTC
	default:
		return KindRFCOMM
	}
}
