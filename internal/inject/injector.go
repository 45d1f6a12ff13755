// Package inject moves and clicks the local pointer on the receiving host.
package inject

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates native pointer injection is not available.
var ErrUnsupported = errors.New("pointer injection is not supported on this platform")

// Button identifies a pointer button.
type Button int

const (
	// Left is the primary button.
	Left Button = iota
	// Right is the secondary button.
	Right
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Injector defines the pointer operations the receiver needs.
type Injector interface {
	MoveRel(dx, dy int) error
	Press(b Button) error
	Release(b Button) error
}

// KindNative selects the platform injector (see package native); KindLog only logs.
const (
	KindNative = "native"
	KindLog    = "log"
)

// New returns the injector for kind. native builds the platform injector
// (package native) and is only called for KindNative.
func New(kind string, native func() (Injector, error)) (Injector, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindLog:
		return &LogInjector{}, nil
	case "", KindNative:
		if native == nil {
			return nil, ErrUnsupported
		}
		return native()
	default:
		return nil, fmt.Errorf("unknown injector %q", kind)
	}
}
