// Package link owns the outbound stream to the receiver.
package link

import "fmt"

// EventKind identifies a connection lifecycle notification.
type EventKind int

const (
	// EventInvalidAddress reports an address rejected before dialing.
	EventInvalidAddress EventKind = iota
	// EventConnecting reports that a connect attempt started.
	EventConnecting
	// EventConnected reports a new active stream.
	EventConnected
	// EventConnectFailed reports a failed connect attempt.
	EventConnectFailed
	// EventDisconnected reports that the active stream was closed.
	EventDisconnected
)

// Event is a connection status change for the user-facing notification sink.
type Event struct {
	Kind    EventKind
	Address string
	Err     error
}

// Notifier receives connection events. It is called from connect workers.
type Notifier func(Event)

// Message renders the event as a short status line.
func (e Event) Message() string {
	switch e.Kind {
	case EventInvalidAddress:
		return fmt.Sprintf("Invalid address %q", e.Address)
	case EventConnecting:
		return fmt.Sprintf("Connecting to %s", e.Address)
	case EventConnected:
		return fmt.Sprintf("Connected to %s", e.Address)
	case EventConnectFailed:
		return fmt.Sprintf("Connect err: %v", e.Err)
	case EventDisconnected:
		return fmt.Sprintf("Disconnected from %s", e.Address)
	default:
		return "unknown link event"
	}
}

// OK reports whether the event is not a failure.
func (e Event) OK() bool {
	return e.Kind != EventInvalidAddress && e.Kind != EventConnectFailed
}
