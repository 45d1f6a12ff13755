// Package testutil provides fakes shared by package tests.
package testutil

import "sync"

// RecordingSender records every frame passed to Send.
type RecordingSender struct {
	mu     sync.Mutex
	frames [][]byte
}

// Send records a copy of the frame.
func (r *RecordingSender) Send(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, append([]byte(nil), p...))
}

// Frames returns a copy of the recorded frames.
func (r *RecordingSender) Frames() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.frames))
	copy(out, r.frames)
	return out
}
