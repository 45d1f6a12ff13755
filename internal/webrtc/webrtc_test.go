package webrtc

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/pion/webrtc/v3"
)

// fakeChannel records sent messages.
type fakeChannel struct {
	mu      sync.Mutex
	sent    [][]byte
	closed  int
	sendErr error
}

// Send records data.
func (f *fakeChannel) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

// Close counts closes.
func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// closeCounter counts Close calls.
type closeCounter struct{ n int }

// Close increments the counter.
func (c *closeCounter) Close() error {
	c.n++
	return nil
}

// TestStream_WriteSendsOneMessage verifies each Write becomes one message.
func TestStream_WriteSendsOneMessage(t *testing.T) {
	ch := &fakeChannel{}
	s := newStream(ch)
	frame := []byte{0x01, 0x01, 0x2C, 0xFF, 0xFC}
	n, err := s.Write(frame)
	if err != nil || n != len(frame) {
		t.Fatalf("Write returned n=%d err=%v", n, err)
	}
	if len(ch.sent) != 1 || !bytes.Equal(ch.sent[0], frame) {
		t.Fatalf("unexpected sent messages %v", ch.sent)
	}
}

// TestStream_WriteError verifies send failures surface to the caller.
func TestStream_WriteError(t *testing.T) {
	s := newStream(&fakeChannel{sendErr: errors.New("closed")})
	if _, err := s.Write([]byte{1}); err == nil {
		t.Fatalf("expected write error")
	}
}

// TestStream_ReadDeliveredMessages verifies inbound messages are readable in order and EOF follows Close.
func TestStream_ReadDeliveredMessages(t *testing.T) {
	s := newStream(&fakeChannel{})
	go func() {
		s.deliver([]byte{1, 2, 3})
		s.deliver([]byte{4, 5})
		_ = s.pw.Close()
	}()
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected bytes % X", got)
	}
}

// TestStream_CloseIsIdempotent verifies closers run once.
func TestStream_CloseIsIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	extra := &closeCounter{}
	s := newStream(ch, extra, nil)
	_ = s.Close()
	_ = s.Close()
	if ch.closed != 1 || extra.n != 1 {
		t.Fatalf("expected single close, got channel=%d extra=%d", ch.closed, extra.n)
	}
}

// TestEndpoint_OfferCarriesDataChannel verifies an offer can be produced for the frame channel.
func TestEndpoint_OfferCarriesDataChannel(t *testing.T) {
	e, err := NewEndpoint()
	if err != nil {
		t.Fatalf("NewEndpoint failed: %v", err)
	}
	peer, err := e.NewPeer()
	if err != nil {
		t.Fatalf("NewPeer failed: %v", err)
	}
	defer peer.Close()
	dc, err := e.OpenChannel(peer)
	if err != nil {
		t.Fatalf("OpenChannel failed: %v", err)
	}
	if dc.Label() != ChannelLabel || !dc.Ordered() {
		t.Fatalf("unexpected channel label=%q ordered=%v", dc.Label(), dc.Ordered())
	}
	offer, err := peer.CreateOffer(nil)
	if err != nil {
		t.Fatalf("CreateOffer failed: %v", err)
	}
	if offer.Type != webrtc.SDPTypeOffer || !bytes.Contains([]byte(offer.SDP), []byte("webrtc-datachannel")) {
		t.Fatalf("unexpected offer %v", offer.Type)
	}
}
