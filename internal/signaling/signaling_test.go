package signaling

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/padlink/internal/packet"
	"github.com/frudas24/padlink/internal/transport"
	pub "github.com/frudas24/padlink/internal/webrtc"
	"github.com/gorilla/websocket"
)

// newTestEndpoint returns a webrtc endpoint for tests.
func newTestEndpoint(t *testing.T) *pub.Endpoint {
	t.Helper()
	e, err := pub.NewEndpoint()
	if err != nil {
		t.Fatalf("NewEndpoint failed: %v", err)
	}
	return e
}

// TestDialer_ValidateAddress verifies only websocket URLs are accepted.
func TestDialer_ValidateAddress(t *testing.T) {
	d, err := NewDialer(newTestEndpoint(t))
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}
	if err := d.ValidateAddress("ws://192.0.2.1:7575/ws/signal"); err != nil {
		t.Fatalf("expected valid url, got %v", err)
	}
	for _, bad := range []string{"AA:BB:CC:DD:EE:FF", "http://host/ws/signal", "ws:///ws/signal"} {
		if err := d.ValidateAddress(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

// TestNewDialer_RequiresEndpoint verifies constructor validation.
func TestNewDialer_RequiresEndpoint(t *testing.T) {
	if _, err := NewDialer(nil); err == nil {
		t.Fatalf("expected error for nil endpoint")
	}
}

// TestServer_Unauthorized verifies the auth hook gates the socket.
func TestServer_Unauthorized(t *testing.T) {
	s := NewServer(newTestEndpoint(t), SenderReplace, func() bool { return false })
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/signal", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// TestServer_CloseUnblocksAccept verifies Accept reports ErrListenerClosed after Close.
func TestServer_CloseUnblocksAccept(t *testing.T) {
	s := NewServer(newTestEndpoint(t), SenderReplace, nil)
	errCh := make(chan error, 1)
	go func() {
		_, err := s.Accept()
		errCh <- err
	}()
	_ = s.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, transport.ErrListenerClosed) {
			t.Fatalf("expected ErrListenerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Accept did not return after Close")
	}
}

// TestServer_RejectPolicy verifies a second sender is refused under SenderReject.
func TestServer_RejectPolicy(t *testing.T) {
	s := NewServer(newTestEndpoint(t), SenderReject, nil)
	ts := httptest.NewServer(s)
	defer ts.Close()
	defer s.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer first.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		active := s.conn != nil
		s.mu.Unlock()
		if active || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer second.Close()
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = second.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) || closeErr.Code != websocket.ClosePolicyViolation {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

// readResult is the outcome of one blocking read in a helper goroutine.
type readResult struct {
	data []byte
	err  error
}

// readFrame reads one frame from rd, giving up after timeout.
func readFrame(t *testing.T, rd io.Reader, timeout time.Duration) readResult {
	t.Helper()
	ch := make(chan readResult, 1)
	go func() {
		buf := make([]byte, packet.Size)
		_, err := io.ReadFull(rd, buf)
		ch <- readResult{data: buf, err: err}
	}()
	select {
	case res := <-ch:
		return res
	case <-time.After(timeout):
		t.Fatalf("read timed out after %v", timeout)
		return readResult{}
	}
}

// TestDialAccept_Loopback verifies a frame crosses a data channel negotiated
// over loopback signaling and that closing the sender ends the receiver stream.
func TestDialAccept_Loopback(t *testing.T) {
	srv := NewServer(newTestEndpoint(t), SenderReplace, nil)
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	accepted := make(chan io.ReadCloser, 1)
	go func() {
		rc, err := srv.Accept()
		if err != nil {
			return
		}
		accepted <- rc
	}()

	d, err := NewDialer(newTestEndpoint(t))
	if err != nil {
		t.Fatalf("NewDialer failed: %v", err)
	}
	if err := d.ValidateAddress(url); err != nil {
		t.Fatalf("ValidateAddress failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	w, err := d.Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer w.Close()

	var rc io.ReadCloser
	select {
	case rc = <-accepted:
	case <-time.After(10 * time.Second):
		t.Fatalf("Accept did not return a stream")
	}
	defer rc.Close()

	want := packet.Encode(300, -4, packet.ButtonLeft).Bytes()
	if _, err := w.Write(want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	res := readFrame(t, rc, 5*time.Second)
	if res.err != nil {
		t.Fatalf("ReadFull failed: %v", res.err)
	}
	if !bytes.Equal(res.data, want) {
		t.Fatalf("expected % X, got % X", want, res.data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	res = readFrame(t, rc, 5*time.Second)
	if !errors.Is(res.err, io.EOF) {
		t.Fatalf("expected EOF after sender close, got %v", res.err)
	}
}
