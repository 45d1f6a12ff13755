package signaling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	pub "github.com/frudas24/padlink/internal/webrtc"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
)

// Dialer opens a frame data channel to a receiver's signaling endpoint,
// e.g. ws://host:7575/ws/signal.
type Dialer struct {
	endpoint *pub.Endpoint
	ws       *websocket.Dialer
}

// NewDialer creates a dialer using endpoint for peer connections.
func NewDialer(endpoint *pub.Endpoint) (*Dialer, error) {
	if endpoint == nil {
		return nil, errors.New("webrtc endpoint is required")
	}
	return &Dialer{endpoint: endpoint, ws: websocket.DefaultDialer}, nil
}

// ValidateAddress requires a ws:// or wss:// URL with a host.
func (d *Dialer) ValidateAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("signaling url must use ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("signaling url has no host")
	}
	return nil
}

// Dial negotiates a peer over the signaling socket and returns the open
// data channel. The socket stays open for the stream's lifetime; the
// receiver drops the peer when it closes.
func (d *Dialer) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	conn, _, err := d.ws.DialContext(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("signaling dial: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	peer, err := d.endpoint.NewPeer()
	if err != nil {
		stop()
		_ = conn.Close()
		return nil, err
	}
	fail := func(err error) (io.WriteCloser, error) {
		stop()
		_ = peer.Close()
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	dc, err := d.endpoint.OpenChannel(peer)
	if err != nil {
		return fail(err)
	}
	opened := make(chan struct{})
	dc.OnOpen(func() { close(opened) })
	st := pub.NewStream(dc, peer, conn)

	if err := d.sendOffer(ctx, conn, peer); err != nil {
		return fail(err)
	}
	answer, err := readAnswer(conn)
	if err != nil {
		return fail(err)
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: answer}); err != nil {
		return fail(err)
	}

	select {
	case <-opened:
	case <-ctx.Done():
		return fail(ctx.Err())
	}
	if !stop() {
		return fail(context.Canceled)
	}

	go watchSignal(conn, st)
	return st, nil
}

// sendOffer creates a complete (non-trickle) offer and writes it.
func (d *Dialer) sendOffer(ctx context.Context, conn *websocket.Conn, peer *webrtc.PeerConnection) error {
	offer, err := peer.CreateOffer(nil)
	if err != nil {
		return err
	}
	gatherComplete := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(offer); err != nil {
		return err
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		return ctx.Err()
	}
	local := peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return conn.WriteJSON(Message{T: "offer", SDP: local.SDP})
}

// readAnswer reads messages until the answer arrives. Trickled candidates are
// skipped since the answer is sent once gathering is complete.
func readAnswer(conn *websocket.Conn) (string, error) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return "", fmt.Errorf("signaling read: %w", err)
		}
		if msg.T == "answer" {
			if msg.SDP == "" {
				return "", fmt.Errorf("empty answer")
			}
			return msg.SDP, nil
		}
	}
}

// watchSignal drains the signaling socket and closes the stream when the
// receiver hangs up.
func watchSignal(conn *websocket.Conn, st *pub.Stream) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("signaling: receiver hung up: %v", err)
			_ = st.Close()
			return
		}
	}
}
