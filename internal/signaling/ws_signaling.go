package signaling

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/padlink/internal/transport"
	pub "github.com/frudas24/padlink/internal/webrtc"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
)

// SenderPolicy controls how additional senders are handled.
type SenderPolicy int

const (
	// SenderReject rejects new connections when one is active.
	SenderReject SenderPolicy = iota
	// SenderReplace closes the active connection when a new one arrives.
	SenderReplace
)

// Server accepts sender peers over websocket signaling and hands their frame
// channels out through Accept, so it can serve as a transport.Listener.
type Server struct {
	mu       sync.Mutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
	endpoint *pub.Endpoint
	policy   SenderPolicy
	authFn   func() bool
	conn     *websocket.Conn
	peer     *webrtc.PeerConnection

	streams   chan *pub.Stream
	done      chan struct{}
	closeOnce sync.Once
}

// Ensure Server can be served by the receiver.
var _ transport.Listener = (*Server)(nil)

// NewServer creates a signaling server with the chosen sender policy and auth function.
func NewServer(endpoint *pub.Endpoint, policy SenderPolicy, authFn func() bool) *Server {
	return &Server{
		endpoint: endpoint,
		policy:   policy,
		authFn:   authFn,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		streams: make(chan *pub.Stream),
		done:    make(chan struct{}),
	}
}

// ServeHTTP upgrades the request and starts the signaling loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authFn != nil && !s.authFn() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if s.isClosed() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if err := s.acceptConn(conn); err != nil {
		s.rejectConn(conn, err.Error())
		return
	}
	defer s.cleanupConn(conn)

	peer, err := s.endpoint.NewPeer()
	if err != nil {
		log.Printf("signaling: new peer: %v", err)
		return
	}
	if err := s.attachPeer(conn, peer); err != nil {
		_ = peer.Close()
		return
	}

	peer.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		candidate := c.ToJSON()
		_ = s.sendTo(conn, Message{T: "ice", Candidate: &candidate})
	})
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != pub.ChannelLabel {
			_ = dc.Close()
			return
		}
		st := pub.NewStream(dc, peer, conn)
		dc.OnOpen(func() {
			log.Printf("signaling: sender %s connected", conn.RemoteAddr())
			s.offer(st)
		})
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(conn, peer, msg); err != nil {
			log.Printf("signaling: %v", err)
			return
		}
	}
}

// Accept returns the next opened sender stream.
func (s *Server) Accept() (io.ReadCloser, error) {
	select {
	case st := <-s.streams:
		return st, nil
	case <-s.done:
		return nil, transport.ErrListenerClosed
	}
}

// Close stops accepting streams and drops the active sender.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		s.cleanupConn(conn)
	}
	return nil
}

// offer queues a stream for Accept, or closes it once the server is closed.
func (s *Server) offer(st *pub.Stream) {
	select {
	case s.streams <- st:
	case <-s.done:
		_ = st.Close()
	}
}

// isClosed reports whether Close has been called.
func (s *Server) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// acceptConn registers a new websocket connection or returns an error.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		switch s.policy {
		case SenderReplace:
			_ = s.conn.Close()
			if s.peer != nil {
				_ = s.peer.Close()
			}
			s.conn = nil
			s.peer = nil
		default:
			return fmt.Errorf("sender already connected")
		}
	}
	s.conn = conn
	return nil
}

// rejectConn sends a policy violation close and closes the socket.
func (s *Server) rejectConn(conn *websocket.Conn, reason string) {
	message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(1*time.Second))
	_ = conn.Close()
}

// attachPeer stores the peer connection when the websocket is still active.
func (s *Server) attachPeer(conn *websocket.Conn, peer *webrtc.PeerConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return fmt.Errorf("connection no longer active")
	}
	s.peer = peer
	return nil
}

// cleanupConn clears state if the connection is still the active one.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		if s.peer != nil {
			_ = s.peer.Close()
			s.peer = nil
		}
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// handleMessage dispatches signaling messages.
func (s *Server) handleMessage(conn *websocket.Conn, peer *webrtc.PeerConnection, msg Message) error {
	switch msg.T {
	case "offer":
		return s.handleOffer(conn, peer, msg.SDP)
	case "ice":
		return s.handleICE(peer, msg.Candidate)
	default:
		return nil
	}
}

// handleOffer processes an SDP offer and replies with an answer.
func (s *Server) handleOffer(conn *websocket.Conn, peer *webrtc.PeerConnection, sdp string) error {
	if sdp == "" {
		return fmt.Errorf("empty offer")
	}
	if err := peer.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  sdp,
	}); err != nil {
		return err
	}
	answer, err := peer.CreateAnswer(nil)
	if err != nil {
		return err
	}
	gatherComplete := webrtc.GatheringCompletePromise(peer)
	if err := peer.SetLocalDescription(answer); err != nil {
		return err
	}
	<-gatherComplete
	local := peer.LocalDescription()
	if local == nil {
		return fmt.Errorf("missing local description")
	}
	return s.sendTo(conn, Message{T: "answer", SDP: local.SDP})
}

// handleICE adds a remote ICE candidate.
func (s *Server) handleICE(peer *webrtc.PeerConnection, candidate *webrtc.ICECandidateInit) error {
	if candidate == nil {
		return nil
	}
	return peer.AddICECandidate(*candidate)
}

// sendTo writes a message to the active connection.
func (s *Server) sendTo(conn *websocket.Conn, msg Message) error {
	s.mu.Lock()
	active := s.conn
	s.mu.Unlock()
	if active != conn {
		return fmt.Errorf("connection not active")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(msg)
}
