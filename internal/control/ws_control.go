package control

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/padlink/internal/link"
	"github.com/frudas24/padlink/internal/session"
	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// Linker is the part of the link manager the control server drives.
type Linker interface {
	Connect(address string) (*link.Attempt, error)
	Disconnect()
	Connected() (string, bool)
}

// Server handles the touchpad control websocket.
type Server struct {
	mu          sync.Mutex
	upgrader    websocket.Upgrader
	session     *session.Session
	translator  *Translator
	links       Linker
	saveAddress func(string) error
	conn        *websocket.Conn
	writeMu     sync.Mutex
}

// NewServer creates a control websocket server. saveAddress may be nil.
func NewServer(sess *session.Session, translator *Translator, links Linker, saveAddress func(string) error) *Server {
	return &Server{
		session:     sess,
		translator:  translator,
		links:       links,
		saveAddress: saveAddress,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		_ = conn.Close()
		return
	}
	defer s.cleanupConn(conn)

	s.pushState()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.handleMessage(msg); err != nil {
			log.Printf("control: %v", err)
			return
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection when closed.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
}

// handleMessage dispatches a single control message.
func (s *Server) handleMessage(msg Message) error {
	switch msg.T {
	case "down":
		s.translator.HandleDown(msg.ID, msg.X, msg.Y)
	case "move":
		s.translator.HandleMove(msg.ID, msg.X, msg.Y)
	case "up":
		s.translator.HandleUp(msg.ID)
	case "click":
		s.translator.Click(ButtonFromName(msg.Button))
	case "connect":
		s.handleConnect(msg.Address)
	case "disconnect":
		s.links.Disconnect()
		s.pushState()
	case "inputEnabled":
		if msg.Enabled != nil {
			s.session.SetInputEnabled(*msg.Enabled)
			s.pushState()
		}
	}
	return nil
}

// handleConnect starts a connect attempt and remembers valid addresses.
// Validation failures reach the client through the link notifier.
func (s *Server) handleConnect(address string) {
	attempt, err := s.links.Connect(address)
	if err != nil {
		return
	}
	if s.saveAddress != nil {
		if err := s.saveAddress(attempt.Address()); err != nil {
			log.Printf("control: save address: %v", err)
		}
	}
}

// Notify forwards a link event to the connected client as a status line.
// It is safe to call from any goroutine.
func (s *Server) Notify(ev link.Event) {
	s.push(StatusMessage{T: "status", Text: ev.Message(), OK: ev.OK()})
	switch ev.Kind {
	case link.EventConnected, link.EventDisconnected:
		s.pushState()
	}
}

// pushState sends the current link and input state to the client.
func (s *Server) pushState() {
	addr, ok := s.links.Connected()
	s.push(StateMessage{
		T:            "state",
		Connected:    ok,
		Address:      addr,
		InputEnabled: s.session.InputEnabled(),
	})
}

// push writes v to the active connection, if any.
func (s *Server) push(v any) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(v); err != nil {
		log.Printf("control: write: %v", err)
	}
}
