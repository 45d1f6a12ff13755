// Package transport provides the stream dialers and listeners the pointer link runs over.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

// TCPDialer dials host:port receivers.
type TCPDialer struct{}

// ValidateAddress requires a host:port pair.
func (TCPDialer) ValidateAddress(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if host == "" || port == "" {
		return fmt.Errorf("address %q needs host and port", address)
	}
	return nil
}

// Dial opens a TCP stream with Nagle disabled so frames leave immediately.
func (TCPDialer) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}
	return conn, nil
}

// TCPListener accepts receiver streams over TCP.
type TCPListener struct {
	ln net.Listener
}

// ListenTCP binds addr.
func ListenTCP(addr string) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPListener{ln: ln}, nil
}

// Accept waits for the next sender.
func (l *TCPListener) Accept() (io.ReadCloser, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrListenerClosed
		}
		return nil, err
	}
	return conn, nil
}

// Addr returns the bound address.
func (l *TCPListener) Addr() string {
	return l.ln.Addr().String()
}

// Close stops accepting.
func (l *TCPListener) Close() error {
	return l.ln.Close()
}
