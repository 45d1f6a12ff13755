package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/frudas24/padlink/internal/config"
	"github.com/frudas24/padlink/internal/link"
	"github.com/frudas24/padlink/internal/signaling"
	"github.com/frudas24/padlink/internal/transport"
	"github.com/frudas24/padlink/internal/webrtc"
)

// dialerFor returns the sender-side dialer for the configured transport.
func dialerFor(cfg config.Config) (link.Dialer, error) {
	switch cfg.Transport {
	case transport.KindTCP:
		return transport.TCPDialer{}, nil
	case transport.KindWebRTC:
		endpoint, err := webrtc.NewEndpoint()
		if err != nil {
			return nil, err
		}
		return signaling.NewDialer(endpoint)
	default:
		return transport.RFCOMMDialer{Channel: cfg.RFCOMMChannel}, nil
	}
}

// listenerFor opens the receiver-side listener. The returned stop func
// releases anything started alongside it.
func listenerFor(cfg config.Config) (transport.Listener, func(), error) {
	switch cfg.Transport {
	case transport.KindTCP:
		ln, err := transport.ListenTCP(cfg.RecvListenAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("recv: listening on tcp %s", ln.Addr())
		return ln, func() {}, nil
	case transport.KindWebRTC:
		return listenSignaling(cfg.RecvListenAddr)
	default:
		ln, err := transport.ListenRFCOMM(cfg.RFCOMMChannel)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("recv: listening on rfcomm channel %d", cfg.RFCOMMChannel)
		return ln, func() {}, nil
	}
}

// listenSignaling serves /ws/signal and hands accepted data channels to the receiver.
func listenSignaling(addr string) (transport.Listener, func(), error) {
	endpoint, err := webrtc.NewEndpoint()
	if err != nil {
		return nil, nil, err
	}
	srv := signaling.NewServer(endpoint, signaling.SenderReplace, nil)

	mux := http.NewServeMux()
	mux.Handle("/ws/signal", srv)
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("recv: signaling server: %v", err)
			_ = srv.Close()
		}
	}()
	log.Printf("recv: signaling on ws://%s/ws/signal", addr)

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
	return srv, stop, nil
}
