package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/frudas24/padlink/internal/config"
	"github.com/frudas24/padlink/internal/inject"
	"github.com/frudas24/padlink/internal/inject/native"
	"github.com/frudas24/padlink/internal/receiver"
)

// runRecv accepts senders and injects their input until interrupted.
func runRecv(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setDebug(debug)
	log.Printf("padlink receiver starting (transport %s, injector %s)", cfg.Transport, cfg.Injector)
	logEnvFile(cfg)

	inj, err := inject.New(cfg.Injector, native.New)
	if err != nil {
		return err
	}
	recv, err := receiver.New(inj, receiver.Options{
		SpeedPct:    cfg.SpeedPct,
		InterpSteps: cfg.InterpSteps,
	})
	if err != nil {
		return err
	}

	ln, stopListener, err := listenerFor(cfg)
	if err != nil {
		return err
	}
	defer stopListener()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return recv.Serve(ctx, ln)
}
