package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/frudas24/padlink/internal/app"
	"github.com/frudas24/padlink/internal/config"
	"github.com/frudas24/padlink/internal/link"
	"github.com/frudas24/padlink/internal/motion"
	"github.com/frudas24/padlink/internal/prefs"
	"github.com/frudas24/padlink/internal/session"
	"github.com/frudas24/padlink/internal/tui"
	"github.com/frudas24/padlink/internal/webrtc"
)

// runSend wires the sender and blocks until shutdown.
func runSend(debug, useTUI bool) error {
	cfg, err := config.LoadSender()
	if err != nil {
		return err
	}
	setDebug(debug)
	logStartup(cfg)

	sess := session.NewOpen()
	if cfg.PasswordMode {
		sess = session.New(cfg.UIPassword)
	}
	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		return err
	}
	log.Printf("prefs: %s (last address %q)", store.Path(), store.Get().Address)
	dialer, err := dialerFor(cfg)
	if err != nil {
		return err
	}

	appInstance, err := app.New(cfg, sess, store, dialer)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	padDone := make(chan struct{})
	if useTUI {
		closePad, err := startPad(ctx, cfg, appInstance, padDone)
		if err != nil {
			return err
		}
		defer closePad()
	}

	select {
	case <-ctx.Done():
	case <-padDone:
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// startPad runs the terminal touchpad and closes done when the user quits.
// Logs go to a file under the data dir while the terminal is taken over.
func startPad(ctx context.Context, cfg config.Config, a *app.App, done chan struct{}) (func(), error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	pad, err := tui.New(screen, a.Translator(), cfg.PadScale)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	logPath := filepath.Join(cfg.DataDir, "padlink.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	if err := pad.Open(); err != nil {
		_ = logFile.Close()
		return nil, err
	}
	log.SetOutput(logFile)
	a.OnStatus(func(ev link.Event) { pad.SetStatus(ev.Message()) })

	go func() {
		defer close(done)
		if err := pad.Run(ctx); err != nil {
			log.Printf("tui: %v", err)
		}
	}()
	return func() {
		pad.Close()
		log.SetOutput(os.Stderr)
		_ = logFile.Close()
		log.Printf("tui: log written to %s", logPath)
	}, nil
}

// setDebug toggles verbose logs across packages.
func setDebug(debug bool) {
	motion.SetDebugLogging(debug)
	link.SetDebugLogging(debug)
	webrtc.SetDebugLogging(debug)
	if debug {
		log.Printf("debug: enabled")
	}
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("padlink sender starting")
	logEnvStatus(cfg)
	log.Printf("transport: %s, move interval: %v", cfg.Transport, cfg.MoveInterval)
	logListenStatus(cfg.ListenAddr)
}

// logEnvFile reports whether a .env file was found.
func logEnvFile(cfg config.Config) {
	envPath := cfg.EnvPath()
	if fileExists(envPath) {
		log.Printf("env check: ok (%s)", envPath)
	} else {
		log.Printf("env check: missing (%s)", envPath)
	}
}

// logEnvStatus reports the .env file and whether required values are set.
func logEnvStatus(cfg config.Config) {
	logEnvFile(cfg)
	if cfg.PasswordMode {
		if strings.TrimSpace(cfg.UIPassword) == "" {
			log.Printf("env UI_PASSWORD: missing")
		} else {
			log.Printf("env UI_PASSWORD: set")
		}
	} else {
		log.Printf("env PASSWORD_MODE: disabled (dev mode)")
	}
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Printf("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Printf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
