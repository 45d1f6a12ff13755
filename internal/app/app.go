// Package app wires the touchpad surfaces, the motion pipeline, and the link together.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/frudas24/padlink/internal/config"
	"github.com/frudas24/padlink/internal/control"
	"github.com/frudas24/padlink/internal/link"
	"github.com/frudas24/padlink/internal/motion"
	"github.com/frudas24/padlink/internal/prefs"
	"github.com/frudas24/padlink/internal/session"
)

// App coordinates the HTTP API, the control websocket, and the sender pipeline.
type App struct {
	cfg        config.Config
	session    *session.Session
	prefs      *prefs.Store
	acc        *motion.Accumulator
	dispatcher *motion.Dispatcher
	links      *link.Manager
	translator *control.Translator
	control    *control.Server

	mu        sync.Mutex
	observers []link.Notifier
	cancel    context.CancelFunc
	watchDone chan struct{}
}

// New creates a new application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, store *prefs.Store, dialer link.Dialer) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if store == nil {
		return nil, errors.New("prefs store is required")
	}
	if dialer == nil {
		return nil, errors.New("dialer is required")
	}

	app := &App{
		cfg:     cfg,
		session: sess,
		prefs:   store,
		acc:     motion.NewAccumulator(),
	}

	links, err := link.NewManager(link.Options{
		Dialer:         dialer,
		Notify:         app.notify,
		ConnectTimeout: cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, err
	}
	app.links = links

	app.dispatcher, err = motion.NewDispatcher(app.acc, links, cfg.MoveInterval)
	if err != nil {
		return nil, err
	}
	app.translator, err = control.NewTranslator(app.acc, links, sess.InputEnabled)
	if err != nil {
		return nil, err
	}
	app.control = control.NewServer(sess, app.translator, links, store.SetAddress)
	return app, nil
}

// Start launches the dispatcher, reconnects to the remembered receiver, and
// follows external edits of the prefs file.
func (a *App) Start() error {
	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	done := make(chan struct{})
	a.watchDone = done
	a.mu.Unlock()

	a.dispatcher.Start()
	if addr := a.prefs.Get().Address; addr != "" {
		log.Printf("app: reconnecting to last receiver %s", addr)
		if _, err := a.links.Connect(addr); err != nil {
			log.Printf("app: auto-connect: %v", err)
		}
	}

	go func() {
		defer close(done)
		if err := a.prefs.Watch(ctx, a.applyPrefs); err != nil {
			log.Printf("app: prefs watch: %v", err)
		}
	}()
	return nil
}

// Stop closes the link, then halts the pipeline. It is safe to call more than once.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel := a.cancel
	done := a.watchDone
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	a.links.Close()
	a.dispatcher.Stop()
	return nil
}

// OnStatus registers an additional sink for link events.
func (a *App) OnStatus(fn link.Notifier) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// Translator returns the touch translator shared by every pad surface.
func (a *App) Translator() *control.Translator {
	return a.translator
}

// Links returns the link manager.
func (a *App) Links() *link.Manager {
	return a.links
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// applyPrefs follows an externally edited receiver address.
func (a *App) applyPrefs(p prefs.Prefs) {
	if p.Address == "" {
		log.Printf("app: prefs cleared the receiver address")
		a.links.Disconnect()
		return
	}
	if current, ok := a.links.Connected(); ok && current == p.Address {
		return
	}
	log.Printf("app: prefs changed receiver to %s", p.Address)
	if _, err := a.links.Connect(p.Address); err != nil {
		log.Printf("app: reconnect: %v", err)
	}
}

// notify fans a link event out to the log, the control socket, and observers.
func (a *App) notify(ev link.Event) {
	log.Printf("status: %s", ev.Message())
	if a.control != nil {
		a.control.Notify(ev)
	}
	a.mu.Lock()
	observers := append([]link.Notifier(nil), a.observers...)
	a.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
}
