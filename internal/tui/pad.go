// Package tui provides a terminal touchpad driven by mouse events.
package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/frudas24/padlink/internal/packet"
)

// padPointer is the pointer id used for the terminal mouse.
const padPointer = 0

// Handler receives pad events; control.Translator satisfies it.
type Handler interface {
	HandleDown(pointerID int, x, y float64)
	HandleMove(pointerID int, x, y float64)
	HandleUp(pointerID int)
	Click(buttons uint8) bool
}

// Pad turns button-1 drags in a terminal into touch samples. Cell
// coordinates are scaled by a pixels-per-cell factor.
type Pad struct {
	screen  tcell.Screen
	handler Handler
	scale   float64

	pressed bool

	mu     sync.Mutex
	status string
}

// New creates a pad on screen. scale must be positive.
func New(screen tcell.Screen, handler Handler, scale int) (*Pad, error) {
	if screen == nil {
		return nil, errors.New("screen is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if scale <= 0 {
		return nil, errors.New("scale must be positive")
	}
	return &Pad{screen: screen, handler: handler, scale: float64(scale)}, nil
}

// Open initializes the terminal and enables mouse reporting.
func (p *Pad) Open() error {
	if err := p.screen.Init(); err != nil {
		return err
	}
	p.screen.EnableMouse(tcell.MouseDragEvents)
	p.screen.HideCursor()
	p.draw()
	return nil
}

// Close restores the terminal.
func (p *Pad) Close() {
	p.screen.Fini()
}

// SetStatus replaces the status line. It is safe to call from any goroutine.
func (p *Pad) SetStatus(text string) {
	p.mu.Lock()
	p.status = text
	p.mu.Unlock()
	_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run processes terminal events until the user quits or ctx is cancelled.
func (p *Pad) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(ctx))
	}()
	for {
		ev := p.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if p.handleEvent(ev) {
			return nil
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func (p *Pad) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		fx, fy := float64(x)*p.scale, float64(y)*p.scale
		switch {
		case ev.Buttons()&tcell.Button1 != 0 && !p.pressed:
			p.pressed = true
			p.handler.HandleDown(padPointer, fx, fy)
		case ev.Buttons()&tcell.Button1 != 0:
			p.handler.HandleMove(padPointer, fx, fy)
		case p.pressed:
			p.pressed = false
			p.handler.HandleUp(padPointer)
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return true
		case 'l':
			p.handler.Click(packet.ButtonLeft)
		case 'r':
			p.handler.Click(packet.ButtonRight)
		}
	case *tcell.EventResize:
		p.screen.Sync()
		p.draw()
	case *tcell.EventInterrupt:
		p.draw()
	}
	return false
}

// draw renders the help and status lines.
func (p *Pad) draw() {
	p.mu.Lock()
	status := p.status
	p.mu.Unlock()

	p.screen.Clear()
	_, h := p.screen.Size()
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	drawText(p.screen, 0, 0, tcell.StyleDefault.Bold(true), "padlink: drag with the mouse to move the pointer")
	drawText(p.screen, 0, 1, dim, "l = left click, r = right click, q/Esc = quit")
	if status != "" && h > 2 {
		drawText(p.screen, 0, h-1, tcell.StyleDefault, status)
	}
	p.screen.Show()
}

// drawText writes s starting at (x, y).
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
