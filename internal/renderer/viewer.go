package renderer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/vinilla/internal/terminal"
)

// ErrViewerStopped is returned by Write after Run has returned.
var ErrViewerStopped = errors.New("viewer stopped")

// Viewer shows a session on a screen and keeps it current as bytes are
// written. Writes and redraws are serialized, so a replay goroutine can
// write while Run handles events.
type Viewer struct {
	mu      sync.Mutex
	screen  tcell.Screen
	painter *Painter
	session *terminal.Session
	logger  *slog.Logger
	stopped bool
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithLogger sets the logger for viewer events.
func WithLogger(logger *slog.Logger) ViewerOption {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewViewer creates a viewer. The screen must already be initialized.
func NewViewer(screen tcell.Screen, session *terminal.Session, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		screen:  screen,
		painter: NewPainter(screen),
		session: session,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Write feeds p to the session and paints the cells it changed.
func (v *Viewer) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return 0, ErrViewerStopped
	}
	changes, err := v.session.Update(p)
	if err != nil {
		return 0, err
	}
	v.painter.Apply(v.session.Grid(), changes)
	v.painter.Show()
	return len(p), nil
}

// Redraw repaints the whole session.
func (v *Viewer) Redraw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}
	// Paint covers everything pending.
	_, _ = v.session.PollChanges()
	v.painter.Paint(v.session.Grid())
	v.painter.Show()
}

// Bell rings the host terminal's bell.
func (v *Viewer) Bell() {
	_ = v.screen.Beep() // best-effort; terminal may not support beep
}

// Run handles screen events until a quit key or ctx is done.
// q, Escape and Ctrl-C quit. The viewer accepts no writes afterwards.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)
	defer v.stop()

	v.Redraw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case *tcell.EventResize:
				w, h := e.Size()
				v.logger.Debug("screen resized", slog.Int("width", w), slog.Int("height", h))
				v.screen.Sync()
				v.Redraw()
			case *tcell.EventKey:
				if isQuitKey(e) {
					v.logger.Debug("quit requested")
					return nil
				}
			}
		}
	}
}

func (v *Viewer) stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

func isQuitKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return e.Rune() == 'q'
	}
	return false
}
