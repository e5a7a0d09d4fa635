// Package boundary exposes terminal sessions to foreign callers through
// opaque handles and fixed-width change records.
//
// The registry owns every session it creates. A handle stays valid until
// Destroy and is never reused, so a stale handle fails with
// ErrInvalidHandle instead of reaching another caller's session.
//
// The registry lock guards only the handle table. Feeding one session
// from several goroutines at once still requires the caller to serialize.
package boundary

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/vinilla/internal/terminal"
)

// Handle identifies a session owned by a Registry. Zero is never valid.
type Handle uint64

// Entry is a changed cell in boundary form.
type Entry struct {
	Row       uint32
	Column    uint32
	Codepoint uint32
	Bg        uint16
	Fg        uint16
}

// Registry maps handles to sessions.
type Registry struct {
	mu       sync.Mutex
	next     Handle
	sessions map[Handle]*terminal.Session

	template terminal.Options
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithSessionOptions sets the options every new session starts from.
// Lines and Columns are replaced by the values passed to Create.
func WithSessionOptions(opts terminal.Options) Option {
	return func(r *Registry) {
		r.template = opts
	}
}

// WithLogger sets the logger for registry events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[Handle]*terminal.Session),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.template.Logger == nil {
		r.template.Logger = r.logger
	}
	return r
}

// Open creates a session and returns its handle.
func (r *Registry) Open(lines, columns int) (Handle, error) {
	opts := r.template
	opts.Lines = lines
	opts.Columns = columns

	s, err := terminal.New(opts)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	r.next++
	h := r.next
	r.sessions[h] = s
	r.mu.Unlock()

	r.logger.Debug("handle opened", slog.Uint64("handle", uint64(h)), slog.String("session", s.ID()))
	return h, nil
}

// Create is Open reduced to the boundary contract: it returns 0 when the
// session cannot be created.
func (r *Registry) Create(lines, columns int) Handle {
	h, err := r.Open(lines, columns)
	if err != nil {
		r.logger.Warn("create failed",
			slog.Int("lines", lines),
			slog.Int("columns", columns),
			slog.String("error", err.Error()))
		return 0
	}
	return h
}

func (r *Registry) lookup(h Handle) (*terminal.Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[h]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", h, ErrInvalidHandle)
	}
	return s, nil
}

// Update feeds data to the session and returns the changed cells.
func (r *Registry) Update(h Handle, data []byte) ([]Entry, error) {
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	changes, err := s.Update(data)
	if err != nil {
		if errors.Is(err, terminal.ErrSessionDestroyed) {
			return nil, fmt.Errorf("handle %d: %w", h, ErrInvalidHandle)
		}
		return nil, err
	}
	return Entries(changes), nil
}

// Session returns the session behind a handle.
func (r *Registry) Session(h Handle) (*terminal.Session, error) {
	return r.lookup(h)
}

// Destroy releases the session and invalidates the handle.
func (r *Registry) Destroy(h Handle) error {
	r.mu.Lock()
	s, ok := r.sessions[h]
	delete(r.sessions, h)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("handle %d: %w", h, ErrInvalidHandle)
	}
	r.logger.Debug("handle closed", slog.Uint64("handle", uint64(h)))
	return s.Destroy()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close destroys every remaining session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[Handle]*terminal.Session)
	r.mu.Unlock()

	for _, s := range sessions {
		_ = s.Destroy()
	}
}

// Entries converts session changes into boundary entries.
func Entries(changes []terminal.Change) []Entry {
	out := make([]Entry, len(changes))
	for i, ch := range changes {
		out[i] = Entry{
			Row:       uint32(ch.Row),
			Column:    uint32(ch.Col),
			Codepoint: uint32(ch.Cell.Rune),
			Bg:        uint16(ch.Cell.Bg),
			Fg:        uint16(ch.Cell.Fg),
		}
	}
	return out
}

// Cell decodes an entry's attributes back into a terminal cell.
func (e Entry) Cell() terminal.Cell {
	return terminal.Cell{
		Rune: rune(e.Codepoint),
		Fg:   terminal.Attr(e.Fg),
		Bg:   terminal.Attr(e.Bg),
	}
}
