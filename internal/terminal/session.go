package terminal

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/vinilla/internal/terminal/dirty"
)

// Change is a cell reported by PollChanges.
type Change struct {
	Row  int
	Col  int
	Cell Cell
}

// Session is one emulated terminal: a grid, the parser feeding it and the
// set of cells changed since the last poll.
type Session struct {
	id     string
	grid   *Grid
	parser *Parser
	dirty  *dirty.Tracker
	logger *slog.Logger

	title     string
	destroyed bool

	// Callbacks
	onTitle func(title string)
	onBell  func()
}

// New creates a session with a blank grid and nothing dirty.
func New(opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("new session %dx%d: %w", opts.Lines, opts.Columns, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracker := dirty.NewTracker(opts.Lines, opts.Columns)
	grid := NewGrid(opts.Lines, opts.Columns, tracker)
	if opts.TabWidth > 0 {
		grid.SetTabWidth(opts.TabWidth)
	}
	if opts.DisableAutoWrap {
		grid.SetMode(ModeAutoWrap, false)
	}
	if opts.LinefeedNewline {
		grid.SetMode(ModeNewline, true)
	}

	parser := NewParser(grid)
	parser.SetLimits(opts.MaxParams, opts.MaxStringLength)

	id := uuid.New().String()
	s := &Session{
		id:      id,
		grid:    grid,
		parser:  parser,
		dirty:   tracker,
		logger:  logger.With(slog.String("session", id)),
		onTitle: opts.OnTitle,
		onBell:  opts.OnBell,
	}

	// Set up parser callbacks
	parser.SetTitleCallback(func(title string) {
		s.title = title
		if s.onTitle != nil {
			s.onTitle(title)
		}
	})
	parser.SetBellCallback(func() {
		if s.onBell != nil {
			s.onBell()
		}
	})
	parser.SetUnknownCallback(func(seq string) {
		s.logger.Debug("ignored sequence", slog.String("seq", seq))
	})

	s.logger.Debug("session created",
		slog.Int("lines", opts.Lines),
		slog.Int("columns", opts.Columns))
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Feed processes p through the parser. Chunk boundaries never affect the
// resulting state.
func (s *Session) Feed(p []byte) error {
	if s.destroyed {
		return ErrSessionDestroyed
	}
	s.parser.Parse(p)
	return nil
}

// Write implements io.Writer over Feed.
func (s *Session) Write(p []byte) (int, error) {
	if err := s.Feed(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// PollChanges returns every cell changed since the previous poll in
// row-major order and clears the dirty set. It returns an empty slice
// when nothing changed.
func (s *Session) PollChanges() ([]Change, error) {
	if s.destroyed {
		return nil, ErrSessionDestroyed
	}
	points := s.dirty.Drain()
	changes := make([]Change, len(points))
	for i, pt := range points {
		changes[i] = Change{Row: pt.Row, Col: pt.Col, Cell: s.grid.Cell(pt.Row, pt.Col)}
	}
	return changes, nil
}

// Update feeds p and polls in one step.
func (s *Session) Update(p []byte) ([]Change, error) {
	if err := s.Feed(p); err != nil {
		return nil, err
	}
	return s.PollChanges()
}

// Destroy releases the grid. Calling it twice returns ErrSessionDestroyed.
func (s *Session) Destroy() error {
	if s.destroyed {
		return ErrSessionDestroyed
	}
	s.destroyed = true
	s.grid = nil
	s.parser = nil
	s.dirty = nil
	s.logger.Debug("session destroyed")
	return nil
}

// Destroyed returns true once Destroy has been called.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Size returns the grid dimensions, or zero after Destroy.
func (s *Session) Size() (lines, cols int) {
	if s.destroyed {
		return 0, 0
	}
	return s.grid.Size()
}

// Cursor returns the cursor position.
func (s *Session) Cursor() (row, col int) {
	if s.destroyed {
		return 0, 0
	}
	return s.grid.Cursor()
}

// CursorVisible returns whether the cursor is shown.
func (s *Session) CursorVisible() bool {
	return !s.destroyed && s.grid.CursorVisible()
}

// CursorStyle returns the cursor style.
func (s *Session) CursorStyle() CursorStyle {
	if s.destroyed {
		return CursorBlock
	}
	return s.grid.CursorStyle()
}

// Cell returns the cell at the given position.
func (s *Session) Cell(row, col int) (Cell, error) {
	if s.destroyed {
		return Cell{}, ErrSessionDestroyed
	}
	if !s.grid.inBounds(row, col) {
		return Cell{}, fmt.Errorf("cell (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	return s.grid.Cell(row, col), nil
}

// Text returns the screen content with trailing blanks trimmed per line.
func (s *Session) Text() string {
	if s.destroyed {
		return ""
	}
	return s.grid.Text()
}

// Title returns the last title set via OSC 0 or 2.
func (s *Session) Title() string {
	return s.title
}

// Grid returns the underlying grid. Mutating it directly still marks
// cells dirty.
func (s *Session) Grid() *Grid {
	return s.grid
}
