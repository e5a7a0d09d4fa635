package terminal

import (
	"log/slog"
)

// MaxCells is the largest grid, in cells, a session may allocate.
const MaxCells = 1 << 22

// Options configures a new session.
type Options struct {
	// Lines is the number of rows. Must be at least 1.
	Lines int

	// Columns is the number of columns. Must be at least 1.
	Columns int

	// TabWidth is the distance between initial tab stops (default 8).
	TabWidth int

	// DisableAutoWrap starts the session with DECAWM off.
	DisableAutoWrap bool

	// LinefeedNewline starts the session with LNM on, so LF also returns
	// the carriage.
	LinefeedNewline bool

	// MaxParams caps CSI parameters per sequence (default 32).
	MaxParams int

	// MaxStringLength caps OSC payloads in bytes (default 4096).
	MaxStringLength int

	// Logger receives debug output. Nil discards.
	Logger *slog.Logger

	// OnTitle is called when the title changes.
	OnTitle func(title string)

	// OnBell is called on BEL.
	OnBell func()
}

func (o Options) validate() error {
	if o.Lines < 1 || o.Columns < 1 {
		return ErrInvalidSize
	}
	if o.Lines > MaxCells/o.Columns {
		return ErrTooLarge
	}
	return nil
}
