package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// DefaultChunkSize is the number of bytes written per chunk.
const DefaultChunkSize = 4096

// Player writes a byte stream in chunks.
type Player struct {
	chunkSize int
	delay     time.Duration
	logger    *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithChunkSize sets the chunk size. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(p *Player) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithDelay sets the pause after each chunk.
func WithDelay(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithLogger sets the logger for playback events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPlayer creates a player.
func NewPlayer(opts ...Option) *Player {
	p := &Player{
		chunkSize: DefaultChunkSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play copies r to w until EOF, one chunk per Write. It returns the number
// of bytes written. Cancelling ctx stops playback between chunks.
func (p *Player) Play(ctx context.Context, r io.Reader, w io.Writer) (int64, error) {
	buf := make([]byte, p.chunkSize)
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return total, fmt.Errorf("write chunk at offset %d: %w", total, err)
			}
			total += int64(n)
			if err := p.pause(ctx); err != nil {
				return total, err
			}
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				p.logger.Debug("playback reached end", slog.Int64("bytes", total))
				return total, nil
			}
			return total, fmt.Errorf("read at offset %d: %w", total, rerr)
		}
	}
}

func (p *Player) pause(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
