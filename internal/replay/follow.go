package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Follow plays the file at path, then keeps playing what is appended to it
// until ctx is done. A file truncated below the played offset is replayed
// from the start.
func (p *Player) Follow(ctx context.Context, path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch before the first read so no append is missed.
	if err := fsw.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var offset int64
	drain := func() error {
		n, err := p.Play(ctx, f, w)
		offset += n
		return err
	}
	if err := drain(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				p.logger.Debug("followed file went away", slog.String("path", ev.Name))
				return ErrFileRemoved
			case ev.Has(fsnotify.Chmod):
				// Unlinking a file we hold open reports only an attribute change.
				if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
					p.logger.Debug("followed file went away", slog.String("path", ev.Name))
					return ErrFileRemoved
				}
			case ev.Has(fsnotify.Write):
				if err := p.rewindIfTruncated(f, &offset); err != nil {
					return err
				}
				if err := drain(); err != nil {
					return err
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watch error", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
}

func (p *Player) rewindIfTruncated(f *os.File, offset *int64) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat capture: %w", err)
	}
	if info.Size() >= *offset {
		return nil
	}
	p.logger.Debug("capture truncated, replaying from start",
		slog.Int64("size", info.Size()),
		slog.Int64("offset", *offset))
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind capture: %w", err)
	}
	*offset = 0
	return nil
}
