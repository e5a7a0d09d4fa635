package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/vinilla/internal/config"
	"github.com/dshills/vinilla/internal/renderer"
	"github.com/dshills/vinilla/internal/replay"
	"github.com/dshills/vinilla/internal/terminal"
)

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newLogger writes to stderr unless stderr is the terminal the viewer draws on.
func newLogger(cfg *config.Config, viewer bool) (*slog.Logger, error) {
	if viewer && term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.DiscardHandler), nil
	}
	return cfg.Logging().NewLogger(os.Stderr)
}

func newPlayer(cfg *config.Config, logger *slog.Logger) *replay.Player {
	r := cfg.Replay()
	return replay.NewPlayer(
		replay.WithChunkSize(r.ChunkSize),
		replay.WithDelay(r.Delay),
		replay.WithLogger(logger),
	)
}

// play feeds the capture to w, following it when configured.
func play(ctx context.Context, cfg *config.Config, opts options, p *replay.Player, w io.Writer) error {
	if opts.capture == "" || opts.capture == "-" {
		if cfg.Replay().Follow {
			return errors.New("follow needs a capture file")
		}
		_, err := p.Play(ctx, os.Stdin, w)
		return err
	}

	if cfg.Replay().Follow {
		return p.Follow(ctx, opts.capture, w)
	}

	f, err := os.Open(opts.capture)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = p.Play(ctx, f, w)
	return err
}

// runDump plays the capture headless and prints the final screen.
func runDump(ctx context.Context, cfg *config.Config, opts options) error {
	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}

	topts := cfg.TerminalOptions()
	topts.Logger = logger
	session, err := terminal.New(topts)
	if err != nil {
		return err
	}
	defer session.Destroy()

	var sink io.Writer = session
	if opts.changes {
		sink = &changeDumper{session: session, out: os.Stdout}
	}
	playErr := play(ctx, cfg, opts, newPlayer(cfg, logger), sink)

	if opts.changes {
		return playErr
	}
	if title := session.Title(); title != "" {
		logger.Info("title", slog.String("title", title))
	}
	fmt.Println(session.Text())
	return playErr
}

// runViewer shows the capture live in the current terminal.
func runViewer(ctx context.Context, cfg *config.Config, opts options) error {
	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	var viewer *renderer.Viewer
	topts := cfg.TerminalOptions()
	topts.Logger = logger
	topts.OnTitle = func(title string) { screen.SetTitle(title) }
	topts.OnBell = func() { viewer.Bell() }

	session, err := terminal.New(topts)
	if err != nil {
		return err
	}
	defer session.Destroy()

	viewer = renderer.NewViewer(screen, session, renderer.WithLogger(logger))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	playErr := make(chan error, 1)
	go func() {
		playErr <- play(ctx, cfg, opts, newPlayer(cfg, logger), viewer)
	}()

	if err := viewer.Run(ctx); err != nil {
		return err
	}
	cancel()

	// A read from stdin cannot be interrupted, so don't wait for playback.
	select {
	case err := <-playErr:
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, renderer.ErrViewerStopped) {
			return err
		}
	default:
	}
	return nil
}

// changeDumper feeds a session and prints each change it reports, one
// "row col U+XXXX fg bg" line per cell.
type changeDumper struct {
	session *terminal.Session
	out     io.Writer
}

func (d *changeDumper) Write(p []byte) (int, error) {
	changes, err := d.session.Update(p)
	if err != nil {
		return 0, err
	}
	for _, ch := range changes {
		if _, err := fmt.Fprintf(d.out, "%d %d U+%04X 0x%04x 0x%04x\n",
			ch.Row, ch.Col, ch.Cell.Rune, uint16(ch.Cell.Fg), uint16(ch.Cell.Bg)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
