// Package main is the entry point for the vinilla replay tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/vinilla/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath string
	envFile    string
	capture    string
	dump       bool
	changes    bool

	// overrides holds config paths for flags given explicitly.
	overrides map[string]any
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfgOpts := []config.Option{
		config.WithConfigFile(opts.configPath),
		config.WithEnvFile(opts.envFile),
	}
	for path, v := range opts.overrides {
		cfgOpts = append(cfgOpts, config.WithOverride(path, v))
	}

	cfg := config.New(cfgOpts...)

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	var err error
	if opts.dump || !stdoutIsTerminal() {
		err = runDump(ctx, cfg, opts)
	} else {
		err = runViewer(ctx, cfg, opts)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var (
		showVersion bool
		showHelp    bool
		lines       int
		cols        int
		chunk       int
		delay       time.Duration
		follow      bool
		logLevel    string
	)

	flag.StringVar(&opts.configPath, "config", "vinilla.toml", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "vinilla.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.envFile, "env-file", ".env", "Path to an env file with VINILLA_* settings")
	flag.IntVar(&lines, "lines", 0, "Terminal rows")
	flag.IntVar(&cols, "cols", 0, "Terminal columns")
	flag.IntVar(&chunk, "chunk", 0, "Bytes fed per chunk")
	flag.DurationVar(&delay, "delay", 0, "Pause between chunks")
	flag.BoolVar(&follow, "follow", false, "Keep reading as the capture grows")
	flag.BoolVar(&follow, "f", false, "Keep reading as the capture grows (shorthand)")
	flag.BoolVar(&opts.dump, "dump", false, "Print the final screen as text instead of showing it")
	flag.BoolVar(&opts.changes, "changes", false, "With -dump, print every changed cell as it is reported")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vinilla - replay terminal output through the emulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vinilla [options] [capture]\n\n")
		fmt.Fprintf(os.Stderr, "Reads standard input when no capture file is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vinilla session.log                Show a capture\n")
		fmt.Fprintf(os.Stderr, "  vinilla -chunk 1 -delay 5ms s.log   Watch it byte by byte\n")
		fmt.Fprintf(os.Stderr, "  vinilla -f s.log                   Follow a growing capture\n")
		fmt.Fprintf(os.Stderr, "  ls --color | vinilla -dump         Print the final screen\n")
		fmt.Fprintf(os.Stderr, "  vinilla -dump -changes s.log       Print the change stream\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("vinilla %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one capture file\n")
		os.Exit(2)
	}
	opts.capture = flag.Arg(0)

	// Only flags given on the command line override the config layers.
	opts.overrides = make(map[string]any)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lines":
			opts.overrides["terminal.lines"] = lines
		case "cols":
			opts.overrides["terminal.columns"] = cols
		case "chunk":
			opts.overrides["replay.chunkSize"] = chunk
		case "delay":
			opts.overrides["replay.delay"] = delay
		case "follow", "f":
			opts.overrides["replay.follow"] = follow
		case "log-level":
			opts.overrides["logging.level"] = logLevel
		}
	})

	return opts
}
