package config

import (
	"errors"
	"time"

	"github.com/dshills/vinilla/internal/terminal"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration.

// TerminalConfig holds the grid settings a session starts with.
type TerminalConfig struct {
	// Lines is the number of rows.
	Lines int

	// Columns is the number of columns.
	Columns int

	// TabWidth is the distance between initial tab stops.
	TabWidth int

	// AutoWrap starts the session with DECAWM on.
	AutoWrap bool

	// LinefeedNewline starts the session with LNM on.
	LinefeedNewline bool
}

// ParserConfig holds the parser resource limits.
type ParserConfig struct {
	MaxParams       int
	MaxStringLength int
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string

	// Format is text or json.
	Format string
}

// ReplayConfig controls how the replay tool feeds a capture.
type ReplayConfig struct {
	// ChunkSize is the number of bytes passed to each Feed.
	ChunkSize int

	// Delay is the pause between chunks.
	Delay time.Duration

	// Follow keeps reading as the capture file grows.
	Follow bool
}

// Terminal returns the terminal settings.
func (c *Config) Terminal() TerminalConfig {
	return TerminalConfig{
		Lines:           c.getIntOr("terminal.lines", 24),
		Columns:         c.getIntOr("terminal.columns", 80),
		TabWidth:        c.getIntOr("terminal.tabWidth", terminal.DefaultTabWidth),
		AutoWrap:        c.getBoolOr("terminal.autoWrap", true),
		LinefeedNewline: c.getBoolOr("terminal.linefeedNewline", false),
	}
}

// Parser returns the parser limits.
func (c *Config) Parser() ParserConfig {
	return ParserConfig{
		MaxParams:       c.getIntOr("parser.maxParams", terminal.DefaultMaxParams),
		MaxStringLength: c.getIntOr("parser.maxStringLength", terminal.DefaultMaxStringLength),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.getStringOr("logging.level", "info"),
		Format: c.getStringOr("logging.format", "text"),
	}
}

// Replay returns the replay settings.
func (c *Config) Replay() ReplayConfig {
	return ReplayConfig{
		ChunkSize: c.getIntOr("replay.chunkSize", 4096),
		Delay:     c.getDurationOr("replay.delay", 0),
		Follow:    c.getBoolOr("replay.follow", false),
	}
}

// TerminalOptions builds session options from the terminal and parser
// sections. Logger and callbacks are left for the caller.
func (c *Config) TerminalOptions() terminal.Options {
	t := c.Terminal()
	p := c.Parser()
	return terminal.Options{
		Lines:           t.Lines,
		Columns:         t.Columns,
		TabWidth:        t.TabWidth,
		DisableAutoWrap: !t.AutoWrap,
		LinefeedNewline: t.LinefeedNewline,
		MaxParams:       p.MaxParams,
		MaxStringLength: p.MaxStringLength,
	}
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and surface through Validate.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}
