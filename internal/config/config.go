package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dshills/vinilla/internal/config/loader"
	"github.com/dshills/vinilla/internal/terminal"
)

// Config provides access to the merged vinilla configuration.
type Config struct {
	mu sync.RWMutex

	data map[string]any

	fs         loader.FileSystem
	configFile string
	envFile    string
	envPrefix  string
	overrides  map[string]any

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithConfigFile sets the TOML or YAML file to load. A missing file is
// not an error.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.configFile = path
	}
}

// WithEnvFile sets the dotenv file to load. A missing file is not an error.
func WithEnvFile(path string) Option {
	return func(c *Config) {
		c.envFile = path
	}
}

// WithEnvPrefix sets the environment variable prefix (default "VINILLA_").
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithOverride sets a value that wins over every other layer.
func WithOverride(path string, value any) Option {
	return func(c *Config) {
		if c.overrides == nil {
			c.overrides = make(map[string]any)
		}
		c.overrides[path] = value
	}
}

// New creates a Config holding only the built-in defaults. Call Load to
// apply the other layers.
func New(opts ...Option) *Config {
	c := &Config{
		data:      defaults(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaults returns the built-in defaults layer.
func defaults() map[string]any {
	return map[string]any{
		"terminal": map[string]any{
			"lines":           24,
			"columns":         80,
			"tabWidth":        8,
			"autoWrap":        true,
			"linefeedNewline": false,
		},
		"parser": map[string]any{
			"maxParams":       32,
			"maxStringLength": 4096,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"replay": map[string]any{
			"chunkSize": 4096,
			"delay":     "0s",
			"follow":    false,
		},
	}
}

// Load merges every layer and validates the result. A done ctx stops
// loading between layers and leaves the previous settings in place.
func (c *Config) Load(ctx context.Context) error {
	merged := defaults()

	if err := ctx.Err(); err != nil {
		return err
	}
	if c.configFile != "" {
		m, err := loader.ForPath(c.fs, c.configFile).Load()
		if err != nil {
			return fmt.Errorf("loading config file: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if c.envFile != "" {
		m, err := loader.NewDotenvLoaderWithFS(c.fs, c.envFile, c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		merged = loader.DeepMerge(merged, m)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	env, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, env)

	for _, path := range slices.Sorted(maps.Keys(c.overrides)) {
		if err := setPath(merged, path, c.overrides[path]); err != nil {
			return fmt.Errorf("override %s: %w", path, err)
		}
	}

	c.mu.Lock()
	c.data = merged
	c.configErrors = nil
	c.mu.Unlock()

	return c.Validate()
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.data, path)
}

// Set replaces the value at path in the merged configuration.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return setPath(c.data, path, value)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, &TypeError{Path: path, Expected: "int", Actual: "float64"}
		}
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration; bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: "string"}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// Validate checks the merged configuration. It returns every problem found,
// joined, each matching ErrValidationFailed.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	term := c.Terminal()
	if term.Lines < 1 {
		add("terminal.lines", "must be at least 1", term.Lines, ErrCodeOutOfRange)
	}
	if term.Columns < 1 {
		add("terminal.columns", "must be at least 1", term.Columns, ErrCodeOutOfRange)
	}
	if term.Lines >= 1 && term.Columns >= 1 && term.Lines > terminal.MaxCells/term.Columns {
		add("terminal.lines", fmt.Sprintf("grid exceeds %d cells", terminal.MaxCells), term.Lines*term.Columns, ErrCodeOutOfRange)
	}
	if term.TabWidth < 1 {
		add("terminal.tabWidth", "must be at least 1", term.TabWidth, ErrCodeOutOfRange)
	}

	p := c.Parser()
	if p.MaxParams < 1 {
		add("parser.maxParams", "must be at least 1", p.MaxParams, ErrCodeOutOfRange)
	}
	if p.MaxStringLength < 1 {
		add("parser.maxStringLength", "must be at least 1", p.MaxStringLength, ErrCodeOutOfRange)
	}

	l := c.Logging()
	if _, err := parseLevel(l.Level); err != nil {
		add("logging.level", "must be debug, info, warn or error", l.Level, ErrCodeInvalidEnum)
	}
	if l.Format != "text" && l.Format != "json" {
		add("logging.format", "must be text or json", l.Format, ErrCodeInvalidEnum)
	}

	r := c.Replay()
	if r.ChunkSize < 1 {
		add("replay.chunkSize", "must be at least 1", r.ChunkSize, ErrCodeOutOfRange)
	}
	if r.Delay < 0 {
		add("replay.delay", "must not be negative", r.Delay, ErrCodeOutOfRange)
	}

	cfgErrs := c.ConfigErrors()
	for _, path := range slices.Sorted(maps.Keys(cfgErrs)) {
		add(path, cfgErrs[path].Error(), nil, ErrCodeTypeMismatch)
	}

	return errors.Join(errs...)
}

// recordConfigError stores the first access error for each path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	return maps.Clone(c.configErrors)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// getPath reads a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 || slices.Contains(parts, "") {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
	return nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}
