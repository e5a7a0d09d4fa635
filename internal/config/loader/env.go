package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvPrefix is the prefix of every variable the env loaders read.
const DefaultEnvPrefix = "VINILLA_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "VINILLA_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "VINILLA_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// defaultEnvMapping returns the short names that don't follow the
// SECTION_SETTING pattern.
func defaultEnvMapping(prefix string) map[string]string {
	short := map[string]string{
		"LINES":      "terminal.lines",
		"COLUMNS":    "terminal.columns",
		"TAB_WIDTH":  "terminal.tabWidth",
		"AUTO_WRAP":  "terminal.autoWrap",
		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"CHUNK_SIZE": "replay.chunkSize",
		"DELAY":      "replay.delay",
		"FOLLOW":     "replay.follow",
	}
	m := make(map[string]string, len(short))
	for k, v := range short {
		m[prefix+k] = v
	}
	return m
}

// Load reads environment variables and returns a configuration map.
// Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if ok {
			vars[name] = value
		}
	}
	return l.FromVars(vars), nil
}

// FromVars converts a set of variables into a configuration map. Mapped
// names are applied first; other prefixed names go through envToPath.
func (l *EnvLoader) FromVars(vars map[string]string) map[string]any {
	config := make(map[string]any)

	for name, value := range vars {
		if !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, ok := l.mapping[name]; ok {
			continue
		}
		setByPath(config, l.envToPath(name), parseValue(value))
	}

	for env, path := range l.mapping {
		if val, ok := vars[env]; ok {
			setByPath(config, path, parseValue(val))
		}
	}

	return config
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts VINILLA_PARSER_MAX_PARAMS to parser.maxParams.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only with a decimal point so ints aren't misread.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// getByPath reads a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	current := data
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// DotenvLoader loads VINILLA_* assignments from a .env file. Variables are
// translated exactly as EnvLoader translates the process environment.
type DotenvLoader struct {
	fs   FileSystem
	path string
	env  *EnvLoader
}

// NewDotenvLoader creates a dotenv loader for path.
func NewDotenvLoader(path, prefix string) *DotenvLoader {
	return NewDotenvLoaderWithFS(DefaultFS(), path, prefix)
}

// NewDotenvLoaderWithFS creates a dotenv loader with a custom file system.
func NewDotenvLoaderWithFS(fsys FileSystem, path, prefix string) *DotenvLoader {
	return &DotenvLoader{fs: fsys, path: path, env: NewEnvLoader(prefix)}
}

// Load reads the configured file.
func (l *DotenvLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads a dotenv file from path.
func (l *DotenvLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return l.env.FromVars(vars), nil
}
