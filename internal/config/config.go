// Package config loads exedit settings.
//
// Sources are layered, lowest priority first: built-in defaults, the config
// file, EXEDIT_* environment variables, then values set by the caller
// (command-line flags). Every source is a nested map merged with
// loader.DeepMerge; typed section accessors read the merged result.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/exedit/internal/config/loader"
)

// AppName names the per-user config directory.
const AppName = "exedit"

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "EXEDIT_"

// Config provides access to the merged configuration.
type Config struct {
	mu sync.RWMutex

	fs            loader.FileSystem
	env           loader.Loader
	userConfigDir string
	configFile    string

	// Layers, lowest priority first.
	defaults  map[string]any
	file      map[string]any
	envLayer  map[string]any
	overrides map[string]any

	merged map[string]any

	// usedFile is the config file that was actually read.
	usedFile string

	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) { c.userConfigDir = dir }
}

// WithConfigFile uses an explicit config file instead of searching the
// user configuration directory. The file must exist.
func WithConfigFile(path string) Option {
	return func(c *Config) { c.configFile = path }
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) { c.fs = fs }
}

// WithEnvLoader replaces the environment loader.
func WithEnvLoader(l loader.Loader) Option {
	return func(c *Config) { c.env = l }
}

// New creates a configuration holding only the defaults.
func New(opts ...Option) *Config {
	c := &Config{
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fs == nil {
		c.fs = loader.DefaultFS()
	}
	if c.env == nil {
		c.env = loader.NewEnvLoader(EnvPrefix)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = DefaultUserConfigDir()
	}
	c.remerge()
	return c
}

// Load reads the config file and the environment.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.configFile
	if path != "" {
		if !c.fs.Exists(path) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	} else {
		path = loader.Find(c.fs, c.userConfigDir, "config")
	}

	c.file = nil
	c.usedFile = ""
	if path != "" {
		l, err := loader.ForPath(c.fs, path)
		if err != nil {
			return err
		}
		data, err := l.Load()
		if err != nil {
			return err
		}
		c.file = data
		c.usedFile = path
	}

	env, err := c.env.Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}
	c.envLayer = env

	c.remerge()
	return nil
}

// ConfigFile returns the path of the config file that was loaded, or "".
func (c *Config) ConfigFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.usedFile
}

// remerge rebuilds the merged view. Callers hold the write lock or own c.
func (c *Config) remerge() {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.envLayer, c.overrides} {
		merged = loader.DeepMerge(merged, loader.Clone(layer))
	}
	c.merged = merged
}

// Set sets a value in the highest-priority layer.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := setPath(c.overrides, path, value); err != nil {
		return err
	}
	c.remerge()
	return nil
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
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
	case float64:
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
// with time.ParseDuration; integers are milliseconds.
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
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path. A single string
// is returned as a one-element slice.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// DefaultUserConfigDir returns the default user configuration directory.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

// UserConfigDir returns the directory searched for config and init files.
func (c *Config) UserConfigDir() string {
	return c.userConfigDir
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"editor": map[string]any{
			"strict": false,
		},
		"ui": map[string]any{
			"modifiedMarker": " *",
		},
		"watch": map[string]any{
			"enabled":  true,
			"debounce": "100ms",
		},
		"plugins": map[string]any{
			"enabled": true,
			"init":    "",
			"timeout": "1s",
		},
		"keys": map[string]any{},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
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
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return ErrInvalidPath
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into non-empty parts.
func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
