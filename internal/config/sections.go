package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File is the log destination. Empty disables logging.
	File string
}

// EditorConfig holds editing behavior settings.
type EditorConfig struct {
	// Strict turns contract violations into panics.
	Strict bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// ModifiedMarker is appended to the title while the buffer is dirty.
	ModifiedMarker string
}

// WatchConfig holds external-change detection settings.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// PluginsConfig holds scripting settings.
type PluginsConfig struct {
	Enabled bool
	// Init is the script run at startup.
	Init string
	// Timeout bounds every call into the script.
	Timeout time.Duration
}

// Logging returns the logging configuration.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Editor returns the editor configuration.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		Strict: c.getBoolOr("editor.strict", false),
	}
}

// UI returns the UI configuration.
func (c *Config) UI() UIConfig {
	return UIConfig{
		ModifiedMarker: c.getStringOr("ui.modifiedMarker", " *"),
	}
}

// Watch returns the watcher configuration.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Enabled:  c.getBoolOr("watch.enabled", true),
		Debounce: c.getDurationOr("watch.debounce", 100*time.Millisecond),
	}
}

// Plugins returns the scripting configuration. An unset init script
// resolves to init.lua in the user configuration directory.
func (c *Config) Plugins() PluginsConfig {
	init := c.getStringOr("plugins.init", "")
	if init == "" {
		init = filepath.Join(c.userConfigDir, "init.lua")
	}
	return PluginsConfig{
		Enabled: c.getBoolOr("plugins.enabled", true),
		Init:    init,
		Timeout: c.getDurationOr("plugins.timeout", time.Second),
	}
}

// Keys returns the configured key specs per action name. Each action
// accepts a single spec or a list of specs.
func (c *Config) Keys() map[string][]string {
	v, ok := c.Get("keys")
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string][]string, len(m))
	for action := range m {
		specs, err := c.GetStringSlice("keys." + action)
		if err != nil {
			continue
		}
		out[action] = specs
	}
	return out
}

// ConfigErrors validates every typed setting and returns the failures keyed
// by path. Accessors fall back to defaults for these settings.
func (c *Config) ConfigErrors() map[string]error {
	errs := make(map[string]error)
	check := func(path string, err error) {
		if err != nil && err != ErrSettingNotFound {
			errs[path] = err
		}
	}

	for _, path := range []string{"logging.level", "logging.file", "ui.modifiedMarker", "plugins.init"} {
		_, err := c.GetString(path)
		check(path, err)
	}
	for _, path := range []string{"editor.strict", "watch.enabled", "plugins.enabled"} {
		_, err := c.GetBool(path)
		check(path, err)
	}
	for _, path := range []string{"watch.debounce", "plugins.timeout"} {
		_, err := c.GetDuration(path)
		check(path, err)
	}
	if lvl, err := c.GetString("logging.level"); err == nil && !validLevel(lvl) {
		errs["logging.level"] = fmt.Errorf("unknown log level %q", lvl)
	}

	if v, ok := c.Get("keys"); ok {
		m, ok := v.(map[string]any)
		if !ok {
			errs["keys"] = &TypeError{Path: "keys", Expected: "map", Actual: typeName(v)}
		} else {
			actions := make([]string, 0, len(m))
			for action := range m {
				actions = append(actions, action)
			}
			sort.Strings(actions)
			for _, action := range actions {
				_, err := c.GetStringSlice("keys." + action)
				check("keys."+action, err)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func (c *Config) getStringOr(path, def string) string {
	if s, err := c.GetString(path); err == nil {
		return s
	}
	return def
}

func (c *Config) getBoolOr(path string, def bool) bool {
	if b, err := c.GetBool(path); err == nil {
		return b
	}
	return def
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	if d, err := c.GetDuration(path); err == nil {
		return d
	}
	return def
}
