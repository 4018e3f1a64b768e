// Package config holds the runtime settings document.
//
// Settings live in a single JSON document addressed with dotted paths
// ("animation.easing"). Defaults are built in; a user settings.json and an
// optional config.lua script overlay them. Readers resolve through the
// merged document, so an unset key always yields its default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// defaults is the built-in settings document. Every key a component reads
// must appear here with its default value.
const defaults = `{
  "engine": {
    "command": ["nvim", "--embed"],
    "address": ""
  },
  "render": {
    "fps": 60
  },
  "animation": {
    "easing": "ease-out",
    "cursor_duration_ms": 150,
    "scroll_duration_ms": 220,
    "window_duration_ms": 220,
    "cursor_blink": true
  },
  "input": {
    "mouse": true
  },
  "log": {
    "level": "info",
    "path": ""
  }
}`

// Config provides concurrency-safe access to the merged settings document.
type Config struct {
	mu  sync.RWMutex
	doc string
}

// New returns a Config holding only the built-in defaults.
func New() *Config {
	return &Config{doc: defaults}
}

// Load returns a Config with the user's settings.json and config.lua merged
// over the defaults. dir is the settings directory; empty selects the
// default user config directory. Missing files are not an error.
func Load(dir string) (*Config, error) {
	c := New()
	if dir == "" {
		var err error
		dir, err = UserConfigDir()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	switch {
	case err == nil:
		if err := c.mergeJSON(string(data)); err != nil {
			return nil, fmt.Errorf("config: settings.json: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	luaPath := filepath.Join(dir, "config.lua")
	if _, err := os.Stat(luaPath); err == nil {
		if err := c.RunScript(luaPath); err != nil {
			return nil, fmt.Errorf("config: config.lua: %w", err)
		}
	}

	return c, nil
}

// UserConfigDir returns the directory holding settings.json and config.lua.
func UserConfigDir() (string, error) {
	if v := os.Getenv("SLIPSTREAM_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "slipstream"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "slipstream"), nil
}

// mergeJSON overlays every leaf value of the given JSON object onto the
// document. Arrays are replaced whole, not merged element-wise.
func (c *Config) mergeJSON(src string) error {
	if !gjson.Valid(src) {
		return fmt.Errorf("invalid JSON")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	c.doc, err = overlay(c.doc, "", gjson.Parse(src))
	return err
}

func overlay(doc, prefix string, v gjson.Result) (string, error) {
	if !v.IsObject() {
		return sjson.Set(doc, prefix, v.Value())
	}
	var err error
	v.ForEach(func(key, val gjson.Result) bool {
		p := key.String()
		if prefix != "" {
			p = prefix + "." + p
		}
		doc, err = overlay(doc, p, val)
		return err == nil
	})
	return doc, err
}

// Get returns the raw result at path.
func (c *Config) Get(path string) gjson.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return gjson.Get(c.doc, path)
}

// Set writes value at path. Values must be JSON-representable.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, err := sjson.Set(c.doc, path, value)
	if err != nil {
		return err
	}
	c.doc = doc
	return nil
}

// String returns the string at path, or "" when unset.
func (c *Config) String(path string) string {
	return c.Get(path).String()
}

// Int returns the integer at path, or 0 when unset.
func (c *Config) Int(path string) int {
	return int(c.Get(path).Int())
}

// Bool returns the boolean at path, or false when unset.
func (c *Config) Bool(path string) bool {
	return c.Get(path).Bool()
}

// Float returns the float at path, or 0 when unset.
func (c *Config) Float(path string) float64 {
	return c.Get(path).Float()
}

// DurationMS interprets the integer at path as milliseconds.
func (c *Config) DurationMS(path string) time.Duration {
	return time.Duration(c.Get(path).Int()) * time.Millisecond
}

// Strings returns the string array at path.
func (c *Config) Strings(path string) []string {
	arr := c.Get(path).Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.String())
	}
	return out
}

// Document returns the merged settings document.
func (c *Config) Document() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}
