// Package prefs persists small UI preferences between runs: recent paths and
// the last window size.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const prefsFile = "preferences.json"

// Keys
const (
	KeyLastDir      = "lastDirectory"
	KeyMarksFile    = "lastMarksFile"
	KeyImageFile    = "lastImageFile"
	KeyWindowWidth  = "window.width"
	KeyWindowHeight = "window.height"
)

// Prefs stores preferences in their own viper instance, separate from the
// application config.
type Prefs struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Load reads preferences from dir, or from the user config directory when
// dir is empty. A missing or unreadable file yields empty preferences.
func Load(dir string) *Prefs {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = filepath.Join(os.Getenv("HOME"), ".config")
		}
		dir = filepath.Join(configDir, "mapscale")
	}

	p := &Prefs{
		v:    viper.New(),
		path: filepath.Join(dir, prefsFile),
	}
	p.v.SetConfigFile(p.path)
	p.v.SetConfigType("json")
	_ = p.v.ReadInConfig()
	return p
}

// Path returns the preferences file location.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := p.v.WriteConfigAs(p.path); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetString(key)
}

// SetString stores a string preference.
func (p *Prefs) SetString(key, val string) {
	p.mu.Lock()
	p.v.Set(key, val)
	p.mu.Unlock()
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.v.IsSet(key) {
		return fallback
	}
	return p.v.GetFloat64(key)
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.v.Set(key, val)
	p.mu.Unlock()
}

// RememberFile records path under key and its directory as the last directory.
func (p *Prefs) RememberFile(key, path string) {
	p.SetString(key, path)
	p.SetString(KeyLastDir, filepath.Dir(path))
}

// ExistingFile returns the path stored under key if the file still exists.
func (p *Prefs) ExistingFile(key string) (string, bool) {
	path := p.String(key)
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", false
	}
	return path, true
}
