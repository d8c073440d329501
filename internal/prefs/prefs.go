// Package prefs persists the presentation preferences (dark mode and high
// contrast) under their own keys as stringified booleans.
package prefs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nibzard/streak-go/internal/kv"
)

// Storage keys.
const (
	KeyDarkMode     = "darkMode"
	KeyHighContrast = "highContrast"
)

// Prefs are the display preferences consumed by the UI theme.
type Prefs struct {
	DarkMode     bool
	HighContrast bool
}

// Load reads both preferences. Missing keys read as false, and so does any
// stored value other than "true".
func Load(store kv.Store) (Prefs, error) {
	dark, err := get(store, KeyDarkMode)
	if err != nil {
		return Prefs{}, err
	}
	contrast, err := get(store, KeyHighContrast)
	if err != nil {
		return Prefs{}, err
	}
	return Prefs{DarkMode: dark, HighContrast: contrast}, nil
}

// Save writes both preferences.
func Save(store kv.Store, p Prefs) error {
	if err := Set(store, KeyDarkMode, p.DarkMode); err != nil {
		return err
	}
	return Set(store, KeyHighContrast, p.HighContrast)
}

// Set writes a single preference.
func Set(store kv.Store, key string, value bool) error {
	if err := store.Set(key, []byte(strconv.FormatBool(value))); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

func get(store kv.Store, key string) (bool, error) {
	data, err := store.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read preference %s: %w", key, err)
	}
	return string(data) == "true", nil
}
