// Package theme persists the light/dark preference and keeps the rendering
// surface in sync with it.
package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Theme is the binary appearance preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// FileName is the persisted preference file, kept under the data directory.
const FileName = "sanity-theme.json"

// Applier synchronizes a rendering surface with the active theme. The web
// console injects the theme into the page before first paint; the CLI ignores
// it. A nil Applier is allowed.
type Applier interface {
	ApplyTheme(t Theme)
}

// preference is the on-disk JSON shape.
type preference struct {
	Theme Theme `json:"theme"`
}

// Store holds the theme preference. The persisted value is read once at
// construction and written on every change.
type Store struct {
	mu      sync.Mutex
	path    string
	theme   Theme
	applier Applier
}

// Open loads the persisted preference from dir, defaulting to light when no
// file exists, and applies it immediately.
func Open(dir string, applier Applier) (*Store, error) {
	s := &Store{
		path:    filepath.Join(dir, FileName),
		theme:   Light,
		applier: applier,
	}

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		var pref preference
		if jsonErr := json.Unmarshal(data, &pref); jsonErr != nil {
			return nil, fmt.Errorf("parsing theme preference: %w", jsonErr)
		}
		if pref.Theme == Dark {
			s.theme = Dark
		}
	case os.IsNotExist(err):
		// First run, keep the default.
	default:
		return nil, fmt.Errorf("reading theme preference: %w", err)
	}

	s.apply()
	return s, nil
}

// Current returns the active theme.
func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Toggle flips between light and dark, applies the new theme and persists it.
func (s *Store) Toggle() (Theme, error) {
	s.mu.Lock()
	next := Light
	if s.theme == Light {
		next = Dark
	}
	s.theme = next
	s.mu.Unlock()

	s.apply()
	return next, s.save()
}

// Set switches to an explicit theme. Anything other than light or dark is
// rejected.
func (s *Store) Set(t Theme) error {
	if t != Light && t != Dark {
		return fmt.Errorf("invalid theme %q: must be light or dark", t)
	}

	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	s.apply()
	return s.save()
}

func (s *Store) apply() {
	if s.applier != nil {
		s.applier.ApplyTheme(s.Current())
	}
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.Marshal(preference{Theme: s.Current()})
	if err != nil {
		return fmt.Errorf("marshalling theme preference: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing theme preference: %w", err)
	}
	return nil
}
