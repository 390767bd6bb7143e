package nv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Theme is the colour scheme preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// ThemeStore persists the theme preference
type ThemeStore interface {
	LoadTheme(ctx context.Context) (Theme, error)
	SaveTheme(ctx context.Context, theme Theme) error
}

// FileThemeStore keeps the theme in a small YAML file
type FileThemeStore struct {
	Path string
}

type themeFile struct {
	Theme Theme `yaml:"theme"`
}

// LoadTheme reads the stored theme. A missing file yields ThemeSystem
func (s *FileThemeStore) LoadTheme(ctx context.Context) (Theme, error) {
	if err := ctx.Err(); err != nil {
		return ThemeSystem, err
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return ThemeSystem, nil
	}
	if err != nil {
		return ThemeSystem, fmt.Errorf("failed to read theme file %s: %w", s.Path, err)
	}

	var f themeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ThemeSystem, fmt.Errorf("failed to parse theme file %s: %w", s.Path, err)
	}
	if !f.Theme.Valid() {
		return ThemeSystem, fmt.Errorf("unknown theme %q in %s", f.Theme, s.Path)
	}
	return f.Theme, nil
}

// SaveTheme writes the theme, creating the parent directory if needed
func (s *FileThemeStore) SaveTheme(ctx context.Context, theme Theme) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	data, err := yaml.Marshal(themeFile{Theme: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.Path), err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save theme to %s: %w", s.Path, err)
	}
	return nil
}

// ThemeController fronts a ThemeStore. Store failures are logged and never
// reach the caller; loading falls back to ThemeSystem
type ThemeController struct {
	store ThemeStore

	mu      sync.RWMutex
	current Theme
}

// NewThemeController creates a controller starting at ThemeSystem
func NewThemeController(store ThemeStore) *ThemeController {
	return &ThemeController{store: store, current: ThemeSystem}
}

// Load reads the stored theme and makes it current
func (c *ThemeController) Load(ctx context.Context) Theme {
	theme, err := c.store.LoadTheme(ctx)
	if err != nil || !theme.Valid() {
		logger.WithError(err).Warn("Failed to load theme, using system")
		theme = ThemeSystem
	}
	c.mu.Lock()
	c.current = theme
	c.mu.Unlock()
	return theme
}

// Save makes theme current and persists it
func (c *ThemeController) Save(ctx context.Context, theme Theme) {
	c.mu.Lock()
	c.current = theme
	c.mu.Unlock()

	if err := c.store.SaveTheme(ctx, theme); err != nil {
		logger.WithError(err).WithField("theme", theme).Warn("Failed to save theme")
	}
}

// Current returns the theme in effect
func (c *ThemeController) Current() Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

type themeContextKey struct{}

// WithTheme returns a context carrying the controller
func WithTheme(ctx context.Context, c *ThemeController) context.Context {
	return context.WithValue(ctx, themeContextKey{}, c)
}

// ThemeFromContext returns the controller installed by WithTheme. It panics
// when there is none: that is a wiring bug, not a runtime condition
func ThemeFromContext(ctx context.Context) *ThemeController {
	c, ok := ctx.Value(themeContextKey{}).(*ThemeController)
	if !ok || c == nil {
		panic("nv: ThemeFromContext called without WithTheme")
	}
	return c
}
