package nv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Controls timeout bounds in milliseconds
const (
	defaultControlsTimeoutMs = 3000
	maxControlsTimeoutMs     = 600000
)

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

// Config is the on-disk configuration. YAML and JSON files are both accepted
type Config struct {
	WindowWidth       int                 `yaml:"window_width"`
	WindowHeight      int                 `yaml:"window_height"`
	Fullscreen        bool                `yaml:"fullscreen"`
	SortMethod        int                 `yaml:"sort_method"`
	Locale            string              `yaml:"locale"`
	FitMode           string              `yaml:"fit_mode"`
	Zoom              float64             `yaml:"zoom"`
	BackgroundColor   string              `yaml:"background_color"`
	ShowControls      bool                `yaml:"show_controls"`
	AutoHideControls  bool                `yaml:"auto_hide_controls"`
	ControlsTimeoutMs int                 `yaml:"controls_timeout_ms"`
	ImagePatterns     []string            `yaml:"image_patterns"`
	WatchFolder       bool                `yaml:"watch_folder"`
	ShortcutsEnabled  bool                `yaml:"shortcuts_enabled"`
	Shortcuts         map[string][]string `yaml:"shortcuts"`
	Theme             Theme               `yaml:"theme"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		WindowWidth:       defaultWidth,
		WindowHeight:      defaultHeight,
		Fullscreen:        false,
		SortMethod:        SortNatural,
		Locale:            "ja",
		FitMode:           FitBoth.String(),
		Zoom:              1.0,
		BackgroundColor:   "#000000",
		ShowControls:      true,
		AutoHideControls:  true,
		ControlsTimeoutMs: defaultControlsTimeoutMs,
		ImagePatterns:     append([]string{}, DefaultImagePatterns...),
		WatchFolder:       false,
		ShortcutsEnabled:  true,
		Theme:             ThemeSystem,
	}
}

// DefaultConfigPath returns ~/.nv.yaml, or nv.yaml when there is no home
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "nv.yaml"
	}
	return filepath.Join(homeDir, ".nv.yaml")
}

// LoadConfig loads the configuration from DefaultConfigPath
func LoadConfig() ConfigLoadResult {
	return LoadConfigFromPath(DefaultConfigPath())
}

// LoadConfigFromPath loads and validates a configuration file. Invalid values
// are replaced by defaults and reported as warnings; an unreadable or
// unparsable file yields the defaults
func LoadConfigFromPath(configPath string) ConfigLoadResult {
	config := DefaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		if !errors.Is(err, os.ErrNotExist) {
			logger.WithField("path", configPath).WithError(err).Warn("Cannot read config file, using defaults")
		}
		result.Status = "Default"
		return result
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		logger.WithField("path", configPath).WithError(err).Warn("Invalid config file, using defaults")
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		logger.WithField("path", configPath).Warn(msg)
		result.Warnings = append(result.Warnings, msg)
		result.Status = "Warning"
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	// Validate sort method
	if config.SortMethod < SortNatural || config.SortMethod > SortEntryOrder {
		warn("Unknown sort_method %d, using natural", config.SortMethod)
		config.SortMethod = SortNatural
	}

	if _, err := language.Parse(config.Locale); err != nil {
		warn("Invalid locale %q: %v", config.Locale, err)
		config.Locale = "ja"
	}

	if _, err := ParseFitMode(config.FitMode); err != nil {
		warn("%v", err)
		config.FitMode = FitBoth.String()
	}

	if config.Zoom < MinZoom || config.Zoom > MaxZoom {
		warn("Zoom %.2f out of range [%.1f, %.1f], using 1.0", config.Zoom, MinZoom, MaxZoom)
		config.Zoom = 1.0
	}

	if _, err := colorful.Hex(config.BackgroundColor); err != nil {
		warn("Invalid background_color %q", config.BackgroundColor)
		config.BackgroundColor = "#000000"
	}

	// Zero disables auto-hide deadlines; negative values are treated the same
	if config.ControlsTimeoutMs < 0 {
		config.ControlsTimeoutMs = 0
	} else if config.ControlsTimeoutMs > maxControlsTimeoutMs {
		config.ControlsTimeoutMs = maxControlsTimeoutMs
	}

	if len(config.ImagePatterns) == 0 {
		config.ImagePatterns = append([]string{}, DefaultImagePatterns...)
	}
	for _, p := range config.ImagePatterns {
		if _, err := glob.Compile(p); err != nil {
			warn("Invalid image pattern %q, using defaults: %v", p, err)
			config.ImagePatterns = append([]string{}, DefaultImagePatterns...)
			break
		}
	}

	if config.Theme == "" {
		config.Theme = ThemeSystem
	} else if !config.Theme.Valid() {
		warn("Unknown theme %q, using system", config.Theme)
		config.Theme = ThemeSystem
	}

	// Validate shortcuts; any bad entry or conflict falls back to defaults
	if config.Shortcuts != nil {
		if _, err := buildShortcutTable(config.Shortcuts); err != nil {
			warn("Shortcut errors, using defaults: %v", err)
			config.Shortcuts = nil
		}
	}

	result.Config = config
	return result
}

// SaveConfigToPath writes config as YAML
func SaveConfigToPath(config Config, configPath string) error {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		return fmt.Errorf("not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", configPath, err)
	}
	return nil
}

// ViewerSettings converts the configuration into initial viewer settings
func (c Config) ViewerSettings() ViewerSettings {
	s := DefaultViewerSettings()
	if mode, err := ParseFitMode(c.FitMode); err == nil {
		s.FitMode = mode
	}
	s.Zoom = clampZoom(c.Zoom)
	s.BackgroundColor = c.BackgroundColor
	s.ShowControls = c.ShowControls
	s.AutoHideControls = c.AutoHideControls
	s.ControlsTimeout = time.Duration(c.ControlsTimeoutMs) * time.Millisecond
	return s
}

// NaturalOrder returns the ordering for the configured locale
func (c Config) NaturalOrder() *NaturalOrder {
	tag, err := language.Parse(c.Locale)
	if err != nil || tag == language.Japanese {
		return defaultOrder
	}
	return NewNaturalOrder(tag)
}

// SortStrategy returns the configured image sort strategy
func (c Config) SortStrategy() SortStrategy {
	strategy := GetSortStrategy(c.SortMethod)
	if natural, ok := strategy.(*NaturalSortStrategy); ok {
		natural.Order = c.NaturalOrder()
	}
	return strategy
}

// ShortcutTable returns the configured shortcuts over the defaults
func (c Config) ShortcutTable() *ShortcutTable {
	table := DefaultShortcuts()
	if c.Shortcuts != nil {
		if custom, err := buildShortcutTable(c.Shortcuts); err == nil {
			table = custom
		}
	}
	return table.WithEnabled(c.ShortcutsEnabled)
}

// buildShortcutTable parses chord labels and merges them over the defaults,
// rejecting tables with conflicting chords
func buildShortcutTable(labels map[string][]string) (*ShortcutTable, error) {
	overrides := make(map[Action][]Shortcut, len(labels))
	descriptions := GetActionDescriptions()

	actions := make([]string, 0, len(labels))
	for action := range labels {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		keys := labels[action]
		if keys == nil {
			continue
		}
		shortcuts := make([]Shortcut, 0, len(keys))
		for _, label := range keys {
			s, err := ParseShortcut(label)
			if err != nil {
				return nil, fmt.Errorf("invalid key '%s' for action '%s': %w", label, action, err)
			}
			s.Description = descriptions[Action(action)]
			shortcuts = append(shortcuts, s)
		}
		overrides[Action(action)] = shortcuts
	}

	table := CustomShortcuts(overrides, nil)
	if conflicts := FindConflicts(table); len(conflicts) > 0 {
		return nil, fmt.Errorf("key conflict: %s", conflicts[0])
	}
	return table, nil
}
