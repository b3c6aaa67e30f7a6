package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/shell"
)

// StaggerConfig controls the offset applied to windows opened without an
// explicit position.
type StaggerConfig struct {
	Step  float64 `yaml:"step"`
	Cycle int     `yaml:"cycle"`
}

// IconGridConfig is the desktop icon cell size in pixels.
type IconGridConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

// LoggingConfig configures the window action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled"`
	// File is the log file path (default: ~/.local/share/folio/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// ContentConfig selects a content kind and its props.
type ContentConfig struct {
	Kind  string         `yaml:"kind"`
	Props map[string]any `yaml:"props,omitempty"`
}

// Build decodes the props into typed content.
func (c ContentConfig) Build() (desktop.Content, error) {
	var props json.RawMessage
	if len(c.Props) > 0 {
		data, err := json.Marshal(c.Props)
		if err != nil {
			return nil, fmt.Errorf("failed to encode props: %w", err)
		}
		props = data
	}
	return desktop.NewContent(desktop.Kind(c.Kind), props)
}

// AppConfig is one catalog entry.
type AppConfig struct {
	ID       string         `yaml:"id"`
	Title    string         `yaml:"title"`
	Dock     bool           `yaml:"dock"`
	Content  ContentConfig  `yaml:"content"`
	Position *desktop.Point `yaml:"position,omitempty"`
	Size     *desktop.Size  `yaml:"size,omitempty"`
}

// IconConfig is one desktop icon.
type IconConfig struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Target string `yaml:"target,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Viewport      desktop.Size   `yaml:"viewport"`
	DefaultWindow desktop.Size   `yaml:"default_window"`
	Stagger       StaggerConfig  `yaml:"stagger"`
	HistoryLimit  int            `yaml:"history_limit"`
	LogLevel      string         `yaml:"log_level"`
	Logging       LoggingConfig  `yaml:"logging"`
	IconGrid      IconGridConfig `yaml:"icon_grid"`
	Apps          []AppConfig    `yaml:"apps"`
	DesktopIcons  []IconConfig   `yaml:"desktop_icons"`
}

func DefaultConfig() *Config {
	opts := desktop.DefaultOptions()
	return &Config{
		Viewport:      opts.Viewport,
		DefaultWindow: opts.DefaultSize,
		Stagger: StaggerConfig{
			Step:  opts.StaggerStep,
			Cycle: opts.StaggerCycle,
		},
		HistoryLimit: opts.HistoryLimit,
		LogLevel:     "info",
		Logging: LoggingConfig{
			Enabled:   true,
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		IconGrid: IconGridConfig{
			CellWidth:  shell.DefaultCellWidth,
			CellHeight: shell.DefaultCellHeight,
		},
		Apps: defaultApps(),
		DesktopIcons: []IconConfig{
			{Name: "My Documents", Type: string(shell.IconFolder), Target: "docs"},
			{Name: "notes.txt", Type: string(shell.IconFile), Target: "notes"},
		},
	}
}

// defaultApps renders the stock catalog in config form.
func defaultApps() []AppConfig {
	apps := shell.DefaultApps()
	out := make([]AppConfig, 0, len(apps))
	for _, a := range apps {
		out = append(out, AppConfig{
			ID:       a.ID,
			Title:    a.Title,
			Dock:     a.Dock,
			Content:  contentConfig(a.Content),
			Position: a.Position,
			Size:     a.Size,
		})
	}
	return out
}

func contentConfig(c desktop.Content) ContentConfig {
	out := ContentConfig{Kind: string(c.Kind())}
	data, err := json.Marshal(c)
	if err != nil {
		return out
	}
	var props map[string]any
	if err := json.Unmarshal(data, &props); err == nil && len(props) > 0 {
		out.Props = props
	}
	return out
}

// DesktopOptions returns the window manager settings.
func (c *Config) DesktopOptions() desktop.Options {
	return desktop.Options{
		Viewport:     c.Viewport,
		DefaultSize:  c.DefaultWindow,
		StaggerStep:  c.Stagger.Step,
		StaggerCycle: c.Stagger.Cycle,
		HistoryLimit: c.HistoryLimit,
	}
}

// CatalogApps builds the shell catalog.
func (c *Config) CatalogApps() ([]shell.App, error) {
	apps := make([]shell.App, 0, len(c.Apps))
	for i, a := range c.Apps {
		content, err := a.Content.Build()
		if err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("apps[%d].content", i), Err: err}
		}
		apps = append(apps, shell.App{
			ID:       a.ID,
			Title:    a.Title,
			Dock:     a.Dock,
			Content:  content,
			Position: a.Position,
			Size:     a.Size,
		})
	}
	return apps, nil
}

// NewIconGrid builds the desktop icon grid with the configured icons placed
// in order.
func (c *Config) NewIconGrid() *shell.IconGrid {
	g := shell.NewIconGrid(desktop.Size{Width: c.IconGrid.CellWidth, Height: c.IconGrid.CellHeight}, c.Viewport.Height)
	for _, ic := range c.DesktopIcons {
		g.Add(ic.Name, shell.IconType(ic.Type), ic.Target)
	}
	return g
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/folio/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}
	if c.DefaultWindow.Width <= 0 || c.DefaultWindow.Height <= 0 {
		return &ValidationError{Path: "default_window", Err: fmt.Errorf("default_window width and height must be > 0")}
	}
	if c.Stagger.Step < 0 {
		return &ValidationError{Path: "stagger.step", Err: fmt.Errorf("step must be >= 0")}
	}
	if c.Stagger.Cycle < 0 {
		return &ValidationError{Path: "stagger.cycle", Err: fmt.Errorf("cycle must be >= 0")}
	}
	if c.HistoryLimit < 0 {
		return &ValidationError{Path: "history_limit", Err: fmt.Errorf("history_limit must be >= 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	if c.IconGrid.CellWidth <= 0 || c.IconGrid.CellHeight <= 0 {
		return &ValidationError{Path: "icon_grid", Err: fmt.Errorf("cell_width and cell_height must be > 0")}
	}

	seen := make(map[string]struct{}, len(c.Apps))
	for i, a := range c.Apps {
		path := fmt.Sprintf("apps[%d]", i)
		if strings.TrimSpace(a.ID) == "" {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("id is required")}
		}
		if _, dup := seen[a.ID]; dup {
			return &ValidationError{Path: path + ".id", Err: fmt.Errorf("duplicate app id %q", a.ID)}
		}
		seen[a.ID] = struct{}{}
		if _, err := a.Content.Build(); err != nil {
			return &ValidationError{Path: path + ".content", Err: err}
		}
		if a.Size != nil && (a.Size.Width <= 0 || a.Size.Height <= 0) {
			return &ValidationError{Path: path + ".size", Err: fmt.Errorf("width and height must be > 0")}
		}
	}

	for i, ic := range c.DesktopIcons {
		path := fmt.Sprintf("desktop_icons[%d]", i)
		if strings.TrimSpace(ic.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		switch shell.IconType(ic.Type) {
		case shell.IconFolder, shell.IconFile:
		default:
			return &ValidationError{Path: path + ".type", Err: fmt.Errorf("type must be one of: folder, file")}
		}
	}

	return nil
}
