package config

import (
	"fmt"

	"github.com/1broseidon/folio/internal/desktop"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	applyRawSize(&cfg.Viewport, raw.Viewport)
	applyRawSize(&cfg.DefaultWindow, raw.DefaultWindow)

	if raw.Stagger != nil {
		if raw.Stagger.Step != nil {
			cfg.Stagger.Step = *raw.Stagger.Step
		}
		if raw.Stagger.Cycle != nil {
			cfg.Stagger.Cycle = *raw.Stagger.Cycle
		}
	}
	if raw.HistoryLimit != nil {
		cfg.HistoryLimit = *raw.HistoryLimit
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}
	if raw.IconGrid != nil {
		if raw.IconGrid.CellWidth != nil {
			cfg.IconGrid.CellWidth = *raw.IconGrid.CellWidth
		}
		if raw.IconGrid.CellHeight != nil {
			cfg.IconGrid.CellHeight = *raw.IconGrid.CellHeight
		}
	}
	if raw.Apps != nil {
		cfg.Apps = raw.Apps
	}
	if raw.DesktopIcons != nil {
		cfg.DesktopIcons = raw.DesktopIcons
	}

	for i, a := range cfg.Apps {
		if a.Title == "" {
			cfg.Apps[i].Title = a.ID
		}
		if a.Content.Kind == "" {
			return nil, &ValidationError{Path: fmt.Sprintf("apps[%d].content.kind", i), Err: fmt.Errorf("kind is required")}
		}
	}

	return cfg, nil
}

func applyRawSize(dst *desktop.Size, raw *RawSize) {
	if raw == nil {
		return
	}
	if raw.Width != nil {
		dst.Width = *raw.Width
	}
	if raw.Height != nil {
		dst.Height = *raw.Height
	}
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
