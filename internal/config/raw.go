package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

type RawStagger struct {
	Step  *float64 `yaml:"step"`
	Cycle *int     `yaml:"cycle"`
}

type RawIconGrid struct {
	CellWidth  *float64 `yaml:"cell_width"`
	CellHeight *float64 `yaml:"cell_height"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one YAML file before defaults are applied. Nil fields were
// not set by that file. Lists replace rather than append.
type RawConfig struct {
	Include       IncludeList       `yaml:"include"`
	Viewport      *RawSize          `yaml:"viewport"`
	DefaultWindow *RawSize          `yaml:"default_window"`
	Stagger       *RawStagger       `yaml:"stagger"`
	HistoryLimit  *int              `yaml:"history_limit"`
	LogLevel      *string           `yaml:"log_level"`
	Logging       *RawLoggingConfig `yaml:"logging"`
	IconGrid      *RawIconGrid      `yaml:"icon_grid"`
	Apps          []AppConfig       `yaml:"apps"`
	DesktopIcons  []IconConfig      `yaml:"desktop_icons"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.Viewport = mergeRawSize(out.Viewport, overlay.Viewport)
	out.DefaultWindow = mergeRawSize(out.DefaultWindow, overlay.DefaultWindow)

	if overlay.Stagger != nil {
		if out.Stagger == nil {
			out.Stagger = &RawStagger{}
		} else {
			cp := *out.Stagger
			out.Stagger = &cp
		}
		if overlay.Stagger.Step != nil {
			out.Stagger.Step = overlay.Stagger.Step
		}
		if overlay.Stagger.Cycle != nil {
			out.Stagger.Cycle = overlay.Stagger.Cycle
		}
	}
	if overlay.HistoryLimit != nil {
		out.HistoryLimit = overlay.HistoryLimit
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		} else {
			cp := *out.Logging
			out.Logging = &cp
		}
		if overlay.Logging.Enabled != nil {
			out.Logging.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.File != nil {
			out.Logging.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			out.Logging.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			out.Logging.MaxFiles = overlay.Logging.MaxFiles
		}
	}
	if overlay.IconGrid != nil {
		if out.IconGrid == nil {
			out.IconGrid = &RawIconGrid{}
		} else {
			cp := *out.IconGrid
			out.IconGrid = &cp
		}
		if overlay.IconGrid.CellWidth != nil {
			out.IconGrid.CellWidth = overlay.IconGrid.CellWidth
		}
		if overlay.IconGrid.CellHeight != nil {
			out.IconGrid.CellHeight = overlay.IconGrid.CellHeight
		}
	}
	if overlay.Apps != nil {
		out.Apps = overlay.Apps
	}
	if overlay.DesktopIcons != nil {
		out.DesktopIcons = overlay.DesktopIcons
	}

	return out
}

func mergeRawSize(base, overlay *RawSize) *RawSize {
	if overlay == nil {
		return base
	}
	out := &RawSize{}
	if base != nil {
		*out = *base
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}
