package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	viewport
//	viewport.width
//	default_window.height
//	stagger.step
//	stagger.cycle
//	history_limit
//	log_level
//	logging.max_files
//	icon_grid.cell_width
//	apps
//	apps[0].content.kind
//	desktop_icons[1].name
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	// A list replaced by a file owns all of its items.
	for p := parentPath(path); p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok && (p == "apps" || p == "desktop_icons") {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	head, index, hasIndex, err := splitIndex(parts[0])
	if err != nil {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	unknown := fmt.Errorf("unknown path: %s", path)
	field := func(n int) string {
		if len(parts) > n {
			return parts[n]
		}
		return ""
	}

	switch head {
	case "viewport", "default_window":
		size := cfg.Viewport
		if head == "default_window" {
			size = cfg.DefaultWindow
		}
		switch {
		case len(parts) == 1:
			return size, nil
		case len(parts) == 2 && parts[1] == "width":
			return size.Width, nil
		case len(parts) == 2 && parts[1] == "height":
			return size.Height, nil
		}
	case "stagger":
		switch {
		case len(parts) == 1:
			return cfg.Stagger, nil
		case len(parts) == 2 && parts[1] == "step":
			return cfg.Stagger.Step, nil
		case len(parts) == 2 && parts[1] == "cycle":
			return cfg.Stagger.Cycle, nil
		}
	case "history_limit":
		if len(parts) == 1 {
			return cfg.HistoryLimit, nil
		}
	case "log_level":
		if len(parts) == 1 {
			return cfg.LogLevel, nil
		}
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "enabled":
				return cfg.Logging.Enabled, nil
			case "file":
				return cfg.Logging.File, nil
			case "max_size_mb":
				return cfg.Logging.MaxSizeMB, nil
			case "max_files":
				return cfg.Logging.MaxFiles, nil
			}
		}
	case "icon_grid":
		switch {
		case len(parts) == 1:
			return cfg.IconGrid, nil
		case len(parts) == 2 && parts[1] == "cell_width":
			return cfg.IconGrid.CellWidth, nil
		case len(parts) == 2 && parts[1] == "cell_height":
			return cfg.IconGrid.CellHeight, nil
		}
	case "apps":
		if !hasIndex {
			if len(parts) == 1 {
				return cfg.Apps, nil
			}
			return nil, unknown
		}
		if index >= len(cfg.Apps) {
			return nil, fmt.Errorf("%s: index out of range (%d apps)", path, len(cfg.Apps))
		}
		app := cfg.Apps[index]
		switch field(1) {
		case "":
			return app, nil
		case "id":
			return app.ID, nil
		case "title":
			return app.Title, nil
		case "dock":
			return app.Dock, nil
		case "position":
			return app.Position, nil
		case "size":
			return app.Size, nil
		case "content":
			switch field(2) {
			case "":
				return app.Content, nil
			case "kind":
				return app.Content.Kind, nil
			case "props":
				if len(parts) == 3 {
					return app.Content.Props, nil
				}
				if v, ok := app.Content.Props[parts[3]]; ok && len(parts) == 4 {
					return v, nil
				}
			}
		}
	case "desktop_icons":
		if !hasIndex {
			if len(parts) == 1 {
				return cfg.DesktopIcons, nil
			}
			return nil, unknown
		}
		if index >= len(cfg.DesktopIcons) {
			return nil, fmt.Errorf("%s: index out of range (%d icons)", path, len(cfg.DesktopIcons))
		}
		ic := cfg.DesktopIcons[index]
		switch field(1) {
		case "":
			return ic, nil
		case "name":
			return ic.Name, nil
		case "type":
			return ic.Type, nil
		case "target":
			return ic.Target, nil
		}
	}
	return nil, unknown
}

// splitIndex parses "apps[2]" into ("apps", 2, true).
func splitIndex(seg string) (string, int, bool, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, 0, false, nil
	}
	if !strings.HasSuffix(seg, "]") {
		return "", 0, false, fmt.Errorf("bad index in %q", seg)
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil || n < 0 {
		return "", 0, false, fmt.Errorf("bad index in %q", seg)
	}
	return seg[:open], n, true, nil
}
