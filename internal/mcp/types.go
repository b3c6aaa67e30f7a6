package mcp

// WindowIDInput addresses a single window.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"required,Window id (e.g. finder, about-me, folder-<icon id>)"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ID     string         `json:"id" jsonschema:"required,Window id. Opening an id that is already open surfaces the existing window."`
	Title  string         `json:"title,omitempty" jsonschema:"Title bar text"`
	Kind   string         `json:"kind" jsonschema:"required,Content kind: finder, folder, file, markdown, projects, blog or resume"`
	Props  map[string]any `json:"props,omitempty" jsonschema:"Kind-specific content props (e.g. folder_id, file_path, list_path)"`
	X      *float64       `json:"x,omitempty" jsonschema:"Left edge in pixels (default: centered with stagger)"`
	Y      *float64       `json:"y,omitempty" jsonschema:"Top edge in pixels (default: centered with stagger)"`
	Width  *float64       `json:"width,omitempty" jsonschema:"Width in pixels (default: 600)"`
	Height *float64       `json:"height,omitempty" jsonschema:"Height in pixels (default: 400)"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string  `json:"id" jsonschema:"required,Window id"`
	X  float64 `json:"x" jsonschema:"required,New left edge in pixels"`
	Y  float64 `json:"y" jsonschema:"required,New top edge in pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string  `json:"id" jsonschema:"required,Window id"`
	Width  float64 `json:"width" jsonschema:"required,New width in pixels"`
	Height float64 `json:"height" jsonschema:"required,New height in pixels"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	ID    string `json:"id" jsonschema:"required,Window id"`
	Title string `json:"title" jsonschema:"required,New title"`
}

// NavigateInput is the input for the navigate_to tool.
type NavigateInput struct {
	ID    string         `json:"id" jsonschema:"required,Window id of a finder, folder, projects or blog window"`
	Title string         `json:"title,omitempty" jsonschema:"Title for the new view (default: keep current)"`
	Kind  string         `json:"kind,omitempty" jsonschema:"Content kind for the new view (default: keep current content)"`
	Props map[string]any `json:"props,omitempty" jsonschema:"Content props for the new view"`
}

// LaunchAppInput is the input for the launch_app tool.
type LaunchAppInput struct {
	App string `json:"app" jsonschema:"required,Catalog app id (see list_apps)"`
}

// MenuActionInput is the input for the menu_action tool.
type MenuActionInput struct {
	Action string `json:"action" jsonschema:"required,Menu action: close, minimize, zoom or open:<app>"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// WindowInfo is a flattened view of one window.
type WindowInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Kind       string  `json:"kind"`
	State      string  `json:"state"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ZIndex     int     `json:"z_index"`
	CanBack    bool    `json:"can_back"`
	CanForward bool    `json:"can_forward"`
}

// WindowOutput is returned by tools that act on one window.
type WindowOutput struct {
	ID     string      `json:"id"`
	Open   bool        `json:"open"`
	Window *WindowInfo `json:"window,omitempty"`
	Active string      `json:"active,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows        []WindowInfo `json:"windows"`
	Active         string       `json:"active,omitempty"`
	ViewportWidth  float64      `json:"viewport_width"`
	ViewportHeight float64      `json:"viewport_height"`
}

// AppInfo describes one catalog app.
type AppInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Dock  bool   `json:"dock"`
	Open  bool   `json:"open"`
}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps        []AppInfo `json:"apps"`
	MenuActions []string  `json:"menu_actions"`
}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	WindowCount   int    `json:"window_count"`
	VisibleCount  int    `json:"visible_count"`
	ActiveWindow  string `json:"active_window,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
