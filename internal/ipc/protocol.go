package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/shell"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandReload          CommandType = "RELOAD"
	CommandOpenWindow      CommandType = "OPEN_WINDOW"
	CommandCloseWindow     CommandType = "CLOSE_WINDOW"
	CommandMinimizeWindow  CommandType = "MINIMIZE_WINDOW"
	CommandMaximizeWindow  CommandType = "MAXIMIZE_WINDOW"
	CommandRestoreWindow   CommandType = "RESTORE_WINDOW"
	CommandToggleMaximize  CommandType = "TOGGLE_MAXIMIZE"
	CommandBringToFront    CommandType = "BRING_TO_FRONT"
	CommandUpdatePosition  CommandType = "UPDATE_POSITION"
	CommandUpdateSize      CommandType = "UPDATE_SIZE"
	CommandUpdateTitle     CommandType = "UPDATE_TITLE"
	CommandNavigateTo      CommandType = "NAVIGATE_TO"
	CommandNavigateBack    CommandType = "NAVIGATE_BACK"
	CommandNavigateForward CommandType = "NAVIGATE_FORWARD"
	CommandGetNavigation   CommandType = "GET_NAVIGATION"
	CommandListWindows     CommandType = "LIST_WINDOWS"
	CommandSetViewport     CommandType = "SET_VIEWPORT"
	CommandLaunchApp       CommandType = "LAUNCH_APP"
	CommandListApps        CommandType = "LIST_APPS"
	CommandMenuAction      CommandType = "MENU_ACTION"
	CommandListIcons       CommandType = "LIST_ICONS"
	CommandOpenIcon        CommandType = "OPEN_ICON"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int          `json:"window_count"`
	VisibleCount  int          `json:"visible_count"`
	ActiveWindow  string       `json:"active_window,omitempty"`
	Viewport      desktop.Size `json:"viewport"`
	LastZ         int          `json:"last_z"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	DaemonRunning bool         `json:"daemon_running"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID string `json:"id"`
}

// OpenWindowPayload is the payload for OPEN_WINDOW.
type OpenWindowPayload struct {
	ID       string              `json:"id"`
	Title    string              `json:"title"`
	Content  desktop.ContentJSON `json:"content"`
	Position *desktop.Point      `json:"position,omitempty"`
	Size     *desktop.Size       `json:"size,omitempty"`
}

// PositionPayload is the payload for UPDATE_POSITION.
type PositionPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// SizePayload is the payload for UPDATE_SIZE.
type SizePayload struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TitlePayload is the payload for UPDATE_TITLE.
type TitlePayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NavigatePayload is the payload for NAVIGATE_TO. Title and content are
// optional; missing values keep the window's current ones.
type NavigatePayload struct {
	ID      string              `json:"id"`
	Title   string              `json:"title,omitempty"`
	Content desktop.ContentJSON `json:"content"`
}

// ViewportPayload is the payload for SET_VIEWPORT.
type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AppPayload is the payload for LAUNCH_APP.
type AppPayload struct {
	App string `json:"app"`
}

// MenuActionPayload is the payload for MENU_ACTION.
type MenuActionPayload struct {
	Action string `json:"action"`
}

// IconPayload is the payload for OPEN_ICON.
type IconPayload struct {
	ID string `json:"id"`
}

// WindowData is returned by commands that address one window. Window is nil
// when no such window is open.
type WindowData struct {
	Window *desktop.Window `json:"window,omitempty"`
	Active string          `json:"active,omitempty"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows  []desktop.Window `json:"windows"`
	Active   string           `json:"active,omitempty"`
	Viewport desktop.Size     `json:"viewport"`
}

// NavigationData represents the data returned by GET_NAVIGATION
type NavigationData struct {
	ID         string              `json:"id"`
	CanBack    bool                `json:"can_back"`
	CanForward bool                `json:"can_forward"`
	History    desktop.HistoryView `json:"history"`
}

// AppInfo describes one catalog app.
type AppInfo struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Kind  desktop.Kind `json:"kind"`
	Dock  bool         `json:"dock"`
}

// AppsData represents the data returned by LIST_APPS
type AppsData struct {
	Apps []AppInfo           `json:"apps"`
	Dock []shell.DockItem    `json:"dock"`
	Menu []shell.MenuSection `json:"menu"`
}

// IconsData represents the data returned by LIST_ICONS
type IconsData struct {
	Icons []shell.Icon `json:"icons"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
