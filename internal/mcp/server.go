package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
)

const (
	ServerName    = "folio"
	ServerVersion = "0.1.0"
)

// Backend is the desktop the tools drive. *ipc.Client satisfies it.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	OpenWindow(spec desktop.WindowSpec) (*ipc.WindowData, error)
	CloseWindow(id string) (*ipc.WindowData, error)
	MinimizeWindow(id string) (*ipc.WindowData, error)
	MaximizeWindow(id string) (*ipc.WindowData, error)
	RestoreWindow(id string) (*ipc.WindowData, error)
	ToggleMaximize(id string) (*ipc.WindowData, error)
	BringToFront(id string) (*ipc.WindowData, error)
	UpdatePosition(id string, pos desktop.Point) (*ipc.WindowData, error)
	UpdateSize(id string, size desktop.Size) (*ipc.WindowData, error)
	UpdateTitle(id, title string) (*ipc.WindowData, error)
	NavigateTo(id string, s desktop.Snapshot) (*ipc.WindowData, error)
	NavigateBack(id string) (*ipc.WindowData, error)
	NavigateForward(id string) (*ipc.WindowData, error)
	ListWindows() (*ipc.WindowsData, error)
	LaunchApp(app string) (*ipc.WindowData, error)
	ListApps() (*ipc.AppsData, error)
	MenuAction(action string) (*ipc.WindowData, error)
}

var _ Backend = (*ipc.Client)(nil)

// Server exposes the desktop window manager as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards tool calls to backend.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report how many windows are open and visible and which one is active.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window with the given content. Without x/y the window is centered in the viewport with a small stagger per open window. If the id is already open the existing window is restored or brought to front instead.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Closing an unknown id does nothing.",
	}, s.windowTool(s.backend.CloseWindow))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the dock. A maximized window remembers its pre-maximize geometry.",
	}, s.windowTool(s.backend.MinimizeWindow))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window to fill the viewport.",
	}, s.windowTool(s.backend.MaximizeWindow))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized or maximized window to its normal geometry and bring it to front.",
	}, s.windowTool(s.backend.RestoreWindow))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize a normal window or restore a maximized one.",
	}, s.windowTool(s.backend.ToggleMaximize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "bring_to_front",
		Description: "Raise a visible window above all others, making it the active window.",
	}, s.windowTool(s.backend.BringToFront))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a new top-left position in pixels.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window in pixels.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change a window's title bar text.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "navigate_to",
		Description: "Drill into a new view inside a finder, folder, projects or blog window. Discards any forward history.",
	}, s.handleNavigateTo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "navigate_back",
		Description: "Go back one step in a window's navigation history.",
	}, s.windowTool(s.backend.NavigateBack))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "navigate_forward",
		Description: "Go forward one step in a window's navigation history.",
	}, s.windowTool(s.backend.NavigateForward))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows from back to front, with geometry, state and the active window.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Open a catalog app (finder, about-me, projects, blog, resume, ...) as the dock would.",
	}, s.handleLaunchApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the catalog apps and the available menu actions.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "menu_action",
		Description: "Run a top-menu action. close, minimize and zoom apply to the active window; open:<app> launches an app.",
	}, s.handleMenuAction)
}
