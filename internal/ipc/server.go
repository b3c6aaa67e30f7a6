package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/runtimepath"
	"github.com/1broseidon/folio/internal/shell"
)

// ReloadFunc reloads the daemon configuration.
type ReloadFunc func() error

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	shell        *shell.Shell
	wm           *desktop.Manager
	reload       ReloadFunc
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to the runtime socket path.
func NewServer(sh *shell.Shell, reload ReloadFunc, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Remove a stale socket from a previous run.
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		shell:      sh,
		wm:         sh.Manager(),
		reload:     reload,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request line and writes one response line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	case CommandOpenWindow:
		return s.handleOpenWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleWindowCommand(req, s.wm.Close)
	case CommandMinimizeWindow:
		return s.handleWindowCommand(req, s.wm.Minimize)
	case CommandMaximizeWindow:
		return s.handleWindowCommand(req, s.wm.Maximize)
	case CommandRestoreWindow:
		return s.handleWindowCommand(req, s.wm.Restore)
	case CommandToggleMaximize:
		return s.handleWindowCommand(req, s.wm.ToggleMaximize)
	case CommandBringToFront:
		return s.handleWindowCommand(req, s.wm.BringToFront)
	case CommandNavigateBack:
		return s.handleWindowCommand(req, s.wm.NavigateBack)
	case CommandNavigateForward:
		return s.handleWindowCommand(req, s.wm.NavigateForward)
	case CommandUpdatePosition:
		return s.handleUpdatePosition(req.Payload)
	case CommandUpdateSize:
		return s.handleUpdateSize(req.Payload)
	case CommandUpdateTitle:
		return s.handleUpdateTitle(req.Payload)
	case CommandNavigateTo:
		return s.handleNavigateTo(req.Payload)
	case CommandGetNavigation:
		return s.handleGetNavigation(req.Payload)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandSetViewport:
		return s.handleSetViewport(req.Payload)
	case CommandLaunchApp:
		return s.handleLaunchApp(req.Payload)
	case CommandListApps:
		return s.handleListApps()
	case CommandMenuAction:
		return s.handleMenuAction(req.Payload)
	case CommandListIcons:
		return s.handleListIcons()
	case CommandOpenIcon:
		return s.handleOpenIcon(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		WindowCount:   s.wm.Len(),
		VisibleCount:  len(s.wm.VisibleWindows()),
		Viewport:      s.wm.Viewport(),
		LastZ:         s.wm.LastZ(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if active, ok := s.wm.ActiveWindow(); ok {
		status.ActiveWindow = active.ID
	}
	return okResponse(status)
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return okResponse(nil)
}

func (s *Server) handleOpenWindow(payload json.RawMessage) *Response {
	var req OpenWindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	if req.Content.Content == nil {
		return NewErrorResponse("content is required")
	}
	s.wm.Open(desktop.WindowSpec{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content.Content,
		Position: req.Position,
		Size:     req.Size,
	})
	return s.windowResponse(req.ID)
}

// handleWindowCommand runs a command that only needs a window id. Unknown ids
// are not an error; the response simply carries no window.
func (s *Server) handleWindowCommand(req *Request, cmd func(id string)) *Response {
	var p WindowPayload
	if err := decodePayload(req.Payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", req.Command, err))
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	cmd(p.ID)
	return s.windowResponse(p.ID)
}

func (s *Server) handleUpdatePosition(payload json.RawMessage) *Response {
	var p PositionPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid position payload: %v", err))
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	s.wm.UpdatePosition(p.ID, desktop.Point{X: p.X, Y: p.Y})
	return s.windowResponse(p.ID)
}

func (s *Server) handleUpdateSize(payload json.RawMessage) *Response {
	var p SizePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid size payload: %v", err))
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	s.wm.UpdateSize(p.ID, desktop.Size{Width: p.Width, Height: p.Height})
	return s.windowResponse(p.ID)
}

func (s *Server) handleUpdateTitle(payload json.RawMessage) *Response {
	var p TitlePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid title payload: %v", err))
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	s.wm.UpdateTitle(p.ID, p.Title)
	return s.windowResponse(p.ID)
}

func (s *Server) handleNavigateTo(payload json.RawMessage) *Response {
	var p NavigatePayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid navigate payload: %v", err))
	}
	if p.ID == "" {
		return NewErrorResponse("id is required")
	}
	s.wm.NavigateTo(p.ID, desktop.Snapshot{Title: p.Title, Content: p.Content.Content})
	return s.windowResponse(p.ID)
}

func (s *Server) handleGetNavigation(payload json.RawMessage) *Response {
	var p WindowPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid navigation payload: %v", err))
	}
	data := NavigationData{ID: p.ID, History: desktop.HistoryView{Cursor: -1}}
	if w, ok := s.wm.Window(p.ID); ok {
		data.History = w.History
		data.CanBack = w.History.CanBack()
		data.CanForward = w.History.CanForward()
	}
	return okResponse(data)
}

func (s *Server) handleListWindows() *Response {
	data := WindowsData{
		Windows:  s.wm.ListOpenWindows(),
		Viewport: s.wm.Viewport(),
	}
	if active, ok := s.wm.ActiveWindow(); ok {
		data.Active = active.ID
	}
	return okResponse(data)
}

func (s *Server) handleSetViewport(payload json.RawMessage) *Response {
	var p ViewportPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid viewport payload: %v", err))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return NewErrorResponse("width and height must be > 0")
	}
	size := desktop.Size{Width: p.Width, Height: p.Height}
	s.wm.SetViewport(size)
	s.shell.Icons().SetViewportHeight(size.Height)
	return okResponse(WindowsData{Windows: s.wm.ListOpenWindows(), Viewport: s.wm.Viewport()})
}

func (s *Server) handleLaunchApp(payload json.RawMessage) *Response {
	var p AppPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid launch payload: %v", err))
	}
	if err := s.shell.Launch(p.App); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.windowResponse(p.App)
}

func (s *Server) handleListApps() *Response {
	apps := s.shell.Apps()
	infos := make([]AppInfo, 0, len(apps))
	for _, a := range apps {
		info := AppInfo{ID: a.ID, Title: a.Title, Dock: a.Dock}
		if a.Content != nil {
			info.Kind = a.Content.Kind()
		}
		infos = append(infos, info)
	}
	return okResponse(AppsData{
		Apps: infos,
		Dock: s.shell.DockItems(),
		Menu: s.shell.Menu(),
	})
}

func (s *Server) handleMenuAction(payload json.RawMessage) *Response {
	var p MenuActionPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid menu payload: %v", err))
	}
	if err := s.shell.MenuAction(p.Action); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.activeResponse()
}

func (s *Server) handleListIcons() *Response {
	return okResponse(IconsData{Icons: s.shell.Icons().List()})
}

func (s *Server) handleOpenIcon(payload json.RawMessage) *Response {
	var p IconPayload
	if err := decodePayload(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid icon payload: %v", err))
	}
	if err := s.shell.OpenIcon(p.ID); err != nil {
		return NewErrorResponse(err.Error())
	}
	return s.activeResponse()
}

// windowResponse reports the current state of one window.
func (s *Server) windowResponse(id string) *Response {
	var data WindowData
	if w, ok := s.wm.Window(id); ok {
		data.Window = &w
	}
	if active, ok := s.wm.ActiveWindow(); ok {
		data.Active = active.ID
	}
	return okResponse(data)
}

// activeResponse reports the active window after a shell action.
func (s *Server) activeResponse() *Response {
	var data WindowData
	if active, ok := s.wm.ActiveWindow(); ok {
		data.Window = &active
		data.Active = active.ID
	}
	return okResponse(data)
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	return json.Unmarshal(payload, out)
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
