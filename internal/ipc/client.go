package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/runtimepath"
	"github.com/1broseidon/folio/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
	// local serves requests in-process instead of over the socket.
	local *Server
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// NewLocalClient returns a client that serves every request in-process
// against sh. It needs no daemon; RELOAD is not supported.
func NewLocalClient(sh *shell.Shell) *Client {
	return &Client{
		local: &Server{
			shell:     sh,
			wm:        sh.Manager(),
			logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			startTime: time.Now(),
		},
	}
}

// Local reports whether the client runs without a daemon.
func (c *Client) Local() bool { return c.local != nil }

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	if c.local != nil {
		return checkResponse(c.local.handleCommand(req))
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return checkResponse(&resp)
}

func checkResponse(resp *Response) (*Response, error) {
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return resp, nil
}

// call sends cmd with an optional payload and decodes the response data into
// out when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

func (c *Client) windowCall(cmd CommandType, payload any) (*WindowData, error) {
	var data WindowData
	if err := c.call(cmd, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// OpenWindow opens a window, or surfaces it when already open.
func (c *Client) OpenWindow(spec desktop.WindowSpec) (*WindowData, error) {
	return c.windowCall(CommandOpenWindow, OpenWindowPayload{
		ID:       spec.ID,
		Title:    spec.Title,
		Content:  desktop.ContentJSON{Content: spec.Content},
		Position: spec.Position,
		Size:     spec.Size,
	})
}

func (c *Client) CloseWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandCloseWindow, WindowPayload{ID: id})
}

func (c *Client) MinimizeWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandMinimizeWindow, WindowPayload{ID: id})
}

func (c *Client) MaximizeWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandMaximizeWindow, WindowPayload{ID: id})
}

func (c *Client) RestoreWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandRestoreWindow, WindowPayload{ID: id})
}

func (c *Client) ToggleMaximize(id string) (*WindowData, error) {
	return c.windowCall(CommandToggleMaximize, WindowPayload{ID: id})
}

func (c *Client) BringToFront(id string) (*WindowData, error) {
	return c.windowCall(CommandBringToFront, WindowPayload{ID: id})
}

func (c *Client) UpdatePosition(id string, pos desktop.Point) (*WindowData, error) {
	return c.windowCall(CommandUpdatePosition, PositionPayload{ID: id, X: pos.X, Y: pos.Y})
}

func (c *Client) UpdateSize(id string, size desktop.Size) (*WindowData, error) {
	return c.windowCall(CommandUpdateSize, SizePayload{ID: id, Width: size.Width, Height: size.Height})
}

func (c *Client) UpdateTitle(id, title string) (*WindowData, error) {
	return c.windowCall(CommandUpdateTitle, TitlePayload{ID: id, Title: title})
}

// NavigateTo pushes a new view onto a window's history.
func (c *Client) NavigateTo(id string, s desktop.Snapshot) (*WindowData, error) {
	return c.windowCall(CommandNavigateTo, NavigatePayload{
		ID:      id,
		Title:   s.Title,
		Content: desktop.ContentJSON{Content: s.Content},
	})
}

func (c *Client) NavigateBack(id string) (*WindowData, error) {
	return c.windowCall(CommandNavigateBack, WindowPayload{ID: id})
}

func (c *Client) NavigateForward(id string) (*WindowData, error) {
	return c.windowCall(CommandNavigateForward, WindowPayload{ID: id})
}

// GetNavigation returns a window's history and back/forward availability.
func (c *Client) GetNavigation(id string) (*NavigationData, error) {
	var data NavigationData
	if err := c.call(CommandGetNavigation, WindowPayload{ID: id}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListWindows returns every open window in paint order.
func (c *Client) ListWindows() (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) SetViewport(size desktop.Size) (*WindowsData, error) {
	var data WindowsData
	if err := c.call(CommandSetViewport, ViewportPayload{Width: size.Width, Height: size.Height}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// LaunchApp opens a catalog app.
func (c *Client) LaunchApp(app string) (*WindowData, error) {
	return c.windowCall(CommandLaunchApp, AppPayload{App: app})
}

func (c *Client) ListApps() (*AppsData, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// MenuAction runs a top-menu action against the active window.
func (c *Client) MenuAction(action string) (*WindowData, error) {
	return c.windowCall(CommandMenuAction, MenuActionPayload{Action: action})
}

func (c *Client) ListIcons() (*IconsData, error) {
	var data IconsData
	if err := c.call(CommandListIcons, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) OpenIcon(id string) (*WindowData, error) {
	return c.windowCall(CommandOpenIcon, IconPayload{ID: id})
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
