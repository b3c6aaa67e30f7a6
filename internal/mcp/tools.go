package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
)

// windowTool adapts a backend command that only needs a window id.
func (s *Server) windowTool(cmd func(id string) (*ipc.WindowData, error)) mcpsdk.ToolHandlerFor[WindowIDInput, WindowOutput] {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
		if strings.TrimSpace(args.ID) == "" {
			return nil, WindowOutput{}, fmt.Errorf("id is required")
		}
		data, err := cmd(args.ID)
		if err != nil {
			return nil, WindowOutput{}, err
		}
		return nil, windowOutput(args.ID, data), nil
	}
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.backend.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		WindowCount:   status.WindowCount,
		VisibleCount:  status.VisibleCount,
		ActiveWindow:  status.ActiveWindow,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	content, err := buildContent(args.Kind, args.Props)
	if err != nil {
		return nil, WindowOutput{}, err
	}

	spec := desktop.WindowSpec{ID: args.ID, Title: args.Title, Content: content}
	if args.X != nil && args.Y != nil {
		spec.Position = &desktop.Point{X: *args.X, Y: *args.Y}
	} else if args.X != nil || args.Y != nil {
		return nil, WindowOutput{}, fmt.Errorf("x and y must be given together")
	}
	if args.Width != nil && args.Height != nil {
		spec.Size = &desktop.Size{Width: *args.Width, Height: *args.Height}
	} else if args.Width != nil || args.Height != nil {
		return nil, WindowOutput{}, fmt.Errorf("width and height must be given together")
	}

	data, err := s.backend.OpenWindow(spec)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	s.logger.Debug("mcp open_window", "id", args.ID, "kind", args.Kind)
	return nil, windowOutput(args.ID, data), nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	data, err := s.backend.UpdatePosition(args.ID, desktop.Point{X: args.X, Y: args.Y})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(args.ID, data), nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOutput{}, fmt.Errorf("width and height must be > 0")
	}
	data, err := s.backend.UpdateSize(args.ID, desktop.Size{Width: args.Width, Height: args.Height})
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(args.ID, data), nil
}

func (s *Server) handleSetTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	data, err := s.backend.UpdateTitle(args.ID, args.Title)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(args.ID, data), nil
}

func (s *Server) handleNavigateTo(_ context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, WindowOutput{}, fmt.Errorf("id is required")
	}
	snap := desktop.Snapshot{Title: args.Title}
	if args.Kind != "" {
		content, err := buildContent(args.Kind, args.Props)
		if err != nil {
			return nil, WindowOutput{}, err
		}
		snap.Content = content
	} else if len(args.Props) > 0 {
		return nil, WindowOutput{}, fmt.Errorf("props require kind")
	}

	data, err := s.backend.NavigateTo(args.ID, snap)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(args.ID, data), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{
		Windows:        make([]WindowInfo, 0, len(data.Windows)),
		Active:         data.Active,
		ViewportWidth:  data.Viewport.Width,
		ViewportHeight: data.Viewport.Height,
	}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.App) == "" {
		return nil, WindowOutput{}, fmt.Errorf("app is required")
	}
	data, err := s.backend.LaunchApp(args.App)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(args.App, data), nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	data, err := s.backend.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, err
	}
	open := make(map[string]bool, len(data.Dock))
	for _, d := range data.Dock {
		open[d.ID] = d.Open
	}

	out := ListAppsOutput{
		Apps:        make([]AppInfo, 0, len(data.Apps)),
		MenuActions: []string{},
	}
	for _, a := range data.Apps {
		out.Apps = append(out.Apps, AppInfo{
			ID:    a.ID,
			Title: a.Title,
			Kind:  string(a.Kind),
			Dock:  a.Dock,
			Open:  open[a.ID],
		})
	}
	for _, section := range data.Menu {
		for _, item := range section.Items {
			out.MenuActions = append(out.MenuActions, item.Action)
		}
	}
	return nil, out, nil
}

func (s *Server) handleMenuAction(_ context.Context, _ *mcpsdk.CallToolRequest, args MenuActionInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if strings.TrimSpace(args.Action) == "" {
		return nil, WindowOutput{}, fmt.Errorf("action is required")
	}
	data, err := s.backend.MenuAction(args.Action)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, windowOutput(data.Active, data), nil
}

// buildContent turns a kind plus loose props into typed content.
func buildContent(kind string, props map[string]any) (desktop.Content, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind is required")
	}
	var raw json.RawMessage
	if len(props) > 0 {
		data, err := json.Marshal(props)
		if err != nil {
			return nil, fmt.Errorf("failed to encode props: %w", err)
		}
		raw = data
	}
	return desktop.NewContent(desktop.Kind(kind), raw)
}

func windowOutput(id string, data *ipc.WindowData) WindowOutput {
	out := WindowOutput{ID: id}
	if data == nil {
		return out
	}
	out.Active = data.Active
	if data.Window != nil {
		info := windowInfo(*data.Window)
		out.Window = &info
		out.Open = true
	}
	return out
}

func windowInfo(w desktop.Window) WindowInfo {
	return WindowInfo{
		ID:         w.ID,
		Title:      w.Title,
		Kind:       string(w.Kind()),
		State:      w.State.String(),
		X:          w.Position.X,
		Y:          w.Position.Y,
		Width:      w.Size.Width,
		Height:     w.Size.Height,
		ZIndex:     w.ZIndex,
		CanBack:    w.History.CanBack(),
		CanForward: w.History.CanForward(),
	}
}
