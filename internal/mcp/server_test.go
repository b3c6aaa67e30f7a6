package mcp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

func newTestServer(t *testing.T) (*Server, *ipc.Client, *desktop.Manager) {
	t.Helper()
	wm := desktop.NewManager(desktop.DefaultOptions())
	client := ipc.NewLocalClient(shell.New(wm, nil, nil))
	return NewServer(client, slog.New(slog.NewTextHandler(io.Discard, nil))), client, wm
}

func float(v float64) *float64 { return &v }

func TestOpenWindow(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleOpenWindow(ctx, nil, OpenWindowInput{
		ID:     "about-me",
		Title:  "About Me",
		Kind:   "markdown",
		Props:  map[string]any{"file_path": "/content/about-me.md"},
		X:      float(100),
		Y:      float(100),
		Width:  float(700),
		Height: float(500),
	})
	if err != nil {
		t.Fatalf("open_window: %v", err)
	}
	if !out.Open || out.Window == nil {
		t.Fatalf("expected open window, got %+v", out)
	}
	want := WindowInfo{ID: "about-me", Title: "About Me", Kind: "markdown", State: "normal", X: 100, Y: 100, Width: 700, Height: 500, ZIndex: 1}
	if *out.Window != want {
		t.Fatalf("expected %+v, got %+v", want, *out.Window)
	}
	if out.Active != "about-me" {
		t.Fatalf("expected about-me active, got %q", out.Active)
	}
}

func TestOpenWindow_InvalidInput(t *testing.T) {
	s, _, _ := newTestServer(t)
	tests := []struct {
		name string
		in   OpenWindowInput
		want string
	}{
		{name: "missing id", in: OpenWindowInput{Kind: "resume"}, want: "id is required"},
		{name: "missing kind", in: OpenWindowInput{ID: "x"}, want: "kind is required"},
		{name: "unknown kind", in: OpenWindowInput{ID: "x", Kind: "terminal"}, want: "unknown content kind"},
		{name: "unknown prop", in: OpenWindowInput{ID: "x", Kind: "folder", Props: map[string]any{"path": "/"}}, want: "unknown field"},
		{name: "half size", in: OpenWindowInput{ID: "x", Kind: "resume", Width: float(10)}, want: "width and height"},
		{name: "half position", in: OpenWindowInput{ID: "x", Kind: "resume", X: float(10)}, want: "x and y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.handleOpenWindow(context.Background(), nil, tt.in)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestWindowTools(t *testing.T) {
	s, b, wm := newTestServer(t)
	ctx := context.Background()
	wm.Open(desktop.WindowSpec{
		ID:       "notes",
		Content:  desktop.ResumeContent{},
		Position: &desktop.Point{X: 10, Y: 20},
		Size:     &desktop.Size{Width: 300, Height: 200},
	})

	_, out, err := s.windowTool(b.MaximizeWindow)(ctx, nil, WindowIDInput{ID: "notes"})
	if err != nil {
		t.Fatalf("maximize: %v", err)
	}
	if out.Window.State != "maximized" || out.Window.Width != desktop.DefaultViewportWidth {
		t.Fatalf("expected maximized to viewport, got %+v", out.Window)
	}

	_, out, _ = s.windowTool(b.MinimizeWindow)(ctx, nil, WindowIDInput{ID: "notes"})
	if out.Window.State != "minimized" || out.Active != "" {
		t.Fatalf("expected minimized with no active window, got %+v", out)
	}

	_, out, _ = s.windowTool(b.RestoreWindow)(ctx, nil, WindowIDInput{ID: "notes"})
	if out.Window.State != "normal" || out.Window.X != 10 || out.Window.Width != 300 {
		t.Fatalf("expected restored geometry, got %+v", out.Window)
	}

	_, out, _ = s.handleMoveWindow(ctx, nil, MoveWindowInput{ID: "notes", X: 5, Y: 6})
	if out.Window.X != 5 || out.Window.Y != 6 {
		t.Fatalf("expected moved window, got %+v", out.Window)
	}

	if _, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "notes", Width: 0, Height: 5}); err == nil {
		t.Fatalf("expected resize validation error")
	}

	_, out, _ = s.handleSetTitle(ctx, nil, SetTitleInput{ID: "notes", Title: "Notes"})
	if out.Window.Title != "Notes" {
		t.Fatalf("expected retitled window, got %q", out.Window.Title)
	}

	_, out, err = s.windowTool(b.CloseWindow)(ctx, nil, WindowIDInput{ID: "notes"})
	if err != nil || out.Open || out.Window != nil {
		t.Fatalf("expected closed window, got %+v (err %v)", out, err)
	}

	_, out, err = s.windowTool(b.CloseWindow)(ctx, nil, WindowIDInput{ID: "ghost"})
	if err != nil || out.Open {
		t.Fatalf("expected unknown id to be a quiet no-op, got %+v (err %v)", out, err)
	}

	if _, _, err := s.windowTool(b.CloseWindow)(ctx, nil, WindowIDInput{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestNavigation(t *testing.T) {
	s, b, _ := newTestServer(t)
	ctx := context.Background()

	if _, _, err := s.handleLaunchApp(ctx, nil, LaunchAppInput{App: "projects"}); err != nil {
		t.Fatalf("launch: %v", err)
	}

	_, out, err := s.handleNavigateTo(ctx, nil, NavigateInput{
		ID:    "projects",
		Title: "folio",
		Kind:  "markdown",
		Props: map[string]any{"file_path": "/content/projects/folio.md"},
	})
	if err != nil {
		t.Fatalf("navigate_to: %v", err)
	}
	if out.Window.Kind != "markdown" || !out.Window.CanBack || out.Window.CanForward {
		t.Fatalf("unexpected window after navigate %+v", out.Window)
	}

	_, out, _ = s.windowTool(b.NavigateBack)(ctx, nil, WindowIDInput{ID: "projects"})
	if out.Window.Kind != "projects" || out.Window.Title != "Projects" || !out.Window.CanForward {
		t.Fatalf("unexpected window after back %+v", out.Window)
	}

	_, out, _ = s.handleNavigateTo(ctx, nil, NavigateInput{ID: "projects", Title: "Renamed"})
	if out.Window.Kind != "projects" || out.Window.Title != "Renamed" || out.Window.CanForward {
		t.Fatalf("expected title-only navigation to keep content, got %+v", out.Window)
	}

	if _, _, err := s.handleNavigateTo(ctx, nil, NavigateInput{ID: "projects", Props: map[string]any{"list_path": "x"}}); err == nil {
		t.Fatalf("expected error for props without kind")
	}
}

func TestListTools(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	for _, app := range []string{"finder", "blog"} {
		if _, _, err := s.handleLaunchApp(ctx, nil, LaunchAppInput{App: app}); err != nil {
			t.Fatalf("launch %s: %v", app, err)
		}
	}
	if _, _, err := s.handleLaunchApp(ctx, nil, LaunchAppInput{App: "trash"}); err == nil {
		t.Fatalf("expected error for unknown app")
	}

	_, list, err := s.handleListWindows(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(list.Windows) != 2 || list.Windows[1].ID != "blog" || list.Active != "blog" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list.ViewportWidth != desktop.DefaultViewportWidth {
		t.Fatalf("expected default viewport width, got %v", list.ViewportWidth)
	}

	_, apps, err := s.handleListApps(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("list_apps: %v", err)
	}
	var finderOpen, resumeOpen bool
	for _, a := range apps.Apps {
		switch a.ID {
		case "finder":
			finderOpen = a.Open
		case "resume":
			resumeOpen = a.Open
		}
	}
	if !finderOpen || resumeOpen {
		t.Fatalf("unexpected open flags in %+v", apps.Apps)
	}
	if len(apps.MenuActions) == 0 {
		t.Fatalf("expected menu actions")
	}

	_, out, err := s.handleMenuAction(ctx, nil, MenuActionInput{Action: "close"})
	if err != nil {
		t.Fatalf("menu_action: %v", err)
	}
	if out.Active != "finder" {
		t.Fatalf("expected finder active after closing blog, got %q", out.Active)
	}

	_, status, err := s.handleStatus(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatalf("desktop_status: %v", err)
	}
	if status.WindowCount != 1 || status.ActiveWindow != "finder" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestBackendErrors(t *testing.T) {
	client := ipc.NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	s := NewServer(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if _, _, err := s.handleStatus(ctx, nil, EmptyInput{}); err == nil {
		t.Fatalf("expected status error")
	}
	if _, _, err := s.handleListWindows(ctx, nil, EmptyInput{}); err == nil {
		t.Fatalf("expected list error")
	}
	if _, _, err := s.windowTool(client.BringToFront)(ctx, nil, WindowIDInput{ID: "finder"}); err == nil {
		t.Fatalf("expected front error")
	}
}
