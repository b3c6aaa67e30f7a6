package ipc

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/shell"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("FOLIO_SOCKET", "")
	wm := desktop.NewManager(desktop.DefaultOptions())
	sh := shell.New(wm, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(sh, func() error { return nil }, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func request(t *testing.T, cmd CommandType, payload any) *Request {
	t.Helper()
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		req.Payload = data
	}
	return req
}

func mustOK(t *testing.T, resp *Response, out any) {
	t.Helper()
	if resp.Status != "OK" {
		t.Fatalf("expected OK, got %s: %s", resp.Status, resp.Error)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestHandleCommand_OpenAndList(t *testing.T) {
	srv := newTestServer(t)

	raw := `{"command":"OPEN_WINDOW","payload":{"id":"finder","title":"Finder","content":{"kind":"finder","props":{"folder_id":"root"}}}}`
	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	var opened WindowData
	mustOK(t, srv.handleCommand(req), &opened)
	if opened.Window == nil || opened.Window.ID != "finder" || opened.Active != "finder" {
		t.Fatalf("unexpected open response %+v", opened)
	}
	if opened.Window.Position != (desktop.Point{X: 420, Y: 250}) {
		t.Fatalf("expected default position, got %+v", opened.Window.Position)
	}

	var list WindowsData
	mustOK(t, srv.handleCommand(request(t, CommandListWindows, nil)), &list)
	if len(list.Windows) != 1 || list.Active != "finder" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list.Windows[0].Content != (desktop.FinderContent{FolderID: "root"}) {
		t.Fatalf("unexpected content %#v", list.Windows[0].Content)
	}
}

func TestHandleCommand_UnknownWindowIsOK(t *testing.T) {
	srv := newTestServer(t)
	for _, cmd := range []CommandType{
		CommandCloseWindow, CommandMinimizeWindow, CommandMaximizeWindow, CommandRestoreWindow,
		CommandToggleMaximize, CommandBringToFront, CommandNavigateBack, CommandNavigateForward,
	} {
		var data WindowData
		mustOK(t, srv.handleCommand(request(t, cmd, WindowPayload{ID: "ghost"})), &data)
		if data.Window != nil {
			t.Fatalf("%s: expected no window, got %+v", cmd, data.Window)
		}
	}
}

func TestHandleCommand_ProtocolErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		req  *Request
		want string
	}{
		{name: "unknown command", req: &Request{Command: "DANCE"}, want: "Unknown command"},
		{name: "missing payload", req: &Request{Command: CommandCloseWindow}, want: "payload is required"},
		{name: "missing id", req: request(t, CommandMinimizeWindow, WindowPayload{}), want: "id is required"},
		{name: "bad json", req: &Request{Command: CommandUpdatePosition, Payload: json.RawMessage(`{"id":`)}, want: "Invalid position payload"},
		{name: "unknown kind", req: &Request{Command: CommandOpenWindow, Payload: json.RawMessage(`{"id":"x","content":{"kind":"terminal"}}`)}, want: "unknown content kind"},
		{name: "missing content", req: request(t, CommandOpenWindow, map[string]string{"id": "x"}), want: "content is required"},
		{name: "bad viewport", req: request(t, CommandSetViewport, ViewportPayload{Width: -1, Height: 5}), want: "must be > 0"},
		{name: "unknown app", req: request(t, CommandLaunchApp, AppPayload{App: "trash"}), want: "unknown app"},
		{name: "unknown action", req: request(t, CommandMenuAction, MenuActionPayload{Action: "quit"}), want: "unknown menu action"},
		{name: "unknown icon", req: request(t, CommandOpenIcon, IconPayload{ID: "nope"}), want: "unknown desktop icon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.handleCommand(tt.req)
			if resp.Status != "ERROR" {
				t.Fatalf("expected ERROR, got %s", resp.Status)
			}
			if !strings.Contains(resp.Error, tt.want) {
				t.Fatalf("expected error containing %q, got %q", tt.want, resp.Error)
			}
		})
	}
}

func TestHandleCommand_StateMachine(t *testing.T) {
	srv := newTestServer(t)
	open := OpenWindowPayload{
		ID:       "about-me",
		Title:    "About Me",
		Content:  desktop.ContentJSON{Content: desktop.MarkdownContent{FilePath: "/content/about-me.md"}},
		Position: &desktop.Point{X: 10, Y: 20},
		Size:     &desktop.Size{Width: 300, Height: 200},
	}
	mustOK(t, srv.handleCommand(request(t, CommandOpenWindow, open)), nil)

	// Active is omitted when empty, so every response needs a fresh value.
	windowCmd := func(cmd CommandType, payload any) WindowData {
		t.Helper()
		var data WindowData
		mustOK(t, srv.handleCommand(request(t, cmd, payload)), &data)
		return data
	}

	data := windowCmd(CommandMaximizeWindow, WindowPayload{ID: "about-me"})
	if data.Window.State != desktop.StateMaximized || data.Window.SavedGeometry == nil {
		t.Fatalf("expected maximized with saved geometry, got %+v", data.Window)
	}
	if data.Active != "about-me" {
		t.Fatalf("expected about-me active, got %q", data.Active)
	}

	data = windowCmd(CommandMinimizeWindow, WindowPayload{ID: "about-me"})
	if data.Window.State != desktop.StateMinimized || data.Active != "" {
		t.Fatalf("expected minimized and no active window, got %+v", data)
	}

	data = windowCmd(CommandRestoreWindow, WindowPayload{ID: "about-me"})
	want := desktop.Rect{Position: desktop.Point{X: 10, Y: 20}, Size: desktop.Size{Width: 300, Height: 200}}
	if data.Window.State != desktop.StateNormal || data.Window.Rect() != want {
		t.Fatalf("expected normal at %+v, got %+v", want, data.Window)
	}
	if data.Active != "about-me" {
		t.Fatalf("expected restore to reactivate about-me, got %q", data.Active)
	}

	data = windowCmd(CommandUpdateTitle, TitlePayload{ID: "about-me", Title: "Me"})
	if data.Window.Title != "Me" {
		t.Fatalf("expected title Me, got %q", data.Window.Title)
	}
}

func TestHandleCommand_Navigation(t *testing.T) {
	srv := newTestServer(t)
	mustOK(t, srv.handleCommand(request(t, CommandLaunchApp, AppPayload{App: "finder"})), nil)

	nav := NavigatePayload{ID: "finder", Title: "Docs", Content: desktop.ContentJSON{Content: desktop.FolderContent{FolderID: "docs"}}}
	mustOK(t, srv.handleCommand(request(t, CommandNavigateTo, nav)), nil)

	var info NavigationData
	mustOK(t, srv.handleCommand(request(t, CommandGetNavigation, WindowPayload{ID: "finder"})), &info)
	if !info.CanBack || info.CanForward || info.History.Cursor != 1 {
		t.Fatalf("unexpected navigation %+v", info)
	}

	var data WindowData
	mustOK(t, srv.handleCommand(request(t, CommandNavigateBack, WindowPayload{ID: "finder"})), &data)
	if data.Window.Title != "Finder" {
		t.Fatalf("expected back to Finder, got %q", data.Window.Title)
	}

	mustOK(t, srv.handleCommand(request(t, CommandGetNavigation, WindowPayload{ID: "ghost"})), &info)
	if info.CanBack || info.History.Cursor != -1 {
		t.Fatalf("expected empty navigation for unknown window, got %+v", info)
	}
}

func TestHandleCommand_ShellCommands(t *testing.T) {
	srv := newTestServer(t)

	var apps AppsData
	mustOK(t, srv.handleCommand(request(t, CommandListApps, nil)), &apps)
	if len(apps.Apps) == 0 || apps.Apps[0].Kind != desktop.KindFinder {
		t.Fatalf("unexpected apps %+v", apps.Apps)
	}
	if len(apps.Menu) == 0 {
		t.Fatalf("expected menu sections")
	}

	icon := srv.shell.Icons().Add("My Documents", shell.IconFolder, "docs")
	var icons IconsData
	mustOK(t, srv.handleCommand(request(t, CommandListIcons, nil)), &icons)
	if len(icons.Icons) != 1 || icons.Icons[0].ID != icon.ID {
		t.Fatalf("unexpected icons %+v", icons)
	}

	var data WindowData
	mustOK(t, srv.handleCommand(request(t, CommandOpenIcon, IconPayload{ID: icon.ID})), &data)
	if data.Active != "folder-"+icon.ID {
		t.Fatalf("expected folder window active, got %q", data.Active)
	}

	mustOK(t, srv.handleCommand(request(t, CommandMenuAction, MenuActionPayload{Action: "zoom"})), &data)
	if data.Window == nil || data.Window.State != desktop.StateMaximized {
		t.Fatalf("expected zoomed window, got %+v", data.Window)
	}

	var status StatusData
	mustOK(t, srv.handleCommand(request(t, CommandGetStatus, nil)), &status)
	if status.WindowCount != 1 || status.ActiveWindow != "folder-"+icon.ID || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestHandleCommand_Reload(t *testing.T) {
	srv := newTestServer(t)
	calls := 0
	srv.reload = func() error {
		calls++
		if calls > 1 {
			return errors.New("boom")
		}
		return nil
	}
	mustOK(t, srv.handleCommand(request(t, CommandReload, nil)), nil)
	resp := srv.handleCommand(request(t, CommandReload, nil))
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "boom") {
		t.Fatalf("expected reload error, got %+v", resp)
	}
}

func TestServer_RealSocketRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	client := NewClient()
	if client.socketPath != srv.SocketPath() {
		t.Fatalf("client socket %q, server socket %q", client.socketPath, srv.SocketPath())
	}
	if err := client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	data, err := client.OpenWindow(desktop.WindowSpec{ID: "resume", Title: "Resume", Content: desktop.ResumeContent{}})
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	if data.Window == nil || data.Window.Kind() != desktop.KindResume {
		t.Fatalf("unexpected open result %+v", data)
	}

	if _, err := client.UpdatePosition("resume", desktop.Point{X: 1.5, Y: 2.5}); err != nil {
		t.Fatalf("UpdatePosition: %v", err)
	}
	list, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(list.Windows) != 1 || list.Windows[0].Position != (desktop.Point{X: 1.5, Y: 2.5}) {
		t.Fatalf("unexpected windows %+v", list.Windows)
	}

	if _, err := client.LaunchApp("trash"); err == nil || !strings.Contains(err.Error(), "daemon error") {
		t.Fatalf("expected daemon error, got %v", err)
	}

	if _, err := client.CloseWindow("resume"); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.WindowCount != 0 {
		t.Fatalf("expected no windows, got %d", status.WindowCount)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientWithSocket(t.TempDir() + "/missing.sock")
	err := client.Ping()
	if err == nil || !strings.Contains(err.Error(), "is the daemon running?") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestLocalClient(t *testing.T) {
	wm := desktop.NewManager(desktop.DefaultOptions())
	client := NewLocalClient(shell.New(wm, nil, nil))
	if !client.Local() {
		t.Fatalf("expected local client")
	}

	data, err := client.LaunchApp("about")
	if err != nil {
		t.Fatalf("LaunchApp: %v", err)
	}
	if data.Window == nil || data.Window.Kind() != desktop.KindMarkdown {
		t.Fatalf("unexpected launch result %+v", data)
	}
	if _, ok := wm.Window("about"); !ok {
		t.Fatalf("expected window in the shared manager")
	}

	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "reload is not supported") {
		t.Fatalf("expected reload to be unsupported, got %v", err)
	}
	if _, err := client.MenuAction("dance"); err == nil || !strings.Contains(err.Error(), "daemon error") {
		t.Fatalf("expected menu error, got %v", err)
	}
}
