package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/folio/internal/config"
	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

// startDaemon serves a fresh desktop on a temporary socket.
func startDaemon(t *testing.T) *desktop.Manager {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("FOLIO_SOCKET", "")

	wm := desktop.NewManager(desktop.DefaultOptions())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := ipc.NewServer(shell.New(wm, nil, nil), func() error { return nil }, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return wm
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{"unknown command", "bogus", nil},
		{"open without id", "open", []string{"--kind", "finder"}},
		{"open without kind", "open", []string{"x"}},
		{"open with only x", "open", []string{"--kind", "resume", "--x", "10", "x"}},
		{"open props without json", "open", []string{"--kind", "file", "--props", "{", "x"}},
		{"close without id", "close", nil},
		{"move bad number", "move", []string{"a", "one", "2"}},
		{"resize zero", "resize", []string{"a", "0", "10"}},
		{"title missing", "title", []string{"a"}},
		{"navigate props without kind", "navigate", []string{"--props", "{}", "a"}},
		{"viewport arity", "viewport", []string{"100"}},
		{"icons no subcommand", "icons", nil},
		{"mcp no subcommand", "mcp", nil},
		{"config no subcommand", "config", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := run(tt.cmd, tt.args); rc != 2 {
				t.Fatalf("expected rc=2, got %d", rc)
			}
		})
	}
}

func TestRun_NoDaemon(t *testing.T) {
	t.Setenv("FOLIO_SOCKET", filepath.Join(t.TempDir(), "missing.sock"))
	if rc := run("status", nil); rc != 1 {
		t.Fatalf("expected rc=1 without a daemon, got %d", rc)
	}
}

func TestRun_WindowCommands(t *testing.T) {
	wm := startDaemon(t)

	if rc := run("open", []string{"--kind", "markdown", "--props", `{"body":"hi"}`, "--title", "Notes", "--x", "10", "--y", "20", "notes"}); rc != 0 {
		t.Fatalf("open rc=%d, want 0", rc)
	}
	w, ok := wm.Window("notes")
	if !ok {
		t.Fatalf("expected notes window")
	}
	if w.Position != (desktop.Point{X: 10, Y: 20}) || w.Size != desktop.DefaultOptions().DefaultSize {
		t.Fatalf("unexpected geometry %+v %+v", w.Position, w.Size)
	}

	steps := []struct {
		cmd  string
		args []string
	}{
		{"move", []string{"notes", "30", "40"}},
		{"resize", []string{"notes", "300", "200"}},
		{"title", []string{"notes", "My", "Notes"}},
		{"maximize", []string{"notes"}},
	}
	for _, s := range steps {
		if rc := run(s.cmd, s.args); rc != 0 {
			t.Fatalf("%s rc=%d, want 0", s.cmd, rc)
		}
	}
	w, _ = wm.Window("notes")
	if w.Title != "My Notes" || w.State != desktop.StateMaximized {
		t.Fatalf("unexpected window %+v", w)
	}
	if w.SavedGeometry == nil || *w.SavedGeometry != (desktop.Rect{Position: desktop.Point{X: 30, Y: 40}, Size: desktop.Size{Width: 300, Height: 200}}) {
		t.Fatalf("unexpected saved geometry %+v", w.SavedGeometry)
	}

	if rc := run("zoom", []string{"notes"}); rc != 0 {
		t.Fatalf("zoom rc=%d, want 0", rc)
	}
	if w, _ = wm.Window("notes"); w.State != desktop.StateNormal {
		t.Fatalf("expected normal after zoom, got %s", w.State)
	}

	if rc := run("minimize", []string{"ghost"}); rc != 1 {
		t.Fatalf("minimize of missing window rc=%d, want 1", rc)
	}
	if rc := run("list", []string{"--json"}); rc != 0 {
		t.Fatalf("list rc=%d, want 0", rc)
	}
	if rc := run("close", []string{"notes"}); rc != 0 {
		t.Fatalf("close rc=%d, want 0", rc)
	}
	if _, ok := wm.Window("notes"); ok {
		t.Fatalf("expected notes closed")
	}
}

func TestRun_ShellCommands(t *testing.T) {
	wm := startDaemon(t)

	if rc := run("launch", []string{"projects"}); rc != 0 {
		t.Fatalf("launch rc=%d, want 0", rc)
	}
	if active, ok := wm.ActiveWindow(); !ok || active.ID != "projects" {
		t.Fatalf("expected projects active, got %+v", active)
	}
	if rc := run("launch", []string{"nope"}); rc != 1 {
		t.Fatalf("launch unknown rc=%d, want 1", rc)
	}
	if rc := run("menu", []string{"minimize"}); rc != 0 {
		t.Fatalf("menu rc=%d, want 0", rc)
	}
	if w, _ := wm.Window("projects"); w.State != desktop.StateMinimized {
		t.Fatalf("expected projects minimized, got %s", w.State)
	}
	if rc := run("apps", nil); rc != 0 {
		t.Fatalf("apps rc=%d, want 0", rc)
	}
	if rc := run("icons", []string{"list"}); rc != 0 {
		t.Fatalf("icons list rc=%d, want 0", rc)
	}
}

func TestRun_Navigation(t *testing.T) {
	wm := startDaemon(t)

	if rc := run("open", []string{"--kind", "finder", "--props", `{"folder_id":"root"}`, "finder"}); rc != 0 {
		t.Fatalf("open rc=%d, want 0", rc)
	}
	if rc := run("navigate", []string{"--title", "Docs", "--kind", "finder", "--props", `{"folder_id":"docs"}`, "finder"}); rc != 0 {
		t.Fatalf("navigate rc=%d, want 0", rc)
	}
	if rc := run("back", []string{"finder"}); rc != 0 {
		t.Fatalf("back rc=%d, want 0", rc)
	}
	w, _ := wm.Window("finder")
	if c, ok := w.Content.(desktop.FinderContent); !ok || c.FolderID != "root" {
		t.Fatalf("expected root after back, got %+v", w.Content)
	}
	if !w.History.CanForward() {
		t.Fatalf("expected forward history")
	}
	if rc := run("history", []string{"finder"}); rc != 0 {
		t.Fatalf("history rc=%d, want 0", rc)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("viewport:\n  width: 1000\n  height: 700\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if rc := run("config", []string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d, want 0", rc)
	}
	if rc := run("config", []string{"explain", "--path", path, "viewport.width"}); rc != 0 {
		t.Fatalf("explain rc=%d, want 0", rc)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("history_limit: -1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if rc := run("config", []string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: "env"}, "env"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseContent(t *testing.T) {
	c, err := parseContent("", "")
	if err != nil || c != nil {
		t.Fatalf("expected no content, got %v %v", c, err)
	}
	c, err = parseContent("folder", `{"folder_id":"docs"}`)
	if err != nil {
		t.Fatalf("parseContent: %v", err)
	}
	if f, ok := c.(desktop.FolderContent); !ok || f.FolderID != "docs" {
		t.Fatalf("expected folder docs, got %+v", c)
	}
	if _, err := parseContent("nope", ""); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
