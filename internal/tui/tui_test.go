package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	wm := desktop.NewManager(desktop.Options{})
	client := ipc.NewLocalClient(shell.New(wm, nil, nil))
	m := newModel(client)
	return press(m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func press(m model, msg tea.Msg) model {
	next, _ := m.Update(msg)
	return next.(model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func findWindow(m model, id string) (desktop.Window, bool) {
	for _, w := range m.windows {
		if w.ID == id {
			return w, true
		}
	}
	return desktop.Window{}, false
}

func TestModel_LaunchAndCycle(t *testing.T) {
	m := newTestModel(t)
	if len(m.windows) != 0 {
		t.Fatalf("expected empty desktop, got %d windows", len(m.windows))
	}

	m = press(m, runes("1"))
	if m.active != "finder" {
		t.Fatalf("expected finder active, got %q", m.active)
	}
	m = press(m, runes("2"))
	if m.active != "about-me" {
		t.Fatalf("expected about-me active, got %q", m.active)
	}
	if w, ok := m.selected(); !ok || w.ID != "about-me" {
		t.Fatalf("expected selection to follow active window, got %+v", w)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.active != "finder" {
		t.Fatalf("expected tab to raise finder, got %q", m.active)
	}

	// Out of range dock slot is ignored.
	m = press(m, runes("9"))
	if len(m.windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(m.windows))
	}
}

func TestModel_WindowCommands(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("1"))
	m = press(m, runes("2"))

	m = press(m, runes("m"))
	w, _ := findWindow(m, "about-me")
	if w.State != desktop.StateMinimized {
		t.Fatalf("expected about-me minimized, got %s", w.State)
	}
	if m.active != "finder" {
		t.Fatalf("expected finder active after minimize, got %q", m.active)
	}

	// Select the minimized window and press enter to restore it.
	for i, item := range m.list.Items() {
		if item.(windowItem).w.ID == "about-me" {
			m.list.Select(i)
		}
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	w, _ = findWindow(m, "about-me")
	if w.State != desktop.StateNormal {
		t.Fatalf("expected about-me restored, got %s", w.State)
	}
	if m.active != "about-me" {
		t.Fatalf("expected about-me active, got %q", m.active)
	}

	m = press(m, runes("z"))
	w, _ = findWindow(m, "about-me")
	if w.State != desktop.StateMaximized {
		t.Fatalf("expected about-me maximized, got %s", w.State)
	}
	m = press(m, runes("z"))
	w, _ = findWindow(m, "about-me")
	if w.State != desktop.StateNormal {
		t.Fatalf("expected about-me back to normal, got %s", w.State)
	}

	m = press(m, runes("w"))
	if _, ok := findWindow(m, "about-me"); ok {
		t.Fatalf("expected about-me closed")
	}
	if m.err != "" {
		t.Fatalf("unexpected error: %s", m.err)
	}
}

func TestModel_RenameCancel(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("1"))

	m = press(m, runes("t"))
	if !m.renaming || m.form == nil {
		t.Fatalf("expected rename form to open")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.renaming {
		t.Fatalf("expected esc to cancel rename")
	}
	w, _ := findWindow(m, "finder")
	if w.Title != "Finder" {
		t.Fatalf("expected title unchanged, got %q", w.Title)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("?"))
	if !m.help.ShowAll {
		t.Fatalf("expected full help")
	}
	m = press(m, runes("?"))
	if m.help.ShowAll {
		t.Fatalf("expected short help")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m = press(m, runes("1"))

	view := m.View()
	for _, want := range []string{"folio", "Finder", "offline", "Browsing root"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}

func TestRenderDesktop(t *testing.T) {
	viewport := desktop.Size{Width: 100, Height: 100}
	windows := []desktop.Window{
		{
			ID:       "a",
			Title:    "A",
			Position: desktop.Point{X: 0, Y: 0},
			Size:     desktop.Size{Width: 50, Height: 50},
			State:    desktop.StateNormal,
		},
	}

	lines := renderDesktop(windows, nil, viewport, "a", 22, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	row := []rune(lines[1])
	if row[0] != '║' || row[1] != '┏' || row[10] != '┓' {
		t.Fatalf("expected heavy frame for active window, got %q", lines[1])
	}

	lines = renderDesktop(windows, nil, viewport, "", 22, 12)
	if row := []rune(lines[1]); row[1] != '┌' {
		t.Fatalf("expected light frame for inactive window, got %q", lines[1])
	}

	windows[0].State = desktop.StateMinimized
	lines = renderDesktop(windows, nil, viewport, "", 22, 12)
	if row := []rune(lines[1]); row[1] != ' ' {
		t.Fatalf("expected minimized window hidden, got %q", lines[1])
	}
}

func TestRenderDesktop_TooSmall(t *testing.T) {
	lines := renderDesktop(nil, nil, desktop.Size{Width: 100, Height: 100}, "", 3, 2)
	if len(lines) != 2 || lines[0] != "   " {
		t.Fatalf("expected blank canvas, got %q", lines)
	}
}

func TestContentRenderers(t *testing.T) {
	d := contentRenderers()
	if missing := d.Missing(); len(missing) != 0 {
		t.Fatalf("expected every kind covered, missing %v", missing)
	}

	out, err := d.Render(desktop.Window{
		Title:   "Notes",
		Content: desktop.MarkdownContent{Body: "hello", ShowTitle: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# Notes\n\nhello" {
		t.Fatalf("expected titled markdown, got %q", out)
	}
}

func TestConnect_FallsBackOffline(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("FOLIO_SOCKET", filepath.Join(tmpDir, "missing.sock"))

	tui := New(filepath.Join(tmpDir, "config.yaml"))
	client, err := tui.connect()
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !client.Local() {
		t.Fatalf("expected offline client")
	}
	apps, err := client.ListApps()
	if err != nil {
		t.Fatalf("ListApps: %v", err)
	}
	if len(apps.Dock) == 0 {
		t.Fatalf("expected default dock apps")
	}
}
