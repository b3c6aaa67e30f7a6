package shell

import (
	"errors"
	"testing"

	"github.com/1broseidon/folio/internal/desktop"
)

func newTestShell() *Shell {
	return New(desktop.NewManager(desktop.DefaultOptions()), nil, nil)
}

func TestLaunch_OpensAppWindowOnce(t *testing.T) {
	s := newTestShell()
	if err := s.Launch("projects"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Launch("projects"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wm := s.Manager()
	if wm.Len() != 1 {
		t.Fatalf("expected 1 window, got %d", wm.Len())
	}
	w, _ := wm.Window("projects")
	if w.Position != (desktop.Point{X: 150, Y: 80}) || w.Kind() != desktop.KindProjects {
		t.Fatalf("unexpected projects window %+v", w)
	}
}

func TestLaunch_UnknownApp(t *testing.T) {
	s := newTestShell()
	err := s.Launch("trash")
	if !errors.Is(err, ErrUnknownApp) {
		t.Fatalf("expected ErrUnknownApp, got %v", err)
	}
}

func TestDockItems_ReportsOpenAndActive(t *testing.T) {
	s := newTestShell()
	_ = s.Launch("finder")
	_ = s.Launch("blog")

	items := s.DockItems()
	byID := make(map[string]DockItem)
	for _, it := range items {
		byID[it.ID] = it
	}
	if _, ok := byID["about"]; ok {
		t.Fatalf("expected non-dock app to be hidden")
	}
	if !byID["finder"].Open || byID["finder"].Active {
		t.Fatalf("expected finder open and inactive, got %+v", byID["finder"])
	}
	if !byID["blog"].Open || !byID["blog"].Active {
		t.Fatalf("expected blog open and active, got %+v", byID["blog"])
	}
	if byID["resume"].Open {
		t.Fatalf("expected resume closed")
	}
}

func TestMenuAction(t *testing.T) {
	s := newTestShell()
	wm := s.Manager()

	// No active window: window actions are no-ops.
	if err := s.MenuAction(ActionClose); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.MenuAction("open:about-me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.MenuAction(ActionZoom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, _ := wm.Window("about-me")
	if w.State != desktop.StateMaximized {
		t.Fatalf("expected zoom to maximize, got %s", w.State)
	}
	_ = s.MenuAction(ActionZoom)
	w, _ = wm.Window("about-me")
	if w.State != desktop.StateNormal {
		t.Fatalf("expected second zoom to restore, got %s", w.State)
	}

	_ = s.MenuAction(ActionMinimize)
	w, _ = wm.Window("about-me")
	if w.State != desktop.StateMinimized {
		t.Fatalf("expected minimized, got %s", w.State)
	}

	_ = s.MenuAction("open:blog")
	_ = s.MenuAction(ActionClose)
	if _, ok := wm.Window("blog"); ok {
		t.Fatalf("expected blog closed")
	}

	if err := s.MenuAction("quit"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	if err := s.MenuAction("open:nope"); !errors.Is(err, ErrUnknownApp) {
		t.Fatalf("expected ErrUnknownApp, got %v", err)
	}
}

func TestMenu_ListsSectionShortcuts(t *testing.T) {
	s := newTestShell()
	var view MenuSection
	for _, sec := range s.Menu() {
		if sec.Title == "View" {
			view = sec
		}
	}
	if len(view.Items) != 3 || view.Items[0].Action != "open:about-me" {
		t.Fatalf("unexpected view section %+v", view)
	}
}

func TestIconGrid_FillsColumnFirst(t *testing.T) {
	// 250px tall viewport fits two 100px rows.
	g := NewIconGrid(DefaultCellSize(), 250)
	a := g.Add("a", IconFolder, "")
	b := g.Add("b", IconFolder, "")
	c := g.Add("c", IconFile, "")

	if a.Cell != (Cell{0, 0}) || b.Cell != (Cell{0, 1}) || c.Cell != (Cell{1, 0}) {
		t.Fatalf("unexpected cells %v %v %v", a.Cell, b.Cell, c.Cell)
	}
	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("expected distinct ids, got %q %q", a.ID, b.ID)
	}

	if err := g.Move(a.ID, Cell{Col: 3, Row: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := g.NextFreeCell(); got != (Cell{0, 0}) {
		t.Fatalf("expected freed cell reused, got %v", got)
	}
	if err := g.Move(a.ID, Cell{Col: -1}); !errors.Is(err, ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if err := g.Move("missing", Cell{}); !errors.Is(err, ErrUnknownIcon) {
		t.Fatalf("expected ErrUnknownIcon, got %v", err)
	}

	r := g.Bounds(Cell{Col: 2, Row: 1})
	if r.Position != (desktop.Point{X: 180, Y: 100}) {
		t.Fatalf("unexpected bounds %+v", r)
	}
}

func TestOpenIcon(t *testing.T) {
	s := newTestShell()
	folder := s.Icons().Add("My Documents", IconFolder, "docs")
	file := s.Icons().Add("notes.md", IconFile, "")
	bare := s.Icons().Add("README", IconFile, "")

	for _, id := range []string{folder.ID, file.ID, bare.ID} {
		if err := s.OpenIcon(id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	wm := s.Manager()
	w, ok := wm.Window("folder-" + folder.ID)
	if !ok || w.Content != (desktop.FolderContent{FolderID: "docs"}) {
		t.Fatalf("unexpected folder window %+v", w)
	}
	w, ok = wm.Window("file-" + file.ID)
	if !ok || w.Content != (desktop.FileContent{FileID: file.ID, FileType: "md"}) {
		t.Fatalf("unexpected file window %+v", w)
	}
	w, _ = wm.Window("file-" + bare.ID)
	if fc := w.Content.(desktop.FileContent); fc.FileType != "txt" {
		t.Fatalf("expected txt fallback, got %q", fc.FileType)
	}

	if err := s.OpenIcon("nope"); !errors.Is(err, ErrUnknownIcon) {
		t.Fatalf("expected ErrUnknownIcon, got %v", err)
	}
}
