package shell

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/folio/internal/desktop"
)

// ErrUnknownApp is returned when launching an app that is not in the catalog.
var ErrUnknownApp = errors.New("unknown app")

// App is a launchable catalog entry. Launching opens a window whose id is the
// app id, so launching twice surfaces the same window.
type App struct {
	ID       string
	Title    string
	Dock     bool
	Content  desktop.Content
	Position *desktop.Point
	Size     *desktop.Size
}

// Spec returns the window spec the app opens.
func (a App) Spec() desktop.WindowSpec {
	return desktop.WindowSpec{
		ID:       a.ID,
		Title:    a.Title,
		Content:  a.Content,
		Position: a.Position,
		Size:     a.Size,
	}
}

// DockItem is one dock entry with its live window state.
type DockItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Open   bool   `json:"open"`
	Active bool   `json:"active"`
}

// DefaultApps returns the stock portfolio catalog.
func DefaultApps() []App {
	return []App{
		{
			ID:      "finder",
			Title:   "Finder",
			Dock:    true,
			Content: desktop.FinderContent{FolderID: "root"},
		},
		{
			ID:       "about-me",
			Title:    "About Me",
			Dock:     true,
			Content:  desktop.MarkdownContent{FilePath: "/content/about-me.md", ShowTitle: true},
			Position: &desktop.Point{X: 100, Y: 100},
			Size:     &desktop.Size{Width: 700, Height: 500},
		},
		{
			ID:       "projects",
			Title:    "Projects",
			Dock:     true,
			Content:  desktop.ProjectsContent{ListPath: "/content/projects/index.json", ShowTitle: true},
			Position: &desktop.Point{X: 150, Y: 80},
			Size:     &desktop.Size{Width: 800, Height: 600},
		},
		{
			ID:       "blog",
			Title:    "Blog",
			Dock:     true,
			Content:  desktop.BlogContent{ListPath: "/content/blog/index.json", ShowTitle: true},
			Position: &desktop.Point{X: 200, Y: 120},
			Size:     &desktop.Size{Width: 800, Height: 600},
		},
		{
			ID:      "resume",
			Title:   "Resume",
			Dock:    true,
			Content: desktop.ResumeContent{},
		},
		{
			ID:    "about",
			Title: "About This Portfolio",
			Content: desktop.MarkdownContent{
				Body: "# About This Portfolio\n\nA desktop-style portfolio. Open the apps in the dock to look around.",
			},
			Position: &desktop.Point{X: 100, Y: 100},
			Size:     &desktop.Size{Width: 500, Height: 400},
		},
	}
}

// Shell ties the app catalog, the top menu and the desktop icons to a window
// manager.
type Shell struct {
	wm    *desktop.Manager
	icons *IconGrid

	mu   sync.RWMutex
	apps []App
}

// New creates a shell over wm. A nil apps slice installs DefaultApps.
func New(wm *desktop.Manager, apps []App, icons *IconGrid) *Shell {
	if apps == nil {
		apps = DefaultApps()
	}
	if icons == nil {
		icons = NewIconGrid(DefaultCellSize(), wm.Viewport().Height)
	}
	s := &Shell{wm: wm, icons: icons}
	s.SetApps(apps)
	return s
}

// Manager returns the window manager the shell drives.
func (s *Shell) Manager() *desktop.Manager { return s.wm }

// Icons returns the desktop icon grid.
func (s *Shell) Icons() *IconGrid { return s.icons }

// SetApps replaces the catalog. Open windows are not touched.
func (s *Shell) SetApps(apps []App) {
	cp := make([]App, len(apps))
	copy(cp, apps)
	s.mu.Lock()
	s.apps = cp
	s.mu.Unlock()
}

// Apps returns the catalog in order.
func (s *Shell) Apps() []App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]App, len(s.apps))
	copy(out, s.apps)
	return out
}

// App looks up a catalog entry by id.
func (s *Shell) App(id string) (App, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

// Launch opens the app's window, or surfaces it when already open.
func (s *Shell) Launch(id string) error {
	app, ok := s.App(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownApp, id)
	}
	s.wm.Open(app.Spec())
	return nil
}

// DockItems lists the dock apps with their open/active flags.
func (s *Shell) DockItems() []DockItem {
	active, hasActive := s.wm.ActiveWindow()
	var items []DockItem
	for _, a := range s.Apps() {
		if !a.Dock {
			continue
		}
		_, open := s.wm.Window(a.ID)
		items = append(items, DockItem{
			ID:     a.ID,
			Title:  a.Title,
			Open:   open,
			Active: hasActive && active.ID == a.ID,
		})
	}
	return items
}
