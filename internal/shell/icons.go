package shell

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/folio/internal/desktop"
)

var (
	// ErrUnknownIcon is returned when an icon id is not on the desktop.
	ErrUnknownIcon = errors.New("unknown desktop icon")
	// ErrInvalidCell is returned when moving an icon to a negative cell.
	ErrInvalidCell = errors.New("invalid grid cell")
)

const (
	DefaultCellWidth  = 90
	DefaultCellHeight = 100
)

// DefaultCellSize returns the stock icon cell size.
func DefaultCellSize() desktop.Size {
	return desktop.Size{Width: DefaultCellWidth, Height: DefaultCellHeight}
}

// IconType is either a folder or a file.
type IconType string

const (
	IconFolder IconType = "folder"
	IconFile   IconType = "file"
)

// Cell is a grid coordinate: Col counts from the left edge, Row from the top.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Icon is one item on the desktop.
type Icon struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type IconType `json:"type"`
	// Target is the folder or file the icon opens. Empty means the icon id.
	Target string `json:"target,omitempty"`
	Cell   Cell   `json:"cell"`
}

func (i Icon) target() string {
	if i.Target != "" {
		return i.Target
	}
	return i.ID
}

// IconGrid places desktop icons on a grid of fixed-size cells.
type IconGrid struct {
	mu    sync.RWMutex
	cell  desktop.Size
	rows  int
	icons []Icon
}

// NewIconGrid creates an empty grid. The number of rows per column follows
// from the viewport height.
func NewIconGrid(cell desktop.Size, viewportHeight float64) *IconGrid {
	if cell.Width <= 0 || cell.Height <= 0 {
		cell = DefaultCellSize()
	}
	g := &IconGrid{cell: cell}
	g.rows = rowsFor(cell, viewportHeight)
	return g
}

func rowsFor(cell desktop.Size, viewportHeight float64) int {
	rows := int(viewportHeight / cell.Height)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// SetViewportHeight changes how many rows fit in a column. Existing icons
// keep their cells.
func (g *IconGrid) SetViewportHeight(h float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = rowsFor(g.cell, h)
}

// Add places a new icon in the next free cell and returns it.
func (g *IconGrid) Add(name string, typ IconType, target string) Icon {
	g.mu.Lock()
	defer g.mu.Unlock()
	icon := Icon{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   typ,
		Target: target,
		Cell:   g.nextFreeLocked(),
	}
	g.icons = append(g.icons, icon)
	return icon
}

// NextFreeCell returns the cell Add would use.
func (g *IconGrid) NextFreeCell() Cell {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nextFreeLocked()
}

// nextFreeLocked scans top to bottom, then moves to the next column.
func (g *IconGrid) nextFreeLocked() Cell {
	used := make(map[Cell]bool, len(g.icons))
	for _, ic := range g.icons {
		used[ic.Cell] = true
	}
	for col := 0; ; col++ {
		for row := 0; row < g.rows; row++ {
			c := Cell{Col: col, Row: row}
			if !used[c] {
				return c
			}
		}
	}
}

// Move puts an icon in a cell. Icons may share a cell.
func (g *IconGrid) Move(id string, c Cell) error {
	if c.Col < 0 || c.Row < 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, c.Col, c.Row)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.icons {
		if g.icons[i].ID == id {
			g.icons[i].Cell = c
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownIcon, id)
}

// Get returns one icon.
func (g *IconGrid) Get(id string) (Icon, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, ic := range g.icons {
		if ic.ID == id {
			return ic, true
		}
	}
	return Icon{}, false
}

// List returns the icons in insertion order.
func (g *IconGrid) List() []Icon {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Icon, len(g.icons))
	copy(out, g.icons)
	return out
}

// Bounds returns the pixel rect of a cell.
func (g *IconGrid) Bounds(c Cell) desktop.Rect {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return desktop.Rect{
		Position: desktop.Point{X: float64(c.Col) * g.cell.Width, Y: float64(c.Row) * g.cell.Height},
		Size:     g.cell,
	}
}

// IconWindow returns the window an icon opens: folders get a "folder-<id>"
// folder window, files a "file-<id>" window typed by the name's extension.
func IconWindow(ic Icon) desktop.WindowSpec {
	if ic.Type == IconFolder {
		return desktop.WindowSpec{
			ID:      "folder-" + ic.ID,
			Title:   ic.Name,
			Content: desktop.FolderContent{FolderID: ic.target()},
		}
	}
	ext := strings.TrimPrefix(path.Ext(ic.Name), ".")
	if ext == "" {
		ext = "txt"
	}
	return desktop.WindowSpec{
		ID:      "file-" + ic.ID,
		Title:   ic.Name,
		Content: desktop.FileContent{FileID: ic.target(), FileType: ext},
	}
}

// OpenIcon opens the window for a desktop icon.
func (s *Shell) OpenIcon(id string) error {
	ic, ok := s.icons.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIcon, id)
	}
	s.wm.Open(IconWindow(ic))
	return nil
}
