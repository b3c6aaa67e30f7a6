package tui

import (
	"strings"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/shell"
)

type frameRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightFrame = frameRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyFrame = frameRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// renderDesktop draws the visible windows scaled into a width x height
// character canvas, back to front, with desktop icons underneath.
func renderDesktop(windows []desktop.Window, icons []shell.Icon, viewport desktop.Size, active string, width, height int) []string {
	if width < 5 || height < 3 || viewport.Width <= 0 || viewport.Height <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Inner area excludes the outer border.
	innerW, innerH := width-2, height-2
	scaleX := float64(innerW) / viewport.Width
	scaleY := float64(innerH) / viewport.Height

	for _, ic := range icons {
		x := 1 + int(float64(ic.Cell.Col)*shell.DefaultCellWidth*scaleX)
		y := 1 + int(float64(ic.Cell.Row)*shell.DefaultCellHeight*scaleY)
		drawLabel(canvas, y, x, width-1, "▪"+ic.Name)
	}

	// windows arrive in ascending z order, so later ones paint over earlier.
	for _, w := range windows {
		if !w.Visible() {
			continue
		}
		x1 := 1 + int(w.Position.X*scaleX)
		y1 := 1 + int(w.Position.Y*scaleY)
		x2 := 1 + int((w.Position.X+w.Size.Width)*scaleX) - 1
		y2 := 1 + int((w.Position.Y+w.Size.Height)*scaleY) - 1
		frame := lightFrame
		if w.ID == active {
			frame = heavyFrame
		}
		drawWindow(canvas, x1, y1, x2, y2, w.Title, frame)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawWindow(canvas [][]rune, x1, y1, x2, y2 int, title string, f frameRunes) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

	// Clamp to the area inside the outer border.
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so windows underneath are hidden.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = f.h
		canvas[y2][x] = f.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = f.v
		canvas[y][x2] = f.v
	}
	canvas[y1][x1] = f.tl
	canvas[y1][x2] = f.tr
	canvas[y2][x1] = f.bl
	canvas[y2][x2] = f.br

	if title != "" && x2-x1 > 4 {
		drawLabel(canvas, y1, x1+2, x2-1, " "+title+" ")
	}
}

// drawLabel writes s on row y starting at x, stopping before limit.
func drawLabel(canvas [][]rune, y, x, limit int, s string) {
	if y < 0 || y >= len(canvas) {
		return
	}
	for _, r := range s {
		if x >= limit || x >= len(canvas[y]) {
			return
		}
		canvas[y][x] = r
		x++
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
