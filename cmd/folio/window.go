package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
)

func printWindow(w *desktop.Window, active string) {
	marker := " "
	if w.ID == active {
		marker = "*"
	}
	fmt.Printf("%s %s  %s  %s  %g,%g %gx%g  z=%d  %q\n",
		marker, w.ID, w.Kind(), w.State,
		w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height,
		w.ZIndex, w.Title)
}

// reportWindow prints the result of a single-window command.
func reportWindow(id string, data *ipc.WindowData, err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if data.Window == nil {
		fmt.Fprintf(os.Stderr, "window %q is not open\n", id)
		return 1
	}
	printWindow(data.Window, data.Active)
	return 0
}

func runWindowCommand(cmd string, args []string) int {
	fs := newFlagSet(cmd, cmd+" <id>", windowCommandHelp[cmd])
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one window id\n", cmd)
		fs.Usage()
		return 2
	}
	id := fs.Arg(0)

	client := ipc.NewClient()
	var fn func(string) (*ipc.WindowData, error)
	switch cmd {
	case "close":
		data, err := client.CloseWindow(id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("closed %s (active: %s)\n", id, data.Active)
		return 0
	case "minimize":
		fn = client.MinimizeWindow
	case "maximize":
		fn = client.MaximizeWindow
	case "restore":
		fn = client.RestoreWindow
	case "zoom":
		fn = client.ToggleMaximize
	case "front":
		fn = client.BringToFront
	case "back":
		fn = client.NavigateBack
	case "forward":
		fn = client.NavigateForward
	}
	data, err := fn(id)
	return reportWindow(id, data, err)
}

var windowCommandHelp = map[string]string{
	"close":    "Close a window. The next window by stacking order becomes active.",
	"minimize": "Minimize a window, remembering its geometry.",
	"maximize": "Maximize a window to fill the viewport.",
	"restore":  "Restore a minimized or maximized window to its saved geometry.",
	"zoom":     "Toggle a window between maximized and normal.",
	"front":    "Bring a window to the front of the stacking order.",
	"back":     "Navigate a window to the previous entry in its history.",
	"forward":  "Navigate a window to the next entry in its history.",
}

func parseContent(kind, props string) (desktop.Content, error) {
	if kind == "" {
		if props != "" {
			return nil, fmt.Errorf("--props requires --kind")
		}
		return nil, nil
	}
	var raw json.RawMessage
	if props != "" {
		if !json.Valid([]byte(props)) {
			return nil, fmt.Errorf("--props is not valid JSON")
		}
		raw = json.RawMessage(props)
	}
	return desktop.NewContent(desktop.Kind(kind), raw)
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "open [flags] <id>", "Open a window, or surface it when already open.")
	title := fs.String("title", "", "Window title")
	kind := fs.String("kind", "", "Content kind ("+kindList()+")")
	props := fs.String("props", "", "Content properties as a JSON object")
	x := fs.Float64("x", 0, "Left edge")
	y := fs.Float64("y", 0, "Top edge")
	width := fs.Float64("width", 0, "Width (default from config)")
	height := fs.Float64("height", 0, "Height (default from config)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires exactly one window id")
		fs.Usage()
		return 2
	}
	if *kind == "" {
		fmt.Fprintln(os.Stderr, "open requires --kind")
		return 2
	}

	content, err := parseContent(*kind, *props)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	spec := desktop.WindowSpec{ID: fs.Arg(0), Title: *title, Content: content}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["x"] != set["y"] {
		fmt.Fprintln(os.Stderr, "--x and --y must be given together")
		return 2
	}
	if set["x"] {
		spec.Position = &desktop.Point{X: *x, Y: *y}
	}
	if set["width"] || set["height"] {
		if *width <= 0 || *height <= 0 {
			fmt.Fprintln(os.Stderr, "--width and --height must both be positive")
			return 2
		}
		spec.Size = &desktop.Size{Width: *width, Height: *height}
	}

	data, err := ipc.NewClient().OpenWindow(spec)
	return reportWindow(spec.ID, data, err)
}

// parsePair parses two float arguments.
func parsePair(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", a)
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", b)
	}
	return x, y, nil
}

func runMove(args []string) int {
	fs := newFlagSet("move", "move <id> <x> <y>", "Move a window. Maximized and minimized windows move their saved geometry.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	x, y, err := parsePair(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	data, err := ipc.NewClient().UpdatePosition(fs.Arg(0), desktop.Point{X: x, Y: y})
	return reportWindow(fs.Arg(0), data, err)
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "resize <id> <width> <height>", "Resize a window.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	w, h, err := parsePair(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if w <= 0 || h <= 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive")
		return 2
	}
	data, err := ipc.NewClient().UpdateSize(fs.Arg(0), desktop.Size{Width: w, Height: h})
	return reportWindow(fs.Arg(0), data, err)
}

func runTitle(args []string) int {
	fs := newFlagSet("title", "title <id> <title...>", "Retitle a window.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return 2
	}
	title := strings.Join(fs.Args()[1:], " ")
	data, err := ipc.NewClient().UpdateTitle(fs.Arg(0), title)
	return reportWindow(fs.Arg(0), data, err)
}

func runNavigate(args []string) int {
	fs := newFlagSet("navigate", "navigate [--title T] [--kind K [--props JSON]] <id>",
		"Push a new view onto a window's history. Omitted fields keep the current value.")
	title := fs.String("title", "", "New title")
	kind := fs.String("kind", "", "New content kind")
	props := fs.String("props", "", "Content properties as a JSON object")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	content, err := parseContent(*kind, *props)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	data, err := ipc.NewClient().NavigateTo(fs.Arg(0), desktop.Snapshot{Title: *title, Content: content})
	return reportWindow(fs.Arg(0), data, err)
}

func runHistory(args []string) int {
	fs := newFlagSet("history", "history [--json] <id>", "Show a window's navigation history.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	nav, err := ipc.NewClient().GetNavigation(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(nav)
	}
	if len(nav.History.Entries) == 0 {
		fmt.Printf("%s has no history\n", fs.Arg(0))
		return 0
	}
	for i, s := range nav.History.Entries {
		marker := " "
		if i == nav.History.Cursor {
			marker = ">"
		}
		kind := ""
		if s.Content != nil {
			kind = string(s.Content.Kind())
		}
		fmt.Printf("%s %d  %s  %q\n", marker, i, kind, s.Title)
	}
	return 0
}

func runList(args []string) int {
	fs := newFlagSet("list", "list [--json]", "List open windows, back to front.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}
	data, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	if len(data.Windows) == 0 {
		fmt.Println("no open windows")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tKIND\tSTATE\tGEOMETRY\tZ\tTITLE")
	for _, w := range data.Windows {
		marker := ""
		if w.ID == data.Active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g,%g %gx%g\t%d\t%s\n",
			marker, w.ID, w.Kind(), w.State,
			w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height,
			w.ZIndex, w.Title)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runViewport(args []string) int {
	fs := newFlagSet("viewport", "viewport <width> <height>", "Set the desktop viewport. Maximized windows follow it.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	w, h, err := parsePair(fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if w <= 0 || h <= 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive")
		return 2
	}
	data, err := ipc.NewClient().SetViewport(desktop.Size{Width: w, Height: h})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("viewport: %gx%g\n", data.Viewport.Width, data.Viewport.Height)
	return 0
}

func kindList() string {
	kinds := desktop.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
