package main

import (
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/folio/internal/ipc"
)

func runLaunch(args []string) int {
	fs := newFlagSet("launch", "launch <app>", "Open a catalog app, or surface it when already open.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	data, err := ipc.NewClient().LaunchApp(fs.Arg(0))
	return reportWindow(fs.Arg(0), data, err)
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "apps [--json]", "List catalog apps and the dock.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	data, err := ipc.NewClient().ListApps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}

	fmt.Println("Apps:")
	for _, a := range data.Apps {
		dock := ""
		if a.Dock {
			dock = " (dock)"
		}
		fmt.Printf("  %-12s %-10s %s%s\n", a.ID, a.Kind, a.Title, dock)
	}
	fmt.Println("")
	fmt.Println("Dock:")
	for _, d := range data.Dock {
		state := ""
		switch {
		case d.Active:
			state = " [active]"
		case d.Open:
			state = " [open]"
		}
		fmt.Printf("  %s%s\n", d.Title, state)
	}
	return 0
}

func printMenu(w io.Writer, data *ipc.AppsData) {
	for _, section := range data.Menu {
		fmt.Fprintf(w, "%s\n", section.Title)
		for _, item := range section.Items {
			fmt.Fprintf(w, "  %-20s %s\n", item.Action, item.Label)
		}
	}
}

func runMenu(args []string) int {
	fs := newFlagSet("menu", "menu [action]", "Show the top menu, or run one of its actions against the active window.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	client := ipc.NewClient()
	switch fs.NArg() {
	case 0:
		data, err := client.ListApps()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printMenu(os.Stdout, data)
		return 0
	case 1:
		data, err := client.MenuAction(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if data.Window == nil {
			fmt.Printf("%s: done (active: %s)\n", fs.Arg(0), data.Active)
			return 0
		}
		printWindow(data.Window, data.Active)
		return 0
	default:
		fs.Usage()
		return 2
	}
}

func printIconsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio icons <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list [--json]    List desktop icons")
	fmt.Fprintln(w, "  open <id>        Open the folder or file behind an icon")
}

func runIcons(args []string) int {
	if len(args) == 0 {
		printIconsUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		fs := newFlagSet("icons list", "icons list [--json]", "List desktop icons.")
		asJSON := fs.Bool("json", false, "Print JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		data, err := ipc.NewClient().ListIcons()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *asJSON {
			return printJSON(data)
		}
		if len(data.Icons) == 0 {
			fmt.Println("no desktop icons")
			return 0
		}
		for _, ic := range data.Icons {
			fmt.Printf("  %-16s %-7s col=%d row=%d  %s\n", ic.ID, ic.Type, ic.Cell.Col, ic.Cell.Row, ic.Name)
		}
		return 0

	case "open":
		fs := newFlagSet("icons open", "icons open <id>", "Open the folder or file behind a desktop icon.")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fs.Usage()
			return 2
		}
		data, err := ipc.NewClient().OpenIcon(fs.Arg(0))
		return reportWindow(fs.Arg(0), data, err)

	case "help", "-h", "--help":
		printIconsUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown icons command: %s\n\n", args[0])
		printIconsUsage(os.Stderr)
		return 2
	}
}
