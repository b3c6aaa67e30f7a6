package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/folio/internal/config"
	"github.com/1broseidon/folio/internal/daemon"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/tui"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}
	os.Exit(run(os.Args[1], os.Args[2:]))
}

func run(cmd string, args []string) int {
	switch cmd {
	case "daemon":
		return runDaemon(args)
	case "status":
		return runStatus(args)
	case "open":
		return runOpen(args)
	case "close", "minimize", "maximize", "restore", "zoom", "front", "back", "forward":
		return runWindowCommand(cmd, args)
	case "move":
		return runMove(args)
	case "resize":
		return runResize(args)
	case "title":
		return runTitle(args)
	case "navigate":
		return runNavigate(args)
	case "history":
		return runHistory(args)
	case "list":
		return runList(args)
	case "viewport":
		return runViewport(args)
	case "launch":
		return runLaunch(args)
	case "apps":
		return runApps(args)
	case "menu":
		return runMenu(args)
	case "icons":
		return runIcons(args)
	case "config":
		return runConfig(args)
	case "tui":
		return runTUI(args)
	case "mcp":
		return runMCP(args)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printMainUsage(os.Stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: folio <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the folio desktop daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open                Open a window")
	fmt.Fprintln(w, "  close               Close a window")
	fmt.Fprintln(w, "  minimize            Minimize a window")
	fmt.Fprintln(w, "  maximize            Maximize a window")
	fmt.Fprintln(w, "  restore             Restore a minimized or maximized window")
	fmt.Fprintln(w, "  zoom                Toggle maximize")
	fmt.Fprintln(w, "  front               Bring a window to the front")
	fmt.Fprintln(w, "  move                Move a window")
	fmt.Fprintln(w, "  resize              Resize a window")
	fmt.Fprintln(w, "  title               Retitle a window")
	fmt.Fprintln(w, "  navigate            Navigate a window to new content")
	fmt.Fprintln(w, "  back                Navigate a window back")
	fmt.Fprintln(w, "  forward             Navigate a window forward")
	fmt.Fprintln(w, "  history             Show a window's navigation history")
	fmt.Fprintln(w, "  list                List open windows")
	fmt.Fprintln(w, "  viewport            Set the desktop viewport size")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  launch              Launch a catalog app")
	fmt.Fprintln(w, "  apps                List catalog apps and the dock")
	fmt.Fprintln(w, "  menu                Show the top menu or run a menu action")
	fmt.Fprintln(w, "  icons list          List desktop icons")
	fmt.Fprintln(w, "  icons open          Open a desktop icon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'folio <command> --help' for command-specific options.")
}

// parseFlags parses args and reports the exit code to use when parsing
// stops the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: folio "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fs.PrintDefaults()
		}
	}
	return fs
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "daemon [--config PATH] [--watch]", "Start the folio desktop daemon in the foreground.")
	path := fs.String("config", "", "Config file path (default: ~/.config/folio/config.yaml)")
	watch := fs.Bool("watch", false, "Reload when the config file changes")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	d, err := daemon.New(daemon.Options{ConfigPath: *path, Watch: *watch, Logger: logger})
	if err != nil {
		logger.Error("failed to start daemon", "error", err)
		return 1
	}
	level.Set(d.Config().SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("folio daemon started")
	if err := d.Run(ctx); err != nil {
		logger.Error("daemon stopped", "error", err)
		return 1
	}
	logger.Info("folio daemon stopped")
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status [--json]", "Show daemon status via IPC.")
	asJSON := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("visible_count:  %d\n", status.VisibleCount)
	fmt.Printf("active_window:  %s\n", status.ActiveWindow)
	fmt.Printf("viewport:       %gx%g\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  folio config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  folio config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  folio config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/folio/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/folio/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/folio/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/folio/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: folio tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive desktop. Drives the daemon when it is running,")
		fmt.Fprintln(os.Stderr, "otherwise an offline desktop built from the config.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Select window")
		fmt.Fprintln(os.Stderr, "  1-9       Open dock app")
		fmt.Fprintln(os.Stderr, "  Enter     Focus (restores minimized windows)")
		fmt.Fprintln(os.Stderr, "  Tab       Cycle windows")
		fmt.Fprintln(os.Stderr, "  m/z/r     Minimize, zoom, restore")
		fmt.Fprintln(os.Stderr, "  w         Close")
		fmt.Fprintln(os.Stderr, "  h/l       Navigate back/forward")
		fmt.Fprintln(os.Stderr, "  t         Rename window")
		fmt.Fprintln(os.Stderr, "  R         Reload daemon config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	t := tui.New(*path)
	if err := t.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
