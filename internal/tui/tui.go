package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/folio/internal/config"
	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

// TUI is the interactive desktop browser.
type TUI struct {
	configPath string
	socketPath string
}

// New creates a new TUI. An empty configPath uses the default config.
func New(configPath string) *TUI {
	return &TUI{configPath: configPath}
}

// Run starts the TUI main loop.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	client, err := t.connect()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// connect drives the daemon when one is running, otherwise an in-process
// desktop built from the config.
func (t *TUI) connect() (*ipc.Client, error) {
	client := ipc.NewClient()
	if t.socketPath != "" {
		client = ipc.NewClientWithSocket(t.socketPath)
	}
	if err := client.Ping(); err == nil {
		return client, nil
	}

	var res *config.LoadResult
	var err error
	if t.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(t.configPath)
	}
	if err != nil {
		return nil, err
	}
	apps, err := res.Config.CatalogApps()
	if err != nil {
		return nil, err
	}
	wm := desktop.NewManager(res.Config.DesktopOptions())
	return ipc.NewLocalClient(shell.New(wm, apps, res.Config.NewIconGrid())), nil
}
