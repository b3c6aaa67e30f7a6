package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/folio/internal/actionlog"
	"github.com/1broseidon/folio/internal/config"
	"github.com/1broseidon/folio/internal/desktop"
	"github.com/1broseidon/folio/internal/ipc"
	"github.com/1broseidon/folio/internal/shell"
)

// Options configures a Daemon.
type Options struct {
	// ConfigPath is the config file to load. Empty means the default path.
	ConfigPath string
	// Watch reloads the config whenever the file changes.
	Watch bool
	Logger *slog.Logger
}

// Daemon owns the window manager and serves it over IPC.
type Daemon struct {
	path    string
	watch   bool
	logger  *slog.Logger
	wm      *desktop.Manager
	shell   *shell.Shell
	actions *actionlog.Logger

	mu  sync.Mutex
	cfg *config.Config
}

// New loads the configuration and builds the desktop it describes.
func New(opts Options) (*Daemon, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config

	apps, err := cfg.CatalogApps()
	if err != nil {
		return nil, err
	}

	wm := desktop.NewManager(cfg.DesktopOptions())
	d := &Daemon{
		path:   path,
		watch:  opts.Watch,
		logger: logger,
		wm:     wm,
		shell:  shell.New(wm, apps, cfg.NewIconGrid()),
		cfg:    cfg,
	}

	logCfg := cfg.GetLoggingConfig()
	actions, err := actionlog.NewLogger(actionlog.LogConfig{
		Enabled:   logCfg.Enabled,
		Level:     actionlog.ParseLogLevel(cfg.LogLevel),
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
	if err != nil {
		logger.Warn("action log disabled", "error", err)
		actions, _ = actionlog.NewLogger(actionlog.LogConfig{})
	}
	d.actions = actions

	logger.Info("configuration loaded",
		"path", path,
		"apps", len(apps),
		"viewport", fmt.Sprintf("%gx%g", cfg.Viewport.Width, cfg.Viewport.Height))
	return d, nil
}

// Shell returns the desktop shell.
func (d *Daemon) Shell() *shell.Shell { return d.shell }

// Config returns the configuration currently in effect.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Reload re-reads the config file and applies it. On error the previous
// configuration stays in effect.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.path)
	if err != nil {
		return err
	}
	return d.apply(res.Config)
}

func (d *Daemon) apply(cfg *config.Config) error {
	apps, err := cfg.CatalogApps()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	d.wm.Configure(cfg.DesktopOptions())
	d.shell.SetApps(apps)
	d.shell.Icons().SetViewportHeight(d.wm.Viewport().Height)
	d.logger.Info("configuration applied", "apps", len(apps))
	return nil
}

// Run serves IPC until ctx is cancelled. SIGHUP reloads the configuration
// and rotates the action log.
func (d *Daemon) Run(ctx context.Context) error {
	server, err := ipc.NewServer(d.shell, d.Reload, d.logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}

	detach := d.actions.Attach(d.wm)
	defer func() {
		detach()
		d.actions.Close()
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		d.logger.Info("shutting down folio daemon")
		server.Stop()
		return nil
	})

	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				d.logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					d.logger.Warn("config reload failed", "error", err)
				}
				if err := d.actions.Rotate(); err != nil {
					d.logger.Warn("action log rotation failed", "error", err)
				}
			}
		}
	})

	if d.watch {
		w := config.NewWatcher(d.path, func(res *config.LoadResult) {
			if err := d.apply(res.Config); err != nil {
				d.logger.Warn("config reload failed", "error", err)
			}
		}, nil, d.logger)
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	d.logger.Info("folio daemon started", "socket", server.SocketPath())
	return g.Wait()
}
