package actionlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/1broseidon/folio/internal/desktop"
)

// LogLevel defines the logging verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ActionType represents the type of window action being logged.
type ActionType string

const (
	ActionOpen     ActionType = "OPEN"
	ActionClose    ActionType = "CLOSE"
	ActionFocus    ActionType = "FOCUS"
	ActionMinimize ActionType = "MINIMIZE"
	ActionMaximize ActionType = "MAXIMIZE"
	ActionRestore  ActionType = "RESTORE"
	ActionMove     ActionType = "MOVE"
	ActionResize   ActionType = "RESIZE"
	ActionRetitle  ActionType = "RETITLE"
	ActionNavigate ActionType = "NAVIGATE"
	ActionViewport ActionType = "VIEWPORT"
)

var eventActions = map[desktop.EventType]ActionType{
	desktop.EventOpened:    ActionOpen,
	desktop.EventClosed:    ActionClose,
	desktop.EventFocused:   ActionFocus,
	desktop.EventMinimized: ActionMinimize,
	desktop.EventMaximized: ActionMaximize,
	desktop.EventRestored:  ActionRestore,
	desktop.EventMoved:     ActionMove,
	desktop.EventResized:   ActionResize,
	desktop.EventRetitled:  ActionRetitle,
	desktop.EventNavigated: ActionNavigate,
	desktop.EventViewport:  ActionViewport,
}

// actionLevel returns the log level for an action type. Drag-driven actions
// are chatty and only show at debug.
func actionLevel(action ActionType) LogLevel {
	switch action {
	case ActionMove, ActionResize, ActionFocus:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// LogConfig holds configuration for the action logger.
type LogConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Logger writes window actions to a size-rotated file.
type Logger struct {
	mu     sync.Mutex
	out    *lumberjack.Logger
	config LogConfig
	now    func() time.Time
}

// NewLogger creates a new logger with the given configuration. The file is
// opened on the first write.
func NewLogger(cfg LogConfig) (*Logger, error) {
	if !cfg.Enabled {
		return &Logger{config: cfg, now: time.Now}, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	return &Logger{
		out: &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxFiles,
		},
		config: cfg,
		now:    time.Now,
	}, nil
}

// Attach subscribes the logger to m and returns the unsubscribe function.
func (l *Logger) Attach(m *desktop.Manager) func() {
	return m.Subscribe(l.HandleEvent)
}

// HandleEvent records one manager event.
func (l *Logger) HandleEvent(ev desktop.Event) {
	action, ok := eventActions[ev.Type]
	if !ok {
		return
	}
	details := map[string]interface{}{}
	if ev.Type == desktop.EventViewport {
		if len(ev.Windows) > 0 {
			details["windows"] = len(ev.Windows)
		}
		l.Log(action, "", details)
		return
	}
	for _, w := range ev.Windows {
		if w.ID != ev.WindowID {
			continue
		}
		details["title"] = w.Title
		details["kind"] = string(w.Kind())
		details["state"] = w.State.String()
		details["z"] = w.ZIndex
		switch ev.Type {
		case desktop.EventMoved:
			details["x"] = w.Position.X
			details["y"] = w.Position.Y
		case desktop.EventResized:
			details["width"] = w.Size.Width
			details["height"] = w.Size.Height
		case desktop.EventNavigated:
			details["cursor"] = w.History.Cursor
		}
	}
	l.Log(action, ev.WindowID, details)
}

// Log records a window action to the log file.
func (l *Logger) Log(action ActionType, windowID string, details map[string]interface{}) {
	if l == nil || !l.config.Enabled {
		return
	}

	if actionLevel(action) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(action))
	sb.WriteString("]")

	if windowID != "" {
		sb.WriteString(" window=")
		sb.WriteString(windowID)
	}

	if len(details) > 0 {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			switch val := details[k].(type) {
			case string:
				sb.WriteString(fmt.Sprintf(" %s=%q", k, val))
			default:
				sb.WriteString(fmt.Sprintf(" %s=%v", k, val))
			}
		}
	}

	sb.WriteString("\n")

	if _, err := io.WriteString(l.out, sb.String()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
	}
}

// Rotate moves the current file aside to a timestamped backup and starts a
// fresh one.
func (l *Logger) Rotate() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return nil
	}
	return l.out.Rotate()
}

// Close closes the logger and releases resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
