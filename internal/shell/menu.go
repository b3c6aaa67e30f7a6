package shell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned for a menu action the shell does not know.
var ErrUnknownAction = errors.New("unknown menu action")

const (
	ActionClose    = "close"
	ActionMinimize = "minimize"
	ActionZoom     = "zoom"
	// ActionOpenPrefix prefixes app shortcuts, e.g. "open:blog".
	ActionOpenPrefix = "open:"
)

// MenuItem is one entry of a top-menu section.
type MenuItem struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// MenuSection is a titled group of menu items.
type MenuSection struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// Menu returns the top menu.
func (s *Shell) Menu() []MenuSection {
	var sections []MenuItem
	for _, id := range []string{"about-me", "projects", "blog"} {
		if app, ok := s.App(id); ok {
			sections = append(sections, MenuItem{Label: app.Title, Action: ActionOpenPrefix + id})
		}
	}
	return []MenuSection{
		{Title: "File", Items: []MenuItem{{Label: "Close", Action: ActionClose}}},
		{Title: "View", Items: sections},
		{Title: "Window", Items: []MenuItem{
			{Label: "Minimize", Action: ActionMinimize},
			{Label: "Zoom", Action: ActionZoom},
		}},
	}
}

// MenuAction runs a top-menu action. Window actions apply to the active
// window and do nothing when there is none.
func (s *Shell) MenuAction(action string) error {
	if id, ok := strings.CutPrefix(action, ActionOpenPrefix); ok {
		return s.Launch(id)
	}

	var apply func(id string)
	switch action {
	case ActionClose:
		apply = s.wm.Close
	case ActionMinimize:
		apply = s.wm.Minimize
	case ActionZoom:
		apply = s.wm.ToggleMaximize
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	active, ok := s.wm.ActiveWindow()
	if !ok {
		return nil
	}
	apply(active.ID)
	return nil
}
