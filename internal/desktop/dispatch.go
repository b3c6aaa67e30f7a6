package desktop

import (
	"errors"
	"fmt"
)

// ErrNoRenderer is returned by Dispatch.Render when no renderer is registered
// for a window's content kind.
var ErrNoRenderer = errors.New("no renderer for content kind")

// Renderer produces the body of a window.
type Renderer func(w Window) (string, error)

// Dispatch maps each content kind to the renderer that mounts it.
type Dispatch map[Kind]Renderer

// Render looks up the renderer for w's content kind and runs it.
func (d Dispatch) Render(w Window) (string, error) {
	if w.Content == nil {
		return "", fmt.Errorf("window %q: %w: <nil>", w.ID, ErrNoRenderer)
	}
	r, ok := d[w.Content.Kind()]
	if !ok || r == nil {
		return "", fmt.Errorf("window %q: %w: %s", w.ID, ErrNoRenderer, w.Content.Kind())
	}
	return r(w)
}

// Missing returns the known kinds without a renderer.
func (d Dispatch) Missing() []Kind {
	var out []Kind
	for _, k := range Kinds() {
		if r, ok := d[k]; !ok || r == nil {
			out = append(out, k)
		}
	}
	return out
}
