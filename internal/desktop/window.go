package desktop

import "encoding/json"

// Window is a read-only snapshot of one open window.
type Window struct {
	ID      string
	Title   string
	Content Content
	// Position and Size are the rendered geometry. For a maximized window
	// this is the full viewport.
	Position Point
	Size     Size
	State    DisplayState
	// SavedGeometry is the pre-maximize geometry. It is set while the window
	// is maximized, or minimized straight out of maximized.
	SavedGeometry *Rect
	ZIndex        int
	History       HistoryView
}

// Kind returns the content kind, or "" when the window has no content.
func (w Window) Kind() Kind {
	if w.Content == nil {
		return ""
	}
	return w.Content.Kind()
}

// Visible reports whether the window is part of the render set.
func (w Window) Visible() bool {
	return w.State != StateMinimized
}

// Rect returns the rendered geometry as a Rect.
func (w Window) Rect() Rect {
	return Rect{Position: w.Position, Size: w.Size}
}

type windowJSON struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Content       ContentJSON  `json:"content"`
	Position      Point        `json:"position"`
	Size          Size         `json:"size"`
	State         string       `json:"state"`
	SavedGeometry *Rect        `json:"saved_geometry,omitempty"`
	ZIndex        int          `json:"z_index"`
	History       *HistoryView `json:"history,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (w Window) MarshalJSON() ([]byte, error) {
	out := windowJSON{
		ID:            w.ID,
		Title:         w.Title,
		Content:       ContentJSON{Content: w.Content},
		Position:      w.Position,
		Size:          w.Size,
		State:         w.State.String(),
		SavedGeometry: w.SavedGeometry,
		ZIndex:        w.ZIndex,
	}
	if w.History.Cursor >= 0 {
		h := w.History
		out.History = &h
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Window) UnmarshalJSON(data []byte) error {
	var in windowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*w = Window{
		ID:            in.ID,
		Title:         in.Title,
		Content:       in.Content.Content,
		Position:      in.Position,
		Size:          in.Size,
		State:         ParseDisplayState(in.State),
		SavedGeometry: in.SavedGeometry,
		ZIndex:        in.ZIndex,
		History:       HistoryView{Cursor: -1},
	}
	if in.History != nil {
		w.History = *in.History
	}
	return nil
}

// ParseDisplayState is the inverse of DisplayState.String. Unknown names map
// to StateNormal.
func ParseDisplayState(s string) DisplayState {
	switch s {
	case "minimized":
		return StateMinimized
	case "maximized":
		return StateMaximized
	default:
		return StateNormal
	}
}

// WindowSpec describes a window to open. Position and Size are optional.
type WindowSpec struct {
	ID       string
	Title    string
	Content  Content
	Position *Point
	Size     *Size
}

// window is the registry record. Geometry lives only in place.
type window struct {
	id      string
	title   string
	content Content
	place   placement
	z       int
	history *History
}

func (w *window) snapshot(viewport Size) Window {
	frame := w.place.frame(viewport)
	return Window{
		ID:            w.id,
		Title:         w.title,
		Content:       w.content,
		Position:      frame.Position,
		Size:          frame.Size,
		State:         w.place.state(),
		SavedGeometry: w.place.saved(),
		ZIndex:        w.z,
		History:       w.history.View(),
	}
}
