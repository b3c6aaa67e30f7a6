package desktop

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a width/height pair in viewport pixels.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect is a positioned size.
type Rect struct {
	Position Point `json:"position"`
	Size     Size  `json:"size"`
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Position.X && p.X <= r.Position.X+r.Size.Width &&
		p.Y >= r.Position.Y && p.Y <= r.Position.Y+r.Size.Height
}

// DisplayState is the display mode of a window.
type DisplayState int

const (
	StateNormal DisplayState = iota
	StateMinimized
	StateMaximized
)

// String returns the wire name of the state.
func (s DisplayState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s DisplayState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// placement is the geometry of a window tied to its display state. Each
// variant carries exactly the geometry that state needs, so a maximized
// window without a saved frame cannot exist.
type placement interface {
	state() DisplayState
	// frame is the rendered rect given the current viewport.
	frame(viewport Size) Rect
	// saved is the pre-maximize geometry, if any.
	saved() *Rect
}

type normalPlacement struct {
	rect Rect
}

func (p normalPlacement) state() DisplayState { return StateNormal }
func (p normalPlacement) frame(Size) Rect     { return p.rect }
func (p normalPlacement) saved() *Rect        { return nil }

type maximizedPlacement struct {
	restore Rect
}

func (p maximizedPlacement) state() DisplayState { return StateMaximized }
func (p maximizedPlacement) frame(viewport Size) Rect {
	return Rect{Size: viewport}
}
func (p maximizedPlacement) saved() *Rect {
	r := p.restore
	return &r
}

// minimizedPlacement remembers the rect a restore returns to. When the window
// was maximized before being minimized, restore is the pre-maximize geometry
// and the rendered frame stays the full viewport until then.
type minimizedPlacement struct {
	restore       Rect
	fromMaximized bool
}

func (p minimizedPlacement) state() DisplayState { return StateMinimized }
func (p minimizedPlacement) frame(viewport Size) Rect {
	if p.fromMaximized {
		return Rect{Size: viewport}
	}
	return p.restore
}
func (p minimizedPlacement) saved() *Rect {
	if !p.fromMaximized {
		return nil
	}
	r := p.restore
	return &r
}

// withPosition returns p with the restorable position replaced.
func withPosition(p placement, pos Point) placement {
	switch v := p.(type) {
	case normalPlacement:
		v.rect.Position = pos
		return v
	case maximizedPlacement:
		v.restore.Position = pos
		return v
	case minimizedPlacement:
		v.restore.Position = pos
		return v
	}
	return p
}

// withSize returns p with the restorable size replaced.
func withSize(p placement, size Size) placement {
	switch v := p.(type) {
	case normalPlacement:
		v.rect.Size = size
		return v
	case maximizedPlacement:
		v.restore.Size = size
		return v
	case minimizedPlacement:
		v.restore.Size = size
		return v
	}
	return p
}
