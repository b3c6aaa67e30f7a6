package desktop

import (
	"sort"
	"sync"
)

const (
	DefaultViewportWidth  = 1440
	DefaultViewportHeight = 900
	DefaultWindowWidth    = 600
	DefaultWindowHeight   = 400
	DefaultStaggerStep    = 20
	DefaultStaggerCycle   = 10
	DefaultHistoryLimit   = 50
)

// Options configures a Manager.
type Options struct {
	// Viewport is the desktop area maximized windows fill.
	Viewport Size
	// DefaultSize is used when a window is opened without a size.
	DefaultSize Size
	// StaggerStep is the offset added per default-positioned window.
	StaggerStep float64
	// StaggerCycle is the number of steps before the offset wraps to zero.
	// Zero disables wrapping.
	StaggerCycle int
	// HistoryLimit bounds each window's navigation history (0 = unbounded).
	HistoryLimit int
}

// DefaultOptions returns the stock desktop settings.
func DefaultOptions() Options {
	return Options{
		Viewport:     Size{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		DefaultSize:  Size{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
		StaggerStep:  DefaultStaggerStep,
		StaggerCycle: DefaultStaggerCycle,
		HistoryLimit: DefaultHistoryLimit,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = def.Viewport
	}
	if o.DefaultSize.Width <= 0 || o.DefaultSize.Height <= 0 {
		o.DefaultSize = def.DefaultSize
	}
	if o.StaggerStep < 0 {
		o.StaggerStep = 0
	}
	if o.StaggerCycle < 0 {
		o.StaggerCycle = 0
	}
	if o.HistoryLimit < 0 {
		o.HistoryLimit = 0
	}
	return o
}

// Manager is the window registry. It owns every window record, the stacking
// counter and the per-window navigation histories.
//
// Commands never fail: an unknown id, a history boundary or an illegal
// display-state transition is a silent no-op. Each command is applied under
// one write lock, so readers never observe a partial update.
type Manager struct {
	mu      sync.RWMutex
	opts    Options
	windows map[string]*window
	stack   stacking
	stagger int

	subMu   sync.Mutex
	subs    []subscription
	nextSub int

	// pending holds events in command order. It is appended to while mu is
	// held and drained by one goroutine at a time.
	notifyMu sync.Mutex
	pending  []Event
	draining bool
}

// NewManager creates an empty desktop.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:    opts.normalized(),
		windows: make(map[string]*window),
	}
}

// Configure replaces the manager options. Open windows keep their geometry;
// maximized windows follow the new viewport. The history limit applies to
// windows opened afterwards.
func (m *Manager) Configure(opts Options) {
	m.apply(func() (Event, bool) {
		prev := m.opts.Viewport
		m.opts = opts.normalized()
		return Event{Type: EventViewport}, prev != m.opts.Viewport
	})
}

// Options returns the active options.
func (m *Manager) Options() Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (m *Manager) Subscribe(fn Listener) (cancel func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// apply runs fn under the write lock and, when it reports a change, queues
// an event with a snapshot taken before the lock is released.
func (m *Manager) apply(fn func() (Event, bool)) {
	m.mu.Lock()
	ev, changed := fn()
	if changed {
		ev.Windows = m.listLocked()
		m.notifyMu.Lock()
		m.pending = append(m.pending, ev)
		m.notifyMu.Unlock()
	}
	m.mu.Unlock()

	if changed {
		m.drain()
	}
}

// drain delivers queued events in the order their commands were applied.
// When another goroutine is already draining, it delivers ours too.
func (m *Manager) drain() {
	m.notifyMu.Lock()
	if m.draining {
		m.notifyMu.Unlock()
		return
	}
	m.draining = true
	for len(m.pending) > 0 {
		ev := m.pending[0]
		m.pending = m.pending[1:]
		m.notifyMu.Unlock()

		m.subMu.Lock()
		subs := make([]subscription, len(m.subs))
		copy(subs, m.subs)
		m.subMu.Unlock()
		for _, s := range subs {
			s.fn(ev)
		}

		m.notifyMu.Lock()
	}
	m.draining = false
	m.notifyMu.Unlock()
}

// Open creates the window described by spec, or surfaces the existing window
// with the same id: a minimized window is restored, any other is brought to
// the front.
func (m *Manager) Open(spec WindowSpec) {
	m.apply(func() (Event, bool) {
		if spec.ID == "" || spec.Content == nil {
			return Event{}, false
		}
		if w, ok := m.windows[spec.ID]; ok {
			if w.place.state() == StateMinimized {
				return Event{Type: EventRestored, WindowID: w.id}, m.restoreLocked(w)
			}
			return Event{Type: EventFocused, WindowID: w.id}, m.frontLocked(w)
		}

		size := m.opts.DefaultSize
		if spec.Size != nil {
			size = *spec.Size
		}
		var pos Point
		if spec.Position != nil {
			pos = *spec.Position
		} else {
			pos = m.defaultPositionLocked(size)
		}

		w := &window{
			id:      spec.ID,
			title:   spec.Title,
			content: spec.Content,
			place:   normalPlacement{rect: Rect{Position: pos, Size: size}},
			z:       m.stack.allocate(),
		}
		if spec.Content.Kind().Navigable() {
			w.history = NewHistory(m.opts.HistoryLimit)
			w.history.Push(Snapshot{Title: spec.Title, Content: spec.Content})
		}
		m.windows[w.id] = w
		return Event{Type: EventOpened, WindowID: w.id}, true
	})
}

// defaultPositionLocked centres a window of the given size and applies the
// stagger offset, then advances the stagger.
func (m *Manager) defaultPositionLocked(size Size) Point {
	step := m.stagger
	if m.opts.StaggerCycle > 0 {
		step %= m.opts.StaggerCycle
	}
	offset := float64(step) * m.opts.StaggerStep
	m.stagger++
	return Point{
		X: m.opts.Viewport.Width/2 - size.Width/2 + offset,
		Y: m.opts.Viewport.Height/2 - size.Height/2 + offset,
	}
}

// Close removes the window and its history. Closing the last window resets
// the stagger offset.
func (m *Manager) Close(id string) {
	m.apply(func() (Event, bool) {
		if _, ok := m.windows[id]; !ok {
			return Event{}, false
		}
		delete(m.windows, id)
		if len(m.windows) == 0 {
			m.stagger = 0
		}
		return Event{Type: EventClosed, WindowID: id}, true
	})
}

// Minimize hides a normal or maximized window. A maximized window keeps its
// pre-maximize geometry, so a later restore returns it to normal at that
// geometry.
func (m *Manager) Minimize(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		switch p := w.place.(type) {
		case normalPlacement:
			w.place = minimizedPlacement{restore: p.rect}
		case maximizedPlacement:
			w.place = minimizedPlacement{restore: p.restore, fromMaximized: true}
		default:
			return Event{}, false
		}
		return Event{Type: EventMinimized, WindowID: id}, true
	})
}

// Maximize fills the viewport with a normal window and brings it to the front.
func (m *Manager) Maximize(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		if !m.maximizeLocked(w) {
			return Event{}, false
		}
		return Event{Type: EventMaximized, WindowID: id}, true
	})
}

func (m *Manager) maximizeLocked(w *window) bool {
	p, ok := w.place.(normalPlacement)
	if !ok {
		return false
	}
	w.place = maximizedPlacement{restore: p.rect}
	m.frontLocked(w)
	return true
}

// Restore returns a maximized or minimized window to normal and brings it to
// the front.
func (m *Manager) Restore(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		return Event{Type: EventRestored, WindowID: id}, m.restoreLocked(w)
	})
}

func (m *Manager) restoreLocked(w *window) bool {
	switch p := w.place.(type) {
	case maximizedPlacement:
		w.place = normalPlacement{rect: p.restore}
	case minimizedPlacement:
		w.place = normalPlacement{rect: p.restore}
	default:
		return false
	}
	m.frontLocked(w)
	return true
}

// ToggleMaximize maximizes a normal window and restores a maximized one.
// Minimized windows are left alone.
func (m *Manager) ToggleMaximize(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		switch w.place.(type) {
		case normalPlacement:
			return Event{Type: EventMaximized, WindowID: id}, m.maximizeLocked(w)
		case maximizedPlacement:
			return Event{Type: EventRestored, WindowID: id}, m.restoreLocked(w)
		}
		return Event{}, false
	})
}

// BringToFront raises a visible window above all others. It is a no-op for
// the window that is already in front and for minimized windows.
func (m *Manager) BringToFront(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok || w.place.state() == StateMinimized {
			return Event{}, false
		}
		return Event{Type: EventFocused, WindowID: id}, m.frontLocked(w)
	})
}

func (m *Manager) frontLocked(w *window) bool {
	z, changed := m.stack.front(w.z)
	w.z = z
	return changed
}

// UpdateTitle sets the window title.
func (m *Manager) UpdateTitle(id, title string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok || w.title == title {
			return Event{}, false
		}
		w.title = title
		return Event{Type: EventRetitled, WindowID: id}, true
	})
}

// UpdatePosition moves the window. While maximized only the saved geometry
// changes; the window keeps filling the viewport.
func (m *Manager) UpdatePosition(id string, pos Point) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		next := withPosition(w.place, pos)
		if next == w.place {
			return Event{}, false
		}
		w.place = next
		return Event{Type: EventMoved, WindowID: id}, true
	})
}

// UpdateSize resizes the window, with the same maximized rule as
// UpdatePosition.
func (m *Manager) UpdateSize(id string, size Size) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		next := withSize(w.place, size)
		if next == w.place {
			return Event{}, false
		}
		w.place = next
		return Event{Type: EventResized, WindowID: id}, true
	})
}

// SetViewport changes the desktop area. Maximized windows follow it.
func (m *Manager) SetViewport(size Size) {
	m.apply(func() (Event, bool) {
		if size.Width <= 0 || size.Height <= 0 || size == m.opts.Viewport {
			return Event{}, false
		}
		m.opts.Viewport = size
		return Event{Type: EventViewport}, true
	})
}

// NavigateTo pushes a snapshot onto the window's history, discarding any
// forward entries, and shows it. An empty title or nil content in s keeps the
// window's current value. Windows whose content kind has no history ignore
// the call.
func (m *Manager) NavigateTo(id string, s Snapshot) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok || w.history == nil {
			return Event{}, false
		}
		if s.Title == "" {
			s.Title = w.title
		}
		if s.Content == nil {
			s.Content = w.content
		}
		w.history.Push(s)
		w.show(s)
		return Event{Type: EventNavigated, WindowID: id}, true
	})
}

// NavigateBack shows the previous snapshot, if any.
func (m *Manager) NavigateBack(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		s, moved := w.history.Back()
		if !moved {
			return Event{}, false
		}
		w.show(s)
		return Event{Type: EventNavigated, WindowID: id}, true
	})
}

// NavigateForward shows the next snapshot, if any.
func (m *Manager) NavigateForward(id string) {
	m.apply(func() (Event, bool) {
		w, ok := m.windows[id]
		if !ok {
			return Event{}, false
		}
		s, moved := w.history.Forward()
		if !moved {
			return Event{}, false
		}
		w.show(s)
		return Event{Type: EventNavigated, WindowID: id}, true
	})
}

func (w *window) show(s Snapshot) {
	w.title = s.Title
	w.content = s.Content
}

// CanNavigateBack reports whether NavigateBack would move.
func (m *Manager) CanNavigateBack(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	return ok && w.history.CanBack()
}

// CanNavigateForward reports whether NavigateForward would move.
func (m *Manager) CanNavigateForward(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	return ok && w.history.CanForward()
}

// Window returns a snapshot of one window.
func (m *Manager) Window(id string) (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.windows[id]
	if !ok {
		return Window{}, false
	}
	return w.snapshot(m.opts.Viewport), true
}

// ListOpenWindows returns every window, minimized ones included, in ascending
// z order (paint order).
func (m *Manager) ListOpenWindows() []Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked()
}

func (m *Manager) listLocked() []Window {
	out := make([]Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w.snapshot(m.opts.Viewport))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// VisibleWindows returns the render set: non-minimized windows in ascending z
// order.
func (m *Manager) VisibleWindows() []Window {
	all := m.ListOpenWindows()
	out := all[:0]
	for _, w := range all {
		if w.Visible() {
			out = append(out, w)
		}
	}
	return out
}

// ActiveWindow returns the visible window with the highest z. Minimized
// windows never count as active.
func (m *Manager) ActiveWindow() (Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *window
	for _, w := range m.windows {
		if w.place.state() == StateMinimized {
			continue
		}
		if best == nil || w.z > best.z {
			best = w
		}
	}
	if best == nil {
		return Window{}, false
	}
	return best.snapshot(m.opts.Viewport), true
}

// Len returns the number of open windows.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.windows)
}

// Viewport returns the current desktop area.
func (m *Manager) Viewport() Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opts.Viewport
}

// LastZ returns the most recently allocated z-index.
func (m *Manager) LastZ() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stack.last()
}
