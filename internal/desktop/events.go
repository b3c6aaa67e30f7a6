package desktop

// EventType names the command that changed the desktop.
type EventType string

const (
	EventOpened    EventType = "opened"
	EventClosed    EventType = "closed"
	EventFocused   EventType = "focused"
	EventMinimized EventType = "minimized"
	EventMaximized EventType = "maximized"
	EventRestored  EventType = "restored"
	EventMoved     EventType = "moved"
	EventResized   EventType = "resized"
	EventRetitled  EventType = "retitled"
	EventNavigated EventType = "navigated"
	EventViewport  EventType = "viewport"
)

// Event is delivered to listeners after a command changed state. Windows is
// the full post-change window list in ascending z order.
type Event struct {
	Type     EventType `json:"type"`
	WindowID string    `json:"window_id,omitempty"`
	Windows  []Window  `json:"windows"`
}

// Listener receives change events in the order the commands were applied.
// Listeners run after the manager lock is released and may call back into the
// manager; an event raised from inside a listener is delivered once that
// listener returns. Under concurrent commands an event may be delivered on
// another command's goroutine.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}
