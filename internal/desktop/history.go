package desktop

import "encoding/json"

// Snapshot is one visited content view inside a window.
type Snapshot struct {
	Title   string
	Content Content
}

// History is a linear back/forward stack of snapshots. Create it with
// NewHistory.
type History struct {
	entries []Snapshot
	cursor  int
	limit   int
}

// NewHistory returns an empty history keeping at most limit entries
// (0 means unbounded).
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{cursor: -1, limit: limit}
}

// Push truncates everything after the cursor, appends s and moves the cursor
// onto it. When the limit is exceeded the oldest entry is dropped.
func (h *History) Push(s Snapshot) {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		h.entries = h.entries[:0]
	} else {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, s)
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append(h.entries[:0:0], h.entries[drop:]...)
	}
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor one step back and returns the snapshot there.
func (h *History) Back() (Snapshot, bool) {
	if !h.CanBack() {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Forward moves the cursor one step forward and returns the snapshot there.
func (h *History) Forward() (Snapshot, bool) {
	if !h.CanForward() {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) CanBack() bool {
	return h != nil && h.cursor > 0
}

func (h *History) CanForward() bool {
	return h != nil && h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Current returns the snapshot under the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h == nil || h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.cursor], true
}

// Cursor returns the current index, or -1 when empty.
func (h *History) Cursor() int {
	if h == nil {
		return -1
	}
	return h.cursor
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// View returns a copy of the history for readers.
func (h *History) View() HistoryView {
	if h == nil {
		return HistoryView{Cursor: -1}
	}
	entries := make([]Snapshot, len(h.entries))
	copy(entries, h.entries)
	return HistoryView{Entries: entries, Cursor: h.cursor}
}

// HistoryView is a read-only copy of a window's navigation history.
type HistoryView struct {
	Entries []Snapshot `json:"entries"`
	Cursor  int        `json:"cursor"`
}

func (v HistoryView) CanBack() bool    { return v.Cursor > 0 }
func (v HistoryView) CanForward() bool { return v.Cursor >= 0 && v.Cursor < len(v.Entries)-1 }

type snapshotJSON struct {
	Title   string      `json:"title"`
	Content ContentJSON `json:"content"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{Title: s.Title, Content: ContentJSON{Content: s.Content}})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Title = raw.Title
	s.Content = raw.Content.Content
	return nil
}
