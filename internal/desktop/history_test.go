package desktop

import "testing"

func titles(v HistoryView) []string {
	out := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		out = append(out, e.Title)
	}
	return out
}

func TestHistory_PushBackForward(t *testing.T) {
	h := NewHistory(0)
	if h.CanBack() || h.CanForward() || h.Cursor() != -1 {
		t.Fatalf("expected empty history")
	}
	h.Push(Snapshot{Title: "A"})
	h.Push(Snapshot{Title: "B"})
	h.Push(Snapshot{Title: "C"})

	s, ok := h.Back()
	if !ok || s.Title != "B" {
		t.Fatalf("expected B, got %q (%v)", s.Title, ok)
	}
	s, ok = h.Forward()
	if !ok || s.Title != "C" {
		t.Fatalf("expected C, got %q (%v)", s.Title, ok)
	}
	if _, ok := h.Forward(); ok {
		t.Fatalf("expected forward to stop at the end")
	}
}

func TestHistory_PushTruncatesForward(t *testing.T) {
	h := NewHistory(0)
	for _, title := range []string{"A", "B", "C"} {
		h.Push(Snapshot{Title: title})
	}
	h.Back()
	h.Back()
	h.Push(Snapshot{Title: "D"})

	got := titles(h.View())
	if len(got) != 2 || got[0] != "A" || got[1] != "D" {
		t.Fatalf("expected [A D], got %v", got)
	}
	if h.Cursor() != 1 {
		t.Fatalf("expected cursor 1, got %d", h.Cursor())
	}
}

func TestHistory_ViewIsACopy(t *testing.T) {
	h := NewHistory(0)
	h.Push(Snapshot{Title: "A"})
	v := h.View()
	v.Entries[0].Title = "changed"
	if cur, _ := h.Current(); cur.Title != "A" {
		t.Fatalf("expected history unchanged, got %q", cur.Title)
	}
}

func TestHistory_NilIsEmpty(t *testing.T) {
	var h *History
	if h.CanBack() || h.CanForward() || h.Len() != 0 || h.Cursor() != -1 {
		t.Fatalf("expected nil history to behave as empty")
	}
	if _, ok := h.Back(); ok {
		t.Fatalf("expected back to fail on nil history")
	}
	if v := h.View(); v.Cursor != -1 || v.CanBack() {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestStacking_FrontSkipsCurrentTop(t *testing.T) {
	var s stacking
	a := s.allocate()
	b := s.allocate()
	if z, changed := s.front(b); changed || z != b {
		t.Fatalf("expected top window untouched, got %d %v", z, changed)
	}
	z, changed := s.front(a)
	if !changed || z <= b {
		t.Fatalf("expected new top above %d, got %d %v", b, z, changed)
	}
	if s.last() != z {
		t.Fatalf("expected last %d, got %d", z, s.last())
	}
}
