package desktop

// stacking hands out z-index values. Every allocation is strictly larger than
// any value handed out before, so the largest z among windows is always held
// by exactly one window.
type stacking struct {
	lastZ int
}

func (s *stacking) allocate() int {
	s.lastZ++
	return s.lastZ
}

// front returns the z for a window that should be frontmost. A window that
// already holds lastZ keeps it and changed is false.
func (s *stacking) front(current int) (z int, changed bool) {
	if current == s.lastZ {
		return current, false
	}
	return s.allocate(), true
}

func (s *stacking) last() int {
	return s.lastZ
}
