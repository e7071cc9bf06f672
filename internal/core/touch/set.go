package touch

// Set holds the active touches in insertion order.
type Set struct {
	touches []Touch
}

func NewSet() *Set {
	return &Set{}
}

// Apply folds one raw snapshot into the set and reports whether the set of
// identifiers changed. Unknown identifiers start new touches, known ones
// advance previous/current, and identifiers missing from raw are dropped.
//
// A snapshot that repeats an identifier is malformed; it clears the set.
func (s *Set) Apply(raw []Raw) bool {
	if hasDuplicates(raw) {
		changed := len(s.touches) > 0
		s.touches = s.touches[:0]
		return changed
	}

	added := false

	for _, r := range raw {
		if i := s.indexOf(r.ID); i >= 0 {
			s.touches[i].moveTo(Point{X: r.X, Y: r.Y})
			continue
		}
		s.touches = append(s.touches, newTouch(r))
		added = true
	}

	kept := s.touches[:0]
	for _, t := range s.touches {
		if containsID(raw, t.ID) {
			kept = append(kept, t)
		}
	}
	removed := len(kept) != len(s.touches)
	s.touches = kept

	return added || removed
}

// Reset drops every touch.
func (s *Set) Reset() {
	s.touches = s.touches[:0]
}

func (s *Set) Len() int {
	return len(s.touches)
}

func (s *Set) Has(id ID) bool {
	return s.indexOf(id) >= 0
}

// Touches returns a copy of the active touches in insertion order.
func (s *Set) Touches() []Touch {
	out := make([]Touch, len(s.touches))
	copy(out, s.touches)
	return out
}

// CentroidOfCurrent is the mean current position. ok is false for an empty set.
func (s *Set) CentroidOfCurrent() (Point, bool) {
	return s.centroid(func(t Touch) Point { return t.Current })
}

// CentroidOfPrevious is the mean previous position. ok is false for an empty set.
func (s *Set) CentroidOfPrevious() (Point, bool) {
	return s.centroid(func(t Touch) Point { return t.Previous })
}

// PairwiseSample returns the two active touches in insertion order. ok is
// false unless exactly two touches are active.
func (s *Set) PairwiseSample() (a, b Touch, ok bool) {
	if len(s.touches) != 2 {
		return Touch{}, Touch{}, false
	}
	return s.touches[0], s.touches[1], true
}

func (s *Set) centroid(pick func(Touch) Point) (Point, bool) {
	if len(s.touches) == 0 {
		return Point{}, false
	}
	var sx, sy float64
	for _, t := range s.touches {
		p := pick(t)
		sx += p.X
		sy += p.Y
	}
	n := float64(len(s.touches))
	return Point{X: sx / n, Y: sy / n}, true
}

func (s *Set) indexOf(id ID) int {
	for i := range s.touches {
		if s.touches[i].ID == id {
			return i
		}
	}
	return -1
}

func containsID(raw []Raw, id ID) bool {
	for _, r := range raw {
		if r.ID == id {
			return true
		}
	}
	return false
}

func hasDuplicates(raw []Raw) bool {
	if len(raw) < 2 {
		return false
	}
	seen := make(map[ID]struct{}, len(raw))
	for _, r := range raw {
		if _, ok := seen[r.ID]; ok {
			return true
		}
		seen[r.ID] = struct{}{}
	}
	return false
}
