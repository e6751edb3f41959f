// Package activeset maps between the full multiplier index space and the
// subset of multipliers currently enforced as equalities.
package activeset

import "sort"

// MultiplierIndex addresses one scalar constraint impulse in the full space.
type MultiplierIndex int

// ActiveIndex addresses a position inside the active sequence.
type ActiveIndex int

// NotActive is returned by Lookup for multipliers outside the active set.
const NotActive ActiveIndex = -1

// Valid reports whether ax refers to an active position.
func (ax ActiveIndex) Valid() bool {
	return ax >= 0
}

// Set is the active sequence together with its inverse lookup. The lookup is
// rebuilt on every mutation; there is no way to read it in a stale state.
type Set struct {
	active   []MultiplierIndex
	toActive []ActiveIndex
}

// New creates an empty set over a multiplier space of size m.
func New(m int) *Set {
	s := &Set{
		active:   make([]MultiplierIndex, 0, m),
		toActive: make([]ActiveIndex, m),
	}
	s.rebuild()

	return s
}

// Reset replaces the active sequence with a copy of indices.
func (s *Set) Reset(indices []MultiplierIndex) {
	s.active = append(s.active[:0], indices...)
	s.rebuild()
}

// Len returns the number of active multipliers.
func (s *Set) Len() int {
	return len(s.active)
}

// Empty reports whether no multiplier is active.
func (s *Set) Empty() bool {
	return len(s.active) == 0
}

// Size returns the size of the full multiplier space.
func (s *Set) Size() int {
	return len(s.toActive)
}

// At returns the multiplier stored at active position ax.
func (s *Set) At(ax ActiveIndex) MultiplierIndex {
	return s.active[ax]
}

// Indices exposes the active sequence. Callers must not modify it.
func (s *Set) Indices() []MultiplierIndex {
	return s.active
}

// Lookup returns the active position of mx, or NotActive.
func (s *Set) Lookup(mx MultiplierIndex) ActiveIndex {
	return s.toActive[mx]
}

// Contains reports whether mx is active.
func (s *Set) Contains(mx MultiplierIndex) bool {
	return s.toActive[mx].Valid()
}

// Remove erases the given multipliers from the active sequence. Positions are
// erased from highest to lowest, each by moving the last entry into the hole,
// so the remaining lower positions never shift. Multipliers that are not
// active are ignored.
func (s *Set) Remove(indices ...MultiplierIndex) {
	positions := make([]int, 0, len(indices))
	for _, mx := range indices {
		if ax := s.toActive[mx]; ax.Valid() {
			positions = append(positions, int(ax))
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))

	for _, pos := range positions {
		last := len(s.active) - 1
		s.active[pos] = s.active[last]
		s.active = s.active[:last]
	}
	s.rebuild()
}

func (s *Set) rebuild() {
	for i := range s.toActive {
		s.toActive[i] = NotActive
	}
	for ax, mx := range s.active {
		s.toActive[mx] = ActiveIndex(ax)
	}
}
