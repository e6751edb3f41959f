package activeset

import (
	"testing"
)

func TestNew_Empty(t *testing.T) {
	s := New(4)

	if !s.Empty() {
		t.Errorf("New() set should be empty, has %d entries", s.Len())
	}
	if s.Size() != 4 {
		t.Errorf("Size() = %d, want 4", s.Size())
	}
	for mx := MultiplierIndex(0); mx < 4; mx++ {
		if s.Lookup(mx) != NotActive {
			t.Errorf("Lookup(%d) = %d, want NotActive", mx, s.Lookup(mx))
		}
	}
}

func TestReset_BuildsMapping(t *testing.T) {
	s := New(6)
	s.Reset([]MultiplierIndex{4, 1, 5})

	tests := []struct {
		mx   MultiplierIndex
		want ActiveIndex
	}{
		{4, 0},
		{1, 1},
		{5, 2},
		{0, NotActive},
		{2, NotActive},
		{3, NotActive},
	}

	for _, tt := range tests {
		if got := s.Lookup(tt.mx); got != tt.want {
			t.Errorf("Lookup(%d) = %d, want %d", tt.mx, got, tt.want)
		}
	}
}

func TestReset_CopiesInput(t *testing.T) {
	in := []MultiplierIndex{0, 1, 2}
	s := New(3)
	s.Reset(in)

	s.Remove(1)

	if in[1] != 1 {
		t.Errorf("Remove() modified caller slice: %v", in)
	}
}

func TestRemove_KeepsMappingConsistent(t *testing.T) {
	tests := []struct {
		name    string
		initial []MultiplierIndex
		remove  []MultiplierIndex
		left    []MultiplierIndex
	}{
		{
			name:    "remove last",
			initial: []MultiplierIndex{0, 1, 2},
			remove:  []MultiplierIndex{2},
			left:    []MultiplierIndex{0, 1},
		},
		{
			name:    "remove first moves last into hole",
			initial: []MultiplierIndex{0, 1, 2},
			remove:  []MultiplierIndex{0},
			left:    []MultiplierIndex{2, 1},
		},
		{
			name:    "remove contact triple",
			initial: []MultiplierIndex{0, 1, 2, 3, 4, 5},
			remove:  []MultiplierIndex{3, 4, 5},
			left:    []MultiplierIndex{0, 1, 2},
		},
		{
			name:    "remove scattered triple in any order",
			initial: []MultiplierIndex{0, 1, 2, 3, 4, 5, 6},
			remove:  []MultiplierIndex{4, 0, 2},
			left:    []MultiplierIndex{6, 1, 5, 3},
		},
		{
			name:    "inactive entries ignored",
			initial: []MultiplierIndex{2, 3},
			remove:  []MultiplierIndex{0, 3},
			left:    []MultiplierIndex{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(8)
			s.Reset(tt.initial)
			s.Remove(tt.remove...)

			if s.Len() != len(tt.left) {
				t.Fatalf("Len() = %d, want %d (active=%v)", s.Len(), len(tt.left), s.Indices())
			}
			for i, mx := range tt.left {
				if s.At(ActiveIndex(i)) != mx {
					t.Errorf("At(%d) = %d, want %d", i, s.At(ActiveIndex(i)), mx)
				}
			}
			for _, mx := range tt.remove {
				if s.Contains(mx) {
					t.Errorf("Contains(%d) = true after removal", mx)
				}
			}
			for ax, mx := range s.Indices() {
				if s.Lookup(mx) != ActiveIndex(ax) {
					t.Errorf("Lookup(%d) = %d, want %d", mx, s.Lookup(mx), ax)
				}
			}
		})
	}
}

func TestActiveIndex_Valid(t *testing.T) {
	if NotActive.Valid() {
		t.Error("NotActive.Valid() = true")
	}
	if !ActiveIndex(0).Valid() {
		t.Error("ActiveIndex(0).Valid() = false")
	}
}
