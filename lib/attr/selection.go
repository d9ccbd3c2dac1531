package attr

import (
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("attr")

// Selection holds the dirty flags of one subject instance
type Selection struct {
	flags []bool
}

// NewSelection creates a selection for a subject with n field slots. No slot is selected.
func NewSelection(n int) *Selection {
	return &Selection{flags: make([]bool, n)}
}

// Len returns the number of slots tracked by the selection
func (s *Selection) Len() int {
	return len(s.flags)
}

// Select marks the slot with the given index as changed.
// Indices outside the declared range are a programming error, they are logged and ignored.
func (s *Selection) Select(index int) {
	if index < 0 || index >= len(s.flags) {
		Logger.Errorf("select of field %d ignored, subject has %d fields", index, len(s.flags))
		return
	}
	s.flags[index] = true
}

// Unselect clears the flag of the slot with the given index
func (s *Selection) Unselect(index int) {
	if index < 0 || index >= len(s.flags) {
		return
	}
	s.flags[index] = false
}

// IsSelected reports whether the slot with the given index is marked as changed
func (s *Selection) IsSelected(index int) bool {
	return index >= 0 && index < len(s.flags) && s.flags[index]
}

// SelectAll marks all slots as changed (e.g. after a copy, everything has to be sent)
func (s *Selection) SelectAll() {
	for i := range s.flags {
		s.flags[i] = true
	}
}

// ClearAll clears all flags (e.g. after a successful full synchronization)
func (s *Selection) ClearAll() {
	for i := range s.flags {
		s.flags[i] = false
	}
}

// NumSelected returns the number of slots marked as changed
func (s *Selection) NumSelected() int {
	n := 0
	for _, f := range s.flags {
		if f {
			n++
		}
	}
	return n
}

// SelectedIndices returns the indices of all changed slots in ascending order
func (s *Selection) SelectedIndices() []int {
	indices := make([]int, 0, len(s.flags))
	for i, f := range s.flags {
		if f {
			indices = append(indices, i)
		}
	}
	return indices
}
