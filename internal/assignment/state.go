package assignment

// State is the baseline (granted on the server) and the selection (pending
// edits) of one staff member. It is not safe for concurrent use.
type State struct {
	baseline  *Set
	selection *Set
}

func NewState() *State {
	return &State{baseline: NewSet(), selection: NewSet()}
}

// Initialize replaces the baseline and starts a fresh selection from it.
func (s *State) Initialize(baseline []int) {
	s.baseline = NewSet(baseline...)
	s.selection = s.baseline.Clone()
}

// Toggle flips id in the selection and returns whether it is now selected.
func (s *State) Toggle(id int) bool {
	return s.selection.Toggle(id)
}

func (s *State) IsSelected(id int) bool {
	return s.selection.Contains(id)
}

func (s *State) CountSelected() int {
	return s.selection.Len()
}

// Reset discards unsaved edits.
func (s *State) Reset() {
	s.selection = s.baseline.Clone()
}

// Baseline returns a copy of the granted set.
func (s *State) Baseline() *Set {
	return s.baseline.Clone()
}

// Selection returns a copy of the pending set.
func (s *State) Selection() *Set {
	return s.selection.Clone()
}

// SelectedIDs lists the pending set in ascending order.
func (s *State) SelectedIDs() []int {
	return s.selection.Values()
}

// Commit makes saved the new baseline. The selection is kept as is, so edits
// made while the save was running survive it.
func (s *State) Commit(saved *Set) {
	s.baseline = saved.Clone()
}

// Dirty reports whether the selection differs from the baseline.
func (s *State) Dirty() bool {
	return !s.selection.Equal(s.baseline)
}

// Added lists ids selected but not granted.
func (s *State) Added() []int {
	return s.selection.Difference(s.baseline)
}

// Removed lists ids granted but no longer selected.
func (s *State) Removed() []int {
	return s.baseline.Difference(s.selection)
}
