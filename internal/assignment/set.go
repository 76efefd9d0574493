// Package assignment holds the granted and pending permission sets of one
// staff member and derives display orders from them.
package assignment

import "github.com/juju/collections/set"

// Set is a set of permission ids.
type Set struct {
	ids set.Ints
}

func NewSet(ids ...int) *Set {
	return &Set{ids: set.NewInts(ids...)}
}

// Contains is safe on a nil set.
func (s *Set) Contains(id int) bool {
	if s == nil {
		return false
	}
	return s.ids.Contains(id)
}

// Toggle flips membership of id and returns the new membership.
func (s *Set) Toggle(id int) bool {
	if s.ids.Contains(id) {
		s.ids.Remove(id)
		return false
	}
	s.ids.Add(id)
	return true
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.ids.Size()
}

func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}
	return NewSet(s.ids.Values()...)
}

// Values returns the ids in ascending order.
func (s *Set) Values() []int {
	if s == nil {
		return []int{}
	}
	return s.ids.SortedValues()
}

func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.Values() {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Difference returns the ids of s missing from other, ascending.
func (s *Set) Difference(other *Set) []int {
	if s == nil {
		return []int{}
	}
	if other == nil {
		return s.Values()
	}
	return s.ids.Difference(other.ids).SortedValues()
}
