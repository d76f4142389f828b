package model

import (
	"maps"
	"slices"
)

// IDSet is an unordered set of player ids
type IDSet map[PlayerID]struct{}

// NewIDSet builds a set from the given ids, dropping duplicates
func NewIDSet(ids ...PlayerID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership
func (s IDSet) Has(id PlayerID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id; it reports whether the set changed
func (s IDSet) Add(id PlayerID) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id; it reports whether the set changed
func (s IDSet) Remove(id PlayerID) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

// Sorted returns the members in ascending order
func (s IDSet) Sorted() []PlayerID {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a copy; a nil set clones to an empty set
func (s IDSet) Clone() IDSet {
	if s == nil {
		return IDSet{}
	}
	return maps.Clone(s)
}
