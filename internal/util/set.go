package util

import (
	"sort"
	"strings"
)

// StringSet is a set of strings.
type StringSet map[string]bool

// NewStringSet creates a StringSet, optionally pre-filled with the keys of
// the given maps.
func NewStringSet(of ...map[string]bool) StringSet {
	s := make(StringSet)
	for _, m := range of {
		for k := range m {
			s[k] = true
		}
	}
	return s
}

// Add adds the given element to the set. If the element is already in the
// set, no effect occurs.
func (s StringSet) Add(value string) {
	s[value] = true
}

// Remove removes the given element from the set. If the element is already
// not in the set, no effect occurs.
func (s StringSet) Remove(value string) {
	delete(s, value)
}

// Has returns whether the set has the specified element.
func (s StringSet) Has(value string) bool {
	return s[value]
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Empty returns whether the set has no elements.
func (s StringSet) Empty() bool {
	return len(s) == 0
}

// Copy returns a copy of the set.
func (s StringSet) Copy() StringSet {
	return NewStringSet(s)
}

// Elements returns the elements of the set, ordered alphabetically.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	sort.Strings(elems)
	return elems
}

// HasAll returns whether every element of other is in the set.
func (s StringSet) HasAll(other []string) bool {
	for _, v := range other {
		if !s[v] {
			return false
		}
	}
	return true
}

// String is a string with the contents of the set, ordered alphabetically.
func (s StringSet) String() string {
	return "{" + strings.Join(s.Elements(), ", ") + "}"
}
