// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package intset is a minimal sorted-int64-set: ambient scaffolding, not
// a user-facing container. No other package in this module imports it
// (dict's tests do not use it), and being internal it is never exported
// outside this module.
package intset

import "sort"

// Set is a sorted set of int64 values backed by a single growing slice,
// with O(log n) membership and insertion via binary search plus a
// slice insert. It carries none of dict's incremental-rehash or
// iterator-safety machinery; it doesn't need to.
type Set struct {
	vals []int64
}

// New returns an empty Set.
func New() *Set { return &Set{} }

// Len returns the number of distinct values in s.
func (s *Set) Len() int { return len(s.vals) }

func (s *Set) search(v int64) int {
	return sort.Search(len(s.vals), func(i int) bool { return s.vals[i] >= v })
}

// Contains reports whether v is present in s.
func (s *Set) Contains(v int64) bool {
	i := s.search(v)
	return i < len(s.vals) && s.vals[i] == v
}

// Add inserts v into s, returning true if v was not already present.
func (s *Set) Add(v int64) bool {
	i := s.search(v)
	if i < len(s.vals) && s.vals[i] == v {
		return false
	}
	s.vals = append(s.vals, 0)
	copy(s.vals[i+1:], s.vals[i:])
	s.vals[i] = v
	return true
}

// Remove deletes v from s, returning true if v was present.
func (s *Set) Remove(v int64) bool {
	i := s.search(v)
	if i >= len(s.vals) || s.vals[i] != v {
		return false
	}
	s.vals = append(s.vals[:i], s.vals[i+1:]...)
	return true
}

// Values returns the set's values in ascending order. The returned
// slice is owned by the caller; mutating it does not affect s.
func (s *Set) Values() []int64 {
	out := make([]int64, len(s.vals))
	copy(out, s.vals)
	return out
}
