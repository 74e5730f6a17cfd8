// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package intset

import (
	"sort"
	"testing"
)

func TestAddContainsRemove(t *testing.T) {
	s := New()
	vals := []int64{5, 1, 9, -3, 5, 2}
	for _, v := range vals {
		s.Add(v)
	}
	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 (5 is a duplicate)", s.Len())
	}
	for _, v := range []int64{5, 1, 9, -3, 2} {
		if !s.Contains(v) {
			t.Fatalf("Contains(%d) = false, want true", v)
		}
	}
	if s.Contains(100) {
		t.Fatalf("Contains(100) should be false")
	}
	if !sort.SliceIsSorted(s.Values(), func(i, j int) bool { return s.Values()[i] < s.Values()[j] }) {
		t.Fatalf("Values() should be sorted: %v", s.Values())
	}
	if !s.Remove(1) {
		t.Fatalf("Remove(1) should report true")
	}
	if s.Contains(1) {
		t.Fatalf("1 should no longer be present after Remove")
	}
	if s.Remove(1) {
		t.Fatalf("second Remove(1) should report false")
	}
}

func TestAddReturnsWhetherInserted(t *testing.T) {
	s := New()
	if !s.Add(1) {
		t.Fatalf("first Add(1) should report true")
	}
	if s.Add(1) {
		t.Fatalf("second Add(1) should report false")
	}
}
