// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "testing"

func TestIteratorVisitsAllEntries(t *testing.T) {
	d := Create(intType(), nil)
	const n = 200
	want := map[int64]bool{}
	for i := int64(0); i < n; i++ {
		_ = d.Add(i, i)
		want[i] = true
	}
	it := d.Iterator()
	seen := map[int64]bool{}
	for e := it.Next(); e != nil; e = it.Next() {
		if seen[e.Key()] {
			t.Fatalf("key %d visited twice", e.Key())
		}
		seen[e.Key()] = true
	}
	if len(seen) != len(want) {
		t.Fatalf("iterator visited %d entries, want %d", len(seen), len(want))
	}
}

// TestSafeIteratorToleratesConcurrentMutation checks that every key
// present at both endpoints is visited exactly once, across an
// Add/Delete sequence interleaved with a live safe iterator, as long as
// the iterator's own current entry isn't the one deleted.
func TestSafeIteratorToleratesConcurrentMutation(t *testing.T) {
	d := Create(intType(), nil)
	const n = 50
	for i := int64(0); i < n; i++ {
		_ = d.Add(i, i)
	}

	it := d.SafeIterator()
	seen := map[int64]int{}
	count := 0
	for e := it.Next(); e != nil; e = it.Next() {
		seen[e.Key()]++
		count++
		if count == 10 {
			// Mutate mid-scan: the safe iterator must tolerate this.
			_ = d.Add(1000+e.Key(), 0)
			if e.Key() != 5 {
				_ = d.Delete(int64(5))
			}
		}
	}
	it.Release()

	for k, c := range seen {
		if c != 1 {
			t.Fatalf("key %d visited %d times, want exactly 1", k, c)
		}
	}
	for i := int64(0); i < n; i++ {
		if _, ok := d.FetchValue(i); ok && seen[i] != 1 {
			t.Fatalf("key %d present at both endpoints visited %d times, want exactly 1", i, seen[i])
		}
	}
}

func TestSafeIteratorSuppressesRehash(t *testing.T) {
	d := Create(intType(), nil)
	for i := int64(0); i < 4; i++ {
		_ = d.Add(i, i)
	}
	// Force rehashing state directly.
	if err := d.Expand(64); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("Expand should have entered rehashing state")
	}

	it := d.SafeIterator()
	_ = it.Next() // increments d.iterators

	before := d.rehashidx
	if !d.RehashStep(100) {
		t.Fatalf("RehashStep should report rehashing still in progress while a safe iterator is live")
	}
	if d.rehashidx != before {
		t.Fatalf("RehashStep must not advance while a safe iterator is live: rehashidx moved from %d to %d", before, d.rehashidx)
	}
	it.Release()
	d.RehashStep(100)
	// After release, progress should eventually be possible again (not
	// asserting completion here, just that the counter dropped).
	if d.iterators != 0 {
		t.Fatalf("iterators counter should be 0 after Release, got %d", d.iterators)
	}
}

func TestSafeIteratorReleaseWithoutNextIsNoop(t *testing.T) {
	d := Create(intType(), nil)
	it := d.SafeIterator()
	it.Release() // never called Next
	if d.iterators != 0 {
		t.Fatalf("iterators counter should remain 0, got %d", d.iterators)
	}
}
