// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "testing"

// TestIncrementalRehashCompletes inserts keys 0..9999 into a dict using
// the integer-mix hash. Expect at
// least one expand (doubling from 4 up to >= 16384), rehashidx reaching
// -1 exactly when ht[0].used == 10000 and ht[1] is empty, and every
// intermediate Find for an already-inserted key succeeding.
func TestIncrementalRehashCompletes(t *testing.T) {
	d := Create(intType(), nil)
	const n = 10000
	sawExpand := false
	for i := int64(0); i < n; i++ {
		before := d.ht[0].size
		if err := d.Add(i, i); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
		if d.ht[0].size != before || d.ht[1].size != 0 {
			sawExpand = true
		}
		// Every intermediate Find for an already-inserted key must
		// succeed: check the key just inserted plus a spread of earlier
		// ones rather than the full 0..i prefix, which would make this
		// test quadratic for no added coverage.
		for _, j := range []int64{0, i / 2, i} {
			if v, ok := d.FetchValue(j); !ok || v != j {
				t.Fatalf("FetchValue(%d) failed mid-insertion at i=%d: v=%d ok=%v", j, i, v, ok)
			}
		}
	}
	if !sawExpand {
		t.Fatalf("expected at least one table expansion while inserting %d keys", n)
	}

	// Drive rehashing fully to completion.
	for d.isRehashing() {
		d.RehashStep(1)
	}
	if d.rehashidx != -1 {
		t.Fatalf("rehashidx = %d, want -1 once rehashing completes", d.rehashidx)
	}
	if d.ht[0].used != n {
		t.Fatalf("ht[0].used = %d, want %d", d.ht[0].used, n)
	}
	if d.ht[1].used != 0 || d.ht[1].size != 0 {
		t.Fatalf("ht[1] should be reset to empty once rehashing completes: used=%d size=%d", d.ht[1].used, d.ht[1].size)
	}
	if d.ht[0].size < 16384 {
		t.Fatalf("ht[0].size = %d, want >= 16384 for %d entries", d.ht[0].size, n)
	}
}

func TestRehashMillisRespectsBudget(t *testing.T) {
	d := Create(intType(), nil)
	const n = 50000
	for i := int64(0); i < n; i++ {
		_ = d.Add(i, i)
	}
	// A zero-millisecond budget should still perform at least one
	// rehash pass (RehashMillis always attempts one RehashStep before
	// checking elapsed time) but must return promptly either way.
	_ = d.RehashMillis(0)
	for d.isRehashing() {
		d.RehashStep(1)
	}
	if d.Used() != n {
		t.Fatalf("Used() = %d, want %d after full rehash", d.Used(), n)
	}
}

func TestRehashStepNoOpWhenNotRehashing(t *testing.T) {
	d := Create(intType(), nil)
	_ = d.Add(1, 1)
	if d.RehashStep(10) {
		t.Fatalf("RehashStep should return false when no rehash is in progress")
	}
}
