// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "testing"

func TestGetRandomKeyEmpty(t *testing.T) {
	d := Create(intType(), nil)
	if e := d.GetRandomKey(); e != nil {
		t.Fatalf("GetRandomKey on an empty dict should return nil")
	}
}

func TestGetRandomKeyReturnsPresentKey(t *testing.T) {
	d := Create(intType(), nil)
	want := map[int64]bool{}
	for i := int64(0); i < 100; i++ {
		_ = d.Add(i, i*2)
		want[i] = true
	}
	for i := 0; i < 200; i++ {
		e := d.GetRandomKey()
		if e == nil {
			t.Fatalf("GetRandomKey returned nil on a non-empty dict")
		}
		if !want[e.Key()] {
			t.Fatalf("GetRandomKey returned key %d which was never inserted", e.Key())
		}
		if e.Val() != e.Key()*2 {
			t.Fatalf("GetRandomKey entry has wrong value: key=%d val=%d", e.Key(), e.Val())
		}
	}
}

func TestGetRandomKeyDuringRehash(t *testing.T) {
	d := Create(intType(), nil)
	for i := int64(0); i < 4; i++ {
		_ = d.Add(i, i)
	}
	if err := d.Expand(64); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.isRehashing() {
		t.Fatalf("expected the dict to be rehashing")
	}
	for i := 0; i < 50; i++ {
		if e := d.GetRandomKey(); e == nil {
			t.Fatalf("GetRandomKey returned nil while rehashing a non-empty dict")
		}
	}
}

func TestNumBucketsAndChainLen(t *testing.T) {
	d := Create(intType(), nil)
	for i := int64(0); i < 10; i++ {
		_ = d.Add(i, i)
	}
	total := 0
	for i := 0; i < d.NumBuckets(); i++ {
		total += d.ChainLen(i)
	}
	if total != d.Used() {
		t.Fatalf("sum of chain lengths = %d, want %d (Used)", total, d.Used())
	}
}
