// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package sample

import "testing"

type fakeChainLens struct {
	chains []int
}

func (f fakeChainLens) NumBuckets() int   { return len(f.chains) }
func (f fakeChainLens) ChainLen(i int) int { return f.chains[i] }

func TestWeightedByChainLengthOnlyHitsPresentBuckets(t *testing.T) {
	c := fakeChainLens{chains: []int{0, 3, 0, 1, 0}}
	counts := WeightedByChainLength(c, 1000)
	if len(counts) != 5 {
		t.Fatalf("counts has length %d, want 5", len(counts))
	}
	if counts[0] != 0 || counts[2] != 0 || counts[4] != 0 {
		t.Fatalf("empty buckets should never be sampled: %v", counts)
	}
	if counts[1] == 0 || counts[3] == 0 {
		t.Fatalf("present buckets should eventually be sampled over 1000 draws: %v", counts)
	}
}

func TestWeightedByChainLengthEmpty(t *testing.T) {
	c := fakeChainLens{}
	counts := WeightedByChainLength(c, 100)
	if len(counts) != 0 {
		t.Fatalf("expected no buckets, got %d", len(counts))
	}
}

func TestWeightedByChainLengthAllEmpty(t *testing.T) {
	c := fakeChainLens{chains: []int{0, 0, 0}}
	counts := WeightedByChainLength(c, 100)
	for i, c := range counts {
		if c != 0 {
			t.Fatalf("bucket %d should never be sampled, got %d", i, c)
		}
	}
}
