// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"testing"

	"github.com/aristanetworks/corekv/zmalloc"
)

func TestShardLoadAndStats(t *testing.T) {
	rt := zmalloc.New()
	s := newShard("t", rt)
	s.load(200, 8)
	st := s.stats()
	if st.Ht0Used+st.Ht1Used != 200 {
		t.Fatalf("expected 200 entries tracked, got ht0=%d ht1=%d", st.Ht0Used, st.Ht1Used)
	}
	if rt.UsedMemory() <= 0 {
		t.Fatalf("expected positive accounted memory after loading, got %d", rt.UsedMemory())
	}
}

func TestShardLoadStopsAtCeiling(t *testing.T) {
	rt := zmalloc.New()
	s := newShard("t", rt)
	s.load(50, 64) // warm up so UsedMemory() is already positive
	s.setCeiling(rt.UsedMemory())
	inserted := s.load(1000, 64)
	if inserted >= 1000 {
		t.Fatalf("expected load to stop short of 1000 once the ceiling was already reached, got %d", inserted)
	}
}

func TestShardChainLengthHistogram(t *testing.T) {
	rt := zmalloc.New()
	s := newShard("t", rt)
	s.load(500, 4)
	counts := s.chainLengthHistogram(1000)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 1000 {
		t.Fatalf("histogram counts should sum to the number of draws: got %d", total)
	}
}
