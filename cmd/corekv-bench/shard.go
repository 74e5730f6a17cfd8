// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"fmt"
	"math/rand"

	"github.com/aristanetworks/corekv/dict"
	"github.com/aristanetworks/corekv/dict/sample"
	"github.com/aristanetworks/corekv/monitor"
	"github.com/aristanetworks/corekv/zmalloc"
)

// shard is one independently-driven dict.Dict, the unit of concurrency
// corekv-bench uses instead of locking a single Dict from many
// goroutines.
type shard struct {
	name         string
	d            *dict.Dict[string, []byte]
	rt           *zmalloc.Runtime
	ceilingBytes int64 // 0 disables; see setCeiling
}

func newShard(name string, rt *zmalloc.Runtime) *shard {
	return &shard{
		name: name,
		d:    dict.CreateWithRuntime(dict.StringType[[]byte](), nil, nil, rt),
		rt:   rt,
	}
}

// setCeiling makes load stop inserting, rather than run to completion,
// once rt's accounted memory reaches ceiling bytes. Unlike
// zmalloc.Runtime's OOM handler (which only fires on an actual
// allocation failure, something Go's own allocator essentially never
// reports back to user code), this check runs proactively against the
// live counter so -oom-ceiling-bytes in the run config does what its
// name says for a CLI demo run.
func (s *shard) setCeiling(ceiling int64) {
	s.ceilingBytes = ceiling
}

// load inserts up to n random-valued keys into the shard, advancing
// rehashing as a normal side effect of every Add call (dict's own
// incremental rehash, not anything this CLI drives directly). It stops
// early, returning the number of keys actually inserted, once the
// shard's configured ceiling (if any) is reached.
func (s *shard) load(n, valueSize int) int {
	for i := 0; i < n; i++ {
		if s.ceilingBytes > 0 && s.rt.UsedMemory() >= s.ceilingBytes {
			return i
		}
		key := fmt.Sprintf("%s/key-%d", s.name, i)
		val := make([]byte, valueSize)
		rand.Read(val)
		_ = s.d.Add(key, val)
	}
	return n
}

// stats reports this shard's table shape for monitor's Prometheus gauges.
func (s *shard) stats() monitor.ShardStats {
	st := s.d.Stats()
	return monitor.ShardStats{
		Name:          s.name,
		Ht0Size:       st.Ht0Size,
		Ht0Used:       st.Ht0Used,
		Ht1Size:       st.Ht1Size,
		Ht1Used:       st.Ht1Used,
		Rehashing:     st.Rehashing,
		SafeIterators: st.SafeIterators,
	}
}

// chainLengthHistogram runs sample.WeightedByChainLength against the
// shard's current table, demonstrating that the bucket-then-chain-position
// sampling bias is small for a table this shape: the measurement
// cmd/corekv-bench exists to produce.
func (s *shard) chainLengthHistogram(draws int) []int {
	return sample.WeightedByChainLength(s.d, draws)
}
