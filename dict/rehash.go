// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "github.com/aristanetworks/corekv/monotime"

// RehashStep migrates up to n non-empty buckets from ht[0] to ht[1],
// skipping empty buckets along the way. It is a no-op if no rehash is in
// progress (returning false) or if a safe iterator is currently live
// (returning true, as the rehash is still incomplete): the latter is the
// entire safety guarantee a safe iterator offers.
// Returns true while rehashing remains incomplete after the step.
func (d *Dict[K, V]) RehashStep(n int) bool {
	if !d.isRehashing() {
		return false
	}
	if d.iterators > 0 {
		return true
	}
	for ; n > 0 && d.ht[0].used != 0; n-- {
		for d.ht[0].buckets[d.rehashidx] == nil {
			d.rehashidx++
		}
		e := d.ht[0].buckets[d.rehashidx]
		for e != nil {
			next := e.next
			idx := int(d.hash(e.key)) & d.ht[1].sizemask
			e.next = d.ht[1].buckets[idx]
			d.ht[1].buckets[idx] = e
			d.ht[0].used--
			d.ht[1].used++
			e = next
		}
		d.ht[0].buckets[d.rehashidx] = nil
		d.rehashidx++
	}
	if d.ht[0].used == 0 {
		d.runtime().Free(d.ht[0].acct)
		d.ht[0] = d.ht[1]
		d.ht[1] = table[K, V]{}
		d.rehashidx = -1
		return false
	}
	return true
}

// RehashMillis repeatedly calls RehashStep(100) until rehashing
// completes or the elapsed wall-clock time exceeds ms milliseconds,
// using monotime's fast monotonic clock so a slow scheduler tick can't
// make this run longer than intended. Returns true if rehashing is
// still in progress when it returns.
func (d *Dict[K, V]) RehashMillis(ms int64) bool {
	if !d.isRehashing() {
		return false
	}
	start := monotime.Now()
	budget := ms * 1_000_000 // ms -> ns
	for {
		if !d.RehashStep(100) {
			return false
		}
		if int64(monotime.Now()-start) > budget {
			return true
		}
	}
}
