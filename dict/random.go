// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "math/rand"

// GetRandomKey returns a random Entry among those present in d, or nil
// if d is empty. It picks a bucket uniformly at random across
// all present buckets (the concatenation of ht[0] and ht[1] while a
// rehash is in progress), resampling on an empty bucket, then a
// uniformly-random position within that bucket's chain. This biases the
// result toward keys in shorter chains, an acceptable tradeoff for
// approximate sampling (e.g. eviction scans) rather than exact weighted
// selection.
func (d *Dict[K, V]) GetRandomKey() *Entry[K, V] {
	if d.Used() == 0 {
		return nil
	}
	d.RehashStep(1)

	var t *table[K, V]
	var idx int
	if d.isRehashing() {
		// Sample across both tables' buckets, weighted by their sizes,
		// so every present bucket is equally likely regardless of which
		// table it currently lives in.
		total := d.ht[0].size + d.ht[1].size
		for {
			pick := rand.Intn(total)
			if pick < d.ht[0].size {
				t, idx = &d.ht[0], pick
			} else {
				t, idx = &d.ht[1], pick-d.ht[0].size
			}
			if t.buckets[idx] != nil {
				break
			}
		}
	} else {
		t = &d.ht[0]
		for {
			idx = rand.Intn(t.size)
			if t.buckets[idx] != nil {
				break
			}
		}
	}

	length := 0
	for e := t.buckets[idx]; e != nil; e = e.next {
		length++
	}
	pos := rand.Intn(length)
	e := t.buckets[idx]
	for i := 0; i < pos; i++ {
		e = e.next
	}
	return e
}
