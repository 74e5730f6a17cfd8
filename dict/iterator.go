// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

// Iterator walks a Dict's entries in bucket-layout order (not insertion
// order); that order is not stable across a resize. An unsafe Iterator
// does not suppress rehashing: the caller must not mutate d during the
// scan. Use SafeIterator for a scan that may interleave Add/Find/Delete.
type Iterator[K, V any] struct {
	d         *Dict[K, V]
	table     int
	bucketIdx int
	entry     *Entry[K, V]
	nextEntry *Entry[K, V]
	started   bool
}

// Iterator returns a Fresh unsafe iterator over d.
func (d *Dict[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{d: d, table: 0, bucketIdx: -1}
}

// Next advances the iterator and returns the next Entry, or nil once the
// iterator is Exhausted.
func (it *Iterator[K, V]) Next() *Entry[K, V] {
	d := it.d
	for {
		if it.entry == nil {
			it.bucketIdx++
			if it.bucketIdx >= d.ht[it.table].size {
				if d.isRehashing() && it.table == 0 {
					it.table = 1
					it.bucketIdx = 0
				} else {
					return nil
				}
			}
			if d.ht[it.table].size == 0 {
				return nil
			}
			it.entry = d.ht[it.table].buckets[it.bucketIdx]
		} else {
			it.entry = it.nextEntry
		}
		if it.entry != nil {
			it.nextEntry = it.entry.next
			return it.entry
		}
	}
}

// SafeIterator is an Iterator that suppresses rehashing for its
// lifetime: while at least one SafeIterator is live, RehashStep is a
// no-op, so the caller may freely Add/Find/Delete (other than the
// entry currently being visited) without losing or duplicating entries.
type SafeIterator[K, V any] struct {
	Iterator[K, V]
	incremented bool
}

// SafeIterator returns a Fresh safe iterator over d. The iterator count
// is incremented on the first call to Next, not here.
func (d *Dict[K, V]) SafeIterator() *SafeIterator[K, V] {
	return &SafeIterator[K, V]{Iterator: Iterator[K, V]{d: d, table: 0, bucketIdx: -1}}
}

// Next advances the safe iterator, incrementing the dictionary's live
// safe-iterator counter on its first call.
func (it *SafeIterator[K, V]) Next() *Entry[K, V] {
	if !it.incremented {
		it.incremented = true
		it.d.iterators++
	}
	return it.Iterator.Next()
}

// Release decrements the dictionary's live safe-iterator counter, but
// only if this iterator had incremented it (i.e. at least one Next call
// happened). Calling Release more than once, or without ever calling
// Next, is safe and a no-op beyond the first.
func (it *SafeIterator[K, V]) Release() {
	if it.incremented {
		it.d.iterators--
		it.incremented = false
	}
}
