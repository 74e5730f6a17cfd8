// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dict implements a generic, chained hash table that rehashes
// incrementally: growth and shrinkage never copy the whole table in a
// single call, so an operation's latency stays bounded even with millions
// of entries live. It is the container on which a key-value database's
// commands and objects would be built; dict itself knows nothing about
// encoding, expiry or persistence. It stores opaque keys and values
// under caller-supplied hashing, equality, duplication and destruction
// callbacks (the Type descriptor).
//
// The generic-parameter API shape (New[K,V], Set/Get/Delete over a
// hash+equal pair) follows the style of a small generic hash map; the
// two-table, incrementally-migrating structure follows the Go runtime's
// own map implementation, simplified from its 8-slot-per-bucket scheme
// down to a singly-linked chain per bucket.
package dict

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/aristanetworks/corekv/errs"
	"github.com/aristanetworks/corekv/zmalloc"
	"golang.org/x/exp/constraints"
)

// Type bundles the callbacks that parameterize a Dict's key/value
// semantics. Any field may be left nil, in which case a default applies:
// Hash has no default (a nil Hash panics on first use),
// KeyDup/ValDup default to identity, KeyEqual defaults to Go's built-in
// == over comparable keys, and KeyFree/ValFree default to no-ops. Every
// callback receives Privdata so it may carry external state.
type Type[K, V any] struct {
	Hash     func(privdata any, key K) uint64
	KeyDup   func(privdata any, key K) K
	ValDup   func(privdata any, val V) V
	KeyEqual func(privdata any, a, b K) bool
	KeyFree  func(privdata any, key K)
	ValFree  func(privdata any, val V)
}

// Entry is one key/value cell, returned by AddRaw, ReplaceRaw and Find
// so callers can read or overwrite its value in place without a second
// lookup. Entries within a bucket form a singly linked chain with
// insertion at the head.
type Entry[K, V any] struct {
	key  K
	val  V
	next *Entry[K, V]
}

// Val returns the entry's current value.
func (e *Entry[K, V]) Val() V { return e.val }

// SetVal overwrites the entry's value in place.
func (e *Entry[K, V]) SetVal(v V) { e.val = v }

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

type table[K, V any] struct {
	buckets  []*Entry[K, V]
	size     int // power of two, or 0
	sizemask int // size - 1
	used     int
	acct     zmalloc.Block // phantom allocation tracking this table's bucket array
}

// Dict is a polymorphic, incrementally-rehashing chained hash table.
// The zero Dict is not valid; use Create.
type Dict[K, V any] struct {
	typ       *Type[K, V]
	privdata  any
	ht        [2]table[K, V]
	rehashidx int // -1 when no rehash is in progress
	iterators int // count of live safe iterators; gates rehashing

	resize *ResizePolicy
	rt     *zmalloc.Runtime // accounts bucket-array allocations; nil means zmalloc.Default
}

func (d *Dict[K, V]) runtime() *zmalloc.Runtime {
	if d.rt != nil {
		return d.rt
	}
	return zmalloc.Default
}

const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// ResizePolicy is the "may dict resize the table" flag consulted by
// Resize and by the automatic growth on insert. A nil *ResizePolicy
// defers to DefaultResizePolicy.
type ResizePolicy struct {
	enabled bool
}

// DefaultResizePolicy is the package-wide resize policy Dicts use when
// Create is not given one explicitly, with resizing enabled.
var DefaultResizePolicy = &ResizePolicy{enabled: true}

// NewResizePolicy returns a ResizePolicy with resizing enabled, suitable
// for a Dict that must manage its own growth independent of other Dicts
// sharing the process (e.g. one shard of a sharded cache that wants to
// freeze growth while a copy-on-write snapshot of just that shard is
// alive).
func NewResizePolicy() *ResizePolicy {
	return &ResizePolicy{enabled: true}
}

// Enable allows Resize and the automatic growth on insert to resize the
// table.
func (p *ResizePolicy) Enable() { p.enabled = true }

// Disable rejects Resize and suppresses the automatic growth on insert
// except for the load-factor safety valve (used/size > 5): this keeps
// expected O(1) access even while resizing is paused to avoid disturbing
// a forked child's copy-on-write pages. An explicit Expand is not
// affected.
func (p *ResizePolicy) Disable() { p.enabled = false }

func (p *ResizePolicy) allowed() bool {
	if p == nil {
		return DefaultResizePolicy.enabled
	}
	return p.enabled
}

// EnableResize enables DefaultResizePolicy.
func EnableResize() { DefaultResizePolicy.Enable() }

// DisableResize disables DefaultResizePolicy.
func DisableResize() { DefaultResizePolicy.Disable() }

// Create returns a fresh Dict. typ must not be nil; privdata is threaded
// through to every Type callback unmodified. Both sub-tables start
// empty and no rehash is in progress.
func Create[K, V any](typ *Type[K, V], privdata any) *Dict[K, V] {
	return CreateWithResizePolicy(typ, privdata, nil)
}

// CreateWithResizePolicy is Create but lets the caller pin the Dict to a
// specific ResizePolicy instead of DefaultResizePolicy, used when a
// group of Dicts (e.g. shards of one cache) must be frozen together.
func CreateWithResizePolicy[K, V any](typ *Type[K, V], privdata any, policy *ResizePolicy) *Dict[K, V] {
	return CreateWithRuntime(typ, privdata, policy, nil)
}

// CreateWithRuntime is CreateWithResizePolicy but additionally lets the
// caller account the Dict's bucket-array allocations against rt instead
// of zmalloc.Default. Entries themselves are ordinary Go heap values;
// the two sub-tables' backing arrays are the allocations dict itself
// owns, so those flow through rt.
func CreateWithRuntime[K, V any](typ *Type[K, V], privdata any, policy *ResizePolicy, rt *zmalloc.Runtime) *Dict[K, V] {
	if typ == nil {
		typ = &Type[K, V]{}
	}
	return &Dict[K, V]{
		typ:       typ,
		privdata:  privdata,
		rehashidx: -1,
		resize:    policy,
		rt:        rt,
	}
}

func (d *Dict[K, V]) isRehashing() bool { return d.rehashidx != -1 }

func (d *Dict[K, V]) hash(k K) uint64 {
	if d.typ.Hash == nil {
		panic("dict: Type.Hash must be set")
	}
	return d.typ.Hash(d.privdata, k)
}

func (d *Dict[K, V]) keyEqual(a, b K) bool {
	if d.typ.KeyEqual != nil {
		return d.typ.KeyEqual(d.privdata, a, b)
	}
	return defaultEqual(a, b)
}

func (d *Dict[K, V]) dupKey(k K) K {
	if d.typ.KeyDup != nil {
		return d.typ.KeyDup(d.privdata, k)
	}
	return k
}

func (d *Dict[K, V]) dupVal(v V) V {
	if d.typ.ValDup != nil {
		return d.typ.ValDup(d.privdata, v)
	}
	return v
}

func (d *Dict[K, V]) freeKey(k K) {
	if d.typ.KeyFree != nil {
		d.typ.KeyFree(d.privdata, k)
	}
}

func (d *Dict[K, V]) freeVal(v V) {
	if d.typ.ValFree != nil {
		d.typ.ValFree(d.privdata, v)
	}
}

// Used returns ht[0].used + ht[1].used: the number of entries in d.
func (d *Dict[K, V]) Used() int {
	return d.ht[0].used + d.ht[1].used
}

// nextPowerOfTwo returns the smallest power of two >= n (n >= 1). It is
// generic over constraints.Integer rather than pinned to int so the same
// helper covers both dict's bucket-count arithmetic (int) and any
// size-class rounding a caller does in a narrower integer type.
func nextPowerOfTwo[T constraints.Integer](n T) T {
	if n <= 1 {
		return 1
	}
	return T(1) << bits.Len(uint(n-1))
}

// expandIfNeeded runs the "when to expand" decision before an insert: if
// no rehash is in progress and ht[0] is empty, allocate it at size 4;
// otherwise, once used >= size, double the capacity if resizing is
// permitted, or unconditionally once the load factor exceeds 5 (the
// safety valve that preserves O(1) expected access even while resizing
// is paused).
func (d *Dict[K, V]) expandIfNeeded() {
	if d.isRehashing() {
		return
	}
	if d.ht[0].size == 0 {
		d.expand(4)
		return
	}
	if d.ht[0].used >= d.ht[0].size {
		if d.resize.allowed() || float64(d.ht[0].used)/float64(d.ht[0].size) > 5 {
			d.expand(d.ht[0].size * 2)
		}
	}
}

// expand installs a new table of the smallest power of two >= size as
// either ht[0] (if it was empty) or ht[1] (entering rehash state).
func (d *Dict[K, V]) expand(size int) error {
	if d.isRehashing() {
		return errs.RehashBusy("dict.Expand")
	}
	realSize := nextPowerOfTwo(size)
	if realSize < 4 {
		realSize = 4
	}
	if d.ht[0].size != 0 && realSize == d.ht[0].size {
		return nil
	}
	n := table[K, V]{
		buckets:  make([]*Entry[K, V], realSize),
		size:     realSize,
		sizemask: realSize - 1,
		acct:     d.runtime().Alloc(realSize * ptrSize),
	}
	if d.ht[0].size == 0 {
		d.ht[0] = n
		return nil
	}
	d.ht[1] = n
	d.rehashidx = 0
	return nil
}

// Expand ensures capacity for n entries, rounding n up to the next power
// of two. It is rejected (KindRehashBusy) while a rehash is in progress,
// and rejected if the rounded size is smaller than Used().
func (d *Dict[K, V]) Expand(n int) error {
	if d.isRehashing() {
		return errs.RehashBusy("dict.Expand")
	}
	size := nextPowerOfTwo(n)
	if size < 4 {
		size = 4
	}
	if size < d.Used() {
		return &errs.Error{Kind: errs.KindRehashBusy, Op: "dict.Expand", Detail: "requested size smaller than current Used()"}
	}
	return d.expand(size)
}

// Resize shrinks or grows the table to the smallest power of two >=
// max(Used(), 4), provided resizing is enabled and no rehash is already
// in progress.
func (d *Dict[K, V]) Resize() error {
	if !d.resize.allowed() {
		return &errs.Error{Kind: errs.KindRehashBusy, Op: "dict.Resize", Detail: "resize disabled"}
	}
	if d.isRehashing() {
		return errs.RehashBusy("dict.Resize")
	}
	minimal := d.Used()
	if minimal < 4 {
		minimal = 4
	}
	return d.expand(minimal)
}

// findEntry returns the table index (0 or 1) holding k and k's entry in
// that table, or (-1, nil) if k isn't present in either table. It does not advance rehashing; callers that should
// advance rehash call RehashStep first.
func (d *Dict[K, V]) findEntry(k K) (int, *Entry[K, V]) {
	h := d.hash(k)
	for ti := 0; ti <= 1; ti++ {
		t := &d.ht[ti]
		if t.size == 0 {
			if ti == 0 {
				continue
			}
			break
		}
		idx := int(h) & t.sizemask
		for e := t.buckets[idx]; e != nil; e = e.next {
			if d.keyEqual(e.key, k) {
				return ti, e
			}
		}
		if !d.isRehashing() {
			break
		}
	}
	return -1, nil
}

// Find returns the entry for k, or nil if absent. It advances rehashing
// by one step, like every other mutating or lookup call.
func (d *Dict[K, V]) Find(k K) *Entry[K, V] {
	if d.Used() == 0 {
		return nil
	}
	d.RehashStep(1)
	_, e := d.findEntry(k)
	return e
}

// FetchValue returns the value for k and whether it was present,
// advancing rehashing by one step.
func (d *Dict[K, V]) FetchValue(k K) (V, bool) {
	e := d.Find(k)
	if e == nil {
		var zero V
		return zero, false
	}
	return e.val, true
}

// AddRaw inserts k with its value left at the zero value of V, returning
// the new Entry so the caller can set it directly. Returns nil if k is
// already present. The key is duplicated via the Type's KeyDup. Advances
// rehashing by one step.
func (d *Dict[K, V]) AddRaw(k K) *Entry[K, V] {
	d.RehashStep(1)
	if _, e := d.findEntry(k); e != nil {
		return nil
	}
	d.expandIfNeeded()
	ti := 0
	if d.isRehashing() {
		ti = 1
	}
	t := &d.ht[ti]
	h := d.hash(k)
	idx := int(h) & t.sizemask
	e := &Entry[K, V]{key: d.dupKey(k), next: t.buckets[idx]}
	t.buckets[idx] = e
	t.used++
	return e
}

// Add inserts k with value v, failing with KindDuplicateKey if k is
// already present. The value is duplicated via the Type's ValDup.
func (d *Dict[K, V]) Add(k K, v V) error {
	e := d.AddRaw(k)
	if e == nil {
		return errs.DuplicateKey("dict.Add", k)
	}
	e.val = d.dupVal(v)
	return nil
}

// Replace inserts k with value v if absent, or overwrites the value of
// the existing entry. Returns true iff a new entry was created. When
// overwriting an existing entry, the new value is assigned *before* the
// old value is freed, so a reference-counted value identical to the new
// one survives the free.
func (d *Dict[K, V]) Replace(k K, v V) bool {
	if e := d.AddRaw(k); e != nil {
		e.val = d.dupVal(v)
		return true
	}
	_, e := d.findEntry(k)
	old := e.val
	e.val = d.dupVal(v)
	d.freeVal(old)
	return false
}

// ReplaceRaw returns the existing entry for k, or inserts a new one via
// AddRaw if absent. Unlike AddRaw, it never returns nil when memory is
// available.
func (d *Dict[K, V]) ReplaceRaw(k K) *Entry[K, V] {
	if e := d.AddRaw(k); e != nil {
		return e
	}
	_, e := d.findEntry(k)
	return e
}

func (d *Dict[K, V]) unlink(k K) (*Entry[K, V], bool) {
	d.RehashStep(1)
	h := d.hash(k)
	for ti := 0; ti <= 1; ti++ {
		t := &d.ht[ti]
		if t.size == 0 {
			if ti == 0 {
				continue
			}
			break
		}
		idx := int(h) & t.sizemask
		var prev *Entry[K, V]
		for e := t.buckets[idx]; e != nil; e = e.next {
			if d.keyEqual(e.key, k) {
				if prev == nil {
					t.buckets[idx] = e.next
				} else {
					prev.next = e.next
				}
				t.used--
				return e, true
			}
			prev = e
		}
		if !d.isRehashing() {
			break
		}
	}
	return nil, false
}

// Delete removes k, destroying its key and value via the Type's
// KeyFree/ValFree callbacks. Fails with KindMissingKey if k is absent.
func (d *Dict[K, V]) Delete(k K) error {
	e, ok := d.unlink(k)
	if !ok {
		return errs.MissingKey("dict.Delete", k)
	}
	d.freeKey(e.key)
	d.freeVal(e.val)
	return nil
}

// DeleteNoFree removes k without invoking KeyFree/ValFree: the caller
// retains ownership of the key and value. Fails with KindMissingKey if k
// is absent.
func (d *Dict[K, V]) DeleteNoFree(k K) error {
	_, ok := d.unlink(k)
	if !ok {
		return errs.MissingKey("dict.DeleteNoFree", k)
	}
	return nil
}

// Release frees both sub-tables and every entry's key/value via the
// Type's destructors.
func (d *Dict[K, V]) Release() {
	rt := d.runtime()
	for ti := 0; ti <= 1; ti++ {
		t := &d.ht[ti]
		for _, head := range t.buckets {
			for e := head; e != nil; {
				next := e.next
				d.freeKey(e.key)
				d.freeVal(e.val)
				e = next
			}
		}
		rt.Free(t.acct)
	}
	d.ht[0] = table[K, V]{}
	d.ht[1] = table[K, V]{}
	d.rehashidx = -1
}

// EmptyDict clears d's contents (freeing every entry via the Type's
// destructors) without invalidating the Dict handle itself; d is left
// usable exactly as a freshly Created dict would be.
func (d *Dict[K, V]) EmptyDict() {
	d.Release()
}

// Stats is a read-only snapshot of a Dict's internal bookkeeping, used
// by the monitor package to publish progress gauges and by callers that
// want a human-readable dump of a table's shape.
type Stats struct {
	Ht0Size      int
	Ht0Used      int
	Ht1Size      int
	Ht1Used      int
	Rehashing    bool
	RehashIdx    int
	SafeIterators int
}

// NumBuckets and ChainLen satisfy dict/sample.ChainLens structurally (no
// import needed on either side) so sample.WeightedByChainLength can
// measure a live Dict's bucket-selection bias. They view ht[0] and
// ht[1] as one concatenated bucket space, the same space GetRandomKey
// samples from while a rehash is in progress.
func (d *Dict[K, V]) NumBuckets() int {
	return d.ht[0].size + d.ht[1].size
}

// ChainLen returns the chain length of the i'th bucket in the
// concatenated ht[0]/ht[1] bucket space (see NumBuckets).
func (d *Dict[K, V]) ChainLen(i int) int {
	t := &d.ht[0]
	if i >= t.size {
		i -= t.size
		t = &d.ht[1]
	}
	n := 0
	for e := t.buckets[i]; e != nil; e = e.next {
		n++
	}
	return n
}

// Stats returns a snapshot of d's current table sizes and rehash
// progress.
func (d *Dict[K, V]) Stats() Stats {
	return Stats{
		Ht0Size:       d.ht[0].size,
		Ht0Used:       d.ht[0].used,
		Ht1Size:       d.ht[1].size,
		Ht1Used:       d.ht[1].used,
		Rehashing:     d.isRehashing(),
		RehashIdx:     d.rehashidx,
		SafeIterators: d.iterators,
	}
}

// String renders s as a multi-line report, one field per line, so two
// snapshots can be compared line-by-line in a test failure message.
func (s Stats) String() string {
	return fmt.Sprintf(
		"ht0: size=%d used=%d\nht1: size=%d used=%d\nrehashing=%v rehashidx=%d\nsafe_iterators=%d\n",
		s.Ht0Size, s.Ht0Used, s.Ht1Size, s.Ht1Used, s.Rehashing, s.RehashIdx, s.SafeIterators)
}
