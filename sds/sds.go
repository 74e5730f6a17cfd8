// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package sds implements a growable, length-prefixed, binary-safe
// character buffer: a dynamic string that is also a valid C-style string
// whenever it contains no embedded NUL bytes.
//
// A Handle is a lightweight value (a backing zmalloc.Block plus a length)
// rather than a pointer-past-a-header, since Go has no pointer arithmetic
// to hide a header behind; every operation that would mutate or relocate
// the buffer in place instead returns a possibly-new Handle, so callers
// must always use the returned value, never the one passed in.
package sds

import (
	"github.com/aristanetworks/corekv/zmalloc"
)

// maxPreallocBytes is the growth-policy ceiling: above this many bytes,
// MakeRoom grows linearly by maxPreallocBytes instead of doubling. This
// constant must not be tuned away.
const maxPreallocBytes = 1 << 20

// Handle is a dynamic string. The zero Handle is not valid; use Empty() or
// New() to construct one. A Handle of length zero is distinct from a nil
// Handle; both are valid.
type Handle struct {
	rt   *zmalloc.Runtime
	blk  zmalloc.Block // buf[:len] is data, buf[len] is a trailing 0, buf[len+1:cap] is free
	slen int
}

func (s Handle) runtime() *zmalloc.Runtime {
	if s.rt != nil {
		return s.rt
	}
	return zmalloc.Default
}

// raw returns the full backing array, valid through buf[cap(buf)-1].
func (s Handle) raw() []byte { return s.blk.Bytes()[:cap(s.blk.Bytes())] }

func withRuntime(rt *zmalloc.Runtime, bytes []byte) Handle {
	if rt == nil {
		rt = zmalloc.Default
	}
	n := len(bytes)
	blk := rt.Alloc(n + 1)
	buf := blk.Bytes()
	copy(buf, bytes)
	buf[n] = 0
	return Handle{rt: rt, blk: blk, slen: n}
}

// New returns a new Handle holding a copy of bytes.
func New(bytes []byte) Handle {
	return withRuntime(nil, bytes)
}

// NewWithRuntime is New but accounts allocations against rt instead of the
// package-wide zmalloc.Default.
func NewWithRuntime(rt *zmalloc.Runtime, bytes []byte) Handle {
	return withRuntime(rt, bytes)
}

// NewFromCString returns a new Handle holding a copy of s's bytes (s is
// treated as already NUL-free, Go strings carry no terminator of their
// own).
func NewFromCString(s string) Handle {
	return New([]byte(s))
}

// Empty returns a new, zero-length Handle.
func Empty() Handle {
	return New(nil)
}

// Dup returns an independent copy of s.
func Dup(s Handle) Handle {
	return withRuntime(s.rt, s.Bytes())
}

// Free releases s's backing storage. Calling Free on an already-freed or
// zero Handle is a no-op.
func Free(s Handle) {
	if s.blk.IsNil() {
		return
	}
	s.runtime().Free(s.blk)
}

// Len returns the number of valid data bytes in s.
func Len(s Handle) int { return s.slen }

// Avail returns the spare capacity (free bytes) available before the next
// MakeRoom would need to reallocate.
func Avail(s Handle) int {
	total := cap(s.raw())
	if total == 0 {
		return 0
	}
	// total includes the trailing NUL byte, which is not spare capacity.
	return total - s.slen - 1
}

// AllocSize returns the total accounted size of s's backing allocation.
func AllocSize(s Handle) int { return s.blk.Cap() }

// Bytes returns the valid data bytes of s (length slen, no trailing NUL).
func (s Handle) Bytes() []byte {
	if s.blk.IsNil() {
		return nil
	}
	return s.raw()[:s.slen]
}

// String returns the valid data bytes of s as a Go string.
func (s Handle) String() string {
	return string(s.Bytes())
}

// growCapFor computes MakeRoom's growth policy: below 1MiB the new total
// capacity doubles (len+add)*2; at or above it, it grows linearly by
// maxPreallocBytes.
func growCapFor(newLen int) int {
	if newLen < maxPreallocBytes {
		return newLen * 2
	}
	return newLen + maxPreallocBytes
}

// MakeRoom ensures Avail(s) >= add, reallocating (and copying) if needed.
// It never changes Len(s) or the existing contents. Returns the
// (possibly relocated) Handle.
func MakeRoom(s Handle, add int) Handle {
	if add <= 0 || Avail(s) >= add {
		return s
	}
	newLen := s.slen + add
	newCap := growCapFor(newLen) + 1 // +1 for the trailing NUL
	rt := s.runtime()
	nb := rt.Realloc(s.blk, newCap)
	return Handle{rt: rt, blk: nb, slen: s.slen}
}

// IncrLen moves delta bytes from the free region into the data region (or
// the reverse, if delta is negative), then reasserts the trailing NUL.
// IncrLen panics if delta is positive and exceeds Avail(s). It enables
// the reserve/fill-externally/
// commit idiom: MakeRoom, write into Bytes()[Len():][:delta] out of band,
// then IncrLen(s, delta).
func IncrLen(s Handle, delta int) Handle {
	if delta > 0 && delta > Avail(s) {
		panic("sds: IncrLen: delta exceeds available capacity")
	}
	if delta < 0 && -delta > s.slen {
		panic("sds: IncrLen: delta exceeds current length")
	}
	s.slen += delta
	s.raw()[s.slen] = 0
	return s
}

// CatLen appends the first n bytes of t to s.
func CatLen(s Handle, t []byte, n int) Handle {
	if n > len(t) {
		n = len(t)
	}
	s = MakeRoom(s, n)
	buf := s.raw()
	copy(buf[s.slen:], t[:n])
	s.slen += n
	buf[s.slen] = 0
	return s
}

// Cat appends all of t to s.
func Cat(s Handle, t []byte) Handle {
	return CatLen(s, t, len(t))
}

// CatSds appends the contents of t to s.
func CatSds(s, t Handle) Handle {
	return CatLen(s, t.Bytes(), t.slen)
}

// CpyLen replaces the contents of s with the first n bytes of t,
// reallocating if needed.
func CpyLen(s Handle, t []byte, n int) Handle {
	if n > len(t) {
		n = len(t)
	}
	if cap(s.raw()) < n+1 {
		rt := s.runtime()
		nb := rt.Realloc(s.blk, growCapFor(n)+1)
		s = Handle{rt: rt, blk: nb, slen: 0}
	}
	buf := s.raw()
	copy(buf, t[:n])
	buf[n] = 0
	s.slen = n
	return s
}

// Cpy replaces the contents of s with all of t.
func Cpy(s Handle, t []byte) Handle {
	return CpyLen(s, t, len(t))
}

// Clear sets Len(s) to zero but preserves the allocated capacity.
func Clear(s Handle) Handle {
	s.slen = 0
	s.raw()[0] = 0
	return s
}

// UpdateLen recomputes Len(s) as the C-string length of the backing
// buffer (the index of the first zero byte), for use after a foreign
// writer has filled the buffer directly (e.g. via Bytes()[:cap]).
func UpdateLen(s Handle) Handle {
	buf := s.raw()
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	s.slen = n
	return s
}

// RemoveFreeSpace reallocates s so that Avail(s) == 0.
func RemoveFreeSpace(s Handle) Handle {
	rt := s.runtime()
	nb := rt.Realloc(s.blk, s.slen+1)
	buf := nb.Bytes()
	buf[s.slen] = 0
	return Handle{rt: rt, blk: nb, slen: s.slen}
}

// GrowZero grows Len(s) to at least n, zero-filling newly exposed bytes.
// If Len(s) >= n already, s is returned unchanged.
func GrowZero(s Handle, n int) Handle {
	if n <= s.slen {
		return s
	}
	s = MakeRoom(s, n-s.slen)
	buf := s.raw()
	for i := s.slen; i < n; i++ {
		buf[i] = 0
	}
	s.slen = n
	buf[s.slen] = 0
	return s
}
