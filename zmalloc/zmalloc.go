// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package zmalloc is the tracked allocation layer underneath sds and dict:
// every resize/free in those packages flows through a Runtime so the
// process always knows its in-memory footprint.
//
// Go's heap is managed, so there is no raw malloc/free to wrap; instead a
// Block is a []byte-backed handle whose accounted size is its capacity, and
// Runtime keeps a running counter of the accounted size of every live
// Block, without hand-rolling a header that Go's own runtime already
// tracks for us via cap().
package zmalloc

import (
	"sync/atomic"

	"github.com/aristanetworks/corekv/logger"
)

// Block is a tracked, resizable byte region. The zero Block is a valid
// nil allocation (Realloc(Block{}, n) behaves like Alloc(n), matching the
// "a nil p is equivalent to alloc(n)" contract).
type Block struct {
	buf []byte
}

// Bytes returns the live (length-bounded) contents of the block.
func (b Block) Bytes() []byte { return b.buf }

// Len returns len(b.Bytes()).
func (b Block) Len() int { return len(b.buf) }

// Cap returns the accounted size of the block (its usable capacity).
func (b Block) Cap() int { return cap(b.buf) }

// IsNil reports whether b is the zero Block.
func (b Block) IsNil() bool { return b.buf == nil }

// OOMHandler is invoked with the size of the failing request before the
// default fatal policy (log + panic) runs. Returning does not suppress the
// panic: corekv never silently recovers from OOM.
type OOMHandler func(requested int)

// Runtime is the "small runtime context value" standing in for zmalloc's
// process-wide globals: the live-byte counter, the installed OOM handler,
// and the logger used to report OOM.
type Runtime struct {
	used   int64        // always updated atomically: single-writer callers pay a no-op CAS-free add
	oom    atomic.Value // stores OOMHandler
	logger atomic.Value // stores *logger.Logger (a pointer, so a nil Logger can be stored)
}

// Default is the process-wide Runtime used by sds and dict when callers
// don't construct their own. Tests that need an isolated counter should
// construct their own *Runtime instead of sharing Default.
var Default = New()

// New returns a fresh, independent Runtime with no OOM handler installed
// (the default policy applies: log via the configured logger, if any, then
// panic).
func New() *Runtime {
	return &Runtime{}
}

// SetOOMHandler installs fn as the handler invoked on allocation failure,
// before the default fatal policy runs.
func (r *Runtime) SetOOMHandler(fn OOMHandler) {
	r.oom.Store(fn)
}

// SetLogger installs the logger used to report OOM and other fatal
// conditions. A nil logger (the default) makes reporting silent.
func (r *Runtime) SetLogger(l logger.Logger) {
	r.logger.Store(&l)
}

// EnableThreadSafety is a no-op: Runtime's counter is always updated
// atomically in this implementation (Go gives us that for free). It is
// kept so callers that call it unconditionally keep compiling.
func (r *Runtime) EnableThreadSafety() {}

// UsedMemory returns the current live-byte counter.
func (r *Runtime) UsedMemory() int64 {
	return atomic.LoadInt64(&r.used)
}

func (r *Runtime) add(delta int) {
	atomic.AddInt64(&r.used, int64(delta))
}

func (r *Runtime) oomHandler() OOMHandler {
	if h, ok := r.oom.Load().(OOMHandler); ok {
		return h
	}
	return nil
}

func (r *Runtime) fail(requested int) {
	if h := r.oomHandler(); h != nil {
		h(requested)
	}
	if l, ok := r.logger.Load().(*logger.Logger); ok && *l != nil {
		(*l).Errorf("zmalloc: out of memory requesting %d bytes", requested)
	}
	panic("zmalloc: out of memory")
}

// Alloc returns a Block of n freshly allocated, uninitialized bytes.
func (r *Runtime) Alloc(n int) Block {
	if n < 0 {
		r.fail(n)
	}
	buf := make([]byte, n)
	r.add(cap(buf))
	return Block{buf: buf}
}

// Calloc returns a Block of n freshly allocated, zeroed bytes. Go's make
// already zeroes, so this is Alloc in disguise; kept as a distinct method
// so callers can express "I need this zeroed" explicitly.
func (r *Runtime) Calloc(n int) Block {
	return r.Alloc(n)
}

// Realloc resizes p to n bytes, preserving the overlapping prefix. A nil
// (zero) p behaves like Alloc(n).
func (r *Runtime) Realloc(p Block, n int) Block {
	oldCap := p.Cap()
	nb := make([]byte, n)
	copy(nb, p.buf)
	r.add(cap(nb) - oldCap)
	return Block{buf: nb}
}

// Free releases p, decrementing the counter by its accounted size. Freeing
// the zero Block is a no-op.
func (r *Runtime) Free(p Block) {
	if p.IsNil() {
		return
	}
	r.add(-p.Cap())
}

// Strdup allocates and copies a NUL-terminated rendition of s: the
// returned Block holds len(s)+1 bytes with a trailing zero byte, mirroring
// the C strdup contract sds.NewFromCString builds on.
func (r *Runtime) Strdup(s string) Block {
	b := r.Alloc(len(s) + 1)
	copy(b.buf, s)
	b.buf[len(s)] = 0
	return b
}
