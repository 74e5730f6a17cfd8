// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package zmalloc

// Alloc allocates n bytes from the process-wide Default Runtime.
func Alloc(n int) Block { return Default.Alloc(n) }

// Calloc allocates n zeroed bytes from the process-wide Default Runtime.
func Calloc(n int) Block { return Default.Calloc(n) }

// Realloc resizes p to n bytes using the process-wide Default Runtime.
func Realloc(p Block, n int) Block { return Default.Realloc(p, n) }

// Free releases p via the process-wide Default Runtime.
func Free(p Block) { Default.Free(p) }

// Strdup allocates a NUL-terminated copy of s via the Default Runtime.
func Strdup(s string) Block { return Default.Strdup(s) }

// UsedMemory returns the Default Runtime's live-byte counter.
func UsedMemory() int64 { return Default.UsedMemory() }

// SetOOMHandler installs fn on the Default Runtime.
func SetOOMHandler(fn OOMHandler) { Default.SetOOMHandler(fn) }

// EnableThreadSafety is a no-op kept for API parity; see Runtime.EnableThreadSafety.
func EnableThreadSafety() { Default.EnableThreadSafety() }
