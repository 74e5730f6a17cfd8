// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "github.com/aristanetworks/corekv/sds"

// defaultEqual is the identity-equality default for a nil KeyEqual
// callback: Go's interface equality, which compares by value for
// comparable underlying types (ints, strings, pointers). It panics if
// the dynamic key type is not comparable (slices, maps, funcs); callers
// with such keys must supply KeyEqual explicitly.
func defaultEqual[K any](a, b K) bool {
	return any(a) == any(b)
}

// PointerType returns a Type with no duplication, no destruction, and
// equality by the supplied equal function (the caller should set this
// explicitly since pointer-shaped Go keys are rarely comparable via the
// default unless K is itself a pointer or other comparable type),
// hashing via the supplied hash function. This is the bare-bones
// constructor callers reach for when both K and V are plain Go values
// with no special lifecycle.
func PointerType[K, V any](hash func(privdata any, key K) uint64, equal func(privdata any, a, b K) bool) *Type[K, V] {
	return &Type[K, V]{Hash: hash, KeyEqual: equal}
}

// Int64Type returns a Type for int64-keyed dictionaries using
// HashInt64's mix and Go's built-in integer equality.
func Int64Type[V any]() *Type[int64, V] {
	return &Type[int64, V]{
		Hash: func(_ any, key int64) uint64 {
			return HashInt64(Seed(), key)
		},
		KeyEqual: func(_ any, a, b int64) bool { return a == b },
	}
}

// Uint64Type is Int64Type's unsigned-key counterpart.
func Uint64Type[V any]() *Type[uint64, V] {
	return &Type[uint64, V]{
		Hash: func(_ any, key uint64) uint64 {
			return HashInt64(Seed(), int64(key))
		},
		KeyEqual: func(_ any, a, b uint64) bool { return a == b },
	}
}

// StringType returns a Type for plain Go string keys, hashing via
// HashBytes over the key's bytes. This is the ordinary case for a
// key-value database: most keys arrive as byte strings.
func StringType[V any]() *Type[string, V] {
	return &Type[string, V]{
		Hash: func(_ any, key string) uint64 {
			return HashBytes(Seed(), []byte(key))
		},
		KeyEqual: func(_ any, a, b string) bool { return a == b },
	}
}

// SdsType returns a Type for sds.Handle keys: keys are duplicated and
// freed through the sds package so the dictionary owns an independent
// copy of each key's bytes, the usual configuration when a table's keys
// are dynamic strings rather than plain Go values. With caseInsensitive
// set, keys hash via HashBytesCI and compare equal ignoring ASCII case.
func SdsType[V any](caseInsensitive bool) *Type[sds.Handle, V] {
	hashFn := HashBytes
	equal := func(_ any, a, b sds.Handle) bool { return sds.Cmp(a, b) == 0 }
	if caseInsensitive {
		hashFn = HashBytesCI
		// ASCII case-folded comparison, matching HashBytesCI's folding.
		equal = func(_ any, a, b sds.Handle) bool {
			ab, bb := a.Bytes(), b.Bytes()
			if len(ab) != len(bb) {
				return false
			}
			for i := range ab {
				if x, y := ab[i]|0x20, bb[i]|0x20; ab[i] != bb[i] && (x != y || x < 'a' || x > 'z') {
					return false
				}
			}
			return true
		}
	}
	return &Type[sds.Handle, V]{
		Hash: func(_ any, key sds.Handle) uint64 {
			return hashFn(Seed(), key.Bytes())
		},
		KeyDup: func(_ any, key sds.Handle) sds.Handle {
			return sds.Dup(key)
		},
		KeyFree: func(_ any, key sds.Handle) {
			sds.Free(key)
		},
		KeyEqual: equal,
	}
}
