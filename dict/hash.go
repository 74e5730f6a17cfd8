// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package dict

import "sync/atomic"

// seed is the process-wide hash seed, threaded explicitly through every
// hash call but with a package-level default so existing callers that
// don't care about seed isolation keep working unmodified. Rehashing
// never changes the seed.
var seed uint32 = 5381

// Seed returns the current process-wide hash seed.
func Seed() uint32 { return atomic.LoadUint32(&seed) }

// SetSeed installs s as the process-wide hash seed used by HashBytes and
// HashBytesCI through the Type constructors in types.go. It does not
// affect any Dict already populated with entries hashed under the old
// seed: rehashing does not change the seed, so changing it mid-flight
// would desynchronize existing buckets. SetSeed is meant for
// configuration time, before any Dict using the default Type
// constructors is created.
func SetSeed(s uint32) { atomic.StoreUint32(&seed, s) }

// HashInt32 is the Thomas Wang 32-bit integer mix, widened to a 64-bit
// return so it composes with HashBytes/HashBytesCI's return type.
func HashInt32(_ uint32, x int32) uint64 {
	key := uint32(x)
	key = ^key + (key << 15) // key = (key << 15) - key - 1
	key = key ^ (key >> 12)
	key = key + (key << 2)
	key = key ^ (key >> 4)
	key = key * 2057 // key = (key + (key << 3)) + (key << 11)
	key = key ^ (key >> 16)
	return uint64(key)
}

// HashInt64 extends HashInt32's mix to 64-bit keys by mixing the high
// and low 32-bit halves independently and folding them together, giving
// Int64Type/Uint64Type the same avalanche behaviour as the 32-bit mixer
// without truncating 64-bit keys to 32 bits.
func HashInt64(seed uint32, x int64) uint64 {
	lo := HashInt32(seed, int32(x))
	hi := HashInt32(seed, int32(x>>32))
	return lo ^ (hi*0x9e3779b97f4a7c15 + lo<<6 + lo>>2)
}

// HashBytes is a MurmurHash2-equivalent byte-array hash seeded by seed.
func HashBytes(seed uint32, data []byte) uint64 {
	const (
		m = 0x5bd1e995
		r = 24
	)
	h := seed ^ uint32(len(data))
	for len(data) >= 4 {
		k := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
		data = data[4:]
	}
	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= m
	}
	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return uint64(h)
}

// HashBytesCI is the case-insensitive DJB recurrence h = h*33 +
// tolower(b), seeded identically to HashBytes.
func HashBytesCI(seed uint32, data []byte) uint64 {
	h := seed
	for _, c := range data {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h = h*33 + uint32(c)
	}
	return uint64(h)
}
