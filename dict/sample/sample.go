// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package sample hosts helpers that measure the chain-length bias
// accepted by dict.GetRandomKey: picking a bucket uniformly at random
// and then a uniformly random chain position favors keys in short
// chains, which a caller sampling for approximate TTL eviction can
// accept in exchange for O(1) expected sampling cost instead of an
// exact weighted draw.
//
// This mirrors the bucket-then-offset randomization scheme Go's own
// (unordered) map iteration uses internally: the same bias shows up
// whenever a container samples by bucket first and element second.
package sample

import "math/rand"

// ChainLens is a caller-supplied view over a container's buckets: it
// reports how many buckets there are (empty ones included) and the
// chain length of the i'th one. dict.Dict and any other bucketed
// container can adapt to this interface without sample importing dict,
// keeping the random-sampling math independent of dict's generic
// parameters.
type ChainLens interface {
	NumBuckets() int
	ChainLen(i int) int
}

// WeightedByChainLength draws n independent samples the same way
// dict.GetRandomKey does: a uniformly random present bucket, then a
// uniformly random position in that bucket's chain, and returns, for
// each of c's buckets, how many of the n draws landed in it. This is a
// measurement helper (used by cmd/corekv-bench to report how skewed the
// bias actually is for a given table shape), not a replacement for
// GetRandomKey.
func WeightedByChainLength(c ChainLens, n int) []int {
	nb := c.NumBuckets()
	counts := make([]int, nb)
	if nb == 0 {
		return counts
	}
	// Build the list of non-empty bucket indices once: resampling on an
	// empty bucket (as GetRandomKey does) is equivalent in distribution
	// to sampling directly from this list, and far cheaper for a
	// measurement loop run thousands of times.
	var present []int
	for i := 0; i < nb; i++ {
		if c.ChainLen(i) > 0 {
			present = append(present, i)
		}
	}
	if len(present) == 0 {
		return counts
	}
	for s := 0; s < n; s++ {
		i := present[rand.Intn(len(present))]
		counts[i]++
	}
	return counts
}
