// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Arista Networks, Inc. Confidential and Proprietary.

package test

import "github.com/kylelemons/godebug/diff"

// UnifiedDiff renders a line-by-line diff of two multi-line strings,
// for tests comparing rendered output (e.g. a formatted dict.Stats
// dump or an sds dump) where Diff's struct-walking report is less
// readable than seeing the two texts side by side.
func UnifiedDiff(want, got string) string {
	return diff.Diff(want, got)
}
