// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package sds

import "bytes"

// Trim removes any leading/trailing bytes that appear in cset (a set of
// single bytes), in place. An empty cset is a no-op.
func Trim(s Handle, cset string) Handle {
	if len(cset) == 0 {
		return s
	}
	set := [256]bool{}
	for i := 0; i < len(cset); i++ {
		set[cset[i]] = true
	}
	buf := s.Bytes()
	start, end := 0, len(buf)-1
	for start <= end && set[buf[start]] {
		start++
	}
	for end >= start && set[buf[end]] {
		end--
	}
	newlen := end - start + 1
	if newlen < 0 {
		newlen = 0
	}
	raw := s.raw()
	if start > 0 && newlen > 0 {
		copy(raw[:newlen], raw[start:start+newlen])
	}
	raw[newlen] = 0
	s.slen = newlen
	return s
}

// Range retains the inclusive byte slice [start,end], in place. Negative
// indices count from the end (-1 is the last byte). start > end, or a
// start past the end of the string, collapses to the empty string.
func Range(s Handle, start, end int) Handle {
	length := s.slen
	if length == 0 {
		return s
	}
	if start < 0 {
		start = length + start
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end = length + end
		if end < 0 {
			end = 0
		}
	}
	if start >= length || start > end {
		return Clear(s)
	}
	if end >= length {
		end = length - 1
	}
	newlen := end - start + 1
	raw := s.raw()
	if start > 0 {
		copy(raw[:newlen], raw[start:start+newlen])
	}
	raw[newlen] = 0
	s.slen = newlen
	return s
}

// Cmp compares a and b lexicographically over bytes, ties broken by
// length (so a proper prefix sorts before the longer string it prefixes).
func Cmp(a, b Handle) int {
	ab, bb := a.Bytes(), b.Bytes()
	if c := bytes.Compare(ab, bb); c != 0 {
		return c
	}
	return len(ab) - len(bb)
}

// ToLower maps every ASCII uppercase byte of s to lowercase, in place.
func ToLower(s Handle) Handle {
	buf := s.raw()[:s.slen]
	for i, c := range buf {
		if c >= 'A' && c <= 'Z' {
			buf[i] = c + ('a' - 'A')
		}
	}
	return s
}

// ToUpper maps every ASCII lowercase byte of s to uppercase, in place.
func ToUpper(s Handle) Handle {
	buf := s.raw()[:s.slen]
	for i, c := range buf {
		if c >= 'a' && c <= 'z' {
			buf[i] = c - ('a' - 'A')
		}
	}
	return s
}

// MapChars replaces, in place, every byte of s equal to from[i] with
// to[i], for each i < n.
func MapChars(s Handle, from, to []byte, n int) Handle {
	if n > len(from) {
		n = len(from)
	}
	if n > len(to) {
		n = len(to)
	}
	buf := s.raw()[:s.slen]
	for j, c := range buf {
		for i := 0; i < n; i++ {
			if c == from[i] {
				buf[j] = to[i]
				break
			}
		}
	}
	return s
}
