// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package sds

import (
	"fmt"
	"strconv"
)

// FromLongLong returns a new Handle holding the base-10 rendition of v.
func FromLongLong(v int64) Handle {
	return New([]byte(strconv.FormatInt(v, 10)))
}

// CatVprintf appends the fmt.Sprintf rendering of format and args to s.
//
// The original allocator-probing trick (format into a scratch buffer,
// double it whenever the penultimate byte came back overwritten, and
// retry) exists only to work around vsnprintf's two-pass size-discovery
// quirk; fmt.Sprintf sizes its output exactly in one pass, so that dance
// has no idiomatic Go equivalent worth keeping. This is a direct,
// behavior-preserving port of the public contract: format, then append.
func CatVprintf(s Handle, format string, args []interface{}) Handle {
	out := fmt.Sprintf(format, args...)
	return Cat(s, []byte(out))
}

// CatPrintf appends the fmt.Sprintf rendering of format and args to s.
func CatPrintf(s Handle, format string, args ...interface{}) Handle {
	return CatVprintf(s, format, args)
}

// CatFmt appends to s per a reduced printf-style verb set tuned for the
// hot path: %s (string), %S (sds Handle), %i/%I (int, int64), %u/%U
// (uint, uint64), and %% (a literal percent). Unlike CatPrintf it never
// reflects into the fmt machinery, so it is the preferred choice when
// formatting is on a hot path (e.g. building log keys from sds values
// already in hand).
func CatFmt(s Handle, format string, args ...interface{}) Handle {
	ai := 0
	next := func() interface{} {
		if ai >= len(args) {
			panic("sds: CatFmt: too few arguments for format")
		}
		v := args[ai]
		ai++
		return v
	}
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			s = CatLen(s, []byte{c}, 1)
			i++
			continue
		}
		verb := format[i+1]
		switch verb {
		case 's':
			s = Cat(s, []byte(next().(string)))
		case 'S':
			s = CatSds(s, next().(Handle))
		case 'i':
			s = Cat(s, []byte(strconv.Itoa(next().(int))))
		case 'I':
			s = Cat(s, []byte(strconv.FormatInt(next().(int64), 10)))
		case 'u':
			s = Cat(s, []byte(strconv.FormatUint(uint64(next().(uint)), 10)))
		case 'U':
			s = Cat(s, []byte(strconv.FormatUint(next().(uint64), 10)))
		case '%':
			s = CatLen(s, []byte{'%'}, 1)
		default:
			s = CatLen(s, []byte{'%', verb}, 2)
		}
		i += 2
	}
	return s
}

// CatRepr appends a double-quoted, shell/REPL-safe rendering of p[:n] to
// s: non-printable bytes are escaped as \n \r \t \a \b or \xHH, and '"'
// and '\\' are backslash-escaped. Feeding the result to SplitArgs
// recovers the original bytes (CatRepr and SplitArgs are round-trip
// inverses).
func CatRepr(s Handle, p []byte, n int) Handle {
	if n > len(p) {
		n = len(p)
	}
	s = CatLen(s, []byte{'"'}, 1)
	for i := 0; i < n; i++ {
		c := p[i]
		switch c {
		case '\\', '"':
			s = CatLen(s, []byte{'\\', c}, 2)
		case '\n':
			s = Cat(s, []byte(`\n`))
		case '\r':
			s = Cat(s, []byte(`\r`))
		case '\t':
			s = Cat(s, []byte(`\t`))
		case '\a':
			s = Cat(s, []byte(`\a`))
		case '\b':
			s = Cat(s, []byte(`\b`))
		default:
			if c >= 32 && c < 127 {
				s = CatLen(s, []byte{c}, 1)
			} else {
				s = Cat(s, []byte(fmt.Sprintf(`\x%02x`, c)))
			}
		}
	}
	return CatLen(s, []byte{'"'}, 1)
}
