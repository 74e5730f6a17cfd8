// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package sds

import "bytes"

// SplitLen splits s on every non-overlapping occurrence of sep, returning
// an owned array of the resulting fields (including empty ones). An
// empty input yields an empty array; a nil or empty sep is treated as
// "no separator found" and yields s as the single field.
func SplitLen(s, sep []byte) []Handle {
	if len(s) == 0 {
		return []Handle{}
	}
	if len(sep) == 0 {
		return []Handle{New(s)}
	}
	var result []Handle
	start := 0
	for i := 0; i+len(sep) <= len(s); {
		if bytes.Equal(s[i:i+len(sep)], sep) {
			result = append(result, New(s[start:i]))
			i += len(sep)
			start = i
		} else {
			i++
		}
	}
	result = append(result, New(s[start:]))
	return result
}

// FreeSplitRes frees every Handle produced by SplitLen or SplitArgs.
func FreeSplitRes(arr []Handle) {
	for _, h := range arr {
		Free(h)
	}
}

func isSplitSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigitVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// SplitArgs tokenizes line the way a shell/REPL would: fields are
// separated by whitespace, and may be quoted with "..." (supporting
// \n \r \t \a \b, \xHH, \" and \\ escapes) or '...' (supporting only
// \' as an escape). A closing quote not immediately followed by
// whitespace or end-of-line is a syntax error, reported by returning
// nil (as opposed to the empty, non-nil slice SplitArgs returns for an
// all-whitespace or empty line).
func SplitArgs(line string) []Handle {
	p := 0
	n := len(line)
	var result []Handle

	for {
		for p < n && isSplitSpace(line[p]) {
			p++
		}
		if p >= n {
			break
		}

		var current []byte
		inQuotes, inSingleQuotes, done := false, false, false

		for !done {
			switch {
			case inQuotes:
				switch {
				case p+3 < n && line[p] == '\\' && line[p+1] == 'x' &&
					isHexDigit(line[p+2]) && isHexDigit(line[p+3]):
					b := hexDigitVal(line[p+2])<<4 | hexDigitVal(line[p+3])
					current = append(current, byte(b))
					p += 4
				case p+1 < n && line[p] == '\\':
					var c byte
					switch line[p+1] {
					case 'n':
						c = '\n'
					case 'r':
						c = '\r'
					case 't':
						c = '\t'
					case 'a':
						c = '\a'
					case 'b':
						c = '\b'
					default:
						c = line[p+1]
					}
					current = append(current, c)
					p += 2
				case p < n && line[p] == '"':
					if p+1 < n && !isSplitSpace(line[p+1]) {
						return nil
					}
					done = true
					p++
				case p >= n:
					return nil // unterminated quote
				default:
					current = append(current, line[p])
					p++
				}
			case inSingleQuotes:
				switch {
				case p+1 < n && line[p] == '\\' && line[p+1] == '\'':
					current = append(current, '\'')
					p += 2
				case p < n && line[p] == '\'':
					if p+1 < n && !isSplitSpace(line[p+1]) {
						return nil
					}
					done = true
					p++
				case p >= n:
					return nil // unterminated quote
				default:
					current = append(current, line[p])
					p++
				}
			default:
				switch {
				case p >= n || isSplitSpace(line[p]):
					done = true
				case line[p] == '"':
					inQuotes = true
					p++
				case line[p] == '\'':
					inSingleQuotes = true
					p++
				default:
					current = append(current, line[p])
					p++
				}
			}
		}
		result = append(result, New(current))
	}

	if result == nil {
		return []Handle{}
	}
	return result
}
