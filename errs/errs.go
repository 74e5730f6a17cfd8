// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package errs defines the closed, coarse-grained error vocabulary shared
// by zmalloc, sds and dict.
package errs

import "fmt"

// Kind identifies one of the non-fatal, in-band error outcomes a corekv
// operation can report. OutOfMemory and AssertionViolation are fatal and
// are surfaced by panicking instead of through a Kind (see package zmalloc
// and sds.IncrLen).
type Kind string

const (
	// KindNone indicates the error kind is not set.
	KindNone Kind = "none"
	// KindDuplicateKey indicates an Add was attempted for a key already present.
	KindDuplicateKey Kind = "duplicate-key"
	// KindMissingKey indicates a Delete (or similar) was attempted for an absent key.
	KindMissingKey Kind = "missing-key"
	// KindRehashBusy indicates an Expand or Resize was rejected because a
	// rehash is already in progress.
	KindRehashBusy Kind = "rehash-busy"
	// KindSyntaxError indicates sds.SplitArgs encountered unbalanced quotes
	// or a closing quote not followed by whitespace.
	KindSyntaxError Kind = "syntax-error"
)

// Error is the concrete error type returned for every non-fatal outcome in
// corekv. Op names the operation that failed (e.g. "dict.Add"); Detail is a
// short human-readable description.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// DuplicateKey builds a KindDuplicateKey error for op, naming key in Detail.
func DuplicateKey(op string, key interface{}) *Error {
	return &Error{Kind: KindDuplicateKey, Op: op, Detail: fmt.Sprintf("key %v already exists", key)}
}

// MissingKey builds a KindMissingKey error for op, naming key in Detail.
func MissingKey(op string, key interface{}) *Error {
	return &Error{Kind: KindMissingKey, Op: op, Detail: fmt.Sprintf("key %v not found", key)}
}

// RehashBusy builds a KindRehashBusy error for op.
func RehashBusy(op string) *Error {
	return &Error{Kind: KindRehashBusy, Op: op, Detail: "rehash in progress"}
}

// SyntaxError builds a KindSyntaxError error for op.
func SyntaxError(op, reason string) *Error {
	return &Error{Kind: KindSyntaxError, Op: op, Detail: reason}
}
