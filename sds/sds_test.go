// Copyright (c) 2015 Arista Networks, Inc.  All rights reserved.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package sds_test

import (
	"testing"

	"github.com/aristanetworks/corekv/sds"
	"github.com/aristanetworks/corekv/test"
	"github.com/aristanetworks/corekv/zmalloc"
)

func TestNewAndLen(t *testing.T) {
	s := sds.New([]byte("hello"))
	defer sds.Free(s)
	if sds.Len(s) != 5 {
		t.Fatalf("expected Len=5, got %d", sds.Len(s))
	}
	if s.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", s.String())
	}
}

// TestAllocationTracked is scenario A: every sds allocation and free
// flows through the counter on the Runtime that created the Handle.
func TestAllocationTracked(t *testing.T) {
	rt := zmalloc.New()
	s := sds.NewWithRuntime(rt, []byte("hello"))
	if rt.UsedMemory() == 0 {
		t.Fatalf("expected non-zero UsedMemory after New")
	}
	sds.Free(s)
	if got := rt.UsedMemory(); got != 0 {
		t.Fatalf("expected UsedMemory back to zero after Free, got %d", got)
	}
}

// TestGrowthPolicy checks the doubling-then-linear growth rule: below
// 1MiB the new capacity is twice the needed length, at/above it the
// needed length plus a flat 1MiB.
func TestGrowthPolicy(t *testing.T) {
	s := sds.Empty()
	defer sds.Free(s)
	if n := sds.Avail(s); n > 0 {
		s = sds.CatLen(s, make([]byte, n), n)
	}
	before := sds.AllocSize(s)
	s = sds.MakeRoom(s, 1)
	after := sds.AllocSize(s)
	if after <= before {
		t.Fatalf("expected MakeRoom to grow capacity, before=%d after=%d", before, after)
	}
	if got, want := sds.Avail(s), 2*(sds.Len(s)+1)-sds.Len(s); got != want {
		t.Fatalf("below 1MiB: expected Avail=%d after MakeRoom, got %d", want, got)
	}

	big := sds.New(make([]byte, 1<<20))
	defer sds.Free(big)
	big = sds.MakeRoom(big, 1)
	if got, want := sds.Avail(big), 1+1<<20; got != want {
		t.Fatalf("at/above 1MiB: expected Avail=%d after MakeRoom, got %d", want, got)
	}
}

func TestCat(t *testing.T) {
	a := sds.New([]byte("foo"))
	defer sds.Free(a)
	a = sds.Cat(a, []byte("bar"))
	if a.String() != "foobar" {
		t.Fatalf("expected %q, got %q", "foobar", a.String())
	}
}

// TestCmp is scenario D: cmp orders lexicographically and resolves ties
// by length.
func TestCmp(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"aar", "bar", -1},
		{"bar", "bar", 0},
		{"foo", "foa", 1},
		{"foo", "foobar", -1},
	}
	for _, c := range cases {
		a, b := sds.New([]byte(c.a)), sds.New([]byte(c.b))
		got := sds.Cmp(a, b)
		if (got < 0 && c.want >= 0) || (got > 0 && c.want <= 0) || (got == 0 && c.want != 0) {
			t.Errorf("Cmp(%q, %q) = %d, want sign %d", c.a, c.b, got, c.want)
		}
		sds.Free(a)
		sds.Free(b)
	}
}

// TestRange is scenario B: negative indices, and out-of-range collapse.
func TestRange(t *testing.T) {
	cases := []struct {
		start, end int
		want       string
	}{
		{1, -2, "ell"},
		{100, 200, ""},
		{-100, 2, "hel"},
		{0, -1, "hello"},
	}
	for _, c := range cases {
		s := sds.New([]byte("hello"))
		s = sds.Range(s, c.start, c.end)
		if s.String() != c.want {
			t.Errorf("Range(%d, %d) = %q, want %q", c.start, c.end, s.String(), c.want)
		}
		sds.Free(s)
	}
}

func TestTrim(t *testing.T) {
	s := sds.New([]byte("  hello  "))
	s = sds.Trim(s, " ")
	if s.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", s.String())
	}
	sds.Free(s)

	// empty cset is a no-op
	s = sds.New([]byte("hello"))
	s = sds.Trim(s, "")
	if s.String() != "hello" {
		t.Fatalf("expected trim with empty cset to be a no-op, got %q", s.String())
	}
	sds.Free(s)
}

func TestToLowerToUpper(t *testing.T) {
	s := sds.New([]byte("Hello"))
	s = sds.ToUpper(s)
	if s.String() != "HELLO" {
		t.Fatalf("expected %q, got %q", "HELLO", s.String())
	}
	s = sds.ToLower(s)
	if s.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", s.String())
	}
	sds.Free(s)
}

func TestFromLongLong(t *testing.T) {
	s := sds.FromLongLong(-42)
	defer sds.Free(s)
	if s.String() != "-42" {
		t.Fatalf("expected %q, got %q", "-42", s.String())
	}
}

func TestCatPrintf(t *testing.T) {
	s := sds.Empty()
	defer sds.Free(s)
	s = sds.CatPrintf(s, "%s-%d", "n", 7)
	if s.String() != "n-7" {
		t.Fatalf("expected %q, got %q", "n-7", s.String())
	}
}

func TestCatFmt(t *testing.T) {
	s := sds.Empty()
	defer sds.Free(s)
	s = sds.CatFmt(s, "%s=%i%%", "k", 7)
	if s.String() != "k=7%" {
		t.Fatalf("expected %q, got %q", "k=7%", s.String())
	}
}

// TestSplitLen is scenario E.
func TestSplitLen(t *testing.T) {
	got := sds.SplitLen([]byte("a,b,,c"), []byte(","))
	want := []string{"a", "b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("field %d = %q, want %q", i, got[i].String(), w)
		}
	}
	sds.FreeSplitRes(got)

	empty := sds.SplitLen(nil, []byte(","))
	if len(empty) != 0 {
		t.Fatalf("expected empty input to yield an empty array, got %d fields", len(empty))
	}
}

// TestSplitArgs is scenario F: the REPL tokenizer, including quoting,
// escapes, and the syntax-error case.
func TestSplitArgs(t *testing.T) {
	got := sds.SplitArgs(`foo bar "new\nline" 'quo\'ted'`)
	want := []string{"foo", "bar", "new\nline", "quo'ted"}
	if len(got) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].String() != w {
			t.Errorf("arg %d = %q, want %q", i, got[i].String(), w)
		}
	}
	sds.FreeSplitRes(got)

	if bad := sds.SplitArgs(`"foo"bar`); bad != nil {
		t.Fatalf("expected nil for an unclosed-by-space quote, got %v", bad)
	}
}

func TestSplitArgsEmptyLine(t *testing.T) {
	got := sds.SplitArgs("   ")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected a non-nil empty slice for an all-whitespace line, got %v", got)
	}
}

// TestCatReprRoundTrip exercises universal property: split_args(cat_repr(x)) == [x].
func TestCatReprRoundTrip(t *testing.T) {
	inputs := []string{
		"hello",
		"with spaces",
		"with\nnewline\tand\ttabs",
		`quote " and backslash \`,
		"\x01\x02binary\xff",
	}
	for _, in := range inputs {
		repr := sds.CatRepr(sds.Empty(), []byte(in), len(in))
		args := sds.SplitArgs(repr.String())
		if len(args) != 1 {
			t.Fatalf("CatRepr(%q) = %q, SplitArgs gave %d args, want 1", in, repr.String(), len(args))
		}
		if d := test.Diff(args[0].String(), in); d != "" {
			t.Errorf("round trip mismatch for %q: %s", in, d)
		}
		sds.Free(repr)
		sds.FreeSplitRes(args)
	}
}

func TestMapChars(t *testing.T) {
	s := sds.New([]byte("hello"))
	defer sds.Free(s)
	s = sds.MapChars(s, []byte("el"), []byte("ip"), 2)
	if s.String() != "hippo" {
		t.Fatalf("expected %q, got %q", "hippo", s.String())
	}
}

func TestIncrLenPanicsOnOverflow(t *testing.T) {
	s := sds.Empty()
	defer sds.Free(s)
	test.ShouldPanic(t, func() {
		sds.IncrLen(s, 1000)
	})
}

func TestGrowZero(t *testing.T) {
	s := sds.New([]byte("ab"))
	defer sds.Free(s)
	s = sds.GrowZero(s, 5)
	if sds.Len(s) != 5 {
		t.Fatalf("expected Len=5, got %d", sds.Len(s))
	}
	want := []byte{'a', 'b', 0, 0, 0}
	if d := test.Diff(s.Bytes(), want); d != "" {
		t.Fatalf("GrowZero mismatch: %s", d)
	}
}
