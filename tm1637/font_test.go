// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeRune(t *testing.T) {
	tests := []struct {
		r    rune
		want byte
	}{
		{' ', 0x00},
		{'0', 0x3f},
		{'8', 0x7f},
		{'9', 0x6f},
		{'-', 0x40},
		{'?', 0x53},
		{'A', 0x77},
		{'a', 0x77},
		{'b', 0x7c},
		{'B', 0x7c},
		{'q', 0x67},
		{'Q', 0x67},
		{'y', 0x6e},
		{'H', 0x76},
		{'K', 0x76},
		{'x', 0x76},
		{'O', 0x3f},
		{'s', 0x6d},
		{'Z', 0x5b},
		{'%', 0x00},
		{'é', 0x00},
		{'.', 0x00},
	}
	for _, tt := range tests {
		if got := EncodeRune(tt.r); got != tt.want {
			t.Errorf("EncodeRune(%q) = %#x, want %#x", tt.r, got, tt.want)
		}
	}
}

func TestEncodeRune_allSegments(t *testing.T) {
	b := EncodeRune('8')
	for _, s := range []Segment{SegA, SegB, SegC, SegD, SegE, SegF, SegG} {
		if !s.Lit(b) {
			t.Errorf("segment %#x not lit for '8'", byte(s))
		}
	}
	if SegDP.Lit(b) {
		t.Error("decimal point lit for '8'")
	}
}

func TestEncodeRune_lowerCaseGlyphs(t *testing.T) {
	// These letters are drawn in lower case but must match either case.
	for _, r := range "bdnqrtvy" {
		lower, upper := EncodeRune(r), EncodeRune(r-'a'+'A')
		if lower == 0 || lower != upper {
			t.Errorf("EncodeRune(%q) = %#x, EncodeRune(%q) = %#x", r, lower, r-'a'+'A', upper)
		}
	}
}

func TestEncodeString(t *testing.T) {
	got := EncodeString("Go 4!")
	want := []byte{0x3d, 0x3f, 0x00, 0x66, 0x00}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("EncodeString() (-got +want)\n%s", diff)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		digits int
		want   []byte
	}{
		{"pad", "42", 4, []byte{0, 0, 0x66, 0x5b}},
		{"exact", "1234", 4, []byte{0x06, 0x5b, 0x4f, 0x66}},
		{"truncate", "123456", 4, []byte{0x06, 0x5b, 0x4f, 0x66}},
		{"dot", "1.5", 4, []byte{0, 0, 0x06 | 0x80, 0x6d}},
		{"leading dot", ".5", 4, []byte{0, 0, 0x80, 0x6d}},
		{"double dot", "1..2", 4, []byte{0, 0x86, 0x80, 0x5b}},
		{"trailing dot", "12.", 2, []byte{0x06, 0x5b | 0x80}},
		{"empty", "", 3, []byte{0, 0, 0}},
		{"no width", "ab", 0, []byte{0x77, 0x7c}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(FormatString(tt.in, tt.digits), tt.want); diff != "" {
				t.Fatalf("FormatString(%q, %d) (-got +want)\n%s", tt.in, tt.digits, diff)
			}
		})
	}
}
