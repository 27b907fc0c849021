// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import "unicode"

// Segment is one bit of a digit byte.
type Segment byte

const (
	SegA Segment = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

// Blank is the pattern with every segment off.
const Blank byte = 0

// Lit returns true if segment s is on in pattern b.
func (s Segment) Lit(b byte) bool {
	return b&byte(s) != 0
}

// font maps upper case runes to segment patterns. Letters are matched
// without regard to case; the pattern may be drawn in either case. The
// letters only drawable in lower case (b d n q r t v y) are keyed upper case
// too, so B and b both light up.
var font = map[rune]byte{
	' ': 0x00,
	'-': 0x40,
	'?': 0x53,
	'0': 0x3f,
	'1': 0x06,
	'2': 0x5b,
	'3': 0x4f,
	'4': 0x66,
	'5': 0x6d,
	'6': 0x7d,
	'7': 0x07,
	'8': 0x7f,
	'9': 0x6f,
	'A': 0x77,
	'B': 0x7c,
	'C': 0x39,
	'D': 0x5e,
	'E': 0x79,
	'F': 0x71,
	'G': 0x3d,
	'H': 0x76,
	'I': 0x30,
	'J': 0x1e,
	'K': 0x76,
	'L': 0x38,
	'M': 0x15,
	'N': 0x54,
	'O': 0x3f,
	'P': 0x73,
	'Q': 0x67,
	'R': 0x50,
	'S': 0x6d,
	'T': 0x78,
	'U': 0x3e,
	'V': 0x1c,
	'W': 0x2a,
	'X': 0x76,
	'Y': 0x6e,
	'Z': 0x5b,
}

// EncodeRune returns the segment pattern for r. Runes without a rendering
// are blank.
func EncodeRune(r rune) byte {
	return font[unicode.ToUpper(r)]
}

// EncodeString returns one segment pattern per rune of s.
func EncodeString(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, EncodeRune(r))
	}
	return out
}

// FormatString lays s out on a display of the given number of digits.
//
// A '.' lights the decimal point of the digit before it instead of using a
// digit of its own; a leading '.' or one following another '.' takes a
// blank digit. The text is right aligned: a short text is padded with blanks
// on the left and a long one is cut on the right.
func FormatString(s string, digits int) []byte {
	out := make([]byte, 0, len(s))
	dot := false
	for _, r := range s {
		if r == '.' {
			if len(out) > 0 && !dot {
				out[len(out)-1] |= byte(SegDP)
				dot = true
				continue
			}
			out = append(out, byte(SegDP))
			dot = true
			continue
		}
		out = append(out, EncodeRune(r))
		dot = false
	}
	if digits <= 0 {
		return out
	}
	if len(out) >= digits {
		return out[:digits]
	}
	return append(make([]byte, digits-len(out)), out...)
}
