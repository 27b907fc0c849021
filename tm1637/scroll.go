// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import (
	"iter"
	"time"
)

// Scroll returns the frames of text moving right to left across a display
// of the given number of digits, each paired with how long to hold it.
//
// The text enters from the right edge and leaves on the left, so
// utf8.RuneCountInString(text) + digits + 1 frames are produced. Each frame is
// already reordered with Mirror; wrap the sequence in MirrorFrames for
// modules wired in plain order. The sequence can be ranged over more than
// once.
func Scroll(text string, digits int, delay time.Duration) iter.Seq2[[]byte, time.Duration] {
	return func(yield func([]byte, time.Duration) bool) {
		if digits <= 0 {
			return
		}
		padded := make([]byte, 0, len(text)+2*digits)
		padded = append(padded, make([]byte, digits)...)
		padded = append(padded, EncodeString(text)...)
		padded = append(padded, make([]byte, digits)...)
		for off := 0; off+digits <= len(padded); off++ {
			if !yield(Mirror(padded[off:off+digits]), delay) {
				return
			}
		}
	}
}

// MirrorFrames returns frames with Mirror applied to each of them.
func MirrorFrames(frames iter.Seq2[[]byte, time.Duration]) iter.Seq2[[]byte, time.Duration] {
	return func(yield func([]byte, time.Duration) bool) {
		for frame, hold := range frames {
			if !yield(Mirror(frame), hold) {
				return
			}
		}
	}
}

// Mirror returns a copy of frame with its left and right halves each
// reversed in place. The left half holds len(frame)/2 digits.
//
// This is the grid order of the common 6 digit modules. Mirror is its own
// inverse.
func Mirror(frame []byte) []byte {
	out := make([]byte, len(frame))
	half := len(frame) / 2
	for i := 0; i < half; i++ {
		out[i] = frame[half-1-i]
	}
	for i := half; i < len(frame); i++ {
		out[i] = frame[len(frame)-1-(i-half)]
	}
	return out
}
