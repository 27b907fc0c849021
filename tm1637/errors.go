// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every error returned for an argument that is
// rejected before any bus activity.
var ErrValidation = errors.New("tm1637: invalid argument")

var (
	// ErrInvalidBrightness is returned for a brightness outside 0 to
	// MaxBrightness.
	ErrInvalidBrightness = fmt.Errorf("%w: brightness must be 0-%d", ErrValidation, MaxBrightness)
	// ErrFrameLength is returned when a frame does not hold exactly one byte
	// per digit.
	ErrFrameLength = fmt.Errorf("%w: frame length does not match digit count", ErrValidation)
	// ErrDigits is returned for a digit count outside 1 to MaxDigits.
	ErrDigits = fmt.Errorf("%w: digit count must be 1-%d", ErrValidation, MaxDigits)
)
