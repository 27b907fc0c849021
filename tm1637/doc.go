// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tm1637 drives seven-segment LED modules built around the Titan
// Micro TM1637 controller.
//
// The chip is wired with two lines, CLK and DIO. The protocol looks like I²C
// but it is not: there is no device address, bytes are sent least
// significant bit first and the acknowledge bit is advisory. This package
// bit-bangs the protocol over any pair of gpio.PinIO, so the same driver runs
// on a Raspberry Pi header, an I/O expander or a simulated chip.
//
// # Segments
//
// One byte drives one digit. Bit 0 is segment A (top) and the bits go
// clockwise to F, then G (middle) and DP (decimal point, or the colon on
// clock modules):
//
//	 -A-
//	F   B
//	 -G-
//	E   C
//	 -D-  DP
//
// # Wiring of 6 digit modules
//
// The common 6 digit modules route the digit grids in two mirrored groups of
// three. Scroll and Mirror reorder each window so text reads left to right on
// those modules.
package tm1637
