// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import (
	"context"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Commands of the TM1637. The low bits of the display control command hold
// the brightness.
const (
	cmdAutoIncrement byte = 0x40
	cmdStartAddress  byte = 0xc0
	cmdDisplayOn     byte = 0x88
	cmdDisplayOff    byte = 0x80
)

const (
	// MaxBrightness is the highest of the 8 pulse width settings.
	MaxBrightness = 7
	// MaxDigits is the number of grids the chip can drive.
	MaxDigits = 6
)

// Opts is the configuration of a display.
type Opts struct {
	// Digits is the number of digits of the module, 1 to MaxDigits.
	Digits int
	// Brightness is the initial brightness, 0 to MaxBrightness.
	Brightness int
	// Delay is held after every transition of CLK or DIO. 0 disables it.
	Delay time.Duration
	// AckPolls is how many times DIO is sampled for the acknowledge.
	AckPolls int
	// Clock paces the bus and ScrollText. Defaults to the real clock.
	Clock clockwork.Clock
	// Logger receives diagnostics, like a missing acknowledge. nil is silent.
	Logger *log.Logger
}

// DefaultOpts is a 6 digit module at full brightness.
var DefaultOpts = Opts{
	Digits:     6,
	Brightness: MaxBrightness,
	Delay:      100 * time.Microsecond,
	AckPolls:   10,
}

// Dev is a handle to a TM1637 driven display.
//
// Dev is not safe for concurrent use: whole Display, Play or ScrollText calls
// must be serialized by the caller.
type Dev struct {
	bus        *Bus
	clock      clockwork.Clock
	digits     int
	brightness int
	frame      []byte
}

// New returns a Dev driving the module wired to clk and dio, and clears it.
//
// If opts is nil, DefaultOpts is used.
func New(clk, dio gpio.PinIO, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Digits < 1 || opts.Digits > MaxDigits {
		return nil, ErrDigits
	}
	if opts.Brightness < 0 || opts.Brightness > MaxBrightness {
		return nil, ErrInvalidBrightness
	}
	b, err := NewBus(clk, dio, opts)
	if err != nil {
		return nil, err
	}
	d := &Dev{bus: b, clock: b.clock, digits: opts.Digits, brightness: opts.Brightness}
	if err := d.Clear(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TM1637{%d digits, %s}", d.digits, d.bus)
}

// Digits returns the number of digits of the module.
func (d *Dev) Digits() int {
	return d.digits
}

// Brightness returns the brightness sent with the next frame.
func (d *Dev) Brightness() int {
	return d.brightness
}

// Display shows frame, one segment pattern per digit from the leftmost grid.
//
// The frame is sent as three transactions: the data command, the start
// address followed by the frame, and the display control command carrying
// the brightness.
func (d *Dev) Display(frame []byte) error {
	if len(frame) != d.digits {
		return fmt.Errorf("%w: got %d bytes for %d digits", ErrFrameLength, len(frame), d.digits)
	}
	if err := d.command(cmdAutoIncrement); err != nil {
		return err
	}
	if err := d.bus.Start(); err != nil {
		return err
	}
	if err := d.bus.WriteByte(cmdStartAddress); err != nil {
		return err
	}
	for _, b := range frame {
		if err := d.bus.WriteByte(b); err != nil {
			return err
		}
	}
	if err := d.bus.Stop(); err != nil {
		return err
	}
	if err := d.command(cmdDisplayOn | byte(d.brightness)); err != nil {
		return err
	}
	d.frame = append(d.frame[:0], frame...)
	return nil
}

// Frame returns a copy of the last frame Display sent successfully.
func (d *Dev) Frame() []byte {
	return append([]byte(nil), d.frame...)
}

// SetBrightness sets the brightness used from the next Display on. It does
// not touch the bus.
func (d *Dev) SetBrightness(level int) error {
	if level < 0 || level > MaxBrightness {
		return fmt.Errorf("%w: got %d", ErrInvalidBrightness, level)
	}
	d.brightness = level
	return nil
}

// EncodeChar returns the segment pattern of r.
func (d *Dev) EncodeChar(r rune) byte {
	return EncodeRune(r)
}

// WriteString shows s right aligned, with '.' lighting the decimal point of
// the preceding digit.
func (d *Dev) WriteString(s string) error {
	return d.Display(FormatString(s, d.digits))
}

// ScrollText scrolls text across the display, holding each frame for delay.
//
// It returns ctx.Err() if ctx is cancelled before the last frame is shown.
// The display keeps the frame shown last.
func (d *Dev) ScrollText(ctx context.Context, text string, delay time.Duration) error {
	return d.Play(ctx, Scroll(text, d.digits, delay))
}

// Play shows each frame of frames for as long as it is paired with.
//
// It returns ctx.Err() if ctx is cancelled before the last frame is shown.
func (d *Dev) Play(ctx context.Context, frames iter.Seq2[[]byte, time.Duration]) error {
	for frame, hold := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Display(frame); err != nil {
			return err
		}
		t := d.clock.NewTimer(hold)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.Chan():
		}
	}
	return nil
}

// Clear blanks every digit.
func (d *Dev) Clear() error {
	return d.Display(make([]byte, d.digits))
}

// Halt blanks the display and turns it off. The next Display turns it back
// on.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	return d.command(cmdDisplayOff)
}

func (d *Dev) command(c byte) error {
	if err := d.bus.Start(); err != nil {
		return err
	}
	if err := d.bus.WriteByte(c); err != nil {
		return err
	}
	return d.bus.Stop()
}

var _ conn.Resource = &Dev{}
