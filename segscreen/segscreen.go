// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segscreen draws seven-segment displays on a terminal (stdout)
// using ANSI color codes.
//
// Useful to run a panel without the hardware, with the displays fed by
// tm1637sim.
package segscreen

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the screen.
type Opts struct {
	// Lit is the color of a lit segment at full brightness. Defaults to red.
	Lit color.NRGBA
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// Dev is a board of seven-segment displays drawn on the console, one under
// the other.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	lit     color.NRGBA
	palette ansi256.Palette
	rows    []*Display
	width   int
	lines   int
	buf     bytes.Buffer
}

// Display is one display of the board.
type Display struct {
	d          *Dev
	name       string
	frame      []byte
	brightness int
	on         bool
}

// cells is the layout of a digit: 5 lines of 3 cells, each naming the
// segment it shows, 0 for none.
var cells = [5][3]tm1637.Segment{
	{0, tm1637.SegA, 0},
	{tm1637.SegF, 0, tm1637.SegB},
	{0, tm1637.SegG, 0},
	{tm1637.SegE, 0, tm1637.SegC},
	{0, tm1637.SegD, tm1637.SegDP},
}

// New returns a Dev that draws at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	lit := opts.Lit
	if lit == (color.NRGBA{}) {
		lit = color.NRGBA{R: 255, A: 255}
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, lit: lit, palette: *p}
}

func (d *Dev) String() string {
	return "SegScreen"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves past the board.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = 0
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Add appends a display of digits digits, shown off until its first frame.
func (d *Dev) Add(name string, digits int) (*Display, error) {
	if digits < 1 {
		return nil, errors.New("segscreen: at least one digit is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.rows {
		if r.name == name {
			return nil, fmt.Errorf("segscreen: display %q already exists", name)
		}
	}
	r := &Display{d: d, name: name, frame: make([]byte, digits)}
	d.rows = append(d.rows, r)
	if len(name) > d.width {
		d.width = len(name)
	}
	return r, nil
}

func (r *Display) String() string {
	return fmt.Sprintf("SegScreen{%s}", r.name)
}

// Show draws frame at a brightness of 0 to tm1637.MaxBrightness.
func (r *Display) Show(frame []byte, brightness int) error {
	if len(frame) != len(r.frame) {
		return fmt.Errorf("segscreen: got %d bytes for %d digits", len(frame), len(r.frame))
	}
	if brightness < 0 || brightness > tm1637.MaxBrightness {
		return fmt.Errorf("segscreen: invalid brightness %d", brightness)
	}
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	copy(r.frame, frame)
	r.brightness = brightness
	r.on = true
	return r.d.refresh()
}

// Write shows frame at the current brightness.
func (r *Display) Write(frame []byte) (int, error) {
	r.d.mu.Lock()
	b := r.brightness
	if !r.on {
		b = tm1637.MaxBrightness
	}
	r.d.mu.Unlock()
	if err := r.Show(frame, b); err != nil {
		return 0, err
	}
	return len(frame), nil
}

// Off draws the display with every segment off.
func (r *Display) Off() error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	r.on = false
	return r.d.refresh()
}

// Halt implements conn.Resource.
func (r *Display) Halt() error {
	return r.Off()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	if d.lines != 0 {
		fmt.Fprintf(&d.buf, "\r\033[%dA", d.lines)
	}
	black := d.palette.Block(color.NRGBA{A: 255})
	dim := d.palette.Block(d.scale(0))
	lines := 0
	for _, r := range d.rows {
		lit := d.palette.Block(d.scale(r.brightness + 1))
		for y, row := range cells {
			label := ""
			if y == 0 {
				label = r.name
			}
			_, _ = d.buf.WriteString("\033[0m")
			_, _ = d.buf.WriteString(label)
			_, _ = d.buf.WriteString(strings.Repeat(" ", d.width-len(label)+1))
			for _, b := range r.frame {
				for _, s := range row {
					switch {
					case s == 0:
						_, _ = d.buf.WriteString(black)
					case r.on && s.Lit(b):
						_, _ = d.buf.WriteString(lit)
					default:
						_, _ = d.buf.WriteString(dim)
					}
				}
				_, _ = d.buf.WriteString(black)
			}
			_, _ = d.buf.WriteString("\033[0m\n")
			lines++
		}
	}
	d.lines = lines
	_, err := d.buf.WriteTo(d.w)
	return err
}

// scale returns the lit color at level eighths of full intensity; level 0
// is a faint glow for segments that are off.
func (d *Dev) scale(level int) color.NRGBA {
	if level == 0 {
		return color.NRGBA{R: d.lit.R / 16, G: d.lit.G / 16, B: d.lit.B / 16, A: 255}
	}
	return color.NRGBA{
		R: byte(int(d.lit.R) * level / 8),
		G: byte(int(d.lit.G) * level / 8),
		B: byte(int(d.lit.B) * level / 8),
		A: 255,
	}
}

var _ fmt.Stringer = &Dev{}
