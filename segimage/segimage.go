// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segimage renders seven-segment frames as images, and scrolls as
// animated GIFs.
package segimage

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"iter"
	"time"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Opts represents the options of a Renderer.
type Opts struct {
	// Digits is the number of digits drawn.
	Digits int
	// DigitWidth is the width of a digit in pixels. Its height is twice that.
	// Defaults to 40.
	DigitWidth int
	// Lit is the color of a lit segment at full brightness. Defaults to red.
	Lit color.NRGBA
	// Off is the color of a segment that is off. Defaults to a dark red.
	Off color.NRGBA
	// Caption is written under the digits, if not empty.
	Caption string
}

// Renderer draws frames of a display.
type Renderer struct {
	opts  Opts
	face  font.Face
	w, h  int
	m     float64
	capH  float64
	black color.NRGBA
}

// New returns a Renderer for opts.
func New(opts *Opts) (*Renderer, error) {
	if opts.Digits < 1 {
		return nil, errors.New("segimage: at least one digit is required")
	}
	r := &Renderer{opts: *opts, black: color.NRGBA{A: 255}}
	if r.opts.DigitWidth <= 0 {
		r.opts.DigitWidth = 40
	}
	if r.opts.Lit == (color.NRGBA{}) {
		r.opts.Lit = color.NRGBA{R: 255, A: 255}
	}
	if r.opts.Off == (color.NRGBA{}) {
		r.opts.Off = color.NRGBA{R: 40, A: 255}
	}
	dw := float64(r.opts.DigitWidth)
	r.m = dw / 4
	if r.opts.Caption != "" {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		r.capH = dw / 2
		r.face = truetype.NewFace(f, &truetype.Options{Size: r.capH * 0.75})
	}
	r.w = int(r.m + float64(r.opts.Digits)*(dw+r.m))
	r.h = int(2*r.m + 2*dw + r.capH)
	return r, nil
}

// Bounds returns the size of the images produced.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.w, r.h)
}

// Render draws frame at a brightness of 0 to tm1637.MaxBrightness.
func (r *Renderer) Render(frame []byte, brightness int) (image.Image, error) {
	if len(frame) != r.opts.Digits {
		return nil, errors.New("segimage: frame length does not match digit count")
	}
	if brightness < 0 || brightness > tm1637.MaxBrightness {
		return nil, errors.New("segimage: invalid brightness")
	}
	dc := gg.NewContext(r.w, r.h)
	dc.SetColor(r.black)
	dc.Clear()
	lit := scale(r.opts.Lit, brightness+1)
	dw := float64(r.opts.DigitWidth)
	for i, b := range frame {
		x := r.m + float64(i)*(dw+r.m)
		for _, s := range segments(dw) {
			if s.seg.Lit(b) {
				dc.SetColor(lit)
			} else {
				dc.SetColor(r.opts.Off)
			}
			dc.DrawRoundedRectangle(x+s.x, r.m+s.y, s.w, s.h, s.w/8+s.h/8)
			dc.Fill()
		}
		t := dw / 6
		if tm1637.SegDP.Lit(b) {
			dc.SetColor(lit)
		} else {
			dc.SetColor(r.opts.Off)
		}
		dc.DrawCircle(x+dw+r.m/2, r.m+2*dw-t/2, t/2)
		dc.Fill()
	}
	if r.face != nil {
		dc.SetFontFace(r.face)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(r.opts.Caption, float64(r.w)/2, 2*dw+r.m+r.capH/2, 0.5, 0.5)
	}
	return dc.Image(), nil
}

// WriteGIF renders every frame of frames, like the ones from tm1637.Scroll,
// into an animated GIF that loops forever.
func (r *Renderer) WriteGIF(w io.Writer, frames iter.Seq2[[]byte, time.Duration], brightness int) error {
	g := &gif.GIF{}
	for frame, hold := range frames {
		img, err := r.Render(frame, brightness)
		if err != nil {
			return err
		}
		p := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.Draw(p, p.Rect, img, image.Point{}, draw.Src)
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, int(hold/(10*time.Millisecond)))
	}
	if len(g.Image) == 0 {
		return errors.New("segimage: no frame to encode")
	}
	return gif.EncodeAll(w, g)
}

type rect struct {
	seg        tm1637.Segment
	x, y, w, h float64
}

// segments returns the position of the seven bars within a digit of width
// dw and height 2*dw.
func segments(dw float64) []rect {
	t := dw / 6
	half := dw
	bar := half - 1.5*t
	return []rect{
		{tm1637.SegA, t, 0, dw - 2*t, t},
		{tm1637.SegB, dw - t, t, t, bar},
		{tm1637.SegC, dw - t, half + t/2, t, bar},
		{tm1637.SegD, t, 2*dw - t, dw - 2*t, t},
		{tm1637.SegE, 0, half + t/2, t, bar},
		{tm1637.SegF, 0, t, t, bar},
		{tm1637.SegG, t, half - t/2, dw - 2*t, t},
	}
}

func scale(c color.NRGBA, eighths int) color.NRGBA {
	return color.NRGBA{
		R: byte(int(c.R) * eighths / 8),
		G: byte(int(c.G) * eighths / 8),
		B: byte(int(c.B) * eighths / 8),
		A: 255,
	}
}
