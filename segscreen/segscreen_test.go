// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package segscreen

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestShow(t *testing.T) {
	buf := bytes.Buffer{}
	d := New(&Opts{W: &buf})
	r, err := d.Add("alt", 2)
	if err != nil {
		t.Fatal(err)
	}
	// '8.' lights 8 cells, '1' lights 2.
	if err := r.Show([]byte{0xff, 0x06}, 7); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lit := ansi256.Default.Block(color.NRGBA{R: 255, A: 255})
	if n := strings.Count(out, lit); n != 10 {
		t.Fatalf("%d lit cells in %q", n, out)
	}
	if n := strings.Count(out, "\n"); n != 5 {
		t.Fatalf("%d lines", n)
	}
	if !strings.Contains(out, "alt ") {
		t.Fatalf("missing label in %q", out)
	}

	buf.Reset()
	if err := r.Off(); err != nil {
		t.Fatal(err)
	}
	out = buf.String()
	if !strings.HasPrefix(out, "\r\033[5A") {
		t.Fatalf("no cursor move in %q", out)
	}
	if n := strings.Count(out, lit); n != 0 {
		t.Fatalf("%d lit cells while off", n)
	}

	buf.Reset()
	if _, err := r.Write([]byte{0x06, 0x06}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), lit); n != 4 {
		t.Fatalf("%d lit cells", n)
	}
}

func TestShow_board(t *testing.T) {
	buf := bytes.Buffer{}
	d := New(&Opts{W: &buf, Lit: color.NRGBA{G: 255, A: 255}})
	a, err := d.Add("mission", 6)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Add("velocity", 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Show(make([]byte, 6), 3); err != nil {
		t.Fatal(err)
	}
	if err := b.Show([]byte{0x3f, 0, 0, 0}, 7); err != nil {
		t.Fatal(err)
	}
	last := buf.String()[strings.LastIndex(buf.String(), "\r\033[10A"):]
	if n := strings.Count(last, "\n"); n != 10 {
		t.Fatalf("%d lines", n)
	}
	lit := ansi256.Default.Block(color.NRGBA{G: 255, A: 255})
	if n := strings.Count(last, lit); n != 6 {
		t.Fatalf("%d lit cells", n)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestShow_invalid(t *testing.T) {
	d := New(&Opts{W: &bytes.Buffer{}})
	if _, err := d.Add("x", 0); err == nil {
		t.Fatal("expected error for no digits")
	}
	r, err := d.Add("x", 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Add("x", 4); err == nil {
		t.Fatal("expected error for duplicate name")
	}
	if err := r.Show([]byte{1, 2, 3}, 7); err == nil {
		t.Fatal("expected error for short frame")
	}
	if err := r.Show([]byte{1, 2, 3, 4}, 8); err == nil {
		t.Fatal("expected error for brightness")
	}
	if s := r.String(); s != "SegScreen{x}" {
		t.Fatal(s)
	}
}
