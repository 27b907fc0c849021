// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panel

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestOp(t *testing.T) {
	for _, e := range ops {
		if e.op.String() != e.name || e.op.Verb() != e.verb {
			t.Fatalf("%d: %s %s", e.op, e.op, e.op.Verb())
		}
		for _, n := range []string{e.name, e.verb} {
			if o, err := ParseOp(n); err != nil || o != e.op {
				t.Fatalf("ParseOp(%q) = %v, %v", n, o, err)
			}
		}
	}
	if s := Op(0).String(); s != "Op(0)" {
		t.Fatal(s)
	}
	if _, err := ParseOp("get_status"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatal(err)
	}
}

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		data string
		want Command
	}{
		{
			`{"command": "scroll_text", "display": "mission", "text": "HELLO", "delay": 0.2}`,
			Command{Op: OpScroll, Target: "mission", Text: "HELLO", Delay: 200 * time.Millisecond},
		},
		{
			`{"command": "scroll_text", "display": "mission", "text": "HI", "delay": "1.5"}`,
			Command{Op: OpScroll, Target: "mission", Text: "HI", Delay: 1500 * time.Millisecond},
		},
		{
			`{"command": "scroll", "display": "mission", "text": ""}`,
			Command{Op: OpScroll, Target: "mission"},
		},
		{
			`{"command": "display_segments", "display": "altitude", "segments": [63, 6, 91, 79]}`,
			Command{Op: OpDisplay, Target: "altitude", Segments: []byte{0x3f, 0x06, 0x5b, 0x4f}},
		},
		{
			`{"command": "display_text", "display": "velocity", "text": "12.5"}`,
			Command{Op: OpShowText, Target: "velocity", Text: "12.5"},
		},
		{
			`{"command": "set_display_brightness", "brightness": 5}`,
			Command{Op: OpSetBrightness, Brightness: 5},
		},
		{
			`{"command": "set_display_brightness", "display": "mission", "brightness": "0", "clamp": true}`,
			Command{Op: OpSetBrightness, Target: "mission", Clamp: true},
		},
		{
			`{"command": "clear_display"}`,
			Command{Op: OpClear},
		},
	}
	for _, tt := range tests {
		c, err := DecodeCommand([]byte(tt.data))
		if err != nil {
			t.Fatalf("DecodeCommand(%s) = %v", tt.data, err)
		}
		if diff := cmp.Diff(c, tt.want); diff != "" {
			t.Fatalf("DecodeCommand(%s) (-got +want)\n%s", tt.data, diff)
		}
	}
}

func TestDecodeCommand_errors(t *testing.T) {
	tests := []struct {
		data string
		want error
	}{
		{`{}`, ErrBadCommand},
		{`{"command": "reboot"}`, ErrUnknownCommand},
		{`{"command": "scroll_text", "text": "HI"}`, ErrBadCommand},
		{`{"command": "scroll_text", "display": "mission"}`, ErrBadCommand},
		{`{"command": "scroll_text", "display": "mission", "text": "HI", "delay": -1}`, ErrBadCommand},
		{`{"command": "scroll_text", "display": "mission", "text": "HI", "delay": "later"}`, ErrBadCommand},
		{`{"command": "display_segments", "display": "altitude", "segments": [256]}`, ErrBadCommand},
		{`{"command": "display_segments", "display": "altitude", "segments": ["a"]}`, ErrBadCommand},
		{`{"command": "display_segments", "display": "altitude"}`, ErrBadCommand},
		{`{"command": "display_text", "display": 3, "text": "1"}`, ErrBadCommand},
		{`{"command": "set_display_brightness"}`, ErrBadCommand},
		{`{"command": "set_display_brightness", "brightness": "high"}`, ErrBadCommand},
		{`{"command": "set_display_brightness", "brightness": 1, "clamp": "yes"}`, ErrBadCommand},
	}
	for _, tt := range tests {
		if _, err := DecodeCommand([]byte(tt.data)); !errors.Is(err, tt.want) {
			t.Errorf("DecodeCommand(%s) = %v, want %v", tt.data, err, tt.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		verb string
		args []string
		want Command
	}{
		{"segments", []string{"altitude", "3f", "0x06", "5B", "4f"}, Command{Op: OpDisplay, Target: "altitude", Segments: []byte{0x3f, 0x06, 0x5b, 0x4f}}},
		{"show", []string{"velocity", "12.5"}, Command{Op: OpShowText, Target: "velocity", Text: "12.5"}},
		{"scroll", []string{"mission", "GO", "FOR", "LAUNCH"}, Command{Op: OpScroll, Target: "mission", Text: "GO FOR LAUNCH"}},
		{"scroll", []string{"mission"}, Command{Op: OpScroll, Target: "mission"}},
		{"brightness", []string{"3"}, Command{Op: OpSetBrightness, Brightness: 3}},
		{"brightness", []string{"mission", "0"}, Command{Op: OpSetBrightness, Target: "mission"}},
		{"clear", nil, Command{Op: OpClear}},
		{"clear", []string{"altitude"}, Command{Op: OpClear, Target: "altitude"}},
		{"display_text", []string{"velocity", "1"}, Command{Op: OpShowText, Target: "velocity", Text: "1"}},
	}
	for _, tt := range tests {
		c, err := ParseArgs(tt.verb, tt.args)
		if err != nil {
			t.Fatalf("ParseArgs(%s, %q) = %v", tt.verb, tt.args, err)
		}
		if diff := cmp.Diff(c, tt.want); diff != "" {
			t.Fatalf("ParseArgs(%s, %q) (-got +want)\n%s", tt.verb, tt.args, diff)
		}
	}
}

func TestParseArgs_errors(t *testing.T) {
	tests := []struct {
		verb string
		args []string
		want error
	}{
		{"launch", nil, ErrUnknownCommand},
		{"segments", []string{"altitude"}, ErrBadCommand},
		{"segments", []string{"altitude", "zz"}, ErrBadCommand},
		{"segments", []string{"altitude", "100"}, ErrBadCommand},
		{"show", nil, ErrBadCommand},
		{"brightness", nil, ErrBadCommand},
		{"brightness", []string{"a", "b", "c"}, ErrBadCommand},
		{"brightness", []string{"bright"}, ErrBadCommand},
		{"clear", []string{"a", "b"}, ErrBadCommand},
	}
	for _, tt := range tests {
		if _, err := ParseArgs(tt.verb, tt.args); !errors.Is(err, tt.want) {
			t.Errorf("ParseArgs(%s, %q) = %v, want %v", tt.verb, tt.args, err, tt.want)
		}
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		c    Command
		want string
	}{
		{Command{Op: OpScroll, Target: "mission", Text: "HI"}, `scroll_text mission "HI"`},
		{Command{Op: OpDisplay, Target: "altitude", Segments: []byte{0x3f, 6}}, "display_segments altitude 3f 06"},
		{Command{Op: OpSetBrightness, Brightness: 4}, "set_display_brightness 4"},
		{Command{Op: OpClear}, "clear_display"},
	}
	for _, tt := range tests {
		if s := tt.c.String(); s != tt.want {
			t.Errorf("String() = %q, want %q", s, tt.want)
		}
	}
}
