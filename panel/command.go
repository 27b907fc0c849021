// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/buger/jsonparser"
)

// Op is a panel operation.
type Op int

// Operations accepted by Panel.Apply.
const (
	// OpDisplay shows raw segment bytes.
	OpDisplay Op = iota + 1
	// OpShowText shows text right aligned, without scrolling.
	OpShowText
	// OpScroll scrolls text across the display.
	OpScroll
	// OpSetBrightness sets the brightness of one or every display.
	OpSetBrightness
	// OpClear blanks one or every display.
	OpClear
)

var ops = []struct {
	op         Op
	name, verb string
}{
	{OpDisplay, "display_segments", "segments"},
	{OpShowText, "display_text", "show"},
	{OpScroll, "scroll_text", "scroll"},
	{OpSetBrightness, "set_display_brightness", "brightness"},
	{OpClear, "clear_display", "clear"},
}

// String returns the name of the operation in JSON commands.
func (o Op) String() string {
	for _, e := range ops {
		if e.op == o {
			return e.name
		}
	}
	return "Op(" + strconv.Itoa(int(o)) + ")"
}

// Verb returns the name of the operation in the shell.
func (o Op) Verb() string {
	for _, e := range ops {
		if e.op == o {
			return e.verb
		}
	}
	return o.String()
}

// ParseOp returns the operation named by a JSON command name or a shell verb.
func ParseOp(name string) (Op, error) {
	for _, e := range ops {
		if e.name == name || e.verb == name {
			return e.op, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

// Command is one request to the panel.
type Command struct {
	Op Op
	// Target is the display name. Empty means every display for
	// OpSetBrightness and OpClear.
	Target string
	// Text is used by OpShowText and OpScroll.
	Text string
	// Segments is used by OpDisplay.
	Segments []byte
	// Brightness is used by OpSetBrightness.
	Brightness int
	// Clamp brings an out of range Brightness into range instead of failing.
	Clamp bool
	// Delay is the time each frame of OpScroll is shown. 0 uses the panel
	// default.
	Delay time.Duration
}

func (c Command) String() string {
	s := c.Op.String()
	if c.Target != "" {
		s += " " + c.Target
	}
	switch c.Op {
	case OpShowText, OpScroll:
		s += " " + strconv.Quote(c.Text)
	case OpDisplay:
		s += fmt.Sprintf(" % x", c.Segments)
	case OpSetBrightness:
		s += " " + strconv.Itoa(c.Brightness)
	}
	return s
}

// DecodeCommand decodes a JSON command:
//
//	{"command": "scroll_text", "display": "mission", "text": "HELLO", "delay": 0.2}
//	{"command": "display_segments", "display": "altitude", "segments": [63, 6, 91, 79]}
//	{"command": "display_text", "display": "velocity", "text": "12.5"}
//	{"command": "set_display_brightness", "brightness": 5}
//	{"command": "clear_display"}
//
// The delay is in seconds. Numbers may be quoted.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	name, err := jsonparser.GetString(data, "command")
	if err != nil {
		return c, fmt.Errorf("%w: command: %v", ErrBadCommand, err)
	}
	if c.Op, err = ParseOp(name); err != nil {
		return c, err
	}
	if c.Target, err = optString(data, "display"); err != nil {
		return c, err
	}
	switch c.Op {
	case OpDisplay:
		var perr error
		_, err = jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if perr != nil {
				return
			}
			var i int64
			if i, perr = jsonparser.ParseInt(v); perr == nil && (i < 0 || i > 0xff) {
				perr = fmt.Errorf("segment %d out of range", i)
			}
			c.Segments = append(c.Segments, byte(i))
		}, "segments")
		if err == nil {
			err = perr
		}
		if err != nil {
			return c, fmt.Errorf("%w: segments: %v", ErrBadCommand, err)
		}
	case OpShowText, OpScroll:
		if c.Text, err = jsonparser.GetString(data, "text"); err != nil {
			return c, fmt.Errorf("%w: text: %v", ErrBadCommand, err)
		}
		if c.Op == OpScroll {
			secs, err := getFloat(data, "delay")
			if err != nil {
				return c, err
			}
			c.Delay = time.Duration(secs * float64(time.Second))
		}
	case OpSetBrightness:
		if _, _, _, err := jsonparser.Get(data, "brightness"); err != nil {
			return c, fmt.Errorf("%w: brightness: %v", ErrBadCommand, err)
		}
		if c.Brightness, err = getInt(data, 0, "brightness"); err != nil {
			return c, fmt.Errorf("%w: %v", ErrBadCommand, err)
		}
		if c.Clamp, err = jsonparser.GetBoolean(data, "clamp"); err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return c, fmt.Errorf("%w: clamp: %v", ErrBadCommand, err)
		}
	}
	return c, c.check()
}

// ParseArgs builds a command from a shell verb and its arguments:
//
//	segments <display> <hex>...
//	show <display> <text>...
//	scroll <display> <text>...
//	brightness [display] <0-7>
//	clear [display]
func ParseArgs(verb string, args []string) (Command, error) {
	var c Command
	var err error
	if c.Op, err = ParseOp(verb); err != nil {
		return c, err
	}
	switch c.Op {
	case OpDisplay:
		if len(args) < 2 {
			return c, fmt.Errorf("%w: usage: segments <display> <hex>...", ErrBadCommand)
		}
		c.Target = args[0]
		for _, a := range args[1:] {
			v, err := strconv.ParseUint(strings.TrimPrefix(a, "0x"), 16, 8)
			if err != nil {
				return c, fmt.Errorf("%w: %q is not a segment byte", ErrBadCommand, a)
			}
			c.Segments = append(c.Segments, byte(v))
		}
	case OpShowText, OpScroll:
		if len(args) < 1 {
			return c, fmt.Errorf("%w: usage: %s <display> <text>...", ErrBadCommand, verb)
		}
		c.Target = args[0]
		c.Text = strings.Join(args[1:], " ")
	case OpSetBrightness:
		switch len(args) {
		case 1:
		case 2:
			c.Target = args[0]
		default:
			return c, fmt.Errorf("%w: usage: brightness [display] <0-%d>", ErrBadCommand, tm1637.MaxBrightness)
		}
		if c.Brightness, err = strconv.Atoi(args[len(args)-1]); err != nil {
			return c, fmt.Errorf("%w: %q is not a brightness", ErrBadCommand, args[len(args)-1])
		}
	case OpClear:
		if len(args) > 1 {
			return c, fmt.Errorf("%w: usage: clear [display]", ErrBadCommand)
		}
		if len(args) == 1 {
			c.Target = args[0]
		}
	}
	return c, c.check()
}

// check verifies the fields that do not depend on the displays.
func (c Command) check() error {
	switch c.Op {
	case OpDisplay, OpShowText, OpScroll:
		if c.Target == "" {
			return fmt.Errorf("%w: %s needs a display", ErrBadCommand, c.Op)
		}
	case OpSetBrightness, OpClear:
	default:
		return fmt.Errorf("%w %s", ErrUnknownCommand, c.Op)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: negative delay", ErrBadCommand)
	}
	return nil
}

func optString(data []byte, key string) (string, error) {
	s, err := jsonparser.GetString(data, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadCommand, key, err)
	}
	return s, nil
}

// getFloat returns the number at key, accepting a quoted number, or 0 if the
// key is missing.
func getFloat(data []byte, key string) (float64, error) {
	v, t, _, err := jsonparser.Get(data, key)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return 0, nil
	}
	var f float64
	if err == nil {
		switch t {
		case jsonparser.Number:
			f, err = jsonparser.ParseFloat(v)
		case jsonparser.String:
			f, err = strconv.ParseFloat(string(v), 64)
		default:
			err = fmt.Errorf("unexpected %s", t)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrBadCommand, key, err)
	}
	return f, nil
}
