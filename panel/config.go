// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panel

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/buger/jsonparser"
)

// DisplayConfig describes one display of the panel.
type DisplayConfig struct {
	Name       string
	CLK        string
	DIO        string
	Digits     int
	Brightness int
	// Mirrored is set for modules routing their grids in two mirrored
	// halves, like the common 6 digit modules. Static text is reordered
	// with tm1637.Mirror before being sent to them.
	Mirrored bool
}

// Config is the panel configuration.
//
// In JSON, durations are strings as accepted by time.ParseDuration and
// integers may be quoted:
//
//	{
//	  "delay": "100us",
//	  "ackPolls": 10,
//	  "scrollDelay": "300ms",
//	  "displays": [
//	    {"name": "mission", "clk": "GPIO17", "dio": "GPIO18", "digits": 6, "mirrored": true}
//	  ]
//	}
type Config struct {
	// Delay is held after every bus transition.
	Delay time.Duration
	// AckPolls is how many times DIO is sampled for the acknowledge.
	AckPolls int
	// ScrollDelay is used by scroll commands that do not set one.
	ScrollDelay time.Duration
	Displays    []DisplayConfig
}

// DefaultConfig returns the three displays of the mission panel: the 6 digit
// mission display and the 4 digit altitude and velocity readouts.
func DefaultConfig() *Config {
	return &Config{
		Delay:       tm1637.DefaultOpts.Delay,
		AckPolls:    tm1637.DefaultOpts.AckPolls,
		ScrollDelay: DefaultScrollDelay,
		Displays: []DisplayConfig{
			{Name: "mission", CLK: "GPIO17", DIO: "GPIO18", Digits: 6, Brightness: tm1637.MaxBrightness, Mirrored: true},
			{Name: "altitude", CLK: "GPIO22", DIO: "GPIO23", Digits: 4, Brightness: tm1637.MaxBrightness},
			{Name: "velocity", CLK: "GPIO24", DIO: "GPIO25", Digits: 4, Brightness: tm1637.MaxBrightness},
		},
	}
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a JSON configuration. Missing keys keep the values of
// DefaultConfig; a "displays" array replaces the default displays.
func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	var err error
	if c.Delay, err = getDuration(data, c.Delay, "delay"); err != nil {
		return nil, err
	}
	if c.ScrollDelay, err = getDuration(data, c.ScrollDelay, "scrollDelay"); err != nil {
		return nil, err
	}
	if c.AckPolls, err = getInt(data, c.AckPolls, "ackPolls"); err != nil {
		return nil, err
	}
	if _, t, _, err := jsonparser.Get(data, "displays"); err == nil {
		if t != jsonparser.Array {
			return nil, errors.New("panel: displays must be an array")
		}
		c.Displays = nil
		var perr error
		_, err = jsonparser.ArrayEach(data, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if perr != nil {
				return
			}
			var d DisplayConfig
			d, perr = parseDisplay(v, len(c.Displays))
			c.Displays = append(c.Displays, d)
		}, "displays")
		if err == nil {
			err = perr
		}
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("panel: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func parseDisplay(data []byte, i int) (DisplayConfig, error) {
	d := DisplayConfig{Digits: tm1637.DefaultOpts.Digits, Brightness: tm1637.MaxBrightness}
	var err error
	for _, f := range []struct {
		key string
		dst *string
	}{{"name", &d.Name}, {"clk", &d.CLK}, {"dio", &d.DIO}} {
		if *f.dst, err = jsonparser.GetString(data, f.key); err != nil {
			return d, fmt.Errorf("panel: display %d: %s: %w", i, f.key, err)
		}
	}
	if d.Digits, err = getInt(data, d.Digits, "digits"); err != nil {
		return d, err
	}
	if d.Brightness, err = getInt(data, d.Brightness, "brightness"); err != nil {
		return d, err
	}
	// 6 digit modules are mirrored unless stated otherwise.
	if d.Mirrored, err = jsonparser.GetBoolean(data, "mirrored"); errors.Is(err, jsonparser.KeyPathNotFoundError) {
		d.Mirrored, err = d.Digits == 6, nil
	}
	if err != nil {
		return d, fmt.Errorf("panel: display %d: mirrored: %w", i, err)
	}
	return d, nil
}

func (c *Config) validate() error {
	if c.Delay < 0 || c.ScrollDelay < 0 {
		return errors.New("panel: delays cannot be negative")
	}
	seen := map[string]bool{}
	for _, d := range c.Displays {
		if d.Name == "" {
			return errors.New("panel: display without a name")
		}
		if seen[d.Name] {
			return fmt.Errorf("panel: duplicate display %q", d.Name)
		}
		seen[d.Name] = true
		if d.Digits < 1 || d.Digits > tm1637.MaxDigits {
			return fmt.Errorf("panel: display %q: %w", d.Name, tm1637.ErrDigits)
		}
		if d.Brightness < 0 || d.Brightness > tm1637.MaxBrightness {
			return fmt.Errorf("panel: display %q: %w", d.Name, tm1637.ErrInvalidBrightness)
		}
	}
	return nil
}

// getInt returns the integer at keys, accepting a quoted number, or def if
// the key is missing.
func getInt(data []byte, def int, keys ...string) (int, error) {
	v, t, _, err := jsonparser.Get(data, keys...)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("panel: %s: %w", strings.Join(keys, "."), err)
	}
	var i int64
	switch t {
	case jsonparser.Number:
		i, err = jsonparser.ParseInt(v)
	case jsonparser.String:
		i, err = strconv.ParseInt(string(v), 0, 64)
	default:
		err = fmt.Errorf("unexpected %s", t)
	}
	if err != nil {
		return 0, fmt.Errorf("panel: %s: %w", strings.Join(keys, "."), err)
	}
	return int(i), nil
}

// getDuration returns the duration at keys, or def if the key is missing.
func getDuration(data []byte, def time.Duration, keys ...string) (time.Duration, error) {
	s, err := jsonparser.GetString(data, keys...)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return def, nil
	}
	if err == nil {
		var d time.Duration
		if d, err = time.ParseDuration(s); err == nil {
			return d, nil
		}
	}
	return 0, fmt.Errorf("panel: %s: %w", strings.Join(keys, "."), err)
}
