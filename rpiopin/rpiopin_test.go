// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rpiopin

import (
	"fmt"
	"testing"

	"github.com/stianeikeland/go-rpio"
	"periph.io/x/conn/v3/gpio"
)

func TestLevels(t *testing.T) {
	if toState(gpio.High) != rpio.High || toState(gpio.Low) != rpio.Low {
		t.Fatal("toState")
	}
	if fromState(rpio.High) != gpio.High || fromState(rpio.Low) != gpio.Low {
		t.Fatal("fromState")
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"GPIO17", 17, true},
		{"gpio4", 4, true},
		{"27", 27, true},
		{"GPIO28", 0, false},
		{"-1", 0, false},
		{"CLK", 0, false},
	}
	for _, tt := range tests {
		p, err := ByName(tt.name)
		if (err == nil) != tt.ok {
			t.Fatalf("ByName(%q) = %v", tt.name, err)
		}
		if !tt.ok {
			continue
		}
		if p.Number() != tt.want || p.String() != fmt.Sprintf("GPIO%d", tt.want) {
			t.Fatalf("ByName(%q) = %s", tt.name, p)
		}
	}
}

func TestPin_noHardware(t *testing.T) {
	p, err := New(9)
	if err != nil {
		t.Fatal(err)
	}
	if p.Pull() != gpio.PullNoChange {
		t.Fatal(p.Pull())
	}
	if p.DefaultPull() != gpio.PullDown {
		t.Fatal(p.DefaultPull())
	}
	if err := p.In(gpio.PullUp, gpio.RisingEdge); err == nil {
		t.Fatal("expected error for edge detection")
	}
	if err := p.PWM(gpio.DutyHalf, 0); err == nil {
		t.Fatal("expected error for PWM")
	}
	if p.WaitForEdge(0) {
		t.Fatal("WaitForEdge()")
	}
	if err := Close(); err == nil {
		t.Fatal("expected error closing before Open")
	}
}
