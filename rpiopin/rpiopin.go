// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpiopin exposes the Raspberry Pi GPIO header as gpio.PinIO through
// the memory mapped GPIO registers of github.com/stianeikeland/go-rpio.
//
// It is an alternative to periph.io/x/host for boards or kernels where the
// host drivers cannot be loaded. Open must be called before any pin is used.
package rpiopin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// NumPins is the number of GPIO lines on the 40 pin header.
const NumPins = 28

var (
	mu     sync.Mutex
	opened int
)

// Open maps the GPIO registers. Calls nest: the registers stay mapped until
// Close was called as many times.
func Open() error {
	mu.Lock()
	defer mu.Unlock()
	if opened == 0 {
		if err := rpio.Open(); err != nil {
			return fmt.Errorf("rpiopin: %w", err)
		}
	}
	opened++
	return nil
}

// Close unmaps the GPIO registers.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if opened == 0 {
		return errors.New("rpiopin: not open")
	}
	opened--
	if opened == 0 {
		return rpio.Close()
	}
	return nil
}

// Pin is a GPIO line of the header, by BCM number.
type Pin struct {
	num rpio.Pin

	mu     sync.Mutex
	output bool
	pull   gpio.Pull
}

// New returns the pin with BCM number n.
func New(n int) (*Pin, error) {
	if n < 0 || n >= NumPins {
		return nil, fmt.Errorf("rpiopin: invalid pin number %d", n)
	}
	return &Pin{num: rpio.Pin(n), pull: gpio.PullNoChange}, nil
}

// ByName returns the pin named "GPIO17" or "17".
func ByName(name string) (*Pin, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(name), "GPIO"))
	if err != nil {
		return nil, fmt.Errorf("rpiopin: invalid pin name %q", name)
	}
	return New(n)
}

func (p *Pin) String() string {
	return p.Name()
}

// Halt implements conn.Resource.
//
// It turns the pin into a floating input.
func (p *Pin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return "GPIO" + strconv.Itoa(int(p.num))
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return int(p.num)
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output {
		return "Out/" + p.Read().String()
	}
	return "In/" + p.Read().String()
}

// In implements gpio.PinIn. Edge detection is not supported.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return errors.New("rpiopin: edge detection is not supported")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.num.Input()
	switch pull {
	case gpio.PullUp:
		p.num.PullUp()
	case gpio.PullDown:
		p.num.PullDown()
	case gpio.Float:
		p.num.PullOff()
	case gpio.PullNoChange:
	default:
		return fmt.Errorf("rpiopin: invalid pull %s", pull)
	}
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.output = false
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	return fromState(p.num.Read())
}

// WaitForEdge implements gpio.PinIn. It always returns false.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull implements gpio.PinIn.
//
// BCM 0 to 8 are pulled up at reset, the others down.
func (p *Pin) DefaultPull() gpio.Pull {
	if p.num <= 8 {
		return gpio.PullUp
	}
	return gpio.PullDown
}

// Out implements gpio.PinOut.
//
// The level is written before the pin is switched to output so it starts at
// the requested level.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.num.Write(toState(l))
	if !p.output {
		p.num.Output()
		p.output = true
	}
	return nil
}

// PWM implements gpio.PinOut. It is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("rpiopin: PWM is not supported")
}

func toState(l gpio.Level) rpio.State {
	if l == gpio.High {
		return rpio.High
	}
	return rpio.Low
}

func fromState(s rpio.State) gpio.Level {
	return s == rpio.High
}

var _ gpio.PinIO = &Pin{}
