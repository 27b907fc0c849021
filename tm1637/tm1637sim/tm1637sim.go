// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tm1637sim emulates a TM1637 at the wire level.
//
// A Chip exposes a CLK and a DIO gpio.PinIO. Anything driving these pins like
// a real module, including tm1637.Dev, gets its start and stop conditions,
// bytes and commands decoded into display RAM, and the acknowledge driven
// back on DIO.
package tm1637sim

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Grids is the number of digits the chip can drive.
const Grids = 6

// State is the visible state of the chip.
type State struct {
	// Segments is the display RAM, one byte per grid.
	Segments [Grids]byte
	// Brightness is the pulse width setting, 0 to 7.
	Brightness int
	// On is false until a display control command turns the display on.
	On bool
}

// Frame returns the first digits bytes of the display RAM.
func (s State) Frame(digits int) []byte {
	if digits > Grids {
		digits = Grids
	}
	out := make([]byte, digits)
	copy(out, s.Segments[:])
	return out
}

// Chip is an emulated TM1637.
type Chip struct {
	// NoAck makes the chip never pull DIO low on the ninth clock, like some
	// clone modules.
	NoAck bool
	// OnRefresh is called after every display control command, with the
	// state it produced. It is called without any lock held.
	OnRefresh func(State)

	mu       sync.Mutex
	clkPin   Pin
	dioPin   Pin
	clk      gpio.Level
	dio      gpio.Level
	dioInput bool
	acking   bool
	inTx     bool
	bits     int
	cur      byte
	tx       []byte
	log      [][]byte
	autoInc  bool
	addr     int
	state    State
}

// New returns a Chip with both lines idle high and the display off.
func New() *Chip {
	c := &Chip{clk: gpio.High, dio: gpio.High, autoInc: true}
	c.clkPin = Pin{c: c, name: "TM1637SIM_CLK", num: 0}
	c.dioPin = Pin{c: c, name: "TM1637SIM_DIO", num: 1}
	return c
}

func (c *Chip) String() string {
	return "tm1637sim"
}

// CLK returns the clock pin.
func (c *Chip) CLK() gpio.PinIO {
	return &c.clkPin
}

// DIO returns the data pin.
func (c *Chip) DIO() gpio.PinIO {
	return &c.dioPin
}

// State returns the current display state.
func (c *Chip) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transactions returns the bytes of every transaction received so far, one
// slice per start and stop pair.
func (c *Chip) Transactions() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.log))
	for i, t := range c.log {
		out[i] = append([]byte(nil), t...)
	}
	return out
}

// Reset forgets the recorded transactions.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = nil
}

// line returns the level seen on DIO. The chip only ever pulls it low.
func (c *Chip) line() gpio.Level {
	if c.acking && !c.NoAck {
		return gpio.Low
	}
	if c.dioInput {
		return gpio.High
	}
	return c.dio
}

func (c *Chip) setCLK(l gpio.Level) {
	prev := c.clk
	c.clk = l
	switch {
	case prev == gpio.Low && l == gpio.High:
		c.rise()
	case prev == gpio.High && l == gpio.Low:
		c.fall()
	}
}

// setDIO updates the host side of DIO and returns true if a display control
// command completed.
func (c *Chip) setDIO(l gpio.Level, input bool) bool {
	before := c.line()
	c.dio = l
	c.dioInput = input
	after := c.line()
	if c.clk == gpio.Low || before == after {
		return false
	}
	if after == gpio.Low {
		c.inTx = true
		c.bits = 0
		c.cur = 0
		c.tx = nil
		return false
	}
	if !c.inTx {
		return false
	}
	c.inTx = false
	c.acking = false
	c.log = append(c.log, c.tx)
	return len(c.tx) != 0 && c.tx[0]&0xc0 == 0x80
}

func (c *Chip) rise() {
	if !c.inTx {
		return
	}
	if c.bits < 8 {
		if c.line() == gpio.High {
			c.cur |= 1 << c.bits
		}
		c.bits++
		if c.bits == 8 {
			c.receive(c.cur)
		}
		return
	}
	// Ninth clock.
	c.bits = 9
}

func (c *Chip) fall() {
	if !c.inTx {
		return
	}
	switch c.bits {
	case 8:
		c.acking = true
	case 9:
		c.acking = false
		c.bits = 0
		c.cur = 0
	}
}

func (c *Chip) receive(b byte) {
	c.tx = append(c.tx, b)
	if len(c.tx) > 1 {
		if c.addr < Grids {
			c.state.Segments[c.addr] = b
		}
		if c.autoInc {
			c.addr++
		}
		return
	}
	switch b & 0xc0 {
	case 0x40:
		c.autoInc = b&0x04 == 0
	case 0x80:
		c.state.On = b&0x08 != 0
		c.state.Brightness = int(b & 0x07)
	case 0xc0:
		c.addr = int(b & 0x0f)
	}
}

// Pin is one of the two lines of a Chip.
type Pin struct {
	c    *Chip
	name string
	num  int
}

func (p *Pin) String() string {
	return fmt.Sprintf("%s(%d)", p.name, p.num)
}

// Halt implements conn.Resource. It has no effect.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.num
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	if p == &p.c.dioPin && p.c.dioInput {
		return "In/" + p.c.line().String()
	}
	return "Out/" + p.level().String()
}

// In implements gpio.PinIn. Only PullUp and Float make sense on the bus.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return errors.New("tm1637sim: edge detection is not supported")
	}
	if pull == gpio.PullDown {
		return errors.New("tm1637sim: the bus has pull-ups")
	}
	c := p.c
	c.mu.Lock()
	refresh := false
	if p == &c.dioPin {
		refresh = c.setDIO(c.dio, true)
	} else {
		c.setCLK(gpio.High)
	}
	s := c.state
	c.mu.Unlock()
	if refresh {
		c.refresh(s)
	}
	return nil
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	return p.level()
}

// WaitForEdge implements gpio.PinIn. Edges are not supported.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	return gpio.PullUp
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullUp
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	c := p.c
	c.mu.Lock()
	refresh := false
	if p == &c.dioPin {
		refresh = c.setDIO(l, false)
	} else {
		c.setCLK(l)
	}
	s := c.state
	c.mu.Unlock()
	if refresh {
		c.refresh(s)
	}
	return nil
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tm1637sim: PWM is not supported")
}

func (p *Pin) level() gpio.Level {
	if p == &p.c.dioPin {
		return p.c.line()
	}
	return p.c.clk
}

func (c *Chip) refresh(s State) {
	if c.OnRefresh != nil {
		c.OnRefresh(s)
	}
}

var _ gpio.PinIO = &Pin{}
