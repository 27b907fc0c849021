// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// Bus is the two-wire serial interface of the TM1637, bit-banged over a
// clock and a data line.
//
// Bus holds no buffered data. It must not be driven by two callers at the
// same time.
type Bus struct {
	clk      gpio.PinIO
	dio      gpio.PinIO
	clock    clockwork.Clock
	delay    time.Duration
	ackPolls int
	logger   *log.Logger
}

// NewBus returns a Bus using clk and dio, and leaves both lines high, which
// is the idle state of the bus.
//
// Only Delay, AckPolls, Clock and Logger are used from opts. If opts is nil,
// DefaultOpts is used.
func NewBus(clk, dio gpio.PinIO, opts *Opts) (*Bus, error) {
	if clk == nil || dio == nil {
		return nil, errors.New("tm1637: clk and dio pins are required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	b := &Bus{
		clk:      clk,
		dio:      dio,
		clock:    opts.Clock,
		delay:    opts.Delay,
		ackPolls: opts.AckPolls,
		logger:   opts.Logger,
	}
	if b.clock == nil {
		b.clock = clockwork.NewRealClock()
	}
	if b.ackPolls < 1 {
		b.ackPolls = 1
	}
	if err := b.set(b.clk, gpio.High); err != nil {
		return nil, err
	}
	if err := b.set(b.dio, gpio.High); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bus) String() string {
	return fmt.Sprintf("tm1637.Bus{CLK: %s, DIO: %s}", b.clk, b.dio)
}

// Start sends the start condition: DIO falls while CLK is high.
func (b *Bus) Start() error {
	if err := b.set(b.dio, gpio.High); err != nil {
		return err
	}
	if err := b.set(b.clk, gpio.High); err != nil {
		return err
	}
	return b.set(b.dio, gpio.Low)
}

// Stop sends the stop condition: DIO rises while CLK is high.
func (b *Bus) Stop() error {
	if err := b.set(b.clk, gpio.Low); err != nil {
		return err
	}
	if err := b.set(b.dio, gpio.Low); err != nil {
		return err
	}
	if err := b.set(b.clk, gpio.High); err != nil {
		return err
	}
	return b.set(b.dio, gpio.High)
}

// WriteByte clocks out v least significant bit first, then gives the
// receiver a ninth clock to acknowledge.
//
// A missing acknowledge is not an error: many modules do not pull DIO low
// reliably. It is only reported to the logger, if any.
func (b *Bus) WriteByte(v byte) error {
	for i := 0; i < 8; i++ {
		if err := b.set(b.clk, gpio.Low); err != nil {
			return err
		}
		if err := b.set(b.dio, gpio.Level(v&1 != 0)); err != nil {
			return err
		}
		if err := b.set(b.clk, gpio.High); err != nil {
			return err
		}
		v >>= 1
	}
	if err := b.set(b.clk, gpio.Low); err != nil {
		return err
	}
	if err := b.set(b.dio, gpio.High); err != nil {
		return err
	}
	if err := b.set(b.clk, gpio.High); err != nil {
		return err
	}
	return b.ack()
}

// ack releases DIO and samples it up to ackPolls times for the receiver
// pulling it low. DIO is always switched back to an output afterward.
func (b *Bus) ack() error {
	if err := b.dio.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("tm1637: %s: %w", b.dio, err)
	}
	l := b.dio.Read()
	for i := 1; i < b.ackPolls && l == gpio.High; i++ {
		b.sleep()
		l = b.dio.Read()
	}
	if l == gpio.High && b.logger != nil {
		b.logger.Printf("tm1637: no acknowledge on %s after %d polls", b.dio, b.ackPolls)
	}
	// CLK is still high: DIO must come back at the sampled level, any edge
	// here is a start or stop condition for the receiver.
	if err := b.dio.Out(l); err != nil {
		return fmt.Errorf("tm1637: %s: %w", b.dio, err)
	}
	b.sleep()
	return nil
}

func (b *Bus) set(p gpio.PinIO, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("tm1637: %s: %w", p, err)
	}
	b.sleep()
	return nil
}

func (b *Bus) sleep() {
	if b.delay > 0 {
		b.clock.Sleep(b.delay)
	}
}
