// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panel drives a set of named seven-segment displays from commands.
//
// Each display is driven by one goroutine at a time: a command waits for the
// previous one on the same display to finish, except that a command changing
// what a display shows stops a scroll in progress on it. Commands on
// different displays run concurrently.
package panel

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"sync"
	"time"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"periph.io/x/conn/v3/gpio"
)

// DefaultScrollDelay is the time each frame of a scroll is shown when
// neither the command nor the configuration sets one.
const DefaultScrollDelay = 300 * time.Millisecond

var (
	// ErrUnknownDisplay is returned for a command naming a display the panel
	// does not have.
	ErrUnknownDisplay = errors.New("panel: unknown display")
	// ErrUnknownCommand is returned for an operation name that is not
	// supported.
	ErrUnknownCommand = errors.New("panel: unknown command")
	// ErrBadCommand is returned for a command with missing or malformed
	// arguments.
	ErrBadCommand = errors.New("panel: bad command")
	// ErrPreempted is returned by a scroll stopped by a newer command on the
	// same display.
	ErrPreempted = errors.New("panel: preempted by a newer command")
)

// Device is a display driven by the panel, typically a *tm1637.Dev.
type Device interface {
	Display(frame []byte) error
	WriteString(s string) error
	Play(ctx context.Context, frames iter.Seq2[[]byte, time.Duration]) error
	Frame() []byte
	SetBrightness(level int) error
	Brightness() int
	Digits() int
	Clear() error
	Halt() error
}

// PinOpener returns the pin with the given name, like gpioreg.ByName.
type PinOpener func(name string) (gpio.PinIO, error)

// Status is the state of one display.
type Status struct {
	Name       string
	Digits     int
	Brightness int
	// Frame is the last frame shown in grid order, nil before the first
	// one.
	Frame []byte
	// Text is the text of the last OpShowText or OpScroll.
	Text      string
	Scrolling bool
}

// Panel is a set of named displays.
type Panel struct {
	logger      *log.Logger
	scrollDelay time.Duration

	mu       sync.Mutex
	displays map[string]*display
	order    []string
}

type display struct {
	name     string
	digits   int
	mirrored bool

	// bus is held for the whole duration of each command sent to dev.
	bus sync.Mutex
	dev Device

	mu        sync.Mutex
	cancel    context.CancelCauseFunc
	gen       uint64
	frame     []byte
	text      string
	scrolling bool
	level     int
}

// New returns an empty panel. logger may be nil. scrollDelay is used by
// scroll commands without a delay; 0 means DefaultScrollDelay.
func New(logger *log.Logger, scrollDelay time.Duration) *Panel {
	if scrollDelay <= 0 {
		scrollDelay = DefaultScrollDelay
	}
	return &Panel{logger: logger, scrollDelay: scrollDelay, displays: map[string]*display{}}
}

// Open returns a panel with every display of cfg, with their pins looked up
// through open.
func Open(cfg *Config, open PinOpener, logger *log.Logger) (*Panel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := New(logger, cfg.ScrollDelay)
	for _, dc := range cfg.Displays {
		clk, err := open(dc.CLK)
		if err != nil {
			return nil, fmt.Errorf("panel: display %q: %w", dc.Name, err)
		}
		dio, err := open(dc.DIO)
		if err != nil {
			return nil, fmt.Errorf("panel: display %q: %w", dc.Name, err)
		}
		dev, err := tm1637.New(clk, dio, &tm1637.Opts{
			Digits:     dc.Digits,
			Brightness: dc.Brightness,
			Delay:      cfg.Delay,
			AckPolls:   cfg.AckPolls,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("panel: display %q: %w", dc.Name, err)
		}
		if err := p.Add(dc.Name, dev, dc.Mirrored); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Panel) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("Panel%v", p.order)
}

// Add registers dev under name. mirrored is DisplayConfig.Mirrored.
func (p *Panel) Add(name string, dev Device, mirrored bool) error {
	if name == "" {
		return fmt.Errorf("%w: empty display name", ErrBadCommand)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.displays[name]; ok {
		return fmt.Errorf("panel: duplicate display %q", name)
	}
	p.displays[name] = &display{name: name, digits: dev.Digits(), mirrored: mirrored, dev: dev, level: dev.Brightness()}
	p.order = append(p.order, name)
	return nil
}

// Names returns the display names in the order they were added.
func (p *Panel) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// Apply runs c and returns once it is done. An OpScroll returns when the
// last frame was shown, when ctx is cancelled or with ErrPreempted.
func (p *Panel) Apply(ctx context.Context, c Command) error {
	err := p.apply(ctx, c)
	if err != nil && p.logger != nil && !errors.Is(err, ErrPreempted) {
		p.logger.Printf("panel: %s: %v", c, err)
	}
	return err
}

func (p *Panel) apply(ctx context.Context, c Command) error {
	if err := c.check(); err != nil {
		return err
	}
	targets, err := p.targets(c.Target)
	if err != nil {
		return err
	}
	switch c.Op {
	case OpDisplay:
		frame := append([]byte(nil), c.Segments...)
		return targets[0].show(func(dev Device) error { return dev.Display(frame) }, frame, "")
	case OpShowText:
		d := targets[0]
		if !d.mirrored {
			frame := tm1637.FormatString(c.Text, d.digits)
			return d.show(func(dev Device) error { return dev.WriteString(c.Text) }, frame, c.Text)
		}
		frame := tm1637.Mirror(tm1637.FormatString(c.Text, d.digits))
		return d.show(func(dev Device) error { return dev.Display(frame) }, frame, c.Text)
	case OpScroll:
		delay := c.Delay
		if delay == 0 {
			delay = p.scrollDelay
		}
		return targets[0].scroll(ctx, c.Text, delay)
	case OpSetBrightness:
		level := c.Brightness
		if c.Clamp {
			level = max(0, min(tm1637.MaxBrightness, level))
		}
		if level < 0 || level > tm1637.MaxBrightness {
			return fmt.Errorf("%w: got %d", tm1637.ErrInvalidBrightness, level)
		}
		var errs []error
		for _, d := range targets {
			errs = append(errs, d.setBrightness(level))
		}
		return errors.Join(errs...)
	case OpClear:
		var errs []error
		for _, d := range targets {
			frame := make([]byte, d.digits)
			errs = append(errs, d.show(Device.Clear, frame, ""))
		}
		return errors.Join(errs...)
	}
	return fmt.Errorf("%w %s", ErrUnknownCommand, c.Op)
}

// Status returns the state of every display.
func (p *Panel) Status() []Status {
	p.mu.Lock()
	ds := make([]*display, 0, len(p.order))
	for _, n := range p.order {
		ds = append(ds, p.displays[n])
	}
	p.mu.Unlock()
	out := make([]Status, 0, len(ds))
	for _, d := range ds {
		d.mu.Lock()
		out = append(out, Status{
			Name:       d.name,
			Digits:     d.digits,
			Brightness: d.level,
			Frame:      append([]byte(nil), d.frame...),
			Text:       d.text,
			Scrolling:  d.scrolling,
		})
		d.mu.Unlock()
	}
	return out
}

// Halt stops every scroll, then blanks and turns off every display.
func (p *Panel) Halt() error {
	ds, _ := p.targets("")
	var errs []error
	for _, d := range ds {
		d.preempt(nil)
		d.bus.Lock()
		errs = append(errs, d.dev.Halt())
		d.bus.Unlock()
	}
	return errors.Join(errs...)
}

func (p *Panel) targets(name string) ([]*display, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if name == "" {
		out := make([]*display, 0, len(p.order))
		for _, n := range p.order {
			out = append(out, p.displays[n])
		}
		return out, nil
	}
	d, ok := p.displays[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDisplay, name)
	}
	return []*display{d}, nil
}

// preempt stops the scroll in progress, if any, makes cancel the one stopped
// by the next command and returns the generation of the command calling it.
func (d *display) preempt(cancel context.CancelCauseFunc) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel(ErrPreempted)
	}
	d.cancel = cancel
	d.gen++
	return d.gen
}

// show runs f, which replaces the content of the display with frame.
func (d *display) show(f func(Device) error, frame []byte, text string) error {
	gen := d.preempt(nil)
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := f(d.dev); err != nil {
		return err
	}
	d.mu.Lock()
	if d.gen == gen {
		d.frame = frame
		d.text = text
		d.scrolling = false
	}
	d.mu.Unlock()
	return nil
}

// scroll plays the scroll frames of text. They come in mirrored grid order
// and are reordered for displays wired in plain order.
func (d *display) scroll(ctx context.Context, text string, delay time.Duration) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	gen := d.preempt(cancel)

	d.bus.Lock()
	d.mu.Lock()
	current := d.gen == gen
	if current {
		d.text = text
		d.scrolling = true
	}
	d.mu.Unlock()
	err := ctx.Err()
	var last []byte
	if current && err == nil {
		frames := tm1637.Scroll(text, d.digits, delay)
		if !d.mirrored {
			frames = tm1637.MirrorFrames(frames)
		}
		err = d.dev.Play(ctx, frames)
		last = d.dev.Frame()
	}
	d.bus.Unlock()

	d.mu.Lock()
	if d.gen == gen {
		d.cancel = nil
		d.scrolling = false
		if last != nil {
			d.frame = last
		}
	}
	d.mu.Unlock()
	if !current || (err != nil && errors.Is(context.Cause(ctx), ErrPreempted)) {
		return ErrPreempted
	}
	return err
}

func (d *display) setBrightness(level int) error {
	d.bus.Lock()
	defer d.bus.Unlock()
	if err := d.dev.SetBrightness(level); err != nil {
		return err
	}
	d.mu.Lock()
	d.level = level
	frame := d.frame
	scrolling := d.scrolling
	d.mu.Unlock()
	// The brightness is sent with the next frame: resend a static one.
	if frame != nil && !scrolling {
		return d.dev.Display(frame)
	}
	return nil
}
