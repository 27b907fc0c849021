// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tm1637_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/GermanBionicSystems/missionpanel/tm1637/tm1637sim"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	clk := gpioreg.ByName("GPIO17")
	dio := gpioreg.ByName("GPIO18")
	if clk == nil || dio == nil {
		log.Fatal("failed to find GPIO17 or GPIO18")
	}
	d, err := tm1637.New(clk, dio, &tm1637.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()
	if err := d.ScrollText(context.Background(), "HELLO", 300*time.Millisecond); err != nil {
		log.Fatal(err)
	}
}

func ExampleDev_WriteString() {
	chip := tm1637sim.New()
	d, err := tm1637.New(chip.CLK(), chip.DIO(), &tm1637.Opts{Digits: 4, Brightness: 3, AckPolls: 2})
	if err != nil {
		log.Fatal(err)
	}
	if err := d.WriteString("12.5"); err != nil {
		log.Fatal(err)
	}
	s := chip.State()
	fmt.Printf("% x on=%t brightness=%d\n", s.Frame(4), s.On, s.Brightness)
	// Output: 00 06 db 6d on=true brightness=3
}

func ExampleScroll() {
	for frame := range tm1637.Scroll("42", 4, 0) {
		fmt.Printf("% x\n", frame)
	}
	// Output:
	// 00 00 00 00
	// 00 00 66 00
	// 00 00 5b 66
	// 66 00 00 5b
	// 5b 66 00 00
	// 00 5b 00 00
	// 00 00 00 00
}
