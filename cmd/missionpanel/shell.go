// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/GermanBionicSystems/missionpanel/panel"
	"github.com/abiosoft/ishell"
)

const panelKey = "$panel"

var shellCmds = []struct {
	op   panel.Op
	help string
}{
	{panel.OpDisplay, "DISPLAY HEX... shows raw segment bytes"},
	{panel.OpShowText, "DISPLAY TEXT... shows text right aligned"},
	{panel.OpScroll, "DISPLAY TEXT... scrolls text in the background"},
	{panel.OpSetBrightness, "[DISPLAY] 0-7 sets the brightness, of every display by default"},
	{panel.OpClear, "[DISPLAY] blanks a display, every display by default"},
}

// newShell returns the shell running commands on p. Scrolls run in the
// background and stop with ctx.
func newShell(ctx context.Context, p *panel.Panel) *ishell.Shell {
	sh := ishell.New()
	sh.Set(panelKey, p)
	sh.SetPrompt("panel > ")
	for _, e := range shellCmds {
		verb := e.op.Verb()
		sh.AddCmd(&ishell.Cmd{
			Name: verb,
			Help: e.help,
			Func: func(c *ishell.Context) {
				cmd, err := panel.ParseArgs(verb, c.Args)
				if err != nil {
					c.Err(err)
					return
				}
				p := c.Get(panelKey).(*panel.Panel)
				if cmd.Op == panel.OpScroll {
					// Failures are logged by the panel.
					go p.Apply(ctx, cmd)
					return
				}
				if err := p.Apply(ctx, cmd); err != nil {
					c.Err(err)
				}
			},
		})
	}
	sh.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "prints the state of every display",
		Func: func(c *ishell.Context) {
			for _, s := range c.Get(panelKey).(*panel.Panel).Status() {
				c.Println(formatStatus(s))
			}
		},
	})
	return sh
}

func runShell(ctx context.Context, p *panel.Panel) {
	sh := newShell(ctx, p)
	sh.Run()
	sh.Close()
}

func formatStatus(s panel.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %d digits  brightness %d  ", s.Name, s.Digits, s.Brightness)
	if s.Frame == nil {
		b.WriteString("--")
	} else {
		fmt.Fprintf(&b, "% x", s.Frame)
	}
	if s.Text != "" {
		fmt.Fprintf(&b, "  %q", s.Text)
	}
	if s.Scrolling {
		b.WriteString("  scrolling")
	}
	return b.String()
}
