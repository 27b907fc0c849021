// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// missionpanel drives the seven-segment displays of the mission control
// panel.
//
// Commands come from the interactive shell (-shell), an MQTT broker (-mqtt),
// WebSocket and HTTP clients (-ws) or the command line:
//
//	missionpanel scroll mission GO FOR LAUNCH
//	missionpanel -backend sim -shell
//	missionpanel -gif launch.gif -text "LIFT OFF"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/missionpanel/panel"
	"github.com/GermanBionicSystems/missionpanel/remote"
	"github.com/GermanBionicSystems/missionpanel/rpiopin"
	"github.com/GermanBionicSystems/missionpanel/segimage"
	"github.com/GermanBionicSystems/missionpanel/segscreen"
	"github.com/GermanBionicSystems/missionpanel/tm1637"
	"github.com/GermanBionicSystems/missionpanel/tm1637/tm1637sim"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var mqttURL string

func init() {
	mqttURL = os.Getenv("MISSIONPANEL_MQTT_URL")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, e.g. mqtt://localhost:1883/nasa/; overrides $MISSIONPANEL_MQTT_URL")
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "missionpanel: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "", "JSON panel configuration; the three built-in displays when empty")
	backend := flag.String("backend", "host", "pin driver: host (periph), rpio (/dev/gpiomem) or sim (terminal)")
	logPath := flag.String("log", "", "also log to this file, rotated")
	wsAddr := flag.String("ws", "", "serve WebSocket and HTTP commands on this address, e.g. :8000")
	shell := flag.Bool("shell", false, "run the interactive shell")
	gifPath := flag.String("gif", "", "write a GIF of -text scrolling and exit")
	text := flag.String("text", "MISSION CONTROL", "text of the -gif animation")
	digits := flag.Int("digits", 6, "digits of the -gif animation")
	scrollDelay := flag.Duration("delay", 200*time.Millisecond, "frame duration of the -gif animation")
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)
	if *logPath != "" {
		f := &lumberjack.Logger{Filename: *logPath, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	if *gifPath != "" {
		return writeGIF(*gifPath, *text, *digits, *scrollDelay)
	}

	cfg := panel.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = panel.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	open, closer, err := opener(*backend, cfg)
	if err != nil {
		return err
	}
	defer closer()
	p, err := panel.Open(cfg, open, log.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flag.NArg() != 0 {
		return runOnce(ctx, p, flag.Args())
	}
	if mqttURL == "" && *wsAddr == "" && !*shell {
		return errors.New("nothing to do: pass a command, -shell, -mqtt or -ws")
	}
	// Only the long running modes blank the displays on exit.
	defer p.Halt()

	errs := make(chan error, 2)
	if mqttURL != "" {
		m, err := remote.NewMQTT(mqttURL, p, log.Default())
		if err != nil {
			return err
		}
		log.Printf("missionpanel: listening on %s", m)
		go func() { errs <- m.Run(ctx) }()
	}
	if *wsAddr != "" {
		srv := &http.Server{Addr: *wsAddr, Handler: remote.NewRouter(ctx, p, log.Default())}
		go func() {
			<-ctx.Done()
			srv.Shutdown(context.Background())
		}()
		log.Printf("missionpanel: serving on %s", *wsAddr)
		go func() {
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				errs <- err
			}
		}()
	}
	if *shell {
		runShell(ctx, p)
		stop()
	}
	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

// runOnce applies the command in args. The displays keep showing its
// result after the process exits.
func runOnce(ctx context.Context, p *panel.Panel, args []string) error {
	c, err := panel.ParseArgs(args[0], args[1:])
	if err != nil {
		return err
	}
	return p.Apply(ctx, c)
}

// opener returns the pin lookup of the backend and a function releasing it.
func opener(backend string, cfg *panel.Config) (panel.PinOpener, func(), error) {
	switch backend {
	case "host":
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		return func(name string) (gpio.PinIO, error) {
			if p := gpioreg.ByName(name); p != nil {
				return p, nil
			}
			return nil, fmt.Errorf("no pin %q", name)
		}, func() {}, nil
	case "rpio":
		if err := rpiopin.Open(); err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := rpiopin.Close(); err != nil {
				log.Print(err)
			}
		}
		return rpioByName, closer, nil
	case "sim":
		return simulate(cfg)
	}
	return nil, nil, fmt.Errorf("unknown backend %q", backend)
}

func rpioByName(name string) (gpio.PinIO, error) {
	p, err := rpiopin.ByName(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// simulate wires an emulated chip per display, drawn on the terminal. The
// bus runs without delays.
func simulate(cfg *panel.Config) (panel.PinOpener, func(), error) {
	cfg.Delay = 0
	screen := segscreen.New(nil)
	pins := map[string]gpio.PinIO{}
	for _, dc := range cfg.Displays {
		view, err := screen.Add(dc.Name, dc.Digits)
		if err != nil {
			return nil, nil, err
		}
		chip := tm1637sim.New()
		digits, mirrored := dc.Digits, dc.Mirrored
		chip.OnRefresh = func(s tm1637sim.State) {
			var err error
			if !s.On {
				err = view.Off()
			} else {
				err = view.Show(physical(s.Frame(digits), mirrored), s.Brightness)
			}
			if err != nil {
				log.Print(err)
			}
		}
		pins[dc.CLK] = chip.CLK()
		pins[dc.DIO] = chip.DIO()
	}
	return func(name string) (gpio.PinIO, error) {
		if p, ok := pins[name]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("no simulated pin %q", name)
	}, func() { screen.Halt() }, nil
}

// physical returns the digits in the order they appear on the module.
func physical(frame []byte, mirrored bool) []byte {
	if mirrored {
		return tm1637.Mirror(frame)
	}
	return frame
}

func writeGIF(path, text string, digits int, delay time.Duration) error {
	r, err := segimage.New(&segimage.Opts{Digits: digits, Caption: text})
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := r.WriteGIF(f, tm1637.MirrorFrames(tm1637.Scroll(text, digits, delay)), tm1637.MaxBrightness); err != nil {
		return err
	}
	return f.Close()
}
