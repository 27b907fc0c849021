// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package remote runs JSON panel commands received over MQTT, WebSocket or
// HTTP.
//
// Every transport carries the same messages, one JSON object each:
//
//	{"command": "display_text", "display": "velocity", "text": "12.5"}
//	{"command": "get_status"}
//
// and answers each with {"success": true}, {"error": "..."} or, for
// get_status, the state of every display.
package remote

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/GermanBionicSystems/missionpanel/panel"
	"github.com/buger/jsonparser"
)

// Applier runs panel commands. *panel.Panel implements it.
type Applier interface {
	Apply(ctx context.Context, c panel.Command) error
	Status() []panel.Status
}

// DisplayStatus is the get_status reply entry of one display.
type DisplayStatus struct {
	Name       string `json:"name"`
	Digits     int    `json:"digits"`
	Brightness int    `json:"brightness"`
	// Segments is null until the display was written to.
	Segments  []int  `json:"segments"`
	Text      string `json:"text,omitempty"`
	Scrolling bool   `json:"scrolling"`
}

type statusReply struct {
	Displays []DisplayStatus `json:"displays"`
}

const cmdGetStatus = "get_status"

// Handle runs the command in payload and returns the JSON reply. It blocks
// for as long as the command runs, the whole scroll for scroll_text.
func Handle(ctx context.Context, a Applier, payload []byte) []byte {
	if name, _ := jsonparser.GetString(payload, "command"); name == cmdGetStatus {
		return marshal(Status(a))
	}
	c, err := panel.DecodeCommand(payload)
	if err == nil {
		err = a.Apply(ctx, c)
	}
	return reply(err)
}

// Status returns the get_status reply of a.
func Status(a Applier) interface{} {
	st := a.Status()
	r := statusReply{Displays: make([]DisplayStatus, 0, len(st))}
	for _, s := range st {
		d := DisplayStatus{Name: s.Name, Digits: s.Digits, Brightness: s.Brightness, Text: s.Text, Scrolling: s.Scrolling}
		if s.Frame != nil {
			d.Segments = make([]int, len(s.Frame))
			for i, b := range s.Frame {
				d.Segments[i] = int(b)
			}
		}
		r.Displays = append(r.Displays, d)
	}
	return r
}

func reply(err error) []byte {
	switch {
	case err == nil:
		return marshal(map[string]bool{"success": true})
	case errors.Is(err, panel.ErrUnknownCommand):
		return marshal(map[string]string{"error": "Unknown command"})
	default:
		return marshal(map[string]string{"error": err.Error()})
	}
}

func marshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return b
}
