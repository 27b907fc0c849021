// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package missionpanel drives the seven-segment displays of a mission
// control panel.
//
// The driver is in tm1637, with the emulated chip in tm1637/tm1637sim.
// panel runs commands on a set of named displays and remote carries the
// commands over MQTT, WebSocket and HTTP. segscreen and segimage draw
// frames on a terminal and into images. rpiopin exposes go-rpio pins as
// periph pins.
//
// The missionpanel command in cmd/missionpanel wires them together.
package missionpanel
