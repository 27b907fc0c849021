// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package remote

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/net/websocket"
)

// maxBody is the largest command accepted over HTTP.
const maxBody = 64 << 10

// Server serves the panel over HTTP:
//
//	GET  /ws           WebSocket, one JSON command per message
//	POST /api/command  one JSON command per request
//	GET  /api/status   the get_status reply
type Server struct {
	a      Applier
	ctx    context.Context
	logger *log.Logger
}

// NewRouter returns the routes of a Server running commands on a. Commands
// outlive the request that carried them and are cancelled with ctx. logger
// may be nil.
func NewRouter(ctx context.Context, a Applier, logger *log.Logger) *mux.Router {
	s := &Server{a: a, ctx: ctx, logger: logger}
	r := mux.NewRouter()
	r.Handle("/ws", websocket.Handler(s.serveWS))
	r.HandleFunc("/api/command", s.apiCommand).Methods("POST")
	r.HandleFunc("/api/status", s.apiStatus).Methods("GET")
	return r
}

// serveWS answers each message as soon as its command is done. Commands of
// one connection run concurrently, so a long scroll does not hold back the
// commands sent after it.
func (s *Server) serveWS(ws *websocket.Conn) {
	defer ws.Close()
	var mu sync.Mutex
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		var msg []byte
		if err := websocket.Message.Receive(ws, &msg); err != nil {
			if err != io.EOF {
				s.printf("remote: %s: %v", ws.Request().RemoteAddr, err)
			}
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := Handle(s.ctx, s.a, msg)
			mu.Lock()
			defer mu.Unlock()
			if err := websocket.Message.Send(ws, string(r)); err != nil {
				s.printf("remote: %s: %v", ws.Request().RemoteAddr, err)
			}
		}()
	}
}

func (s *Server) apiCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, Handle(s.ctx, s.a, body))
}

func (s *Server) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, marshal(Status(s.a)))
}

func (s *Server) printf(format string, v ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

func writeJSON(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}
