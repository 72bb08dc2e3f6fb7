// Package ssetest provides a scripted SSE server for tests. Each scripted
// connection handles one client attempt in order; once the script runs
// out, further attempts are answered with 204 so a reconnecting client
// under test shuts itself down instead of hammering the server.
package ssetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ConnFunc scripts a single connection. Returning ends the response body,
// which a streaming client sees as a dropped stream.
type ConnFunc func(r *http.Request, s *Stream)

// Server serves a fixed sequence of scripted connections.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	scripts []ConnFunc
	next    int
	headers []http.Header
}

// NewServer starts a server that plays the scripts in order.
func NewServer(scripts ...ConnFunc) *Server {
	s := &Server{scripts: scripts}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.headers = append(s.headers, r.Header.Clone())
	var script ConnFunc
	if s.next < len(s.scripts) {
		script = s.scripts[s.next]
		s.next++
	}
	s.mu.Unlock()

	if script == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	script(r, newStream(w))
}

// Attempts returns how many connections the server has received.
func (s *Server) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.headers)
}

// RequestHeader returns the request headers of the i-th connection.
func (s *Server) RequestHeader(i int) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.headers) {
		return nil
	}
	return s.headers[i]
}

// Stream writes SSE wire data on one scripted connection. The event-stream
// content type and status are committed lazily on the first write, so a
// script may instead reply with Decline or respond through Raw.
type Stream struct {
	w       http.ResponseWriter
	f       http.Flusher
	started bool
}

func newStream(w http.ResponseWriter) *Stream {
	f, _ := w.(http.Flusher)
	return &Stream{w: w, f: f}
}

func (s *Stream) start() {
	if s.started {
		return
	}
	s.started = true
	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.WriteHeader(http.StatusOK)
}

// WriteEvent writes one event. Empty eventType and id omit their fields;
// data may contain newlines and is split into one data field per line.
func (s *Stream) WriteEvent(eventType, id, data string) {
	s.start()
	if eventType != "" {
		fmt.Fprintf(s.w, "event: %s\n", eventType)
	}
	if id != "" {
		fmt.Fprintf(s.w, "id: %s\n", id)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(s.w, "data: %s\n", line)
	}
	fmt.Fprint(s.w, "\n")
	s.Flush()
}

// WriteRetry writes a retry field adjusting the client's reconnect delay.
func (s *Stream) WriteRetry(ms int) {
	s.start()
	fmt.Fprintf(s.w, "retry: %d\n\n", ms)
	s.Flush()
}

// WriteComment writes a comment line.
func (s *Stream) WriteComment(text string) {
	s.start()
	fmt.Fprintf(s.w, ": %s\n", text)
	s.Flush()
}

// WriteRaw writes raw bytes to the stream verbatim.
func (s *Stream) WriteRaw(raw string) {
	s.start()
	fmt.Fprint(s.w, raw)
	s.Flush()
}

// Flush pushes buffered bytes to the client.
func (s *Stream) Flush() {
	s.start()
	if s.f != nil {
		s.f.Flush()
	}
}

// KeepOpen blocks until the client goes away, holding the stream open.
func (s *Stream) KeepOpen(r *http.Request) {
	s.start()
	s.Flush()
	<-r.Context().Done()
}

// Decline is a script that answers with the given status and body without
// streaming.
func Decline(status int, contentType, body string) ConnFunc {
	return func(_ *http.Request, s *Stream) {
		if contentType != "" {
			s.w.Header().Set("Content-Type", contentType)
		}
		s.w.WriteHeader(status)
		if body != "" {
			fmt.Fprint(s.w, body)
		}
		s.started = true
	}
}
