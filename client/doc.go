// Package client implements the eventsource connection controller: it
// issues the streaming request through a transport, validates the response,
// feeds the body through the sse scanner/parser pipeline, and delivers the
// resulting events to subscribers while reconnecting on failure with a
// server-adjustable delay and a sticky last-event-id.
//
// # Lifecycle
//
// A session starts Connecting, promotes to Open on a validated response and
// degrades back to Connecting when the stream ends or errors. Close moves it
// to Closed, which is terminal. An HTTP 204 response or a missing body also
// terminates the session; every other failure enters the reconnect path
// with unbounded retries.
//
// # Delivery
//
// Events are queued and delivered on a dedicated dispatch goroutine in wire
// order, so handlers never run on the network-read stack and a Close issued
// between parse and dispatch suppresses pending messages.
//
// # Usage
//
//	es, err := client.Open("https://example.com/events")
//	if err != nil { ... }
//	defer es.Close()
//	es.OnMessage(func(ev sse.Event) {
//	    fmt.Println(ev.Data)
//	})
package client
