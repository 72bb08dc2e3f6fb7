// Package sse implements the text/event-stream wire format consumed by the
// eventsource client: a line scanner that splits an arbitrary byte stream
// into logical lines, a field parser that folds lines into completed events,
// and the tagged Event record delivered to subscribers.
//
// # Architecture
//
//   - Scanner: byte chunks -> decoded lines (CR and LF are independent
//     terminators, never coalesced into a CRLF pair)
//   - Parser: lines -> completed Event records, applying the SSE field
//     grammar and updating the enclosing session's retry delay and sticky
//     last-event-id
//   - Event: one tagged record type covering open, message and error
//     notifications
//
// # Usage
//
//	sc := sse.NewScanner(body)
//	p := sse.NewParser(origin, session)
//	for sc.Scan() {
//	    if ev, ok := p.Line(sc.Text()); ok {
//	        deliver(ev)
//	    }
//	}
package sse
