package sse

import (
	"strconv"
	"strings"
	"time"
)

// Session is the slice of connection state the parser needs: the sticky
// last-event-id it stamps onto completed messages, and the reconnection
// delay adjusted by "retry:" fields. The connection controller owns the
// state; the parser only reaches it through this interface.
type Session interface {
	// LastEventID returns the sticky last-event-id.
	LastEventID() string
	// SetLastEventID updates the sticky last-event-id.
	SetLastEventID(id string)
	// SetRetry updates the reconnection delay.
	SetRetry(d time.Duration)
}

// Parser folds a sequence of lines into completed message events. It keeps
// one pending-event builder (event type, accumulated data lines, pending id)
// that resets at every blank-line boundary.
type Parser struct {
	origin  string
	session Session

	eventType string
	dataLines []string
	pendingID *string
}

// NewParser creates a parser for a stream with the given resolved origin.
func NewParser(origin string, session Session) *Parser {
	return &Parser{origin: origin, session: session}
}

// Line processes one line and reports whether it completed a message event.
// Blank lines are event boundaries: a boundary with no accumulated data
// resets the builder silently. Comment lines (first colon at position 0)
// leave the builder untouched.
func (p *Parser) Line(line string) (Event, bool) {
	if line == "" {
		return p.boundary()
	}
	if strings.HasPrefix(line, ":") {
		return Event{}, false
	}

	field, value := splitField(line)
	switch field {
	case "event":
		p.eventType = value
	case "data":
		p.dataLines = append(p.dataLines, value)
	case "id":
		// An id containing NUL is ignored; the pending id keeps its
		// previous value and the rest of the event still parses.
		if !strings.ContainsRune(value, '\x00') {
			v := value
			p.pendingID = &v
		}
	case "retry":
		if d, ok := parseRetry(value); ok {
			p.session.SetRetry(d)
		}
	}
	return Event{}, false
}

// boundary handles a blank line. Messages are emitted only when at least one
// data field accumulated; the pending id is adopted into the sticky
// last-event-id just before the record is stamped.
func (p *Parser) boundary() (Event, bool) {
	if len(p.dataLines) == 0 {
		p.reset()
		return Event{}, false
	}

	if p.pendingID != nil && *p.pendingID != "" {
		p.session.SetLastEventID(*p.pendingID)
	}

	eventType := p.eventType
	if eventType == "" {
		eventType = TypeMessage
	}

	ev := Event{
		Kind:        KindMessage,
		Type:        eventType,
		Data:        strings.Join(p.dataLines, "\n"),
		Origin:      p.origin,
		LastEventID: p.session.LastEventID(),
	}
	p.reset()
	return ev, true
}

func (p *Parser) reset() {
	p.eventType = ""
	p.dataLines = nil
	p.pendingID = nil
}

// splitField splits a line at its first colon. A missing colon makes the
// whole line the field name with an empty value. Exactly one leading space
// is stripped from the value.
func splitField(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field = line[:idx]
	value = line[idx+1:]
	if strings.HasPrefix(value, " ") {
		value = value[1:]
	}
	return field, value
}

// parseRetry accepts only values composed entirely of ASCII digits and
// returns the parsed delay in milliseconds.
func parseRetry(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, false
		}
	}
	ms, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}
