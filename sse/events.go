package sse

// Kind tags an Event record. Events are dispatched by tag, not by type
// inspection.
type Kind int

const (
	// KindOpen signals that a connection was validated and the stream is live.
	KindOpen Kind = iota
	// KindMessage carries one completed event parsed from the stream.
	KindMessage
	// KindError reports a lifecycle failure (reconnecting, closed, fatal).
	KindError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Reserved event type names. These are the types with a distinguished
// default handler slot on the client registry.
const (
	TypeOpen    = "open"
	TypeMessage = "message"
	TypeError   = "error"
)

// Event is a single notification delivered to subscribers. It is a tagged
// record: Kind selects which fields are meaningful. Events are not
// cancelable: returning from a handler never blocks propagation.
type Event struct {
	// Kind selects the record variant.
	Kind Kind

	// Type is the event type name. For messages it is the value of the
	// "event:" field, defaulting to "message"; for open and error records it
	// is the reserved type name.
	Type string

	// Data is the message payload: the "data:" field values joined with
	// newlines. Empty for open and error records.
	Data string

	// Origin is the scheme://host origin of the stream that produced the
	// record.
	Origin string

	// LastEventID is the sticky last-event-id at the time the message was
	// completed.
	LastEventID string

	// Reason describes an error record in subscriber-facing terms.
	Reason string
}

// Open builds an open record for the given origin.
func Open(origin string) Event {
	return Event{Kind: KindOpen, Type: TypeOpen, Origin: origin}
}

// Error builds an error record with the given reason.
func Error(reason string) Event {
	return Event{Kind: KindError, Type: TypeError, Reason: reason}
}
