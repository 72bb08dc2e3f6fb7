package client

// ReadyState is the observable connection state of a session.
type ReadyState int

const (
	// StateConnecting means no validated stream is attached; the session is
	// either dialing or waiting out a reconnect delay.
	StateConnecting ReadyState = 0
	// StateOpen means a validated stream is being read.
	StateOpen ReadyState = 1
	// StateClosed is terminal: no transition ever leaves it.
	StateClosed ReadyState = 2
)

// String returns the lowercase name of the state.
func (s ReadyState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
