package client

import (
	"context"

	"github.com/kbukum/eventsource/component"
)

// Component adapts an EventSource to the lifecycle interface so host
// applications can register it like any other managed piece.
type Component struct {
	name string
	es   *EventSource
}

var _ component.Component = (*Component)(nil)

// AsComponent wraps the session under the given registry name.
func AsComponent(name string, es *EventSource) *Component {
	return &Component{name: name, es: es}
}

// Name returns the registry name.
func (c *Component) Name() string { return c.name }

// Start begins connecting.
func (c *Component) Start(ctx context.Context) error {
	return c.es.Start(ctx)
}

// Stop closes the session. The terminal state is immediate, so Stop never
// blocks on the context.
func (c *Component) Stop(context.Context) error {
	c.es.Close()
	return nil
}

// Health maps the ready state: an open stream is healthy, a session
// between attempts is degraded, a closed one is unhealthy.
func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.name}
	switch c.es.ReadyState() {
	case StateOpen:
		h.Status = component.StatusHealthy
	case StateConnecting:
		h.Status = component.StatusDegraded
		h.Message = "reconnecting"
	default:
		h.Status = component.StatusUnhealthy
		h.Message = "closed"
	}
	return h
}

// EventSource returns the wrapped session.
func (c *Component) EventSource() *EventSource { return c.es }
