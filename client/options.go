package client

import (
	"time"

	"github.com/kbukum/eventsource/logger"
	"github.com/kbukum/eventsource/observability"
	"github.com/kbukum/eventsource/transport"
)

// Option mutates the configuration Open builds.
type Option func(*Config)

// WithHeader adds one request header to every connect attempt.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}

// WithCredentials enables cookie handling across reconnects.
func WithCredentials() Option {
	return func(c *Config) { c.WithCredentials = true }
}

// WithRetry sets the initial reconnection delay.
func WithRetry(d time.Duration) Option {
	return func(c *Config) { c.Retry = d }
}

// WithBackoffExponent sets the reconnect delay exponent.
func WithBackoffExponent(exp uint32) Option {
	return func(c *Config) { c.BackoffExponent = exp }
}

// WithTransport replaces the default HTTP transport.
func WithTransport(tr transport.Transport) Option {
	return func(c *Config) { c.Transport = tr }
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics attaches stream instruments to the session.
func WithMetrics(m *observability.StreamMetrics) Option {
	return func(c *Config) { c.Metrics = m }
}
