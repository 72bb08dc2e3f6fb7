package config

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/eventsource/errors"
	"github.com/kbukum/eventsource/logger"
	"github.com/kbukum/eventsource/transport"
)

// Config is the application configuration for a stream consumer.
type Config struct {
	Stream    StreamConfig     `yaml:"stream" mapstructure:"stream"`
	Logging   logger.Config    `yaml:"logging" mapstructure:"logging"`
	Transport transport.Config `yaml:"transport" mapstructure:"transport"`
	Telemetry TelemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
}

// StreamConfig configures the session a consumer opens.
type StreamConfig struct {
	// URL is the stream endpoint.
	URL string `yaml:"url" mapstructure:"url" validate:"required,url"`

	// Headers are extra request headers sent on every attempt.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// WithCredentials enables cookie handling across reconnects.
	WithCredentials bool `yaml:"with_credentials" mapstructure:"with_credentials"`

	// Retry is the initial reconnection delay.
	Retry time.Duration `yaml:"retry" mapstructure:"retry"`

	// BackoffExponent shapes the reconnect delay.
	BackoffExponent uint32 `yaml:"backoff_exponent" mapstructure:"backoff_exponent"`
}

// TelemetryConfig configures OTLP export.
type TelemetryConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Transport.ApplyDefaults()
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.Interval <= 0 {
		c.Telemetry.Interval = 15 * time.Second
	}
}

// Validate checks the configuration with struct tags plus the section
// validators that carry their own rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.InvalidConfig(err.Error()).WithCause(err)
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig(err.Error()).WithCause(err)
	}
	return nil
}
