package transport

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/eventsource/auth"
	"github.com/kbukum/eventsource/errors"
	"github.com/kbukum/eventsource/version"
)

const (
	defaultDialTimeout  = 10 * time.Second
	defaultReadIdle     = 60 * time.Second
	defaultPingTimeout  = 15 * time.Second
	defaultIdleConnTTL  = 90 * time.Second
	defaultTLSHandshake = 10 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// TLS overrides the TLS client configuration.
	TLS *tls.Config `yaml:"-" mapstructure:"-"`

	// TokenSource supplies a bearer token attached to every attempt.
	// Nil disables authentication.
	TokenSource auth.TokenSource `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to every attempt, below the
	// per-request headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// ReadIdleTimeout is how long an HTTP/2 connection may be silent before
	// a health-check ping is sent. Defaults to 60s.
	ReadIdleTimeout time.Duration `yaml:"read_idle_timeout" mapstructure:"read_idle_timeout"`

	// PingTimeout is how long to wait for a ping response before the
	// connection is considered dead. Defaults to 15s.
	PingTimeout time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ReadIdleTimeout <= 0 {
		c.ReadIdleTimeout = defaultReadIdle
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = defaultPingTimeout
	}
}

// HTTP is the net/http Transport implementation.
type HTTP struct {
	cfg Config

	// Two clients because cookie handling is per-connection state: the jar
	// client is only used when the request asks for credentials.
	plain *http.Client
	jar   *http.Client
}

// ensure HTTP satisfies Transport.
var _ Transport = (*HTTP)(nil)

// NewHTTP creates the default HTTP transport.
func NewHTTP(cfg Config) (*HTTP, error) {
	cfg.ApplyDefaults()

	rt := http.DefaultTransport.(*http.Transport).Clone()
	rt.IdleConnTimeout = defaultIdleConnTTL
	rt.TLSHandshakeTimeout = defaultTLSHandshake
	rt.ResponseHeaderTimeout = 0 // streams may take arbitrarily long
	if cfg.TLS != nil {
		rt.TLSClientConfig = cfg.TLS
	}

	// HTTP/2 read-idle pings: without them a half-dead stream blocks reads
	// indefinitely.
	if h2, err := http2.ConfigureTransports(rt); err == nil {
		h2.ReadIdleTimeout = cfg.ReadIdleTimeout
		h2.PingTimeout = cfg.PingTimeout
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.ConnectionFailed(err)
	}

	// No client-level timeout: the body is read for the lifetime of the
	// stream and cancellation rides on the request context.
	return &HTTP{
		cfg:   cfg,
		plain: &http.Client{Transport: rt},
		jar:   &http.Client{Transport: rt, Jar: jar},
	}, nil
}

// Connect issues one streaming request.
func (t *HTTP) Connect(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, errors.InvalidConfig(err.Error()).WithCause(err)
	}

	httpReq.Header.Set("User-Agent", version.UserAgent())
	for k, v := range t.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = vs
	}
	httpReq.Header.Set("Cache-Control", "no-store")

	if t.cfg.TokenSource != nil {
		token, err := t.cfg.TokenSource.Token(ctx)
		if err != nil {
			return nil, errors.ConnectionFailed(err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	client := t.plain
	if req.WithCredentials {
		client = t.jar
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.ConnectionFailed(err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       resp.Body,
		URL:        resp.Request.URL,
	}, nil
}
