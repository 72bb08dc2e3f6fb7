package client

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/eventsource/errors"
	"github.com/kbukum/eventsource/logger"
	"github.com/kbukum/eventsource/observability"
	"github.com/kbukum/eventsource/sse"
	"github.com/kbukum/eventsource/transport"
)

const (
	// defaultRetry is the reconnection delay before any "retry:" field
	// adjusts it.
	defaultRetry = 1000 * time.Millisecond
	// defaultBackoffExponent keeps the delay constant across attempts.
	defaultBackoffExponent = 1
)

// Config configures an EventSource session.
type Config struct {
	// URL is the stream endpoint.
	URL string `yaml:"url" mapstructure:"url"`

	// Headers are extra request headers sent on every connect attempt.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// WithCredentials enables cookie handling across reconnects.
	WithCredentials bool `yaml:"with_credentials" mapstructure:"with_credentials"`

	// Retry is the initial reconnection delay. The server may adjust it
	// with "retry:" fields. Defaults to 1s.
	Retry time.Duration `yaml:"retry" mapstructure:"retry"`

	// BackoffExponent shapes the reconnect delay as
	// ((retry/1s)^exponent)*1s. Defaults to 1 (constant delay).
	BackoffExponent uint32 `yaml:"backoff_exponent" mapstructure:"backoff_exponent"`

	// Transport issues the streaming requests. Defaults to the HTTP
	// transport with its default configuration.
	Transport transport.Transport `yaml:"-" mapstructure:"-"`

	// Logger receives session logs. Defaults to the global logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`

	// Metrics receives stream instruments. Nil disables recording.
	Metrics *observability.StreamMetrics `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Retry <= 0 {
		c.Retry = defaultRetry
	}
	if c.BackoffExponent == 0 {
		c.BackoffExponent = defaultBackoffExponent
	}
	if c.Logger == nil {
		c.Logger = logger.GetGlobalLogger()
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.InvalidConfig("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.InvalidConfig("url does not parse").WithCause(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.InvalidConfig("url scheme must be http or https")
	}
	return nil
}

// EventSource is a client session against one SSE endpoint. It connects,
// parses the stream into events, delivers them to subscribers on a
// dedicated dispatch goroutine, and reconnects on its own until closed.
type EventSource struct {
	cfg     Config
	id      string
	tr      transport.Transport
	log     *logger.Logger
	metrics *observability.StreamMetrics

	queue    *queue
	registry *registry

	mu          sync.Mutex
	state       ReadyState
	lastEventID string
	retry       time.Duration
	cancel      context.CancelFunc
	started     bool
}

// New creates a session from the configuration without connecting.
func New(cfg Config) (*EventSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tr := cfg.Transport
	if tr == nil {
		var err error
		tr, err = transport.NewHTTP(transport.Config{})
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	return &EventSource{
		cfg:      cfg,
		id:       id,
		tr:       tr,
		log:      cfg.Logger.WithComponent("eventsource").WithSession(id),
		metrics:  cfg.Metrics,
		queue:    newQueue(),
		registry: newRegistry(),
		state:    StateConnecting,
		retry:    cfg.Retry,
	}, nil
}

// Open creates a session for url and starts it immediately.
func Open(rawURL string, opts ...Option) (*EventSource, error) {
	cfg := Config{URL: rawURL}
	for _, opt := range opts {
		opt(&cfg)
	}
	es, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := es.Start(context.Background()); err != nil {
		return nil, err
	}
	return es, nil
}

// Start launches the connection and dispatch goroutines. Cancelling ctx
// closes the session. Start may be called once.
func (es *EventSource) Start(ctx context.Context) error {
	es.mu.Lock()
	if es.state == StateClosed {
		es.mu.Unlock()
		return errors.Closed()
	}
	if es.started {
		es.mu.Unlock()
		return errors.InvalidConfig("session already started")
	}
	es.started = true
	ctx, cancel := context.WithCancel(ctx)
	es.cancel = cancel
	es.mu.Unlock()

	es.log.Info("session starting", logger.Fields(logger.FieldURL, es.cfg.URL))
	go es.dispatchLoop()
	go es.run(ctx)
	return nil
}

// run is the connection loop: connect, validate, read until the stream
// drops, wait, repeat. It exits only when the session is closed, and it
// owns shutting the dispatch queue down on the way out.
func (es *EventSource) run(ctx context.Context) {
	// Exits caused by external ctx cancellation still end in the terminal
	// state; closeWith is a no-op when Close or a fatal response got there
	// first.
	defer func() {
		es.closeWith(errors.Closed())
		es.finishDispatch()
	}()

	for attempt := 1; ; attempt++ {
		if es.ReadyState() == StateClosed {
			return
		}

		// One span per connect attempt, covering the request and response
		// validation but not the stream read that follows.
		spanCtx, span := observability.StartSpan(ctx, "sse.connect",
			trace.WithAttributes(
				attribute.String("url.full", es.cfg.URL),
				attribute.Int("attempt", attempt),
			))

		resp, err := es.tr.Connect(spanCtx, transport.Request{
			URL:             es.cfg.URL,
			WithCredentials: es.cfg.WithCredentials,
			Header:          es.connectHeader(),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "connect failed")
			span.End()
			if ctx.Err() != nil {
				return
			}
			es.log.Warn("connect failed", logger.ErrorFields(err))
			es.queue.push(sse.Error(reasonFor(err)))
			if !es.awaitReconnect(ctx) {
				return
			}
			continue
		}

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		terminal := es.validate(resp)
		if es.ReadyState() == StateOpen {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, "unusable response")
		}
		span.End()

		if terminal {
			return
		}
		if es.ReadyState() == StateOpen {
			origin := resp.Origin()
			es.queue.push(sse.Open(origin))
			es.metrics.RecordConnectionOpen(ctx, es.id)
			opened := time.Now()

			err = es.consume(resp.Body, origin)
			resp.Body.Close()
			es.metrics.RecordConnectionClosed(ctx, es.id, time.Since(opened))

			if es.ReadyState() == StateClosed || ctx.Err() != nil {
				return
			}
			streamErr := errors.StreamEnded(err)
			es.log.Warn("stream ended", logger.ErrorFields(streamErr))
			es.queue.push(sse.Error(streamErr.Message))
		} else if resp.Body != nil {
			// A concurrent Close can land between Connect and the state
			// promotion, leaving a validated body nobody will read. The
			// rejection branches already closed theirs; closing again is
			// harmless.
			resp.Body.Close()
		}

		if !es.awaitReconnect(ctx) {
			return
		}
	}
}

// validate checks one connect response. A 200 text/event-stream with a body
// moves the session to StateOpen. 204 and a missing body are terminal; any
// other defect queues an error record and leaves the session connecting.
// The return value reports whether the session terminated.
func (es *EventSource) validate(resp *transport.Response) bool {
	switch {
	case resp.StatusCode == http.StatusNoContent:
		if resp.Body != nil {
			resp.Body.Close()
		}
		es.log.Info("server declined the stream with 204")
		es.closeWith(errors.NoContent())
		return true

	case resp.StatusCode != http.StatusOK:
		if resp.Body != nil {
			resp.Body.Close()
		}
		streamErr := errors.BadStatus(resp.StatusCode)
		es.log.Warn("unusable response", logger.ErrorFields(streamErr))
		es.queue.push(sse.Error(streamErr.Message))
		return false

	case !isEventStream(resp.ContentType()):
		if resp.Body != nil {
			resp.Body.Close()
		}
		streamErr := errors.BadContentType(resp.ContentType())
		es.log.Warn("unusable response", logger.ErrorFields(streamErr))
		es.queue.push(sse.Error(streamErr.Message))
		return false

	case resp.Body == nil:
		es.log.Error("response carried no body")
		es.closeWith(errors.MissingBody())
		return true
	}

	es.setState(StateOpen)
	return false
}

// consume reads the stream until it ends, feeding parsed events into the
// dispatch queue.
func (es *EventSource) consume(body io.Reader, origin string) error {
	parser := sse.NewParser(origin, sessionHandle{es})
	scanner := sse.NewScanner(body)
	for scanner.Scan() {
		if ev, ok := parser.Line(scanner.Text()); ok {
			es.log.Debug("event received", logger.Fields(
				logger.FieldEventType, ev.Type,
				logger.FieldEventID, ev.LastEventID,
			))
			es.queue.push(ev)
		}
	}
	return scanner.Err()
}

// awaitReconnect moves the session back to StateConnecting and waits out
// the reconnect delay. It returns false when the session closed or ctx was
// cancelled during the wait.
func (es *EventSource) awaitReconnect(ctx context.Context) bool {
	es.mu.Lock()
	if es.state == StateClosed {
		es.mu.Unlock()
		return false
	}
	es.state = StateConnecting
	retry := es.retry
	es.mu.Unlock()

	es.metrics.RecordReconnect(ctx, es.id)
	delay := Delay(retry, es.cfg.BackoffExponent)
	es.log.Info("reconnecting", logger.DelayFields(delay))

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false
		}
	}
	return es.ReadyState() != StateClosed
}

// dispatchLoop drains the queue and delivers each record. Messages and
// open records parsed before a Close but delivered after it are dropped;
// error records always go through so the close notification itself is
// never suppressed.
func (es *EventSource) dispatchLoop() {
	for {
		ev, ok := es.queue.next()
		if !ok {
			return
		}
		if ev.Kind != sse.KindError && es.ReadyState() == StateClosed {
			continue
		}
		if ev.Kind == sse.KindMessage {
			es.metrics.RecordEvent(context.Background(), es.id, ev.Type)
		}
		es.registry.dispatch(ev)
	}
}

// finishDispatch shuts the dispatch queue down after the run loop exits.
// The empty critical section is a barrier: a concurrent Close holds mu
// while queueing its error record, so by the time the lock is acquired
// here that record is in the queue and will be drained, not dropped.
func (es *EventSource) finishDispatch() {
	es.mu.Lock()
	es.mu.Unlock() //nolint:staticcheck // empty section is the barrier
	es.queue.shutdown()
}

// Close terminates the session. The transition to StateClosed is
// immediate and terminal; subscribers receive one final error record.
// Close is idempotent and safe to call from inside a handler.
func (es *EventSource) Close() {
	es.closeWith(errors.Closed())
}

// closeWith performs the terminal transition. The error record is queued
// under mu so finishDispatch's barrier can order it before queue shutdown.
func (es *EventSource) closeWith(streamErr *errors.StreamError) {
	es.mu.Lock()
	if es.state == StateClosed {
		es.mu.Unlock()
		return
	}
	es.state = StateClosed
	cancel := es.cancel
	es.queue.push(sse.Error(streamErr.Message))
	es.mu.Unlock()

	es.log.Info("session closed", logger.ErrorFields(streamErr))
	if cancel != nil {
		cancel()
	}
}

// connectHeader builds the per-attempt headers. Last-Event-ID is attached
// only when a sticky id exists.
func (es *EventSource) connectHeader() http.Header {
	h := make(http.Header)
	h.Set("Accept", "text/event-stream")
	for k, v := range es.cfg.Headers {
		h.Set(k, v)
	}
	if id := es.LastEventID(); id != "" {
		h.Set("Last-Event-ID", id)
	}
	return h
}

// setState applies a non-terminal state transition. StateClosed is sticky:
// once reached no transition leaves it.
func (es *EventSource) setState(s ReadyState) {
	es.mu.Lock()
	if es.state == StateClosed || es.state == s {
		es.mu.Unlock()
		return
	}
	es.state = s
	es.mu.Unlock()
	es.log.Debug("state changed", logger.Fields(logger.FieldState, s.String()))
}

// AddEventListener subscribes h to events of the named type.
func (es *EventSource) AddEventListener(eventType string, h Handler) {
	es.registry.add(eventType, h)
}

// RemoveEventListener unsubscribes the first registration of h for the
// named type. The caller must pass the same function value it registered.
func (es *EventSource) RemoveEventListener(eventType string, h Handler) {
	es.registry.remove(eventType, h)
}

// OnOpen installs the default handler for open records. Nil clears it.
func (es *EventSource) OnOpen(h Handler) { es.registry.setDefault(sse.TypeOpen, h) }

// OnMessage installs the default handler for untyped messages. Nil clears
// it. Messages with a custom "event:" type do not reach it; subscribe with
// AddEventListener for those.
func (es *EventSource) OnMessage(h Handler) { es.registry.setDefault(sse.TypeMessage, h) }

// OnError installs the default handler for error records. Nil clears it.
func (es *EventSource) OnError(h Handler) { es.registry.setDefault(sse.TypeError, h) }

// ReadyState returns the current connection state.
func (es *EventSource) ReadyState() ReadyState {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.state
}

// LastEventID returns the sticky last-event-id.
func (es *EventSource) LastEventID() string {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.lastEventID
}

// URL returns the configured stream endpoint.
func (es *EventSource) URL() string { return es.cfg.URL }

// ID returns the session id used in logs and metrics.
func (es *EventSource) ID() string { return es.id }

// sessionHandle exposes the parser's slice of session state without making
// the mutators part of the public API.
type sessionHandle struct {
	es *EventSource
}

func (h sessionHandle) LastEventID() string {
	return h.es.LastEventID()
}

func (h sessionHandle) SetLastEventID(id string) {
	h.es.mu.Lock()
	h.es.lastEventID = id
	h.es.mu.Unlock()
}

func (h sessionHandle) SetRetry(d time.Duration) {
	h.es.mu.Lock()
	h.es.retry = d
	h.es.mu.Unlock()
	h.es.log.Debug("retry adjusted by server", logger.DelayFields(d))
}

// isEventStream reports whether the Content-Type denotes an event stream,
// ignoring parameters such as charset.
func isEventStream(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/event-stream"
}

// reasonFor extracts the subscriber-facing reason from an error.
func reasonFor(err error) string {
	if streamErr, ok := errors.AsStreamError(err); ok {
		return streamErr.Message
	}
	return err.Error()
}
