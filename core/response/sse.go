package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// DefaultSSEKeepAlive is the interval between keep-alive comments when
// no events flow. Proxies tend to cut idle connections before a minute.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	eventName string
	eventID   string
	idGen     func(any) string
	reconnect int
	keepAlive time.Duration
	onError   func(context.Context, error)
}

// EventOption configures SSE.
type EventOption func(*sseConfig)

// WithEventName labels every event so clients can addEventListener on it.
func WithEventName(name string) EventOption {
	return func(c *sseConfig) { c.eventName = name }
}

// WithEventID stamps a fixed id field on every event.
func WithEventID(id string) EventOption {
	return func(c *sseConfig) { c.eventID = id }
}

// WithEventIDGenerator derives the id field from each event's data,
// overriding WithEventID.
func WithEventIDGenerator(fn func(data any) string) EventOption {
	return func(c *sseConfig) { c.idGen = fn }
}

// WithReconnectTime advertises the client retry delay in milliseconds.
func WithReconnectTime(milliseconds int) EventOption {
	return func(c *sseConfig) { c.reconnect = milliseconds }
}

// WithKeepAlive overrides DefaultSSEKeepAlive.
func WithKeepAlive(interval time.Duration) EventOption {
	return func(c *sseConfig) { c.keepAlive = interval }
}

// WithoutKeepAlive disables keep-alive comments.
func WithoutKeepAlive() EventOption {
	return func(c *sseConfig) { c.keepAlive = -1 }
}

// WithSSEErrorHandler observes write and marshal failures. Marshal
// failures skip the event and keep streaming; write failures end the
// stream after reporting.
func WithSSEErrorHandler(fn func(context.Context, error)) EventOption {
	return func(c *sseConfig) { c.onError = fn }
}

// SSE renders events as a text/event-stream. String and []byte events
// pass through as-is; anything else is marshaled to JSON. The stream
// opens with a comment so clients see the connection immediately, then
// runs until the channel closes or the request context is canceled.
func SSE(events <-chan any, opts ...EventOption) handler.Response {
	cfg := sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
			cfg.report(r.Context(), fmt.Errorf("open stream: %w", err))
			return nil
		}
		if cfg.reconnect > 0 {
			if _, err := fmt.Fprintf(w, "retry: %d\n\n", cfg.reconnect); err != nil {
				cfg.report(r.Context(), fmt.Errorf("write retry: %w", err))
				return nil
			}
		}
		flusher.Flush()

		var ticker *time.Ticker
		var tick <-chan time.Time
		if cfg.keepAlive > 0 {
			ticker = time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-r.Context().Done():
				return nil

			case <-tick:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					cfg.report(r.Context(), fmt.Errorf("write keepalive: %w", err))
					return nil
				}
				flusher.Flush()

			case data, ok := <-events:
				if !ok {
					return nil
				}
				if ticker != nil {
					ticker.Reset(cfg.keepAlive)
				}
				if err := cfg.writeEvent(w, data); err != nil {
					cfg.report(r.Context(), fmt.Errorf("write event: %w", err))
					continue
				}
				flusher.Flush()
			}
		}
	}
}

func (c *sseConfig) report(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}

// writeEvent emits one event frame. Multi-line payloads become
// multiple data lines, which clients reassemble with newlines.
func (c *sseConfig) writeEvent(w io.Writer, data any) error {
	var b strings.Builder
	if c.eventName != "" {
		fmt.Fprintf(&b, "event: %s\n", c.eventName)
	}

	id := c.eventID
	if c.idGen != nil {
		id = c.idGen(data)
	}
	if id != "" {
		fmt.Fprintf(&b, "id: %s\n", id)
	}

	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(encoded)
	}
	for _, line := range strings.Split(payload, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
