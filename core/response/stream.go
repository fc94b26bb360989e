package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// Stream hands the response writer to fn for chunked output. Headers
// are committed before fn runs, so fn cannot change the status; errors
// it returns surface to the mux's error handler for logging only. The
// writer is flushed once after fn returns; fn flushes itself for
// real-time delivery:
//
//	response.Stream(func(w io.Writer) error {
//		for chunk := range chunks {
//			if _, err := w.Write(chunk); err != nil {
//				return err
//			}
//			if f, ok := w.(http.Flusher); ok {
//				f.Flush()
//			}
//		}
//		return nil
//	})
func Stream(fn func(w io.Writer) error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := fn(w); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}
}

// StreamOption configures StreamJSON.
type StreamOption func(*streamConfig)

type streamConfig struct {
	onError func(context.Context, error)
}

// WithStreamErrorHandler observes per-item encode failures. The stream
// keeps going after reporting; a failed item is skipped, not fatal.
func WithStreamErrorHandler(fn func(context.Context, error)) StreamOption {
	return func(c *streamConfig) {
		c.onError = fn
	}
}

// StreamJSON renders items as newline-delimited JSON
// (application/x-ndjson), one document per channel element. The stream
// ends when the channel closes or the request context is canceled.
func StreamJSON(items <-chan any, opts ...StreamOption) handler.Response {
	var cfg streamConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)

		enc := json.NewEncoder(w)
		for {
			select {
			case <-r.Context().Done():
				return nil
			case item, ok := <-items:
				if !ok {
					return nil
				}
				if err := enc.Encode(item); err != nil {
					if cfg.onError != nil {
						cfg.onError(r.Context(), fmt.Errorf("encode stream item: %w", err))
					}
					continue
				}
				flusher.Flush()
			}
		}
	}
}
