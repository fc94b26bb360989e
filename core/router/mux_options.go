package router

import (
	"log/slog"
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// MuxOption configures a Mux during creation.
type MuxOption[C handler.Context] func(*Mux[C])

// WithErrorHandler sets a custom error handler for dispatch failures.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) MuxOption[C] {
	return func(m *Mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithContextFactory sets the factory that builds the per-exchange
// context from the request pair and the typed path parameters. Required
// for context types other than *Context.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]any) C) MuxOption[C] {
	return func(m *Mux[C]) {
		m.newContext = f
	}
}

// WithLogger sets the logger used for panics that occur after the
// response has been written.
func WithLogger[C handler.Context](logger *slog.Logger) MuxOption[C] {
	return func(m *Mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}
