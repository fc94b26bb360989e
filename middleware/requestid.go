package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nexios-labs/nexios-go/core/handler"
)

type requestIDContextKey struct{}

const defaultRequestIDHeader = "X-Request-ID"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip disables the middleware for matching requests.
	Skip func(ctx handler.Context) bool
	// Generator produces new IDs; defaults to UUID v4.
	Generator func() string
	// HeaderName is the response (and optionally request) header
	// carrying the ID. Defaults to "X-Request-ID".
	HeaderName string
	// UseExisting trusts an ID already present on the incoming
	// request instead of generating a fresh one.
	UseExisting bool
}

func (cfg *RequestIDConfig) fillDefaults() {
	if cfg.HeaderName == "" {
		cfg.HeaderName = defaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = newUUIDString
	}
}

func newUUIDString() string { return uuid.New().String() }

// resolve picks the ID for this request: the incoming header when
// trusted and present, a generated one otherwise.
func (cfg *RequestIDConfig) resolve(ctx handler.Context) string {
	if cfg.UseExisting {
		if id := ctx.Request().Header.Get(cfg.HeaderName); id != "" {
			return id
		}
	}
	return cfg.Generator()
}

// RequestID tags every request with a generated UUID, stored in the
// context and echoed on the response header.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

// RequestIDWithConfig is RequestID with explicit configuration.
func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	cfg.fillDefaults()

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id := cfg.resolve(ctx)
			ctx.SetValue(requestIDContextKey{}, id)
			resp := next(ctx)

			// Header goes out even when the handler failed so the
			// client can quote the ID when reporting the error.
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return resp(w, r)
			}
		}
	}
}

// GetRequestID reports the request ID stored by the middleware, if
// any.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok
}
