// Package middleware provides HTTP middleware components for common cross-cutting
// concerns: request ID generation and structured request/response logging.
//
// All middleware is generic over the handler.Context interface, so it composes
// with any context type served by the router. Each middleware follows the same
// pattern: a zero-config constructor for common use, a WithConfig constructor
// for advanced configuration, and context helpers for retrieving stored values.
//
// # Request ID Middleware
//
// The RequestID middleware assigns a unique identifier to each request for
// tracing and correlation. The ID is stored in the request context and echoed
// back in the response headers.
//
//	r := router.NewRouter[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//
//	r.Get("/orders/{id:int}", func(ctx *router.Context) handler.Response {
//		if id, ok := middleware.GetRequestID(ctx); ok {
//			// correlate logs, downstream calls, etc.
//			_ = id
//		}
//		return func(w http.ResponseWriter, r *http.Request) error {
//			w.WriteHeader(http.StatusOK)
//			return nil
//		}
//	})
//
// By default a UUID v4 is generated per request and sent in the X-Request-ID
// header. Configure a custom generator, header name, or reuse of an incoming
// header via RequestIDWithConfig.
//
// # Logging Middleware
//
// The Logging middleware emits structured slog records for each request and
// response, including method, path, status code, response size, and duration.
// Sensitive headers are redacted, bodies are only logged when explicitly
// enabled, and slow requests are escalated to warning level.
//
//	r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
//		Logger:               slog.Default(),
//		LogHeaders:           true,
//		SlowRequestThreshold: 2 * time.Second,
//	}))
//
// When combined with the RequestID middleware (registered first), log entries
// automatically carry the request ID for correlation.
//
// # Execution Order
//
// Middleware registered with Router.Use wraps handlers in registration order:
// the first registered middleware sees the request first and the response last.
// Register RequestID before Logging so log entries include the generated ID.
package middleware
