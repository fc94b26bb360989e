package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/nexios-labs/nexios-go/core/handler"
	"github.com/nexios-labs/nexios-go/core/logger"
)

// LoggingConfig configures the request/response logging middleware.
type LoggingConfig struct {
	// Skip disables the middleware for matching requests.
	Skip func(ctx handler.Context) bool

	// Logger receives the records; defaults to slog.Default().
	Logger *slog.Logger

	// LogLevel for normal request/response records; defaults to info.
	LogLevel slog.Level

	// LogRequest and LogResponse select which side gets logged. When
	// both are false, both default to true.
	LogRequest  bool
	LogResponse bool

	// LogRequestBody includes the request body, buffered and replayed
	// for the handler. Off by default.
	LogRequestBody bool

	// LogResponseBody is accepted for API symmetry but response
	// bodies are not captured; only status and size are.
	LogResponseBody bool

	// LogHeaders includes request and response headers, with
	// SensitiveHeaders redacted.
	LogHeaders bool

	// MaxBodyLogSize caps logged body bytes; defaults to 4KB.
	MaxBodyLogSize int

	// SensitiveHeaders lists header names to redact. Defaults to the
	// common credential carriers.
	SensitiveHeaders []string

	// SlowRequestThreshold raises the response record to warn level
	// past this duration; defaults to 5s.
	SlowRequestThreshold time.Duration

	// Component tags every record; defaults to "http".
	Component string
}

func (cfg *LoggingConfig) fillDefaults() {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if !cfg.LogRequest && !cfg.LogResponse {
		cfg.LogRequest = true
		cfg.LogResponse = true
	}
	if cfg.MaxBodyLogSize <= 0 {
		cfg.MaxBodyLogSize = 4 * 1024
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"Set-Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
		}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}
}

// headerMap flattens headers for logging, redacting sensitive names.
func (cfg *LoggingConfig) headerMap(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for key, values := range h {
		if slices.Contains(cfg.SensitiveHeaders, key) {
			out[key] = "[REDACTED]"
			continue
		}
		if len(values) == 1 {
			out[key] = values[0]
		} else {
			out[key] = values
		}
	}
	return out
}

// Logging logs request and response basics at info level.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger is Logging writing to the given logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig logs HTTP traffic according to cfg. The request
// record is emitted before the handler runs; the response record is
// emitted from inside the returned Response, after the body has been
// written, so it carries the real status, size, and duration.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	cfg.fillDefaults()

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			req := ctx.Request()
			requestID, _ := GetRequestID(ctx)

			if cfg.LogRequest {
				cfg.logRequest(ctx, requestID)
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
				err := resp(rec, r)

				if cfg.LogResponse {
					cfg.logResponse(req, rec, requestID, time.Since(start), err)
				}
				return err
			}
		}
	}
}

func (cfg *LoggingConfig) logRequest(ctx handler.Context, requestID string) {
	req := ctx.Request()

	attrs := []slog.Attr{
		logger.Component(cfg.Component),
		logger.Event("request"),
		logger.Method(req.Method),
		logger.Path(req.URL.Path),
		logger.RemoteAddr(req.RemoteAddr),
		logger.RequestID(requestID),
	}
	if req.URL.RawQuery != "" {
		attrs = append(attrs, logger.Query(req.URL.RawQuery))
	}

	if cfg.LogRequestBody && req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))

		if len(body) > 0 {
			if len(body) > cfg.MaxBodyLogSize {
				body = body[:cfg.MaxBodyLogSize]
				attrs = append(attrs, slog.Bool("request_body_truncated", true))
			}
			attrs = append(attrs, slog.String("request_body", string(body)))
		}
	}

	if cfg.LogHeaders && len(req.Header) > 0 {
		attrs = append(attrs, slog.Any("request_headers", cfg.headerMap(req.Header)))
	}

	cfg.Logger.LogAttrs(req.Context(), cfg.LogLevel, "HTTP request started", attrs...)
}

func (cfg *LoggingConfig) logResponse(req *http.Request, rec *statusRecorder, requestID string, elapsed time.Duration, err error) {
	attrs := []slog.Attr{
		logger.Component(cfg.Component),
		logger.Event("response"),
		logger.Method(req.Method),
		logger.Path(req.URL.Path),
		logger.StatusCode(rec.statusCode),
		logger.BytesOut(int64(rec.size)),
		logger.Duration(elapsed),
		logger.RequestID(requestID),
	}

	if cfg.LogHeaders && rec.headerWritten {
		if hm := cfg.headerMap(rec.Header()); len(hm) > 0 {
			attrs = append(attrs, slog.Any("response_headers", hm))
		}
	}

	level := cfg.LogLevel
	switch {
	case rec.statusCode >= 500:
		level = slog.LevelError
		attrs = append(attrs, logger.Error(err))
	case rec.statusCode >= 400:
		level = slog.LevelWarn
	case elapsed > cfg.SlowRequestThreshold:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Bool("slow_request", true))
	}

	cfg.Logger.LogAttrs(req.Context(), level, "HTTP request completed", attrs...)
}

// statusRecorder captures the status and byte count flowing through a
// ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	statusCode    int
	size          int
	headerWritten bool
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}
