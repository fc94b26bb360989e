// Package logger builds slog loggers with environment presets,
// context-aware attribute extraction, and a set of attribute helpers
// shared by the framework's own logging.
//
// # Construction
//
// New assembles a *slog.Logger from functional options. The zero
// configuration writes text records at info level to stdout:
//
//	log := logger.New()
//	log.Info("ready")
//
// Formatter, level, destination, and baseline attributes are all
// options:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("service", "api")),
//	)
//
// The environment presets bundle the common combinations:
// WithDevelopment (text, debug, app tag), WithStaging (JSON, info,
// env=staging tag), and WithProduction (JSON, info). Presets are plain
// options, so later options refine them:
//
//	log := logger.New(
//		logger.WithProduction("api"),
//		logger.WithLevel(slog.LevelDebug), // noisy rollout, keep JSON
//	)
//
// SetAsDefault installs a logger as the process-wide slog default so
// code using the slog package functions picks it up.
//
// # Context extraction
//
// Loggers can lift values out of the context on every *Context call.
// WithContextValue covers the common case of a single context key:
//
//	log := logger.New(
//		logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	log.InfoContext(ctx, "handled") // carries request_id when present
//
// WithContextExtractors registers arbitrary ContextExtractor functions
// for anything more involved. Extractors that report no value are
// skipped, so missing context data never produces empty attributes.
//
// # Attribute helpers
//
// The helpers produce consistently named slog.Attr values. HTTP
// request helpers (Method, Path, Query, RemoteAddr, StatusCode,
// ClientIP, UserAgent, BytesIn, BytesOut) pair with the middleware
// package's request logging. Identification helpers (RequestID,
// TraceID, CorrelationID, ID) keep correlation keys uniform across
// services. Timing helpers (Duration, Latency, Elapsed) render
// durations in one format. Error, Errors, Stack, and Caller cover
// failure reporting; Error and Errors return the empty Attr for nil
// input, so call sites need no nil guard:
//
//	log.Error("payment failed",
//		logger.Component("billing"),
//		logger.Error(err),
//		logger.RequestID(reqID),
//		logger.Duration(elapsed),
//	)
//
// Group nests related attributes under one key when a record would
// otherwise become a flat list of loosely related fields.
package logger
