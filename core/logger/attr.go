package logger

import (
	"log/slog"
	"runtime"
	"strconv"
	"time"
)

// Helpers that take optional input return the zero slog.Attr when the
// input is empty or nil; slog drops zero attributes, so call sites
// never need their own guards.

// Group nests attrs under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records a single error under "error". Nil yields the zero
// Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors records the non-nil errors under "errors", keyed by their
// position in the argument list.
func Errors(errs ...error) slog.Attr {
	var as []slog.Attr
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Timing.

func Duration(d time.Duration) slog.Attr { return slog.Duration("duration", d) }
func Latency(d time.Duration) slog.Attr { return slog.Duration("latency", d) }

// Elapsed records the time since start under "elapsed".
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Correlation identifiers. Empty values yield the zero Attr.

func RequestID(id string) slog.Attr { return optString("request_id", id) }
func TraceID(id string) slog.Attr { return optString("trace_id", id) }
func CorrelationID(id string) slog.Attr { return optString("correlation_id", id) }

// ID records an identifier under a caller-chosen key.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// HTTP request and response fields, named to match the middleware
// package's request logging.

func Method(method string) slog.Attr { return slog.String("method", method) }
func Path(path string) slog.Attr { return slog.String("path", path) }
func Query(q string) slog.Attr { return slog.String("query", q) }
func RemoteAddr(addr string) slog.Attr { return slog.String("remote_addr", addr) }
func StatusCode(code int) slog.Attr { return slog.Int("status_code", code) }
func ClientIP(ip string) slog.Attr { return slog.String("client_ip", ip) }
func UserAgent(ua string) slog.Attr { return slog.String("user_agent", ua) }
func BytesIn(n int64) slog.Attr { return slog.Int64("bytes_in", n) }
func BytesOut(n int64) slog.Attr { return slog.Int64("bytes_out", n) }

// General metadata.

func Component(name string) slog.Attr { return slog.String("component", name) }
func Event(name string) slog.Attr { return slog.String("event", name) }
func Type(t string) slog.Attr { return slog.String("type", t) }
func Action(action string) slog.Attr { return slog.String("action", action) }
func Result(result string) slog.Attr { return slog.String("result", result) }
func Count(key string, n int) slog.Attr { return slog.Int(key, n) }
func Version(v string) slog.Attr { return slog.String("version", v) }
func RetryCount(count int) slog.Attr { return slog.Int("retry_count", count) }

// Key records an arbitrary value; nil yields the zero Attr.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// Stack captures the current goroutine's stack under "stack".
func Stack() slog.Attr {
	buf := make([]byte, 64<<10)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}

// Caller records the file:line of the logging call site.
func Caller() slog.Attr {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return slog.Attr{}
	}
	return slog.String("caller", file+":"+strconv.Itoa(line))
}

func optString(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}
