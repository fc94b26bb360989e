package router

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/nexios-labs/nexios-go/core/handler"
)

var (
	// Dispatch outcomes. These are typed results rather than faults:
	// the transport layer converts them into 404/405 responses.
	ErrNotFound         = errors.New("no route matches path")
	ErrMethodNotAllowed = errors.New("method not allowed")

	// Construction-time errors. Registration and resolution panic with
	// these wrapped, aborting application startup.
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrUnknownConverter = errors.New("unknown path parameter converter")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrGreedyPosition   = errors.New("path converter must be the final segment")
	ErrDuplicateRoute   = errors.New("duplicate route")
	ErrDuplicateName    = errors.New("duplicate route name")
	ErrPrefixCollision  = errors.New("mount prefix collision")
	ErrCyclicMount      = errors.New("cyclic router mount")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilRouter        = errors.New("nil router")
	ErrNilHandler       = errors.New("nil handler")
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrNilResponse      = errors.New("nil response")

	// Reverse-lookup errors, returned (not panicked) by URLFor.
	ErrUnknownRouteName = errors.New("unknown route name")
	ErrMissingParameter = errors.New("missing path parameter")
	ErrParameterType    = errors.New("path parameter failed converter validation")
	ErrNonReversible    = errors.New("route contains a wildcard segment and cannot be reversed")
)

// MethodNotAllowedError reports a path that exists under a different
// method set. Allowed carries the union of allowed methods across all
// structurally matching routes, suitable for an Allow header.
type MethodNotAllowedError struct {
	Allowed []string
}

func newMethodNotAllowedError(allowed map[string]struct{}) *MethodNotAllowedError {
	methods := make([]string, 0, len(allowed))
	for m := range allowed {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return &MethodNotAllowedError{Allowed: methods}
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method not allowed (allow: %s)", strings.Join(e.Allowed, ", "))
}

// Unwrap lets errors.Is(err, ErrMethodNotAllowed) succeed.
func (e *MethodNotAllowedError) Unwrap() error {
	return ErrMethodNotAllowed
}

// StatusCode maps the miss to 405 for the default error handler.
func (e *MethodNotAllowedError) StatusCode() int {
	return http.StatusMethodNotAllowed
}

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler provides default error handling.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		if sc, ok := err.(statusCode); ok {
			status = sc.StatusCode()
		}
	}

	http.Error(w, err.Error(), status)
}

// PanicError interface allows external error handlers to detect and handle panics.
// When a panic is recovered during dispatch, it's wrapped in an error that
// implements this interface, providing access to the original panic value
// and stack trace.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

// panicError is the private implementation of PanicError interface.
type panicError struct {
	value any
	stack []byte
}

// Error implements the error interface.
func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *panicError) Value() any {
	return e.value
}

// Stack returns the stack trace.
func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
