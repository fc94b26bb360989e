package router

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// Mux adapts a Router to net/http: it matches each inbound request
// against the flattened table, builds the per-exchange context, invokes
// the route's composed middleware chain, and translates typed misses
// into 404/405 responses. The zero value is not usable; construct with
// NewMux.
type Mux[C handler.Context] struct {
	router       *Router[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]any) C
	logger       *slog.Logger
}

// NewMux wraps router in an http.Handler front.
func NewMux[C handler.Context](router *Router[C], opts ...MuxOption[C]) *Mux[C] {
	if router == nil {
		panic(ErrNilRouter)
	}

	m := &Mux[C]{
		router:       router,
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.newContext == nil {
		m.newContext = defaultContextFactory[C]
	}
	return m
}

// defaultContextFactory covers the built-in *Context type; any other
// context type needs an explicit WithContextFactory option.
func defaultContextFactory[C handler.Context](w http.ResponseWriter, r *http.Request, params map[string]any) C {
	var zero C
	if _, ok := any(zero).(*Context); ok {
		return any(newContext(w, r, params)).(C)
	}
	panic(ErrNoContextFactory)
}

// Router returns the underlying router.
func (m *Mux[C]) Router() *Router[C] { return m.router }

// matchPath prefers the raw path so percent-encoded segments reach the
// matcher unchanged.
func matchPath(r *http.Request) string {
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}
	return path
}

// ServeHTTP implements http.Handler.
func (m *Mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	match, err := m.router.Match(r.Method, matchPath(r))
	if err != nil {
		m.serveMiss(ww, r, err)
		return
	}

	ctx := m.newContext(ww, r, match.Params)
	defer m.recoverPanic(ctx, ww, r)

	response := match.Route.Endpoint()(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}
	if err := response(ww, r); err != nil {
		m.errorHandler(ctx, err)
	}
}

// serveMiss routes a 404/405 through the error handler. The Allow header
// goes on before the handler runs, per RFC 7231.
func (m *Mux[C]) serveMiss(ww *responseWriter, r *http.Request, err error) {
	ctx := m.newContext(ww, r, nil)

	var mna *MethodNotAllowedError
	if errors.As(err, &mna) && !ww.Written() {
		ww.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
	}
	m.errorHandler(ctx, err)
}

// recoverPanic turns a handler panic into an error response when the
// response is still uncommitted; afterwards it can only log.
func (m *Mux[C]) recoverPanic(ctx C, ww *responseWriter, r *http.Request) {
	p := recover()
	if p == nil {
		return
	}

	panicErr := &panicError{value: p, stack: debug.Stack()}
	if !ww.Written() {
		m.errorHandler(ctx, panicErr)
		return
	}
	m.logger.Error("panic after response written",
		"value", panicErr.value,
		"stack", string(panicErr.stack),
		"path", r.URL.Path,
		"method", r.Method,
		"status", ww.Status(),
	)
}
