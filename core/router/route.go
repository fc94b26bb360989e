package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// defaultMethods is the method set used when a route is registered
// without an explicit one.
var defaultMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// Route binds a path template to a handler with its method set, optional
// name, route-scoped middleware, and an opaque metadata bag the core
// passes through untouched.
type Route[C handler.Context] struct {
	template    string
	methods     []string
	handler     handler.HandlerFunc[C]
	name        string
	middlewares []handler.Middleware[C]
	metadata    map[string]any
}

// Template returns the route's path template as registered.
func (r *Route[C]) Template() string { return r.template }

// Name returns the route's name, or "" when unnamed.
func (r *Route[C]) Name() string { return r.name }

// Methods returns the route's allowed method set.
func (r *Route[C]) Methods() []string { return r.methods }

// Metadata returns the opaque metadata bag attached at registration.
func (r *Route[C]) Metadata() map[string]any { return r.metadata }

// RouteOption customizes a route at registration time.
type RouteOption[C handler.Context] func(*Route[C])

// WithName assigns a unique name to the route for URL reversal.
func WithName[C handler.Context](name string) RouteOption[C] {
	return func(r *Route[C]) {
		r.name = name
	}
}

// WithMethods replaces the route's method set.
func WithMethods[C handler.Context](methods ...string) RouteOption[C] {
	return func(r *Route[C]) {
		r.methods = normalizeMethods(methods)
	}
}

// WithRouteMiddleware appends route-scoped middleware, applied inside
// router-level middleware and outside the handler.
func WithRouteMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) RouteOption[C] {
	return func(r *Route[C]) {
		r.middlewares = append(r.middlewares, middlewares...)
	}
}

// WithMetadata attaches an opaque key/value pair to the route.
func WithMetadata[C handler.Context](key string, value any) RouteOption[C] {
	return func(r *Route[C]) {
		if r.metadata == nil {
			r.metadata = make(map[string]any)
		}
		r.metadata[key] = value
	}
}

// normalizeMethods upper-cases, de-duplicates, and validates a method
// list. Panics on unknown verbs or an empty result.
func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}
	out := make([]string, 0, len(methods))
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(m)
		if _, ok := knownMethods[m]; !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, m))
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
