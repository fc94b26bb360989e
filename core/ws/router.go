package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/nexios-labs/nexios-go/core/router"
)

// HandlerFunc drives one socket session. The context is the handshake
// request's context. The handler must call s.Accept before exchanging
// messages; the router tears down whatever the handler leaves open.
type HandlerFunc func(ctx context.Context, s *Session) error

// Middleware wraps socket handlers, onion-style like the HTTP chain.
type Middleware func(next HandlerFunc) HandlerFunc

// route binds a handshake-path template to a socket handler.
type route struct {
	template    string
	signature   string
	handler     HandlerFunc
	name        string
	middlewares []Middleware
}

// RouteOption customizes a socket route at registration time.
type RouteOption func(*route)

// WithName assigns a name to the socket route.
func WithName(name string) RouteOption {
	return func(r *route) { r.name = name }
}

// WithRouteMiddleware appends route-scoped middleware.
func WithRouteMiddleware(middlewares ...Middleware) RouteOption {
	return func(r *route) {
		r.middlewares = append(r.middlewares, middlewares...)
	}
}

// Router matches handshake paths against the same compiled patterns the
// HTTP router uses, then hands matched exchanges to Session handlers.
// A handshake is its own verb: there is no method dispatch.
//
// Construction (Handle/Use/Mount) follows the single-writer-then-
// many-readers discipline of the HTTP router.
type Router struct {
	prefix      string
	converters  *router.Converters
	routes      []*route
	middlewares []Middleware
	mounts      []mountPoint
	parent      *Router

	upgrader websocket.Upgrader
	logger   *slog.Logger

	resolved []*ResolvedRoute
}

type mountPoint struct {
	prefix string
	child  *Router
}

// RouterOption configures a socket Router during creation.
type RouterOption func(*Router)

// WithPrefix sets the router's declared mount prefix.
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) { r.prefix = prefix }
}

// WithConverters replaces the built-in converter registry used for
// handshake-path templates.
func WithConverters(convs *router.Converters) RouterOption {
	return func(r *Router) {
		if convs != nil {
			r.converters = convs
		}
	}
}

// WithUpgrader replaces the default transport upgrader (1KB buffers,
// same-origin check).
func WithUpgrader(up websocket.Upgrader) RouterOption {
	return func(r *Router) { r.upgrader = up }
}

// WithLogger sets the logger for handler and teardown errors.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates an empty socket router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle registers a socket route. Template syntax and construction-
// time failure modes are identical to the HTTP router's: a bad
// template, unknown converter, or duplicate pattern panics.
func (r *Router) Handle(template string, h HandlerFunc, opts ...RouteOption) {
	if h == nil {
		panic(fmt.Errorf("%w: socket route %q", router.ErrNilHandler, template))
	}
	pat, err := router.CompilePattern(template, r.converters)
	if err != nil {
		panic(err)
	}

	rt := &route{template: template, signature: pat.Signature(), handler: h}
	for _, opt := range opts {
		opt(rt)
	}

	// Collisions key on the signature, so /x/{a} and /x/{b} clash.
	for _, existing := range r.routes {
		if existing.signature == rt.signature {
			panic(fmt.Errorf("%w: socket route %q", router.ErrDuplicateRoute, template))
		}
	}

	r.routes = append(r.routes, rt)
	r.invalidate()
}

// Use appends router-level middleware applied to every socket route
// under this router and its children.
func (r *Router) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
	r.invalidate()
}

// Mount attaches child under an effective prefix, with the same
// collision and cycle rules as the HTTP router.
func (r *Router) Mount(child *Router, prefixOverride ...string) {
	if child == nil {
		panic(fmt.Errorf("%w: mount", router.ErrNilRouter))
	}

	prefix := child.prefix
	if len(prefixOverride) > 0 {
		prefix = prefixOverride[0]
	}
	if prefix != "" && prefix[0] != '/' {
		panic(fmt.Errorf("%w: mount prefix %q must start with '/'", router.ErrInvalidPattern, prefix))
	}

	if child == r || child.contains(r) {
		panic(fmt.Errorf("%w: %q", router.ErrCyclicMount, prefix))
	}
	for _, m := range r.mounts {
		if m.prefix == prefix {
			panic(fmt.Errorf("%w: %q", router.ErrPrefixCollision, prefix))
		}
	}

	child.parent = r
	r.mounts = append(r.mounts, mountPoint{prefix: prefix, child: child})
	r.invalidate()
}

func (r *Router) contains(target *Router) bool {
	if r == target {
		return true
	}
	for _, m := range r.mounts {
		if m.child.contains(target) {
			return true
		}
	}
	return false
}

func (r *Router) invalidate() {
	for cur := r; cur != nil; cur = cur.parent {
		cur.resolved = nil
	}
}

// ResolvedRoute is one entry of the flattened handshake table.
type ResolvedRoute struct {
	route    *route
	pattern  *router.Pattern
	endpoint HandlerFunc
}

// Pattern returns the fully-qualified compiled pattern.
func (rr *ResolvedRoute) Pattern() *router.Pattern { return rr.pattern }

// Name returns the route's name, or "" when unnamed.
func (rr *ResolvedRoute) Name() string { return rr.route.name }

// Endpoint returns the handler wrapped in its composed middleware chain.
func (rr *ResolvedRoute) Endpoint() HandlerFunc { return rr.endpoint }

// Match is a successful handshake-path lookup.
type Match struct {
	Route  *ResolvedRoute
	Params map[string]any
}

// Resolve flattens the socket router tree depth-first, mirroring the
// HTTP router's resolution. Cached until the next mutating call.
func (r *Router) Resolve() []*ResolvedRoute {
	if r.resolved != nil {
		return r.resolved
	}

	table := make([]*ResolvedRoute, 0, len(r.routes))
	seen := make(map[string]struct{})
	r.flatten("", nil, &table, seen)

	r.resolved = table
	return table
}

func (r *Router) flatten(prefix string, outer []Middleware, table *[]*ResolvedRoute, seen map[string]struct{}) {
	mws := outer
	if len(r.middlewares) > 0 {
		mws = append(slices.Clip(outer), r.middlewares...)
	}

	for _, rt := range r.routes {
		fq := router.JoinPattern(prefix, rt.template)
		pat, err := router.CompilePattern(fq, r.converters)
		if err != nil {
			panic(err)
		}

		sig := pat.Signature()
		if _, dup := seen[sig]; dup {
			panic(fmt.Errorf("%w: socket route %q", router.ErrDuplicateRoute, fq))
		}
		seen[sig] = struct{}{}

		*table = append(*table, &ResolvedRoute{
			route:    rt,
			pattern:  pat,
			endpoint: chain(append(slices.Clip(mws), rt.middlewares...), rt.handler),
		})
	}

	for _, m := range r.mounts {
		p := m.prefix
		if p == "" {
			p = "/"
		}
		m.child.flatten(router.JoinPattern(prefix, p), mws, table, seen)
	}
}

// chain composes socket middleware outer-to-inner around the endpoint.
func chain(middlewares []Middleware, endpoint HandlerFunc) HandlerFunc {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Match scans the flattened table in registration order and returns the
// first route whose pattern structurally matches path, or
// router.ErrNotFound.
func (r *Router) Match(path string) (*Match, error) {
	for _, rr := range r.Resolve() {
		if params, ok := rr.pattern.Match(path); ok {
			return &Match{Route: rr, Params: params}, nil
		}
	}
	return nil, router.ErrNotFound
}

// ServeHTTP implements http.Handler for handshake requests: it matches
// the path, builds a CONNECTING session, and runs the route's endpoint.
// A miss produces 404; a handler that returns without ever accepting
// produces 403.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	match, err := r.Match(path)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	sess := newSession(w, req, &r.upgrader, match.Params)

	if err := match.Route.Endpoint()(req.Context(), sess); err != nil &&
		!errors.Is(err, ErrSessionClosed) && !errors.Is(err, ErrHandshakeRejected) {
		r.logger.Error("socket handler error",
			"path", path,
			"route", match.Route.pattern.Raw(),
			"error", err,
		)
	}

	switch sess.State() {
	case StateConnecting:
		// Handler never accepted or rejected the handshake.
		http.Error(w, "handshake not accepted", http.StatusForbidden)
	case StateOpen:
		_ = sess.Close(websocket.CloseNormalClosure, "")
	}
}
