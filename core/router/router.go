package router

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// Router is an ordered collection of routes plus nested child routers,
// each child carrying its own prefix and middleware list. Registration
// and mounting are construction-time operations and are not safe to run
// concurrently with Resolve or Match; the expected discipline is a
// single writer during setup, then many readers.
type Router[C handler.Context] struct {
	prefix      string
	converters  *Converters
	routes      []*Route[C]
	middlewares []handler.Middleware[C]
	mounts      []mountPoint[C]
	parent      *Router[C]

	resolved []*ResolvedRoute[C]
	byName   map[string]*ResolvedRoute[C]
}

type mountPoint[C handler.Context] struct {
	prefix string
	child  *Router[C]
}

// RouterOption configures a Router during creation.
type RouterOption[C handler.Context] func(*Router[C])

// WithPrefix sets the router's own declared prefix, used when it is
// mounted without an override.
func WithPrefix[C handler.Context](prefix string) RouterOption[C] {
	return func(r *Router[C]) {
		r.prefix = prefix
	}
}

// WithConverters replaces the built-in converter registry.
func WithConverters[C handler.Context](convs *Converters) RouterOption[C] {
	return func(r *Router[C]) {
		if convs != nil {
			r.converters = convs
		}
	}
}

// WithMiddleware appends router-level middleware at creation time.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) RouterOption[C] {
	return func(r *Router[C]) {
		r.middlewares = append(r.middlewares, middlewares...)
	}
}

// NewRouter creates an empty router.
func NewRouter[C handler.Context](opts ...RouterOption[C]) *Router[C] {
	r := &Router[C]{converters: defaultConverters}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle registers a route for the default method set
// (GET/POST/PUT/PATCH/DELETE/OPTIONS). Options may narrow the set,
// name the route, or attach route-scoped middleware. Registration
// mistakes (bad template, duplicate route, unknown converter) panic:
// they are programming errors that must abort startup.
func (r *Router[C]) Handle(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	if h == nil {
		panic(fmt.Errorf("%w: route %q", ErrNilHandler, template))
	}

	// Compile immediately so template mistakes surface at the
	// registration site, not at first lookup.
	pat, err := CompilePattern(template, r.converters)
	if err != nil {
		panic(err)
	}

	rt := &Route[C]{
		template: template,
		methods:  defaultMethods,
		handler:  h,
	}
	for _, opt := range opts {
		opt(rt)
	}

	sig := pat.Signature()
	for _, existing := range r.routes {
		if existing.template == template || samePattern(r.converters, existing.template, sig) {
			if methodsOverlap(existing.methods, rt.methods) {
				panic(fmt.Errorf("%w: %s %q", ErrDuplicateRoute, strings.Join(rt.methods, ","), template))
			}
		}
	}

	r.routes = append(r.routes, rt)
	r.invalidate()
	return rt
}

// Get registers a handler for GET requests.
func (r *Router[C]) Get(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodGet)...)
}

// Post registers a handler for POST requests.
func (r *Router[C]) Post(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodPost)...)
}

// Put registers a handler for PUT requests.
func (r *Router[C]) Put(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodPut)...)
}

// Patch registers a handler for PATCH requests.
func (r *Router[C]) Patch(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodPatch)...)
}

// Delete registers a handler for DELETE requests.
func (r *Router[C]) Delete(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodDelete)...)
}

// Head registers a handler for HEAD requests.
func (r *Router[C]) Head(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodHead)...)
}

// Options registers a handler for OPTIONS requests.
func (r *Router[C]) Options(template string, h handler.HandlerFunc[C], opts ...RouteOption[C]) *Route[C] {
	return r.Handle(template, h, prependMethods(opts, http.MethodOptions)...)
}

// Use appends router-level middleware. It affects every route registered
// under this router and its children, applied outside route-level units.
func (r *Router[C]) Use(middlewares ...handler.Middleware[C]) {
	r.middlewares = append(r.middlewares, middlewares...)
	r.invalidate()
}

// Mount attaches child under an effective prefix: the override when
// given, else the child's own declared prefix. Mounting panics on a
// prefix that collides character-for-character with an existing
// sibling's, and on cycles (a router mounting itself, an ancestor, or
// anything that already contains it).
func (r *Router[C]) Mount(child *Router[C], prefixOverride ...string) {
	if child == nil {
		panic(fmt.Errorf("%w: mount", ErrNilRouter))
	}

	prefix := child.prefix
	if len(prefixOverride) > 0 {
		prefix = prefixOverride[0]
	}
	if prefix != "" && prefix[0] != '/' {
		panic(fmt.Errorf("%w: mount prefix %q must start with '/'", ErrInvalidPattern, prefix))
	}

	// Cycle detection walks the tree at mount time instead of letting
	// Resolve recurse forever.
	if child == r || child.contains(r) {
		panic(fmt.Errorf("%w: %q", ErrCyclicMount, prefix))
	}

	for _, m := range r.mounts {
		if m.prefix == prefix {
			panic(fmt.Errorf("%w: %q", ErrPrefixCollision, prefix))
		}
	}

	child.parent = r
	r.mounts = append(r.mounts, mountPoint[C]{prefix: prefix, child: child})
	r.invalidate()
}

// contains reports whether target is this router or one of its
// descendants.
func (r *Router[C]) contains(target *Router[C]) bool {
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

// invalidate drops cached resolution results here and on every
// ancestor, since their flattened tables embed this router's routes.
func (r *Router[C]) invalidate() {
	for cur := r; cur != nil; cur = cur.parent {
		cur.resolved = nil
		cur.byName = nil
	}
}

// ResolvedRoute is one entry of the flattened lookup table: the
// fully-qualified compiled pattern, the method set, and the handler
// already wrapped in its complete middleware chain. Resolved routes are
// immutable and shared across concurrent exchanges without locking.
type ResolvedRoute[C handler.Context] struct {
	route    *Route[C]
	pattern  *Pattern
	methods  map[string]struct{}
	endpoint handler.HandlerFunc[C]
}

// Pattern returns the fully-qualified compiled pattern.
func (rr *ResolvedRoute[C]) Pattern() *Pattern { return rr.pattern }

// Name returns the route's name, or "" when unnamed.
func (rr *ResolvedRoute[C]) Name() string { return rr.route.name }

// Metadata returns the route's opaque metadata bag.
func (rr *ResolvedRoute[C]) Metadata() map[string]any { return rr.route.metadata }

// Methods returns the allowed method set as registered.
func (rr *ResolvedRoute[C]) Methods() []string { return rr.route.methods }

// Endpoint returns the handler wrapped in its composed middleware
// chain. The composition is built once at resolve time and cached.
func (rr *ResolvedRoute[C]) Endpoint() handler.HandlerFunc[C] { return rr.endpoint }

// Allows reports whether the route accepts the given method.
func (rr *ResolvedRoute[C]) Allows(method string) bool {
	_, ok := rr.methods[method]
	return ok
}

// Resolve flattens the router tree depth-first into the ordered lookup
// table: each router's own routes in registration order, then each
// mounted child. Every entry carries its fully-qualified pattern
// (ancestor prefixes concatenated) and its fully composed middleware
// chain (ancestor middleware outermost). The result is cached and
// reused until the next mutating call; calling Resolve twice without
// intervening mutation returns the identical table.
func (r *Router[C]) Resolve() []*ResolvedRoute[C] {
	if r.resolved != nil {
		return r.resolved
	}

	table := make([]*ResolvedRoute[C], 0, len(r.routes))
	byName := make(map[string]*ResolvedRoute[C])
	seen := make(map[string]map[string]struct{})

	r.flatten("", nil, &table, byName, seen)

	r.resolved = table
	r.byName = byName
	return table
}

func (r *Router[C]) flatten(
	prefix string,
	outer []handler.Middleware[C],
	table *[]*ResolvedRoute[C],
	byName map[string]*ResolvedRoute[C],
	seen map[string]map[string]struct{},
) {
	// Router-level middleware wraps everything below this point,
	// outer-to-inner in declaration order.
	mws := outer
	if len(r.middlewares) > 0 {
		mws = append(slices.Clip(outer), r.middlewares...)
	}

	for _, rt := range r.routes {
		fq := JoinPattern(prefix, rt.template)
		pat, err := CompilePattern(fq, r.converters)
		if err != nil {
			panic(err)
		}

		sig := pat.Signature()
		taken, ok := seen[sig]
		if !ok {
			taken = make(map[string]struct{}, len(rt.methods))
			seen[sig] = taken
		}
		methodSet := make(map[string]struct{}, len(rt.methods))
		for _, m := range rt.methods {
			if _, dup := taken[m]; dup {
				panic(fmt.Errorf("%w: %s %q", ErrDuplicateRoute, m, fq))
			}
			taken[m] = struct{}{}
			methodSet[m] = struct{}{}
		}

		rr := &ResolvedRoute[C]{
			route:    rt,
			pattern:  pat,
			methods:  methodSet,
			endpoint: chain(append(slices.Clip(mws), rt.middlewares...), rt.handler),
		}

		if rt.name != "" {
			if _, dup := byName[rt.name]; dup {
				panic(fmt.Errorf("%w: %q", ErrDuplicateName, rt.name))
			}
			byName[rt.name] = rr
		}

		*table = append(*table, rr)
	}

	for _, m := range r.mounts {
		m.child.flatten(JoinPattern(prefix, orRoot(m.prefix)), mws, table, byName, seen)
	}
}

// orRoot maps an empty mount prefix to the root path so joinPattern
// treats it as a no-op.
func orRoot(prefix string) string {
	if prefix == "" {
		return "/"
	}
	return prefix
}

// samePattern reports whether an already-registered template has the
// same literal-equivalent signature.
func samePattern(convs *Converters, template, sig string) bool {
	pat, err := CompilePattern(template, convs)
	if err != nil {
		return false
	}
	return pat.Signature() == sig
}

func methodsOverlap(a, b []string) bool {
	for _, m := range a {
		if slices.Contains(b, m) {
			return true
		}
	}
	return false
}

func prependMethods[C handler.Context](opts []RouteOption[C], methods ...string) []RouteOption[C] {
	return append([]RouteOption[C]{WithMethods[C](methods...)}, opts...)
}

// RouteInfo describes one flattened route for introspection.
type RouteInfo struct {
	Method  string
	Pattern string
	Name    string
}

// Routes returns the flattened table as method/pattern pairs, one entry
// per allowed method, in table order.
func (r *Router[C]) Routes() []RouteInfo {
	var infos []RouteInfo
	for _, rr := range r.Resolve() {
		for _, m := range rr.route.methods {
			infos = append(infos, RouteInfo{Method: m, Pattern: rr.pattern.Raw(), Name: rr.route.name})
		}
	}
	return infos
}
