package router

import "github.com/nexios-labs/nexios-go/core/handler"

// Match is the result of a successful lookup: the resolved route and
// the typed path parameters bound from the request path. A Match is
// created per exchange and discarded when the exchange completes.
type Match[C handler.Context] struct {
	Route  *ResolvedRoute[C]
	Params map[string]any
}

// Match walks the flattened table in registration order and returns the
// first route whose pattern structurally matches path and whose method
// set includes method.
//
// Tie-breaking is first-registered-wins: a parameterized route
// registered before a literal one shadows it, and the matcher does not
// prefer more specific patterns. Callers should register literal routes
// before parameterized ones.
//
// A miss is typed: ErrNotFound when no pattern matches the path at all,
// or a *MethodNotAllowedError carrying the union of allowed methods
// across every structurally matching route when the path exists under
// other methods.
func (r *Router[C]) Match(method, path string) (*Match[C], error) {
	var allowed map[string]struct{}

	for _, rr := range r.Resolve() {
		params, ok := rr.pattern.Match(path)
		if !ok {
			continue
		}
		if rr.Allows(method) {
			return &Match[C]{Route: rr, Params: params}, nil
		}
		if allowed == nil {
			allowed = make(map[string]struct{})
		}
		for m := range rr.methods {
			allowed[m] = struct{}{}
		}
	}

	if len(allowed) > 0 {
		return nil, newMethodNotAllowedError(allowed)
	}
	return nil, ErrNotFound
}
