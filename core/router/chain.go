package router

import "github.com/nexios-labs/nexios-go/core/handler"

// chain builds a single handler from a middleware stack and endpoint.
// Units are given outer-to-inner; the composed call is strictly
// onion-shaped: the first unit runs first on the way in and last on the
// way out. A unit that never invokes its next handler short-circuits
// the rest of the chain, including the endpoint.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	// Start with the endpoint
	h := endpoint

	// Wrap in middleware in reverse order
	// so the first middleware runs first
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}
