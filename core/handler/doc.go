// Package handler defines the capability interfaces the routing core
// dispatches through: type-safe handlers, composable middleware, and a
// request context abstraction with typed path parameters.
//
// # Core Types
//
//	// Response renders the HTTP response for a matched request.
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// HandlerFunc is a type-safe handler over a custom context.
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Middleware wraps a handler; it must call next to continue the chain.
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
//	// ErrorHandler translates dispatch failures into responses.
//	type ErrorHandler[C Context] func(ctx C, err error)
//
// # Context
//
// Context extends context.Context with access to the request, the
// response writer, typed path parameters, and request-scoped values:
//
//	func showUser(ctx handler.Context) handler.Response {
//		id, _ := ctx.Param("id").(int64) // {id:int} converter yields int64
//		return func(w http.ResponseWriter, r *http.Request) error {
//			_, err := fmt.Fprintf(w, "user %d", id)
//			return err
//		}
//	}
//
// The router package provides the default implementation; applications
// with richer per-request state implement Context themselves and plug a
// context factory into the router.
//
// # Middleware
//
// Middleware composes onion-style: each unit runs code before and after
// the inner chain, and may short-circuit by returning a Response without
// calling next:
//
//	func requireHeader[C handler.Context](name string) handler.Middleware[C] {
//		return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//			return func(ctx C) handler.Response {
//				if ctx.Request().Header.Get(name) == "" {
//					return func(w http.ResponseWriter, r *http.Request) error {
//						w.WriteHeader(http.StatusBadRequest)
//						return nil
//					}
//				}
//				return next(ctx)
//			}
//		}
//	}
//
// The chain builder never intercepts errors from inner units or the
// handler; translating failures is middleware's responsibility.
package handler
