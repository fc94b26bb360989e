// Package router is a request-routing and dispatch core: it compiles
// path templates into typed patterns, matches inbound method+path pairs
// against an ordered flattened table, composes onion-shaped middleware
// chains, and reverses named routes back into concrete paths.
//
// # Features
//
//   - Typed path parameters via named converters (string, int, float,
//     uuid, path, plus custom single-segment regex converters)
//   - Segment-by-segment structural matching, no backtracking regexes
//   - Typed misses: not-found vs method-not-allowed with allowed set
//   - Nested routers with prefixed mounting and cycle detection
//   - Middleware chains composed once per route and cached
//   - URL reversal with converter-validated parameter values
//   - http.Handler front with panic recovery and custom error handlers
//
// # Basic Usage
//
//	import "github.com/nexios-labs/nexios-go/core/router"
//
//	r := router.NewRouter[*router.Context]()
//	r.Get("/users", listUsers)
//	r.Get("/users/{id:int}", getUser, router.WithName[*router.Context]("user-detail"))
//	r.Get("/files/{rest:path}", serveFile)
//
//	http.ListenAndServe(":8080", router.NewMux(r))
//
// # Path Templates
//
// Literal segments match verbatim. {name} is an untyped parameter that
// matches one non-slash segment. {name:converter} applies a registered
// converter; the matcher binds the converter's typed value, so
// {id:int} yields an int64, not a string. * matches exactly one
// arbitrary segment and binds nothing. A final {name:path} consumes the
// remaining one-or-more segments including slashes.
//
//	func getUser(ctx *router.Context) handler.Response {
//		id, _ := ctx.ParamInt("id")
//		// ...
//	}
//
// # Matching Order
//
// The flattened table is scanned in registration order and the first
// structurally matching route whose method set allows the request
// method wins. Specificity is not ranked automatically: register
// literal routes before parameterized ones, or the parameterized route
// shadows them.
//
// # Mounting
//
//	api := router.NewRouter[*router.Context](router.WithPrefix[*router.Context]("/api"))
//	api.Get("/posts", listPosts)
//	root.Mount(api)           // effective prefix /api
//	root.Mount(v2, "/api/v2") // override
//
// Mount panics on sibling prefix collisions and on cyclic composition.
// Registration, mounting, and Use are construction-time calls: finish
// them before the router serves traffic.
//
// # Middleware
//
// Router-level units wrap route-level units, which wrap the handler.
// Composition happens once, at Resolve time, and is cached on the
// resolved route.
//
// # URL Reversal
//
//	path, err := r.URLFor("user-detail", map[string]any{"id": int64(42)})
//	// "/users/42"
package router
