package handler

import "net/http"

// Response renders an HTTP response: headers, status, body. Handlers
// return one instead of writing directly, which lets middleware wrap
// the write and lets the mux route rendering errors through its error
// handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request through a typed context.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler receives errors the dispatch path could not render.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler. Returning a Response without calling
// next short-circuits the chain.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
