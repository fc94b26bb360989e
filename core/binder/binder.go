package binder

import "net/http"

// Binder extracts one slice of the request (body, query string, form
// fields, matched path segments) into the struct v points at. Binders
// compose: the router's Context.Bind applies several over the same
// target so a single struct can collect fields from multiple sources.
type Binder func(r *http.Request, v any) error
