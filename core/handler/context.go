package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// Param returns the typed value a route converter produced for the
// named path parameter (int64 for int, float64 for float, uuid.UUID
// for uuid, string otherwise), or nil when the parameter is absent.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) any
	SetValue(key, val any)
}
