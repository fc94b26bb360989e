package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nexios-labs/nexios-go/core/binder"
)

// Context is the default request context implementation. It delegates
// cancellation to the request's context and carries the typed path
// parameters the matcher bound for this exchange.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]any
	values map[any]any
}

// newContext creates a new Context instance.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]any) *Context {
	return &Context{
		w:      w,
		r:      r,
		params: params,
	}
}

// NewContext builds a Context for the given exchange. It exists so custom
// context types can embed *Context and construct it from a mux context
// factory.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]any) *Context {
	return newContext(w, r, params)
}

// Deadline returns the time when work done on behalf of this context should be canceled.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the value associated with this context for key.
// Request-scoped values set via SetValue shadow the request context.
func (c *Context) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.r.Context().Value(key)
}

// SetValue stores a request-scoped value on the context.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the typed value of the path parameter for the given
// key, or nil when the parameter is absent.
func (c *Context) Param(key string) any {
	if c.params == nil {
		return nil
	}
	return c.params[key]
}

// ParamString returns the parameter as a string. Values produced by
// non-string converters are not coerced; a missing or non-string value
// yields "".
func (c *Context) ParamString(key string) string {
	s, _ := c.Param(key).(string)
	return s
}

// ParamInt returns the parameter produced by the int converter.
func (c *Context) ParamInt(key string) (int64, bool) {
	n, ok := c.Param(key).(int64)
	return n, ok
}

// ParamFloat returns the parameter produced by the float converter.
func (c *Context) ParamFloat(key string) (float64, bool) {
	f, ok := c.Param(key).(float64)
	return f, ok
}

// ParamUUID returns the parameter produced by the uuid converter.
func (c *Context) ParamUUID(key string) (uuid.UUID, bool) {
	id, ok := c.Param(key).(uuid.UUID)
	return id, ok
}

// Bind applies the given binders to the request in order, stopping at the
// first error. Combine binder.JSON, binder.Query, binder.Form, and BindPath
// to populate a single struct from multiple sources.
func (c *Context) Bind(v any, binders ...binder.Binder) error {
	for _, bind := range binders {
		if err := bind(c.r, v); err != nil {
			return err
		}
	}
	return nil
}

// BindPath binds the matched path parameters into v using `path` struct
// tags. Typed parameters are rendered to their canonical string form before
// conversion to the target field type.
func (c *Context) BindPath(v any) error {
	return binder.Path(func(_ *http.Request, name string) string {
		p := c.Param(name)
		if p == nil {
			return ""
		}
		if s, ok := p.(string); ok {
			return s
		}
		return fmt.Sprint(p)
	})(c.r, v)
}

// BindJSON binds the JSON request body into v.
func (c *Context) BindJSON(v any) error {
	return binder.JSON()(c.r, v)
}

// BindQuery binds URL query parameters into v using `query` struct tags.
func (c *Context) BindQuery(v any) error {
	return binder.Query()(c.r, v)
}

// BindForm binds URL-encoded or multipart form data into v using `form`
// struct tags.
func (c *Context) BindForm(v any) error {
	return binder.Form()(c.r, v)
}
