package router_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexios-labs/nexios-go/core/handler"
	"github.com/nexios-labs/nexios-go/core/router"
)

// mark appends name to trace on the way in.
func mark(trace *[]string, name string) handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*trace = append(*trace, name)
			return next(ctx)
		}
	}
}

func TestMiddlewareResponsePhaseRunsLast(t *testing.T) {
	t.Parallel()

	var trace []string
	wrap := func(name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				trace = append(trace, name+" in")
				resp := next(ctx)
				trace = append(trace, name+" out")
				return resp
			}
		}
	}

	r := router.NewRouter[*router.Context]()
	r.Use(wrap("a"), wrap("b"))
	r.Get("/t", func(ctx *router.Context) handler.Response {
		trace = append(trace, "handler")
		return func(w http.ResponseWriter, r *http.Request) error {
			trace = append(trace, "response")
			w.WriteHeader(http.StatusOK)
			return nil
		}
	})

	w := serveMux(router.NewMux(r), http.MethodGet, "/t")

	assert.Equal(t, http.StatusOK, w.Code)
	// The returned response function only executes once the whole
	// middleware chain has unwound.
	assert.Equal(t, []string{"a in", "b in", "handler", "b out", "a out", "response"}, trace)
}

func TestMiddlewareScopes(t *testing.T) {
	t.Parallel()

	t.Run("route middleware runs inside router middleware", func(t *testing.T) {
		t.Parallel()

		var trace []string
		r := router.NewRouter[*router.Context]()
		r.Use(mark(&trace, "router"))
		r.Get("/t", func(ctx *router.Context) handler.Response {
			trace = append(trace, "handler")
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusOK)
				return nil
			}
		}, router.WithRouteMiddleware(mark(&trace, "route1"), mark(&trace, "route2")))

		serveMux(router.NewMux(r), http.MethodGet, "/t")

		assert.Equal(t, []string{"router", "route1", "route2", "handler"}, trace)
	})

	t.Run("mounted router inherits ancestor middleware", func(t *testing.T) {
		t.Parallel()

		var trace []string
		parent := router.NewRouter[*router.Context]()
		parent.Use(mark(&trace, "parent"))

		child := router.NewRouter[*router.Context](router.WithMiddleware(mark(&trace, "child")))
		child.Get("/items", func(ctx *router.Context) handler.Response {
			trace = append(trace, "handler")
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(http.StatusOK)
				return nil
			}
		})
		parent.Mount(child, "/api")

		w := serveMux(router.NewMux(parent), http.MethodGet, "/api/items")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"parent", "child", "handler"}, trace)
	})

	t.Run("runs once per request across routes", func(t *testing.T) {
		t.Parallel()

		hits := 0
		r := router.NewRouter[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				hits++
				return next(ctx)
			}
		})
		r.Get("/a", okRoute("a"))
		r.Get("/b", okRoute("b"))
		r.Post("/c", okRoute("c"))

		m := router.NewMux(r)
		for i, tc := range []struct{ method, path, body string }{
			{http.MethodGet, "/a", "a"},
			{http.MethodGet, "/b", "b"},
			{http.MethodPost, "/c", "c"},
		} {
			w := serveMux(m, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
			assert.Equal(t, i+1, hits)
		}
	})
}

func TestMiddlewareSeesRequestAndParams(t *testing.T) {
	t.Parallel()

	var method, path, userID, postID string
	r := router.NewRouter[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			method = ctx.Request().Method
			path = ctx.Request().URL.Path
			userID = ctx.ParamString("userID")
			postID = ctx.ParamString("postID")
			return next(ctx)
		}
	})
	r.Post("/users/{userID}/posts/{postID}", okRoute("done"))

	w := serveMux(router.NewMux(r), http.MethodPost, "/users/123/posts/456")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/users/123/posts/456", path)
	assert.Equal(t, "123", userID)
	assert.Equal(t, "456", postID)
}

func TestMiddlewareDecoratesResponse(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set("X-Served-By", "edge-1")
				return resp(w, r)
			}
		}
	})
	r.Get("/t", okRoute("handled"))

	w := serveMux(router.NewMux(r), http.MethodGet, "/t")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "handled", w.Body.String())
	assert.Equal(t, "edge-1", w.Header().Get("X-Served-By"))
}

func TestMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	reachedHandler := false
	r := router.NewRouter[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			if ctx.Request().Header.Get("Authorization") != "Bearer valid-token" {
				return func(w http.ResponseWriter, r *http.Request) error {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte("unauthorized"))
					return nil
				}
			}
			return next(ctx)
		}
	})
	r.Get("/protected", func(ctx *router.Context) handler.Response {
		reachedHandler = true
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("secret"))
			return nil
		}
	})
	m := router.NewMux(r)

	t.Run("rejects without the token", func(t *testing.T) {
		reachedHandler = false
		w := serveMux(m, http.MethodGet, "/protected")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", w.Body.String())
		assert.False(t, reachedHandler)
	})

	t.Run("passes through with the token", func(t *testing.T) {
		reachedHandler = false
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()
		m.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "secret", w.Body.String())
		assert.True(t, reachedHandler)
	})
}

func TestMiddlewareEnrichesCustomContext(t *testing.T) {
	t.Parallel()

	type sessionContext struct {
		*router.Context
		UserID  string
		IsAdmin bool
	}

	factory := func(w http.ResponseWriter, r *http.Request, params map[string]any) *sessionContext {
		return &sessionContext{Context: router.NewContext(w, r, params)}
	}

	r := router.NewRouter[*sessionContext]()
	r.Use(func(next handler.HandlerFunc[*sessionContext]) handler.HandlerFunc[*sessionContext] {
		return func(ctx *sessionContext) handler.Response {
			ctx.UserID = "user123"
			ctx.IsAdmin = true
			return next(ctx)
		}
	})
	r.Get("/whoami", func(ctx *sessionContext) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(ctx.UserID + " admin=" + strconv.FormatBool(ctx.IsAdmin)))
			return nil
		}
	})

	m := router.NewMux(r, router.WithContextFactory(factory))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	m.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user123 admin=true", w.Body.String())
}

func TestMiddlewareFailureModes(t *testing.T) {
	t.Parallel()

	t.Run("nil response from middleware is a server error", func(t *testing.T) {
		t.Parallel()

		r := router.NewRouter[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				return nil
			}
		})
		r.Get("/t", okRoute("unreached"))

		w := serveMux(router.NewMux(r), http.MethodGet, "/t")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("panic in middleware is recovered", func(t *testing.T) {
		t.Parallel()

		r := router.NewRouter[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				panic("middleware bug")
			}
		})
		r.Get("/t", okRoute("unreached"))

		w := serveMux(router.NewMux(r), http.MethodGet, "/t")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
