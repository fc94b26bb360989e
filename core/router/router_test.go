package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexios-labs/nexios-go/core/handler"
	"github.com/nexios-labs/nexios-go/core/router"
)

func okHandler(executed *bool) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		if executed != nil {
			*executed = true
		}
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		}
	}
}

// The mux front is the http.Handler, not the router itself.
func TestMuxImplementsHTTPHandler(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	var _ http.Handler = router.NewMux(r)

	assert.NotNil(t, r)
}

func TestNewRouterEmpty(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	require.NotNil(t, r)

	assert.Empty(t, r.Routes())
	assert.Empty(t, r.Resolve())
}

func TestRouterHTTPMethods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		register func(*router.Router[*router.Context], string, handler.HandlerFunc[*router.Context])
	}{
		{"GET", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Get(pattern, h)
		}},
		{"POST", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Post(pattern, h)
		}},
		{"PUT", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Put(pattern, h)
		}},
		{"DELETE", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Delete(pattern, h)
		}},
		{"PATCH", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Patch(pattern, h)
		}},
		{"HEAD", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Head(pattern, h)
		}},
		{"OPTIONS", func(r *router.Router[*router.Context], pattern string, h handler.HandlerFunc[*router.Context]) {
			r.Options(pattern, h)
		}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.method, func(t *testing.T) {
			t.Parallel()

			r := router.NewRouter[*router.Context]()
			executed := false

			test.register(r, "/test", okHandler(&executed))

			req := httptest.NewRequest(test.method, "/test", nil)
			w := httptest.NewRecorder()

			router.NewMux(r).ServeHTTP(w, req)

			assert.True(t, executed, "Handler should have been executed")
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRouterHandleDefaultMethods(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	executed := false

	r.Handle("/api", okHandler(&executed))

	mux := router.NewMux(r)

	t.Run("default set answers", func(t *testing.T) {
		for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"} {
			executed = false
			req := httptest.NewRequest(method, "/api", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.True(t, executed, "Handler should have been executed for method %s", method)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("outside default set is 405", func(t *testing.T) {
		for _, method := range []string{"HEAD", "TRACE"} {
			executed = false
			req := httptest.NewRequest(method, "/api", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.False(t, executed, "Handler should not have been executed for method %s", method)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		}
	})
}

func TestRouterWithMethodsOption(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	executed := false

	r.Handle("/api", okHandler(&executed), router.WithMethods[*router.Context]("GET", "POST"))

	mux := router.NewMux(r)

	t.Run("allowed methods work", func(t *testing.T) {
		for _, method := range []string{"GET", "POST"} {
			executed = false
			req := httptest.NewRequest(method, "/api", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.True(t, executed, "Handler should have been executed for method %s", method)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("disallowed methods return 405", func(t *testing.T) {
		for _, method := range []string{"PUT", "DELETE"} {
			executed = false
			req := httptest.NewRequest(method, "/api", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.False(t, executed, "Handler should not have been executed for method %s", method)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
		}
	})
}

func TestRouterMethodsAreNormalized(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	executed := false

	// Lower-case and duplicated verbs collapse to one canonical set.
	r.Handle("/api", okHandler(&executed), router.WithMethods[*router.Context]("get", "GET", "post"))

	rt := r.Routes()
	require.Len(t, rt, 2)
	assert.Equal(t, "GET", rt[0].Method)
	assert.Equal(t, "POST", rt[1].Method)
}

func TestRouterRoutes(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	h := func(ctx *router.Context) handler.Response { return nil }

	r.Get("/users", h, router.WithName[*router.Context]("users.list"))
	r.Post("/users", h)
	r.Get("/users/{id:int}", h)
	r.Delete("/users/{id:int}", h)

	routes := r.Routes()
	require.Len(t, routes, 4)

	routeMap := make(map[string]string)
	for _, route := range routes {
		routeMap[route.Method+":"+route.Pattern] = route.Name
	}

	assert.Contains(t, routeMap, "GET:/users")
	assert.Contains(t, routeMap, "POST:/users")
	assert.Contains(t, routeMap, "GET:/users/{id:int}")
	assert.Contains(t, routeMap, "DELETE:/users/{id:int}")
	assert.Equal(t, "users.list", routeMap["GET:/users"])
}

func TestRouterRegistrationPanics(t *testing.T) {
	t.Parallel()

	h := func(ctx *router.Context) handler.Response { return nil }

	t.Run("empty pattern panics", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		assert.Panics(t, func() {
			r.Get("", h)
		})
	})

	t.Run("pattern without leading slash panics", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		assert.Panics(t, func() {
			r.Get("users", h)
		})
	})

	t.Run("nil handler panics", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		assert.Panics(t, func() {
			r.Get("/users", nil)
		})
	})

	t.Run("invalid method panics", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		assert.Panics(t, func() {
			r.Handle("/test", h, router.WithMethods[*router.Context]("INVALID"))
		})
	})

	t.Run("empty method set panics", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		assert.Panics(t, func() {
			r.Handle("/test", h, router.WithMethods[*router.Context]())
		})
	})
}

func TestRouterDuplicateRoutePanics(t *testing.T) {
	t.Parallel()

	h := func(ctx *router.Context) handler.Response { return nil }

	t.Run("same template same method", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		r.Get("/users", h)
		assert.Panics(t, func() {
			r.Get("/users", h)
		})
	})

	t.Run("equivalent templates differing only in parameter name", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		r.Get("/users/{id:int}", h)
		assert.Panics(t, func() {
			r.Get("/users/{userID:int}", h)
		})
	})

	t.Run("disjoint methods on same template are allowed", func(t *testing.T) {
		t.Parallel()
		r := router.NewRouter[*router.Context]()
		r.Get("/users", h)
		assert.NotPanics(t, func() {
			r.Post("/users", h)
		})
	})
}

func TestRouterDuplicateNamePanicsAtResolve(t *testing.T) {
	t.Parallel()

	h := func(ctx *router.Context) handler.Response { return nil }

	parent := router.NewRouter[*router.Context]()
	child := router.NewRouter[*router.Context]()

	parent.Get("/a", h, router.WithName[*router.Context]("dup"))
	child.Get("/b", h, router.WithName[*router.Context]("dup"))

	// The collision spans two routers, so it only surfaces once the
	// tree flattens.
	parent.Mount(child, "/api")

	assert.Panics(t, func() {
		parent.Resolve()
	})
}

func TestRouterMethodNotAllowedDefaultHandler(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	executed := false

	r.Get("/test", okHandler(&executed))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()

	router.NewMux(r).ServeHTTP(w, req)

	assert.False(t, executed)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET", w.Header().Get("Allow"))
}

func TestRouterNotFoundDefaultHandler(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()

	// No routes registered
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	router.NewMux(r).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterResolveCaching(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	h := func(ctx *router.Context) handler.Response { return nil }

	r.Get("/users", h)
	r.Get("/posts", h)

	first := r.Resolve()
	second := r.Resolve()

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	// Without intervening mutation the identical table is returned.
	assert.Same(t, first[0], second[0])
	assert.Same(t, first[1], second[1])

	r.Get("/comments", h)

	third := r.Resolve()
	assert.Len(t, third, 3)
}

func TestRouteMetadata(t *testing.T) {
	t.Parallel()

	r := router.NewRouter[*router.Context]()
	h := func(ctx *router.Context) handler.Response { return nil }

	r.Get("/users", h,
		router.WithName[*router.Context]("users.list"),
		router.WithMetadata[*router.Context]("auth", true),
		router.WithMetadata[*router.Context]("tier", "gold"),
	)

	resolved := r.Resolve()
	require.Len(t, resolved, 1)

	rr := resolved[0]
	assert.Equal(t, "users.list", rr.Name())
	assert.Equal(t, true, rr.Metadata()["auth"])
	assert.Equal(t, "gold", rr.Metadata()["tier"])
}
