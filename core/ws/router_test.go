package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexios-labs/nexios-go/core/router"
	"github.com/nexios-labs/nexios-go/core/ws"
)

func acceptEcho(ctx context.Context, s *ws.Session) error {
	if err := s.Accept(); err != nil {
		return err
	}
	for {
		text, err := s.ReceiveText()
		if err != nil {
			return err
		}
		if err := s.SendText(text); err != nil {
			return err
		}
	}
}

func TestSocketRouterMatch(t *testing.T) {
	t.Parallel()

	r := ws.NewRouter()
	r.Handle("/rooms/{room}", acceptEcho, ws.WithName("room"))
	r.Handle("/feed", acceptEcho)

	match, err := r.Match("/rooms/lobby")
	require.NoError(t, err)
	assert.Equal(t, "room", match.Route.Name())
	assert.Equal(t, "/rooms/{room}", match.Route.Pattern().Raw())
	assert.Equal(t, "lobby", match.Params["room"])

	match, err = r.Match("/feed")
	require.NoError(t, err)
	assert.Empty(t, match.Params)

	_, err = r.Match("/missing")
	assert.ErrorIs(t, err, router.ErrNotFound)
}

func TestSocketRouterNotFoundHandshake(t *testing.T) {
	t.Parallel()

	r := ws.NewRouter()
	r.Handle("/present", acceptEcho)

	srv := httptest.NewServer(r)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/absent"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocketRouterNeverAcceptedIsForbidden(t *testing.T) {
	t.Parallel()

	r := ws.NewRouter()
	r.Handle("/noop", func(ctx context.Context, s *ws.Session) error {
		return nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/noop"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSocketRouterTypedParams(t *testing.T) {
	t.Parallel()

	type captured struct {
		id  int64
		ref uuid.UUID
	}
	got := make(chan captured, 1)

	r := ws.NewRouter()
	r.Handle("/games/{id:int}/players/{ref:uuid}", func(ctx context.Context, s *ws.Session) error {
		if err := s.Accept(); err != nil {
			return err
		}
		id, _ := s.Param("id").(int64)
		ref, _ := s.Param("ref").(uuid.UUID)
		got <- captured{id: id, ref: ref}
		return s.Close(websocket.CloseNormalClosure, "")
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	ref := uuid.New()
	dial(t, srv, "/games/42/players/"+ref.String())

	select {
	case c := <-got:
		assert.Equal(t, int64(42), c.id)
		assert.Equal(t, ref, c.ref)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish")
	}

	// Type mismatch on the int segment is a structural miss.
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/games/forty/players/"+ref.String()), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocketRouterMiddlewareOrder(t *testing.T) {
	t.Parallel()

	order := make(chan []string, 1)
	var trace []string

	named := func(label string) ws.Middleware {
		return func(next ws.HandlerFunc) ws.HandlerFunc {
			return func(ctx context.Context, s *ws.Session) error {
				trace = append(trace, label)
				return next(ctx, s)
			}
		}
	}

	r := ws.NewRouter()
	r.Use(named("router"))
	r.Handle("/traced", func(ctx context.Context, s *ws.Session) error {
		trace = append(trace, "handler")
		order <- trace
		return s.Reject(http.StatusForbidden)
	}, ws.WithRouteMiddleware(named("route1"), named("route2")))

	srv := httptest.NewServer(r)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/traced"), nil)
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case got := <-order:
		assert.Equal(t, []string{"router", "route1", "route2", "handler"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish")
	}
}

func TestSocketRouterMount(t *testing.T) {
	t.Parallel()

	child := ws.NewRouter(ws.WithPrefix("/chat"))
	child.Handle("/rooms/{room}", acceptEcho)

	parent := ws.NewRouter()
	parent.Handle("/status", acceptEcho)
	parent.Mount(child)

	match, err := parent.Match("/chat/rooms/dev")
	require.NoError(t, err)
	assert.Equal(t, "/chat/rooms/{room}", match.Route.Pattern().Raw())
	assert.Equal(t, "dev", match.Params["room"])

	// The child keeps its own unprefixed table.
	_, err = child.Match("/rooms/dev")
	require.NoError(t, err)

	_, err = parent.Match("/rooms/dev")
	assert.ErrorIs(t, err, router.ErrNotFound)
}

func TestSocketRouterMountOverridePrefix(t *testing.T) {
	t.Parallel()

	child := ws.NewRouter(ws.WithPrefix("/v1"))
	child.Handle("/feed", acceptEcho)

	parent := ws.NewRouter()
	parent.Mount(child, "/v2")

	_, err := parent.Match("/v2/feed")
	require.NoError(t, err)

	_, err = parent.Match("/v1/feed")
	assert.ErrorIs(t, err, router.ErrNotFound)
}

func TestSocketRouterParentMiddlewareAppliesToMounted(t *testing.T) {
	t.Parallel()

	order := make(chan []string, 1)
	var trace []string

	named := func(label string) ws.Middleware {
		return func(next ws.HandlerFunc) ws.HandlerFunc {
			return func(ctx context.Context, s *ws.Session) error {
				trace = append(trace, label)
				return next(ctx, s)
			}
		}
	}

	child := ws.NewRouter(ws.WithPrefix("/inner"))
	child.Use(named("child"))
	child.Handle("/endpoint", func(ctx context.Context, s *ws.Session) error {
		trace = append(trace, "handler")
		order <- trace
		return s.Reject(http.StatusForbidden)
	})

	parent := ws.NewRouter()
	parent.Use(named("parent"))
	parent.Mount(child)

	srv := httptest.NewServer(parent)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/inner/endpoint"), nil)
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case got := <-order:
		assert.Equal(t, []string{"parent", "child", "handler"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish")
	}
}

func TestSocketRouterRegistrationPanics(t *testing.T) {
	t.Parallel()

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		assert.Panics(t, func() {
			r.Handle("/x", nil)
		})
	})

	t.Run("invalid template", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		assert.Panics(t, func() {
			r.Handle("no-leading-slash", acceptEcho)
		})
	})

	t.Run("unknown converter", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		assert.Panics(t, func() {
			r.Handle("/items/{id:number}", acceptEcho)
		})
	})

	t.Run("duplicate template", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		r.Handle("/dup", acceptEcho)
		assert.Panics(t, func() {
			r.Handle("/dup", acceptEcho)
		})
	})

	t.Run("equivalent signature", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		r.Handle("/rooms/{room}", acceptEcho)
		assert.Panics(t, func() {
			r.Handle("/rooms/{name}", acceptEcho)
		})
	})

	t.Run("nil mount", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		assert.Panics(t, func() {
			r.Mount(nil)
		})
	})

	t.Run("self mount", func(t *testing.T) {
		t.Parallel()
		r := ws.NewRouter()
		assert.Panics(t, func() {
			r.Mount(r, "/loop")
		})
	})
}

func TestSocketRouterDuplicateSignatureAcrossMountPanics(t *testing.T) {
	t.Parallel()

	child := ws.NewRouter(ws.WithPrefix("/api"))
	child.Handle("/items/{name}", acceptEcho)

	parent := ws.NewRouter()
	parent.Handle("/api/items/{id}", acceptEcho)
	parent.Mount(child)

	assert.Panics(t, func() {
		parent.Resolve()
	})
}

func TestSocketRouterLateRegistrationVisible(t *testing.T) {
	t.Parallel()

	r := ws.NewRouter()
	r.Handle("/first", acceptEcho)

	_, err := r.Match("/second")
	require.ErrorIs(t, err, router.ErrNotFound)

	r.Handle("/second", acceptEcho)

	_, err = r.Match("/second")
	require.NoError(t, err)
}

func TestSocketRouterCustomConverters(t *testing.T) {
	t.Parallel()

	convs := router.NewConverters()
	require.NoError(t, convs.Register("slug", "[a-z][a-z0-9-]*", func(raw string) (any, error) {
		return raw, nil
	}))

	r := ws.NewRouter(ws.WithConverters(convs))
	r.Handle("/topics/{topic:slug}", acceptEcho)

	match, err := r.Match("/topics/go-news")
	require.NoError(t, err)
	assert.Equal(t, "go-news", match.Params["topic"])

	_, err = r.Match("/topics/Go-News")
	assert.ErrorIs(t, err, router.ErrNotFound)
}
