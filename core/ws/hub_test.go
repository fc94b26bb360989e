package ws_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexios-labs/nexios-go/core/ws"
)

func TestHubJoinLeave(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	assert.Equal(t, 0, hub.Len())

	s1 := &ws.Session{}
	s2 := &ws.Session{}

	hub.Join(s1)
	hub.Join(s2)
	assert.Equal(t, 2, hub.Len())

	// Joining twice is idempotent.
	hub.Join(s1)
	assert.Equal(t, 2, hub.Len())

	hub.Leave(s1)
	assert.Equal(t, 1, hub.Len())

	// Leaving a session that never joined is a no-op.
	hub.Leave(&ws.Session{})
	assert.Equal(t, 1, hub.Len())
}

func TestHubBroadcastDelivery(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	joined := make(chan *ws.Session, 2)
	release := make(chan struct{})

	r := ws.NewRouter()
	r.Handle("/join", func(ctx context.Context, s *ws.Session) error {
		if err := s.Accept(); err != nil {
			return err
		}
		hub.Join(s)
		joined <- s
		<-release
		return s.Close(websocket.CloseNormalClosure, "")
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn1 := dial(t, srv, "/join")
	conn2 := dial(t, srv, "/join")

	for i := 0; i < 2; i++ {
		select {
		case <-joined:
		case <-time.After(2 * time.Second):
			t.Fatal("session did not join")
		}
	}
	require.Equal(t, 2, hub.Len())

	hub.BroadcastText("fanout")

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		typ, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, typ)
		assert.Equal(t, "fanout", string(data))
	}

	close(release)
}

func TestHubBroadcastDropsClosedSessions(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	sessions := make(chan *ws.Session, 2)
	release := make(chan struct{})

	r := ws.NewRouter()
	r.Handle("/join", func(ctx context.Context, s *ws.Session) error {
		if err := s.Accept(); err != nil {
			return err
		}
		hub.Join(s)
		sessions <- s
		<-release
		return nil
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn1 := dial(t, srv, "/join")
	conn2 := dial(t, srv, "/join")

	var first, second *ws.Session
	select {
	case first = <-sessions:
	case <-time.After(2 * time.Second):
		t.Fatal("first session did not join")
	}
	select {
	case second = <-sessions:
	case <-time.After(2 * time.Second):
		t.Fatal("second session did not join")
	}
	require.Equal(t, 2, hub.Len())

	// Close the first session server-side so broadcast sends to it fail.
	require.NoError(t, first.Close(websocket.CloseNormalClosure, "evicted"))

	require.Equal(t, ws.StateOpen, second.State())

	hub.Broadcast(ws.Message{Type: ws.TextMessage, Data: []byte("still here?")})
	assert.Equal(t, 1, hub.Len())

	// Exactly one client receives the broadcast; the evicted one sees a
	// close frame instead. Join order does not tell us which conn maps
	// to which session, so count outcomes.
	var delivered, closed int
	for _, conn := range []*websocket.Conn{conn1, conn2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		if err != nil {
			closed++
			continue
		}
		assert.Equal(t, "still here?", string(data))
		delivered++
	}
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, closed)

	close(release)
}

func TestHubBroadcastEmpty(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub()
	assert.NotPanics(t, func() {
		hub.BroadcastText("nobody home")
	})
}
