package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nexios-labs/nexios-go/core/handler"
	"github.com/nexios-labs/nexios-go/core/ws"
)

const defaultWSBufferSize = 1024

type wsConfig struct {
	upgrader     websocket.Upgrader
	acceptOpts   []ws.AcceptOption
	onConnect    func(context.Context, *ws.Session) error
	onDisconnect func(context.Context, *ws.Session)
	onError      func(context.Context, error)
}

// report forwards err to the configured error hook, if any.
func (c *wsConfig) report(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}

// WebSocketOption customizes the handshake and session lifecycle hooks.
type WebSocketOption func(*wsConfig)

// WithWSReadBuffer sets the read buffer size for the upgraded connection.
func WithWSReadBuffer(size int) WebSocketOption {
	return func(c *wsConfig) { c.upgrader.ReadBufferSize = size }
}

// WithWSWriteBuffer sets the write buffer size for the upgraded connection.
func WithWSWriteBuffer(size int) WebSocketOption {
	return func(c *wsConfig) { c.upgrader.WriteBufferSize = size }
}

// WithWSHandshakeTimeout bounds the upgrade handshake.
func WithWSHandshakeTimeout(timeout time.Duration) WebSocketOption {
	return func(c *wsConfig) { c.upgrader.HandshakeTimeout = timeout }
}

// WithWSOriginCheck installs a custom Origin check. Requests it rejects
// fail the handshake with 403.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) { c.upgrader.CheckOrigin = fn }
}

// WithWSAllowAnyOrigin disables the Origin check entirely.
func WithWSAllowAnyOrigin() WebSocketOption {
	return WithWSOriginCheck(func(r *http.Request) bool { return true })
}

// WithWSSubprotocols advertises the subprotocols the server accepts.
func WithWSSubprotocols(protocols ...string) WebSocketOption {
	return func(c *wsConfig) {
		c.acceptOpts = append(c.acceptOpts, ws.WithSubprotocols(protocols...))
	}
}

// WithWSUpgradeHeaders adds headers to the handshake response.
func WithWSUpgradeHeaders(header http.Header) WebSocketOption {
	return func(c *wsConfig) {
		c.acceptOpts = append(c.acceptOpts, ws.WithResponseHeader(header))
	}
}

// WithWSOnConnect runs after a successful upgrade, before the message
// handler. A non-nil error aborts the session.
func WithWSOnConnect(fn func(context.Context, *ws.Session) error) WebSocketOption {
	return func(c *wsConfig) { c.onConnect = fn }
}

// WithWSOnDisconnect runs once the session has ended.
func WithWSOnDisconnect(fn func(context.Context, *ws.Session)) WebSocketOption {
	return func(c *wsConfig) { c.onDisconnect = fn }
}

// WithWSErrorHandler receives handshake and session failures.
func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) { c.onError = fn }
}

// WebSocket upgrades the request to a websocket connection and runs the
// message handler with the open session. The handshake response is written
// during the upgrade, so a WebSocket response never reaches the error
// handler; handshake and session failures are reported through the
// optional WithWSErrorHandler hook instead.
//
// The session is closed with a normal-closure frame when the handler
// returns, unless the handler already closed it. For endpoints that need
// typed path parameters on the session, mount a ws.Router instead.
func WebSocket(messageHandler func(ctx context.Context, sess *ws.Session) error, opts ...WebSocketOption) handler.Response {
	cfg := &wsConfig{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  defaultWSBufferSize,
			WriteBufferSize: defaultWSBufferSize,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		sess := ws.NewSession(w, r, &cfg.upgrader, nil)

		if err := sess.Accept(cfg.acceptOpts...); err != nil {
			cfg.report(r.Context(), err)
			return nil
		}
		defer func() {
			if sess.IsConnected() {
				_ = sess.Close(websocket.CloseNormalClosure, "")
			}
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(r.Context(), sess)
			}
		}()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(r.Context(), sess); err != nil {
				cfg.report(r.Context(), err)
				return nil
			}
		}

		err := messageHandler(r.Context(), sess)
		if err != nil && !errors.Is(err, ws.ErrSessionClosed) {
			cfg.report(r.Context(), err)
		}
		return nil
	}
}

// WebSocketWithChannels bridges a session to a pair of message channels:
// inbound frames are forwarded to incoming, and messages read from
// outgoing are sent to the peer. The incoming channel is closed when the
// peer disconnects; closing the outgoing channel ends the session with a
// normal closure.
func WebSocketWithChannels(incoming chan<- ws.Message, outgoing <-chan ws.Message, opts ...WebSocketOption) handler.Response {
	return WebSocket(func(ctx context.Context, sess *ws.Session) error {
		go func() {
			defer close(incoming)
			for msg := range sess.Messages(ctx) {
				select {
				case incoming <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case msg, ok := <-outgoing:
				if !ok {
					return sess.Close(websocket.CloseNormalClosure, "")
				}
				if err := sess.Send(msg); err != nil {
					return err
				}
			}
		}
	}, opts...)
}

// EchoWebSocket sends every received message back to the peer. Useful for
// connectivity checks and tests.
func EchoWebSocket(opts ...WebSocketOption) handler.Response {
	return WebSocket(func(ctx context.Context, sess *ws.Session) error {
		for {
			msg, err := sess.Receive()
			if err != nil {
				return err
			}
			if err := sess.Send(msg); err != nil {
				return err
			}
		}
	}, opts...)
}
