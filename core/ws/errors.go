package ws

import "errors"

var (
	// ErrSessionClosed is returned by every operation on a session that
	// has reached the CLOSED state. The state is terminal; the session
	// is not reusable.
	ErrSessionClosed = errors.New("websocket session closed")

	// ErrNotAccepted is returned by send/receive/close operations
	// attempted before Accept transitions the session to OPEN.
	ErrNotAccepted = errors.New("websocket session not accepted")

	// ErrAlreadyAccepted is returned by Accept on a session that has
	// already left the CONNECTING state.
	ErrAlreadyAccepted = errors.New("websocket session already accepted")

	// ErrHandshakeFailed is returned when the transport upgrade fails.
	ErrHandshakeFailed = errors.New("websocket handshake failed")

	// ErrHandshakeRejected is returned by Reject and reported to the
	// handler's caller when the handshake is declined before Accept.
	ErrHandshakeRejected = errors.New("websocket handshake rejected")
)
