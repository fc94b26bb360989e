package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State is the lifecycle phase of a Session.
type State int32

const (
	StateConnecting State = iota // handshake matched, Accept not yet called
	StateOpen                    // bidirectional exchange
	StateClosing                 // close initiated, close frame in flight
	StateClosed                  // terminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// MessageType distinguishes text from binary payloads. Values mirror
// the websocket frame opcodes.
type MessageType int

const (
	TextMessage   MessageType = websocket.TextMessage
	BinaryMessage MessageType = websocket.BinaryMessage
)

// Message is one discrete websocket payload.
type Message struct {
	Type MessageType
	Data []byte
}

// closeWriteTimeout bounds the close-frame write so Close never hangs
// on a dead peer.
const closeWriteTimeout = 5 * time.Second

// Session is a persistent-connection exchange following the
// CONNECTING → OPEN → CLOSING → CLOSED state machine. It is created by
// the socket router when a handshake path matches and destroyed on the
// transition to CLOSED.
//
// Sending and receiving are independent directions: one goroutine may
// block in Receive while another sends. Concurrent senders are
// serialized; messages are delivered in send order. Closing the session
// from either side unblocks a pending Receive with ErrSessionClosed.
type Session struct {
	mu      sync.Mutex // guards state, conn, close metadata
	writeMu sync.Mutex // serializes outbound frames

	state State
	conn  *websocket.Conn

	w        http.ResponseWriter
	r        *http.Request
	upgrader *websocket.Upgrader
	params   map[string]any

	closeCode   int
	closeReason string
}

func newSession(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, params map[string]any) *Session {
	return &Session{
		state:    StateConnecting,
		w:        w,
		r:        r,
		upgrader: upgrader,
		params:   params,
	}
}

// NewSession builds a pending session for a handshake request outside the
// socket router, for embedding websocket endpoints in plain HTTP handlers.
// The session starts in StateConnecting; call Accept or Reject to settle
// the handshake. Params may be nil when the caller has no path parameters.
func NewSession(w http.ResponseWriter, r *http.Request, upgrader *websocket.Upgrader, params map[string]any) *Session {
	return newSession(w, r, upgrader, params)
}

// AcceptOption customizes the handshake response.
type AcceptOption func(*acceptConfig)

type acceptConfig struct {
	subprotocols []string
	header       http.Header
}

// WithSubprotocols offers subprotocols for negotiation; the first one
// the client also offered becomes the session's negotiated subprotocol.
func WithSubprotocols(protocols ...string) AcceptOption {
	return func(c *acceptConfig) {
		c.subprotocols = protocols
	}
}

// WithResponseHeader adds extra headers to the handshake response.
func WithResponseHeader(header http.Header) AcceptOption {
	return func(c *acceptConfig) {
		c.header = header
	}
}

// Accept completes the handshake and transitions CONNECTING → OPEN.
// No message may be sent or received before Accept returns. Accepting
// twice fails with ErrAlreadyAccepted; a failed transport upgrade moves
// the session straight to CLOSED.
func (s *Session) Accept(opts ...AcceptOption) error {
	cfg := &acceptConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateConnecting:
	case StateClosed:
		return ErrSessionClosed
	default:
		return ErrAlreadyAccepted
	}

	up := *s.upgrader // shallow copy so subprotocols stay per-session
	if len(cfg.subprotocols) > 0 {
		up.Subprotocols = cfg.subprotocols
	}

	conn, err := up.Upgrade(s.w, s.r, cfg.header)
	if err != nil {
		s.state = StateClosed
		s.closeCode = websocket.CloseAbnormalClosure
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}

	s.conn = conn
	s.state = StateOpen
	return nil
}

// Reject declines the handshake with the given HTTP status and moves
// the session to CLOSED. Only valid while CONNECTING.
func (s *Session) Reject(status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnecting {
		if s.state == StateClosed {
			return ErrSessionClosed
		}
		return ErrAlreadyAccepted
	}

	http.Error(s.w, http.StatusText(status), status)
	s.state = StateClosed
	s.closeCode = websocket.CloseAbnormalClosure
	return fmt.Errorf("%w: %d", ErrHandshakeRejected, status)
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsConnected reports whether the session is OPEN. CONNECTING, CLOSING,
// and CLOSED all report false.
func (s *Session) IsConnected() bool {
	return s.State() == StateOpen
}

// Subprotocol returns the negotiated subprotocol, or "" when none was
// agreed on.
func (s *Session) Subprotocol() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ""
	}
	return s.conn.Subprotocol()
}

// Request returns the handshake request.
func (s *Session) Request() *http.Request { return s.r }

// Param returns the typed path parameter bound by the handshake-path
// match, or nil when absent.
func (s *Session) Param(key string) any {
	if s.params == nil {
		return nil
	}
	return s.params[key]
}

// CloseCode returns the close code once the session has left OPEN.
func (s *Session) CloseCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed && s.state != StateClosing {
		return 0, false
	}
	return s.closeCode, true
}

// CloseReason returns the human-readable close reason, if any.
func (s *Session) CloseReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeReason
}

// checkOpen returns the connection if the session is OPEN, or the
// state-appropriate error.
func (s *Session) checkOpen() (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateOpen:
		return s.conn, nil
	case StateConnecting:
		return nil, ErrNotAccepted
	default:
		return nil, ErrSessionClosed
	}
}

// transportClosed records an abrupt transport-level closure: the
// session jumps to CLOSED with the peer's close code when one was
// received, or the abnormal-closure code otherwise.
func (s *Session) transportClosed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateClosed:
		return
	case StateClosing:
		// A local Close is in progress and has already recorded its code
		// and reason; this path is just its conn.Close unblocking a
		// pending read.
		s.state = StateClosed
		if s.conn != nil {
			_ = s.conn.Close()
		}
		return
	}

	code := websocket.CloseAbnormalClosure
	reason := ""
	if ce, ok := err.(*websocket.CloseError); ok {
		code = ce.Code
		reason = ce.Text
	}

	s.state = StateClosed
	s.closeCode = code
	s.closeReason = reason
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// Send writes one discrete message. Messages from concurrent senders
// are serialized and delivered in send order.
func (s *Session) Send(msg Message) error {
	conn, err := s.checkOpen()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	err = conn.WriteMessage(int(msg.Type), msg.Data)
	s.writeMu.Unlock()

	if err != nil {
		s.transportClosed(err)
		return fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}
	return nil
}

// SendText sends a text message.
func (s *Session) SendText(text string) error {
	return s.Send(Message{Type: TextMessage, Data: []byte(text)})
}

// SendBytes sends a binary message.
func (s *Session) SendBytes(data []byte) error {
	return s.Send(Message{Type: BinaryMessage, Data: data})
}

// SendJSON sends v serialized as a JSON text message.
func (s *Session) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Send(Message{Type: TextMessage, Data: data})
}

// Receive blocks until the peer delivers the next message. Messages are
// yielded in arrival order. When the peer closes or the transport
// fails, the session transitions to CLOSED and Receive returns an error
// wrapping ErrSessionClosed.
func (s *Session) Receive() (Message, error) {
	conn, err := s.checkOpen()
	if err != nil {
		return Message{}, err
	}

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			s.transportClosed(err)
			return Message{}, fmt.Errorf("%w: %v", ErrSessionClosed, err)
		}
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}
		return Message{Type: MessageType(typ), Data: data}, nil
	}
}

// ReceiveText receives the next message as text.
func (s *Session) ReceiveText() (string, error) {
	msg, err := s.Receive()
	if err != nil {
		return "", err
	}
	return string(msg.Data), nil
}

// ReceiveBytes receives the next message's raw payload.
func (s *Session) ReceiveBytes() ([]byte, error) {
	msg, err := s.Receive()
	if err != nil {
		return nil, err
	}
	return msg.Data, nil
}

// ReceiveJSON receives the next message and unmarshals it into v.
func (s *Session) ReceiveJSON(v any) error {
	msg, err := s.Receive()
	if err != nil {
		return err
	}
	return json.Unmarshal(msg.Data, v)
}

// Messages returns a forward-only, single-pass stream of inbound
// messages. The channel closes when the peer closes or the transport
// fails. Canceling ctx stops the stream at the next message boundary:
// the reader goroutine stays parked in Receive until a frame arrives
// or the session closes. The stream is not rewindable; a second call
// continues from wherever the first stopped consuming.
func (s *Session) Messages(ctx context.Context) <-chan Message {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			msg, err := s.Receive()
			if err != nil {
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close initiates the OPEN → CLOSING → CLOSED transition: it sends a
// close frame with the given code and optional reason, then tears down
// the transport, unblocking any goroutine suspended in Receive. Closing
// a session that never reached OPEN fails with ErrNotAccepted; closing
// twice fails with ErrSessionClosed.
func (s *Session) Close(code int, reason string) error {
	s.mu.Lock()
	switch s.state {
	case StateOpen:
	case StateConnecting:
		s.mu.Unlock()
		return ErrNotAccepted
	default:
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.state = StateClosing
	s.closeCode = code
	s.closeReason = reason
	conn := s.conn
	s.mu.Unlock()

	s.writeMu.Lock()
	err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(closeWriteTimeout),
	)
	s.writeMu.Unlock()

	// Tearing down the transport unblocks pending reads.
	closeErr := conn.Close()

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	if err != nil && err != websocket.ErrCloseSent {
		return fmt.Errorf("close frame: %w", err)
	}
	return closeErr
}
