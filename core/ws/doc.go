// Package ws routes websocket handshakes and manages session
// lifecycles. It reuses the HTTP router's compiled patterns for
// handshake-path matching, but a matched exchange feeds a Session state
// machine (CONNECTING → OPEN → CLOSING → CLOSED) instead of a single
// request/response call.
//
// # Basic Usage
//
//	import "github.com/nexios-labs/nexios-go/core/ws"
//
//	r := ws.NewRouter()
//	r.Handle("/rooms/{room}", func(ctx context.Context, s *ws.Session) error {
//		if err := s.Accept(); err != nil {
//			return err
//		}
//		for {
//			text, err := s.ReceiveText()
//			if err != nil {
//				return nil // peer closed
//			}
//			if err := s.SendText("echo: " + text); err != nil {
//				return nil
//			}
//		}
//	})
//
//	http.ListenAndServe(":8080", r)
//
// # Lifecycle
//
// A session starts CONNECTING. Accept completes the handshake
// (optionally negotiating a subprotocol and adding response headers)
// and moves it to OPEN; send and receive reject with a state error
// before that. A close from either side moves through CLOSING to the
// terminal CLOSED, after which every operation fails with
// ErrSessionClosed. A transport failure jumps straight to CLOSED with
// the abnormal-closure code. Closing always unblocks a goroutine
// suspended in Receive.
//
// # Streaming
//
// Messages returns a forward-only channel of inbound messages for
// range-style consumption:
//
//	for msg := range s.Messages(ctx) {
//		// ...
//	}
//
// # Broadcast
//
// Hub is an owned, mutex-guarded session registry for fan-out. The
// router never touches it; handlers join and leave explicitly:
//
//	hub := ws.NewHub()
//	r.Handle("/feed", func(ctx context.Context, s *ws.Session) error {
//		if err := s.Accept(); err != nil {
//			return err
//		}
//		hub.Join(s)
//		defer hub.Leave(s)
//		// ...
//	})
package ws
