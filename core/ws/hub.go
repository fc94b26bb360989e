package ws

import "sync"

// Hub is an explicitly owned registry of live sessions for broadcast.
// It is passed by reference to whoever needs fan-out; the routing core
// itself never touches it. All methods are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]struct{})}
}

// Join registers a session for broadcast delivery.
func (h *Hub) Join(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

// Leave removes a session. Safe to call for sessions never joined.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
}

// Len returns the number of joined sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends msg to every joined OPEN session. Sessions that fail
// the send (closed or dead transport) are dropped from the hub rather
// than blocking delivery to the rest.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(msg); err != nil {
			h.Leave(s)
		}
	}
}

// BroadcastText sends a text message to every joined session.
func (h *Hub) BroadcastText(text string) {
	h.Broadcast(Message{Type: TextMessage, Data: []byte(text)})
}
