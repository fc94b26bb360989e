package server

import (
	"crypto/tls"
	"log/slog"
	"time"
)

// Option configures a Server at construction time. Options run under
// the server's lock, so they are safe even when construction races
// with an early Start.
type Option func(*Server)

// WithTLS serves HTTPS with the given TLS configuration.
func WithTLS(config *tls.Config) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.tls = config
	}
}

// WithLogger sets the logger for lifecycle events. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger = logger
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight
// requests.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.ShutdownTimeout = timeout
	}
}

// WithReadTimeout bounds reading the full request, header and body.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.ReadTimeout = timeout
	}
}

// WithWriteTimeout bounds writing the response.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.WriteTimeout = timeout
	}
}

// WithIdleTimeout bounds how long keep-alive connections sit idle.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.IdleTimeout = timeout
	}
}

// WithMaxHeaderBytes caps request header size.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cfg.MaxHeaderBytes = n
	}
}
