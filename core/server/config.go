package server

import (
	"fmt"
	"time"

	"github.com/nexios-labs/nexios-go/core/config"
)

// Config carries the server's tunables. Fields map to SERVER_*
// environment variables for NewFromEnv.
type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes int `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`

	// TLS is enabled when both paths are set.
	TLSCertFile string `env:"SERVER_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"SERVER_TLS_KEY_FILE"`
}

// DefaultConfig mirrors the envDefault values without touching the
// environment.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// NewFromConfig builds a Server from cfg. Zero-valued timeouts keep
// their defaults; trailing options apply last and win.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	base := DefaultConfig()
	base.Addr = cfg.Addr
	if cfg.ReadTimeout > 0 {
		base.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		base.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.IdleTimeout > 0 {
		base.IdleTimeout = cfg.IdleTimeout
	}
	if cfg.ShutdownTimeout > 0 {
		base.ShutdownTimeout = cfg.ShutdownTimeout
	}
	if cfg.MaxHeaderBytes > 0 {
		base.MaxHeaderBytes = cfg.MaxHeaderBytes
	}

	s := New(base.Addr)
	s.cfg = base

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		tlsCfg, err := NewTLSConfig(WithTLSCertificate(cfg.TLSCertFile, cfg.TLSKeyFile))
		if err != nil {
			return nil, fmt.Errorf("server: tls from %s, %s: %w", cfg.TLSCertFile, cfg.TLSKeyFile, err)
		}
		s.tls = tlsCfg
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromEnv loads Config from the environment (and a .env file, via
// the config package) and builds a Server from it.
func NewFromEnv(opts ...Option) (*Server, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...)
}
