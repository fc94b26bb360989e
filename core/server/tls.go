package server

import (
	"crypto/tls"
	"fmt"
)

// ecdheSuites are the TLS 1.2 cipher suites with forward secrecy. Go
// picks TLS 1.3 suites itself.
var ecdheSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
}

// DefaultTLSConfig allows TLS 1.2 and newer with ECDHE-only cipher
// suites, matching Mozilla's modern-leaning baseline for public
// endpoints.
func DefaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS12,
		CipherSuites:     ecdheSuites,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}
}

// ModernTLSConfig requires TLS 1.3. Use for internal services where
// all clients are known.
func ModernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}
}

// IntermediateTLSConfig allows TLS 1.2 with a wider curve set for
// older clients.
func IntermediateTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS12,
		CipherSuites:     ecdheSuites,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256, tls.CurveP384},
	}
}

// StrictTLSConfig requires TLS 1.3 and disables session tickets and
// renegotiation for high-security environments.
func StrictTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:             tls.VersionTLS13,
		CurvePreferences:       []tls.CurveID{tls.X25519, tls.CurveP256},
		SessionTicketsDisabled: true,
		Renegotiation:          tls.RenegotiateNever,
	}
}

// TLSConfigOption mutates a TLS configuration under construction.
// Options report failures instead of swallowing them, so a bad
// certificate path aborts startup rather than surfacing as a handshake
// failure later.
type TLSConfigOption func(*tls.Config) error

// WithTLSCertificate loads a certificate and key pair from disk.
func WithTLSCertificate(certFile, keyFile string) TLSConfigOption {
	return func(cfg *tls.Config) error {
		if certFile == "" || keyFile == "" {
			return ErrEmptyCertPath
		}
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFailedLoadCert, err)
		}
		cfg.Certificates = append(cfg.Certificates, cert)
		return nil
	}
}

// WithTLSClientAuth enables client certificate authentication.
func WithTLSClientAuth(authType tls.ClientAuthType) TLSConfigOption {
	return func(cfg *tls.Config) error {
		if authType < tls.NoClientCert || authType > tls.RequireAndVerifyClientCert {
			return fmt.Errorf("%w: %d", ErrInvalidClientAuthType, authType)
		}
		cfg.ClientAuth = authType
		return nil
	}
}

// WithTLSMinVersion raises or lowers the minimum protocol version.
// Only TLS 1.2 and 1.3 are accepted.
func WithTLSMinVersion(version uint16) TLSConfigOption {
	return func(cfg *tls.Config) error {
		if version != tls.VersionTLS12 && version != tls.VersionTLS13 {
			return fmt.Errorf("%w: %#x", ErrInvalidTLSVersion, version)
		}
		cfg.MinVersion = version
		return nil
	}
}

// WithTLSServerName sets the name clients must present via SNI.
func WithTLSServerName(serverName string) TLSConfigOption {
	return func(cfg *tls.Config) error {
		if serverName == "" {
			return ErrEmptyServerName
		}
		cfg.ServerName = serverName
		return nil
	}
}

// WithTLSInsecureSkipVerify disables certificate verification. Test
// use only.
func WithTLSInsecureSkipVerify() TLSConfigOption {
	return func(cfg *tls.Config) error {
		cfg.InsecureSkipVerify = true
		return nil
	}
}

// NewTLSConfig applies options on top of DefaultTLSConfig, stopping at
// the first failure.
func NewTLSConfig(opts ...TLSConfigOption) (*tls.Config, error) {
	cfg := DefaultTLSConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
