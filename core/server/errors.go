package server

import "errors"

var (
	// Configuration errors.
	ErrMissingAddress = errors.New("server address is required")

	// TLS option errors, wrapped by NewTLSConfig.
	ErrEmptyCertPath         = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert        = errors.New("failed to load certificate")
	ErrEmptyServerName       = errors.New("server name cannot be empty")
	ErrInvalidTLSVersion     = errors.New("invalid TLS version")
	ErrInvalidClientAuthType = errors.New("invalid client auth type")

	// Lifecycle errors.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
