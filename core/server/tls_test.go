package server_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexios-labs/nexios-go/core/server"
)

// writeTestCert generates a self-signed certificate and key pair under
// dir and returns their paths.
func writeTestCert(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	certFile = filepath.Join(dir, "cert.pem")
	certOut := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(certFile, certOut, 0o600))

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyFile = filepath.Join(dir, "key.pem")
	keyOut := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, os.WriteFile(keyFile, keyOut, 0o600))

	return certFile, keyFile
}

func TestTLSPresets(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		cfg := server.DefaultTLSConfig()
		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
		assert.NotEmpty(t, cfg.CipherSuites)
		assert.Contains(t, cfg.CurvePreferences, tls.X25519)
	})

	t.Run("modern requires 1.3", func(t *testing.T) {
		cfg := server.ModernTLSConfig()
		assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
		assert.Empty(t, cfg.CipherSuites)
	})

	t.Run("intermediate widens curves", func(t *testing.T) {
		cfg := server.IntermediateTLSConfig()
		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
		assert.Contains(t, cfg.CurvePreferences, tls.CurveP384)
	})

	t.Run("strict disables tickets and renegotiation", func(t *testing.T) {
		cfg := server.StrictTLSConfig()
		assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
		assert.True(t, cfg.SessionTicketsDisabled)
		assert.Equal(t, tls.RenegotiateNever, cfg.Renegotiation)
	})
}

func TestNewTLSConfig(t *testing.T) {
	t.Parallel()

	t.Run("no options yields default", func(t *testing.T) {
		cfg, err := server.NewTLSConfig()
		require.NoError(t, err)
		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	})

	t.Run("options layer over default", func(t *testing.T) {
		cfg, err := server.NewTLSConfig(
			server.WithTLSMinVersion(tls.VersionTLS13),
			server.WithTLSServerName("api.example.com"),
			server.WithTLSClientAuth(tls.RequestClientCert),
			server.WithTLSInsecureSkipVerify(),
		)
		require.NoError(t, err)
		assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
		assert.Equal(t, "api.example.com", cfg.ServerName)
		assert.Equal(t, tls.RequestClientCert, cfg.ClientAuth)
		assert.True(t, cfg.InsecureSkipVerify)
	})

	t.Run("stops at first failing option", func(t *testing.T) {
		cfg, err := server.NewTLSConfig(
			server.WithTLSMinVersion(0x0300),
			server.WithTLSServerName(""),
		)
		require.ErrorIs(t, err, server.ErrInvalidTLSVersion)
		assert.Nil(t, cfg)
	})
}

func TestWithTLSCertificate(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid pair", func(t *testing.T) {
		certFile, keyFile := writeTestCert(t, t.TempDir())

		cfg, err := server.NewTLSConfig(
			server.WithTLSCertificate(certFile, keyFile),
		)
		require.NoError(t, err)
		require.Len(t, cfg.Certificates, 1)
	})

	t.Run("missing files", func(t *testing.T) {
		cfg, err := server.NewTLSConfig(
			server.WithTLSCertificate("missing.pem", "missing.key"),
		)
		require.ErrorIs(t, err, server.ErrFailedLoadCert)
		assert.Nil(t, cfg)
	})

	t.Run("empty paths", func(t *testing.T) {
		for _, pair := range [][2]string{{"", "key.pem"}, {"cert.pem", ""}, {"", ""}} {
			cfg, err := server.NewTLSConfig(
				server.WithTLSCertificate(pair[0], pair[1]),
			)
			require.ErrorIs(t, err, server.ErrEmptyCertPath)
			assert.Nil(t, cfg)
		}
	})
}

func TestTLSOptionValidation(t *testing.T) {
	t.Parallel()

	t.Run("only 1.2 and 1.3 accepted as minimum", func(t *testing.T) {
		for _, version := range []uint16{tls.VersionTLS12, tls.VersionTLS13} {
			cfg, err := server.NewTLSConfig(server.WithTLSMinVersion(version))
			require.NoError(t, err)
			assert.Equal(t, version, cfg.MinVersion)
		}
		for _, version := range []uint16{0x0300, tls.VersionTLS10, tls.VersionTLS11, 0xffff} {
			cfg, err := server.NewTLSConfig(server.WithTLSMinVersion(version))
			require.ErrorIs(t, err, server.ErrInvalidTLSVersion)
			assert.Nil(t, cfg)
		}
	})

	t.Run("empty server name", func(t *testing.T) {
		cfg, err := server.NewTLSConfig(server.WithTLSServerName(""))
		require.ErrorIs(t, err, server.ErrEmptyServerName)
		assert.Nil(t, cfg)
	})

	t.Run("client auth range", func(t *testing.T) {
		for _, authType := range []tls.ClientAuthType{
			tls.NoClientCert,
			tls.RequestClientCert,
			tls.RequireAnyClientCert,
			tls.VerifyClientCertIfGiven,
			tls.RequireAndVerifyClientCert,
		} {
			cfg, err := server.NewTLSConfig(server.WithTLSClientAuth(authType))
			require.NoError(t, err)
			assert.Equal(t, authType, cfg.ClientAuth)
		}

		cfg, err := server.NewTLSConfig(server.WithTLSClientAuth(tls.ClientAuthType(99)))
		require.ErrorIs(t, err, server.ErrInvalidClientAuthType)
		assert.Nil(t, cfg)
	})
}
