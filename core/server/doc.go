// Package server runs the HTTP front of an application: it wraps
// http.Server with graceful shutdown, functional options, TLS presets,
// and environment-driven configuration.
//
// # Serving a mux
//
// The server takes any http.Handler; in this framework that is usually
// a router mux:
//
//	r := router.NewRouter[*router.Context]()
//	r.Get("/healthz", func(ctx *router.Context) handler.Response {
//		return response.String("ok")
//	})
//	mux := router.NewMux(r,
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//
//	srv := server.New(":8080",
//		server.WithLogger(logger.New(logger.WithJSONFormatter())),
//		server.WithShutdownTimeout(30*time.Second),
//	)
//	if err := srv.Start(ctx, mux); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
//
// Start blocks until the context ends or the listener fails. Stop
// drains in-flight requests within the shutdown timeout. Run wraps
// both into an errgroup-compatible closure:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//
// # Configuration from the environment
//
// Config maps SERVER_* variables through the config package, so the
// same .env loading and per-type caching applies:
//
//	srv, err := server.NewFromEnv(server.WithLogger(log))
//
// reads SERVER_ADDR, SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT,
// SERVER_IDLE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT, SERVER_MAX_HEADER_BYTES,
// and enables TLS when both SERVER_TLS_CERT_FILE and
// SERVER_TLS_KEY_FILE are set. NewFromConfig does the same from an
// already-populated Config value.
//
// # TLS
//
// Presets cover the common postures: DefaultTLSConfig (TLS 1.2+,
// ECDHE suites), IntermediateTLSConfig (wider curve set),
// ModernTLSConfig (TLS 1.3 only), and StrictTLSConfig (TLS 1.3 with
// session tickets and renegotiation disabled). NewTLSConfig layers
// options over the default and fails fast on bad input:
//
//	tlsCfg, err := server.NewTLSConfig(
//		server.WithTLSCertificate("cert.pem", "key.pem"),
//		server.WithTLSMinVersion(tls.VersionTLS13),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	srv := server.New(":8443", server.WithTLS(tlsCfg))
//
// # Defaults
//
// Read and write timeouts default to 15s, idle to 60s, shutdown to
// 30s, and header size to 1MB. The default logger discards output;
// pass WithLogger to see lifecycle events.
package server
