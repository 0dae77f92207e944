// Package server runs the HTTP API: a Gin engine behind a net/http
// middleware stack, served over HTTP/1.1 and h2c.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware()
//	srv.Engine().GET("/health", endpoint.Health("trustd", version, db))
//	if err := srv.Start(ctx); err != nil { ... }
//	defer srv.Stop(context.Background())
//
// Handlers answer with RespondOK / RespondWithError, which write the
// {"data": ...} and {"error": {...}} envelopes.
package server
