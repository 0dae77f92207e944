package main

import (
	"context"
	"fmt"

	"github.com/kbukum/trustauth/account"
	"github.com/kbukum/trustauth/auth/filter"
	"github.com/kbukum/trustauth/auth/password"
	"github.com/kbukum/trustauth/auth/token"
	"github.com/kbukum/trustauth/bootstrap"
	"github.com/kbukum/trustauth/clock"
	"github.com/kbukum/trustauth/database"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal/gormstore"
	"github.com/kbukum/trustauth/provider"
	"github.com/kbukum/trustauth/provider/local"
	"github.com/kbukum/trustauth/provider/social"
	"github.com/kbukum/trustauth/server"
	"github.com/kbukum/trustauth/server/endpoint"
)

// build wires the service from cfg. The database is opened here; the HTTP
// server is registered on the returned App and starts with it.
func build(ctx context.Context, cfg *AppConfig, log *logger.Logger) (*bootstrap.App, *server.Server, error) {
	metrics, err := observability.NewAuthMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := gormstore.AutoMigrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	users := gormstore.NewPrincipalStore(db)
	links := gormstore.NewLinkStore(db)

	clk := clock.System()
	tokens, err := token.NewService(cfg.JWT, clk,
		token.WithLogger(log),
		token.WithMetrics(metrics),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	hasher := password.NewHasher(cfg.Password)

	socials, err := cfg.Social.Configs()
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	instrument := provider.Chain(
		provider.WithTracing(),
		provider.WithMetrics(metrics),
		provider.WithLogging(log),
	)
	registry := provider.NewRegistry()
	registry.Register(local.Name, instrument(local.New(users, hasher)))
	for _, sc := range socials {
		registry.Register(sc.Name, instrument(social.New(sc, links, users,
			social.WithClock(clk),
			social.WithRetry(cfg.Social.Retry),
			social.WithBreaker(cfg.Social.Breaker),
		)))
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.Engine()
	engine.GET("/health", endpoint.Health(cfg.Name, cfg.Version, db))
	engine.Use(filter.New(tokens, users,
		filter.WithLogger(log),
		filter.WithMetrics(metrics),
	).Gin())

	svc := account.NewService(users, registry, tokens, hasher,
		account.WithClock(clk),
		account.WithLogger(log),
	)
	account.NewHandler(svc).Register(engine)

	log.Info("Authentication configured", logger.Fields(
		"auth", cfg.Config.Describe(),
		"providers", registry.Names(),
		"database", cfg.Database.DSN,
	))

	app := bootstrap.New(cfg.Name, cfg.Version, log)
	app.Register(
		bootstrap.Func{
			ID:     "database",
			StopFn: func(context.Context) error { return db.Close() },
		},
		bootstrap.Func{
			ID:      "http",
			StartFn: srv.Start,
			StopFn:  srv.Stop,
		},
	)
	return app, srv, nil
}
