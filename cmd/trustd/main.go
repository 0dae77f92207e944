// Command trustd serves token issuance, refresh and social login over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/trustauth/config"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/version"
)

const serviceName = "trustd"

func main() {
	configFile := flag.String("config", "", "path to config.yml (searched for when empty)")
	flag.Parse()

	if err := run(context.Background(), *configFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string) error {
	var cfg AppConfig
	opts := []config.LoaderOption{}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, cfg.Version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	app, _, err := build(ctx, &cfg, log)
	if err != nil {
		_ = shutdownTelemetry(ctx)
		return err
	}
	app.OnStop(shutdownTelemetry)
	return app.Run(ctx)
}
