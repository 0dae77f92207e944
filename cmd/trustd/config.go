package main

import (
	"fmt"

	"github.com/kbukum/trustauth/auth"
	"github.com/kbukum/trustauth/config"
	"github.com/kbukum/trustauth/database"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/server"
)

// AppConfig is the full trustd configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	auth.Config          `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Database  database.Config      `yaml:"database" mapstructure:"database"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Config.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return c.Telemetry.Validate()
}
