// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, SMTP, S3) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the GymFusion API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PublicBaseURL is the externally reachable front-end origin, used to
	// build verification and password-reset links embedded in emails.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5173"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis), holds ephemeral verification/reset tokens.
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing secrets. Access and refresh tokens use distinct secrets
	// so one kind can never be replayed as the other. A missing secret is a
	// fatal startup error.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`

	// Token lifetimes.
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"240h"`

	// Outbound mail (SMTP). Sends are best-effort: a failure is logged and
	// never surfaced to the caller.
	SMTPHost   string `env:"SMTP_HOST"`
	SMTPPort   string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser   string `env:"SMTP_USER"`
	SMTPPass   string `env:"SMTP_PASSWORD"`
	SenderMail string `env:"SENDER_MAIL" envDefault:"no-reply@gymfusion.app"`

	// Object Storage (S3-compatible), stores user avatars.
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKeyID   string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Cross-Origin Resource Sharing: comma-separated list of additional
	// origins allowed in production (e.g. a staging front-end).
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedExtraOrigins returns the parsed EXTRA_ORIGINS list.
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
