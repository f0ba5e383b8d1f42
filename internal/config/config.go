// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package config loads Atelier configuration from defaults, an optional YAML
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Session  SessionConfig  `koanf:"session"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the storefront HTTP listener.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig points at the remote recommendation/analytics API.
type APIConfig struct {
	// BaseURL is the API origin, e.g. https://api.example.com. Required.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds every upstream call.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the outbound request rate in requests per second.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// SessionConfig configures per-browser view state.
type SessionConfig struct {
	// Backend is "badger" or "memory".
	Backend string `koanf:"backend"`

	// BadgerPath is the on-disk directory for the badger backend. Empty runs
	// badger in memory.
	BadgerPath string `koanf:"badger_path"`

	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
	CookieName    string        `koanf:"cookie_name"`
	CookieSecure  bool          `koanf:"cookie_secure"`
}

// CacheConfig configures the analytics response cache.
type CacheConfig struct {
	// AnalyticsTTL is how long a successful analytics response is reused.
	// Zero disables caching.
	AnalyticsTTL time.Duration `koanf:"analytics_ttl"`
}

// SecurityConfig holds CORS and inbound rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the server runs with production settings.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
