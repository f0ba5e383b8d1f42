// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

/*
Package main is the entry point for the Atelier storefront server.

Atelier is the Ikarus Digital Atelier storefront: a server-rendered frontend
that sends a shopper's free-text prompt to a remote recommendation API,
shows the returned products as cards with a details modal and image
carousel, and renders an analytics dashboard from the API's aggregate
counts. It holds no product data of its own.

# Application Architecture

	RootSupervisor ("atelier")
	├── DataSupervisor ("data-layer")
	│   └── Session sweeper (expired sessions, badger value-log GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (pages, /api/v1, /health, /metrics, /swagger)

Component initialization order:

 1. .env file (godotenv), if present
 2. Configuration: Koanf v2 with defaults, config file and environment
 3. Logging: zerolog with JSON/console output modes
 4. Upstream client: HTTP client with timeout, outbound rate limiter and circuit breaker
 5. Session store: badger (on disk or in memory) or a plain in-memory map
 6. Analytics cache
 7. HTTP handler and Chi router
 8. Supervisor tree: Suture v4 process supervision

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	API_BASE_URL=https://api.example.com   # Required, http or https
	API_TIMEOUT=20s
	API_RATE_LIMIT=10                      # outbound requests/second, 0 disables

	HTTP_PORT=8080
	LOG_LEVEL=info                         # trace, debug, info, warn, error
	LOG_FORMAT=json                        # json or console

	SESSION_BACKEND=badger                 # badger or memory
	SESSION_BADGER_PATH=/data/sessions     # empty runs badger in memory
	SESSION_TTL=2h
	SESSION_COOKIE_SECURE=true

	ANALYTICS_CACHE_TTL=5m                 # 0 disables
	CORS_ORIGINS=https://shop.example.com
	RATE_LIMIT_REQUESTS=100
	RATE_LIMIT_WINDOW=1m

CONFIG_PATH points at a YAML file; otherwise config.yaml in the working
directory and /etc/atelier/config.yaml are tried.

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up to
10 seconds, then the session store is closed.
*/
package main
