// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/models"
)

// healthPingTimeout bounds the upstream probe so /health stays fast when
// the API hangs.
const healthPingTimeout = 2 * time.Second

// sessionCounter is implemented by session stores that can count their
// live sessions.
type sessionCounter interface {
	Count() (int, error)
}

// Health handles health check requests
//
// @Summary Get service health
// @Description Reports whether the recommendation API answers its health probe, the circuit breaker state, the session backend with its live session count, the analytics cache hit rate and uptime. The status is "degraded" when the upstream is unreachable or the breaker is open.
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	connected := h.client.Ping(ctx) == nil

	circuit := "disabled"
	if cs, ok := h.client.(circuitStater); ok {
		circuit = cs.State()
	}

	status := "healthy"
	if !connected || circuit == "open" {
		status = "degraded"
	}

	backend := h.config.Session.Backend
	if backend == "" {
		backend = "badger"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           h.version,
		UpstreamConnected: connected,
		CircuitState:      circuit,
		SessionBackend:    backend,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if sc, ok := h.sessions.(sessionCounter); ok {
		if n, err := sc.Count(); err == nil {
			health.ActiveSessions = &n
		} else {
			logging.CtxErr(r.Context(), err).Msg("Failed to count sessions")
		}
	}
	if rate, ok := h.analytics.CacheHitRate(); ok {
		health.CacheHitRate = &rate
	}

	respondSuccess(w, r, health, models.Metadata{})
}
