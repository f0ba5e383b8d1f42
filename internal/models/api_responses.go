// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package models

import "time"

// APIResponse wraps every JSON response served under /api/v1 and /health.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//	{"status":"error","data":null,"error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendRequest is the POST /api/v1/recommend body.
type RecommendRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank,max=500"`
}

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status            string   `json:"status"`
	Version           string   `json:"version"`
	UpstreamConnected bool     `json:"upstream_connected"`
	CircuitState      string   `json:"circuit_state"`
	SessionBackend    string   `json:"session_backend"`
	ActiveSessions    *int     `json:"active_sessions,omitempty"`
	CacheHitRate      *float64 `json:"analytics_cache_hit_rate,omitempty"`
	Uptime            float64  `json:"uptime"`
}
