// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package middleware holds the HTTP middleware Atelier adds on top of chi's:
// request ids, Prometheus instrumentation and request logging.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/tomtom215/atelier/internal/logging"
)

// RequestIDHeader is read from trusted proxies and echoed on every response.
const RequestIDHeader = "X-Request-ID"

// validRequestID bounds what is accepted from the client so the id is safe
// to log and to forward upstream.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID reuses a well-formed incoming X-Request-ID or generates one,
// sets it on the response and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = logging.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
