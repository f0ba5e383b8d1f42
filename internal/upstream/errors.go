// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network failures: refused connections, resets,
	// DNS errors and timeouts.
	ErrTransport = errors.New("upstream transport failure")

	// ErrMalformedResponse is returned when a 2xx body does not decode into
	// the expected shape.
	ErrMalformedResponse = errors.New("upstream response malformed")

	// ErrUnavailable is returned without contacting the upstream while the
	// circuit breaker is open or saturated in half-open state.
	ErrUnavailable = errors.New("upstream temporarily unavailable")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsClientError reports whether the upstream rejected the request itself
// (4xx other than 429), as opposed to failing to serve it.
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
