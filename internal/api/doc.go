// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

/*
Package api is Atelier's HTTP surface: the server-rendered storefront pages,
the JSON API under /api/v1, health, metrics and the Swagger UI.

# Pages

The recommendation page keeps its state in the session store, keyed by the
atelier_session cookie. Every mutation is a form POST followed by a 303
redirect back to the page:

	GET  /                              render "My Atelier"
	POST /                              submit a prompt
	POST /details/{index}               open a card's details modal
	POST /details/{index}/next          carousel forward
	POST /details/{index}/prev          carousel back
	POST /details/{index}/select/{i}    jump to a thumbnail
	POST /details/{index}/close         close the modal (backdrop or button)
	GET  /analytics                     analytics dashboard

Upstream failures never produce an error status on these pages; the page is
rendered with a banner instead.

# JSON API

Responses use the models.APIResponse envelope. Error codes:

	VALIDATION_ERROR         400  blank or oversized prompt
	INVALID_REQUEST          400  body is not the expected JSON
	RATE_LIMIT_EXCEEDED      429
	EXTERNAL_SERVICE_ERROR   502  upstream transport, status or shape error
	SERVICE_UNAVAILABLE      503  circuit breaker open
	INTERNAL_ERROR           500  session store failure
*/
package api
