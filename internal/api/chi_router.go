// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/atelier/internal/middleware"
)

// Router wires the handler into a chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mw may be nil for defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5, "text/html", "application/json"))

	r.NotFound(h.NotFound)

	// ========================
	// Storefront Pages
	// ========================
	// Form posts are rate limited; GETs are not, so the PRG redirect
	// after a submit never counts twice.
	r.Group(func(r chi.Router) {
		r.Use(PageSecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.Sessions)

		r.Get("/", h.Index)
		r.Get("/analytics", h.AnalyticsDashboard)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit(nil))

			r.Post("/", h.Submit)
			r.Route("/details/{index}", func(r chi.Router) {
				r.Post("/", h.OpenDetails)
				r.Post("/next", h.NextImage)
				r.Post("/prev", h.PrevImage)
				r.Post("/select/{image}", h.SelectImage)
				r.Post("/close", h.CloseDetails)
			})
		})
	})

	// ========================
	// JSON API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.CORS())
		r.Use(router.chiMiddleware.RateLimit(rateLimitedJSON))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(h.Sessions)

		r.Post("/recommend", h.Recommend)
		r.Get("/recommendations", h.Recommendations)
		r.Get("/analytics", h.Analytics)
	})

	// ========================
	// Operations
	// ========================
	r.With(APISecurityHeaders()).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
