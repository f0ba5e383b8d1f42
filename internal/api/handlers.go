// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/atelier/internal/config"
	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/pages"
	"github.com/tomtom215/atelier/internal/session"
	"github.com/tomtom215/atelier/internal/upstream"
)

// circuitStater is implemented by upstream clients that sit behind a
// circuit breaker.
type circuitStater interface {
	State() string
}

// Handler serves the storefront pages and the JSON API.
type Handler struct {
	config          *config.Config
	client          upstream.API
	sessions        session.Store
	recommendations *pages.Recommendations
	analytics       *pages.Analytics
	templates       *Templates
	startTime       time.Time
	version         string
}

// Deps bundles what NewHandler needs. Recommendations and Analytics default
// to controllers over Client.
type Deps struct {
	Config          *config.Config
	Client          upstream.API
	Sessions        session.Store
	Recommendations *pages.Recommendations
	Analytics       *pages.Analytics
	Version         string
}

// NewHandler creates the handler and parses the embedded templates.
func NewHandler(d Deps) (*Handler, error) {
	if d.Config == nil || d.Client == nil || d.Sessions == nil {
		return nil, errors.New("api: config, client and session store are required")
	}
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, err
	}
	if d.Recommendations == nil {
		d.Recommendations = pages.NewRecommendations(d.Client)
	}
	if d.Analytics == nil {
		d.Analytics = pages.NewAnalytics(d.Client, nil)
	}
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Handler{
		config:          d.Config,
		client:          d.Client,
		sessions:        d.Sessions,
		recommendations: d.Recommendations,
		analytics:       d.Analytics,
		templates:       tmpl,
		startTime:       time.Now(),
		version:         d.Version,
	}, nil
}

// Sessions attaches the browser's session id to the request context,
// issuing a new cookie when the request has none or a malformed one.
func (h *Handler) Sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := h.config.Session
		var id string
		if c, err := r.Cookie(cfg.CookieName); err == nil {
			if u, err := uuid.Parse(c.Value); err == nil {
				id = u.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := logging.ContextWithSessionID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loadState returns the caller's session, or an empty one if it has none
// yet. The empty state is not written back.
func (h *Handler) loadState(ctx context.Context) (*session.State, error) {
	id := logging.SessionIDFromContext(ctx)
	st, err := h.sessions.Load(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return &session.State{ID: id}, nil
	}
	return st, err
}

func (h *Handler) mutator(ctx context.Context) pages.Mutator {
	return session.PageMutator(h.sessions, logging.SessionIDFromContext(ctx))
}
