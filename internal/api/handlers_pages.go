// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/session"
	"github.com/tomtom215/atelier/internal/storefront"
)

var errCardNotFound = errors.New("card not found")

// Index renders the recommendation page for the caller's session.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	st, err := h.loadState(r.Context())
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "Your session could not be loaded.", err)
		return
	}
	h.templates.Render(w, r, http.StatusOK, tmplIndex, newIndexView(st))
}

// Submit handles the prompt form and redirects back to the page. Upstream
// failures are shown on the page; only session failures are errors here.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "The form could not be read.", err)
		return
	}
	if _, err := h.recommendations.Submit(r.Context(), h.mutator(r.Context()), r.PostForm.Get("prompt")); err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "Your session could not be saved.", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OpenDetails opens the details modal of a card. A repeat of the same
// request is a no-op.
func (h *Handler) OpenDetails(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, func(c *storefront.Card, lock *storefront.ScrollLock) error {
		c.OpenDetails(lock)
		return nil
	})
}

// CloseDetails closes the details modal of a card.
func (h *Handler) CloseDetails(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, func(c *storefront.Card, lock *storefront.ScrollLock) error {
		c.CloseDetails(lock)
		return nil
	})
}

// NextImage advances the modal carousel.
func (h *Handler) NextImage(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, func(c *storefront.Card, _ *storefront.ScrollLock) error {
		c.Modal.Next()
		return nil
	})
}

// PrevImage moves the modal carousel back.
func (h *Handler) PrevImage(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, func(c *storefront.Card, _ *storefront.ScrollLock) error {
		c.Modal.Prev()
		return nil
	})
}

// SelectImage jumps to a thumbnail. Out-of-range indexes are ignored.
func (h *Handler) SelectImage(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "image"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid image index.", nil)
		return
	}
	h.cardAction(w, r, func(c *storefront.Card, _ *storefront.ScrollLock) error {
		c.Modal.Select(i)
		return nil
	})
}

// cardAction applies fn to the card named by the {index} URL parameter
// inside one session update, then redirects to the page.
func (h *Handler) cardAction(w http.ResponseWriter, r *http.Request, fn func(*storefront.Card, *storefront.ScrollLock) error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.renderError(w, r, http.StatusNotFound, "That product is no longer on the page.", nil)
		return
	}

	ctx := r.Context()
	_, err = h.sessions.Update(ctx, logging.SessionIDFromContext(ctx), func(st *session.State) error {
		card := st.Recommendation.Card(index)
		if card == nil {
			return errCardNotFound
		}
		return fn(card, &st.ScrollLock)
	})
	switch {
	case errors.Is(err, errCardNotFound):
		h.renderError(w, r, http.StatusNotFound, "That product is no longer on the page.", nil)
	case err != nil:
		h.renderError(w, r, http.StatusInternalServerError, "Your session could not be saved.", err)
	default:
		http.Redirect(w, r, "/#card-"+strconv.Itoa(index), http.StatusSeeOther)
	}
}

// AnalyticsDashboard renders the analytics page. Upstream failures render
// the page with a banner, not an error status.
func (h *Handler) AnalyticsDashboard(w http.ResponseWriter, r *http.Request) {
	page := h.analytics.Load(r.Context())
	h.templates.Render(w, r, http.StatusOK, tmplAnalytics, analyticsView{
		layoutData:    layoutData{Title: "Analytics", Active: navAnalytics},
		AnalyticsPage: page,
	})
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found.", nil)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		logging.CtxErr(r.Context(), err).Int("status", status).Msg("Request failed")
	}
	h.templates.Render(w, r, status, tmplError, errorView{
		layoutData: layoutData{Title: http.StatusText(status)},
		Status:     status,
		Message:    message,
	})
}
