// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/atelier/internal/models"
)

// Recommend submits a prompt for the caller's session and returns the
// resulting page state.
//
// @Summary Submit a design prompt
// @Description Sends the prompt to the recommendation service and returns the session's recommendation page. A newer submission from the same session supersedes this one.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body models.RecommendRequest true "Prompt"
// @Success 200 {object} models.APIResponse{data=pages.RecommendationPage} "Recommendations loaded"
// @Failure 400 {object} models.APIResponse "Invalid or blank prompt"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 502 {object} models.APIResponse "Recommendation service error"
// @Failure 503 {object} models.APIResponse "Recommendation service unavailable"
// @Router /recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON object with a prompt", err)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	out, err := h.recommendations.Submit(r.Context(), h.mutator(r.Context()), req.Prompt)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Session state could not be saved", err)
		return
	}
	if out.Applied && out.Err != nil {
		respondUpstreamError(w, r, out.Err)
		return
	}

	st, err := h.loadState(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Session state could not be loaded", err)
		return
	}
	respondSuccess(w, r, st.Recommendation, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// Recommendations returns the caller's current recommendation page state.
//
// @Summary Get the current recommendations
// @Description Returns the session's prompt, results, card and modal state. Loading is true while a submission is in flight.
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=pages.RecommendationPage} "Current page state"
// @Failure 500 {object} models.APIResponse "Session store error"
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	st, err := h.loadState(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Session state could not be loaded", err)
		return
	}
	respondSuccess(w, r, st.Recommendation, models.Metadata{})
}

// Analytics returns the dashboard view with zipped series, summary and
// chart bars.
//
// @Summary Get the analytics dashboard
// @Description Returns top brands and materials, summary counts and bar widths. Successful upstream responses are cached briefly.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=pages.AnalyticsPage} "Dashboard data"
// @Failure 502 {object} models.APIResponse "Analytics service error"
// @Failure 503 {object} models.APIResponse "Analytics service unavailable"
// @Router /analytics [get]
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, err := h.analytics.Fetch(r.Context())
	if err != nil {
		respondUpstreamError(w, r, err)
		return
	}
	respondSuccess(w, r, page, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Cached:      page.Cached,
	})
}
