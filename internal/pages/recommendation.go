// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package pages holds the page view models and the controllers that drive
// them: the recommendation page with its submit flow, and the analytics
// dashboard.
package pages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/metrics"
	"github.com/tomtom215/atelier/internal/models"
	"github.com/tomtom215/atelier/internal/storefront"
	"github.com/tomtom215/atelier/internal/upstream"
)

// RecommendError is the banner shown when a submit fails for any reason.
const RecommendError = "Failed to fetch recommendations. Please try again."

// errAborted stands in for the outcome when the fetch never returned,
// e.g. it panicked.
var errAborted = errors.New("recommendation request aborted")

// RecommendationPage is the per-session state of "My Atelier".
type RecommendationPage struct {
	Prompt    string            `json:"prompt"`
	Results   []models.Product  `json:"results"`
	Cards     []storefront.Card `json:"cards"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
	RequestID uint64            `json:"request_id"`
}

// Begin starts a submission. A blank prompt leaves the page untouched and
// returns ok=false. Otherwise the previous cards are unmounted, results and
// error are cleared, and the returned id identifies this submission.
func (p *RecommendationPage) Begin(prompt string, lock *storefront.ScrollLock) (id uint64, ok bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return 0, false
	}
	for i := range p.Cards {
		p.Cards[i].Unmount(lock)
	}
	p.Prompt = prompt
	p.Cards = nil
	p.Results = nil
	p.Error = ""
	p.Loading = true
	p.RequestID++
	return p.RequestID, true
}

// Resolve applies the outcome of submission id. It reports false and
// changes nothing when a newer submission has started since.
func (p *RecommendationPage) Resolve(id uint64, products []models.Product, err error) bool {
	if id != p.RequestID {
		return false
	}
	p.Loading = false
	if err != nil {
		p.Error = RecommendError
		p.Results = nil
		p.Cards = nil
		return true
	}
	p.Error = ""
	p.Results = products
	p.Cards = storefront.NewCards(products)
	return true
}

// Card returns the card at index i, or nil when out of range.
func (p *RecommendationPage) Card(i int) *storefront.Card {
	if i < 0 || i >= len(p.Cards) {
		return nil
	}
	return &p.Cards[i]
}

// Mutator applies fn to the caller's page state atomically. Implementations
// persist the result before returning.
type Mutator func(ctx context.Context, fn func(page *RecommendationPage, lock *storefront.ScrollLock)) error

// Recommendations drives the submit flow against the recommendation API.
type Recommendations struct {
	api upstream.API
}

// NewRecommendations creates the controller.
func NewRecommendations(api upstream.API) *Recommendations {
	return &Recommendations{api: api}
}

// Outcome reports what one Submit did.
type Outcome struct {
	// Started is false for a blank prompt.
	Started bool

	// Applied is false when a newer submission superseded this one.
	Applied bool

	// Err is the upstream failure, if any. The page shows RecommendError
	// for it; callers with a richer surface can inspect it.
	Err error
}

// Submit runs one submission for the session behind mutate. A blank prompt
// is a no-op. The outcome is applied even if the fetch panics, so Loading
// never sticks.
//
// The returned error is non-nil only when the session state could not be
// read or written; upstream failures are reported in Outcome.Err.
func (r *Recommendations) Submit(ctx context.Context, mutate Mutator, prompt string) (out Outcome, err error) {
	var id uint64
	if err := mutate(ctx, func(page *RecommendationPage, lock *storefront.ScrollLock) {
		id, out.Started = page.Begin(prompt, lock)
	}); err != nil {
		return out, err
	}
	if !out.Started {
		metrics.RecommendationSubmits.WithLabelValues("ignored").Inc()
		return out, nil
	}

	log := logging.Ctx(ctx)
	start := time.Now()
	products, fetchErr := []models.Product(nil), errAborted

	defer func() {
		// The client may have gone away; the page must still settle.
		if mErr := mutate(context.WithoutCancel(ctx), func(page *RecommendationPage, _ *storefront.ScrollLock) {
			out.Applied = page.Resolve(id, products, fetchErr)
		}); mErr != nil && err == nil {
			err = mErr
		}
		out.Err = fetchErr

		outcome := "success"
		switch {
		case !out.Applied:
			outcome = "stale"
			log.Debug().Uint64("request_id", id).Msg("Discarded superseded recommendation response")
		case fetchErr != nil:
			outcome = "error"
			log.Error().Err(fetchErr).Uint64("request_id", id).Msg("Recommendation request failed")
		default:
			log.Info().Uint64("request_id", id).Int("products", len(products)).
				Dur("duration", time.Since(start)).Msg("Recommendations loaded")
		}
		metrics.RecommendationSubmits.WithLabelValues(outcome).Inc()
	}()

	products, fetchErr = r.api.Recommend(ctx, strings.TrimSpace(prompt))
	return out, nil
}
