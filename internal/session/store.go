// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

// Package session keeps per-browser view state: the recommendation page,
// its open cards and modals, and the scroll lock they share. State expires
// after a TTL of inactivity and is never treated as product data.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/atelier/internal/config"
	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/pages"
	"github.com/tomtom215/atelier/internal/storefront"
)

// Backend names accepted by New.
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

var (
	// ErrNotFound is returned by Load for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidID is returned for empty session ids.
	ErrInvalidID = errors.New("invalid session id")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session store closed")
)

// State is everything the storefront remembers about one browser.
type State struct {
	ID             string                   `json:"id"`
	ScrollLock     storefront.ScrollLock    `json:"scroll_lock"`
	Recommendation pages.RecommendationPage `json:"recommendation"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// Store persists State by session id.
type Store interface {
	// Load returns a copy of the state, or ErrNotFound.
	Load(ctx context.Context, id string) (*State, error)

	// Update runs fn on the current state (a fresh one if absent) and saves
	// the result. Concurrent updates of one session are serialised. If fn
	// returns an error nothing is saved.
	Update(ctx context.Context, id string, fn func(*State) error) (*State, error)

	Delete(ctx context.Context, id string) error

	// Sweep drops expired sessions and reclaims space. It returns how many
	// sessions were removed, when the backend can tell.
	Sweep(ctx context.Context) (int, error)

	Close() error
}

// New opens the backend named by cfg.Backend.
func New(cfg *config.SessionConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(cfg.TTL), nil
	case BackendBadger, "":
		s, err := OpenBadgerStore(cfg.BadgerPath, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("open badger session store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// PageMutator adapts Store.Update for one session to the page controllers.
func PageMutator(store Store, id string) pages.Mutator {
	return func(ctx context.Context, fn func(*pages.RecommendationPage, *storefront.ScrollLock)) error {
		_, err := store.Update(ctx, id, func(s *State) error {
			fn(&s.Recommendation, &s.ScrollLock)
			return nil
		})
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Session update failed")
		}
		return err
	}
}

func newState(id string) *State {
	return &State{ID: id}
}
