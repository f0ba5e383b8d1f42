// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/atelier/internal/metrics"
)

// Sweeper is implemented by session.Store.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// SessionSweeperService periodically drops expired sessions.
type SessionSweeperService struct {
	store    Sweeper
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewSessionSweeperService creates the sweeper. A non-positive interval
// becomes 10 minutes.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewSessionSweeperService(store Sweeper, interval time.Duration, logger zerolog.Logger) *SessionSweeperService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionSweeperService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "session-sweeper").Logger(),
		name:     "session-sweeper",
	}
}

// Serve implements suture.Service. Sweep errors are logged and the loop
// continues; only cancellation ends it.
func (s *SessionSweeperService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("session sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeperService) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.store.Sweep(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session sweep failed")
		return
	}
	if n > 0 {
		metrics.SessionsSwept.Add(float64(n))
	}
	s.logger.Debug().Int("removed", n).Dur("duration", time.Since(start)).Msg("session sweep complete")
}

// String names the service in supervisor events.
func (s *SessionSweeperService) String() string {
	return s.name
}
