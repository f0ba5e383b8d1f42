// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/atelier/internal/logging"
	"github.com/tomtom215/atelier/internal/metrics"
)

const (
	keyPrefix = "session:"

	// maxConflictRetries bounds optimistic retries of one Update.
	maxConflictRetries = 100

	gcDiscardRatio = 0.5
)

// BadgerStore keeps sessions in badger. Entries carry the store TTL, so
// badger itself expires idle sessions; Sweep only reclaims value-log space.
type BadgerStore struct {
	db       *badger.DB
	ttl      time.Duration
	inMemory bool
	closed   atomic.Bool
}

// OpenBadgerStore opens badger at path, or in memory when path is empty.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("path", path).Bool("in_memory", path == "").Dur("ttl", ttl).
		Msg("Session store opened")
	return &BadgerStore{db: db, ttl: ttl, inMemory: path == ""}, nil
}

func sessionKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// Load implements Store.
func (s *BadgerStore) Load(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var st State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &st)
		})
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Update implements Store. Each attempt runs in its own transaction; a
// commit that loses a race with another writer of the same key fails with
// badger.ErrConflict and is retried on fresh data.
func (s *BadgerStore) Update(ctx context.Context, id string, fn func(*State) error) (*State, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var result *State
		err := s.db.Update(func(txn *badger.Txn) error {
			st, err := s.read(txn, id)
			if err != nil {
				return err
			}
			if err := fn(st); err != nil {
				return err
			}
			st.UpdatedAt = time.Now().UTC()

			data, err := json.Marshal(st)
			if err != nil {
				return fmt.Errorf("marshal session: %w", err)
			}
			e := badger.NewEntry(sessionKey(id), data)
			if s.ttl > 0 {
				e = e.WithTTL(s.ttl)
			}
			if err := txn.SetEntry(e); err != nil {
				return fmt.Errorf("set session: %w", err)
			}
			result = st
			return nil
		})

		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			metrics.SessionUpdateConflicts.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (s *BadgerStore) read(txn *badger.Txn, id string) (*State, error) {
	item, err := txn.Get(sessionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return newState(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	st := newState(id)
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, st)
	}); err != nil {
		logging.Warn().Err(err).Str("session", id).Msg("Discarding unreadable session state")
		return newState(id), nil
	}
	return st, nil
}

// Delete implements Store. Deleting an unknown session is not an error.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(sessionKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

// Sweep implements Store. Expired keys are already invisible to readers;
// on disk this runs value-log GC until there is nothing left to rewrite.
func (s *BadgerStore) Sweep(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	if s.inMemory {
		return 0, nil
	}
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("value log gc: %w", err)
		}
	}
	return 0, ctx.Err()
}

// Count returns the number of live sessions.
func (s *BadgerStore) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}
