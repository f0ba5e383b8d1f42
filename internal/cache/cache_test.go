// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string](ttl, time.Hour)
	c.now = clock.Now
	t.Cleanup(c.Stop)
	return c, clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("key1", "value1")
	value, ok := c.Get("key1")
	if !ok || value != "value1" {
		t.Fatalf("Get(key1) = %q, %v", value, ok)
	}
	if _, ok := c.Get("key2"); ok {
		t.Error("key2 should not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	c.Set("key1", "value1")

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("entry expired early")
	}
	clock.Advance(time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Fatal("entry should expire at its TTL")
	}
	if s := c.GetStats(); s.Evictions != 1 || s.TotalKeys != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCacheZeroTTLDisables(t *testing.T) {
	c, _ := newTestCache(t, 0)
	c.Set("key1", "value1")
	if _, ok := c.Get("key1"); ok {
		t.Error("zero TTL should not store")
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}

	c.Delete("k0")
	if _, ok := c.Get("k0"); ok {
		t.Error("k0 should be deleted")
	}
	for _, k := range []string{"k1", "k2"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should survive", k)
		}
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	c.Set("short", "a")
	c.SetWithTTL("long", "b", time.Hour)

	clock.Advance(2 * time.Minute)
	c.cleanup()

	s := c.GetStats()
	if s.TotalKeys != 1 || s.Evictions != 1 {
		t.Fatalf("stats after cleanup = %+v", s)
	}
	if !s.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v", s.LastCleanup)
	}
	if v, ok := c.Get("long"); !ok || v != "b" {
		t.Error("unexpired entry removed by cleanup")
	}
}

func TestCacheHitRate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	if c.HitRate() != 0 {
		t.Error("hit rate before lookups should be 0")
	}
	c.Set("a", "1")
	c.Get("a")
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			for j := 0; j < 100; j++ {
				c.Set(key, "v")
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	if s := c.GetStats(); s.TotalKeys != 5 {
		t.Errorf("TotalKeys = %d, want 5", s.TotalKeys)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := New[int](time.Minute, time.Millisecond)
	c.Stop()
	c.Stop()
}
