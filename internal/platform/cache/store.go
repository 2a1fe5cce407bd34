package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Store maps keys to values with independent expiry per key. An entry is
// valid while now - insertedAt <= ttl; a ttl <= 0 never expires. Entries are
// replaced wholesale, never updated in place.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     Clock
	flight  resilience.InFlight[K, V]
}

type Option func(*options)

type options struct {
	now Clock
}

func WithClock(now Clock) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewStore[K comparable, V any](ttl time.Duration, opts ...Option) *Store[K, V] {
	o := buildOptions(opts)
	return &Store[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

func (s *Store[K, V]) TTL() time.Duration {
	return s.ttl
}

// Get returns the value for key while it is still valid. Expired entries are
// dropped and reported as a miss.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if !s.fresh(e) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.insertedAt.Equal(e.insertedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, insertedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Valid reports whether key holds an entry that has not expired.
func (s *Store[K, V]) Valid(key K) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return ok && s.fresh(e)
}

// Len counts stored entries, including ones that expired but were not read
// since.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Purge drops every expired entry.
func (s *Store[K, V]) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, e := range s.entries {
		if !s.fresh(e) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// GetOrLoad returns the cached value or runs loader once for all concurrent
// misses on the same key. Failed loads are not cached. loader runs detached
// from ctx cancellation: a caller whose ctx ends gets ctx.Err() while the
// load finishes for everyone else still waiting, and its value is cached.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	return s.getOrLoad(ctx, key, 0, loader)
}

// GetOrLoadWithin is GetOrLoad with a tighter freshness bound: an entry older
// than maxAge counts as a miss even while the store ttl still holds. Loads
// share the in-flight call of plain GetOrLoad for the same key.
func (s *Store[K, V]) GetOrLoadWithin(ctx context.Context, key K, maxAge time.Duration, loader func(context.Context) (V, error)) (V, error) {
	return s.getOrLoad(ctx, key, maxAge, loader)
}

func (s *Store[K, V]) getOrLoad(ctx context.Context, key K, maxAge time.Duration, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, fmt.Errorf("loader is required")
	}
	if value, ok := s.getWithin(key, maxAge); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(ctx, key, func(ctx context.Context) (V, error) {
		if cached, ok := s.getWithin(key, maxAge); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return loaded, loadErr
		}
		s.Set(key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

// getWithin is Get plus an optional age bound; maxAge <= 0 means none.
func (s *Store[K, V]) getWithin(key K, maxAge time.Duration) (V, bool) {
	value, ok := s.Get(key)
	if !ok || maxAge <= 0 {
		return value, ok
	}
	s.mu.RLock()
	e, present := s.entries[key]
	s.mu.RUnlock()
	if !present || s.now().Sub(e.insertedAt) > maxAge {
		var zero V
		return zero, false
	}
	return value, true
}

func (s *Store[K, V]) fresh(e entry[V]) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(e.insertedAt) <= s.ttl
}
