package cache

import (
	"context"
	"time"
)

type slotKey struct{}

// Slot holds a single value, e.g. the full candidate list of one scrape
// source. Unlike Store, an expired value is kept so callers can fall back to
// it when a refresh fails.
type Slot[V any] struct {
	store *Store[slotKey, V]
	stale *Store[slotKey, V]
}

func NewSlot[V any](ttl time.Duration, opts ...Option) *Slot[V] {
	return &Slot[V]{
		store: NewStore[slotKey, V](ttl, opts...),
		stale: NewStore[slotKey, V](0, opts...),
	}
}

func (s *Slot[V]) Get() (V, bool) {
	return s.store.Get(slotKey{})
}

func (s *Slot[V]) Set(value V) {
	s.store.Set(slotKey{}, value)
	s.stale.Set(slotKey{}, value)
}

func (s *Slot[V]) Valid() bool {
	return s.store.Valid(slotKey{})
}

// Invalidate forces the next GetOrLoad to refresh. The stale copy survives.
func (s *Slot[V]) Invalidate() {
	s.store.Delete(slotKey{})
}

// Stale returns the last value ever set, regardless of expiry.
func (s *Slot[V]) Stale() (V, time.Time, bool) {
	s.stale.mu.RLock()
	defer s.stale.mu.RUnlock()
	e, ok := s.stale.entries[slotKey{}]
	return e.value, e.insertedAt, ok
}

func (s *Slot[V]) GetOrLoad(ctx context.Context, loader func(context.Context) (V, error)) (V, error) {
	return s.store.GetOrLoad(ctx, slotKey{}, s.keepStale(loader))
}

// GetOrLoadWithin reloads when the held value is older than maxAge. It
// shares in-flight loads with GetOrLoad.
func (s *Slot[V]) GetOrLoadWithin(ctx context.Context, maxAge time.Duration, loader func(context.Context) (V, error)) (V, error) {
	return s.store.GetOrLoadWithin(ctx, slotKey{}, maxAge, s.keepStale(loader))
}

func (s *Slot[V]) keepStale(loader func(context.Context) (V, error)) func(context.Context) (V, error) {
	if loader == nil {
		return nil
	}
	return func(ctx context.Context) (V, error) {
		value, err := loader(ctx)
		if err == nil {
			s.stale.Set(slotKey{}, value)
		}
		return value, err
	}
}
