package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_GetOrLoad_DeduplicatesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresUnderSimulatedClock(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore[string, int](5*time.Minute, WithClock(clock.Now))

	store.Set("2026-10-15", 12)
	if v, ok := store.Get("2026-10-15"); !ok || v != 12 {
		t.Fatalf("get after set = %d, %v", v, ok)
	}

	clock.Advance(5 * time.Minute)
	if !store.Valid("2026-10-15") {
		t.Fatalf("entry must still be valid at exactly ttl")
	}

	clock.Advance(time.Millisecond)
	if store.Valid("2026-10-15") {
		t.Fatalf("entry must expire once ttl is exceeded")
	}
	if _, ok := store.Get("2026-10-15"); ok {
		t.Fatalf("expired entry returned from Get")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry not dropped on read")
	}
}

func TestStore_GetOrLoad_RefreshesOnceAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := NewStore[string, int](time.Minute, WithClock(clock.Now))
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	first, _ := store.GetOrLoad(context.Background(), "live", loader)
	clock.Advance(2 * time.Minute)
	second, _ := store.GetOrLoad(context.Background(), "live", loader)
	third, _ := store.GetOrLoad(context.Background(), "live", loader)

	if first != 1 || second != 2 || third != 2 {
		t.Fatalf("loads = %d, %d, %d; want 1, 2, 2", first, second, third)
	}
}

func TestStore_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	boom := errors.New("upstream down")

	if _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if store.Valid("k") {
		t.Fatalf("failed load must not be cached")
	}

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "recovered", nil
	})
	if err != nil || v != "recovered" {
		t.Fatalf("retry after failure = %q, %v", v, err)
	}
}

func TestStore_GetOrLoad_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string, string](time.Minute)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "fixtures", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.GetOrLoad(firstCtx, "date:2026-10-15", loader)
		firstErr <- err
	}()
	<-started

	type result struct {
		value string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		v, err := store.GetOrLoad(context.Background(), "date:2026-10-15", loader)
		second <- result{v, err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled first caller, got %v", err)
	}
	close(release)

	got := <-second
	if got.err != nil || got.value != "fixtures" {
		t.Fatalf("second caller = %q, %v", got.value, got.err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
	if !store.Valid("date:2026-10-15") {
		t.Fatalf("shared load should be cached after the first caller left")
	}
}

func TestStore_MissIsNotAnError(t *testing.T) {
	t.Parallel()

	store := NewStore[int64, string](time.Minute)
	if v, ok := store.Get(99); ok || v != "" {
		t.Fatalf("miss returned %q, %v", v, ok)
	}
	if _, err := store.GetOrLoad(context.Background(), 1, nil); err == nil {
		t.Fatalf("nil loader should be rejected")
	}
}

func TestSlot_KeepsStaleValueAfterExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	slot := NewSlot[[]string](30*time.Minute, WithClock(clock.Now))

	if _, _, ok := slot.Stale(); ok {
		t.Fatalf("empty slot reported a stale value")
	}

	loaded, err := slot.GetOrLoad(context.Background(), func(context.Context) ([]string, error) {
		return []string{"Flamengo x Vasco"}, nil
	})
	if err != nil || len(loaded) != 1 {
		t.Fatalf("load = %v, %v", loaded, err)
	}

	clock.Advance(31 * time.Minute)
	if slot.Valid() {
		t.Fatalf("slot should have expired")
	}
	stale, insertedAt, ok := slot.Stale()
	if !ok || len(stale) != 1 || !insertedAt.Before(clock.Now()) {
		t.Fatalf("stale = %v, %v, %v", stale, insertedAt, ok)
	}

	slot.Set([]string{"Palmeiras x Santos"})
	slot.Invalidate()
	if _, ok := slot.Get(); ok {
		t.Fatalf("invalidated slot returned a value")
	}
	if stale, _, _ := slot.Stale(); stale[0] != "Palmeiras x Santos" {
		t.Fatalf("stale copy not updated by Set: %v", stale)
	}
}

func TestSlot_GetOrLoadWithin_ReloadsOlderValue(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	slot := NewSlot[string](30*time.Minute, WithClock(clock.Now))
	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "listing", nil
	}

	if _, err := slot.GetOrLoad(context.Background(), loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	clock.Advance(4 * time.Minute)
	if _, err := slot.GetOrLoadWithin(context.Background(), 5*time.Minute, loader); err != nil {
		t.Fatalf("within bound: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("value inside maxAge reloaded, calls=%d", got)
	}

	clock.Advance(2 * time.Minute)
	if _, err := slot.GetOrLoadWithin(context.Background(), 5*time.Minute, loader); err != nil {
		t.Fatalf("past bound: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("value older than maxAge not reloaded, calls=%d", got)
	}

	// The reload refreshed the plain ttl too.
	if _, err := slot.GetOrLoad(context.Background(), loader); err != nil || calls.Load() != 2 {
		t.Fatalf("plain load after refresh: calls=%d err=%v", calls.Load(), err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
