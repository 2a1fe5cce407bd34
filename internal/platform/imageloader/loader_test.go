package imageloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

// gatedFetcher blocks every fetch until release is closed and records the
// order in which fetches started.
type gatedFetcher struct {
	release chan struct{}

	mu      sync.Mutex
	started []string
	calls   map[string]int

	current atomic.Int32
	peak    atomic.Int32
	failN   map[string]int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		release: make(chan struct{}),
		calls:   make(map[string]int),
		failN:   make(map[string]int),
	}
}

func (f *gatedFetcher) Fetch(ctx context.Context, url string) (Image, error) {
	now := f.current.Add(1)
	defer f.current.Add(-1)
	for {
		peak := f.peak.Load()
		if now <= peak || f.peak.CompareAndSwap(peak, now) {
			break
		}
	}

	f.mu.Lock()
	f.started = append(f.started, url)
	f.calls[url]++
	call := f.calls[url]
	fail := f.failN[url]
	f.mu.Unlock()

	select {
	case <-f.release:
	case <-ctx.Done():
		return Image{}, ctx.Err()
	}

	if fail < 0 || call <= fail {
		return Image{}, fmt.Errorf("status 503 for %s", url)
	}
	return Image{ContentType: "image/png", Data: []byte(url)}, nil
}

func (f *gatedFetcher) callsFor(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *gatedFetcher) startOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.started...)
}

func newTestLoader(t *testing.T, cfg Config, fetcher Fetcher, delays *[]time.Duration) *Loader {
	t.Helper()
	var mu sync.Mutex
	l, err := New(cfg, fetcher, logging.NewNop(), WithSleeper(func(_ context.Context, d time.Duration) error {
		if delays != nil {
			mu.Lock()
			*delays = append(*delays, d)
			mu.Unlock()
		}
		return nil
	}))
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func TestLoader_NeverExceedsConcurrencyCap(t *testing.T) {
	fetcher := newGatedFetcher()
	loader := newTestLoader(t, DefaultConfig(), fetcher, nil)

	const loads = 10
	var wg sync.WaitGroup
	errs := make(chan error, loads)
	for i := 0; i < loads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := loader.Load(context.Background(), fmt.Sprintf("https://media.example.com/teams/%d.png", i))
			errs <- err
		}(i)
	}

	require.Eventually(t, func() bool {
		stats := loader.Stats()
		return stats.InFlight == 5 && stats.Queued == loads-5
	}, 2*time.Second, 5*time.Millisecond)

	close(fetcher.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, fetcher.peak.Load(), int32(5))
	assert.Equal(t, int64(5), loader.Stats().PeakInFlight)
	assert.Equal(t, int64(loads), loader.Stats().Loaded)
}

func TestLoader_SameURLLoadsOnce(t *testing.T) {
	fetcher := newGatedFetcher()
	loader := newTestLoader(t, DefaultConfig(), fetcher, nil)
	const url = "https://media.example.com/leagues/71.png"

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := loader.Load(context.Background(), url)
			assert.NoError(t, err)
			assert.Equal(t, []byte(url), img.Data)
		}()
	}

	require.Eventually(t, func() bool { return fetcher.callsFor(url) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, StatusPending, loader.State(url).Status)

	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, 1, fetcher.callsFor(url))
	state := loader.State(url)
	assert.Equal(t, StatusLoaded, state.Status)
	require.NotNil(t, state.Image)

	_, err := loader.Load(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.callsFor(url), "cached image must not be fetched again")
}

func TestLoader_AdmitsInFIFOOrder(t *testing.T) {
	fetcher := newGatedFetcher()
	cfg := DefaultConfig()
	cfg.MaxConcurrentLoads = 1
	loader := newTestLoader(t, cfg, fetcher, nil)

	urls := []string{"a.png", "b.png", "c.png", "d.png"}
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = loader.Load(context.Background(), url)
		}()
		// The first task is taken by the worker, the rest wait in the queue.
		want := int64(i)
		require.Eventually(t, func() bool {
			s := loader.Stats()
			return s.InFlight+s.Queued == want+1
		}, time.Second, time.Millisecond)
	}

	close(fetcher.release)
	wg.Wait()
	assert.Equal(t, urls, fetcher.startOrder())
}

func TestLoader_RetriesWithFixedDelay(t *testing.T) {
	fetcher := newGatedFetcher()
	close(fetcher.release)
	fetcher.failN["flaky.png"] = 2

	var delays []time.Duration
	loader := newTestLoader(t, DefaultConfig(), fetcher, &delays)

	img, err := loader.Load(context.Background(), "flaky.png")
	require.NoError(t, err)
	assert.Equal(t, "flaky.png", img.URL)
	assert.Equal(t, 3, fetcher.callsFor("flaky.png"))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, delays)
}

func TestLoader_FailureIsTerminalUntilEvicted(t *testing.T) {
	fetcher := newGatedFetcher()
	close(fetcher.release)
	fetcher.failN["broken.png"] = -1

	loader := newTestLoader(t, DefaultConfig(), fetcher, nil)

	_, err := loader.Load(context.Background(), "broken.png")
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrLoadFailed))
	assert.Equal(t, 4, fetcher.callsFor("broken.png"))
	assert.Equal(t, StatusFailed, loader.State("broken.png").Status)

	_, err = loader.Load(context.Background(), "broken.png")
	require.Error(t, err)
	assert.Equal(t, 4, fetcher.callsFor("broken.png"), "failed url must not be retried automatically")

	require.True(t, loader.Evict("broken.png"))
	assert.Equal(t, StatusUnrequested, loader.State("broken.png").Status)

	fetcher.mu.Lock()
	fetcher.failN["broken.png"] = 0
	fetcher.mu.Unlock()
	_, err = loader.Load(context.Background(), "broken.png")
	require.NoError(t, err)
	assert.Equal(t, 5, fetcher.callsFor("broken.png"))
}

func TestLoader_CallerCancellationDoesNotAbortSharedLoad(t *testing.T) {
	fetcher := newGatedFetcher()
	loader := newTestLoader(t, DefaultConfig(), fetcher, nil)
	const url = "crest.png"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(ctx, url)
		done <- err
	}()
	require.Eventually(t, func() bool { return fetcher.callsFor(url) == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.Equal(t, StatusPending, loader.State(url).Status)
	assert.False(t, loader.Evict(url), "pending entries cannot be evicted")

	close(fetcher.release)
	img, err := loader.Load(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, []byte(url), img.Data)
	assert.Equal(t, 1, fetcher.callsFor(url))
}

func TestLoader_RejectsAfterClose(t *testing.T) {
	loader, err := New(DefaultConfig(), newGatedFetcher(), logging.NewNop())
	require.NoError(t, err)
	loader.Close()

	_, err = loader.Load(context.Background(), "late.png")
	assert.True(t, crerr.Is(err, ErrClosed))

	_, err = loader.Load(context.Background(), " ")
	assert.True(t, crerr.Is(err, ErrEmptyURL))
}
