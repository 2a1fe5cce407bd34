// Package imageloader fetches remote images (team crests, league logos)
// with a global concurrency cap, FIFO admission and one load per URL.
package imageloader

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

var (
	ErrClosed     = crerr.New("image loader is closed")
	ErrLoadFailed = crerr.New("image load failed")
	ErrEmptyURL   = crerr.New("image url is required")
)

type Status string

const (
	StatusUnrequested Status = "unrequested"
	StatusPending     Status = "pending"
	StatusLoaded      Status = "loaded"
	StatusFailed      Status = "failed"
)

type Image struct {
	URL         string
	ContentType string
	Data        []byte
}

// State is a copy of the loader's entry for one URL.
type State struct {
	URL    string
	Status Status
	Image  *Image
	Err    error
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (Image, error)
}

type Config struct {
	MaxConcurrentLoads int
	MaxRetries         int
	RetryDelay         time.Duration
	Timeout            time.Duration
	MaxBytes           int
}

func DefaultConfig() Config {
	return Config{
		MaxConcurrentLoads: 5,
		MaxRetries:         3,
		RetryDelay:         time.Second,
		Timeout:            10 * time.Second,
		MaxBytes:           4 << 20,
	}
}

func normalizeConfig(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.MaxConcurrentLoads < 1 {
		cfg.MaxConcurrentLoads = defaults.MaxConcurrentLoads
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}
	return cfg
}

type Stats struct {
	InFlight     int64 `json:"inFlight"`
	PeakInFlight int64 `json:"peakInFlight"`
	Queued       int64 `json:"queued"`
	Loaded       int64 `json:"loaded"`
	Failed       int64 `json:"failed"`
}

type task struct {
	url  string
	call *resilience.Call[Image]
}

// Loader owns one entry per URL. Loaded and failed entries are terminal and
// kept until Evict; concurrent requests for a URL share a single load.
type Loader struct {
	cfg     Config
	fetcher Fetcher
	logger  *logging.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	states map[string]State
	flight resilience.InFlight[string, Image]

	queue *fifo
	pool  *ants.Pool

	waiting  atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
	loaded   atomic.Int64
	failed   atomic.Int64

	ctx        context.Context
	cancel     context.CancelFunc
	dispatcher sync.WaitGroup
	closeOnce  sync.Once
}

type Option func(*Loader)

// WithSleeper replaces the wait between retries.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loader) {
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// New starts the dispatcher. Close must be called to release workers.
func New(cfg Config, fetcher Fetcher, logger *logging.Logger, opts ...Option) (*Loader, error) {
	cfg = normalizeConfig(cfg)
	logger = logging.OrDefault(logger).Named("imageloader")
	if fetcher == nil {
		fetcher = NewHTTPFetcher(cfg.Timeout, cfg.MaxBytes)
	}

	pool, err := ants.NewPool(cfg.MaxConcurrentLoads, ants.WithPanicHandler(func(p any) {
		logger.Error("image load worker panicked", "panic", fmt.Sprint(p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create image worker pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		sleep:   sleepContext,
		states:  make(map[string]State),
		queue:   newFIFO(),
		pool:    pool,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.dispatcher.Add(1)
	go l.dispatch()
	return l, nil
}

// Load returns the image for url, queueing a load when none is cached or in
// flight. Canceling ctx stops this caller's wait only; the shared load
// carries on for other requesters.
func (l *Loader) Load(ctx context.Context, url string) (Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Image{}, ErrEmptyURL
	}

	l.mu.Lock()
	if state, ok := l.states[url]; ok {
		switch state.Status {
		case StatusLoaded:
			l.mu.Unlock()
			return *state.Image, nil
		case StatusFailed:
			l.mu.Unlock()
			return Image{}, state.Err
		}
	}

	call, leader := l.flight.Join(url)
	if leader {
		l.waiting.Add(1)
		if !l.queue.push(task{url: url, call: call}) {
			l.waiting.Add(-1)
			l.flight.Complete(url, call, Image{}, ErrClosed)
			l.mu.Unlock()
			return Image{}, ErrClosed
		}
		l.states[url] = State{URL: url, Status: StatusPending}
	}
	l.mu.Unlock()

	return call.Wait(ctx)
}

// State reports the entry for url without triggering a load.
func (l *Loader) State(url string) State {
	url = strings.TrimSpace(url)
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok := l.states[url]; ok {
		return state
	}
	return State{URL: url, Status: StatusUnrequested}
}

// Evict drops a terminal entry so the next Load fetches again. Pending
// entries cannot be evicted.
func (l *Loader) Evict(url string) bool {
	url = strings.TrimSpace(url)
	l.mu.Lock()
	defer l.mu.Unlock()
	state, ok := l.states[url]
	if !ok || state.Status == StatusPending {
		return false
	}
	delete(l.states, url)
	return true
}

func (l *Loader) Stats() Stats {
	return Stats{
		InFlight:     l.inFlight.Load(),
		PeakInFlight: l.peak.Load(),
		Queued:       l.waiting.Load(),
		Loaded:       l.loaded.Load(),
		Failed:       l.failed.Load(),
	}
}

// Close stops admitting work, fails queued loads with ErrClosed and waits
// for running loads to finish.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		for _, t := range l.queue.close() {
			l.waiting.Add(-1)
			l.finish(t, Image{}, ErrClosed)
		}
		l.cancel()
		l.dispatcher.Wait()
		_ = l.pool.ReleaseTimeout(l.cfg.Timeout)
	})
}

// dispatch admits queued tasks in order. Submit blocks while every worker is
// busy, so the queue head waits until a slot frees.
func (l *Loader) dispatch() {
	defer l.dispatcher.Done()
	for {
		t, ok := l.queue.pop()
		if !ok {
			return
		}
		if err := l.pool.Submit(func() { l.run(t) }); err != nil {
			l.waiting.Add(-1)
			l.finish(t, Image{}, crerr.Wrap(err, "submit image load"))
		}
	}
}

func (l *Loader) run(t task) {
	l.admit()
	defer l.inFlight.Add(-1)

	var (
		img Image
		err error
	)
	defer func() {
		if r := recover(); r != nil {
			err = crerr.Newf("image load panicked: %v", r)
		}
		l.finish(t, img, err)
	}()
	img, err = l.loadWithRetry(t.url)
}

func (l *Loader) admit() {
	l.waiting.Add(-1)
	current := l.inFlight.Add(1)
	for {
		peak := l.peak.Load()
		if current <= peak || l.peak.CompareAndSwap(peak, current) {
			return
		}
	}
}

func (l *Loader) loadWithRetry(url string) (Image, error) {
	var lastErr error
	for attempt := 0; attempt <= l.cfg.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(l.ctx, l.cfg.Timeout)
		img, err := l.fetcher.Fetch(attemptCtx, url)
		cancel()
		if err == nil {
			img.URL = url
			return img, nil
		}
		lastErr = err

		if attempt == l.cfg.MaxRetries {
			break
		}
		l.logger.Warn("image load failed, retrying",
			"url", url,
			"attempt", attempt+1,
			"max_retries", l.cfg.MaxRetries,
			"delay", l.cfg.RetryDelay,
			"error", err,
		)
		if err := l.sleep(l.ctx, l.cfg.RetryDelay); err != nil {
			return Image{}, crerr.Wrap(ErrClosed, err.Error())
		}
	}
	return Image{}, crerr.Wrapf(lastErr, "load %s after %d attempts", url, l.cfg.MaxRetries+1)
}

func (l *Loader) finish(t task, img Image, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case err == nil:
		stored := img
		l.states[t.url] = State{URL: t.url, Status: StatusLoaded, Image: &stored}
		l.loaded.Add(1)
	case crerr.Is(err, ErrClosed):
		delete(l.states, t.url)
	default:
		err = crerr.Mark(err, ErrLoadFailed)
		l.states[t.url] = State{URL: t.url, Status: StatusFailed, Err: err}
		l.failed.Add(1)
		l.logger.Warn("image load failed", "url", t.url, "error", err)
	}
	l.flight.Complete(t.url, t.call, img, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
