package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

const (
	defaultRefreshInterval = time.Hour
	defaultRefreshTimeout  = time.Minute
)

// Refresher runs fn once on Start and then every interval until Stop.
type Refresher struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       func(ctx context.Context) error
	logger   *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(name string, interval time.Duration, fn func(ctx context.Context) error, logger *logging.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	timeout := defaultRefreshTimeout
	if interval < timeout {
		timeout = interval
	}
	return &Refresher{
		name:     name,
		interval: interval,
		timeout:  timeout,
		fn:       fn,
		logger:   logging.OrDefault(logger).Named("refresher"),
	}
}

// Start launches the loop. It returns false if the loop is already running.
func (r *Refresher) Start(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.logger.WarnContext(ctx, "refresher already running", "name", r.name)
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.loop(ctx, r.done)

	r.logger.InfoContext(ctx, "refresher started", "name", r.name, "interval", r.interval)
	return true
}

// Stop cancels the loop and waits for an in-progress run to return.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.logger.Info("refresher stopped", "name", r.name)
}

func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Refresher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	if err := r.fn(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.WarnContext(ctx, "scheduled refresh failed", "name", r.name, "error", err)
		return
	}
	r.logger.DebugContext(ctx, "scheduled refresh done", "name", r.name, "duration", time.Since(started))
}
