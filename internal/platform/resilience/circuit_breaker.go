package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type BreakerOption func(*CircuitBreaker)

// WithBreakerClock swaps the time source, for simulated-time tests.
func WithBreakerClock(now func() time.Time) BreakerOption {
	return func(b *CircuitBreaker) {
		if now != nil {
			b.now = now
		}
	}
}

// WithStateChange registers a callback fired after every transition, outside
// the breaker's lock.
func WithStateChange(fn func(from, to CircuitState)) BreakerOption {
	return func(b *CircuitBreaker) {
		b.onChange = fn
	}
}

// CircuitBreaker stops calling an upstream after FailureThreshold
// consecutive failures. After OpenTimeout it lets HalfOpenMaxReq probes
// through; all of them must succeed to close again. A nil breaker always
// allows.
type CircuitBreaker struct {
	cfg      CircuitBreakerConfig
	now      func() time.Time
	onChange func(from, to CircuitState)

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	successes int
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig, opts ...BreakerOption) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	b := &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		now:   time.Now,
		state: CircuitStateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reserves a call. In half-open state only HalfOpenMaxReq calls may be
// outstanding at once.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.moveTo(CircuitStateHalfOpen)
	}
	var err error
	switch b.state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			err = ErrCircuitOpen
		} else {
			b.probes++
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

// Record feeds the outcome of an allowed call back into the breaker. Only
// errors that say the dependency is unhealthy count as failures.
func (b *CircuitBreaker) Record(err error) {
	if IsBreakerFailure(err) {
		b.RecordFailure()
		return
	}
	b.RecordSuccess()
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.moveTo(CircuitStateClosed)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.moveTo(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports half-open as soon as the open timeout has elapsed, even
// before the next Allow performs the transition.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) releaseProbe() {
	if b.probes > 0 {
		b.probes--
	}
}

// moveTo resets the per-state counters. Callers hold mu.
func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.probes = 0
	b.successes = 0
	switch state {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
