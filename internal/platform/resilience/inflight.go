package resilience

import (
	"context"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/panics"
)

var ErrCallPanicked = crerr.New("in-flight call panicked")

// InFlight is a registry of running calls keyed by K. Concurrent callers for
// the same key share one execution. A call is registered before it runs and
// removed as soon as it completes, on success or failure.
type InFlight[K comparable, V any] struct {
	mu    sync.Mutex
	calls map[K]*Call[V]
}

// Call is the shared handle for one in-flight execution.
type Call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Wait blocks until the call completes or ctx ends. A canceled waiter does
// not affect the call itself.
func (c *Call[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Done is closed once the call has completed.
func (c *Call[V]) Done() <-chan struct{} {
	return c.done
}

// Join returns the call registered for key, creating it when absent. leader
// is true for the caller that created it; that caller must Complete it.
func (g *InFlight[K, V]) Join(key K) (c *Call[V], leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.calls == nil {
		g.calls = make(map[K]*Call[V])
	}
	if c, ok := g.calls[key]; ok {
		return c, false
	}
	c = &Call[V]{done: make(chan struct{})}
	g.calls[key] = c
	return c, true
}

// Complete publishes the result, unregisters the key and releases waiters.
func (g *InFlight[K, V]) Complete(key K, c *Call[V], val V, err error) {
	g.mu.Lock()
	if current, ok := g.calls[key]; ok && current == c {
		delete(g.calls, key)
	}
	g.mu.Unlock()

	c.val, c.err = val, err
	close(c.done)
}

// Do runs fn once per key at a time. fn runs in its own goroutine under a
// context detached from the caller's cancellation, so any caller, the one
// that started the call included, stops waiting when its ctx ends while the
// others still get the result. shared reports whether the result came from a
// call started by another caller. A panic in fn completes the call with
// ErrCallPanicked.
func (g *InFlight[K, V]) Do(ctx context.Context, key K, fn func(context.Context) (V, error)) (val V, err error, shared bool) {
	c, leader := g.Join(key)
	if leader {
		go g.run(context.WithoutCancel(ctx), key, c, fn)
	}
	val, err = c.Wait(ctx)
	return val, err, !leader
}

func (g *InFlight[K, V]) run(ctx context.Context, key K, c *Call[V], fn func(context.Context) (V, error)) {
	var (
		val     V
		err     error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		val, err = fn(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		var zero V
		val, err = zero, crerr.Wrapf(ErrCallPanicked, "%v", recovered.Value)
	}
	g.Complete(key, c, val, err)
}

// Len reports how many calls are currently registered.
func (g *InFlight[K, V]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
