package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInFlight_Do(t *testing.T) {
	var g InFlight[string, string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do(context.Background(), "fixtures?date=2026-10-15", func(context.Context) (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil || v != "ok" {
				t.Errorf("in-flight call = %q, %v", v, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := g.Len(); got != 0 {
		t.Fatalf("registry should be empty after completion, has %d", got)
	}
}

func TestInFlight_RemovesKeyAfterFailure(t *testing.T) {
	var g InFlight[int, int]
	boom := errors.New("boom")

	if _, err, _ := g.Do(context.Background(), 1, func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("failed call left a registry entry")
	}

	v, err, shared := g.Do(context.Background(), 1, func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 || shared {
		t.Fatalf("second call = %d, %v, shared=%v", v, err, shared)
	}
}

func TestInFlight_WaiterCancellationLeavesCallRunning(t *testing.T) {
	var g InFlight[string, int]
	call, leader := g.Join("logo.png")
	if !leader {
		t.Fatalf("first join must lead")
	}
	if _, leader := g.Join("logo.png"); leader {
		t.Fatalf("second join must follow")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := call.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled wait, got %v", err)
	}

	g.Complete("logo.png", call, 42, nil)
	v, err := call.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("completed call = %d, %v", v, err)
	}
}

func TestInFlight_PanicReleasesWaiters(t *testing.T) {
	var g InFlight[string, int]

	_, err, _ := g.Do(context.Background(), "k", func(context.Context) (int, error) { panic("bad loader") })
	if !errors.Is(err, ErrCallPanicked) {
		t.Fatalf("expected ErrCallPanicked, got %v", err)
	}
	if g.Len() != 0 {
		t.Fatalf("panicking call left a registry entry")
	}
}

func TestInFlight_Do_CanceledStarterDoesNotAbortSharedCall(t *testing.T) {
	var g InFlight[string, string]
	started := make(chan struct{})
	release := make(chan struct{})
	var loadCtxErr error

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err, _ := g.Do(firstCtx, "standings?league=71", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			loadCtxErr = ctx.Err()
			return "table", nil
		})
		firstErr <- err
	}()
	<-started

	follower, leader := g.Join("standings?league=71")
	if leader {
		t.Fatalf("call must still be registered while the load runs")
	}

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled first caller, got %v", err)
	}

	close(release)
	v, err := follower.Wait(context.Background())
	if err != nil || v != "table" {
		t.Fatalf("follower = %q, %v", v, err)
	}
	if loadCtxErr != nil {
		t.Fatalf("shared load saw canceled ctx: %v", loadCtxErr)
	}
}
