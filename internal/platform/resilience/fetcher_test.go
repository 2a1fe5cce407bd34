package resilience

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

type scriptedUpstream struct {
	steps []func() (*Response, error)
	calls int
}

func (s *scriptedUpstream) attempt(context.Context, int) (*Response, error) {
	idx := s.calls
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	}
	s.calls++
	return s.steps[idx]()
}

func status(code int) func() (*Response, error) {
	return func() (*Response, error) {
		return &Response{StatusCode: code, Body: []byte(http.StatusText(code))}, nil
	}
}

func failWith(err error) func() (*Response, error) {
	return func() (*Response, error) { return nil, err }
}

func newRecordingFetcher(policy RetryPolicy) (*Fetcher, *[]time.Duration) {
	var delays []time.Duration
	f := NewFetcher("test", policy, logging.NewNop(), WithSleeper(func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}))
	return f, &delays
}

func TestFetcher_RetriesTransientStatusWithBackoff(t *testing.T) {
	f, delays := newRecordingFetcher(DefaultRetryPolicy())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){status(503), status(503), status(200)}}

	resp, err := f.Do(context.Background(), upstream.attempt)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, upstream.calls)
	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond}, *delays)
}

func TestFetcher_NotFoundIsNotRetried(t *testing.T) {
	f, delays := newRecordingFetcher(DefaultRetryPolicy())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){status(404), status(200)}}

	_, err := f.Do(context.Background(), upstream.attempt)
	require.Error(t, err)
	assert.Equal(t, 1, upstream.calls)
	assert.Empty(t, *delays)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestFetcher_ClientErrorSurfacesImmediately(t *testing.T) {
	f, delays := newRecordingFetcher(DefaultRetryPolicy())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){status(401)}}

	_, err := f.Do(context.Background(), upstream.attempt)
	assert.True(t, errors.Is(err, ErrClient))
	assert.Empty(t, *delays)
}

func TestFetcher_ExhaustedRetriesReturnTransient(t *testing.T) {
	f, delays := newRecordingFetcher(DefaultRetryPolicy())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){status(502)}}

	_, err := f.Do(context.Background(), upstream.attempt)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, KindTransient, fetchErr.Kind)
	assert.Equal(t, 4, fetchErr.Attempts)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond, 2250 * time.Millisecond}, *delays)
}

func TestFetcher_RateLimitPolicy(t *testing.T) {
	t.Run("retried by default", func(t *testing.T) {
		f, delays := newRecordingFetcher(DefaultRetryPolicy())
		upstream := &scriptedUpstream{steps: []func() (*Response, error){status(429), status(200)}}

		_, err := f.Do(context.Background(), upstream.attempt)
		require.NoError(t, err)
		assert.Len(t, *delays, 1)
	})

	t.Run("surfaced immediately when disabled", func(t *testing.T) {
		policy := DefaultRetryPolicy()
		policy.RetryRateLimited = false
		f, delays := newRecordingFetcher(policy)
		upstream := &scriptedUpstream{steps: []func() (*Response, error){status(429), status(200)}}

		_, err := f.Do(context.Background(), upstream.attempt)
		assert.True(t, errors.Is(err, ErrRateLimited))
		assert.Empty(t, *delays)
		assert.Contains(t, KindRateLimited.UserMessage(), "few minutes")
	})
}

func TestFetcher_RetriesNetworkErrors(t *testing.T) {
	f, delays := newRecordingFetcher(DefaultRetryPolicy())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){
		failWith(context.DeadlineExceeded),
		failWith(syscall.ECONNABORTED),
		failWith(syscall.ENETUNREACH),
		status(200),
	}}

	_, err := f.Do(context.Background(), upstream.attempt)
	require.NoError(t, err)
	assert.Len(t, *delays, 3)
}

func TestFetcher_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher("test", DefaultRetryPolicy(), logging.NewNop())
	upstream := &scriptedUpstream{steps: []func() (*Response, error){status(503)}}

	_, err := f.Do(ctx, upstream.attempt)
	assert.Equal(t, KindCanceled, KindOf(err))
	assert.Equal(t, 1, upstream.calls)
}

func TestRetryPolicy_DelayIsCapped(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, time.Second, policy.Delay(0))
	assert.Equal(t, 5*time.Second, policy.Delay(10))

	fixed := FixedRetryPolicy(3, time.Second)
	assert.Equal(t, time.Second, fixed.Delay(2))
}

func TestClassifyNetworkError(t *testing.T) {
	assert.Equal(t, NetworkNone, ClassifyNetworkError(nil))
	assert.Equal(t, NetworkTimeout, ClassifyNetworkError(context.DeadlineExceeded))
	assert.Equal(t, NetworkConnectionReset, ClassifyNetworkError(syscall.ECONNRESET))
	assert.Equal(t, NetworkUnreachable, ClassifyNetworkError(syscall.EHOSTUNREACH))
	assert.Equal(t, NetworkCanceled, ClassifyNetworkError(context.Canceled))
	assert.Equal(t, NetworkOther, ClassifyNetworkError(errors.New("tls handshake")))
}
