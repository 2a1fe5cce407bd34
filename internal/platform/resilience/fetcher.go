package resilience

import (
	"context"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

// Response is what a single attempt produced. Non-2xx statuses are returned
// as a Response, not as an error; errors mean no response was received.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// AttemptFunc performs one try. attempt is 0 for the first call.
type AttemptFunc func(ctx context.Context, attempt int) (*Response, error)

// Fetcher runs an upstream call with retry and exponential backoff.
type Fetcher struct {
	source string
	policy RetryPolicy
	logger *logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

type FetcherOption func(*Fetcher)

// WithSleeper replaces the wait between attempts; tests use it to record
// delays without waiting.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) FetcherOption {
	return func(f *Fetcher) {
		if sleep != nil {
			f.sleep = sleep
		}
	}
}

func NewFetcher(source string, policy RetryPolicy, logger *logging.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source: source,
		policy: NormalizeRetryPolicy(policy),
		logger: logging.OrDefault(logger),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Policy() RetryPolicy {
	return f.policy
}

func (f *Fetcher) Do(ctx context.Context, call AttemptFunc) (*Response, error) {
	if call == nil {
		return nil, crerr.New("attempt func is required")
	}

	for attempt := 0; ; attempt++ {
		resp, err := call(ctx, attempt)
		if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		fetchErr := f.classify(ctx, resp, err, attempt+1)
		if fetchErr.Kind == KindCanceled || attempt >= f.policy.MaxRetries || !f.retryable(resp, fetchErr) {
			return nil, fetchErr
		}

		delay := f.policy.Delay(attempt)
		f.logger.WarnContext(ctx, "retrying upstream request",
			"source", f.source,
			"attempt", attempt+1,
			"max_retries", f.policy.MaxRetries,
			"delay", delay,
			"status", fetchErr.StatusCode,
			"kind", string(fetchErr.Kind),
			"error", fetchErr.Err,
		)
		if err := f.sleep(ctx, delay); err != nil {
			return nil, &FetchError{Source: f.source, Kind: KindCanceled, Attempts: attempt + 1, Err: err}
		}
	}
}

func (f *Fetcher) retryable(resp *Response, fetchErr *FetchError) bool {
	if resp == nil {
		// No response at all. Unclassified transport failures are retried
		// along with the configured network kinds.
		return fetchErr.Network == NetworkOther || f.policy.networkRetryable(fetchErr.Network)
	}
	return f.policy.statusRetryable(resp.StatusCode)
}

func (f *Fetcher) classify(ctx context.Context, resp *Response, err error, attempts int) *FetchError {
	out := &FetchError{Source: f.source, Attempts: attempts}
	if resp == nil {
		if err == nil {
			err = crerr.New("empty response")
		}
		out.Network = ClassifyNetworkError(err)
		out.Err = err
		if out.Network == NetworkCanceled || ctx.Err() != nil {
			out.Kind = KindCanceled
			return out
		}
		out.Kind = KindTransient
		return out
	}

	out.StatusCode = resp.StatusCode
	out.Err = crerr.Newf("status %d body=%s", resp.StatusCode, abbreviate(resp.Body, 256))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		out.Kind = KindRateLimited
	case resp.StatusCode == http.StatusNotFound:
		out.Kind = KindNotFound
	case f.policy.statusRetryable(resp.StatusCode), resp.StatusCode >= 500:
		out.Kind = KindTransient
	default:
		out.Kind = KindClient
	}
	return out
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

func abbreviate(raw []byte, max int) string {
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
