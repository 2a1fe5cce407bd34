package resilience

import (
	"math"
	"net/http"
	"time"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// RetryPolicy drives Fetcher. The delay before retry i (0-based) is
// min(BaseDelay * Multiplier^i, MaxDelay).
type RetryPolicy struct {
	MaxRetries       int
	BaseDelay        time.Duration
	Multiplier       float64
	MaxDelay         time.Duration
	RetryableStatus  map[int]struct{}
	RetryableNetwork map[NetworkErrorKind]struct{}
	// RetryRateLimited controls whether 429 responses go through the backoff
	// loop. When false they surface immediately as KindRateLimited.
	RetryRateLimited bool
}

func DefaultRetryableStatus() map[int]struct{} {
	return map[int]struct{}{
		http.StatusRequestTimeout:      {},
		http.StatusTooManyRequests:     {},
		http.StatusInternalServerError: {},
		http.StatusBadGateway:          {},
		http.StatusServiceUnavailable:  {},
		http.StatusGatewayTimeout:      {},
	}
}

func DefaultRetryableNetwork() map[NetworkErrorKind]struct{} {
	return map[NetworkErrorKind]struct{}{
		NetworkTimeout:            {},
		NetworkConnectionAborted:  {},
		NetworkUnreachable:        {},
		NetworkConnectionReset:    {},
		NetworkConnectionRefused:  {},
		NetworkUnexpectedShutdown: {},
	}
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:       3,
		BaseDelay:        time.Second,
		Multiplier:       1.5,
		MaxDelay:         5 * time.Second,
		RetryableStatus:  DefaultRetryableStatus(),
		RetryableNetwork: DefaultRetryableNetwork(),
		RetryRateLimited: true,
	}
}

// FixedRetryPolicy retries with the same delay between every attempt.
func FixedRetryPolicy(maxRetries int, delay time.Duration) RetryPolicy {
	policy := DefaultRetryPolicy()
	policy.MaxRetries = maxRetries
	policy.BaseDelay = delay
	policy.Multiplier = 1
	policy.MaxDelay = delay
	return policy
}

func NormalizeRetryPolicy(policy RetryPolicy) RetryPolicy {
	defaults := DefaultRetryPolicy()
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.BaseDelay < 0 {
		policy.BaseDelay = defaults.BaseDelay
	}
	if policy.Multiplier < 1 {
		policy.Multiplier = defaults.Multiplier
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = defaults.MaxDelay
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	if policy.RetryableStatus == nil {
		policy.RetryableStatus = defaults.RetryableStatus
	}
	if policy.RetryableNetwork == nil {
		policy.RetryableNetwork = defaults.RetryableNetwork
	}
	return policy
}

func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if delay > float64(p.MaxDelay) || math.IsInf(delay, 1) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

func (p RetryPolicy) statusRetryable(status int) bool {
	if status == http.StatusTooManyRequests && !p.RetryRateLimited {
		return false
	}
	_, ok := p.RetryableStatus[status]
	return ok
}

func (p RetryPolicy) networkRetryable(kind NetworkErrorKind) bool {
	_, ok := p.RetryableNetwork[kind]
	return ok
}
