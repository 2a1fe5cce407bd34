package resilience

import (
	stderrors "errors"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// Kind classifies a failed upstream call.
type Kind string

const (
	KindTransient   Kind = "transient"
	KindRateLimited Kind = "rate_limited"
	KindClient      Kind = "client"
	KindNotFound    Kind = "not_found"
	KindMalformed   Kind = "malformed"
	KindCircuitOpen Kind = "circuit_open"
	KindCanceled    Kind = "canceled"
)

var (
	ErrTransient   = crerr.New("upstream temporarily unavailable")
	ErrRateLimited = crerr.New("upstream rate limited")
	ErrClient      = crerr.New("upstream rejected request")
	ErrNotFound    = crerr.New("upstream resource not found")
	ErrMalformed   = crerr.New("malformed upstream response")
)

// UserMessage is the text shown to end users for the kind.
func (k Kind) UserMessage() string {
	switch k {
	case KindRateLimited:
		return "Too many requests to the data provider. Please try again in a few minutes."
	case KindTransient, KindCircuitOpen:
		return "The service is temporarily unavailable. Please try again later."
	case KindNotFound:
		return "The requested match could not be found."
	case KindMalformed:
		return "The data provider returned an unexpected response."
	case KindCanceled:
		return "The request was canceled."
	default:
		return "The request could not be completed. Please check your connection and try again."
	}
}

// FetchError is returned by Fetcher once an upstream call has definitively
// failed, either immediately or after retries were exhausted.
type FetchError struct {
	Source     string
	Kind       Kind
	StatusCode int
	Network    NetworkErrorKind
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Network != NetworkNone {
		fmt.Fprintf(&b, " network=%s", e.Network)
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " attempts=%d", e.Attempts)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so callers can test with errors.Is.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrClient:
		return e.Kind == KindClient
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrMalformed:
		return e.Kind == KindMalformed
	case ErrCircuitOpen:
		return e.Kind == KindCircuitOpen
	}
	return false
}

func NewFetchError(source string, kind Kind, cause error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: cause}
}

// KindOf extracts the classification of err, or "" when err is not a
// FetchError.
func KindOf(err error) Kind {
	var fetchErr *FetchError
	if stderrors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	if stderrors.Is(err, ErrCircuitOpen) {
		return KindCircuitOpen
	}
	return ""
}

// IsBreakerFailure reports whether err should count against a circuit
// breaker. Client errors and misses prove the dependency is up.
func IsBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindTransient, KindRateLimited, KindMalformed:
		return true
	default:
		return false
	}
}
