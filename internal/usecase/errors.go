package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRateLimited           = errors.New("rate limited")
)

// upstreamError tags an adapter failure with the matching usecase sentinel
// and records it on the current span. The wrapped FetchError stays in the
// chain for callers that need the kind.
func upstreamError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	kind := resilience.KindOf(err)
	recordSpanError(ctx, err, attribute.String("fetch.kind", string(kind)))

	switch kind {
	case resilience.KindNotFound:
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case resilience.KindRateLimited:
		return fmt.Errorf("%s: %w: %w", op, ErrRateLimited, err)
	case resilience.KindTransient, resilience.KindCircuitOpen, resilience.KindMalformed:
		return fmt.Errorf("%s: %w: %w", op, ErrDependencyUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
