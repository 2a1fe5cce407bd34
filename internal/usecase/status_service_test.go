package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	fixturemock "github.com/riskibarqy/matchcast/internal/mocks/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

func TestStatusService_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		wantAvailable bool
		wantKind      string
		wantMessage   string
	}{
		{
			name:          "available",
			wantAvailable: true,
			wantMessage:   "Match data provider is working",
		},
		{
			name:        "rate limited",
			err:         resilience.NewFetchError("apisports", resilience.KindRateLimited, errors.New("too many requests")),
			wantKind:    string(resilience.KindRateLimited),
			wantMessage: resilience.KindRateLimited.UserMessage(),
		},
		{
			name:        "circuit open",
			err:         resilience.NewFetchError("apisports", resilience.KindCircuitOpen, errors.New("breaker open")),
			wantKind:    string(resilience.KindCircuitOpen),
			wantMessage: resilience.KindCircuitOpen.UserMessage(),
		},
		{
			name:        "unclassified",
			err:         errors.New("dial tcp: connection refused"),
			wantMessage: "Could not reach the match data provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := fixturemock.NewSource(t)
			source.On("Ping", mock.Anything).Return(tt.err).Once()

			got := NewStatusService(source, time.Second, logging.NewNop()).Check(context.Background())
			assert.Equal(t, tt.wantAvailable, got.Available)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.False(t, got.CheckedAt.IsZero())
			if tt.err != nil {
				assert.NotEmpty(t, got.Details)
			}
		})
	}
}

func TestStatusService_Check_Timeout(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	source.On("Ping", mock.Anything).
		Return(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Once()

	got := NewStatusService(source, 20*time.Millisecond, logging.NewNop()).Check(context.Background())
	assert.False(t, got.Available)
	assert.Equal(t, "Match data provider did not respond in time", got.Message)
	assert.Equal(t, "timed out after 20ms", got.Details)
}
