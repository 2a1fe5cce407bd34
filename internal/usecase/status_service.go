package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const defaultStatusTimeout = 5 * time.Second

type UpstreamStatus struct {
	Available bool      `json:"available"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

type StatusService struct {
	source  fixture.Source
	timeout time.Duration
	now     func() time.Time
	logger  *logging.Logger
}

func NewStatusService(source fixture.Source, timeout time.Duration, logger *logging.Logger) *StatusService {
	if timeout <= 0 {
		timeout = defaultStatusTimeout
	}
	return &StatusService{
		source:  source,
		timeout: timeout,
		now:     time.Now,
		logger:  logging.OrDefault(logger).Named("status_service"),
	}
}

// Check pings the match data provider. It never returns an error; an
// unreachable provider is reported in the status itself.
func (s *StatusService) Check(ctx context.Context) UpstreamStatus {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatusService.Check")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := UpstreamStatus{CheckedAt: s.now().UTC()}
	err := s.source.Ping(ctx)
	if err == nil {
		status.Available = true
		status.Message = "Match data provider is working"
		return status
	}

	kind := resilience.KindOf(err)
	status.Kind = string(kind)
	status.Details = err.Error()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		status.Message = "Match data provider did not respond in time"
		status.Details = "timed out after " + s.timeout.String()
	case kind == "":
		status.Message = "Could not reach the match data provider"
	default:
		status.Message = kind.UserMessage()
	}
	s.logger.WarnContext(ctx, "upstream status check failed", "kind", status.Kind, "error", err)
	return status
}
