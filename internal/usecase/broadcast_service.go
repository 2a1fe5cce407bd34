package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/broadcast"
	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/cache"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const (
	defaultBroadcastLookupTTL      = 30 * time.Minute
	defaultBroadcastCorrelationTTL = 5 * time.Minute
)

type BroadcastServiceConfig struct {
	LookupTTL      time.Duration
	CorrelationTTL time.Duration
	Now            func() time.Time
	Logger         *logging.Logger
}

// BroadcastService answers "where is this match on TV" from scraped listing
// candidates and links those candidates to provider fixtures.
type BroadcastService struct {
	source     broadcast.Source
	fixtures   *FixtureService
	correlator *broadcast.Correlator
	logger     *logging.Logger

	correlationTTL time.Duration

	lookup     *cache.Slot[[]broadcast.Candidate]
	correlated *cache.Slot[[]broadcast.Correlation]
}

func NewBroadcastService(source broadcast.Source, fixtures *FixtureService, correlator *broadcast.Correlator, cfg BroadcastServiceConfig) *BroadcastService {
	if cfg.LookupTTL <= 0 {
		cfg.LookupTTL = defaultBroadcastLookupTTL
	}
	if cfg.CorrelationTTL <= 0 {
		cfg.CorrelationTTL = defaultBroadcastCorrelationTTL
	}
	if correlator == nil {
		correlator = broadcast.NewCorrelator(nil)
	}
	var opts []cache.Option
	if cfg.Now != nil {
		opts = append(opts, cache.WithClock(cfg.Now))
	}

	return &BroadcastService{
		source:     source,
		fixtures:   fixtures,
		correlator: correlator,
		logger:     logging.OrDefault(cfg.Logger).Named("broadcast_service"),

		correlationTTL: cfg.CorrelationTTL,
		lookup:         cache.NewSlot[[]broadcast.Candidate](cfg.LookupTTL, opts...),
		correlated:     cache.NewSlot[[]broadcast.Correlation](cfg.CorrelationTTL, opts...),
	}
}

// FindBroadcastInfo returns the broadcast text of the listed match between
// home and away, in either orientation. found is false when the listing has
// no such match.
func (s *BroadcastService) FindBroadcastInfo(ctx context.Context, home, away string) (string, bool, error) {
	home, away = strings.TrimSpace(home), strings.TrimSpace(away)
	if home == "" || away == "" {
		return "", false, fmt.Errorf("%w: home and away team names are required", ErrInvalidInput)
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.FindBroadcastInfo")
	defer span.End()

	candidates, err := s.lookup.GetOrLoad(ctx, s.fetchCandidates)
	if err != nil {
		stale, at, ok := s.lookup.Stale()
		if !ok {
			return "", false, err
		}
		s.logger.WarnContext(ctx, "serving stale broadcast listing", "scraped_at", at, "error", err)
		candidates = stale
	}

	candidate, ok := s.correlator.FindBroadcast(home, away, candidates)
	if !ok {
		return "", false, nil
	}
	return candidate.BroadcastText, true, nil
}

// CorrelatedCandidates links every listed match to today's and tomorrow's
// fixtures. When a refresh fails the last good result is served.
func (s *BroadcastService) CorrelatedCandidates(ctx context.Context) ([]broadcast.Correlation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BroadcastService.CorrelatedCandidates")
	defer span.End()

	out, err := s.correlated.GetOrLoad(ctx, s.correlate)
	if err == nil {
		return out, nil
	}
	stale, at, ok := s.correlated.Stale()
	if !ok {
		return nil, err
	}
	s.logger.WarnContext(ctx, "serving stale broadcast correlation", "correlated_at", at, "error", err)
	return stale, nil
}

// Refresh drops both caches and scrapes again.
func (s *BroadcastService) Refresh(ctx context.Context) error {
	s.lookup.Invalidate()
	s.correlated.Invalidate()
	_, err := s.correlated.GetOrLoad(ctx, s.correlate)
	return err
}

func (s *BroadcastService) fetchCandidates(ctx context.Context) ([]broadcast.Candidate, error) {
	candidates, err := s.source.FetchCandidates(ctx)
	if err != nil {
		return nil, upstreamError(ctx, "fetch broadcast candidates from "+s.source.Name(), err)
	}
	return candidates, nil
}

// correlate reads the listing through the lookup slot, so a lookup miss and
// a correlation miss running together scrape once. The listing it uses is
// never older than the correlation ttl. It fails when no fixture day loaded,
// which keeps the previous correlation in place.
func (s *BroadcastService) correlate(ctx context.Context) ([]broadcast.Correlation, error) {
	candidates, err := s.lookup.GetOrLoadWithin(ctx, s.correlationTTL, s.fetchCandidates)
	if err != nil {
		return nil, err
	}

	var today, tomorrow []fixture.Record
	outcomes := resilience.AllSettled(ctx,
		resilience.Task{Name: "today", Run: func(ctx context.Context) error {
			var err error
			today, err = s.fixtures.GetTodayMatches(ctx)
			return err
		}},
		resilience.Task{Name: "tomorrow", Run: func(ctx context.Context) error {
			var err error
			tomorrow, err = s.fixtures.GetTomorrowMatches(ctx)
			return err
		}},
	)
	var fixtureErrs []error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			s.logger.WarnContext(ctx, "fixtures unavailable for correlation", "day", outcome.Name, "error", outcome.Err)
			fixtureErrs = append(fixtureErrs, outcome.Err)
		}
	}
	if len(fixtureErrs) == len(outcomes) {
		return nil, fmt.Errorf("correlate broadcasts: no fixture day loaded: %w", errors.Join(fixtureErrs...))
	}

	fixtures := make([]fixture.Record, 0, len(today)+len(tomorrow))
	fixtures = append(append(fixtures, today...), tomorrow...)
	byID := make(map[int64]fixture.Record, len(fixtures))
	for _, r := range fixtures {
		byID[r.ID] = r
	}

	results := s.correlator.Correlate(candidates, fixtures)
	matched := 0
	for i := range results {
		if !results[i].Matched() {
			continue
		}
		matched++
		if r, ok := byID[*results[i].FixtureID]; ok {
			results[i].MatchURL = s.fixtures.MatchURL(r)
		}
	}
	s.logger.InfoContext(ctx, "broadcast candidates correlated",
		"candidates", len(candidates),
		"fixtures", len(fixtures),
		"matched", matched,
	)
	return results, nil
}
