package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/cache"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const (
	defaultFixtureCacheTTL = 60 * time.Second
	defaultLiveCacheTTL    = 15 * time.Second
	matchURLTTL            = 72 * time.Hour
	maxMatchURLEntries     = 8192
)

// Detail sub-resource names, as reported in fixture.Details.Missing.
const (
	PartLineups     = "lineups"
	PartStatistics  = "statistics"
	PartEvents      = "events"
	PartPredictions = "predictions"
	PartOdds        = "odds"
)

type FixtureServiceConfig struct {
	CacheTTL     time.Duration
	LiveCacheTTL time.Duration
	Location     *time.Location
	Now          func() time.Time
	Logger       *logging.Logger
}

type FixtureService struct {
	source   fixture.Source
	location *time.Location
	now      func() time.Time
	logger   *logging.Logger

	lists *cache.Store[string, []fixture.Record]
	live  *cache.Slot[[]fixture.Record]
	urls  *cache.Store[string, int64]
}

func NewFixtureService(source fixture.Source, cfg FixtureServiceConfig) *FixtureService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultFixtureCacheTTL
	}
	if cfg.LiveCacheTTL <= 0 {
		cfg.LiveCacheTTL = defaultLiveCacheTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	clock := cache.WithClock(cfg.Now)

	return &FixtureService{
		source:   source,
		location: cfg.Location,
		now:      cfg.Now,
		logger:   logging.OrDefault(cfg.Logger).Named("fixture_service"),
		lists:    cache.NewStore[string, []fixture.Record](cfg.CacheTTL, clock),
		live:     cache.NewSlot[[]fixture.Record](cfg.LiveCacheTTL, clock),
		urls:     cache.NewStore[string, int64](matchURLTTL, clock),
	}
}

func (s *FixtureService) Location() *time.Location {
	return s.location
}

func (s *FixtureService) dateKey(date time.Time) string {
	return date.In(s.location).Format(time.DateOnly)
}

// GetMatchesByDate lists the fixtures of the calendar day containing date.
func (s *FixtureService) GetMatchesByDate(ctx context.Context, date time.Time) ([]fixture.Record, error) {
	key := s.dateKey(date)
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetMatchesByDate", attribute.String("date", key))
	defer span.End()

	return s.lists.GetOrLoad(ctx, "date:"+key, func(ctx context.Context) ([]fixture.Record, error) {
		records, err := s.source.ListByDate(ctx, date)
		if err != nil {
			return nil, upstreamError(ctx, "list matches by date", err)
		}
		s.registerURLs(records)
		return records, nil
	})
}

func (s *FixtureService) GetTodayMatches(ctx context.Context) ([]fixture.Record, error) {
	return s.GetMatchesByDate(ctx, s.now())
}

func (s *FixtureService) GetTomorrowMatches(ctx context.Context) ([]fixture.Record, error) {
	return s.GetMatchesByDate(ctx, s.now().In(s.location).AddDate(0, 0, 1))
}

func (s *FixtureService) GetLiveMatches(ctx context.Context) ([]fixture.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetLiveMatches")
	defer span.End()

	return s.live.GetOrLoad(ctx, func(ctx context.Context) ([]fixture.Record, error) {
		records, err := s.source.ListLive(ctx)
		if err != nil {
			return nil, upstreamError(ctx, "list live matches", err)
		}
		s.registerURLs(records)
		return records, nil
	})
}

// GetFinishedMatches lists today's fixtures that reached full time.
func (s *FixtureService) GetFinishedMatches(ctx context.Context) ([]fixture.Record, error) {
	today := s.now()
	key := s.dateKey(today)
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFinishedMatches", attribute.String("date", key))
	defer span.End()

	return s.lists.GetOrLoad(ctx, "finished:"+key, func(ctx context.Context) ([]fixture.Record, error) {
		records, err := s.source.ListByDateAndStatus(ctx, today, fixture.FinishedShortCodes)
		if err != nil {
			return nil, upstreamError(ctx, "list finished matches", err)
		}
		s.registerURLs(records)
		return records, nil
	})
}

// GetMatchDetails fetches the fixture and its five sub-resources
// concurrently. Only the fixture itself is required; sub-resources that
// fail are named in Details.Missing.
func (s *FixtureService) GetMatchDetails(ctx context.Context, id int64) (fixture.Details, error) {
	if id <= 0 {
		return fixture.Details{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetMatchDetails", attribute.Int64("fixture.id", id))
	defer span.End()

	var (
		details fixture.Details
		found   bool
	)
	outcomes := resilience.AllSettled(ctx,
		resilience.Task{Name: "fixture", Run: func(ctx context.Context) error {
			var err error
			details.Record, found, err = s.source.GetByID(ctx, id)
			return err
		}},
		resilience.Task{Name: PartLineups, Run: func(ctx context.Context) error {
			var err error
			details.Lineups, err = s.source.ListLineups(ctx, id)
			return err
		}},
		resilience.Task{Name: PartStatistics, Run: func(ctx context.Context) error {
			var err error
			details.Statistics, err = s.source.ListStatistics(ctx, id)
			return err
		}},
		resilience.Task{Name: PartEvents, Run: func(ctx context.Context) error {
			var err error
			details.Events, err = s.source.ListEvents(ctx, id)
			return err
		}},
		resilience.Task{Name: PartPredictions, Run: func(ctx context.Context) error {
			var err error
			details.Prediction, err = s.source.GetPrediction(ctx, id)
			return err
		}},
		resilience.Task{Name: PartOdds, Run: func(ctx context.Context) error {
			var err error
			details.Odds, err = s.source.GetOdds(ctx, id)
			return err
		}},
	)

	if err := outcomes[0].Err; err != nil {
		return fixture.Details{}, upstreamError(ctx, fmt.Sprintf("get match id=%d", id), err)
	}
	if !found {
		return fixture.Details{}, fmt.Errorf("%w: match id=%d", ErrNotFound, id)
	}

	for _, outcome := range outcomes[1:] {
		if outcome.Err == nil {
			continue
		}
		details.Missing = append(details.Missing, outcome.Name)
		s.logger.WarnContext(ctx, "match detail part unavailable",
			"fixture_id", id,
			"part", outcome.Name,
			"error", outcome.Err,
		)
	}
	s.registerURLs([]fixture.Record{details.Record})
	return details, nil
}

// MatchURL is the public page path of a match.
func (s *FixtureService) MatchURL(r fixture.Record) string {
	return fixture.URLPrefix + fixture.URLKey(r, s.location)
}

// ResolveMatchURL maps a page path (with or without the prefix) back to the
// fixture id. Unknown keys trigger one load of the key's date before giving
// up.
func (s *FixtureService) ResolveMatchURL(ctx context.Context, key string) (int64, error) {
	key = strings.Trim(strings.TrimPrefix(strings.TrimSpace(key), fixture.URLPrefix), "/")
	if key == "" {
		return 0, fmt.Errorf("%w: match url is required", ErrInvalidInput)
	}
	if id, ok := s.urls.Get(key); ok {
		return id, nil
	}

	date, ok := s.urlDate(key)
	if !ok {
		return 0, fmt.Errorf("%w: match url=%s", ErrNotFound, key)
	}
	if _, err := s.GetMatchesByDate(ctx, date); err != nil {
		return 0, err
	}
	if id, ok := s.urls.Get(key); ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: match url=%s", ErrNotFound, key)
}

// urlDate reads the trailing dd-MM-yyyy of a match key.
func (s *FixtureService) urlDate(key string) (time.Time, bool) {
	const layout = "02-01-2006"
	if len(key) < len(layout) {
		return time.Time{}, false
	}
	date, err := time.ParseInLocation(layout, key[len(key)-len(layout):], s.location)
	if err != nil {
		return time.Time{}, false
	}
	return date.Add(12 * time.Hour), true
}

func (s *FixtureService) registerURLs(records []fixture.Record) {
	if len(records) == 0 {
		return
	}
	if s.urls.Len() > maxMatchURLEntries {
		s.urls.Purge()
	}
	for _, r := range records {
		if r.ID <= 0 || r.KickoffAt.IsZero() {
			continue
		}
		s.urls.Set(fixture.URLKey(r, s.location), r.ID)
	}
}
