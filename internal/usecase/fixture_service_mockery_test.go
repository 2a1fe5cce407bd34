package usecase

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	fixturemock "github.com/riskibarqy/matchcast/internal/mocks/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 5, 18, 15, 0, 0, 0, saoPaulo)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestFixtureService(source fixture.Source, clock *testClock) *FixtureService {
	return NewFixtureService(source, FixtureServiceConfig{
		CacheTTL:     time.Minute,
		LiveCacheTTL: 15 * time.Second,
		Location:     saoPaulo,
		Now:          clock.Now,
		Logger:       logging.NewNop(),
	})
}

func sampleRecords() []fixture.Record {
	return []fixture.Record{
		{
			ID:        1,
			HomeTeam:  "Palmeiras",
			AwayTeam:  "Santos",
			Venue:     "Allianz Parque",
			League:    "Brasileirão Série A",
			KickoffAt: time.Date(2025, 5, 18, 19, 0, 0, 0, time.UTC),
			Status:    fixture.StatusScheduled,
		},
		{
			ID:        42,
			HomeTeam:  "Flamengo",
			AwayTeam:  "Vasco DA Gama",
			Venue:     "Maracanã",
			League:    "Brasileirão Série A",
			KickoffAt: time.Date(2025, 5, 18, 21, 30, 0, 0, time.UTC),
			Status:    fixture.StatusScheduled,
		},
	}
}

func sameDay(want string) interface{} {
	return mock.MatchedBy(func(v time.Time) bool { return v.In(saoPaulo).Format(time.DateOnly) == want })
}

func TestFixtureService_GetMatchesByDate_CachesPerDay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newTestClock()
	source := fixturemock.NewSource(t)
	service := newTestFixtureService(source, clock)

	source.On("ListByDate", mock.Anything, sameDay("2025-05-18")).Return(sampleRecords(), nil).Twice()

	for i := 0; i < 3; i++ {
		got, err := service.GetTodayMatches(ctx)
		if err != nil {
			t.Fatalf("get today matches: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("unexpected match count: got=%d want=2", len(got))
		}
	}

	clock.Advance(time.Minute + time.Second)
	if _, err := service.GetMatchesByDate(ctx, clock.Now()); err != nil {
		t.Fatalf("get matches after expiry: %v", err)
	}
}

func TestFixtureService_GetTomorrowMatches_UsesNextCalendarDay(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	source := fixturemock.NewSource(t)
	service := newTestFixtureService(source, clock)

	source.On("ListByDate", mock.Anything, sameDay("2025-05-19")).Return([]fixture.Record{}, nil).Once()

	got, err := service.GetTomorrowMatches(context.Background())
	if err != nil {
		t.Fatalf("get tomorrow matches: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got=%d", len(got))
	}
}

func TestFixtureService_LiveAndFinished(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newTestClock()
	source := fixturemock.NewSource(t)
	service := newTestFixtureService(source, clock)

	live := sampleRecords()[:1]
	live[0].Status = fixture.StatusLive
	source.On("ListLive", mock.Anything).Return(live, nil).Once()
	source.On("ListByDateAndStatus", mock.Anything, sameDay("2025-05-18"), fixture.FinishedShortCodes).Return(sampleRecords()[1:], nil).Once()

	for i := 0; i < 2; i++ {
		got, err := service.GetLiveMatches(ctx)
		if err != nil {
			t.Fatalf("get live matches: %v", err)
		}
		if len(got) != 1 || !got[0].Status.IsLive() {
			t.Fatalf("unexpected live matches: %+v", got)
		}
	}

	got, err := service.GetFinishedMatches(ctx)
	if err != nil {
		t.Fatalf("get finished matches: %v", err)
	}
	if len(got) != 1 || got[0].ID != 42 {
		t.Fatalf("unexpected finished matches: %+v", got)
	}
}

func TestFixtureService_UpstreamErrorsAreClassified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind resilience.Kind
		want error
	}{
		{name: "rate limited", kind: resilience.KindRateLimited, want: ErrRateLimited},
		{name: "transient", kind: resilience.KindTransient, want: ErrDependencyUnavailable},
		{name: "circuit open", kind: resilience.KindCircuitOpen, want: ErrDependencyUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := fixturemock.NewSource(t)
			service := newTestFixtureService(source, newTestClock())
			source.On("ListLive", mock.Anything).
				Return(nil, resilience.NewFetchError("apisports", tt.kind, errors.New("upstream said no"))).
				Once()

			_, err := service.GetLiveMatches(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got := resilience.KindOf(err); got != tt.kind {
				t.Fatalf("kind lost while wrapping: got=%s want=%s", got, tt.kind)
			}
		})
	}
}

func expectDetailParts(source *fixturemock.Source, id int64, lineupsErr, oddsErr error) {
	source.On("ListLineups", mock.Anything, id).Return([]fixture.Lineup{{Formation: "4-3-3"}}, lineupsErr).Once()
	source.On("ListStatistics", mock.Anything, id).Return([]fixture.TeamStatistics{{Team: fixture.TeamRef{ID: 121}}}, nil).Once()
	source.On("ListEvents", mock.Anything, id).Return([]fixture.Event{{Elapsed: 12, Type: "Goal"}}, nil).Once()
	source.On("GetPrediction", mock.Anything, id).Return(&fixture.Prediction{Advice: "Winner: Palmeiras"}, nil).Once()
	source.On("GetOdds", mock.Anything, id).Return((*fixture.Odds)(nil), oddsErr).Once()
}

func TestFixtureService_GetMatchDetails_OptionalPartsFailIndependently(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	service := newTestFixtureService(source, newTestClock())
	record := sampleRecords()[0]

	source.On("GetByID", mock.Anything, int64(1)).Return(record, true, nil).Once()
	expectDetailParts(source, 1, errors.New("lineups timeout"), errors.New("odds 500"))

	got, err := service.GetMatchDetails(context.Background(), 1)
	if err != nil {
		t.Fatalf("get match details: %v", err)
	}
	if got.ID != 1 || got.HomeTeam != "Palmeiras" {
		t.Fatalf("unexpected record: %+v", got.Record)
	}
	if want := []string{PartLineups, PartOdds}; !reflect.DeepEqual(got.Missing, want) {
		t.Fatalf("unexpected missing parts: got=%v want=%v", got.Missing, want)
	}
	if len(got.Statistics) != 1 || len(got.Events) != 1 || got.Prediction == nil {
		t.Fatalf("successful parts were dropped: %+v", got)
	}
}

func TestFixtureService_GetMatchDetails_PrimaryFailures(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		source := fixturemock.NewSource(t)
		service := newTestFixtureService(source, newTestClock())
		source.On("GetByID", mock.Anything, int64(9)).Return(fixture.Record{}, false, nil).Once()
		expectDetailParts(source, 9, nil, nil)

		_, err := service.GetMatchDetails(context.Background(), 9)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("primary error", func(t *testing.T) {
		t.Parallel()
		source := fixturemock.NewSource(t)
		service := newTestFixtureService(source, newTestClock())
		source.On("GetByID", mock.Anything, int64(9)).
			Return(fixture.Record{}, false, resilience.NewFetchError("apisports", resilience.KindTransient, errors.New("503"))).
			Once()
		expectDetailParts(source, 9, nil, nil)

		_, err := service.GetMatchDetails(context.Background(), 9)
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		service := newTestFixtureService(fixturemock.NewSource(t), newTestClock())
		if _, err := service.GetMatchDetails(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestFixtureService_MatchURLRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := fixturemock.NewSource(t)
	service := newTestFixtureService(source, newTestClock())

	source.On("ListByDate", mock.Anything, sameDay("2025-05-18")).Return(sampleRecords(), nil).Once()

	url := service.MatchURL(sampleRecords()[0])
	if url != "/jogo/brasileirao-serie-a/palmeiras-vs-santos-18-05-2025" {
		t.Fatalf("unexpected match url: %s", url)
	}

	// The first resolve loads the key's date; the second is served from memory.
	for i := 0; i < 2; i++ {
		id, err := service.ResolveMatchURL(ctx, url)
		if err != nil {
			t.Fatalf("resolve match url: %v", err)
		}
		if id != 1 {
			t.Fatalf("unexpected id: got=%d want=1", id)
		}
	}

	id, err := service.ResolveMatchURL(ctx, "brasileirao-serie-a/flamengo-vs-vasco-da-gama-18-05-2025")
	if err != nil || id != 42 {
		t.Fatalf("resolve without prefix: id=%d err=%v", id, err)
	}

	if _, err := service.ResolveMatchURL(ctx, "/jogo/unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for undated key, got %v", err)
	}
	if _, err := service.ResolveMatchURL(ctx, " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
