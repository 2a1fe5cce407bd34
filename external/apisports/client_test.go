package apisports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const fixturesBody = `{
  "get": "fixtures",
  "errors": [],
  "results": 1,
  "response": [{
    "fixture": {
      "id": 1035045,
      "date": "2025-05-18T16:00:00-03:00",
      "timestamp": 1747594800,
      "status": {"long": "Match Finished", "short": "FT", "elapsed": 90},
      "venue": {"name": "Allianz Parque", "city": "São Paulo"}
    },
    "league": {"id": 71, "name": "Serie A", "country": "Brazil", "logo": "https://media.api-sports.io/football/leagues/71.png"},
    "teams": {
      "home": {"id": 121, "name": "Palmeiras", "logo": "https://media.api-sports.io/football/teams/121.png"},
      "away": {"id": 128, "name": "Santos", "logo": "https://media.api-sports.io/football/teams/128.png"}
    },
    "goals": {"home": 2, "away": null}
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		Logger:     logging.NewNop(),
		Retry:      resilience.DefaultRetryPolicy(),
		FetcherOptions: []resilience.FetcherOption{
			resilience.WithSleeper(func(context.Context, time.Duration) error { return nil }),
		},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestClient_ListByDate(t *testing.T) {
	var gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get(apiKeyHeader)
		assert.Equal(t, "/fixtures", r.URL.Path)
		_, _ = w.Write([]byte(fixturesBody))
	})

	// 01:30 UTC on the 19th is still the 18th in São Paulo.
	records, err := client.ListByDate(context.Background(), time.Date(2025, 5, 19, 1, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "date=2025-05-18&timezone=America%2FSao_Paulo", gotQuery)
	assert.Equal(t, "secret-key", gotKey)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, int64(1035045), got.ID)
	assert.Equal(t, "Palmeiras", got.HomeTeam)
	assert.Equal(t, "Santos", got.AwayTeam)
	assert.Equal(t, "Allianz Parque", got.Venue)
	assert.Equal(t, fixture.StatusFinished, got.Status)
	assert.Equal(t, "FT", got.StatusShort)
	require.NotNil(t, got.HomeGoals)
	assert.Equal(t, 2, *got.HomeGoals)
	assert.Nil(t, got.AwayGoals)
	assert.True(t, got.KickoffAt.Equal(time.Date(2025, 5, 18, 19, 0, 0, 0, time.UTC)))
}

func TestClient_ListByDateAndStatusJoinsCodes(t *testing.T) {
	var status string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		status = r.URL.Query().Get("status")
		_, _ = w.Write([]byte(`{"errors": [], "results": 0, "response": []}`))
	})

	records, err := client.ListByDateAndStatus(context.Background(), time.Now(), fixture.FinishedShortCodes)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "FT-AET-PEN", status)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(fixturesBody))
	})

	records, err := client.ListLive(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_EnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want resilience.Kind
	}{
		{
			name: "daily quota",
			body: `{"errors": {"requests": "You have reached the request limit for the day"}, "results": 0, "response": []}`,
			want: resilience.KindRateLimited,
		},
		{
			name: "per minute limit",
			body: `{"errors": {"rateLimit": "Too many requests. Your rate limit is 10 requests per minute."}, "results": 0, "response": []}`,
			want: resilience.KindRateLimited,
		},
		{
			name: "bad token",
			body: `{"errors": {"token": "Error/Missing application key."}, "results": 0, "response": []}`,
			want: resilience.KindClient,
		},
		{
			name: "not json",
			body: `<html>gateway</html>`,
			want: resilience.KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ListLive(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, resilience.KindOf(err))
		})
	}
}

func TestClient_GetByIDEmptyIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "99", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"errors": [], "results": 0, "response": []}`))
	})

	_, found, err := client.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_DetailSubResources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("fixture"))
		switch r.URL.Path {
		case "/fixtures/statistics":
			_, _ = w.Write([]byte(`{"errors": [], "response": [{"team": {"id": 1, "name": "Home"}, "statistics": [
				{"type": "Shots on Goal", "value": 6},
				{"type": "Ball Possession", "value": "54%"},
				{"type": "Red Cards", "value": null}
			]}]}`))
		case "/fixtures/events":
			_, _ = w.Write([]byte(`{"errors": [], "response": [{"time": {"elapsed": 45, "extra": 2}, "team": {"id": 1, "name": "Home"},
				"player": {"id": 5, "name": "Striker"}, "assist": {"id": null, "name": null}, "type": "Goal", "detail": "Normal Goal", "comments": null}]}`))
		case "/predictions":
			_, _ = w.Write([]byte(`{"errors": [], "response": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	stats, err := client.ListStatistics(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, []fixture.StatValue{
		{Type: "Shots on Goal", Value: "6"},
		{Type: "Ball Possession", Value: "54%"},
		{Type: "Red Cards", Value: ""},
	}, stats[0].Values)

	events, err := client.ListEvents(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Striker", events[0].Player)
	require.NotNil(t, events[0].Extra)
	assert.Equal(t, 2, *events[0].Extra)

	prediction, err := client.GetPrediction(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, prediction)

	_, err = client.GetOdds(ctx, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, resilience.ErrNotFound))
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.Retry = resilience.FixedRetryPolicy(0, 0)
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.ListLive(ctx)
		require.Error(t, err)
		assert.Equal(t, resilience.KindTransient, resilience.KindOf(err))
	}

	err := client.Ping(ctx)
	require.Error(t, err)
	assert.Equal(t, resilience.KindCircuitOpen, resilience.KindOf(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_SharedRequestSurvivesCanceledCaller(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte(fixturesBody))
	})
	day := time.Date(2025, 5, 18, 12, 0, 0, 0, time.UTC)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ListByDate(firstCtx, day)
		firstErr <- err
	}()
	<-started

	type result struct {
		records []fixture.Record
		err     error
	}
	second := make(chan result, 1)
	go func() {
		records, err := client.ListByDate(context.Background(), day)
		second <- result{records, err}
	}()

	cancelFirst()
	err := <-firstErr
	require.Error(t, err)
	assert.Equal(t, resilience.KindCanceled, resilience.KindOf(err))

	close(release)
	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.records, 1)
}

func TestClient_SanitizeRedactsKey(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "abc123", Logger: logging.NewNop()})
	require.NoError(t, err)

	got := client.sanitize(`GET https://v3.football.api-sports.io/fixtures?key=zzz failed: header abc123`)
	assert.Equal(t, `GET https://v3.football.api-sports.io/fixtures?key=REDACTED failed: header REDACTED`, got)
}

func TestNewClient_RejectsUnknownTimezone(t *testing.T) {
	_, err := NewClient(ClientConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)
}
