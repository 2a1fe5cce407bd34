package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/normalize"
)

func newTestCorrelator(t *testing.T) *Correlator {
	t.Helper()
	n, err := normalize.New()
	require.NoError(t, err)
	return NewCorrelator(n)
}

func TestCorrelator_Correlate(t *testing.T) {
	fixtures := []fixture.Record{
		{ID: 1, HomeTeam: "Palmeiras", AwayTeam: "Santos", Venue: "Allianz Parque"},
		{ID: 42, HomeTeam: "CR Flamengo", AwayTeam: "Vasco", Venue: "Maracanã"},
		{ID: 7, HomeTeam: "Botafogo", AwayTeam: "Fluminense", Venue: "Estadio Olimpico Nilton Santos"},
		{ID: 9, HomeTeam: "Ituano", AwayTeam: "Guarani FC", Venue: ""},
	}

	tests := []struct {
		name      string
		candidate Candidate
		wantID    *int64
		want      Strategy
	}{
		{
			name:      "stadium match with differently spelled names",
			candidate: Candidate{HomeName: "SE Palmeiras", AwayName: "Santos FC", VenueName: "Allianz Parque"},
			wantID:    ptr(1),
			want:      StrategyStadium,
		},
		{
			name:      "stadium wins even when names do not match",
			candidate: Candidate{HomeName: "Time A", AwayName: "Time B", VenueName: "Estádio Olímpico Nilton Santos"},
			wantID:    ptr(7),
			want:      StrategyStadium,
		},
		{
			name:      "exact names through alias folding",
			candidate: Candidate{HomeName: "Flamengo", AwayName: "Vasco da Gama"},
			wantID:    ptr(42),
			want:      StrategyExactNames,
		},
		{
			name:      "exact names swapped",
			candidate: Candidate{HomeName: "Vasco", AwayName: "Flamengo"},
			wantID:    ptr(42),
			want:      StrategyExactNames,
		},
		{
			name:      "unknown venue falls through to names",
			candidate: Candidate{HomeName: "Botafogo", AwayName: "Fluminense", VenueName: "Arena da Baixada"},
			wantID:    ptr(7),
			want:      StrategyExactNames,
		},
		{
			name:      "partial names",
			candidate: Candidate{HomeName: "Ituano FC", AwayName: "Guarani"},
			wantID:    ptr(9),
			want:      StrategyPartialNames,
		},
		{
			name:      "no match",
			candidate: Candidate{HomeName: "Remo", AwayName: "Paysandu"},
			want:      StrategyNone,
		},
		{
			name:      "empty candidate never matches",
			candidate: Candidate{},
			want:      StrategyNone,
		},
	}

	c := newTestCorrelator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Correlate([]Candidate{tt.candidate}, fixtures)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Strategy)
			assert.Equal(t, tt.wantID, got[0].FixtureID)
			assert.Equal(t, tt.wantID != nil, got[0].Matched())
			assert.Equal(t, tt.candidate, got[0].Candidate)
		})
	}
}

func TestCorrelator_EndToEndPalmeirasSantos(t *testing.T) {
	c := newTestCorrelator(t)
	candidate := Candidate{HomeName: "SE Palmeiras", AwayName: "Santos FC", VenueName: "Allianz Parque"}

	got := c.Correlate(
		[]Candidate{candidate},
		[]fixture.Record{{ID: 1, HomeTeam: "Palmeiras", AwayTeam: "Santos", Venue: "Allianz Parque"}},
	)

	assert.Equal(t, []Correlation{{Candidate: candidate, FixtureID: ptr(1), Strategy: StrategyStadium}}, got)
}

func TestCorrelator_AmbiguityResolvesToFirstFixture(t *testing.T) {
	c := newTestCorrelator(t)
	fixtures := []fixture.Record{
		{ID: 100, HomeTeam: "Corinthians", AwayTeam: "Ceará", Venue: "Neo Química Arena"},
		{ID: 200, HomeTeam: "Corinthians", AwayTeam: "Ceará", Venue: "Neo Química Arena"},
	}

	got := c.Correlate([]Candidate{
		{HomeName: "Corinthians", AwayName: "Ceará", VenueName: "Arena Neo Química"},
		{HomeName: "Corinthians", AwayName: "Ceará"},
	}, fixtures)

	require.Len(t, got, 2)
	assert.Equal(t, ptr(100), got[1].FixtureID)
	assert.Equal(t, StrategyExactNames, got[1].Strategy)
	// "Arena Neo Química" normalizes to "neoquimica" as well.
	assert.Equal(t, ptr(100), got[0].FixtureID)
	assert.Equal(t, StrategyStadium, got[0].Strategy)
}

func TestCorrelator_StadiumPassRunsBeforeNames(t *testing.T) {
	c := newTestCorrelator(t)
	fixtures := []fixture.Record{
		{ID: 10, HomeTeam: "Palmeiras", AwayTeam: "Santos", Venue: "Vila Belmiro"},
		{ID: 20, HomeTeam: "Palmeiras B", AwayTeam: "Santos B", Venue: "Allianz Parque"},
	}

	got := c.Correlate([]Candidate{{HomeName: "Palmeiras", AwayName: "Santos", VenueName: "Allianz Parque"}}, fixtures)

	require.Len(t, got, 1)
	assert.Equal(t, ptr(20), got[0].FixtureID)
	assert.Equal(t, StrategyStadium, got[0].Strategy)
}

func TestCorrelator_OneResultPerCandidate(t *testing.T) {
	c := newTestCorrelator(t)
	candidates := []Candidate{{HomeName: "A"}, {HomeName: "B"}, {HomeName: "C"}}

	assert.Len(t, c.Correlate(candidates, nil), 3)
	assert.Empty(t, c.Correlate(nil, []fixture.Record{{ID: 1}}))
}

func TestCorrelator_FindBroadcast(t *testing.T) {
	c := newTestCorrelator(t)
	candidates := []Candidate{
		{HomeName: "Grêmio", AwayName: "Internacional", BroadcastText: "Globo"},
		{HomeName: "Esporte Clube Bahia", AwayName: "Vitória", BroadcastText: "Premiere"},
	}

	got, ok := c.FindBroadcast("Vitória", "Bahia", candidates)
	require.True(t, ok)
	assert.Equal(t, "Premiere", got.BroadcastText)

	got, ok = c.FindBroadcast("Gremio", "Sport Club Internacional", candidates)
	require.True(t, ok)
	assert.Equal(t, "Globo", got.BroadcastText)

	_, ok = c.FindBroadcast("Remo", "Paysandu", candidates)
	assert.False(t, ok)

	_, ok = c.FindBroadcast("", "Bahia", candidates)
	assert.False(t, ok)
}

func ptr(id int64) *int64 {
	return &id
}
