package league

import (
	"context"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
)

// FixtureQuery narrows a fixture listing to a league or a team within one
// season. Zero fields are left out of the request.
type FixtureQuery struct {
	LeagueID int64
	TeamID   int64
	Season   int
	From     time.Time
	To       time.Time
	Status   []string
	Last     int
}

// Source is the provider of league, standings and team data.
type Source interface {
	ListLeagues(ctx context.Context, season int) ([]Summary, error)
	GetLeague(ctx context.Context, id int64) (Profile, bool, error)
	ListTeamLeagues(ctx context.Context, teamID int64, season int) ([]Summary, error)
	ListStandings(ctx context.Context, leagueID int64, season int) ([]Standing, error)
	ListTeams(ctx context.Context, leagueID int64, season int) ([]Team, error)
	GetTeam(ctx context.Context, teamID int64) (Team, bool, error)
	ListSquad(ctx context.Context, teamID int64) ([]Player, error)
	ListTopScorers(ctx context.Context, leagueID int64, season int) ([]PlayerTotal, error)
	ListTopAssists(ctx context.Context, leagueID int64, season int) ([]PlayerTotal, error)
	ListFixtures(ctx context.Context, q FixtureQuery) ([]fixture.Record, error)
}
