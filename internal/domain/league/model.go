package league

import (
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
)

// Summary is one entry of the league catalogue.
type Summary struct {
	ID      int64
	Name    string
	Type    string
	Country string
	Logo    string
	Season  int
}

// Season is one edition of a league. Start and End are calendar days.
type Season struct {
	Year    int
	Start   time.Time
	End     time.Time
	Current bool
}

// Profile is a league with every season the provider covers.
type Profile struct {
	Summary
	Seasons []Season
}

// SeasonOf returns the season starting in year.
func (p Profile) SeasonOf(year int) (Season, bool) {
	for _, s := range p.Seasons {
		if s.Year == year {
			return s, true
		}
	}
	return Season{}, false
}

// League is a league narrowed to a single season.
type League struct {
	Summary
	Start time.Time
	End   time.Time
}

type TeamRef struct {
	ID   int64
	Name string
	Logo string
}

// Standing is one table row. Competitions with groups report one table per
// group; Group tells them apart and Rank restarts in each.
type Standing struct {
	Group          string
	Rank           int
	Team           TeamRef
	Points         int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Form           string
	Description    string
	UpdatedAt      time.Time
}

type Venue struct {
	ID       int64
	Name     string
	City     string
	Capacity int
	Image    string
}

type Team struct {
	ID       int64
	Name     string
	Code     string
	Country  string
	Logo     string
	Founded  int
	National bool
	Venue    Venue
}

type Player struct {
	ID       int64
	Name     string
	Age      int
	Number   int
	Position string
	Photo    string
}

// PlayerTotal is a player's season tally in one leaderboard, goals or
// assists.
type PlayerTotal struct {
	PlayerID int64
	Name     string
	Photo    string
	Team     TeamRef
	Total    int
}

// Stats summarizes the finished matches of a league season.
type Stats struct {
	LeagueID             int64
	Season               int
	TotalMatches         int
	TotalGoals           int
	AverageGoalsPerMatch float64
	TopScorer            *PlayerTotal
	TopAssister          *PlayerTotal
	Missing              []string
}

// TeamDetails is a team with its optional parts. Missing names the parts
// that could not be fetched.
type TeamDetails struct {
	Team
	Squad           []Player
	Leagues         []Summary
	LastMatches     []fixture.Record
	UpcomingMatches []fixture.Record
	Missing         []string
}
