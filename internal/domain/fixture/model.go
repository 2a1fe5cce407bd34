package fixture

import (
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusHalftime  Status = "halftime"
	StatusFinished  Status = "finished"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
	StatusAbandoned Status = "abandoned"
	StatusUnknown   Status = "unknown"
)

// FinishedShortCodes are the provider codes of a completed match.
var FinishedShortCodes = []string{"FT", "AET", "PEN"}

// StatusFromShort maps a provider short status code onto Status.
func StatusFromShort(short string) Status {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "TBD", "NS":
		return StatusScheduled
	case "1H", "2H", "ET", "BT", "P", "LIVE", "INT", "SUSP":
		return StatusLive
	case "HT":
		return StatusHalftime
	case "FT", "AET", "PEN", "AWD", "WO":
		return StatusFinished
	case "PST":
		return StatusPostponed
	case "CANC":
		return StatusCancelled
	case "ABD":
		return StatusAbandoned
	default:
		return StatusUnknown
	}
}

func (s Status) IsLive() bool {
	return s == StatusLive || s == StatusHalftime
}

func (s Status) IsFinished() bool {
	return s == StatusFinished
}

func (s Status) IsCancelledLike() bool {
	switch s {
	case StatusPostponed, StatusCancelled, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Record is one match as reported by the authoritative provider. It is a
// snapshot: later fetches supersede it, nothing mutates it.
type Record struct {
	ID            int64
	KickoffAt     time.Time
	Status        Status
	StatusShort   string
	StatusLong    string
	Elapsed       *int
	HomeTeamID    int64
	HomeTeam      string
	HomeLogo      string
	AwayTeamID    int64
	AwayTeam      string
	AwayLogo      string
	Venue         string
	VenueCity     string
	LeagueID      int64
	League        string
	LeagueCountry string
	LeagueLogo    string
	HomeGoals     *int
	AwayGoals     *int
}

// Details is a Record assembled with its optional sub-resources. Missing
// names the sub-resources that could not be fetched.
type Details struct {
	Record
	Lineups    []Lineup
	Statistics []TeamStatistics
	Events     []Event
	Prediction *Prediction
	Odds       *Odds
	Missing    []string
}

type TeamRef struct {
	ID   int64
	Name string
	Logo string
}

type LineupPlayer struct {
	ID       int64
	Name     string
	Number   int
	Position string
	Grid     string
}

type Lineup struct {
	Team        TeamRef
	Formation   string
	Coach       string
	StartXI     []LineupPlayer
	Substitutes []LineupPlayer
}

// StatValue keeps the provider value as text; it may be a count, a
// percentage such as "54%", or empty.
type StatValue struct {
	Type  string
	Value string
}

type TeamStatistics struct {
	Team   TeamRef
	Values []StatValue
}

type Event struct {
	Elapsed  int
	Extra    *int
	Team     TeamRef
	Player   string
	Assist   string
	Type     string
	Detail   string
	Comments string
}

type Prediction struct {
	WinnerID      int64
	WinnerName    string
	WinnerComment string
	WinOrDraw     bool
	UnderOver     string
	Advice        string
	PercentHome   string
	PercentDraw   string
	PercentAway   string
}

type OddValue struct {
	Value string
	Odd   string
}

type Bet struct {
	ID     int64
	Name   string
	Values []OddValue
}

type Bookmaker struct {
	ID   int64
	Name string
	Bets []Bet
}

type Odds struct {
	UpdatedAt  time.Time
	Bookmakers []Bookmaker
}
