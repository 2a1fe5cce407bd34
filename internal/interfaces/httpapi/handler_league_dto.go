package httpapi

import (
	"math"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/domain/league"
)

type leagueSummaryDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Country string `json:"country"`
	Logo    string `json:"logo,omitempty"`
	Season  int    `json:"season"`
}

type leagueDetailsDTO struct {
	leagueSummaryDTO
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type standingDTO struct {
	Group          string     `json:"group,omitempty"`
	Rank           int        `json:"rank"`
	Team           teamRefDTO `json:"team"`
	Points         int        `json:"points"`
	Played         int        `json:"played"`
	Won            int        `json:"won"`
	Draw           int        `json:"draw"`
	Lost           int        `json:"lost"`
	GoalsFor       int        `json:"goalsFor"`
	GoalsAgainst   int        `json:"goalsAgainst"`
	GoalDifference int        `json:"goalDifference"`
	Form           string     `json:"form,omitempty"`
	Description    string     `json:"description,omitempty"`
	UpdatedAt      string     `json:"updatedAt,omitempty"`
}

type venueDTO struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	City     string `json:"city,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Image    string `json:"image,omitempty"`
}

type teamDTO struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Code     string   `json:"code,omitempty"`
	Country  string   `json:"country,omitempty"`
	Logo     string   `json:"logo,omitempty"`
	Founded  int      `json:"founded,omitempty"`
	National bool     `json:"national"`
	Venue    venueDTO `json:"venue"`
}

type squadPlayerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age,omitempty"`
	Number   int    `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

type teamDetailsDTO struct {
	teamDTO
	Squad           []squadPlayerDTO   `json:"squad"`
	Leagues         []leagueSummaryDTO `json:"leagues"`
	LastMatches     []matchDTO         `json:"lastMatches"`
	UpcomingMatches []matchDTO         `json:"upcomingMatches"`
	Missing         []string           `json:"missing,omitempty"`
}

type playerTotalDTO struct {
	PlayerID int64      `json:"playerId"`
	Name     string     `json:"name"`
	Photo    string     `json:"photo,omitempty"`
	Team     teamRefDTO `json:"team"`
	Total    int        `json:"total"`
}

type leagueStatsDTO struct {
	LeagueID             int64           `json:"leagueId"`
	Season               int             `json:"season"`
	TotalMatches         int             `json:"totalMatches"`
	TotalGoals           int             `json:"totalGoals"`
	AverageGoalsPerMatch float64         `json:"averageGoalsPerMatch"`
	TopScorer            *playerTotalDTO `json:"topScorer"`
	TopAssister          *playerTotalDTO `json:"topAssister"`
	Missing              []string        `json:"missing,omitempty"`
}

func leagueSummaryToDTO(v league.Summary) leagueSummaryDTO {
	return leagueSummaryDTO{ID: v.ID, Name: v.Name, Type: v.Type, Country: v.Country, Logo: v.Logo, Season: v.Season}
}

func leagueTeamRefToDTO(v league.TeamRef) teamRefDTO {
	return teamRefDTO{ID: v.ID, Name: v.Name, Logo: v.Logo}
}

func standingToDTO(v league.Standing) standingDTO {
	return standingDTO{
		Group:          v.Group,
		Rank:           v.Rank,
		Team:           leagueTeamRefToDTO(v.Team),
		Points:         v.Points,
		Played:         v.Played,
		Won:            v.Won,
		Draw:           v.Draw,
		Lost:           v.Lost,
		GoalsFor:       v.GoalsFor,
		GoalsAgainst:   v.GoalsAgainst,
		GoalDifference: v.GoalDifference,
		Form:           v.Form,
		Description:    v.Description,
		UpdatedAt:      formatTime(v.UpdatedAt),
	}
}

func teamToDTO(v league.Team) teamDTO {
	return teamDTO{
		ID:       v.ID,
		Name:     v.Name,
		Code:     v.Code,
		Country:  v.Country,
		Logo:     v.Logo,
		Founded:  v.Founded,
		National: v.National,
		Venue: venueDTO{
			ID:       v.Venue.ID,
			Name:     v.Venue.Name,
			City:     v.Venue.City,
			Capacity: v.Venue.Capacity,
			Image:    v.Venue.Image,
		},
	}
}

func (h *Handler) teamDetailsToDTO(v league.TeamDetails) teamDetailsDTO {
	out := teamDetailsDTO{
		teamDTO:         teamToDTO(v.Team),
		Squad:           make([]squadPlayerDTO, 0, len(v.Squad)),
		Leagues:         make([]leagueSummaryDTO, 0, len(v.Leagues)),
		LastMatches:     h.matchesToDTO(v.LastMatches),
		UpcomingMatches: h.matchesToDTO(v.UpcomingMatches),
		Missing:         v.Missing,
	}
	for _, p := range v.Squad {
		out.Squad = append(out.Squad, squadPlayerDTO{ID: p.ID, Name: p.Name, Age: p.Age, Number: p.Number, Position: p.Position, Photo: p.Photo})
	}
	for _, l := range v.Leagues {
		out.Leagues = append(out.Leagues, leagueSummaryToDTO(l))
	}
	return out
}

func (h *Handler) matchesToDTO(records []fixture.Record) []matchDTO {
	out := make([]matchDTO, 0, len(records))
	for _, r := range records {
		out = append(out, h.matchToDTO(r))
	}
	return out
}

func playerTotalToDTO(v *league.PlayerTotal) *playerTotalDTO {
	if v == nil {
		return nil
	}
	return &playerTotalDTO{PlayerID: v.PlayerID, Name: v.Name, Photo: v.Photo, Team: leagueTeamRefToDTO(v.Team), Total: v.Total}
}

func leagueStatsToDTO(v league.Stats) leagueStatsDTO {
	return leagueStatsDTO{
		LeagueID:             v.LeagueID,
		Season:               v.Season,
		TotalMatches:         v.TotalMatches,
		TotalGoals:           v.TotalGoals,
		AverageGoalsPerMatch: math.Round(v.AverageGoalsPerMatch*100) / 100,
		TopScorer:            playerTotalToDTO(v.TopScorer),
		TopAssister:          playerTotalToDTO(v.TopAssister),
		Missing:              v.Missing,
	}
}

// formatDay renders a calendar day, empty for the zero time.
func formatDay(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format(time.DateOnly)
}
