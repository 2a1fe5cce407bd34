package apisports

import (
	"strings"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/league"
)

type leaguePayload struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []struct {
		Year    int    `json:"year"`
		Start   string `json:"start"`
		End     string `json:"end"`
		Current bool   `json:"current"`
	} `json:"seasons"`
}

type standingRowPayload struct {
	Rank        int         `json:"rank"`
	Team        teamPayload `json:"team"`
	Points      int         `json:"points"`
	GoalsDiff   int         `json:"goalsDiff"`
	Group       string      `json:"group"`
	Form        string      `json:"form"`
	Description string      `json:"description"`
	All         struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
	Update string `json:"update"`
}

type standingsPayload struct {
	League struct {
		ID        int64                  `json:"id"`
		Season    int                    `json:"season"`
		Standings [][]standingRowPayload `json:"standings"`
	} `json:"league"`
}

type teamInfoPayload struct {
	Team struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Code     string `json:"code"`
		Country  string `json:"country"`
		Founded  *int   `json:"founded"`
		National bool   `json:"national"`
		Logo     string `json:"logo"`
	} `json:"team"`
	Venue struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		City     string `json:"city"`
		Capacity *int   `json:"capacity"`
		Image    string `json:"image"`
	} `json:"venue"`
}

type squadPayload struct {
	Players []struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Age      *int   `json:"age"`
		Number   *int   `json:"number"`
		Position string `json:"position"`
		Photo    string `json:"photo"`
	} `json:"players"`
}

type leaderPayload struct {
	Player struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Photo string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Team  teamPayload `json:"team"`
		Goals struct {
			Total   *int `json:"total"`
			Assists *int `json:"assists"`
		} `json:"goals"`
	} `json:"statistics"`
}

func intOr(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// parseDay reads a yyyy-MM-dd season boundary; bad input yields zero time.
func parseDay(raw string) time.Time {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func mapLeagueProfile(item leaguePayload) league.Profile {
	out := league.Profile{Summary: league.Summary{
		ID:      item.League.ID,
		Name:    strings.TrimSpace(item.League.Name),
		Type:    strings.TrimSpace(item.League.Type),
		Country: strings.TrimSpace(item.Country.Name),
		Logo:    strings.TrimSpace(item.League.Logo),
	}}
	for _, s := range item.Seasons {
		out.Seasons = append(out.Seasons, league.Season{
			Year:    s.Year,
			Start:   parseDay(s.Start),
			End:     parseDay(s.End),
			Current: s.Current,
		})
	}
	return out
}

// mapLeagueSummaries keeps leagues that cover season. season <= 0 keeps all,
// stamped with their first listed season.
func mapLeagueSummaries(items []leaguePayload, season int) []league.Summary {
	out := make([]league.Summary, 0, len(items))
	for _, item := range items {
		if item.League.ID <= 0 {
			continue
		}
		profile := mapLeagueProfile(item)
		summary := profile.Summary
		switch {
		case season > 0:
			if _, ok := profile.SeasonOf(season); !ok {
				continue
			}
			summary.Season = season
		case len(profile.Seasons) > 0:
			summary.Season = profile.Seasons[0].Year
		}
		out = append(out, summary)
	}
	return out
}

func mapStandings(items []standingsPayload) []league.Standing {
	var out []league.Standing
	for _, item := range items {
		for _, group := range item.League.Standings {
			for _, row := range group {
				out = append(out, league.Standing{
					Group:          strings.TrimSpace(row.Group),
					Rank:           row.Rank,
					Team:           league.TeamRef{ID: row.Team.ID, Name: strings.TrimSpace(row.Team.Name), Logo: strings.TrimSpace(row.Team.Logo)},
					Points:         row.Points,
					Played:         row.All.Played,
					Won:            row.All.Win,
					Draw:           row.All.Draw,
					Lost:           row.All.Lose,
					GoalsFor:       row.All.Goals.For,
					GoalsAgainst:   row.All.Goals.Against,
					GoalDifference: row.GoalsDiff,
					Form:           strings.TrimSpace(row.Form),
					Description:    strings.TrimSpace(row.Description),
					UpdatedAt:      parseKickoff(row.Update, 0),
				})
			}
		}
	}
	return out
}

func mapTeamInfo(item teamInfoPayload) league.Team {
	return league.Team{
		ID:       item.Team.ID,
		Name:     strings.TrimSpace(item.Team.Name),
		Code:     strings.TrimSpace(item.Team.Code),
		Country:  strings.TrimSpace(item.Team.Country),
		Logo:     strings.TrimSpace(item.Team.Logo),
		Founded:  intOr(item.Team.Founded),
		National: item.Team.National,
		Venue: league.Venue{
			ID:       item.Venue.ID,
			Name:     strings.TrimSpace(item.Venue.Name),
			City:     strings.TrimSpace(item.Venue.City),
			Capacity: intOr(item.Venue.Capacity),
			Image:    strings.TrimSpace(item.Venue.Image),
		},
	}
}

func mapTeams(items []teamInfoPayload) []league.Team {
	out := make([]league.Team, 0, len(items))
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		out = append(out, mapTeamInfo(item))
	}
	return out
}

func mapSquad(items []squadPayload) []league.Player {
	var out []league.Player
	for _, item := range items {
		for _, p := range item.Players {
			out = append(out, league.Player{
				ID:       p.ID,
				Name:     strings.TrimSpace(p.Name),
				Age:      intOr(p.Age),
				Number:   intOr(p.Number),
				Position: strings.TrimSpace(p.Position),
				Photo:    strings.TrimSpace(p.Photo),
			})
		}
	}
	return out
}

// mapLeaders reads goals or assists from each player's first statistics
// block, the one for the requested league.
func mapLeaders(items []leaderPayload, assists bool) []league.PlayerTotal {
	out := make([]league.PlayerTotal, 0, len(items))
	for _, item := range items {
		total := league.PlayerTotal{
			PlayerID: item.Player.ID,
			Name:     strings.TrimSpace(item.Player.Name),
			Photo:    strings.TrimSpace(item.Player.Photo),
		}
		if len(item.Statistics) > 0 {
			stat := item.Statistics[0]
			total.Team = league.TeamRef{ID: stat.Team.ID, Name: strings.TrimSpace(stat.Team.Name), Logo: strings.TrimSpace(stat.Team.Logo)}
			if assists {
				total.Total = intOr(stat.Goals.Assists)
			} else {
				total.Total = intOr(stat.Goals.Total)
			}
		}
		out = append(out, total)
	}
	return out
}
