package apisports

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
)

type teamPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type fixturePayload struct {
	Fixture struct {
		ID        int64  `json:"id"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Status    struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
	} `json:"league"`
	Teams struct {
		Home teamPayload `json:"home"`
		Away teamPayload `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type playerPayload struct {
	Player struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Number int    `json:"number"`
		Pos    string `json:"pos"`
		Grid   string `json:"grid"`
	} `json:"player"`
}

type lineupPayload struct {
	Team      teamPayload `json:"team"`
	Formation string      `json:"formation"`
	Coach     struct {
		Name string `json:"name"`
	} `json:"coach"`
	StartXI     []playerPayload `json:"startXI"`
	Substitutes []playerPayload `json:"substitutes"`
}

type statisticsPayload struct {
	Team       teamPayload `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

type eventPayload struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team   teamPayload `json:"team"`
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
	Assist struct {
		Name string `json:"name"`
	} `json:"assist"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Comments string `json:"comments"`
}

type predictionPayload struct {
	Predictions struct {
		Winner struct {
			ID      int64  `json:"id"`
			Name    string `json:"name"`
			Comment string `json:"comment"`
		} `json:"winner"`
		WinOrDraw bool   `json:"win_or_draw"`
		UnderOver string `json:"under_over"`
		Advice    string `json:"advice"`
		Percent   struct {
			Home string `json:"home"`
			Draw string `json:"draw"`
			Away string `json:"away"`
		} `json:"percent"`
	} `json:"predictions"`
}

type oddsPayload struct {
	Update     string `json:"update"`
	Bookmakers []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Bets []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value any    `json:"value"`
				Odd   string `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

func mapFixture(item fixturePayload) fixture.Record {
	return fixture.Record{
		ID:            item.Fixture.ID,
		KickoffAt:     parseKickoff(item.Fixture.Date, item.Fixture.Timestamp),
		Status:        fixture.StatusFromShort(item.Fixture.Status.Short),
		StatusShort:   strings.TrimSpace(item.Fixture.Status.Short),
		StatusLong:    strings.TrimSpace(item.Fixture.Status.Long),
		Elapsed:       item.Fixture.Status.Elapsed,
		HomeTeamID:    item.Teams.Home.ID,
		HomeTeam:      strings.TrimSpace(item.Teams.Home.Name),
		HomeLogo:      strings.TrimSpace(item.Teams.Home.Logo),
		AwayTeamID:    item.Teams.Away.ID,
		AwayTeam:      strings.TrimSpace(item.Teams.Away.Name),
		AwayLogo:      strings.TrimSpace(item.Teams.Away.Logo),
		Venue:         strings.TrimSpace(item.Fixture.Venue.Name),
		VenueCity:     strings.TrimSpace(item.Fixture.Venue.City),
		LeagueID:      item.League.ID,
		League:        strings.TrimSpace(item.League.Name),
		LeagueCountry: strings.TrimSpace(item.League.Country),
		LeagueLogo:    strings.TrimSpace(item.League.Logo),
		HomeGoals:     item.Goals.Home,
		AwayGoals:     item.Goals.Away,
	}
}

func mapFixtures(items []fixturePayload) []fixture.Record {
	out := make([]fixture.Record, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item))
	}
	return out
}

func mapTeam(item teamPayload) fixture.TeamRef {
	return fixture.TeamRef{ID: item.ID, Name: strings.TrimSpace(item.Name), Logo: strings.TrimSpace(item.Logo)}
}

func mapPlayers(items []playerPayload) []fixture.LineupPlayer {
	out := make([]fixture.LineupPlayer, 0, len(items))
	for _, item := range items {
		out = append(out, fixture.LineupPlayer{
			ID:       item.Player.ID,
			Name:     strings.TrimSpace(item.Player.Name),
			Number:   item.Player.Number,
			Position: strings.TrimSpace(item.Player.Pos),
			Grid:     strings.TrimSpace(item.Player.Grid),
		})
	}
	return out
}

func mapLineups(items []lineupPayload) []fixture.Lineup {
	out := make([]fixture.Lineup, 0, len(items))
	for _, item := range items {
		out = append(out, fixture.Lineup{
			Team:        mapTeam(item.Team),
			Formation:   strings.TrimSpace(item.Formation),
			Coach:       strings.TrimSpace(item.Coach.Name),
			StartXI:     mapPlayers(item.StartXI),
			Substitutes: mapPlayers(item.Substitutes),
		})
	}
	return out
}

func mapStatistics(items []statisticsPayload) []fixture.TeamStatistics {
	out := make([]fixture.TeamStatistics, 0, len(items))
	for _, item := range items {
		values := make([]fixture.StatValue, 0, len(item.Statistics))
		for _, stat := range item.Statistics {
			values = append(values, fixture.StatValue{Type: strings.TrimSpace(stat.Type), Value: valueText(stat.Value)})
		}
		out = append(out, fixture.TeamStatistics{Team: mapTeam(item.Team), Values: values})
	}
	return out
}

func mapEvents(items []eventPayload) []fixture.Event {
	out := make([]fixture.Event, 0, len(items))
	for _, item := range items {
		out = append(out, fixture.Event{
			Elapsed:  item.Time.Elapsed,
			Extra:    item.Time.Extra,
			Team:     mapTeam(item.Team),
			Player:   strings.TrimSpace(item.Player.Name),
			Assist:   strings.TrimSpace(item.Assist.Name),
			Type:     strings.TrimSpace(item.Type),
			Detail:   strings.TrimSpace(item.Detail),
			Comments: strings.TrimSpace(item.Comments),
		})
	}
	return out
}

func mapPrediction(item predictionPayload) *fixture.Prediction {
	p := item.Predictions
	return &fixture.Prediction{
		WinnerID:      p.Winner.ID,
		WinnerName:    strings.TrimSpace(p.Winner.Name),
		WinnerComment: strings.TrimSpace(p.Winner.Comment),
		WinOrDraw:     p.WinOrDraw,
		UnderOver:     strings.TrimSpace(p.UnderOver),
		Advice:        strings.TrimSpace(p.Advice),
		PercentHome:   strings.TrimSpace(p.Percent.Home),
		PercentDraw:   strings.TrimSpace(p.Percent.Draw),
		PercentAway:   strings.TrimSpace(p.Percent.Away),
	}
}

func mapOdds(item oddsPayload) *fixture.Odds {
	out := &fixture.Odds{UpdatedAt: parseKickoff(item.Update, 0)}
	for _, bm := range item.Bookmakers {
		bookmaker := fixture.Bookmaker{ID: bm.ID, Name: strings.TrimSpace(bm.Name)}
		for _, b := range bm.Bets {
			bet := fixture.Bet{ID: b.ID, Name: strings.TrimSpace(b.Name)}
			for _, v := range b.Values {
				bet.Values = append(bet.Values, fixture.OddValue{Value: valueText(v.Value), Odd: strings.TrimSpace(v.Odd)})
			}
			bookmaker.Bets = append(bookmaker.Bets, bet)
		}
		out.Bookmakers = append(out.Bookmakers, bookmaker)
	}
	return out
}

// parseKickoff prefers the ISO date, falling back to the unix timestamp.
func parseKickoff(raw string, timestamp int64) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed
		}
	}
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC()
	}
	return time.Time{}
}

// valueText renders a provider value that may be a number, a string or null.
func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
