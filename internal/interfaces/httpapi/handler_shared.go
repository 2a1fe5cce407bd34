package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchcast/internal/domain/broadcast"
	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/platform/imageloader"
	"github.com/riskibarqy/matchcast/internal/usecase"
)

var errBroadcastDisabled = fmt.Errorf("%w: broadcast listing is disabled", usecase.ErrDependencyUnavailable)

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type matchesByDateRequest struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

type broadcastLookupRequest struct {
	Home string `validate:"required,max=120"`
	Away string `validate:"required,max=120"`
}

type imageRequest struct {
	URL string `validate:"required,http_url,max=2048"`
}

type statusDTO struct {
	Upstream         usecase.UpstreamStatus `json:"upstream"`
	BroadcastEnabled bool                   `json:"broadcastEnabled"`
	Images           *imageloader.Stats     `json:"images,omitempty"`
}

type teamSideDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo,omitempty"`
	Goals *int   `json:"goals"`
}

type leagueDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

type matchDTO struct {
	ID          int64       `json:"id"`
	KickoffAt   string      `json:"kickoffAt"`
	Status      string      `json:"status"`
	StatusShort string      `json:"statusShort,omitempty"`
	StatusLong  string      `json:"statusLong,omitempty"`
	Elapsed     *int        `json:"elapsed,omitempty"`
	Home        teamSideDTO `json:"home"`
	Away        teamSideDTO `json:"away"`
	Venue       string      `json:"venue,omitempty"`
	VenueCity   string      `json:"venueCity,omitempty"`
	League      leagueDTO   `json:"league"`
	MatchURL    string      `json:"matchUrl"`
}

type teamRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type lineupPlayerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position,omitempty"`
	Grid     string `json:"grid,omitempty"`
}

type lineupDTO struct {
	Team        teamRefDTO        `json:"team"`
	Formation   string            `json:"formation,omitempty"`
	Coach       string            `json:"coach,omitempty"`
	StartXI     []lineupPlayerDTO `json:"startXI"`
	Substitutes []lineupPlayerDTO `json:"substitutes"`
}

type statValueDTO struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type teamStatisticsDTO struct {
	Team   teamRefDTO     `json:"team"`
	Values []statValueDTO `json:"values"`
}

type eventDTO struct {
	Elapsed  int        `json:"elapsed"`
	Extra    *int       `json:"extra,omitempty"`
	Team     teamRefDTO `json:"team"`
	Player   string     `json:"player,omitempty"`
	Assist   string     `json:"assist,omitempty"`
	Type     string     `json:"type"`
	Detail   string     `json:"detail,omitempty"`
	Comments string     `json:"comments,omitempty"`
}

type predictionDTO struct {
	WinnerID      int64  `json:"winnerId,omitempty"`
	WinnerName    string `json:"winnerName,omitempty"`
	WinnerComment string `json:"winnerComment,omitempty"`
	WinOrDraw     bool   `json:"winOrDraw"`
	UnderOver     string `json:"underOver,omitempty"`
	Advice        string `json:"advice,omitempty"`
	PercentHome   string `json:"percentHome,omitempty"`
	PercentDraw   string `json:"percentDraw,omitempty"`
	PercentAway   string `json:"percentAway,omitempty"`
}

type oddValueDTO struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

type betDTO struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Values []oddValueDTO `json:"values"`
}

type bookmakerDTO struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Bets []betDTO `json:"bets"`
}

type oddsDTO struct {
	UpdatedAt  string         `json:"updatedAt,omitempty"`
	Bookmakers []bookmakerDTO `json:"bookmakers"`
}

type matchDetailsDTO struct {
	matchDTO
	Lineups    []lineupDTO         `json:"lineups"`
	Statistics []teamStatisticsDTO `json:"statistics"`
	Events     []eventDTO          `json:"events"`
	Prediction *predictionDTO      `json:"prediction,omitempty"`
	Odds       *oddsDTO            `json:"odds,omitempty"`
	Broadcast  *string             `json:"broadcast,omitempty"`
	Missing    []string            `json:"missing,omitempty"`
}

type correlationDTO struct {
	Candidate broadcast.Candidate `json:"candidate"`
	FixtureID *int64              `json:"fixtureId"`
	Strategy  broadcast.Strategy  `json:"strategy"`
	MatchURL  string              `json:"matchUrl,omitempty"`
}

type broadcastLookupDTO struct {
	Home      string `json:"home"`
	Away      string `json:"away"`
	Found     bool   `json:"found"`
	Broadcast string `json:"broadcast,omitempty"`
}

func (h *Handler) matchToDTO(v fixture.Record) matchDTO {
	return matchDTO{
		ID:          v.ID,
		KickoffAt:   formatTime(v.KickoffAt),
		Status:      string(v.Status),
		StatusShort: v.StatusShort,
		StatusLong:  v.StatusLong,
		Elapsed:     v.Elapsed,
		Home:        teamSideDTO{ID: v.HomeTeamID, Name: v.HomeTeam, Logo: v.HomeLogo, Goals: v.HomeGoals},
		Away:        teamSideDTO{ID: v.AwayTeamID, Name: v.AwayTeam, Logo: v.AwayLogo, Goals: v.AwayGoals},
		Venue:       v.Venue,
		VenueCity:   v.VenueCity,
		League:      leagueDTO{ID: v.LeagueID, Name: v.League, Country: v.LeagueCountry, Logo: v.LeagueLogo},
		MatchURL:    h.fixtureService.MatchURL(v),
	}
}

func (h *Handler) detailsToDTO(v fixture.Details) matchDetailsDTO {
	out := matchDetailsDTO{
		matchDTO:   h.matchToDTO(v.Record),
		Lineups:    make([]lineupDTO, 0, len(v.Lineups)),
		Statistics: make([]teamStatisticsDTO, 0, len(v.Statistics)),
		Events:     make([]eventDTO, 0, len(v.Events)),
		Missing:    v.Missing,
	}
	for _, l := range v.Lineups {
		out.Lineups = append(out.Lineups, lineupDTO{
			Team:        teamRefToDTO(l.Team),
			Formation:   l.Formation,
			Coach:       l.Coach,
			StartXI:     lineupPlayersToDTO(l.StartXI),
			Substitutes: lineupPlayersToDTO(l.Substitutes),
		})
	}
	for _, s := range v.Statistics {
		values := make([]statValueDTO, 0, len(s.Values))
		for _, sv := range s.Values {
			values = append(values, statValueDTO{Type: sv.Type, Value: sv.Value})
		}
		out.Statistics = append(out.Statistics, teamStatisticsDTO{Team: teamRefToDTO(s.Team), Values: values})
	}
	for _, e := range v.Events {
		out.Events = append(out.Events, eventDTO{
			Elapsed:  e.Elapsed,
			Extra:    e.Extra,
			Team:     teamRefToDTO(e.Team),
			Player:   e.Player,
			Assist:   e.Assist,
			Type:     e.Type,
			Detail:   e.Detail,
			Comments: e.Comments,
		})
	}
	if p := v.Prediction; p != nil {
		out.Prediction = &predictionDTO{
			WinnerID:      p.WinnerID,
			WinnerName:    p.WinnerName,
			WinnerComment: p.WinnerComment,
			WinOrDraw:     p.WinOrDraw,
			UnderOver:     p.UnderOver,
			Advice:        p.Advice,
			PercentHome:   p.PercentHome,
			PercentDraw:   p.PercentDraw,
			PercentAway:   p.PercentAway,
		}
	}
	if v.Odds != nil {
		out.Odds = oddsToDTO(*v.Odds)
	}
	return out
}

func teamRefToDTO(v fixture.TeamRef) teamRefDTO {
	return teamRefDTO{ID: v.ID, Name: v.Name, Logo: v.Logo}
}

func lineupPlayersToDTO(players []fixture.LineupPlayer) []lineupPlayerDTO {
	out := make([]lineupPlayerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, lineupPlayerDTO{ID: p.ID, Name: p.Name, Number: p.Number, Position: p.Position, Grid: p.Grid})
	}
	return out
}

func oddsToDTO(v fixture.Odds) *oddsDTO {
	out := &oddsDTO{
		UpdatedAt:  formatTime(v.UpdatedAt),
		Bookmakers: make([]bookmakerDTO, 0, len(v.Bookmakers)),
	}
	for _, b := range v.Bookmakers {
		bets := make([]betDTO, 0, len(b.Bets))
		for _, bet := range b.Bets {
			values := make([]oddValueDTO, 0, len(bet.Values))
			for _, ov := range bet.Values {
				values = append(values, oddValueDTO{Value: ov.Value, Odd: ov.Odd})
			}
			bets = append(bets, betDTO{ID: bet.ID, Name: bet.Name, Values: values})
		}
		out.Bookmakers = append(out.Bookmakers, bookmakerDTO{ID: b.ID, Name: b.Name, Bets: bets})
	}
	return out
}

func correlationToDTO(v broadcast.Correlation) correlationDTO {
	return correlationDTO{
		Candidate: v.Candidate,
		FixtureID: v.FixtureID,
		Strategy:  v.Strategy,
		MatchURL:  v.MatchURL,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
