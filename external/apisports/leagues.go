package apisports

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/domain/league"
)

var _ league.Source = (*Client)(nil)

func idText(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ListLeagues returns the leagues covering season.
func (c *Client) ListLeagues(ctx context.Context, season int) ([]league.Summary, error) {
	items, err := getList[leaguePayload](ctx, c, "/leagues", map[string]string{
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch leagues season=%d: %w", season, err)
	}
	return mapLeagueSummaries(items, season), nil
}

// GetLeague reports found=false when the provider returns an empty list.
func (c *Client) GetLeague(ctx context.Context, id int64) (league.Profile, bool, error) {
	items, err := getList[leaguePayload](ctx, c, "/leagues", map[string]string{
		"id": idText(id),
	})
	if err != nil {
		return league.Profile{}, false, fmt.Errorf("fetch league id=%d: %w", id, err)
	}
	for _, item := range items {
		if item.League.ID > 0 {
			return mapLeagueProfile(item), true, nil
		}
	}
	return league.Profile{}, false, nil
}

func (c *Client) ListTeamLeagues(ctx context.Context, teamID int64, season int) ([]league.Summary, error) {
	items, err := getList[leaguePayload](ctx, c, "/leagues", map[string]string{
		"team":   idText(teamID),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch leagues team=%d season=%d: %w", teamID, season, err)
	}
	return mapLeagueSummaries(items, season), nil
}

// ListStandings flattens every group table of the league season.
func (c *Client) ListStandings(ctx context.Context, leagueID int64, season int) ([]league.Standing, error) {
	items, err := getList[standingsPayload](ctx, c, "/standings", map[string]string{
		"league": idText(leagueID),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch standings league=%d season=%d: %w", leagueID, season, err)
	}
	return mapStandings(items), nil
}

func (c *Client) ListTeams(ctx context.Context, leagueID int64, season int) ([]league.Team, error) {
	items, err := getList[teamInfoPayload](ctx, c, "/teams", map[string]string{
		"league": idText(leagueID),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w", leagueID, season, err)
	}
	return mapTeams(items), nil
}

func (c *Client) GetTeam(ctx context.Context, teamID int64) (league.Team, bool, error) {
	items, err := getList[teamInfoPayload](ctx, c, "/teams", map[string]string{
		"id": idText(teamID),
	})
	if err != nil {
		return league.Team{}, false, fmt.Errorf("fetch team id=%d: %w", teamID, err)
	}
	teams := mapTeams(items)
	if len(teams) == 0 {
		return league.Team{}, false, nil
	}
	return teams[0], true, nil
}

func (c *Client) ListSquad(ctx context.Context, teamID int64) ([]league.Player, error) {
	items, err := getList[squadPayload](ctx, c, "/players/squads", map[string]string{
		"team": idText(teamID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch squad team=%d: %w", teamID, err)
	}
	return mapSquad(items), nil
}

func (c *Client) ListTopScorers(ctx context.Context, leagueID int64, season int) ([]league.PlayerTotal, error) {
	return c.listLeaders(ctx, "/players/topscorers", leagueID, season, false)
}

func (c *Client) ListTopAssists(ctx context.Context, leagueID int64, season int) ([]league.PlayerTotal, error) {
	return c.listLeaders(ctx, "/players/topassists", leagueID, season, true)
}

func (c *Client) listLeaders(ctx context.Context, path string, leagueID int64, season int, assists bool) ([]league.PlayerTotal, error) {
	items, err := getList[leaderPayload](ctx, c, path, map[string]string{
		"league": idText(leagueID),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s league=%d season=%d: %w", strings.TrimPrefix(path, "/players/"), leagueID, season, err)
	}
	return mapLeaders(items, assists), nil
}

// ListFixtures lists the fixtures of a league or a team. Dates are sent as
// calendar days in the client timezone.
func (c *Client) ListFixtures(ctx context.Context, q league.FixtureQuery) ([]fixture.Record, error) {
	query := map[string]string{"timezone": c.timezone}
	if q.LeagueID > 0 {
		query["league"] = idText(q.LeagueID)
	}
	if q.TeamID > 0 {
		query["team"] = idText(q.TeamID)
	}
	if q.Season > 0 {
		query["season"] = strconv.Itoa(q.Season)
	}
	if !q.From.IsZero() {
		query["from"] = c.formatDate(q.From)
	}
	if !q.To.IsZero() {
		query["to"] = c.formatDate(q.To)
	}
	if codes := statusCodes(q.Status); codes != "" {
		query["status"] = codes
	}
	if q.Last > 0 {
		query["last"] = strconv.Itoa(q.Last)
	}

	items, err := getList[fixturePayload](ctx, c, "/fixtures", query)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d team=%d season=%d: %w", q.LeagueID, q.TeamID, q.Season, err)
	}
	return mapFixtures(items), nil
}
