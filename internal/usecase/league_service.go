package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchcast/internal/domain/fixture"
	"github.com/riskibarqy/matchcast/internal/domain/league"
	"github.com/riskibarqy/matchcast/internal/platform/cache"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
)

const (
	defaultLeagueCacheTTL     = 10 * time.Minute
	defaultLeagueTimeout      = 10 * time.Second
	defaultUpcomingWindowDays = 14
	teamLastMatches           = 5
)

// Team and league stats part names, as reported in Missing.
const (
	PartSquad           = "squad"
	PartTeamLeagues     = "leagues"
	PartLastMatches     = "last_matches"
	PartUpcomingMatches = "upcoming_matches"
	PartTopScorer       = "top_scorer"
	PartTopAssister     = "top_assister"
)

type LeagueServiceConfig struct {
	// Season is the season year served. Zero follows the calendar year in
	// Location.
	Season       int
	Priority     []int64
	CacheTTL     time.Duration
	Timeout      time.Duration
	UpcomingDays int
	Location     *time.Location
	Now          func() time.Time
	Logger       *logging.Logger
}

// LeagueService serves the league catalogue, tables, teams and season
// stats. Every upstream load is bounded by its own timeout and cached per
// league or team.
type LeagueService struct {
	source       league.Source
	season       int
	priority     []int64
	timeout      time.Duration
	upcomingDays int
	location     *time.Location
	now          func() time.Time
	logger       *logging.Logger

	catalog   *cache.Store[int, []league.Summary]
	leagues   *cache.Store[int64, league.League]
	standings *cache.Store[int64, []league.Standing]
	teams     *cache.Store[int64, []league.Team]
	upcoming  *cache.Store[int64, []fixture.Record]
	stats     *cache.Store[int64, league.Stats]
	details   *cache.Store[int64, league.TeamDetails]
}

func NewLeagueService(source league.Source, cfg LeagueServiceConfig) *LeagueService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultLeagueCacheTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLeagueTimeout
	}
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = defaultUpcomingWindowDays
	}
	if cfg.Priority == nil {
		cfg.Priority = league.DefaultPriority
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	clock := cache.WithClock(cfg.Now)

	return &LeagueService{
		source:       source,
		season:       cfg.Season,
		priority:     cfg.Priority,
		timeout:      cfg.Timeout,
		upcomingDays: cfg.UpcomingDays,
		location:     cfg.Location,
		now:          cfg.Now,
		logger:       logging.OrDefault(cfg.Logger).Named("league_service"),
		catalog:      cache.NewStore[int, []league.Summary](cfg.CacheTTL, clock),
		leagues:      cache.NewStore[int64, league.League](cfg.CacheTTL, clock),
		standings:    cache.NewStore[int64, []league.Standing](cfg.CacheTTL, clock),
		teams:        cache.NewStore[int64, []league.Team](cfg.CacheTTL, clock),
		upcoming:     cache.NewStore[int64, []fixture.Record](cfg.CacheTTL, clock),
		stats:        cache.NewStore[int64, league.Stats](cfg.CacheTTL, clock),
		details:      cache.NewStore[int64, league.TeamDetails](cfg.CacheTTL, clock),
	}
}

// Season is the season year every query is made for.
func (s *LeagueService) Season() int {
	if s.season > 0 {
		return s.season
	}
	return s.now().In(s.location).Year()
}

// ListLeagues returns the leagues of the season, priority leagues first and
// the rest by country and name.
func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.Summary, error) {
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListLeagues", attribute.Int("league.season", season))
	defer span.End()

	return s.catalog.GetOrLoad(ctx, season, func(ctx context.Context) ([]league.Summary, error) {
		leagues, err := bounded(ctx, s.timeout, func(ctx context.Context) ([]league.Summary, error) {
			return s.source.ListLeagues(ctx, season)
		})
		if err != nil {
			return nil, upstreamError(ctx, fmt.Sprintf("list leagues season=%d", season), err)
		}
		return league.Order(leagues, s.priority), nil
	})
}

// GetLeague returns the league narrowed to the served season. A league the
// provider does not know, or one without that season, is ErrNotFound.
func (s *LeagueService) GetLeague(ctx context.Context, id int64) (league.League, error) {
	if err := validateID("league", id); err != nil {
		return league.League{}, err
	}
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague", attribute.Int64("league.id", id))
	defer span.End()

	return s.leagues.GetOrLoad(ctx, id, func(ctx context.Context) (league.League, error) {
		type result struct {
			profile league.Profile
			found   bool
		}
		got, err := bounded(ctx, s.timeout, func(ctx context.Context) (result, error) {
			profile, found, err := s.source.GetLeague(ctx, id)
			return result{profile, found}, err
		})
		if err != nil {
			return league.League{}, upstreamError(ctx, fmt.Sprintf("get league id=%d", id), err)
		}
		if !got.found {
			return league.League{}, fmt.Errorf("%w: league id=%d", ErrNotFound, id)
		}
		current, ok := got.profile.SeasonOf(season)
		if !ok {
			return league.League{}, fmt.Errorf("%w: league id=%d has no %d season", ErrNotFound, id, season)
		}

		out := league.League{Summary: got.profile.Summary, Start: current.Start, End: current.End}
		out.Season = season
		return out, nil
	})
}

// GetStandings returns every table row of the league season. An empty
// table is not an error.
func (s *LeagueService) GetStandings(ctx context.Context, leagueID int64) ([]league.Standing, error) {
	if err := validateID("league", leagueID); err != nil {
		return nil, err
	}
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetStandings", attribute.Int64("league.id", leagueID))
	defer span.End()

	return s.standings.GetOrLoad(ctx, leagueID, func(ctx context.Context) ([]league.Standing, error) {
		rows, err := bounded(ctx, s.timeout, func(ctx context.Context) ([]league.Standing, error) {
			return s.source.ListStandings(ctx, leagueID, season)
		})
		if err != nil {
			return nil, upstreamError(ctx, fmt.Sprintf("list standings league=%d", leagueID), err)
		}
		if rows == nil {
			rows = []league.Standing{}
		}
		return rows, nil
	})
}

func (s *LeagueService) GetTeams(ctx context.Context, leagueID int64) ([]league.Team, error) {
	if err := validateID("league", leagueID); err != nil {
		return nil, err
	}
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetTeams", attribute.Int64("league.id", leagueID))
	defer span.End()

	return s.teams.GetOrLoad(ctx, leagueID, func(ctx context.Context) ([]league.Team, error) {
		teams, err := bounded(ctx, s.timeout, func(ctx context.Context) ([]league.Team, error) {
			return s.source.ListTeams(ctx, leagueID, season)
		})
		if err != nil {
			return nil, upstreamError(ctx, fmt.Sprintf("list teams league=%d", leagueID), err)
		}
		return teams, nil
	})
}

// GetUpcomingMatches lists the league fixtures from today through the
// upcoming window.
func (s *LeagueService) GetUpcomingMatches(ctx context.Context, leagueID int64) ([]fixture.Record, error) {
	if err := validateID("league", leagueID); err != nil {
		return nil, err
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetUpcomingMatches", attribute.Int64("league.id", leagueID))
	defer span.End()

	q := s.upcomingQuery()
	q.LeagueID = leagueID
	return s.upcoming.GetOrLoad(ctx, leagueID, func(ctx context.Context) ([]fixture.Record, error) {
		records, err := bounded(ctx, s.timeout, func(ctx context.Context) ([]fixture.Record, error) {
			return s.source.ListFixtures(ctx, q)
		})
		if err != nil {
			return nil, upstreamError(ctx, fmt.Sprintf("list upcoming matches league=%d", leagueID), err)
		}
		return records, nil
	})
}

// GetLeagueStats totals the goals of the finished season matches and adds
// the top scorer and assister. Only the match list is required; partial
// stats are served but not cached.
func (s *LeagueService) GetLeagueStats(ctx context.Context, leagueID int64) (league.Stats, error) {
	if err := validateID("league", leagueID); err != nil {
		return league.Stats{}, err
	}
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeagueStats", attribute.Int64("league.id", leagueID))
	defer span.End()

	stats, err := s.stats.GetOrLoad(ctx, leagueID, func(ctx context.Context) (league.Stats, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		out := league.Stats{LeagueID: leagueID, Season: season}
		var finished []fixture.Record
		var scorers, assisters []league.PlayerTotal
		outcomes := resilience.AllSettled(ctx,
			resilience.Task{Name: "matches", Run: func(ctx context.Context) error {
				var err error
				finished, err = s.source.ListFixtures(ctx, league.FixtureQuery{
					LeagueID: leagueID,
					Season:   season,
					Status:   fixture.FinishedShortCodes,
				})
				return err
			}},
			resilience.Task{Name: PartTopScorer, Run: func(ctx context.Context) error {
				var err error
				scorers, err = s.source.ListTopScorers(ctx, leagueID, season)
				return err
			}},
			resilience.Task{Name: PartTopAssister, Run: func(ctx context.Context) error {
				var err error
				assisters, err = s.source.ListTopAssists(ctx, leagueID, season)
				return err
			}},
		)
		if err := outcomes[0].Err; err != nil {
			return league.Stats{}, upstreamError(ctx, fmt.Sprintf("league stats league=%d", leagueID), timedOut(ctx, s.timeout, err))
		}

		out.TotalMatches = len(finished)
		for _, r := range finished {
			out.TotalGoals += goals(r.HomeGoals) + goals(r.AwayGoals)
		}
		if out.TotalMatches > 0 {
			out.AverageGoalsPerMatch = float64(out.TotalGoals) / float64(out.TotalMatches)
		}
		if len(scorers) > 0 {
			out.TopScorer = &scorers[0]
		}
		if len(assisters) > 0 {
			out.TopAssister = &assisters[0]
		}
		out.Missing = s.missingParts(ctx, outcomes[1:], "league_id", leagueID)
		return out, nil
	})
	if err != nil {
		return league.Stats{}, err
	}
	if len(stats.Missing) > 0 {
		s.stats.Delete(leagueID)
	}
	return stats, nil
}

// GetTeamDetails fetches the team with its squad, leagues, last finished
// matches and upcoming matches concurrently. Only the team itself is
// required; parts that fail are named in Missing and such partial details
// are not cached.
func (s *LeagueService) GetTeamDetails(ctx context.Context, teamID int64) (league.TeamDetails, error) {
	if err := validateID("team", teamID); err != nil {
		return league.TeamDetails{}, err
	}
	season := s.Season()
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetTeamDetails", attribute.Int64("team.id", teamID))
	defer span.End()

	upcoming := s.upcomingQuery()
	upcoming.TeamID = teamID
	upcoming.Status = []string{"NS"}

	details, err := s.details.GetOrLoad(ctx, teamID, func(ctx context.Context) (league.TeamDetails, error) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		var (
			out   league.TeamDetails
			found bool
		)
		outcomes := resilience.AllSettled(ctx,
			resilience.Task{Name: "team", Run: func(ctx context.Context) error {
				var err error
				out.Team, found, err = s.source.GetTeam(ctx, teamID)
				return err
			}},
			resilience.Task{Name: PartSquad, Run: func(ctx context.Context) error {
				var err error
				out.Squad, err = s.source.ListSquad(ctx, teamID)
				return err
			}},
			resilience.Task{Name: PartTeamLeagues, Run: func(ctx context.Context) error {
				leagues, err := s.source.ListTeamLeagues(ctx, teamID, season)
				out.Leagues = league.Order(leagues, s.priority)
				return err
			}},
			resilience.Task{Name: PartLastMatches, Run: func(ctx context.Context) error {
				var err error
				out.LastMatches, err = s.source.ListFixtures(ctx, league.FixtureQuery{
					TeamID: teamID,
					Season: season,
					Status: fixture.FinishedShortCodes,
					Last:   teamLastMatches,
				})
				return err
			}},
			resilience.Task{Name: PartUpcomingMatches, Run: func(ctx context.Context) error {
				var err error
				out.UpcomingMatches, err = s.source.ListFixtures(ctx, upcoming)
				return err
			}},
		)

		if err := outcomes[0].Err; err != nil {
			return league.TeamDetails{}, upstreamError(ctx, fmt.Sprintf("get team id=%d", teamID), timedOut(ctx, s.timeout, err))
		}
		if !found {
			return league.TeamDetails{}, fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
		}
		out.Missing = s.missingParts(ctx, outcomes[1:], "team_id", teamID)
		return out, nil
	})
	if err != nil {
		return league.TeamDetails{}, err
	}
	if len(details.Missing) > 0 {
		s.details.Delete(teamID)
	}
	return details, nil
}

func (s *LeagueService) upcomingQuery() league.FixtureQuery {
	today := s.now().In(s.location)
	return league.FixtureQuery{
		Season: s.Season(),
		From:   today,
		To:     today.AddDate(0, 0, s.upcomingDays),
	}
}

func (s *LeagueService) missingParts(ctx context.Context, outcomes []resilience.Outcome, idKey string, id int64) []string {
	var missing []string
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			continue
		}
		missing = append(missing, outcome.Name)
		s.logger.WarnContext(ctx, "league part unavailable",
			idKey, id,
			"part", outcome.Name,
			"error", outcome.Err,
		)
	}
	return missing
}

func validateID(kind string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s id must be greater than zero", ErrInvalidInput, kind)
	}
	return nil
}

func goals(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// bounded runs fetch under timeout.
func bounded[V any](ctx context.Context, timeout time.Duration, fetch func(context.Context) (V, error)) (V, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := fetch(ctx)
	return out, timedOut(ctx, timeout, err)
}

// timedOut reports a fetch cut short by the service timeout as a transient
// upstream failure rather than a caller cancellation.
func timedOut(ctx context.Context, timeout time.Duration, err error) error {
	if err == nil || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return err
	}
	return resilience.NewFetchError("league_service", resilience.KindTransient,
		fmt.Errorf("no answer within %s: %w", timeout, err))
}
