package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchcast/internal/usecase"
)

// pathID reads a positive integer path value.
func pathID(r *http.Request, name, kind string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s id must be a positive integer", usecase.ErrInvalidInput, kind)
	}
	return id, nil
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueSummaryDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueSummaryToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetLeague")
	defer span.End()

	leagueID, err := pathID(r, "leagueID", "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	item, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueDetailsDTO{
		leagueSummaryDTO: leagueSummaryToDTO(item.Summary),
		StartDate:        formatDay(item.Start),
		EndDate:          formatDay(item.End),
	})
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListStandings")
	defer span.End()

	leagueID, err := pathID(r, "leagueID", "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	rows, err := h.leagueService.GetStandings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListTeamsByLeague")
	defer span.End()

	leagueID, err := pathID(r, "leagueID", "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teams, err := h.leagueService.GetTeams(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListUpcomingMatchesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListUpcomingMatchesByLeague")
	defer span.End()

	leagueID, err := pathID(r, "leagueID", "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	records, err := h.leagueService.GetUpcomingMatches(ctx, leagueID)
	h.writeMatches(ctx, w, "list upcoming league matches failed", records, err)
}

func (h *Handler) GetLeagueStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetLeagueStats")
	defer span.End()

	leagueID, err := pathID(r, "leagueID", "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	stats, err := h.leagueService.GetLeagueStats(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league stats failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueStatsToDTO(stats))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetTeam")
	defer span.End()

	teamID, err := pathID(r, "teamID", "team")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	details, err := h.leagueService.GetTeamDetails(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team details failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, h.teamDetailsToDTO(details))
}
