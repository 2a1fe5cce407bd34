package httpapi

import "net/http"

// registerSystemRoutes adds probes, upstream status and, when enabled, the
// OpenAPI document with its browser UI.
func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/status", handler.GetStatus)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs/{$}", handler.SwaggerUI)
	mux.Handle("GET /docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatchesByDate)
	mux.HandleFunc("GET /v1/matches/today", handler.ListTodayMatches)
	mux.HandleFunc("GET /v1/matches/tomorrow", handler.ListTomorrowMatches)
	mux.HandleFunc("GET /v1/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/matches/finished", handler.ListFinishedMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	// Shareable links: /v1/matches/by-url/{league}/{home}-vs-{away}-{dd-MM-yyyy}.
	mux.HandleFunc("GET /v1/matches/by-url/{key...}", handler.GetMatchByURL)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/matches/upcoming", handler.ListUpcomingMatchesByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/stats", handler.GetLeagueStats)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
}

func registerBroadcastRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/broadcasts", handler.ListBroadcasts)
	mux.HandleFunc("GET /v1/broadcasts/lookup", handler.LookupBroadcast)
}

func registerImageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/images", handler.GetImage)
}
