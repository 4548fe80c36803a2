package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}/cup-winner", handler.GetCupWinner)
	mux.HandleFunc("GET /v1/scopes/{scopeID}/head-to-head", handler.GetHeadToHead)
	mux.HandleFunc("GET /v1/scopes/{scopeID}/player-vs-player", handler.GetPlayerVsPlayer)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/competitions/{competitionID}/players-overall", handler.GetPlayersOverall)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireInternalJobToken(internalJobToken, fn))
	}

	internal("POST /v1/internal/fixtures/{fixtureID}/recalculate", handler.RecalculateFixture)
	internal("POST /v1/internal/fixtures/{fixtureID}/scores-changed", handler.FixtureScoresChanged)
	internal("POST /v1/internal/fixtures/{fixtureID}/replay", handler.ScheduleReplay)
	internal("POST /v1/internal/scopes/{scopeID}/rebuild", handler.RebuildScope)
	internal("POST /v1/internal/scopes/{scopeID}/schedule", handler.GenerateSchedule)
	internal("POST /v1/internal/seasons/{seasonID}/rebuild", handler.RebuildSeason)
	internal("POST /v1/internal/transfers/{transferID}/apply", handler.ApplyTransfer)
	internal("POST /v1/internal/achievements", handler.AwardAchievement)
	// Queue callback.
	internal("POST /v1/internal/jobs/rebuild-scope", handler.RunRebuildScopeJob)
}
