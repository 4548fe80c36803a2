package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/league-engine/internal/usecase"
)

type rebuildSeasonRequest struct {
	CompetitionType string `json:"competition_type" validate:"omitempty,oneof=LEAGUE CUP SUPER_CUP league cup super_cup"`
}

type generateScheduleRequest struct {
	TeamIDs       []int64   `json:"team_ids" validate:"required,min=2,dive,gt=0"`
	FirstKickoff  time.Time `json:"first_kickoff" validate:"required"`
	DaysBetween   int       `json:"days_between" validate:"omitempty,gt=0,lte=60"`
	DoubleRound   bool      `json:"double_round"`
	FirstGameweek int       `json:"first_gameweek" validate:"omitempty,gt=0"`
}

func (h *Handler) RebuildScope(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildScope")
	defer span.End()

	scopeID, err := pathID(r, "scopeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.materializeService.RebuildScopeMaterialized(ctx, scopeID)
	if err != nil {
		h.logFailure(ctx, "rebuild scope failed", err, "scope_id", scopeID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RebuildSeason answers 200 with the per-scope report even when some scopes
// failed; the report carries the failures.
func (h *Handler) RebuildSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildSeason")
	defer span.End()

	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req rebuildSeasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	compType, err := competitionTypeFilter(req.CompetitionType)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.materializeService.RebuildSeason(ctx, seasonID, compType)
	if err != nil && result.ScopeCount == 0 {
		h.logFailure(ctx, "rebuild season failed", err, "season_id", seasonID)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "rebuild season finished with failures",
			"season_id", seasonID,
			"failed_count", result.FailedCount,
			"error", err,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateSchedule")
	defer span.End()

	scopeID, err := pathID(r, "scopeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req generateScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.fixtureService.GenerateSchedule(ctx, usecase.GenerateScheduleInput{
		ScopeID:       scopeID,
		TeamIDs:       req.TeamIDs,
		FirstKickoff:  req.FirstKickoff,
		DaysBetween:   req.DaysBetween,
		DoubleRound:   req.DoubleRound,
		FirstGameweek: req.FirstGameweek,
	})
	if err != nil {
		h.logFailure(ctx, "generate schedule failed", err, "scope_id", scopeID, "team_count", len(req.TeamIDs))
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixturesToDTO(created))
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	scopeID, err := pathID(r, "scopeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	teamA, err := parseID("team_a", query.Get("team_a"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamB, err := parseID("team_b", query.Get("team_b"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.fixtureService.HeadToHead(ctx, scopeID, teamA, teamB)
	if err != nil {
		h.logFailure(ctx, "head to head failed", err, "scope_id", scopeID, "team_a", teamA, "team_b", teamB)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetPlayerVsPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerVsPlayer")
	defer span.End()

	scopeID, err := pathID(r, "scopeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	playerA, err := parseID("player_a", query.Get("player_a"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerB, err := parseID("player_b", query.Get("player_b"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.fixtureService.PlayerVsPlayer(ctx, scopeID, playerA, playerB)
	if err != nil {
		h.logFailure(ctx, "player vs player failed", err, "scope_id", scopeID, "player_a", playerA, "player_b", playerB)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetPlayersOverall(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayersOverall")
	defer span.End()

	seasonID, err := pathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	competitionID, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	overall, err := h.fixtureService.PlayersOverall(ctx, seasonID, competitionID)
	if err != nil {
		h.logFailure(ctx, "players overall failed", err, "season_id", seasonID, "competition_id", competitionID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overall)
}
