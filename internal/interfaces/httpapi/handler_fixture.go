package httpapi

import (
	"net/http"
	"time"
)

type scoresChangedRequest struct {
	// ResultCreated seeds placeholder scores for a result entered just now.
	ResultCreated bool `json:"result_created"`
}

type scheduleReplayRequest struct {
	KickoffAt time.Time `json:"kickoff_at" validate:"required"`
}

func (h *Handler) RecalculateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateFixture")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.fixtureService.RecalculateFixtureTotals(ctx, fixtureID)
	if err != nil {
		h.logFailure(ctx, "recalculate fixture failed", err, "fixture_id", fixtureID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(updated))
}

func (h *Handler) FixtureScoresChanged(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FixtureScoresChanged")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req scoresChangedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.triggerService.OnScoresChanged(ctx, fixtureID, req.ResultCreated)
	if err != nil {
		h.logFailure(ctx, "scores changed trigger failed", err, "fixture_id", fixtureID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ScheduleReplay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleReplay")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req scheduleReplayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	replay, err := h.fixtureService.ScheduleReplay(ctx, fixtureID, req.KickoffAt)
	if err != nil {
		h.logFailure(ctx, "schedule replay failed", err, "fixture_id", fixtureID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, fixtureToDTO(replay))
}

func (h *Handler) GetCupWinner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCupWinner")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	winner, err := h.fixtureService.CupWinnerTeamID(ctx, fixtureID)
	if err != nil {
		h.logFailure(ctx, "get cup winner failed", err, "fixture_id", fixtureID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winner)
}
