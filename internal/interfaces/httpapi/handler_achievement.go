package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-engine/internal/usecase"
)

func (h *Handler) AwardAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AwardAchievement")
	defer span.End()

	var req usecase.AwardAchievementInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.achievementService.Award(ctx, req)
	if err != nil {
		h.logFailure(ctx, "award achievement failed", err, "type_id", req.TypeID, "season_id", req.SeasonID)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, achievementToDTO(created))
}
