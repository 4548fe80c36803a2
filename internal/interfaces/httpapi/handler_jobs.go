package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-engine/internal/usecase"
)

// RunRebuildScopeJob is the queue callback for deferred scope rebuilds.
func (h *Handler) RunRebuildScopeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRebuildScopeJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req usecase.RebuildJobInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.RunRebuildJob(ctx, req)
	if err != nil {
		h.logFailure(ctx, "run rebuild scope job failed", err,
			"scope_id", req.ScopeID,
			"dispatch_id", req.DispatchID,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
