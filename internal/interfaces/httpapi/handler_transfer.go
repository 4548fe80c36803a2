package httpapi

import "net/http"

// ApplyTransfer moves the player's membership and refreshes every scope of
// the season. A partial rebuild failure is still an error response.
func (h *Handler) ApplyTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyTransfer")
	defer span.End()

	transferID, err := pathID(r, "transferID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.triggerService.OnTransferSaved(ctx, transferID)
	if err != nil {
		h.logFailure(ctx, "apply transfer failed", err,
			"transfer_id", transferID,
			"failed_scope_count", result.FailedScopeCount,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
