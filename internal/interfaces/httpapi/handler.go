package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

// Handler serves the internal recompute commands and the read-only league
// queries.
type Handler struct {
	fixtureService     *usecase.FixtureService
	materializeService *usecase.MaterializeService
	triggerService     *usecase.TriggerService
	achievementService *usecase.AchievementService
	jobOrchestrator    *usecase.JobOrchestratorService
	logger             *logging.Logger
	validator          *validator.Validate
}

type HandlerDeps struct {
	Fixtures     *usecase.FixtureService
	Materializer *usecase.MaterializeService
	Triggers     *usecase.TriggerService
	Achievements *usecase.AchievementService
	// JobOrchestrator is nil when rebuilds run inline.
	JobOrchestrator *usecase.JobOrchestratorService
}

func NewHandler(deps HandlerDeps, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService:     deps.Fixtures,
		materializeService: deps.Materializer,
		triggerService:     deps.Triggers,
		achievementService: deps.Achievements,
		jobOrchestrator:    deps.JobOrchestrator,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON reads an optional body. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return parseID(name, r.PathValue(name))
}

func parseID(name, raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

// competitionTypeFilter accepts an empty value meaning every competition.
func competitionTypeFilter(raw string) (scope.CompetitionType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	compType, ok := scope.ParseCompetitionType(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown competition type %q", usecase.ErrInvalidInput, raw)
	}
	return compType, nil
}

// logFailure keeps rejected requests out of the error level.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
