package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/league-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

const rebuildScopeJobPath = "/v1/internal/jobs/rebuild-scope"

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// ScopeRebuilder is the part of MaterializeService the job runner needs.
type ScopeRebuilder interface {
	RebuildScopeMaterialized(ctx context.Context, scopeID int64) (RebuildResult, error)
}

type JobOrchestratorConfig struct {
	// DebounceWindow delays queued rebuilds and collapses requests for the
	// same scope within one window into a single job.
	DebounceWindow time.Duration
}

type RebuildJobInput struct {
	ScopeID    int64  `json:"scope_id" validate:"required,gt=0"`
	DispatchID string `json:"dispatch_id"`
	Reason     string `json:"reason"`
}

// JobOrchestratorService queues scope rebuilds through a JobQueue and runs
// them when the queue calls back.
type JobOrchestratorService struct {
	rebuilder    ScopeRebuilder
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	rebuilder ScopeRebuilder,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DebounceWindow < 0 {
		cfg.DebounceWindow = 0
	}

	return &JobOrchestratorService{
		rebuilder:    rebuilder,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// DispatchScopeRebuild enqueues a rebuild of the scope.
func (s *JobOrchestratorService) DispatchScopeRebuild(ctx context.Context, scopeID int64, reason string) error {
	if scopeID <= 0 {
		return fmt.Errorf("%w: scope id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	delay := s.cfg.DebounceWindow
	dedupID := dedupKey(jobscheduler.JobRebuildScope, strconv.FormatInt(scopeID, 10), now.Add(delay), delay)
	payload := map[string]any{
		"scope_id":    scopeID,
		"dispatch_id": dedupID,
		"reason":      reason,
	}
	event := jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    jobscheduler.JobRebuildScope,
		JobPath:    rebuildScopeJobPath,
		ScopeID:    scopeID,
		Status:     jobscheduler.StatusSent,
		Payload:    payload,
		OccurredAt: now,
	}

	if err := s.queue.Enqueue(ctx, rebuildScopeJobPath, payload, delay, dedupID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return fmt.Errorf("enqueue rebuild-scope scope=%d: %w", scopeID, err)
	}
	s.recordDispatchEvent(ctx, event)
	s.logger.DebugContext(ctx, "scope rebuild queued",
		"scope_id", scopeID,
		"dispatch_id", dedupID,
		"reason", reason,
		"delay", delay.String(),
	)
	return nil
}

// RunRebuildJob executes a queued rebuild and records how it ended.
func (s *JobOrchestratorService) RunRebuildJob(ctx context.Context, input RebuildJobInput) (RebuildResult, error) {
	if input.ScopeID <= 0 {
		return RebuildResult{}, fmt.Errorf("%w: scope id is required", ErrInvalidInput)
	}
	if s.rebuilder == nil {
		return RebuildResult{}, fmt.Errorf("%w: scope rebuilder is not configured", ErrDependencyUnavailable)
	}

	result, err := s.rebuilder.RebuildScopeMaterialized(ctx, input.ScopeID)
	event := jobscheduler.DispatchEvent{
		DispatchID: strings.TrimSpace(input.DispatchID),
		JobName:    jobscheduler.JobRebuildScope,
		JobPath:    rebuildScopeJobPath,
		ScopeID:    input.ScopeID,
		Status:     jobscheduler.StatusCompleted,
		Payload: map[string]any{
			"scope_id": input.ScopeID,
			"reason":   input.Reason,
		},
	}
	if err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return RebuildResult{}, err
	}
	event.Payload["run_id"] = result.RunID
	s.recordDispatchEvent(ctx, event)
	return result, nil
}

func dedupKey(prefix, key string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Second
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	key = sanitizeDedupSegment(key)
	return prefix + "-" + key + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
