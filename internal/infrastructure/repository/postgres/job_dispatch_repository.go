package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

// JobDispatchRepository writes outside the rebuild transaction so a failed
// rebuild still leaves its failed event behind.
type JobDispatchRepository struct {
	db sqlx.ExtContext
}

func NewJobDispatchRepository(db sqlx.ExtContext) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

const jobDispatchUpsertSuffix = `ON CONFLICT (dispatch_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    job_path = EXCLUDED.job_path,
    scope_id = EXCLUDED.scope_id,
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = COALESCE(EXCLUDED.sent_at, job_dispatches.sent_at),
    completed_at = CASE
        WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.completed_at
        ELSE job_dispatches.completed_at
    END,
    failed_at = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.failed_at
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.failed_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    sent_trace_id = COALESCE(EXCLUDED.sent_trace_id, job_dispatches.sent_trace_id),
    sent_span_id = COALESCE(EXCLUDED.sent_span_id, job_dispatches.sent_span_id),
    completed_trace_id = COALESCE(EXCLUDED.completed_trace_id, job_dispatches.completed_trace_id),
    completed_span_id = COALESCE(EXCLUDED.completed_span_id, job_dispatches.completed_span_id),
    failed_trace_id = COALESCE(EXCLUDED.failed_trace_id, job_dispatches.failed_trace_id),
    failed_span_id = COALESCE(EXCLUDED.failed_span_id, job_dispatches.failed_span_id),
    updated_at = NOW()`

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	model, err := jobDispatchModelFromEvent(event)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("job_dispatches", model, jobDispatchUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", model.DispatchID, event.Status, err)
	}
	return nil
}

func (r *JobDispatchRepository) GetByDispatchID(ctx context.Context, dispatchID string) (jobscheduler.DispatchEvent, bool, error) {
	query, args, err := qb.Select(
		"dispatch_id", "job_name", "job_path", "scope_id", "payload::text AS payload", "status",
		"sent_at", "completed_at", "failed_at", "last_error",
		"sent_trace_id", "sent_span_id", "completed_trace_id", "completed_span_id", "failed_trace_id", "failed_span_id",
	).From("job_dispatches").
		Where(qb.Eq("dispatch_id", strings.TrimSpace(dispatchID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return jobscheduler.DispatchEvent{}, false, fmt.Errorf("build get job dispatch query: %w", err)
	}

	var row jobDispatchTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return jobscheduler.DispatchEvent{}, false, nil
		}
		return jobscheduler.DispatchEvent{}, false, fmt.Errorf("get job dispatch dispatch_id=%s: %w", dispatchID, err)
	}

	event, err := jobDispatchEventFromRow(row)
	if err != nil {
		return jobscheduler.DispatchEvent{}, false, err
	}
	return event, true, nil
}

func jobDispatchModelFromEvent(event jobscheduler.DispatchEvent) (jobDispatchInsertModel, error) {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return jobDispatchInsertModel{}, fmt.Errorf("dispatch id is required")
	}

	jobName := strings.TrimSpace(event.JobName)
	if jobName == "" {
		jobName = "unknown"
	}
	jobPath := strings.TrimSpace(event.JobPath)
	if jobPath == "" {
		jobPath = "/unknown"
	}

	occurredAt := event.OccurredAt.UTC()
	if event.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	payloadJSON, err := marshalPayload(event.Payload)
	if err != nil {
		return jobDispatchInsertModel{}, fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    jobName,
		JobPath:    jobPath,
		ScopeID:    event.ScopeID,
		Payload:    payloadJSON,
		Status:     string(event.Status),
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
	case jobscheduler.StatusCompleted:
		model.CompletedAt = &occurredAt
		model.CompletedTraceID = optionalString(event.TraceID)
		model.CompletedSpanID = optionalString(event.SpanID)
	case jobscheduler.StatusFailed:
		model.FailedAt = &occurredAt
		model.FailedTraceID = optionalString(event.TraceID)
		model.FailedSpanID = optionalString(event.SpanID)
		model.LastError = optionalString(event.ErrorMessage)
	default:
		return jobDispatchInsertModel{}, fmt.Errorf("unknown dispatch status %q", event.Status)
	}
	return model, nil
}

// jobDispatchEventFromRow reports the timestamp and trace of the current status.
func jobDispatchEventFromRow(row jobDispatchTableModel) (jobscheduler.DispatchEvent, error) {
	event := jobscheduler.DispatchEvent{
		DispatchID:   row.DispatchID,
		JobName:      row.JobName,
		JobPath:      row.JobPath,
		ScopeID:      row.ScopeID,
		Status:       jobscheduler.DispatchStatus(row.Status),
		ErrorMessage: row.LastError.String,
	}

	if strings.TrimSpace(row.Payload) != "" && row.Payload != "{}" {
		payload := map[string]any{}
		if err := sonic.UnmarshalString(row.Payload, &payload); err != nil {
			return jobscheduler.DispatchEvent{}, fmt.Errorf("decode job dispatch payload dispatch_id=%s: %w", row.DispatchID, err)
		}
		event.Payload = payload
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		event.OccurredAt = row.SentAt.Time
		event.TraceID, event.SpanID = row.SentTraceID.String, row.SentSpanID.String
	case jobscheduler.StatusCompleted:
		event.OccurredAt = row.CompletedAt.Time
		event.TraceID, event.SpanID = row.CompletedTraceID.String, row.CompletedSpanID.String
	case jobscheduler.StatusFailed:
		event.OccurredAt = row.FailedAt.Time
		event.TraceID, event.SpanID = row.FailedTraceID.String, row.FailedSpanID.String
	}
	return event, nil
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(payload)
}
