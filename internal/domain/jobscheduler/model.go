package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// Job names for queued rebuild work.
const (
	JobRebuildScope = "rebuild-scope"
)

// DispatchEvent tracks one queued rebuild through sent, completed or failed.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	JobPath      string
	ScopeID      int64
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
