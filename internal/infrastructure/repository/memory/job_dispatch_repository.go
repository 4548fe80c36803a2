package memory

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/riskibarqy/league-engine/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu     sync.RWMutex
	events map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{events: make(map[string]jobscheduler.DispatchEvent)}
}

// UpsertEvent keeps the latest status per dispatch id.
func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return fmt.Errorf("dispatch id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event.DispatchID = dispatchID
	event.Payload = maps.Clone(event.Payload)
	r.events[dispatchID] = event
	return nil
}

func (r *JobDispatchRepository) GetByDispatchID(_ context.Context, dispatchID string) (jobscheduler.DispatchEvent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.events[strings.TrimSpace(dispatchID)]
	return item, ok, nil
}
