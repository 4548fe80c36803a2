package record

import (
	"context"
	"time"
)

// Snapshot holds the running records of one scope. Reference fields stay nil
// until a played fixture sets the record.
type Snapshot struct {
	ScopeID int64

	BiggestWinMargin    int
	BiggestWinFixtureID *int64

	HighestTeamScore          int
	HighestTeamScoreFixtureID *int64
	HighestTeamScoreTeamID    *int64

	HighestPlayerScore          int
	HighestPlayerScorePlayerID  *int64
	HighestPlayerScoreFixtureID *int64

	LongestWinStreak      int
	LongestUnbeatenStreak int

	UpdatedAt time.Time
}

// Repository upserts the single snapshot row of a scope.
type Repository interface {
	GetByScope(ctx context.Context, scopeID int64) (Snapshot, bool, error)
	Upsert(ctx context.Context, snapshot Snapshot) error
}
