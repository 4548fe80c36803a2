package fixture

import "context"

// Repository exposes fixture, result and score access for the rebuild pipeline.
type Repository interface {
	GetByID(ctx context.Context, fixtureID int64) (Fixture, bool, error)
	ListByScope(ctx context.Context, scopeID int64) ([]Fixture, error)
	ListPlayedByScope(ctx context.Context, scopeID int64) ([]Fixture, error)
	ListReplayChain(ctx context.Context, rootID int64) ([]Fixture, error)
	CreateMany(ctx context.Context, fixtures []Fixture) ([]Fixture, error)
	UpdateTotals(ctx context.Context, fixtureID int64, totals Totals) error

	GetResult(ctx context.Context, fixtureID int64) (Result, bool, error)
	ListScores(ctx context.Context, fixtureID int64) ([]PlayerScore, error)
	ListScoresByScope(ctx context.Context, scopeID int64) ([]PlayerScore, error)
	InsertScoresIgnoreConflict(ctx context.Context, scores []PlayerScore) (int, error)
}
