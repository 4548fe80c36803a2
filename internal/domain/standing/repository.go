package standing

import "context"

// Repository replaces a scope's standings as whole sets.
type Repository interface {
	ListTeams(ctx context.Context, scopeID int64) ([]TeamStanding, error)
	ListPlayers(ctx context.Context, scopeID int64) ([]PlayerStanding, error)
	ReplaceTeams(ctx context.Context, scopeID int64, rows []TeamStanding) error
	ReplacePlayers(ctx context.Context, scopeID int64, rows []PlayerStanding) error
}
