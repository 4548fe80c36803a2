package scope

import "context"

// Repository exposes season and scope reads used by the rebuild pipeline.
type Repository interface {
	GetByID(ctx context.Context, scopeID int64) (Scope, bool, error)
	ListBySeason(ctx context.Context, seasonID int64, compType CompetitionType) ([]Scope, error)
	ListAll(ctx context.Context, compType CompetitionType) ([]Scope, error)
	GetSeason(ctx context.Context, seasonID int64) (Season, bool, error)
	LatestSeason(ctx context.Context) (Season, bool, error)
}
