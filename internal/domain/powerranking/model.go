package powerranking

import "context"

// Ranking is one team's position on the leaderboard at a gameweek cutoff.
type Ranking struct {
	ScopeID         int64
	Gameweek        int
	TeamID          int64
	TeamName        string
	Rank            int
	Score           float64
	CumulativeTotal int
	Form            string
}

// Repository replaces the whole ranking series of a scope at once.
type Repository interface {
	ListByScope(ctx context.Context, scopeID int64) ([]Ranking, error)
	ReplaceByScope(ctx context.Context, scopeID int64, rows []Ranking) error
}
