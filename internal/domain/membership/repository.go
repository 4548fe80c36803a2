package membership

import (
	"context"
	"time"
)

// Repository exposes membership window reads and mutations.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID int64) ([]Membership, error)
	ListTeamOnDate(ctx context.Context, seasonID, teamID int64, date time.Time) ([]Membership, error)
	GetOpenForPlayer(ctx context.Context, seasonID, playerID int64) (Membership, bool, error)
	Create(ctx context.Context, m Membership) (Membership, error)
	SetEndDate(ctx context.Context, membershipID int64, end *time.Time) error
}

type TransferRepository interface {
	GetByID(ctx context.Context, transferID int64) (Transfer, bool, error)
}
