package uow

import (
	"context"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/player"
	"github.com/riskibarqy/league-engine/internal/domain/powerranking"
	"github.com/riskibarqy/league-engine/internal/domain/record"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	"github.com/riskibarqy/league-engine/internal/domain/team"
)

// Repositories is the set of repositories bound to one transaction.
type Repositories struct {
	Scopes       scope.Repository
	Teams        team.Repository
	Players      player.Repository
	Memberships  membership.Repository
	Transfers    membership.TransferRepository
	Fixtures     fixture.Repository
	Standings    standing.Repository
	Records      record.Repository
	Rankings     powerranking.Repository
	Achievements achievement.Repository
	Locks        Locker
}

// Locker serializes work on a key until the surrounding transaction ends.
type Locker interface {
	Lock(ctx context.Context, key string) error
}

// Manager runs fn inside one transaction. fn's repositories see and write
// the same snapshot; any error rolls everything back.
type Manager interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
