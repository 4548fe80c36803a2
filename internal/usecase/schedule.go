package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

type GenerateScheduleInput struct {
	ScopeID       int64
	TeamIDs       []int64
	FirstKickoff  time.Time
	DaysBetween   int
	DoubleRound   bool
	FirstGameweek int
}

// GenerateSchedule writes a round-robin schedule for a scope in one
// transaction. Fixtures are created unplayed.
func (s *FixtureService) GenerateSchedule(ctx context.Context, input GenerateScheduleInput) ([]fixture.Fixture, error) {
	if input.ScopeID <= 0 {
		return nil, fmt.Errorf("%w: scope id is required", ErrInvalidInput)
	}
	if input.FirstKickoff.IsZero() {
		return nil, fmt.Errorf("%w: first kickoff is required", ErrInvalidInput)
	}
	if input.DaysBetween == 0 {
		input.DaysBetween = 7
	}

	planned, err := fixture.GenerateRoundRobin(fixture.RoundRobinOptions{
		ScopeID:       input.ScopeID,
		TeamIDs:       input.TeamIDs,
		FirstKickoff:  input.FirstKickoff,
		DaysBetween:   input.DaysBetween,
		DoubleRound:   input.DoubleRound,
		FirstGameweek: input.FirstGameweek,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created []fixture.Fixture
	err = s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		if _, err := getScope(ctx, repos, input.ScopeID); err != nil {
			return err
		}
		if err := repos.Locks.Lock(ctx, uow.ScopeKey(input.ScopeID)); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		teams, err := repos.Teams.ListByIDs(ctx, input.TeamIDs)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		if len(teams) != len(input.TeamIDs) {
			return fmt.Errorf("%w: %d of %d teams exist", ErrNotFound, len(teams), len(input.TeamIDs))
		}

		rows, err := repos.Fixtures.CreateMany(ctx, planned)
		if err != nil {
			return fmt.Errorf("create fixtures: %w", err)
		}
		created = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "round robin generated",
		"scope_id", input.ScopeID,
		"team_count", len(input.TeamIDs),
		"fixture_count", len(created),
		"double_round", input.DoubleRound,
	)
	return created, nil
}
