package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/integrity"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

// CupWinner is the outcome of a replay chain lookup.
type CupWinner struct {
	FixtureID    int64  `json:"fixture_id"`
	RootID       int64  `json:"root_fixture_id"`
	ChainLength  int    `json:"chain_length"`
	WinnerTeamID *int64 `json:"winner_team_id"`
	NeedsReplay  bool   `json:"needs_replay"`
}

// CupWinnerTeamID walks the replay chain that fixtureID belongs to. It never
// writes and is not part of scope materialization.
func (s *FixtureService) CupWinnerTeamID(ctx context.Context, fixtureID int64) (CupWinner, error) {
	if fixtureID <= 0 {
		return CupWinner{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	var out CupWinner
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		f, err := getFixture(ctx, repos, fixtureID)
		if err != nil {
			return err
		}
		chain, err := repos.Fixtures.ListReplayChain(ctx, f.RootID())
		if err != nil {
			return fmt.Errorf("list replay chain: %w", err)
		}

		out = CupWinner{
			FixtureID:   f.ID,
			RootID:      f.RootID(),
			ChainLength: len(chain),
			NeedsReplay: fixture.NeedsReplay(chain),
		}
		if winner, ok := fixture.CupWinner(chain); ok {
			out.WinnerTeamID = &winner
		}
		return nil
	})
	if err != nil {
		return CupWinner{}, err
	}
	return out, nil
}

// ScheduleReplay creates a replay of a drawn knockout fixture.
func (s *FixtureService) ScheduleReplay(ctx context.Context, fixtureID int64, kickoffAt time.Time) (fixture.Fixture, error) {
	if fixtureID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if kickoffAt.IsZero() {
		return fixture.Fixture{}, fmt.Errorf("%w: kickoff time is required", ErrInvalidInput)
	}

	var created fixture.Fixture
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		f, err := getFixture(ctx, repos, fixtureID)
		if err != nil {
			return err
		}
		if err := repos.Locks.Lock(ctx, uow.ScopeKey(f.ScopeID)); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}
		sc, err := getScope(ctx, repos, f.ScopeID)
		if err != nil {
			return err
		}
		if !sc.CompetitionType.IsKnockout() {
			return integrity.Invalid("replay_of", "replays are only scheduled for cup competitions, scope %d is %s", sc.ID, sc.CompetitionType)
		}

		original, err := getFixture(ctx, repos, f.RootID())
		if err != nil {
			return err
		}
		chain, err := repos.Fixtures.ListReplayChain(ctx, original.ID)
		if err != nil {
			return fmt.Errorf("list replay chain: %w", err)
		}
		if !fixture.NeedsReplay(chain) {
			return integrity.Invalid("replay_of", "fixture %d is not a drawn tie awaiting a replay", original.ID)
		}
		fixture.SortByKickoff(chain)
		if latest := chain[len(chain)-1]; !kickoffAt.After(latest.KickoffAt) {
			return integrity.Invalid("kickoff_at", "replay must kick off after %s", latest.KickoffAt.Format(time.RFC3339))
		}

		rootID := original.ID
		replay := fixture.Fixture{
			ScopeID:    original.ScopeID,
			Gameweek:   original.Gameweek,
			KickoffAt:  kickoffAt,
			HomeTeamID: original.HomeTeamID,
			AwayTeamID: original.AwayTeamID,
			ReplayOfID: &rootID,
			StageID:    original.StageID,
		}
		if err := replay.Validate(); err != nil {
			return err
		}
		if err := fixture.ValidateReplay(replay, original); err != nil {
			return err
		}

		rows, err := repos.Fixtures.CreateMany(ctx, []fixture.Fixture{replay})
		if err != nil {
			return fmt.Errorf("create replay: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return fixture.Fixture{}, err
	}

	s.logger.InfoContext(ctx, "replay scheduled",
		"fixture_id", created.ID,
		"replay_of", fixtureID,
		"kickoff_at", created.KickoffAt,
	)
	return created, nil
}
