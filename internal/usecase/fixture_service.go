package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type FixtureService struct {
	tx       uow.Manager
	location *time.Location
	logger   *logging.Logger
}

// NewFixtureService builds the service; location decides the calendar date of
// a kickoff when checking membership windows.
func NewFixtureService(tx uow.Manager, location *time.Location, logger *logging.Logger) *FixtureService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureService{
		tx:       tx,
		location: location,
		logger:   logger,
	}
}

// RecalculateFixtureTotals refreshes the cached totals of one fixture. An
// ineligible scorer aborts before anything is written.
func (s *FixtureService) RecalculateFixtureTotals(ctx context.Context, fixtureID int64) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.RecalculateFixtureTotals",
		attribute.Int64("fixture.id", fixtureID))
	var err error
	defer func() { endSpan(span, err) }()

	if fixtureID <= 0 {
		err = fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
		return fixture.Fixture{}, err
	}

	var updated fixture.Fixture
	err = s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		f, err := getFixture(ctx, repos, fixtureID)
		if err != nil {
			return err
		}
		if err := repos.Locks.Lock(ctx, uow.ScopeKey(f.ScopeID)); err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		totals, err := recalculateTotals(ctx, repos, s.location, f)
		if err != nil {
			return err
		}
		if err := repos.Fixtures.UpdateTotals(ctx, f.ID, totals); err != nil {
			return fmt.Errorf("update fixture totals: %w", err)
		}
		f.Totals = totals
		updated = f
		return nil
	})
	if err != nil {
		return fixture.Fixture{}, err
	}

	s.logger.DebugContext(ctx, "fixture totals recalculated",
		"fixture_id", updated.ID,
		"scope_id", updated.ScopeID,
		"is_played", updated.IsPlayed,
		"home_total", updated.HomeTotalPoints,
		"away_total", updated.AwayTotalPoints,
	)
	return updated, nil
}

// SeedDefaultScores inserts zero-point scores for the first three members of
// each side, by player name, when a fixture's result is first entered.
// Existing scores are left untouched.
func (s *FixtureService) SeedDefaultScores(ctx context.Context, fixtureID int64) (int, error) {
	if fixtureID <= 0 {
		return 0, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	inserted := 0
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		f, err := getFixture(ctx, repos, fixtureID)
		if err != nil {
			return err
		}
		result, ok, err := repos.Fixtures.GetResult(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: fixture %d has no result", ErrInvalidInput, f.ID)
		}
		sc, err := getScope(ctx, repos, f.ScopeID)
		if err != nil {
			return err
		}

		date := scope.Date(f.KickoffAt, s.location)
		seed := make([]fixture.PlayerScore, 0, 2*fixture.PlayersPerSide)
		for _, side := range []struct {
			side   fixture.Side
			teamID int64
		}{
			{side: fixture.SideHome, teamID: f.HomeTeamID},
			{side: fixture.SideAway, teamID: f.AwayTeamID},
		} {
			ids, err := membersOnDate(ctx, repos, sc.SeasonID, side.teamID, date)
			if err != nil {
				return err
			}
			players, err := repos.Players.ListByIDs(ctx, ids)
			if err != nil {
				return fmt.Errorf("list players: %w", err)
			}
			sort.SliceStable(players, func(i, j int) bool {
				return strings.ToLower(players[i].Name) < strings.ToLower(players[j].Name)
			})
			if len(players) > fixture.PlayersPerSide {
				players = players[:fixture.PlayersPerSide]
			}
			for _, p := range players {
				seed = append(seed, fixture.PlayerScore{
					ResultID:  result.ID,
					FixtureID: f.ID,
					PlayerID:  p.ID,
					Side:      side.side,
				})
			}
		}

		n, err := repos.Fixtures.InsertScoresIgnoreConflict(ctx, seed)
		if err != nil {
			return fmt.Errorf("seed default scores: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// recalculateTotals returns the totals a fixture should carry given its
// current result, scores and membership windows.
func recalculateTotals(ctx context.Context, repos uow.Repositories, loc *time.Location, f fixture.Fixture) (fixture.Totals, error) {
	_, hasResult, err := repos.Fixtures.GetResult(ctx, f.ID)
	if err != nil {
		return fixture.Totals{}, fmt.Errorf("get result: %w", err)
	}
	if !hasResult {
		return fixture.Totals{}, nil
	}
	scores, err := repos.Fixtures.ListScores(ctx, f.ID)
	if err != nil {
		return fixture.Totals{}, fmt.Errorf("list scores: %w", err)
	}
	if !fixture.IsComplete(scores) {
		return fixture.Totals{}, nil
	}

	sc, err := getScope(ctx, repos, f.ScopeID)
	if err != nil {
		return fixture.Totals{}, err
	}
	date := scope.Date(f.KickoffAt, loc)
	home, err := membersOnDate(ctx, repos, sc.SeasonID, f.HomeTeamID, date)
	if err != nil {
		return fixture.Totals{}, err
	}
	away, err := membersOnDate(ctx, repos, sc.SeasonID, f.AwayTeamID, date)
	if err != nil {
		return fixture.Totals{}, err
	}

	return fixture.ComputeTotals(f, scores, fixture.NewEligibility(date, home, away))
}

func getFixture(ctx context.Context, repos uow.Repositories, fixtureID int64) (fixture.Fixture, error) {
	f, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !ok {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
	}
	return f, nil
}

func getScope(ctx context.Context, repos uow.Repositories, scopeID int64) (scope.Scope, error) {
	sc, ok, err := repos.Scopes.GetByID(ctx, scopeID)
	if err != nil {
		return scope.Scope{}, fmt.Errorf("get scope: %w", err)
	}
	if !ok {
		return scope.Scope{}, fmt.Errorf("%w: scope=%d", ErrNotFound, scopeID)
	}
	return sc, nil
}
