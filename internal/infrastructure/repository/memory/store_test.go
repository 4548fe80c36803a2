package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
)

func TestStoreDo_RollsBackOnError(t *testing.T) {
	s := NewStore()
	f := s.AddFixture(fixture.Fixture{ScopeID: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2})

	boom := errors.New("boom")
	err := s.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		if err := repos.Fixtures.UpdateTotals(ctx, f.ID, fixture.Totals{HomeTotalPoints: 9, IsPlayed: true}); err != nil {
			return err
		}
		got, _, err := repos.Fixtures.GetByID(ctx, f.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPlayed, "writes are visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, ok := s.Fixture(f.ID)
	require.True(t, ok)
	assert.False(t, got.IsPlayed)
}

func TestStoreDo_CommitsOnSuccess(t *testing.T) {
	s := NewStore()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	m := s.AddMembership(membership.Membership{SeasonID: 1, TeamID: 2, PlayerID: 3, StartDate: start})

	end := start.AddDate(0, 1, 0)
	err := s.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		return repos.Memberships.SetEndDate(ctx, m.ID, &end)
	})
	require.NoError(t, err)

	rows := s.Memberships(1)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].EndDate)
	assert.True(t, rows[0].EndDate.Equal(end))
}

func TestStoreDo_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Do(ctx, func(context.Context, uow.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFixtureRepository_InsertScoresIgnoreConflict(t *testing.T) {
	s := NewStore()
	f := s.AddFixture(fixture.Fixture{ScopeID: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2})
	res := s.AddResult(fixture.Result{FixtureID: f.ID})
	s.AddScore(fixture.PlayerScore{FixtureID: f.ID, PlayerID: 7, Side: fixture.SideHome, Points: 4})

	var inserted int
	err := s.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		n, err := repos.Fixtures.InsertScoresIgnoreConflict(ctx, []fixture.PlayerScore{
			{ResultID: res.ID, FixtureID: f.ID, PlayerID: 7, Side: fixture.SideHome},
			{ResultID: res.ID, FixtureID: f.ID, PlayerID: 8, Side: fixture.SideHome},
		})
		inserted = n
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	scores := s.Scores(f.ID)
	require.Len(t, scores, 2)
	assert.Equal(t, 4, scores[0].Points, "existing score is untouched")
}

func TestScopeRepository_LatestSeason(t *testing.T) {
	s := NewStore()
	Seed(s)

	err := s.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		season, ok, err := repos.Scopes.LatestSeason(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, SeedSeasonID, season.ID)

		scopes, err := repos.Scopes.ListBySeason(ctx, SeedSeasonID, "")
		require.NoError(t, err)
		assert.Len(t, scopes, 2)
		return nil
	})
	require.NoError(t, err)
}
