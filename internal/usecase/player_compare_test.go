package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

// comparedLeague plays three gameweeks in the league scope, with kadikoy and
// besiktas meeting twice, and rebuilds it.
func comparedLeague(t *testing.T) *memory.Store {
	t.Helper()
	s := seededLeague(t)
	addPlayed(s, memory.SeedLeagueScopeID, 3, besiktas, kadikoy, []int{4, 4, 4}, []int{6, 6, 6})
	_, err := newMaterializer(s).RebuildScopeMaterialized(context.Background(), memory.SeedLeagueScopeID)
	require.NoError(t, err)
	return s
}

func TestFixtureService_PlayerVsPlayer(t *testing.T) {
	s := comparedLeague(t)
	svc := usecase.NewFixtureService(s, time.UTC, nil)
	playerA := memory.SeedPlayerID(kadikoy, 0)
	playerB := memory.SeedPlayerID(besiktas, 0)

	got, err := svc.PlayerVsPlayer(context.Background(), memory.SeedLeagueScopeID, playerA, playerB)
	require.NoError(t, err)

	require.NotNil(t, got.A)
	require.NotNil(t, got.B)
	assert.Equal(t, 24, got.A.TotalPoints)
	assert.Equal(t, 25, got.B.TotalPoints)
	assert.Equal(t, 3, got.A.MatchesPlayed)

	require.Len(t, got.SharedFixtures, 2)
	assert.Equal(t, 1, got.SharedFixtures[0].Gameweek)
	assert.Equal(t, 10, got.SharedFixtures[0].APoints)
	assert.Equal(t, 9, got.SharedFixtures[0].BPoints)
	assert.Equal(t, 3, got.SharedFixtures[1].Gameweek)
	assert.Equal(t, 6, got.SharedFixtures[1].APoints)
	assert.Equal(t, 4, got.SharedFixtures[1].BPoints)

	assert.Equal(t, []int{6, 8, 10}, got.ALastPoints)
	assert.Equal(t, []int{4, 12, 9}, got.BLastPoints)
}

func TestFixtureService_PlayerVsPlayer_LastPointsCapAtFive(t *testing.T) {
	s := newRosterStore(t)
	for gw := 1; gw <= 7; gw++ {
		addPlayed(s, memory.SeedLeagueScopeID, gw, kadikoy, moda, []int{gw, 1, 1}, []int{1, 1, 1})
	}
	_, err := newMaterializer(s).RebuildScopeMaterialized(context.Background(), memory.SeedLeagueScopeID)
	require.NoError(t, err)

	svc := usecase.NewFixtureService(s, time.UTC, nil)
	got, err := svc.PlayerVsPlayer(context.Background(), memory.SeedLeagueScopeID, memory.SeedPlayerID(kadikoy, 0), memory.SeedPlayerID(moda, 0))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 6, 5, 4, 3}, got.ALastPoints)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, got.BLastPoints)
	assert.Len(t, got.SharedFixtures, 7)
}

func TestFixtureService_PlayerVsPlayer_PlayerWithoutRows(t *testing.T) {
	s := comparedLeague(t)
	svc := usecase.NewFixtureService(s, time.UTC, nil)

	got, err := svc.PlayerVsPlayer(context.Background(), memory.SeedLeagueScopeID, memory.SeedPlayerID(kadikoy, 0), 999)
	require.NoError(t, err)
	assert.NotNil(t, got.A)
	assert.Nil(t, got.B)
	assert.Empty(t, got.SharedFixtures)
	assert.Empty(t, got.BLastPoints)
}

func TestFixtureService_PlayerVsPlayer_Rejects(t *testing.T) {
	svc := usecase.NewFixtureService(newRosterStore(t), time.UTC, nil)
	ctx := context.Background()

	_, err := svc.PlayerVsPlayer(ctx, memory.SeedLeagueScopeID, 100, 100)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = svc.PlayerVsPlayer(ctx, memory.SeedLeagueScopeID, 0, 100)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = svc.PlayerVsPlayer(ctx, 404, 100, 103)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestFixtureService_PlayersOverall(t *testing.T) {
	s := comparedLeague(t)
	second := s.AddScope(scope.Scope{
		SeasonID:        memory.SeedSeasonID,
		CompetitionID:   1,
		DivisionID:      2,
		CompetitionName: "Bosphorus League",
		CompetitionType: scope.CompetitionLeague,
		DivisionName:    "Championship",
	})
	addPlayed(s, second.ID, 1, uskudar, moda, []int{1, 1, 1}, []int{2, 2, 2})
	// Other competition; must not count.
	addPlayed(s, memory.SeedCupScopeID, 1, kadikoy, uskudar, []int{9, 9, 9}, []int{1, 1, 1})
	_, err := newMaterializer(s).RebuildSeason(context.Background(), memory.SeedSeasonID, "")
	require.NoError(t, err)

	svc := usecase.NewFixtureService(s, time.UTC, nil)
	got, err := svc.PlayersOverall(context.Background(), memory.SeedSeasonID, 1)
	require.NoError(t, err)

	assert.Equal(t, []int64{memory.SeedLeagueScopeID, second.ID}, got.ScopeIDs)
	require.Len(t, got.Rows, 12)

	top := got.Rows[0]
	assert.Equal(t, memory.SeedPlayerID(besiktas, 0), top.PlayerID)
	assert.Equal(t, 25, top.TotalPoints)
	assert.Equal(t, 3, top.MatchesPlayed)
	require.NotNil(t, top.TeamID)
	assert.Equal(t, besiktas, *top.TeamID)
	assert.Equal(t, "Besiktas Pier", top.TeamName)
	assert.NotEmpty(t, top.PlayerName)

	assert.Equal(t, memory.SeedPlayerID(kadikoy, 0), got.Rows[1].PlayerID)
	assert.Equal(t, 24, got.Rows[1].TotalPoints)

	byID := make(map[int64]usecase.PlayerOverallRow, len(got.Rows))
	for _, row := range got.Rows {
		byID[row.PlayerID] = row
	}
	assert.Equal(t, 10, byID[memory.SeedPlayerID(uskudar, 0)].TotalPoints)
	assert.Equal(t, 3, byID[memory.SeedPlayerID(uskudar, 0)].MatchesPlayed)
	assert.Equal(t, 15, byID[memory.SeedPlayerID(moda, 0)].TotalPoints)
}

func TestFixtureService_PlayersOverall_Rejects(t *testing.T) {
	svc := usecase.NewFixtureService(newRosterStore(t), time.UTC, nil)
	ctx := context.Background()

	_, err := svc.PlayersOverall(ctx, 0, 1)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = svc.PlayersOverall(ctx, 404, 1)
	assert.ErrorIs(t, err, usecase.ErrNotFound)

	got, err := svc.PlayersOverall(ctx, memory.SeedSeasonID, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Rows)
}
