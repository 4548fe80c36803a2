package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

func TestFixtureService_CupReplayFlow(t *testing.T) {
	s := newRosterStore(t)
	tie := addPlayed(s, memory.SeedCupScopeID, 1, kadikoy, uskudar, []int{5, 5, 5}, []int{4, 5, 6})
	svc := usecase.NewFixtureService(s, time.UTC, nil)
	ctx := context.Background()

	_, err := svc.RecalculateFixtureTotals(ctx, tie.ID)
	require.NoError(t, err)

	winner, err := svc.CupWinnerTeamID(ctx, tie.ID)
	require.NoError(t, err)
	assert.Nil(t, winner.WinnerTeamID)
	assert.True(t, winner.NeedsReplay)
	assert.Equal(t, 1, winner.ChainLength)

	_, err = svc.ScheduleReplay(ctx, tie.ID, tie.KickoffAt.Add(-time.Hour))
	require.ErrorIs(t, err, integrity.ErrValidation)

	replay, err := svc.ScheduleReplay(ctx, tie.ID, tie.KickoffAt.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.NotNil(t, replay.ReplayOfID)
	assert.Equal(t, tie.ID, *replay.ReplayOfID)
	assert.Equal(t, kadikoy, replay.HomeTeamID)

	_, err = svc.ScheduleReplay(ctx, tie.ID, tie.KickoffAt.AddDate(0, 0, 5))
	require.ErrorIs(t, err, integrity.ErrValidation, "the pending replay is not drawn yet")

	memory.SeedScores(s, replay, []int{3, 3, 3}, []int{4, 4, 4})
	_, err = svc.RecalculateFixtureTotals(ctx, replay.ID)
	require.NoError(t, err)

	winner, err = svc.CupWinnerTeamID(ctx, replay.ID)
	require.NoError(t, err)
	require.NotNil(t, winner.WinnerTeamID)
	assert.Equal(t, uskudar, *winner.WinnerTeamID)
	assert.Equal(t, tie.ID, winner.RootID)
	assert.Equal(t, 2, winner.ChainLength)
	assert.False(t, winner.NeedsReplay)
}

func TestFixtureService_ScheduleReplay_LeagueRejected(t *testing.T) {
	s := newRosterStore(t)
	f := addPlayed(s, memory.SeedLeagueScopeID, 1, kadikoy, uskudar, []int{5, 5, 5}, []int{5, 5, 5})
	svc := usecase.NewFixtureService(s, time.UTC, nil)

	_, err := svc.RecalculateFixtureTotals(context.Background(), f.ID)
	require.NoError(t, err)

	_, err = svc.ScheduleReplay(context.Background(), f.ID, f.KickoffAt.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, integrity.ErrValidation)
}

func TestFixtureService_GenerateSchedule(t *testing.T) {
	s := newRosterStore(t)
	svc := usecase.NewFixtureService(s, time.UTC, nil)

	created, err := svc.GenerateSchedule(context.Background(), usecase.GenerateScheduleInput{
		ScopeID:      memory.SeedLeagueScopeID,
		TeamIDs:      []int64{kadikoy, besiktas, uskudar, moda},
		FirstKickoff: firstKickoff,
		DoubleRound:  true,
	})
	require.NoError(t, err)
	require.Len(t, created, 12)
	for _, f := range created {
		assert.NotZero(t, f.ID)
		assert.False(t, f.IsPlayed)
	}
	assert.Equal(t, firstKickoff.AddDate(0, 0, 7), created[2].KickoffAt)

	meetings := map[[2]int64]int{}
	for _, f := range created {
		meetings[[2]int64{f.HomeTeamID, f.AwayTeamID}]++
	}
	assert.Len(t, meetings, 12, "every ordered pairing exactly once")

	_, err = svc.GenerateSchedule(context.Background(), usecase.GenerateScheduleInput{
		ScopeID:      memory.SeedLeagueScopeID,
		TeamIDs:      []int64{kadikoy, besiktas, uskudar},
		FirstKickoff: firstKickoff,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)

	_, err = svc.GenerateSchedule(context.Background(), usecase.GenerateScheduleInput{
		ScopeID:      memory.SeedLeagueScopeID,
		TeamIDs:      []int64{kadikoy, 99},
		FirstKickoff: firstKickoff,
	})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestFixtureService_HeadToHead(t *testing.T) {
	s := newRosterStore(t)
	addPlayed(s, memory.SeedLeagueScopeID, 1, kadikoy, besiktas, []int{10, 8, 7}, []int{9, 9, 9})
	addPlayed(s, memory.SeedLeagueScopeID, 2, besiktas, kadikoy, []int{5, 5, 5}, []int{10, 10, 10})
	addPlayed(s, memory.SeedLeagueScopeID, 3, besiktas, uskudar, []int{1, 1, 1}, []int{1, 1, 1})

	_, err := newMaterializer(s).RebuildScopeMaterialized(context.Background(), memory.SeedLeagueScopeID)
	require.NoError(t, err)

	svc := usecase.NewFixtureService(s, time.UTC, nil)
	got, err := svc.HeadToHead(context.Background(), memory.SeedLeagueScopeID, kadikoy, besiktas)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Played)
	assert.Equal(t, 1, got.AWins)
	assert.Equal(t, 1, got.ALosses)
	assert.Equal(t, 55, got.APoints)
	assert.Equal(t, 42, got.BPoints)
	assert.InDelta(t, 27.5, got.AAverage, 1e-9)
	assert.Equal(t, 15, got.BiggestMargin)
	require.Len(t, got.FixtureIDs, 2)
	require.NotNil(t, got.BiggestMarginFxID)
	assert.Equal(t, got.FixtureIDs[1], *got.BiggestMarginFxID)

	_, err = svc.HeadToHead(context.Background(), memory.SeedLeagueScopeID, kadikoy, kadikoy)
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}
