package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	usecasemock "github.com/riskibarqy/league-engine/internal/mocks/usecase"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

func newTriggerService(s *memory.Store, dispatcher usecase.RebuildDispatcher) *usecase.TriggerService {
	return usecase.NewTriggerService(
		s,
		usecase.NewFixtureService(s, time.UTC, nil),
		usecase.NewMembershipService(s, nil),
		dispatcher,
		nil,
	)
}

func TestTriggerService_OnScoresChanged_SeedsAndDispatches(t *testing.T) {
	s := newRosterStore(t)
	f := s.AddFixture(fixture.Fixture{
		ScopeID:    memory.SeedLeagueScopeID,
		Gameweek:   1,
		KickoffAt:  firstKickoff,
		HomeTeamID: kadikoy,
		AwayTeamID: moda,
	})
	s.AddResult(fixture.Result{FixtureID: f.ID})

	dispatcher := usecasemock.NewRebuildDispatcher(t)
	dispatcher.
		On("DispatchScopeRebuild", mock.Anything, memory.SeedLeagueScopeID, "scores-changed").
		Return(nil).
		Once()

	out, err := newTriggerService(s, dispatcher).OnScoresChanged(context.Background(), f.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 6, out.SeededScores)
	assert.True(t, out.IsPlayed, "six zero scores form a complete set")
	assert.Zero(t, out.HomeTotal)
	assert.True(t, out.RebuildQueued)

	stored, _ := s.Fixture(f.ID)
	assert.Equal(t, fixture.PointsDraw, stored.HomeMatchPoints)
}

func TestTriggerService_OnScoresChanged_IneligibleSkipsDispatch(t *testing.T) {
	s := newRosterStore(t)
	f := s.AddFixture(fixture.Fixture{
		ScopeID:    memory.SeedLeagueScopeID,
		Gameweek:   1,
		KickoffAt:  firstKickoff,
		HomeTeamID: kadikoy,
		AwayTeamID: moda,
	})
	// Home and away rosters swapped.
	memory.SeedScores(s, fixture.Fixture{ID: f.ID, HomeTeamID: moda, AwayTeamID: kadikoy, KickoffAt: f.KickoffAt}, []int{1, 1, 1}, []int{2, 2, 2})

	dispatcher := usecasemock.NewRebuildDispatcher(t)
	_, err := newTriggerService(s, dispatcher).OnScoresChanged(context.Background(), f.ID, false)
	require.Error(t, err)
	dispatcher.AssertNotCalled(t, "DispatchScopeRebuild", mock.Anything, mock.Anything, mock.Anything)
}

func TestTriggerService_OnTransferSaved_DispatchesEverySeasonScope(t *testing.T) {
	s := newRosterStore(t)
	releasePlayer(t, s, memory.SeedPlayerID(moda, 0), date(2026, 9, 1))
	tr := s.AddTransfer(membership.Transfer{
		SeasonID: memory.SeedSeasonID,
		PlayerID: memory.SeedPlayerID(uskudar, 1),
		Date:     date(2026, 9, 15),
		ToTeamID: moda,
	})

	dispatcher := usecasemock.NewRebuildDispatcher(t)
	dispatcher.On("DispatchScopeRebuild", mock.Anything, memory.SeedLeagueScopeID, "transfer-saved").Return(nil).Once()
	dispatcher.On("DispatchScopeRebuild", mock.Anything, memory.SeedCupScopeID, "transfer-saved").Return(errors.New("queue down")).Once()

	out, err := newTriggerService(s, dispatcher).OnTransferSaved(context.Background(), tr.ID)
	require.ErrorIs(t, err, usecase.ErrRebuildFailed)
	assert.Equal(t, []int64{memory.SeedLeagueScopeID}, out.DispatchedScopes)
	assert.Equal(t, 1, out.FailedScopeCount)
	assert.NotZero(t, out.Transfer.OpenedMembershipID)
}

func TestTriggerService_InlineDispatcherRebuilds(t *testing.T) {
	s := seededLeague(t)
	dispatcher := usecase.NewInlineDispatcher(newMaterializer(s))

	first := listFixtures(t, s, memory.SeedLeagueScopeID)[0]
	_, err := newTriggerService(s, dispatcher).OnScoresChanged(context.Background(), first.ID, false)
	require.NoError(t, err)
	assert.Len(t, s.TeamStandings(memory.SeedLeagueScopeID), 4)
}
