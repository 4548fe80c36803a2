package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	"github.com/riskibarqy/league-engine/internal/domain/integrity"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

func TestAchievementService_Award(t *testing.T) {
	s := newRosterStore(t)
	teamType := s.AddAchievementType(achievement.Type{Name: "Giant Killer", IsTeam: true})
	playerType := s.AddAchievementType(achievement.Type{Name: "Hat-trick Hero", IsPlayer: true})
	f := addPlayed(s, memory.SeedLeagueScopeID, 1, kadikoy, besiktas, []int{10, 8, 7}, []int{9, 9, 9})
	svc := usecase.NewAchievementService(s, nil)

	t.Run("team award on its fixture", func(t *testing.T) {
		got, err := svc.Award(context.Background(), usecase.AwardAchievementInput{
			TypeID:         teamType.ID,
			SeasonID:       memory.SeedSeasonID,
			ScopeID:        ptr(memory.SeedLeagueScopeID),
			TeamID:         ptr(besiktas),
			FixtureID:      ptr(f.ID),
			OpponentTeamID: ptr(kadikoy),
			Note:           "  beat the leaders  ",
		})
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "beat the leaders", got.Note)
		assert.False(t, got.AwardedAt.IsZero())
	})

	t.Run("player award with team", func(t *testing.T) {
		_, err := svc.Award(context.Background(), usecase.AwardAchievementInput{
			TypeID:   playerType.ID,
			SeasonID: memory.SeedSeasonID,
			TeamID:   ptr(kadikoy),
			PlayerID: ptr(memory.SeedPlayerID(kadikoy, 0)),
		})
		require.NoError(t, err)
	})

	rejected := []struct {
		name  string
		input usecase.AwardAchievementInput
	}{
		{
			name:  "no owner",
			input: usecase.AwardAchievementInput{TypeID: teamType.ID, SeasonID: memory.SeedSeasonID},
		},
		{
			name:  "team type given to a player",
			input: usecase.AwardAchievementInput{TypeID: teamType.ID, SeasonID: memory.SeedSeasonID, TeamID: ptr(kadikoy), PlayerID: ptr(memory.SeedPlayerID(kadikoy, 0))},
		},
		{
			name:  "player award without team",
			input: usecase.AwardAchievementInput{TypeID: playerType.ID, SeasonID: memory.SeedSeasonID, PlayerID: ptr(memory.SeedPlayerID(kadikoy, 0))},
		},
		{
			name:  "team not in fixture",
			input: usecase.AwardAchievementInput{TypeID: teamType.ID, SeasonID: memory.SeedSeasonID, TeamID: ptr(moda), FixtureID: ptr(f.ID)},
		},
		{
			name:  "opponent equals team",
			input: usecase.AwardAchievementInput{TypeID: teamType.ID, SeasonID: memory.SeedSeasonID, TeamID: ptr(kadikoy), FixtureID: ptr(f.ID), OpponentTeamID: ptr(kadikoy)},
		},
		{
			name:  "fixture outside award scope",
			input: usecase.AwardAchievementInput{TypeID: teamType.ID, SeasonID: memory.SeedSeasonID, ScopeID: ptr(memory.SeedCupScopeID), TeamID: ptr(kadikoy), FixtureID: ptr(f.ID)},
		},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Award(context.Background(), tc.input)
			assert.ErrorIs(t, err, integrity.ErrValidation)
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Award(context.Background(), usecase.AwardAchievementInput{TypeID: 9999, SeasonID: memory.SeedSeasonID, TeamID: ptr(kadikoy)})
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}
