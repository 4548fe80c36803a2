package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/platform/id"
)

// cappedPool accepts a fixed number of tasks and rejects the rest.
type cappedPool struct {
	accept    int
	submitted int
	released  bool
}

func (p *cappedPool) Submit(task func()) error {
	if p.submitted == p.accept {
		return ants.ErrPoolOverload
	}
	p.submitted++
	go task()
	return nil
}

func (p *cappedPool) Release() { p.released = true }

func TestRebuildMany_SubmitFailureKeepsSubmittedStatuses(t *testing.T) {
	s := memory.NewStore()
	memory.SeedRoster(s)
	f := s.AddFixture(fixture.Fixture{
		ScopeID:    memory.SeedLeagueScopeID,
		Gameweek:   1,
		KickoffAt:  time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC),
		HomeTeamID: 10,
		AwayTeamID: 11,
	})
	memory.SeedScores(s, f, []int{7, 7, 7}, []int{5, 5, 5})

	pool := &cappedPool{accept: 1}
	svc := NewMaterializeService(s, id.NewUUIDGenerator(), MaterializeConfig{MaxWorkers: 2}, nil)
	svc.newPool = func(int) (taskPool, error) { return pool, nil }

	result, err := svc.RebuildSeason(context.Background(), memory.SeedSeasonID, "")
	require.ErrorIs(t, err, ants.ErrPoolOverload)
	assert.True(t, pool.released)

	assert.Equal(t, 2, result.ScopeCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Scopes, 2)

	assert.Equal(t, memory.SeedLeagueScopeID, result.Scopes[0].ScopeID)
	assert.Equal(t, rebuildStatusSuccess, result.Scopes[0].Status)
	assert.NotZero(t, result.Scopes[0].TeamRows)

	assert.Equal(t, memory.SeedCupScopeID, result.Scopes[1].ScopeID)
	assert.Equal(t, rebuildStatusFailed, result.Scopes[1].Status)
	assert.Contains(t, result.Scopes[1].Message, "not submitted")

	assert.NotEmpty(t, s.TeamStandings(memory.SeedLeagueScopeID))
}
