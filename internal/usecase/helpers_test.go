package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

const (
	kadikoy  int64 = 10
	besiktas int64 = 11
	uskudar  int64 = 12
	moda     int64 = 13
)

var firstKickoff = time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)

func newRosterStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	memory.SeedRoster(s)
	return s
}

// addPlayed stores a fixture with a result and three scores per side from the
// teams' seeded rosters.
func addPlayed(s *memory.Store, scopeID int64, gameweek int, home, away int64, homePts, awayPts []int) fixture.Fixture {
	f := s.AddFixture(fixture.Fixture{
		ScopeID:    scopeID,
		Gameweek:   gameweek,
		KickoffAt:  firstKickoff.AddDate(0, 0, 7*(gameweek-1)),
		HomeTeamID: home,
		AwayTeamID: away,
	})
	memory.SeedScores(s, f, homePts, awayPts)
	return f
}

func newMaterializer(s *memory.Store) *usecase.MaterializeService {
	return usecase.NewMaterializeService(s, id.NewUUIDGenerator(), usecase.MaterializeConfig{MaxWorkers: 2}, nil)
}

func listFixtures(t *testing.T, s *memory.Store, scopeID int64) []fixture.Fixture {
	t.Helper()
	var out []fixture.Fixture
	err := s.Do(context.Background(), func(ctx context.Context, repos uow.Repositories) error {
		rows, err := repos.Fixtures.ListByScope(ctx, scopeID)
		out = rows
		return err
	})
	require.NoError(t, err)
	return out
}

func standingOrder(rows []standing.TeamStanding) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TeamID)
	}
	return out
}
