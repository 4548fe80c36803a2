package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

type fixtureRepository struct {
	st *state
}

func (r fixtureRepository) GetByID(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	item, ok := r.st.fixtures[fixtureID]
	return item, ok, nil
}

func (r fixtureRepository) ListByScope(_ context.Context, scopeID int64) ([]fixture.Fixture, error) {
	return r.filter(func(f fixture.Fixture) bool { return f.ScopeID == scopeID }), nil
}

func (r fixtureRepository) ListPlayedByScope(_ context.Context, scopeID int64) ([]fixture.Fixture, error) {
	return r.filter(func(f fixture.Fixture) bool { return f.ScopeID == scopeID && f.IsPlayed }), nil
}

func (r fixtureRepository) ListReplayChain(_ context.Context, rootID int64) ([]fixture.Fixture, error) {
	return r.filter(func(f fixture.Fixture) bool { return f.RootID() == rootID }), nil
}

func (r fixtureRepository) filter(keep func(fixture.Fixture) bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0)
	for _, item := range r.st.fixtures {
		if keep(item) {
			out = append(out, item)
		}
	}
	fixture.SortByKickoff(out)
	return out
}

func (r fixtureRepository) CreateMany(_ context.Context, fixtures []fixture.Fixture) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(fixtures))
	for _, item := range fixtures {
		item.ID = r.st.newID()
		r.st.fixtures[item.ID] = item
		out = append(out, item)
	}
	return out, nil
}

func (r fixtureRepository) UpdateTotals(_ context.Context, fixtureID int64, totals fixture.Totals) error {
	item, ok := r.st.fixtures[fixtureID]
	if !ok {
		return fmt.Errorf("fixture %d not found", fixtureID)
	}
	item.Totals = totals
	r.st.fixtures[fixtureID] = item
	return nil
}

func (r fixtureRepository) GetResult(_ context.Context, fixtureID int64) (fixture.Result, bool, error) {
	item, ok := r.st.results[fixtureID]
	return item, ok, nil
}

func (r fixtureRepository) ListScores(_ context.Context, fixtureID int64) ([]fixture.PlayerScore, error) {
	return r.st.scoresOfFixture(fixtureID), nil
}

func (r fixtureRepository) ListScoresByScope(_ context.Context, scopeID int64) ([]fixture.PlayerScore, error) {
	out := make([]fixture.PlayerScore, 0)
	for _, item := range r.st.scores {
		f, ok := r.st.fixtures[item.FixtureID]
		if !ok || f.ScopeID != scopeID {
			continue
		}
		out = append(out, item)
	}
	sortByID(out, func(s fixture.PlayerScore) int64 { return s.ID })
	return out, nil
}

// InsertScoresIgnoreConflict skips scores whose result already has a row for
// the same player.
func (r fixtureRepository) InsertScoresIgnoreConflict(_ context.Context, scores []fixture.PlayerScore) (int, error) {
	inserted := 0
	for _, item := range scores {
		if r.st.hasScore(item.ResultID, item.PlayerID) {
			continue
		}
		item.ID = r.st.newID()
		r.st.scores[item.ID] = item
		inserted++
	}
	return inserted, nil
}

func (s *state) scoresOfFixture(fixtureID int64) []fixture.PlayerScore {
	out := make([]fixture.PlayerScore, 0)
	for _, item := range s.scores {
		if item.FixtureID == fixtureID {
			out = append(out, item)
		}
	}
	sortByID(out, func(s fixture.PlayerScore) int64 { return s.ID })
	return out
}

func (s *state) hasScore(resultID, playerID int64) bool {
	for _, item := range s.scores {
		if item.ResultID == resultID && item.PlayerID == playerID {
			return true
		}
	}
	return false
}
