package memory

import (
	"context"
	"slices"

	"github.com/riskibarqy/league-engine/internal/domain/powerranking"
	"github.com/riskibarqy/league-engine/internal/domain/record"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
)

type standingRepository struct {
	st *state
}

func (r standingRepository) ListTeams(_ context.Context, scopeID int64) ([]standing.TeamStanding, error) {
	return slices.Clone(r.st.teamStandings[scopeID]), nil
}

func (r standingRepository) ListPlayers(_ context.Context, scopeID int64) ([]standing.PlayerStanding, error) {
	return slices.Clone(r.st.playerStandings[scopeID]), nil
}

func (r standingRepository) ReplaceTeams(_ context.Context, scopeID int64, rows []standing.TeamStanding) error {
	if len(rows) == 0 {
		delete(r.st.teamStandings, scopeID)
		return nil
	}
	r.st.teamStandings[scopeID] = slices.Clone(rows)
	return nil
}

func (r standingRepository) ReplacePlayers(_ context.Context, scopeID int64, rows []standing.PlayerStanding) error {
	if len(rows) == 0 {
		delete(r.st.playerStandings, scopeID)
		return nil
	}
	r.st.playerStandings[scopeID] = slices.Clone(rows)
	return nil
}

type recordRepository struct {
	st *state
}

func (r recordRepository) GetByScope(_ context.Context, scopeID int64) (record.Snapshot, bool, error) {
	item, ok := r.st.records[scopeID]
	return item, ok, nil
}

func (r recordRepository) Upsert(_ context.Context, snapshot record.Snapshot) error {
	r.st.records[snapshot.ScopeID] = snapshot
	return nil
}

type rankingRepository struct {
	st *state
}

func (r rankingRepository) ListByScope(_ context.Context, scopeID int64) ([]powerranking.Ranking, error) {
	return slices.Clone(r.st.rankings[scopeID]), nil
}

func (r rankingRepository) ReplaceByScope(_ context.Context, scopeID int64, rows []powerranking.Ranking) error {
	if len(rows) == 0 {
		delete(r.st.rankings, scopeID)
		return nil
	}
	r.st.rankings[scopeID] = slices.Clone(rows)
	return nil
}
