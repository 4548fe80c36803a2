package memory

import (
	"context"

	"github.com/riskibarqy/league-engine/internal/domain/team"
)

type teamRepository struct {
	st *state
}

func (r teamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	item, ok := r.st.teams[teamID]
	return item, ok, nil
}

func (r teamRepository) ListByIDs(_ context.Context, teamIDs []int64) ([]team.Team, error) {
	out := make([]team.Team, 0, len(teamIDs))
	seen := make(map[int64]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.st.teams[id]; ok {
			out = append(out, item)
		}
	}
	sortByID(out, func(t team.Team) int64 { return t.ID })
	return out, nil
}
