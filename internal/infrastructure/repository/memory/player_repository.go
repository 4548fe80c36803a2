package memory

import (
	"context"

	"github.com/riskibarqy/league-engine/internal/domain/player"
)

type playerRepository struct {
	st *state
}

func (r playerRepository) GetByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	item, ok := r.st.players[playerID]
	return item, ok, nil
}

func (r playerRepository) ListByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	out := make([]player.Player, 0, len(playerIDs))
	seen := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.st.players[id]; ok {
			out = append(out, item)
		}
	}
	sortByID(out, func(p player.Player) int64 { return p.ID })
	return out, nil
}
