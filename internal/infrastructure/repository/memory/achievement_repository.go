package memory

import (
	"context"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
)

type achievementRepository struct {
	st *state
}

func (r achievementRepository) GetType(_ context.Context, typeID int64) (achievement.Type, bool, error) {
	item, ok := r.st.achievementTypes[typeID]
	return item, ok, nil
}

func (r achievementRepository) Create(_ context.Context, a achievement.Achievement) (achievement.Achievement, error) {
	a.ID = r.st.newID()
	r.st.achievements[a.ID] = a
	return a, nil
}
