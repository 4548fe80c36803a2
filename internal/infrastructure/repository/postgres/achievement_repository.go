package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/achievement"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type AchievementRepository struct {
	db sqlx.ExtContext
}

func NewAchievementRepository(db sqlx.ExtContext) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) GetType(ctx context.Context, typeID int64) (achievement.Type, bool, error) {
	query, args, err := qb.Select("id", "name", "is_team", "is_player").From("achievement_types").
		Where(qb.Eq("id", typeID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return achievement.Type{}, false, fmt.Errorf("build get achievement type query: %w", err)
	}

	var row achievementTypeTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return achievement.Type{}, false, nil
		}
		return achievement.Type{}, false, fmt.Errorf("get achievement type id=%d: %w", typeID, err)
	}
	return achievement.Type{ID: row.ID, Name: row.Name, IsTeam: row.IsTeam, IsPlayer: row.IsPlayer}, true, nil
}

func (r *AchievementRepository) Create(ctx context.Context, a achievement.Achievement) (achievement.Achievement, error) {
	awardedAt := a.AwardedAt.UTC()
	if awardedAt.IsZero() {
		awardedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("achievements", achievementInsertModel{
		TypeID:           a.TypeID,
		SeasonID:         a.SeasonID,
		ScopeID:          int64PtrToNull(a.ScopeID),
		TeamID:           int64PtrToNull(a.TeamID),
		PlayerID:         int64PtrToNull(a.PlayerID),
		FixtureID:        int64PtrToNull(a.FixtureID),
		OpponentTeamID:   int64PtrToNull(a.OpponentTeamID),
		OpponentPlayerID: int64PtrToNull(a.OpponentPlayerID),
		Note:             a.Note,
		AwardedAt:        awardedAt,
	}, "RETURNING id, awarded_at")
	if err != nil {
		return achievement.Achievement{}, fmt.Errorf("build insert achievement query: %w", err)
	}

	var created achievementCreatedRow
	if err := sqlx.GetContext(ctx, r.db, &created, query, args...); err != nil {
		return achievement.Achievement{}, fmt.Errorf("insert achievement type=%d: %w", a.TypeID, err)
	}
	a.ID = created.ID
	a.AwardedAt = created.AwardedAt
	return a, nil
}
