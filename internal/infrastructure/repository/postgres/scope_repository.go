package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/scope"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

const scopeFrom = `scopes s
JOIN competitions c ON c.id = s.competition_id
JOIN divisions d ON d.id = s.division_id
JOIN competition_groups g ON g.id = s.group_id`

var scopeSelectColumns = []string{
	"s.id",
	"s.season_id",
	"s.competition_id",
	"s.division_id",
	"s.group_id",
	"c.name AS competition_name",
	"c.competition_type",
	"d.name AS division_name",
	"g.name AS group_name",
}

type ScopeRepository struct {
	db sqlx.ExtContext
}

func NewScopeRepository(db sqlx.ExtContext) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (r *ScopeRepository) GetByID(ctx context.Context, scopeID int64) (scope.Scope, bool, error) {
	query, args, err := qb.Select(scopeSelectColumns...).From(scopeFrom).
		Where(qb.Eq("s.id", scopeID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return scope.Scope{}, false, fmt.Errorf("build get scope query: %w", err)
	}

	var row scopeTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scope.Scope{}, false, nil
		}
		return scope.Scope{}, false, fmt.Errorf("get scope id=%d: %w", scopeID, err)
	}
	return scopeFromRow(row), true, nil
}

func (r *ScopeRepository) ListBySeason(ctx context.Context, seasonID int64, compType scope.CompetitionType) ([]scope.Scope, error) {
	conds := []qb.Condition{qb.Eq("s.season_id", seasonID)}
	if compType != "" {
		conds = append(conds, qb.Eq("c.competition_type", string(compType)))
	}
	return r.list(ctx, conds)
}

func (r *ScopeRepository) ListAll(ctx context.Context, compType scope.CompetitionType) ([]scope.Scope, error) {
	var conds []qb.Condition
	if compType != "" {
		conds = append(conds, qb.Eq("c.competition_type", string(compType)))
	}
	return r.list(ctx, conds)
}

func (r *ScopeRepository) list(ctx context.Context, conds []qb.Condition) ([]scope.Scope, error) {
	query, args, err := qb.Select(scopeSelectColumns...).From(scopeFrom).
		Where(conds...).
		OrderBy("s.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scopes query: %w", err)
	}

	var rows []scopeTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}

	out := make([]scope.Scope, 0, len(rows))
	for _, row := range rows {
		out = append(out, scopeFromRow(row))
	}
	return out, nil
}

func (r *ScopeRepository) GetSeason(ctx context.Context, seasonID int64) (scope.Season, bool, error) {
	query, args, err := qb.Select("id", "name", "start_date", "end_date").From("seasons").
		Where(qb.Eq("id", seasonID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return scope.Season{}, false, fmt.Errorf("build get season query: %w", err)
	}
	return r.getSeason(ctx, query, args)
}

func (r *ScopeRepository) LatestSeason(ctx context.Context) (scope.Season, bool, error) {
	query, args, err := qb.Select("id", "name", "start_date", "end_date").From("seasons").
		OrderBy("start_date DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return scope.Season{}, false, fmt.Errorf("build latest season query: %w", err)
	}
	return r.getSeason(ctx, query, args)
}

func (r *ScopeRepository) getSeason(ctx context.Context, query string, args []any) (scope.Season, bool, error) {
	var row seasonTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scope.Season{}, false, nil
		}
		return scope.Season{}, false, fmt.Errorf("get season: %w", err)
	}
	return scope.Season{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: dateOnly(row.StartDate),
		EndDate:   dateOnly(row.EndDate),
	}, true, nil
}

func scopeFromRow(row scopeTableModel) scope.Scope {
	compType, _ := scope.ParseCompetitionType(row.CompetitionType)
	return scope.Scope{
		ID:              row.ID,
		SeasonID:        row.SeasonID,
		CompetitionID:   row.CompetitionID,
		DivisionID:      row.DivisionID,
		GroupID:         row.GroupID,
		CompetitionName: row.CompetitionName,
		CompetitionType: compType,
		DivisionName:    row.DivisionName,
		GroupName:       row.GroupName,
	}
}
