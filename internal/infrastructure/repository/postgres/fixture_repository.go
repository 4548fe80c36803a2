package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

var fixtureSelectColumns = []string{
	"id",
	"scope_id",
	"gameweek",
	"kickoff_at",
	"home_team_id",
	"away_team_id",
	"replay_of_id",
	"stage_id",
	"home_total_points",
	"away_total_points",
	"home_match_points",
	"away_match_points",
	"is_played",
}

var playerScoreSelectColumns = []string{
	"ps.id",
	"ps.result_id",
	"r.fixture_id",
	"ps.player_id",
	"ps.side",
	"ps.points",
}

type FixtureRepository struct {
	db sqlx.ExtContext
}

func NewFixtureRepository(db sqlx.ExtContext) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(qb.Eq("id", fixtureID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture id=%d: %w", fixtureID, err)
	}
	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) ListByScope(ctx context.Context, scopeID int64) ([]fixture.Fixture, error) {
	return r.list(ctx, "list fixtures by scope", qb.Eq("scope_id", scopeID))
}

func (r *FixtureRepository) ListPlayedByScope(ctx context.Context, scopeID int64) ([]fixture.Fixture, error) {
	return r.list(ctx, "list played fixtures by scope", qb.Eq("scope_id", scopeID), qb.Eq("is_played", true))
}

func (r *FixtureRepository) ListReplayChain(ctx context.Context, rootID int64) ([]fixture.Fixture, error) {
	return r.list(ctx, "list replay chain", qb.Or(qb.Eq("id", rootID), qb.Eq("replay_of_id", rootID)))
}

func (r *FixtureRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(conds...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []fixtureTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}

func (r *FixtureRepository) CreateMany(ctx context.Context, fixtures []fixture.Fixture) ([]fixture.Fixture, error) {
	if len(fixtures) == 0 {
		return []fixture.Fixture{}, nil
	}

	models := make([]fixtureInsertModel, 0, len(fixtures))
	for _, item := range fixtures {
		models = append(models, fixtureInsertModel{
			ScopeID:         item.ScopeID,
			Gameweek:        item.Gameweek,
			KickoffAt:       item.KickoffAt.UTC(),
			HomeTeamID:      item.HomeTeamID,
			AwayTeamID:      item.AwayTeamID,
			ReplayOfID:      int64PtrToNull(item.ReplayOfID),
			StageID:         int64PtrToNull(item.StageID),
			HomeTotalPoints: item.HomeTotalPoints,
			AwayTotalPoints: item.AwayTotalPoints,
			HomeMatchPoints: item.HomeMatchPoints,
			AwayMatchPoints: item.AwayMatchPoints,
			IsPlayed:        item.IsPlayed,
		})
	}

	query, args, err := qb.InsertModels("fixtures", models, "RETURNING id")
	if err != nil {
		return nil, fmt.Errorf("build insert fixtures query: %w", err)
	}

	var ids []int64
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("insert fixtures: %w", err)
	}
	if len(ids) != len(fixtures) {
		return nil, fmt.Errorf("insert fixtures: got %d ids for %d rows", len(ids), len(fixtures))
	}

	out := make([]fixture.Fixture, len(fixtures))
	for i, item := range fixtures {
		item.ID = ids[i]
		out[i] = item
	}
	return out, nil
}

func (r *FixtureRepository) UpdateTotals(ctx context.Context, fixtureID int64, totals fixture.Totals) error {
	query, args, err := qb.Update("fixtures").
		Set("home_total_points", totals.HomeTotalPoints).
		Set("away_total_points", totals.AwayTotalPoints).
		Set("home_match_points", totals.HomeMatchPoints).
		Set("away_match_points", totals.AwayMatchPoints).
		Set("is_played", totals.IsPlayed).
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture totals query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture totals id=%d: %w", fixtureID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("fixture %d not found", fixtureID)
	}
	return nil
}

func (r *FixtureRepository) GetResult(ctx context.Context, fixtureID int64) (fixture.Result, bool, error) {
	query, args, err := qb.Select("id", "fixture_id", "notes", "created_at").From("results").
		Where(qb.Eq("fixture_id", fixtureID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Result{}, false, fmt.Errorf("build get result query: %w", err)
	}

	var row resultTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Result{}, false, nil
		}
		return fixture.Result{}, false, fmt.Errorf("get result fixture=%d: %w", fixtureID, err)
	}
	return fixture.Result{
		ID:        row.ID,
		FixtureID: row.FixtureID,
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *FixtureRepository) ListScores(ctx context.Context, fixtureID int64) ([]fixture.PlayerScore, error) {
	return r.listScores(ctx, "list fixture scores",
		"player_scores ps JOIN results r ON r.id = ps.result_id",
		qb.Eq("r.fixture_id", fixtureID))
}

func (r *FixtureRepository) ListScoresByScope(ctx context.Context, scopeID int64) ([]fixture.PlayerScore, error) {
	return r.listScores(ctx, "list scope scores",
		"player_scores ps JOIN results r ON r.id = ps.result_id JOIN fixtures f ON f.id = r.fixture_id",
		qb.Eq("f.scope_id", scopeID))
}

func (r *FixtureRepository) listScores(ctx context.Context, op, from string, conds ...qb.Condition) ([]fixture.PlayerScore, error) {
	query, args, err := qb.Select(playerScoreSelectColumns...).From(from).
		Where(conds...).
		OrderBy("ps.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []playerScoreTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]fixture.PlayerScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.PlayerScore{
			ID:        row.ID,
			ResultID:  row.ResultID,
			FixtureID: row.FixtureID,
			PlayerID:  row.PlayerID,
			Side:      fixture.Side(row.Side),
			Points:    row.Points,
		})
	}
	return out, nil
}

func (r *FixtureRepository) InsertScoresIgnoreConflict(ctx context.Context, scores []fixture.PlayerScore) (int, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	models := make([]playerScoreInsertModel, 0, len(scores))
	for _, item := range scores {
		models = append(models, playerScoreInsertModel{
			ResultID: item.ResultID,
			PlayerID: item.PlayerID,
			Side:     string(item.Side),
			Points:   item.Points,
		})
	}

	query, args, err := qb.InsertModels("player_scores", models, "ON CONFLICT (result_id, player_id) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("build insert player scores query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert player scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert player scores rows affected: %w", err)
	}
	return int(n), nil
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:         row.ID,
		ScopeID:    row.ScopeID,
		Gameweek:   row.Gameweek,
		KickoffAt:  row.KickoffAt.UTC(),
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		ReplayOfID: nullInt64Ptr(row.ReplayOfID),
		StageID:    nullInt64Ptr(row.StageID),
		Totals: fixture.Totals{
			HomeTotalPoints: row.HomeTotalPoints,
			AwayTotalPoints: row.AwayTotalPoints,
			HomeMatchPoints: row.HomeMatchPoints,
			AwayMatchPoints: row.AwayMatchPoints,
			IsPlayed:        row.IsPlayed,
		},
	}
}
