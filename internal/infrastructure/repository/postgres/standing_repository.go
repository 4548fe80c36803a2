package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/powerranking"
	"github.com/riskibarqy/league-engine/internal/domain/record"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

type StandingRepository struct {
	db sqlx.ExtContext
}

func NewStandingRepository(db sqlx.ExtContext) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListTeams(ctx context.Context, scopeID int64) ([]standing.TeamStanding, error) {
	query, args, err := qb.Select(
		"ts.scope_id", "ts.team_id", "ts.position", "ts.played", "ts.won", "ts.drawn", "ts.lost",
		"ts.match_points", "ts.total_points", "ts.form", "t.name AS team_name",
	).From("team_standings ts JOIN teams t ON t.id = ts.team_id").
		Where(qb.Eq("ts.scope_id", scopeID)).
		OrderBy("ts.position", "ts.team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team standings query: %w", err)
	}

	var rows []teamStandingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team standings scope=%d: %w", scopeID, err)
	}

	out := make([]standing.TeamStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.TeamStanding{
			ScopeID:     row.ScopeID,
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			Position:    row.Position,
			Played:      row.Played,
			Won:         row.Won,
			Drawn:       row.Drawn,
			Lost:        row.Lost,
			MatchPoints: row.MatchPoints,
			TotalPoints: row.TotalPoints,
			Form:        row.Form,
		})
	}
	return out, nil
}

func (r *StandingRepository) ListPlayers(ctx context.Context, scopeID int64) ([]standing.PlayerStanding, error) {
	query, args, err := qb.Select(
		"ps.scope_id", "ps.player_id", "ps.position", "ps.matches_played", "ps.total_points",
		"ps.best_match_points", "ps.average_points", "ps.stddev_points", "p.name AS player_name",
	).From("player_standings ps JOIN players p ON p.id = ps.player_id").
		Where(qb.Eq("ps.scope_id", scopeID)).
		OrderBy("ps.position", "ps.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player standings query: %w", err)
	}

	var rows []playerStandingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player standings scope=%d: %w", scopeID, err)
	}

	out := make([]standing.PlayerStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.PlayerStanding{
			ScopeID:         row.ScopeID,
			PlayerID:        row.PlayerID,
			PlayerName:      row.PlayerName,
			Position:        row.Position,
			MatchesPlayed:   row.MatchesPlayed,
			TotalPoints:     row.TotalPoints,
			BestMatchPoints: row.BestMatchPoints,
			AveragePoints:   row.AveragePoints,
			StdDevPoints:    row.StdDevPoints,
		})
	}
	return out, nil
}

func (r *StandingRepository) ReplaceTeams(ctx context.Context, scopeID int64, rows []standing.TeamStanding) error {
	models := make([]teamStandingTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, teamStandingTableModel{
			ScopeID:     scopeID,
			TeamID:      row.TeamID,
			Position:    row.Position,
			Played:      row.Played,
			Won:         row.Won,
			Drawn:       row.Drawn,
			Lost:        row.Lost,
			MatchPoints: row.MatchPoints,
			TotalPoints: row.TotalPoints,
			Form:        row.Form,
		})
	}
	return replaceScopeRows(ctx, r.db, "team_standings", scopeID, models)
}

func (r *StandingRepository) ReplacePlayers(ctx context.Context, scopeID int64, rows []standing.PlayerStanding) error {
	models := make([]playerStandingTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, playerStandingTableModel{
			ScopeID:         scopeID,
			PlayerID:        row.PlayerID,
			Position:        row.Position,
			MatchesPlayed:   row.MatchesPlayed,
			TotalPoints:     row.TotalPoints,
			BestMatchPoints: row.BestMatchPoints,
			AveragePoints:   row.AveragePoints,
			StdDevPoints:    row.StdDevPoints,
		})
	}
	return replaceScopeRows(ctx, r.db, "player_standings", scopeID, models)
}

// insertBatchSize keeps one INSERT well under PostgreSQL's 65535 bind
// parameter limit for every derived table.
const insertBatchSize = 500

// replaceScopeRows clears a scope's rows in table and inserts models in
// batches of insertBatchSize. Callers run it inside the rebuild transaction.
func replaceScopeRows[T any](ctx context.Context, db sqlx.ExecerContext, table string, scopeID int64, models []T) error {
	clearQuery, clearArgs, err := qb.DeleteFrom(table).Where(qb.Eq("scope_id", scopeID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear %s scope=%d: %w", table, scopeID, err)
	}

	for start := 0; start < len(models); start += insertBatchSize {
		batch := models[start:min(start+insertBatchSize, len(models))]
		query, args, err := qb.InsertModels(table, batch, "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s scope=%d rows=%d..%d: %w", table, scopeID, start, start+len(batch)-1, err)
		}
	}
	return nil
}

type RecordRepository struct {
	db sqlx.ExtContext
}

func NewRecordRepository(db sqlx.ExtContext) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) GetByScope(ctx context.Context, scopeID int64) (record.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From("scope_records").
		Where(qb.Eq("scope_id", scopeID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return record.Snapshot{}, false, fmt.Errorf("build get scope record query: %w", err)
	}

	var row scopeRecordTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return record.Snapshot{}, false, nil
		}
		return record.Snapshot{}, false, fmt.Errorf("get scope record scope=%d: %w", scopeID, err)
	}

	return record.Snapshot{
		ScopeID:                     row.ScopeID,
		BiggestWinMargin:            row.BiggestWinMargin,
		BiggestWinFixtureID:         nullInt64Ptr(row.BiggestWinFixtureID),
		HighestTeamScore:            row.HighestTeamScore,
		HighestTeamScoreFixtureID:   nullInt64Ptr(row.HighestTeamScoreFixtureID),
		HighestTeamScoreTeamID:      nullInt64Ptr(row.HighestTeamScoreTeamID),
		HighestPlayerScore:          row.HighestPlayerScore,
		HighestPlayerScorePlayerID:  nullInt64Ptr(row.HighestPlayerScorePlayerID),
		HighestPlayerScoreFixtureID: nullInt64Ptr(row.HighestPlayerScoreFixtureID),
		LongestWinStreak:            row.LongestWinStreak,
		LongestUnbeatenStreak:       row.LongestUnbeatenStreak,
		UpdatedAt:                   row.UpdatedAt,
	}, true, nil
}

func (r *RecordRepository) Upsert(ctx context.Context, snapshot record.Snapshot) error {
	model := scopeRecordTableModel{
		ScopeID:                     snapshot.ScopeID,
		BiggestWinMargin:            snapshot.BiggestWinMargin,
		BiggestWinFixtureID:         int64PtrToNull(snapshot.BiggestWinFixtureID),
		HighestTeamScore:            snapshot.HighestTeamScore,
		HighestTeamScoreFixtureID:   int64PtrToNull(snapshot.HighestTeamScoreFixtureID),
		HighestTeamScoreTeamID:      int64PtrToNull(snapshot.HighestTeamScoreTeamID),
		HighestPlayerScore:          snapshot.HighestPlayerScore,
		HighestPlayerScorePlayerID:  int64PtrToNull(snapshot.HighestPlayerScorePlayerID),
		HighestPlayerScoreFixtureID: int64PtrToNull(snapshot.HighestPlayerScoreFixtureID),
		LongestWinStreak:            snapshot.LongestWinStreak,
		LongestUnbeatenStreak:       snapshot.LongestUnbeatenStreak,
		UpdatedAt:                   snapshot.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("scope_records", model, `ON CONFLICT (scope_id)
DO UPDATE SET
    biggest_win_margin = EXCLUDED.biggest_win_margin,
    biggest_win_fixture_id = EXCLUDED.biggest_win_fixture_id,
    highest_team_score = EXCLUDED.highest_team_score,
    highest_team_score_fixture_id = EXCLUDED.highest_team_score_fixture_id,
    highest_team_score_team_id = EXCLUDED.highest_team_score_team_id,
    highest_player_score = EXCLUDED.highest_player_score,
    highest_player_score_player_id = EXCLUDED.highest_player_score_player_id,
    highest_player_score_fixture_id = EXCLUDED.highest_player_score_fixture_id,
    longest_win_streak = EXCLUDED.longest_win_streak,
    longest_unbeaten_streak = EXCLUDED.longest_unbeaten_streak,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert scope record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scope record scope=%d: %w", snapshot.ScopeID, err)
	}
	return nil
}

type RankingRepository struct {
	db sqlx.ExtContext
}

func NewRankingRepository(db sqlx.ExtContext) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) ListByScope(ctx context.Context, scopeID int64) ([]powerranking.Ranking, error) {
	query, args, err := qb.Select(
		"pr.scope_id", "pr.gameweek", "pr.team_id", "pr.rank", "pr.score",
		"pr.cumulative_total", "pr.form", "t.name AS team_name",
	).From("power_rankings pr JOIN teams t ON t.id = pr.team_id").
		Where(qb.Eq("pr.scope_id", scopeID)).
		OrderBy("pr.gameweek", "pr.rank", "pr.team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list power rankings query: %w", err)
	}

	var rows []powerRankingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list power rankings scope=%d: %w", scopeID, err)
	}

	out := make([]powerranking.Ranking, 0, len(rows))
	for _, row := range rows {
		out = append(out, powerranking.Ranking{
			ScopeID:         row.ScopeID,
			Gameweek:        row.Gameweek,
			TeamID:          row.TeamID,
			TeamName:        row.TeamName,
			Rank:            row.Rank,
			Score:           row.Score,
			CumulativeTotal: row.CumulativeTotal,
			Form:            row.Form,
		})
	}
	return out, nil
}

func (r *RankingRepository) ReplaceByScope(ctx context.Context, scopeID int64, rows []powerranking.Ranking) error {
	models := make([]powerRankingTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, powerRankingTableModel{
			ScopeID:         scopeID,
			Gameweek:        row.Gameweek,
			TeamID:          row.TeamID,
			Rank:            row.Rank,
			Score:           row.Score,
			CumulativeTotal: row.CumulativeTotal,
			Form:            row.Form,
		})
	}
	return replaceScopeRows(ctx, r.db, "power_rankings", scopeID, models)
}
