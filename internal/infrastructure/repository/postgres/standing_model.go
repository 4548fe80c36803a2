package postgres

import (
	"database/sql"
	"time"
)

type teamStandingTableModel struct {
	ScopeID     int64  `db:"scope_id"`
	TeamID      int64  `db:"team_id"`
	Position    int    `db:"position"`
	Played      int    `db:"played"`
	Won         int    `db:"won"`
	Drawn       int    `db:"drawn"`
	Lost        int    `db:"lost"`
	MatchPoints int    `db:"match_points"`
	TotalPoints int    `db:"total_points"`
	Form        string `db:"form"`
}

type teamStandingRow struct {
	teamStandingTableModel
	TeamName string `db:"team_name"`
}

type playerStandingTableModel struct {
	ScopeID         int64   `db:"scope_id"`
	PlayerID        int64   `db:"player_id"`
	Position        int     `db:"position"`
	MatchesPlayed   int     `db:"matches_played"`
	TotalPoints     int     `db:"total_points"`
	BestMatchPoints int     `db:"best_match_points"`
	AveragePoints   float64 `db:"average_points"`
	StdDevPoints    float64 `db:"stddev_points"`
}

type playerStandingRow struct {
	playerStandingTableModel
	PlayerName string `db:"player_name"`
}

type scopeRecordTableModel struct {
	ScopeID                     int64         `db:"scope_id"`
	BiggestWinMargin            int           `db:"biggest_win_margin"`
	BiggestWinFixtureID         sql.NullInt64 `db:"biggest_win_fixture_id"`
	HighestTeamScore            int           `db:"highest_team_score"`
	HighestTeamScoreFixtureID   sql.NullInt64 `db:"highest_team_score_fixture_id"`
	HighestTeamScoreTeamID      sql.NullInt64 `db:"highest_team_score_team_id"`
	HighestPlayerScore          int           `db:"highest_player_score"`
	HighestPlayerScorePlayerID  sql.NullInt64 `db:"highest_player_score_player_id"`
	HighestPlayerScoreFixtureID sql.NullInt64 `db:"highest_player_score_fixture_id"`
	LongestWinStreak            int           `db:"longest_win_streak"`
	LongestUnbeatenStreak       int           `db:"longest_unbeaten_streak"`
	UpdatedAt                   time.Time     `db:"updated_at"`
}

type powerRankingTableModel struct {
	ScopeID         int64   `db:"scope_id"`
	Gameweek        int     `db:"gameweek"`
	TeamID          int64   `db:"team_id"`
	Rank            int     `db:"rank"`
	Score           float64 `db:"score"`
	CumulativeTotal int     `db:"cumulative_total"`
	Form            string  `db:"form"`
}

type powerRankingRow struct {
	powerRankingTableModel
	TeamName string `db:"team_name"`
}
