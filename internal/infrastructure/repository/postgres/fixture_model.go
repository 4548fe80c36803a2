package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID              int64         `db:"id"`
	ScopeID         int64         `db:"scope_id"`
	Gameweek        int           `db:"gameweek"`
	KickoffAt       time.Time     `db:"kickoff_at"`
	HomeTeamID      int64         `db:"home_team_id"`
	AwayTeamID      int64         `db:"away_team_id"`
	ReplayOfID      sql.NullInt64 `db:"replay_of_id"`
	StageID         sql.NullInt64 `db:"stage_id"`
	HomeTotalPoints int           `db:"home_total_points"`
	AwayTotalPoints int           `db:"away_total_points"`
	HomeMatchPoints int           `db:"home_match_points"`
	AwayMatchPoints int           `db:"away_match_points"`
	IsPlayed        bool          `db:"is_played"`
}

type fixtureInsertModel struct {
	ScopeID         int64         `db:"scope_id"`
	Gameweek        int           `db:"gameweek"`
	KickoffAt       time.Time     `db:"kickoff_at"`
	HomeTeamID      int64         `db:"home_team_id"`
	AwayTeamID      int64         `db:"away_team_id"`
	ReplayOfID      sql.NullInt64 `db:"replay_of_id"`
	StageID         sql.NullInt64 `db:"stage_id"`
	HomeTotalPoints int           `db:"home_total_points"`
	AwayTotalPoints int           `db:"away_total_points"`
	HomeMatchPoints int           `db:"home_match_points"`
	AwayMatchPoints int           `db:"away_match_points"`
	IsPlayed        bool          `db:"is_played"`
}

type resultTableModel struct {
	ID        int64     `db:"id"`
	FixtureID int64     `db:"fixture_id"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
}

type playerScoreTableModel struct {
	ID        int64  `db:"id"`
	ResultID  int64  `db:"result_id"`
	FixtureID int64  `db:"fixture_id"`
	PlayerID  int64  `db:"player_id"`
	Side      string `db:"side"`
	Points    int    `db:"points"`
}

type playerScoreInsertModel struct {
	ResultID int64  `db:"result_id"`
	PlayerID int64  `db:"player_id"`
	Side     string `db:"side"`
	Points   int    `db:"points"`
}
