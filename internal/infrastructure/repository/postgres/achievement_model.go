package postgres

import (
	"database/sql"
	"time"
)

type achievementTypeTableModel struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	IsTeam   bool   `db:"is_team"`
	IsPlayer bool   `db:"is_player"`
}

type achievementInsertModel struct {
	TypeID           int64         `db:"type_id"`
	SeasonID         int64         `db:"season_id"`
	ScopeID          sql.NullInt64 `db:"scope_id"`
	TeamID           sql.NullInt64 `db:"team_id"`
	PlayerID         sql.NullInt64 `db:"player_id"`
	FixtureID        sql.NullInt64 `db:"fixture_id"`
	OpponentTeamID   sql.NullInt64 `db:"opponent_team_id"`
	OpponentPlayerID sql.NullInt64 `db:"opponent_player_id"`
	Note             string        `db:"note"`
	AwardedAt        time.Time     `db:"awarded_at"`
}

type achievementCreatedRow struct {
	ID        int64     `db:"id"`
	AwardedAt time.Time `db:"awarded_at"`
}
