package postgres

import (
	"database/sql"
	"time"
)

type membershipTableModel struct {
	ID        int64        `db:"id"`
	SeasonID  int64        `db:"season_id"`
	TeamID    int64        `db:"team_id"`
	PlayerID  int64        `db:"player_id"`
	StartDate time.Time    `db:"start_date"`
	EndDate   sql.NullTime `db:"end_date"`
}

type membershipInsertModel struct {
	SeasonID  int64          `db:"season_id"`
	TeamID    int64          `db:"team_id"`
	PlayerID  int64          `db:"player_id"`
	StartDate string         `db:"start_date"`
	EndDate   sql.NullString `db:"end_date"`
}

type transferTableModel struct {
	ID           int64         `db:"id"`
	SeasonID     int64         `db:"season_id"`
	PlayerID     int64         `db:"player_id"`
	TransferDate time.Time     `db:"transfer_date"`
	FromTeamID   sql.NullInt64 `db:"from_team_id"`
	ToTeamID     int64         `db:"to_team_id"`
	Note         string        `db:"note"`
}
