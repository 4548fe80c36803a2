package postgres

import "time"

type seasonTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

type scopeTableModel struct {
	ID              int64  `db:"id"`
	SeasonID        int64  `db:"season_id"`
	CompetitionID   int64  `db:"competition_id"`
	DivisionID      int64  `db:"division_id"`
	GroupID         int64  `db:"group_id"`
	CompetitionName string `db:"competition_name"`
	CompetitionType string `db:"competition_type"`
	DivisionName    string `db:"division_name"`
	GroupName       string `db:"group_name"`
}
