package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("id", "player_id").
		From("team_memberships").
		Where(
			Eq("season_id", int64(1)),
			Eq("team_id", int64(10)),
			Lte("start_date", day),
			Or(IsNull("end_date"), Gte("end_date", day)),
		).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, player_id FROM team_memberships WHERE season_id = $1 AND team_id = $2 AND start_date <= $3 AND (end_date IS NULL OR end_date >= $4) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != int64(1) || args[3] != day {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InInt64AndForUpdate(t *testing.T) {
	query, args, err := Select("*").
		From("teams").
		Where(InInt64("id", []int64{3, 5}), IsNull("deleted_at")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM teams WHERE id IN ($1, $2) AND deleted_at IS NULL FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{int64(3), int64(5)}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, _, err = Select("*").From("teams").Where(InInt64("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build empty in query: %v", err)
	}
	if query != "SELECT * FROM teams WHERE 1=0" {
		t.Fatalf("unexpected empty in query: %s", query)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("fixtures").
		Columns("scope_id", "gameweek").
		Values(int64(2), 1).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (scope_id, gameweek) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(2) || args[1] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ScopeID  int64  `db:"scope_id"`
		TeamID   int64  `db:"team_id"`
		Form     string `db:"form"`
		internal string
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModels("team_standings", []row{
		{ScopeID: 2, TeamID: 10, Form: "W"},
		{ScopeID: 2, TeamID: 11, Form: "L"},
	}, "")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO team_standings (scope_id, team_id, form) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[4] != int64(11) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("team_standings", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("fixtures").
		Set("home_total_points", 25).
		Set("updated_at", Expr("NOW()")).
		Where(Eq("id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE fixtures SET home_total_points = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 25 || args[1] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("power_rankings").Where(Eq("scope_id", int64(2))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM power_rankings WHERE scope_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("power_rankings").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}

func TestExprBindsArgumentsInOrder(t *testing.T) {
	query, args, err := Select("id").
		From("fixtures").
		Where(Eq("scope_id", int64(2)), Expr("(home_team_id = ? OR away_team_id = ?)", int64(10), int64(10))).
		ToSQL()
	if err != nil {
		t.Fatalf("build expr query: %v", err)
	}

	wantQuery := "SELECT id FROM fixtures WHERE scope_id = $1 AND (home_team_id = $2 OR away_team_id = $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{int64(2), int64(10), int64(10)}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("id", "name").Values(int64(1)).ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}
