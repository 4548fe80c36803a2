package powerranking

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

var base = time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)

func result(id int64, gw int, home, away int64, homeTotal, awayTotal int) fixture.Fixture {
	hmp, amp := fixture.MatchPoints(homeTotal, awayTotal)
	return fixture.Fixture{
		ID:         id,
		ScopeID:    1,
		Gameweek:   gw,
		KickoffAt:  base.AddDate(0, 0, 7*gw),
		HomeTeamID: home,
		AwayTeamID: away,
		Totals: fixture.Totals{
			HomeTotalPoints: homeTotal,
			AwayTotalPoints: awayTotal,
			HomeMatchPoints: hmp,
			AwayMatchPoints: amp,
			IsPlayed:        true,
		},
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFormScore_DividesByFullWindow(t *testing.T) {
	t.Parallel()

	if got := FormScore([]string{"W", "W", "W", "W", "W"}); got != 1.0 {
		t.Fatalf("five wins = %v", got)
	}
	// Two results still divide by five.
	if got := FormScore([]string{"W", "D"}); !near(got, 0.3) {
		t.Fatalf("W,D = %v, want 0.3", got)
	}
	if got := FormScore(nil); got != 0 {
		t.Fatalf("no form = %v", got)
	}
}

func TestCompute_SoleTeamWithFiveWins(t *testing.T) {
	t.Parallel()

	// Team 1 wins five times against an unranked opponent.
	var fixtures []fixture.Fixture
	for gw := 1; gw <= 5; gw++ {
		fixtures = append(fixtures, result(int64(gw), gw, 1, 2, 30, 10))
	}

	rows := Compute(1, fixtures, []Team{{ID: 1, Name: "Solo"}})
	if len(rows) != 5 {
		t.Fatalf("expected one row per gameweek, got %d", len(rows))
	}
	last := rows[len(rows)-1]
	if last.Gameweek != 5 || last.Rank != 1 || last.Form != "W,W,W,W,W" {
		t.Fatalf("unexpected final row: %+v", last)
	}
	if !near(last.Score, 0.65*1.0+0.35*1.0) {
		t.Fatalf("score = %v, want 1.0", last.Score)
	}
	if !near(rows[0].Score, 0.65+0.35*0.2) {
		t.Fatalf("gameweek 1 score = %v, want early-season penalty", rows[0].Score)
	}
}

func TestCompute_FormUsesOnlyFixturesUpToCutoff(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{
		result(1, 1, 1, 2, 20, 10), // A beats B
		result(2, 2, 2, 1, 40, 10), // B beats A
		{ID: 3, ScopeID: 1, Gameweek: 3, KickoffAt: base.AddDate(0, 0, 21), HomeTeamID: 1, AwayTeamID: 2},
	}
	teams := []Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}

	rows := Compute(1, fixtures, teams)
	if len(rows) != 6 {
		t.Fatalf("expected 2 teams x 3 gameweeks, got %d rows", len(rows))
	}

	gw1 := rows[:2]
	if gw1[0].TeamID != 1 || gw1[0].Form != "W" || gw1[1].Form != "L" {
		t.Fatalf("gameweek 1 must ignore later fixtures: %+v", gw1)
	}
	if !near(gw1[0].Score, 0.65*1.0+0.35*0.2) || !near(gw1[1].Score, 0.65*0.5) {
		t.Fatalf("unexpected gameweek 1 scores: %+v", gw1)
	}

	gw2 := rows[2:4]
	if gw2[0].TeamID != 2 || gw2[0].CumulativeTotal != 50 || gw2[1].CumulativeTotal != 30 {
		t.Fatalf("unexpected gameweek 2 board: %+v", gw2)
	}
	if gw2[0].Form != "W,L" || gw2[1].Form != "L,W" {
		t.Fatalf("unexpected gameweek 2 form: %+v", gw2)
	}

	// Gameweek 3 has no played fixture and repeats gameweek 2.
	gw3 := rows[4:6]
	if gw3[0].Gameweek != 3 || gw3[0].TeamID != 2 || !near(gw3[0].Score, gw2[0].Score) {
		t.Fatalf("unexpected gameweek 3 board: %+v", gw3)
	}
}

func TestCompute_TiesBrokenByName(t *testing.T) {
	t.Parallel()

	fixtures := []fixture.Fixture{result(1, 1, 1, 2, 10, 10)}
	rows := Compute(1, fixtures, []Team{{ID: 1, Name: "zulu"}, {ID: 2, Name: "Alpha"}})
	if rows[0].TeamID != 2 || rows[1].TeamID != 1 || rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Fatalf("unexpected tie order: %+v", rows)
	}
}

func TestCompute_NoTeamsOrNoPoints(t *testing.T) {
	t.Parallel()

	if rows := Compute(1, []fixture.Fixture{result(1, 1, 1, 2, 10, 0)}, nil); rows != nil {
		t.Fatalf("expected no rows without teams, got %+v", rows)
	}

	pending := []fixture.Fixture{{ID: 1, ScopeID: 1, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 2}}
	rows := Compute(1, pending, []Team{{ID: 1, Name: "A"}})
	if len(rows) != 1 || rows[0].Score != 0 {
		t.Fatalf("zero max must not divide by zero: %+v", rows)
	}
}

func TestCompute_AllNegativeTotalsDivideByRealMax(t *testing.T) {
	t.Parallel()

	// Gameweek 1: A -2, B -5. B loses (0 form points) yet -5/-2 normalizes higher.
	rows := Compute(1, []fixture.Fixture{result(1, 1, 1, 2, -2, -5)}, []Team{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	byTeam := map[int64]Ranking{}
	for _, r := range rows {
		byTeam[r.TeamID] = r
	}
	wantA := TotalWeight*1.0 + FormWeight*FormScore([]string{"W"})
	wantB := TotalWeight * 2.5
	if !near(byTeam[1].Score, wantA) {
		t.Fatalf("team A score = %.4f, want %.4f", byTeam[1].Score, wantA)
	}
	if !near(byTeam[2].Score, wantB) {
		t.Fatalf("team B score = %.4f, want %.4f", byTeam[2].Score, wantB)
	}
	if byTeam[2].Rank != 1 || byTeam[1].Rank != 2 {
		t.Fatalf("unexpected ranks: A=%d B=%d", byTeam[1].Rank, byTeam[2].Rank)
	}
}
