package powerranking

import (
	"sort"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/standing"
)

const (
	TotalWeight = 0.65
	FormWeight  = 0.35
)

var formValue = map[string]float64{
	standing.FormWin:  1.0,
	standing.FormDraw: 0.5,
	standing.FormLoss: 0.0,
}

// Team is a ranked participant.
type Team struct {
	ID   int64
	Name string
}

// FormScore averages W=1, D=0.5, L=0 over the full window. Fewer than
// FormWindow results still divide by FormWindow, so early-season teams score
// lower.
func FormScore(letters []string) float64 {
	sum := 0.0
	for _, l := range letters {
		sum += formValue[l]
	}
	return sum / float64(standing.FormWindow)
}

// Gameweeks returns the distinct gameweek numbers of fixtures, ascending.
func Gameweeks(fixtures []fixture.Fixture) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, f := range fixtures {
		if _, ok := seen[f.Gameweek]; ok {
			continue
		}
		seen[f.Gameweek] = struct{}{}
		out = append(out, f.Gameweek)
	}
	sort.Ints(out)
	return out
}

// Compute builds the ranking series of a scope: one leaderboard per gameweek
// present in fixtures, each using only played fixtures up to that gameweek.
// Rows come back ordered by gameweek then rank.
func Compute(scopeID int64, fixtures []fixture.Fixture, teams []Team) []Ranking {
	if len(teams) == 0 {
		return nil
	}
	gameweeks := Gameweeks(fixtures)

	boards := iter.Map(gameweeks, func(g *int) []Ranking {
		return rankAt(scopeID, *g, fixtures, teams)
	})

	out := make([]Ranking, 0, len(gameweeks)*len(teams))
	for _, board := range boards {
		out = append(out, board...)
	}
	return out
}

func rankAt(scopeID int64, gameweek int, fixtures []fixture.Fixture, teams []Team) []Ranking {
	cut := make([]fixture.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		if f.IsPlayed && f.Gameweek <= gameweek {
			cut = append(cut, f)
		}
	}

	totals := make(map[int64]int, len(teams))
	for _, f := range cut {
		totals[f.HomeTeamID] += f.HomeTotalPoints
		totals[f.AwayTeamID] += f.AwayTotalPoints
	}

	// The divisor is the real maximum, negative included; only zero is replaced.
	maxTotal := totals[teams[0].ID]
	for _, t := range teams[1:] {
		if totals[t.ID] > maxTotal {
			maxTotal = totals[t.ID]
		}
	}
	if maxTotal == 0 {
		maxTotal = 1
	}

	rows := make([]Ranking, 0, len(teams))
	for _, t := range teams {
		letters := standing.RecentForm(t.ID, cut)
		normalized := float64(totals[t.ID]) / float64(maxTotal)
		rows = append(rows, Ranking{
			ScopeID:         scopeID,
			Gameweek:        gameweek,
			TeamID:          t.ID,
			TeamName:        t.Name,
			Score:           TotalWeight*normalized + FormWeight*FormScore(letters),
			CumulativeTotal: totals[t.ID],
			Form:            standing.JoinForm(letters),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return standing.NameLess(rows[i].TeamName, rows[j].TeamName, rows[i].TeamID, rows[j].TeamID)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
