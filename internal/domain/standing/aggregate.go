package standing

import (
	"math"
	"sort"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

// BuildTeamRows aggregates played fixtures into one row per participating
// team, ordered by match points, total points and name. Positions are not
// assigned; see OrderWithHeadToHead.
func BuildTeamRows(scopeID int64, played []fixture.Fixture, names map[int64]string) []TeamStanding {
	byTeam := make(map[int64]*TeamStanding)
	row := func(teamID int64) *TeamStanding {
		r, ok := byTeam[teamID]
		if !ok {
			r = &TeamStanding{ScopeID: scopeID, TeamID: teamID, TeamName: names[teamID]}
			byTeam[teamID] = r
		}
		return r
	}

	for _, f := range played {
		if !f.IsPlayed {
			continue
		}
		home, away := row(f.HomeTeamID), row(f.AwayTeamID)
		home.Played++
		away.Played++
		home.TotalPoints += f.HomeTotalPoints
		away.TotalPoints += f.AwayTotalPoints
		home.MatchPoints += f.HomeMatchPoints
		away.MatchPoints += f.AwayMatchPoints

		switch f.HomeMatchPoints {
		case fixture.PointsWin:
			home.Won++
			away.Lost++
		case fixture.PointsLoss:
			home.Lost++
			away.Won++
		default:
			home.Drawn++
			away.Drawn++
		}
	}

	out := make([]TeamStanding, 0, len(byTeam))
	for teamID, r := range byTeam {
		r.Form = JoinForm(RecentForm(teamID, played))
		out = append(out, *r)
	}
	SortTeams(out)
	return out
}

// SortTeams applies the base table order without head-to-head.
func SortTeams(rows []TeamStanding) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MatchPoints != b.MatchPoints {
			return a.MatchPoints > b.MatchPoints
		}
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		return NameLess(a.TeamName, b.TeamName, a.TeamID, b.TeamID)
	})
}

// BuildPlayerRows aggregates scores of played fixtures per player. A player's
// points within one fixture are summed first so each fixture counts once.
func BuildPlayerRows(scopeID int64, played []fixture.Fixture, scores []fixture.PlayerScore, names map[int64]string) []PlayerStanding {
	playedIDs := make(map[int64]struct{}, len(played))
	for _, f := range played {
		if f.IsPlayed {
			playedIDs[f.ID] = struct{}{}
		}
	}

	type key struct{ player, fixture int64 }
	perFixture := make(map[key]int)
	for _, s := range scores {
		if _, ok := playedIDs[s.FixtureID]; !ok {
			continue
		}
		perFixture[key{player: s.PlayerID, fixture: s.FixtureID}] += s.Points
	}

	points := make(map[int64][]int)
	for k, p := range perFixture {
		points[k.player] = append(points[k.player], p)
	}

	out := make([]PlayerStanding, 0, len(points))
	for playerID, values := range points {
		out = append(out, playerRow(scopeID, playerID, names[playerID], values))
	}
	SortPlayers(out)
	return out
}

func playerRow(scopeID, playerID int64, name string, values []int) PlayerStanding {
	n := len(values)
	total, best := 0, values[0]
	for _, v := range values {
		total += v
		if v > best {
			best = v
		}
	}
	avg := float64(total) / float64(n)

	sd := 0.0
	if n >= 2 {
		sq := 0.0
		for _, v := range values {
			d := float64(v) - avg
			sq += d * d
		}
		sd = math.Sqrt(sq / float64(n-1))
	}

	return PlayerStanding{
		ScopeID:         scopeID,
		PlayerID:        playerID,
		PlayerName:      name,
		MatchesPlayed:   n,
		TotalPoints:     total,
		BestMatchPoints: best,
		AveragePoints:   avg,
		StdDevPoints:    sd,
	}
}

// SortPlayers orders by total points, average and name, then numbers positions.
func SortPlayers(rows []PlayerStanding) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.AveragePoints != b.AveragePoints {
			return a.AveragePoints > b.AveragePoints
		}
		return NameLess(a.PlayerName, b.PlayerName, a.PlayerID, b.PlayerID)
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
}
