package standing

import (
	"sort"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

// HeadToHeadPoints returns the match points teamA earned against teamB
// across the given played fixtures.
func HeadToHeadPoints(teamA, teamB int64, played []fixture.Fixture) int {
	total := 0
	for _, f := range played {
		if !f.IsPlayed || !f.Involves(teamA) || f.OpponentOf(teamA) != teamB {
			continue
		}
		total += f.MatchPointsFor(teamA)
	}
	return total
}

// OrderWithHeadToHead orders rows by match points and, inside every group of
// teams on equal match points, by the points they took off each other, then
// total points and name. Positions are renumbered from 1.
func OrderWithHeadToHead(rows []TeamStanding, played []fixture.Fixture) []TeamStanding {
	groups := make(map[int][]TeamStanding)
	keys := make([]int, 0)
	for _, r := range rows {
		if _, ok := groups[r.MatchPoints]; !ok {
			keys = append(keys, r.MatchPoints)
		}
		groups[r.MatchPoints] = append(groups[r.MatchPoints], r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	out := make([]TeamStanding, 0, len(rows))
	for _, mp := range keys {
		group := groups[mp]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}

		h2h := make(map[int64]int, len(group))
		for _, a := range group {
			for _, b := range group {
				if a.TeamID == b.TeamID {
					continue
				}
				h2h[a.TeamID] += HeadToHeadPoints(a.TeamID, b.TeamID, played)
			}
		}

		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if h2h[a.TeamID] != h2h[b.TeamID] {
				return h2h[a.TeamID] > h2h[b.TeamID]
			}
			if a.TotalPoints != b.TotalPoints {
				return a.TotalPoints > b.TotalPoints
			}
			return NameLess(a.TeamName, b.TeamName, a.TeamID, b.TeamID)
		})
		out = append(out, group...)
	}

	for i := range out {
		out[i].Position = i + 1
	}
	return out
}
