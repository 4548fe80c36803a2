package record

import (
	"sort"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

type streak struct {
	win      int
	unbeaten int
}

// Compute walks played fixtures in kickoff order and returns the scope's
// records. Comparisons are strict, so the earliest fixture keeps a record on
// ties. UpdatedAt is left for the caller to stamp.
func Compute(scopeID int64, played []fixture.Fixture, scores []fixture.PlayerScore) Snapshot {
	ordered := make([]fixture.Fixture, 0, len(played))
	for _, f := range played {
		if f.IsPlayed {
			ordered = append(ordered, f)
		}
	}
	fixture.SortByKickoff(ordered)

	scoresByFixture := make(map[int64][]fixture.PlayerScore)
	for _, s := range scores {
		scoresByFixture[s.FixtureID] = append(scoresByFixture[s.FixtureID], s)
	}

	snap := Snapshot{ScopeID: scopeID}
	streaks := make(map[int64]*streak)

	for _, f := range ordered {
		fixtureID := f.ID

		margin := f.HomeTotalPoints - f.AwayTotalPoints
		if margin < 0 {
			margin = -margin
		}
		if margin > snap.BiggestWinMargin {
			snap.BiggestWinMargin = margin
			snap.BiggestWinFixtureID = ptr(fixtureID)
		}

		if f.HomeTotalPoints > snap.HighestTeamScore {
			snap.HighestTeamScore = f.HomeTotalPoints
			snap.HighestTeamScoreFixtureID = ptr(fixtureID)
			snap.HighestTeamScoreTeamID = ptr(f.HomeTeamID)
		}
		if f.AwayTotalPoints > snap.HighestTeamScore {
			snap.HighestTeamScore = f.AwayTotalPoints
			snap.HighestTeamScoreFixtureID = ptr(fixtureID)
			snap.HighestTeamScoreTeamID = ptr(f.AwayTeamID)
		}

		if playerID, points, ok := topPlayer(scoresByFixture[fixtureID]); ok && points > snap.HighestPlayerScore {
			snap.HighestPlayerScore = points
			snap.HighestPlayerScorePlayerID = ptr(playerID)
			snap.HighestPlayerScoreFixtureID = ptr(fixtureID)
		}

		for _, side := range []struct {
			teamID int64
			mp     int
		}{
			{teamID: f.HomeTeamID, mp: f.HomeMatchPoints},
			{teamID: f.AwayTeamID, mp: f.AwayMatchPoints},
		} {
			st, ok := streaks[side.teamID]
			if !ok {
				st = &streak{}
				streaks[side.teamID] = st
			}
			switch side.mp {
			case fixture.PointsWin:
				st.win++
				st.unbeaten++
			case fixture.PointsDraw:
				st.win = 0
				st.unbeaten++
			default:
				st.win = 0
				st.unbeaten = 0
			}
			if st.win > snap.LongestWinStreak {
				snap.LongestWinStreak = st.win
			}
			if st.unbeaten > snap.LongestUnbeatenStreak {
				snap.LongestUnbeatenStreak = st.unbeaten
			}
		}
	}

	return snap
}

// topPlayer sums points per player within one fixture and returns the best,
// lowest player id first among equals.
func topPlayer(scores []fixture.PlayerScore) (playerID int64, points int, ok bool) {
	if len(scores) == 0 {
		return 0, 0, false
	}
	sums := make(map[int64]int, len(scores))
	for _, s := range scores {
		sums[s.PlayerID] += s.Points
	}
	ids := make([]int64, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	playerID, points = ids[0], sums[ids[0]]
	for _, id := range ids[1:] {
		if sums[id] > points {
			playerID, points = id, sums[id]
		}
	}
	return playerID, points, true
}

func ptr[T any](v T) *T {
	return &v
}
