package fixture

import (
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

// PlayersPerSide is the number of scores each side needs for a complete fixture.
const PlayersPerSide = 3

// IsComplete reports whether scores hold exactly three HOME and three AWAY rows.
func IsComplete(scores []PlayerScore) bool {
	home, away := 0, 0
	for _, s := range scores {
		switch s.Side {
		case SideHome:
			home++
		case SideAway:
			away++
		default:
			return false
		}
	}
	return home == PlayersPerSide && away == PlayersPerSide
}

// MatchPoints maps side totals to 3/0, 0/3 or 1/1.
func MatchPoints(homeTotal, awayTotal int) (home, away int) {
	switch {
	case homeTotal > awayTotal:
		return PointsWin, PointsLoss
	case homeTotal < awayTotal:
		return PointsLoss, PointsWin
	default:
		return PointsDraw, PointsDraw
	}
}

// Eligibility is the set of players allowed to score for each side on the
// kickoff date.
type Eligibility struct {
	Date time.Time
	Home map[int64]struct{}
	Away map[int64]struct{}
}

func NewEligibility(date time.Time, home, away []int64) Eligibility {
	e := Eligibility{
		Date: date,
		Home: make(map[int64]struct{}, len(home)),
		Away: make(map[int64]struct{}, len(away)),
	}
	for _, id := range home {
		e.Home[id] = struct{}{}
	}
	for _, id := range away {
		e.Away[id] = struct{}{}
	}
	return e
}

// ComputeTotals derives cached totals for f. Incomplete score sets yield zero
// totals with IsPlayed false. Every scored player of a complete set must be
// eligible for their side, otherwise an EligibilityError is returned.
func ComputeTotals(f Fixture, scores []PlayerScore, eligible Eligibility) (Totals, error) {
	if !IsComplete(scores) {
		return Totals{}, nil
	}

	var out Totals
	for _, s := range scores {
		if s.Side == SideHome {
			if _, ok := eligible.Home[s.PlayerID]; !ok {
				return Totals{}, integrity.Ineligible(f.ID, s.PlayerID, f.HomeTeamID, string(SideHome), eligible.Date)
			}
			out.HomeTotalPoints += s.Points
			continue
		}
		if _, ok := eligible.Away[s.PlayerID]; !ok {
			return Totals{}, integrity.Ineligible(f.ID, s.PlayerID, f.AwayTeamID, string(SideAway), eligible.Date)
		}
		out.AwayTotalPoints += s.Points
	}

	out.HomeMatchPoints, out.AwayMatchPoints = MatchPoints(out.HomeTotalPoints, out.AwayTotalPoints)
	out.IsPlayed = true
	return out, nil
}
