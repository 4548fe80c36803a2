package fixture

import "sort"

// SortByKickoff orders fixtures by kickoff then id, both ascending.
func SortByKickoff(fixtures []Fixture) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		if !fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		}
		return fixtures[i].ID < fixtures[j].ID
	})
}

// RootID returns the id of the original fixture of a replay chain.
func (f Fixture) RootID() int64 {
	if f.ReplayOfID != nil {
		return *f.ReplayOfID
	}
	return f.ID
}

// CupWinner walks a replay chain (original plus its replays) and returns the
// winner of the last played fixture. ok is false when nothing is played yet
// or the last played fixture is level.
func CupWinner(chain []Fixture) (teamID int64, ok bool) {
	ordered := append([]Fixture(nil), chain...)
	SortByKickoff(ordered)

	var last *Fixture
	for i := range ordered {
		if ordered[i].IsPlayed {
			last = &ordered[i]
		}
	}
	if last == nil {
		return 0, false
	}
	switch {
	case last.HomeTotalPoints > last.AwayTotalPoints:
		return last.HomeTeamID, true
	case last.AwayTotalPoints > last.HomeTotalPoints:
		return last.AwayTeamID, true
	default:
		return 0, false
	}
}

// NeedsReplay reports whether the latest fixture of a chain ended level and
// no later fixture has been scheduled after it.
func NeedsReplay(chain []Fixture) bool {
	if len(chain) == 0 {
		return false
	}
	ordered := append([]Fixture(nil), chain...)
	SortByKickoff(ordered)
	last := ordered[len(ordered)-1]
	return last.IsPlayed && last.HomeTotalPoints == last.AwayTotalPoints
}
