package fixture

import (
	"fmt"
	"sort"
	"time"
)

// RoundRobinOptions configures GenerateRoundRobin.
type RoundRobinOptions struct {
	ScopeID       int64
	TeamIDs       []int64
	FirstKickoff  time.Time
	DaysBetween   int
	DoubleRound   bool
	FirstGameweek int
}

// GenerateRoundRobin builds a circle-method schedule for an even number of
// teams. Each round is one gameweek; home and away alternate on odd rounds and
// a double round appends the mirrored fixtures.
func GenerateRoundRobin(opts RoundRobinOptions) ([]Fixture, error) {
	n := len(opts.TeamIDs)
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("round robin needs an even number of teams (>= 2), got %d", n)
	}
	if opts.DaysBetween < 1 {
		return nil, fmt.Errorf("days between rounds must be >= 1")
	}
	firstGameweek := opts.FirstGameweek
	if firstGameweek < 1 {
		firstGameweek = 1
	}

	ids := append([]int64(nil), opts.TeamIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < n; i++ {
		if ids[i] == ids[i-1] {
			return nil, fmt.Errorf("duplicate team %d in round robin", ids[i])
		}
	}

	type pairing struct{ home, away int64 }
	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := ids[i], ids[n-1-i]
			if r%2 == 1 {
				a, b = b, a
			}
			round = append(round, pairing{home: a, away: b})
		}
		rounds = append(rounds, round)

		rotated := make([]int64, 0, n)
		rotated = append(rotated, ids[0], ids[n-1])
		rotated = append(rotated, ids[1:n-1]...)
		ids = rotated
	}
	if opts.DoubleRound {
		for r := 0; r < n-1; r++ {
			mirrored := make([]pairing, 0, n/2)
			for _, p := range rounds[r] {
				mirrored = append(mirrored, pairing{home: p.away, away: p.home})
			}
			rounds = append(rounds, mirrored)
		}
	}

	out := make([]Fixture, 0, len(rounds)*n/2)
	kickoff := opts.FirstKickoff
	for r, round := range rounds {
		for _, p := range round {
			f := Fixture{
				ScopeID:    opts.ScopeID,
				Gameweek:   firstGameweek + r,
				KickoffAt:  kickoff,
				HomeTeamID: p.home,
				AwayTeamID: p.away,
			}
			if err := f.Validate(); err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		kickoff = kickoff.AddDate(0, 0, opts.DaysBetween)
	}
	return out, nil
}
