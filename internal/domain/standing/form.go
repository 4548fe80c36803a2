package standing

import (
	"sort"
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
)

// FormWindow is how many recent results make up a team's form.
const FormWindow = 5

const (
	FormWin  = "W"
	FormDraw = "D"
	FormLoss = "L"
)

// FormLetter maps earned match points to W, D or L.
func FormLetter(matchPoints int) string {
	switch matchPoints {
	case fixture.PointsWin:
		return FormWin
	case fixture.PointsDraw:
		return FormDraw
	default:
		return FormLoss
	}
}

// RecentForm returns teamID's results in played, most recent kickoff first,
// limited to FormWindow.
func RecentForm(teamID int64, played []fixture.Fixture) []string {
	mine := make([]fixture.Fixture, 0, len(played))
	for _, f := range played {
		if f.IsPlayed && f.Involves(teamID) {
			mine = append(mine, f)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if !mine[i].KickoffAt.Equal(mine[j].KickoffAt) {
			return mine[i].KickoffAt.After(mine[j].KickoffAt)
		}
		return mine[i].ID > mine[j].ID
	})
	if len(mine) > FormWindow {
		mine = mine[:FormWindow]
	}

	out := make([]string, 0, len(mine))
	for _, f := range mine {
		out = append(out, FormLetter(f.MatchPointsFor(teamID)))
	}
	return out
}

func JoinForm(letters []string) string {
	return strings.Join(letters, ",")
}

func SplitForm(form string) []string {
	if strings.TrimSpace(form) == "" {
		return nil
	}
	return strings.Split(form, ",")
}
