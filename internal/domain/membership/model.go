package membership

import (
	"sort"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
)

// MaxOpenPerTeam caps how many open-ended memberships a team holds per season.
const MaxOpenPerTeam = 3

// Membership is a player's window on a team within one season. A nil EndDate
// means the window is still open. Dates are calendar dates at midnight UTC.
type Membership struct {
	ID        int64
	SeasonID  int64
	TeamID    int64
	PlayerID  int64
	StartDate time.Time
	EndDate   *time.Time
}

func (m Membership) IsOpen() bool {
	return m.EndDate == nil
}

// Covers reports whether the window includes the calendar date d.
func (m Membership) Covers(d time.Time) bool {
	if d.Before(m.StartDate) {
		return false
	}
	return m.EndDate == nil || !d.After(*m.EndDate)
}

// Overlaps treats an open end as unbounded.
func (m Membership) Overlaps(o Membership) bool {
	if m.EndDate != nil && m.EndDate.Before(o.StartDate) {
		return false
	}
	if o.EndDate != nil && o.EndDate.Before(m.StartDate) {
		return false
	}
	return true
}

// Transfer moves a player to ToTeamID from Date onwards.
type Transfer struct {
	ID         int64
	SeasonID   int64
	PlayerID   int64
	Date       time.Time
	FromTeamID *int64
	ToTeamID   int64
	Note       string
}

// MembersOnDate returns the sorted player ids of teamID whose window covers date.
func MembersOnDate(memberships []Membership, teamID int64, date time.Time) []int64 {
	seen := make(map[int64]struct{}, len(memberships))
	out := make([]int64, 0, MaxOpenPerTeam)
	for _, m := range memberships {
		if m.TeamID != teamID || !m.Covers(date) {
			continue
		}
		if _, ok := seen[m.PlayerID]; ok {
			continue
		}
		seen[m.PlayerID] = struct{}{}
		out = append(out, m.PlayerID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks candidate against its season and the other memberships of
// the season. Rows sharing candidate's non-zero ID are ignored.
func Validate(candidate Membership, season scope.Season, existing []Membership) error {
	if candidate.SeasonID != season.ID {
		return integrity.Invalid("season", "membership season %d does not match season %d", candidate.SeasonID, season.ID)
	}
	if !season.Contains(candidate.StartDate) {
		return integrity.Invalid("start_date", "start date %s must be within season %s", candidate.StartDate.Format(time.DateOnly), season.Name)
	}
	if candidate.EndDate != nil {
		if !season.Contains(*candidate.EndDate) {
			return integrity.Invalid("end_date", "end date %s must be within season %s", candidate.EndDate.Format(time.DateOnly), season.Name)
		}
		if candidate.EndDate.Before(candidate.StartDate) {
			return integrity.Invalid("end_date", "end date must be on or after start date")
		}
	}

	openOnTeam := 0
	for _, other := range existing {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.SeasonID != candidate.SeasonID {
			continue
		}
		if other.PlayerID == candidate.PlayerID && candidate.Overlaps(other) {
			return integrity.Invalid("dates", "player %d already has a membership overlapping these dates (team %d from %s)",
				candidate.PlayerID, other.TeamID, other.StartDate.Format(time.DateOnly))
		}
		if other.TeamID == candidate.TeamID && other.IsOpen() {
			openOnTeam++
		}
	}
	if candidate.IsOpen() && openOnTeam >= MaxOpenPerTeam {
		return integrity.Invalid("team", "team %d already has %d active members", candidate.TeamID, MaxOpenPerTeam)
	}
	return nil
}

// TransferPlan is the membership change a transfer produces: an optional
// closure of the currently open window plus the newly opened one.
type TransferPlan struct {
	Closed *Membership
	Opened Membership
}

// PlanTransfer closes open (if any) the day before the transfer, or on its own
// start date when the transfer does not fall after it, and opens an unbounded
// window on the destination team.
func PlanTransfer(tr Transfer, open *Membership) TransferPlan {
	plan := TransferPlan{
		Opened: Membership{
			SeasonID:  tr.SeasonID,
			TeamID:    tr.ToTeamID,
			PlayerID:  tr.PlayerID,
			StartDate: tr.Date,
		},
	}
	if open == nil {
		return plan
	}

	closed := *open
	end := tr.Date.AddDate(0, 0, -1)
	if !tr.Date.After(open.StartDate) {
		end = open.StartDate
	}
	closed.EndDate = &end
	plan.Closed = &closed
	return plan
}

// AfterClosure returns existing with the closed window swapped in.
func (p TransferPlan) AfterClosure(existing []Membership) []Membership {
	out := make([]Membership, 0, len(existing))
	for _, m := range existing {
		if p.Closed != nil && m.ID == p.Closed.ID {
			out = append(out, *p.Closed)
			continue
		}
		out = append(out, m)
	}
	return out
}

// Validate checks both halves of the plan against the season's memberships.
func (p TransferPlan) Validate(season scope.Season, existing []Membership) error {
	after := p.AfterClosure(existing)
	if p.Closed != nil {
		if err := Validate(*p.Closed, season, after); err != nil {
			return err
		}
	}
	return Validate(p.Opened, season, after)
}
