package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/membership"
)

type membershipRepository struct {
	st *state
}

func (r membershipRepository) ListBySeason(_ context.Context, seasonID int64) ([]membership.Membership, error) {
	out := make([]membership.Membership, 0)
	for _, item := range r.st.memberships {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sortByID(out, func(m membership.Membership) int64 { return m.ID })
	return out, nil
}

func (r membershipRepository) ListTeamOnDate(_ context.Context, seasonID, teamID int64, date time.Time) ([]membership.Membership, error) {
	out := make([]membership.Membership, 0)
	for _, item := range r.st.memberships {
		if item.SeasonID == seasonID && item.TeamID == teamID && item.Covers(date) {
			out = append(out, item)
		}
	}
	sortByID(out, func(m membership.Membership) int64 { return m.ID })
	return out, nil
}

func (r membershipRepository) GetOpenForPlayer(_ context.Context, seasonID, playerID int64) (membership.Membership, bool, error) {
	var (
		open  membership.Membership
		found bool
	)
	for _, item := range r.st.memberships {
		if item.SeasonID != seasonID || item.PlayerID != playerID || !item.IsOpen() {
			continue
		}
		if !found || item.StartDate.After(open.StartDate) {
			open = item
			found = true
		}
	}
	return open, found, nil
}

func (r membershipRepository) Create(_ context.Context, m membership.Membership) (membership.Membership, error) {
	m.ID = r.st.newID()
	r.st.memberships[m.ID] = m
	return m, nil
}

func (r membershipRepository) SetEndDate(_ context.Context, membershipID int64, end *time.Time) error {
	item, ok := r.st.memberships[membershipID]
	if !ok {
		return fmt.Errorf("membership %d not found", membershipID)
	}
	if end != nil {
		v := *end
		end = &v
	}
	item.EndDate = end
	r.st.memberships[membershipID] = item
	return nil
}

type transferRepository struct {
	st *state
}

func (r transferRepository) GetByID(_ context.Context, transferID int64) (membership.Transfer, bool, error) {
	item, ok := r.st.transfers[transferID]
	return item, ok, nil
}
