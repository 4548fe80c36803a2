package scope

import (
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

type CompetitionType string

const (
	CompetitionLeague   CompetitionType = "LEAGUE"
	CompetitionCup      CompetitionType = "CUP"
	CompetitionSuperCup CompetitionType = "SUPER_CUP"
)

func ParseCompetitionType(v string) (CompetitionType, bool) {
	switch CompetitionType(strings.ToUpper(strings.TrimSpace(v))) {
	case CompetitionLeague:
		return CompetitionLeague, true
	case CompetitionCup:
		return CompetitionCup, true
	case CompetitionSuperCup:
		return CompetitionSuperCup, true
	default:
		return "", false
	}
}

// IsKnockout reports whether drawn fixtures are settled by replays.
func (t CompetitionType) IsKnockout() bool {
	return t == CompetitionCup || t == CompetitionSuperCup
}

// Season bounds every membership window and achievement.
type Season struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return integrity.Invalid("name", "season name is required")
	}
	if s.EndDate.Before(s.StartDate) {
		return integrity.Invalid("end_date", "season end date must be on or after start date")
	}
	return nil
}

// Contains reports whether the calendar date d falls inside the season.
func (s Season) Contains(d time.Time) bool {
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}

// Scope is the partition key for every standing, record and ranking:
// (season, competition, division, group).
type Scope struct {
	ID              int64
	SeasonID        int64
	CompetitionID   int64
	DivisionID      int64
	GroupID         int64
	CompetitionName string
	CompetitionType CompetitionType
	DivisionName    string
	GroupName       string
}

// Label is a short human-readable name used in logs and CLI output.
func (s Scope) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.CompetitionName, s.DivisionName, s.GroupName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// Date truncates t to its calendar date in loc, returned as midnight UTC so
// dates compare by value regardless of where they came from.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
