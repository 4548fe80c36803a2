package standing

import "strings"

// TeamStanding is one table row for a team inside a scope.
type TeamStanding struct {
	ScopeID     int64
	TeamID      int64
	TeamName    string
	Position    int
	Played      int
	Won         int
	Drawn       int
	Lost        int
	MatchPoints int
	TotalPoints int
	Form        string
}

// PlayerStanding summarises a player's per-fixture points inside a scope.
type PlayerStanding struct {
	ScopeID         int64
	PlayerID        int64
	PlayerName      string
	Position        int
	MatchesPlayed   int
	TotalPoints     int
	BestMatchPoints int
	AveragePoints   float64
	StdDevPoints    float64
}

// NameLess orders names case-insensitively, falling back to id so equal
// names still sort deterministically.
func NameLess(a, b string, idA, idB int64) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
