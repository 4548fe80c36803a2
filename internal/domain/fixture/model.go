package fixture

import (
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Match points awarded per fixture.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Totals are the cached outcome fields derived from a fixture's player scores.
type Totals struct {
	HomeTotalPoints int
	AwayTotalPoints int
	HomeMatchPoints int
	AwayMatchPoints int
	IsPlayed        bool
}

// Fixture is one scheduled match between two teams inside a scope.
type Fixture struct {
	ID         int64
	ScopeID    int64
	Gameweek   int
	KickoffAt  time.Time
	HomeTeamID int64
	AwayTeamID int64
	ReplayOfID *int64
	StageID    *int64
	Totals
}

func (f Fixture) Validate() error {
	if f.ScopeID <= 0 {
		return integrity.Invalid("scope", "fixture scope is required")
	}
	if f.HomeTeamID <= 0 || f.AwayTeamID <= 0 {
		return integrity.Invalid("teams", "fixture home and away teams are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return integrity.Invalid("away_team", "home team and away team must be different")
	}
	if f.Gameweek < 1 {
		return integrity.Invalid("gameweek", "gameweek must be >= 1")
	}
	if f.KickoffAt.IsZero() {
		return integrity.Invalid("kickoff_at", "kickoff time is required")
	}
	if f.ReplayOfID != nil && f.ID != 0 && *f.ReplayOfID == f.ID {
		return integrity.Invalid("replay_of", "a fixture cannot be a replay of itself")
	}
	return nil
}

// ValidateReplay checks that replay repeats original in the same scope with
// the same home and away teams.
func ValidateReplay(replay, original Fixture) error {
	if original.ID == replay.ID && replay.ID != 0 {
		return integrity.Invalid("replay_of", "a fixture cannot be a replay of itself")
	}
	if replay.ScopeID != original.ScopeID {
		return integrity.Invalid("replay_of", "replay must be in the same scope as the original fixture")
	}
	if replay.HomeTeamID != original.HomeTeamID || replay.AwayTeamID != original.AwayTeamID {
		return integrity.Invalid("replay_of", "replay must have the same home and away teams as the original fixture")
	}
	return nil
}

func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// OpponentOf returns the other team, or 0 when teamID is not in the fixture.
func (f Fixture) OpponentOf(teamID int64) int64 {
	switch teamID {
	case f.HomeTeamID:
		return f.AwayTeamID
	case f.AwayTeamID:
		return f.HomeTeamID
	default:
		return 0
	}
}

// MatchPointsFor returns the match points teamID earned in f.
func (f Fixture) MatchPointsFor(teamID int64) int {
	switch teamID {
	case f.HomeTeamID:
		return f.HomeMatchPoints
	case f.AwayTeamID:
		return f.AwayMatchPoints
	default:
		return 0
	}
}

// PointsFor returns teamID's total points and the opponent's.
func (f Fixture) PointsFor(teamID int64) (scored, conceded int) {
	switch teamID {
	case f.HomeTeamID:
		return f.HomeTotalPoints, f.AwayTotalPoints
	case f.AwayTeamID:
		return f.AwayTotalPoints, f.HomeTotalPoints
	default:
		return 0, 0
	}
}

// Result marks that scores have been entered for a fixture.
type Result struct {
	ID        int64
	FixtureID int64
	Notes     string
	CreatedAt time.Time
}

// PlayerScore is one player's points for one side of a fixture.
type PlayerScore struct {
	ID        int64
	ResultID  int64
	FixtureID int64
	PlayerID  int64
	Side      Side
	Points    int
}
