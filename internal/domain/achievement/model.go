package achievement

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/league-engine/internal/domain/fixture"
	"github.com/riskibarqy/league-engine/internal/domain/integrity"
	"github.com/riskibarqy/league-engine/internal/domain/scope"
)

// Type describes an award and whether teams and/or players can receive it.
type Type struct {
	ID       int64
	Name     string
	IsTeam   bool
	IsPlayer bool
}

func (t Type) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return integrity.Invalid("name", "achievement type name is required")
	}
	if !t.IsTeam && !t.IsPlayer {
		return integrity.Invalid("applies_to", "achievement type must apply to team and/or player")
	}
	return nil
}

// Achievement is an award within a season. Player awards also carry the
// player's team.
type Achievement struct {
	ID               int64
	TypeID           int64
	SeasonID         int64
	ScopeID          *int64
	TeamID           *int64
	PlayerID         *int64
	FixtureID        *int64
	OpponentTeamID   *int64
	OpponentPlayerID *int64
	Note             string
	AwardedAt        time.Time
}

// Context holds the referenced rows an Achievement is validated against.
type Context struct {
	Type         Type
	Scope        *scope.Scope
	Fixture      *fixture.Fixture
	FixtureScope *scope.Scope
}

func (a Achievement) Validate(c Context) error {
	if a.TeamID == nil && a.PlayerID == nil {
		return integrity.Invalid("owner", "achievement must belong to a team or a player")
	}
	if a.PlayerID != nil {
		if !c.Type.IsPlayer {
			return integrity.Invalid("type", "achievement type %q is not allowed for players", c.Type.Name)
		}
		if a.TeamID == nil {
			return integrity.Invalid("team", "player achievements must have a team selected")
		}
	} else if !c.Type.IsTeam {
		return integrity.Invalid("type", "achievement type %q is not allowed for teams", c.Type.Name)
	}

	if c.Scope != nil && c.Scope.SeasonID != a.SeasonID {
		return integrity.Invalid("scope", "achievement scope season must match achievement season")
	}

	if f := c.Fixture; f != nil {
		if c.FixtureScope == nil || c.FixtureScope.SeasonID != a.SeasonID {
			return integrity.Invalid("fixture", "achievement fixture must be within the same season")
		}
		if c.Scope != nil && f.ScopeID != c.Scope.ID {
			return integrity.Invalid("fixture", "achievement fixture must belong to the achievement scope")
		}
		if a.TeamID != nil && !f.Involves(*a.TeamID) {
			return integrity.Invalid("team", "selected team must be either the home or away team of the fixture")
		}
		if a.OpponentTeamID != nil {
			if a.TeamID != nil && *a.OpponentTeamID == *a.TeamID {
				return integrity.Invalid("opponent_team", "opponent team cannot be the same as the award team")
			}
			if !f.Involves(*a.OpponentTeamID) {
				return integrity.Invalid("opponent_team", "opponent team must be one of the fixture teams")
			}
			if a.TeamID != nil && f.OpponentOf(*a.TeamID) != *a.OpponentTeamID {
				return integrity.Invalid("opponent_team", "opponent team must be the other team in the fixture")
			}
		}
	}

	if a.PlayerID != nil && a.OpponentPlayerID != nil && *a.PlayerID == *a.OpponentPlayerID {
		return integrity.Invalid("opponent_player", "opponent player cannot be the same as the award player")
	}
	return nil
}

type Repository interface {
	GetType(ctx context.Context, typeID int64) (Type, bool, error)
	Create(ctx context.Context, a Achievement) (Achievement, error)
}
