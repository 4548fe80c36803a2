package player

import (
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

// Player is scored per fixture for the team they are a member of.
type Player struct {
	ID   int64
	Name string
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return integrity.Invalid("name", "player name is required")
	}
	return nil
}
