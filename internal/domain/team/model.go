package team

import (
	"strings"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

// Team is a side of three players competing in one or more scopes.
type Team struct {
	ID   int64
	Name string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return integrity.Invalid("name", "team name is required")
	}
	return nil
}
