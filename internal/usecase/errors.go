package usecase

import (
	"errors"

	"github.com/riskibarqy/league-engine/internal/domain/integrity"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRebuildFailed         = errors.New("scope rebuild failed")
)

// isRejection reports errors caused by the data or the request rather than
// by the system, which callers log at a lower level.
func isRejection(err error) bool {
	for _, target := range []error{integrity.ErrValidation, integrity.ErrIneligible, ErrInvalidInput, ErrNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
