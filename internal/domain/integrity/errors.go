package integrity

import (
	"errors"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrIneligible = errors.New("ineligible player")
)

// ValidationError rejects an entity mutation that would break a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError with a stack attached.
func Invalid(field, format string, args ...any) error {
	return crerr.WithStack(&ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	})
}

// EligibilityError reports a score entered for a player who was not a member
// of the claimed team on the fixture's kickoff date.
type EligibilityError struct {
	FixtureID int64
	PlayerID  int64
	TeamID    int64
	Side      string
	Date      time.Time
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf(
		"player %d is not an eligible member of team %d (%s) on %s for fixture %d",
		e.PlayerID, e.TeamID, e.Side, e.Date.Format(time.DateOnly), e.FixtureID,
	)
}

func (e *EligibilityError) Is(target error) bool {
	return target == ErrIneligible
}

func Ineligible(fixtureID, playerID, teamID int64, side string, date time.Time) error {
	return crerr.WithStack(&EligibilityError{
		FixtureID: fixtureID,
		PlayerID:  playerID,
		TeamID:    teamID,
		Side:      side,
		Date:      date,
	})
}

// Message returns the human-readable part of a domain error, without stack
// or wrapping prefixes, for surfacing to operators.
func Message(err error) string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	var e *EligibilityError
	if errors.As(err, &e) {
		return e.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
