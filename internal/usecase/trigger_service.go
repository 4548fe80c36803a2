package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/league-engine/internal/domain/scope"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

// RebuildDispatcher decides how a scope rebuild is carried out after a change.
type RebuildDispatcher interface {
	DispatchScopeRebuild(ctx context.Context, scopeID int64, reason string) error
}

// InlineDispatcher rebuilds synchronously in the caller's goroutine.
type InlineDispatcher struct {
	rebuilder ScopeRebuilder
}

func NewInlineDispatcher(rebuilder ScopeRebuilder) *InlineDispatcher {
	return &InlineDispatcher{rebuilder: rebuilder}
}

func (d *InlineDispatcher) DispatchScopeRebuild(ctx context.Context, scopeID int64, _ string) error {
	_, err := d.rebuilder.RebuildScopeMaterialized(ctx, scopeID)
	return err
}

const (
	reasonScoresChanged = "scores-changed"
	reasonTransferSaved = "transfer-saved"
)

type ScoresChangedResult struct {
	FixtureID     int64 `json:"fixture_id"`
	ScopeID       int64 `json:"scope_id"`
	SeededScores  int   `json:"seeded_scores"`
	IsPlayed      bool  `json:"is_played"`
	HomeTotal     int   `json:"home_total_points"`
	AwayTotal     int   `json:"away_total_points"`
	RebuildQueued bool  `json:"rebuild_dispatched"`
}

type TransferSavedResult struct {
	Transfer         TransferOutcome `json:"transfer"`
	DispatchedScopes []int64         `json:"dispatched_scopes"`
	FailedScopeCount int             `json:"failed_scope_count"`
}

// TriggerService reacts to data changes by refreshing fixture totals,
// memberships and the derived tables of the affected scopes.
type TriggerService struct {
	tx          uow.Manager
	fixtures    *FixtureService
	memberships *MembershipService
	dispatcher  RebuildDispatcher
	logger      *logging.Logger
}

func NewTriggerService(
	tx uow.Manager,
	fixtures *FixtureService,
	memberships *MembershipService,
	dispatcher RebuildDispatcher,
	logger *logging.Logger,
) *TriggerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TriggerService{
		tx:          tx,
		fixtures:    fixtures,
		memberships: memberships,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// OnScoresChanged runs after a result or its player scores were written.
// seedDefaults is set when the result was just created.
func (s *TriggerService) OnScoresChanged(ctx context.Context, fixtureID int64, seedDefaults bool) (ScoresChangedResult, error) {
	if fixtureID <= 0 {
		return ScoresChangedResult{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	out := ScoresChangedResult{FixtureID: fixtureID}
	if seedDefaults {
		n, err := s.fixtures.SeedDefaultScores(ctx, fixtureID)
		if err != nil {
			return ScoresChangedResult{}, fmt.Errorf("seed default scores: %w", err)
		}
		out.SeededScores = n
	}

	f, err := s.fixtures.RecalculateFixtureTotals(ctx, fixtureID)
	if err != nil {
		return ScoresChangedResult{}, err
	}
	out.ScopeID = f.ScopeID
	out.IsPlayed = f.IsPlayed
	out.HomeTotal = f.HomeTotalPoints
	out.AwayTotal = f.AwayTotalPoints

	if s.dispatcher == nil {
		return out, nil
	}
	if err := s.dispatcher.DispatchScopeRebuild(ctx, f.ScopeID, reasonScoresChanged); err != nil {
		return ScoresChangedResult{}, fmt.Errorf("dispatch rebuild scope=%d: %w", f.ScopeID, err)
	}
	out.RebuildQueued = true
	return out, nil
}

// OnTransferSaved applies the transfer to memberships and rebuilds every scope
// of its season, since eligibility may change for any fixture in it. A failed
// scope does not stop the others.
func (s *TriggerService) OnTransferSaved(ctx context.Context, transferID int64) (TransferSavedResult, error) {
	outcome, err := s.memberships.ApplyTransferMemberships(ctx, transferID)
	if err != nil {
		return TransferSavedResult{}, err
	}

	out := TransferSavedResult{Transfer: outcome, DispatchedScopes: make([]int64, 0)}
	if s.dispatcher == nil {
		return out, nil
	}

	var scopes []scope.Scope
	err = s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		rows, err := repos.Scopes.ListBySeason(ctx, outcome.SeasonID, "")
		if err != nil {
			return fmt.Errorf("list season scopes: %w", err)
		}
		scopes = rows
		return nil
	})
	if err != nil {
		return TransferSavedResult{}, err
	}

	var errs []error
	for _, sc := range scopes {
		if err := s.dispatcher.DispatchScopeRebuild(ctx, sc.ID, reasonTransferSaved); err != nil {
			s.logger.WarnContext(ctx, "rebuild after transfer failed",
				"transfer_id", transferID,
				"scope_id", sc.ID,
				"error", err,
			)
			out.FailedScopeCount++
			errs = append(errs, fmt.Errorf("scope=%d: %w", sc.ID, err))
			continue
		}
		out.DispatchedScopes = append(out.DispatchedScopes, sc.ID)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%w: %w", ErrRebuildFailed, errors.Join(errs...))
	}
	return out, nil
}
