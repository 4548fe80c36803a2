package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/league-engine/internal/domain/membership"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

type MembershipService struct {
	tx     uow.Manager
	logger *logging.Logger
}

func NewMembershipService(tx uow.Manager, logger *logging.Logger) *MembershipService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MembershipService{
		tx:     tx,
		logger: logger,
	}
}

// TransferOutcome lists the membership rows touched by a transfer.
type TransferOutcome struct {
	TransferID         int64  `json:"transfer_id"`
	SeasonID           int64  `json:"season_id"`
	PlayerID           int64  `json:"player_id"`
	ClosedMembershipID *int64 `json:"closed_membership_id,omitempty"`
	ClosedEndDate      string `json:"closed_end_date,omitempty"`
	OpenedMembershipID int64  `json:"opened_membership_id"`
}

func (s *MembershipService) MembersOfTeamOnDate(ctx context.Context, seasonID, teamID int64, date time.Time) ([]int64, error) {
	if seasonID <= 0 || teamID <= 0 {
		return nil, fmt.Errorf("%w: season id and team id are required", ErrInvalidInput)
	}

	var members []int64
	err := s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		out, err := membersOnDate(ctx, repos, seasonID, teamID, date)
		if err != nil {
			return err
		}
		members = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ApplyTransferMemberships closes the player's open membership and opens the
// new one in a single transaction. Nothing is written when validation fails.
func (s *MembershipService) ApplyTransferMemberships(ctx context.Context, transferID int64) (TransferOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MembershipService.ApplyTransferMemberships",
		attribute.Int64("transfer.id", transferID))
	var err error
	defer func() { endSpan(span, err) }()

	if transferID <= 0 {
		err = fmt.Errorf("%w: transfer id is required", ErrInvalidInput)
		return TransferOutcome{}, err
	}

	var outcome TransferOutcome
	err = s.tx.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		tr, ok, err := repos.Transfers.GetByID(ctx, transferID)
		if err != nil {
			return fmt.Errorf("get transfer: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: transfer=%d", ErrNotFound, transferID)
		}
		if err := repos.Locks.Lock(ctx, uow.SeasonMembershipsKey(tr.SeasonID)); err != nil {
			return fmt.Errorf("lock season memberships: %w", err)
		}

		season, ok, err := repos.Scopes.GetSeason(ctx, tr.SeasonID)
		if err != nil {
			return fmt.Errorf("get season: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: season=%d", ErrNotFound, tr.SeasonID)
		}

		var open *membership.Membership
		current, hasOpen, err := repos.Memberships.GetOpenForPlayer(ctx, tr.SeasonID, tr.PlayerID)
		if err != nil {
			return fmt.Errorf("get open membership: %w", err)
		}
		if hasOpen {
			open = &current
			if tr.FromTeamID != nil && *tr.FromTeamID != current.TeamID {
				s.logger.WarnContext(ctx, "transfer source team differs from open membership",
					"transfer_id", tr.ID,
					"from_team_id", *tr.FromTeamID,
					"membership_team_id", current.TeamID,
				)
			}
		}

		existing, err := repos.Memberships.ListBySeason(ctx, tr.SeasonID)
		if err != nil {
			return fmt.Errorf("list season memberships: %w", err)
		}

		plan := membership.PlanTransfer(tr, open)
		if err := plan.Validate(season, existing); err != nil {
			return err
		}

		outcome = TransferOutcome{TransferID: tr.ID, SeasonID: tr.SeasonID, PlayerID: tr.PlayerID}
		if plan.Closed != nil {
			if err := repos.Memberships.SetEndDate(ctx, plan.Closed.ID, plan.Closed.EndDate); err != nil {
				return fmt.Errorf("close membership: %w", err)
			}
			closedID := plan.Closed.ID
			outcome.ClosedMembershipID = &closedID
			outcome.ClosedEndDate = plan.Closed.EndDate.Format(time.DateOnly)
		}

		opened, err := repos.Memberships.Create(ctx, plan.Opened)
		if err != nil {
			return fmt.Errorf("open membership: %w", err)
		}
		outcome.OpenedMembershipID = opened.ID
		return nil
	})
	if err != nil {
		return TransferOutcome{}, err
	}

	s.logger.InfoContext(ctx, "transfer applied",
		"transfer_id", outcome.TransferID,
		"season_id", outcome.SeasonID,
		"player_id", outcome.PlayerID,
		"opened_membership_id", outcome.OpenedMembershipID,
	)
	return outcome, nil
}

func membersOnDate(ctx context.Context, repos uow.Repositories, seasonID, teamID int64, date time.Time) ([]int64, error) {
	rows, err := repos.Memberships.ListTeamOnDate(ctx, seasonID, teamID, date)
	if err != nil {
		return nil, fmt.Errorf("list team memberships: %w", err)
	}
	return membership.MembersOnDate(rows, teamID, date), nil
}
