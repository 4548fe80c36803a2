package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/membership"
	qb "github.com/riskibarqy/league-engine/internal/platform/querybuilder"
)

var membershipSelectColumns = []string{"id", "season_id", "team_id", "player_id", "start_date", "end_date"}

type MembershipRepository struct {
	db sqlx.ExtContext
}

func NewMembershipRepository(db sqlx.ExtContext) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) ListBySeason(ctx context.Context, seasonID int64) ([]membership.Membership, error) {
	return r.list(ctx, "list season memberships", qb.Eq("season_id", seasonID))
}

func (r *MembershipRepository) ListTeamOnDate(ctx context.Context, seasonID, teamID int64, date time.Time) ([]membership.Membership, error) {
	day := dateParam(date)
	return r.list(ctx, "list team memberships on date",
		qb.Eq("season_id", seasonID),
		qb.Eq("team_id", teamID),
		qb.Lte("start_date", day),
		qb.Or(qb.IsNull("end_date"), qb.Gte("end_date", day)),
	)
}

func (r *MembershipRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]membership.Membership, error) {
	query, args, err := qb.Select(membershipSelectColumns...).From("team_memberships").
		Where(conds...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []membershipTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipFromRow(row))
	}
	return out, nil
}

func (r *MembershipRepository) GetOpenForPlayer(ctx context.Context, seasonID, playerID int64) (membership.Membership, bool, error) {
	query, args, err := qb.Select(membershipSelectColumns...).From("team_memberships").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("player_id", playerID),
			qb.IsNull("end_date"),
		).
		OrderBy("start_date DESC", "id DESC").
		Limit(1).
		ForUpdate().
		ToSQL()
	if err != nil {
		return membership.Membership{}, false, fmt.Errorf("build get open membership query: %w", err)
	}

	var row membershipTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.Membership{}, false, nil
		}
		return membership.Membership{}, false, fmt.Errorf("get open membership season=%d player=%d: %w", seasonID, playerID, err)
	}
	return membershipFromRow(row), true, nil
}

func (r *MembershipRepository) Create(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	query, args, err := qb.InsertModel("team_memberships", membershipInsertModel{
		SeasonID:  m.SeasonID,
		TeamID:    m.TeamID,
		PlayerID:  m.PlayerID,
		StartDate: dateParam(m.StartDate),
		EndDate:   datePtrParam(m.EndDate),
	}, "RETURNING id")
	if err != nil {
		return membership.Membership{}, fmt.Errorf("build insert membership query: %w", err)
	}

	if err := sqlx.GetContext(ctx, r.db, &m.ID, query, args...); err != nil {
		return membership.Membership{}, fmt.Errorf("insert membership team=%d player=%d: %w", m.TeamID, m.PlayerID, err)
	}
	return m, nil
}

func (r *MembershipRepository) SetEndDate(ctx context.Context, membershipID int64, end *time.Time) error {
	query, args, err := qb.Update("team_memberships").
		Set("end_date", datePtrParam(end)).
		Where(qb.Eq("id", membershipID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close membership query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set membership end date id=%d: %w", membershipID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("membership %d not found", membershipID)
	}
	return nil
}

func membershipFromRow(row membershipTableModel) membership.Membership {
	return membership.Membership{
		ID:        row.ID,
		SeasonID:  row.SeasonID,
		TeamID:    row.TeamID,
		PlayerID:  row.PlayerID,
		StartDate: dateOnly(row.StartDate),
		EndDate:   nullDatePtr(row.EndDate),
	}
}

type TransferRepository struct {
	db sqlx.ExtContext
}

func NewTransferRepository(db sqlx.ExtContext) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) GetByID(ctx context.Context, transferID int64) (membership.Transfer, bool, error) {
	query, args, err := qb.Select("id", "season_id", "player_id", "transfer_date", "from_team_id", "to_team_id", "note").
		From("transfers").
		Where(qb.Eq("id", transferID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return membership.Transfer{}, false, fmt.Errorf("build get transfer query: %w", err)
	}

	var row transferTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return membership.Transfer{}, false, nil
		}
		return membership.Transfer{}, false, fmt.Errorf("get transfer id=%d: %w", transferID, err)
	}

	return membership.Transfer{
		ID:         row.ID,
		SeasonID:   row.SeasonID,
		PlayerID:   row.PlayerID,
		Date:       dateOnly(row.TransferDate),
		FromTeamID: nullInt64Ptr(row.FromTeamID),
		ToTeamID:   row.ToTeamID,
		Note:       row.Note,
	}, true, nil
}
