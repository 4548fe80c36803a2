package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
)

// TxManager runs each unit of work in one postgres transaction with every
// repository bound to it.
type TxManager struct {
	db     *sqlx.DB
	wrap   func(uow.Repositories) uow.Repositories
	logger *logging.Logger
}

type TxOption func(*TxManager)

// WithRepositoryWrapper decorates the repositories handed to each unit of
// work, e.g. with read-through caches.
func WithRepositoryWrapper(wrap func(uow.Repositories) uow.Repositories) TxOption {
	return func(m *TxManager) {
		m.wrap = wrap
	}
}

func WithLogger(logger *logging.Logger) TxOption {
	return func(m *TxManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewTxManager(db *sqlx.DB, opts ...TxOption) *TxManager {
	m := &TxManager{db: db, logger: logging.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	err := m.do(ctx, fn)
	if err != nil && isRetryableStatementError(err) && ctx.Err() == nil {
		m.logger.WarnContext(ctx, "retrying transaction after prepared statement error", "error", err)
		err = m.do(ctx, fn)
	}
	return err
}

func (m *TxManager) do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) (err error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	repos := RepositoriesFor(tx)
	if m.wrap != nil {
		repos = m.wrap(repos)
	}
	if err = fn(ctx, repos); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RepositoriesFor binds every repository to db, which may be a transaction.
func RepositoriesFor(db sqlx.ExtContext) uow.Repositories {
	return uow.Repositories{
		Scopes:       NewScopeRepository(db),
		Teams:        NewTeamRepository(db),
		Players:      NewPlayerRepository(db),
		Memberships:  NewMembershipRepository(db),
		Transfers:    NewTransferRepository(db),
		Fixtures:     NewFixtureRepository(db),
		Standings:    NewStandingRepository(db),
		Records:      NewRecordRepository(db),
		Rankings:     NewRankingRepository(db),
		Achievements: NewAchievementRepository(db),
		Locks:        NewAdvisoryLocker(db),
	}
}

// AdvisoryLocker takes transaction-scoped advisory locks, released on commit
// or rollback.
type AdvisoryLocker struct {
	db sqlx.ExecerContext
}

func NewAdvisoryLocker(db sqlx.ExecerContext) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

func (l *AdvisoryLocker) Lock(ctx context.Context, key string) error {
	if _, err := l.db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("advisory lock key=%s: %w", key, err)
	}
	return nil
}
