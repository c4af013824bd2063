package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screwyprof/stakegenesis/migration"
	"github.com/screwyprof/stakegenesis/migration/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrInsertFailed      = errors.New("insert operation failed")
	ErrCopyFailed        = errors.New("bulk copy operation failed")
	ErrFindRunFailed     = errors.New("failed to find previous run")
	ErrConversionFailed  = errors.New("stored run conversion failed")
)

const (
	insertRunSQL = `
		INSERT INTO genesis_runs (
			snapshot_digest, template_digest, params_digest, output_digest,
			total_supply, special_allocation, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	findRunSQL = `
		SELECT id, snapshot_digest, template_digest, params_digest, output_digest,
		       total_supply::text AS total_supply,
		       special_allocation::text AS special_allocation,
		       created_at
		FROM genesis_runs
		WHERE snapshot_digest = $1 AND template_digest = $2 AND params_digest = $3
		ORDER BY id DESC
		LIMIT 1`

	findAccountsSQL = `
		SELECT address, kind,
		       allocation::text AS allocation,
		       balance::text AS balance,
		       original_vesting::text AS original_vesting,
		       per_period::text AS per_period
		FROM genesis_run_accounts
		WHERE run_id = $1
		ORDER BY position`
)

// Store implements migration.Ledger using pgx
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// FindRun returns the most recent run recorded with fingerprint fp
func (s *Store) FindRun(ctx context.Context, fp migration.Fingerprint) (migration.Run, bool, error) {
	rows, err := s.pool.Query(ctx, findRunSQL, fp.SnapshotDigest, fp.TemplateDigest, fp.ParamsDigest)
	if err != nil {
		return migration.Run{}, false, fmt.Errorf("%w: %w", ErrFindRunFailed, err)
	}
	run, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbrow.Run])
	if errors.Is(err, pgx.ErrNoRows) {
		return migration.Run{}, false, nil
	}
	if err != nil {
		return migration.Run{}, false, fmt.Errorf("%w: %w", ErrFindRunFailed, err)
	}

	rows, err = s.pool.Query(ctx, findAccountsSQL, run.ID)
	if err != nil {
		return migration.Run{}, false, fmt.Errorf("%w: %w", ErrFindRunFailed, err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbrow.Account])
	if err != nil {
		return migration.Run{}, false, fmt.Errorf("%w: %w", ErrFindRunFailed, err)
	}

	out, err := dbrow.ToMigrationRun(run, accounts)
	if err != nil {
		return migration.Run{}, false, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	return out, true, nil
}

// SaveRun stores the run and its accounts in one transaction, bulk loading
// the accounts with CopyFrom.
func (s *Store) SaveRun(ctx context.Context, run migration.Run) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // No-op if commit succeeds

	var runID int64
	err = tx.QueryRow(ctx, insertRunSQL,
		run.SnapshotDigest,
		run.TemplateDigest,
		run.ParamsDigest,
		run.OutputDigest,
		dbrow.Numeric(run.TotalSupply),
		dbrow.Numeric(run.SpecialAllocation),
		run.CreatedAt,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}

	if len(run.Accounts) > 0 {
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"genesis_run_accounts"},
			dbrow.AccountColumns,
			pgx.CopyFromRows(dbrow.AccountsToRows(runID, run.Accounts)),
		)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCopyFailed, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return nil
}
