package dbrow

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/screwyprof/stakegenesis/migration"
)

// AccountColumns are the genesis_run_accounts columns in CopyFrom order
var AccountColumns = []string{
	"run_id", "position", "address", "kind",
	"allocation", "balance", "original_vesting", "per_period",
}

// Run represents a genesis run as stored in the database. Amounts are read
// back as text.
type Run struct {
	ID                int64     `db:"id"`
	SnapshotDigest    string    `db:"snapshot_digest"`
	TemplateDigest    string    `db:"template_digest"`
	ParamsDigest      string    `db:"params_digest"`
	OutputDigest      string    `db:"output_digest"`
	TotalSupply       string    `db:"total_supply"`
	SpecialAllocation string    `db:"special_allocation"`
	CreatedAt         time.Time `db:"created_at"`
}

// Account represents one account of a run as stored in the database
type Account struct {
	Address         string `db:"address"`
	Kind            string `db:"kind"`
	Allocation      string `db:"allocation"`
	Balance         string `db:"balance"`
	OriginalVesting string `db:"original_vesting"`
	PerPeriod       string `db:"per_period"`
}

// Numeric converts an amount for a NUMERIC column
func Numeric(v uint256.Int) pgtype.Numeric {
	return pgtype.Numeric{Int: v.ToBig(), Exp: 0, Valid: true}
}

// AccountsToRows converts account records directly to [][]any for pgx.CopyFromRows
func AccountsToRows(runID int64, accounts []migration.AccountRecord) [][]any {
	rows := make([][]any, len(accounts))

	for i, a := range accounts {
		rows[i] = []any{
			runID,
			int32(i),
			a.Address,
			string(a.Kind),
			Numeric(a.Allocation),
			Numeric(a.Balance),
			Numeric(a.OriginalVesting),
			Numeric(a.PerPeriod),
		}
	}

	return rows
}

// ToMigrationRun converts stored rows back into a migration.Run
func ToMigrationRun(r Run, accounts []Account) (migration.Run, error) {
	run := migration.Run{
		Fingerprint: migration.Fingerprint{
			SnapshotDigest: r.SnapshotDigest,
			TemplateDigest: r.TemplateDigest,
			ParamsDigest:   r.ParamsDigest,
		},
		OutputDigest: r.OutputDigest,
		CreatedAt:    r.CreatedAt.UTC(),
		Accounts:     make([]migration.AccountRecord, len(accounts)),
	}

	var err error
	if run.TotalSupply, err = amount(r.TotalSupply); err != nil {
		return migration.Run{}, err
	}
	if run.SpecialAllocation, err = amount(r.SpecialAllocation); err != nil {
		return migration.Run{}, err
	}

	for i, a := range accounts {
		rec := migration.AccountRecord{
			Address: a.Address,
			Kind:    migration.AccountKind(a.Kind),
		}
		for _, f := range []struct {
			dst *uint256.Int
			src string
		}{
			{&rec.Allocation, a.Allocation},
			{&rec.Balance, a.Balance},
			{&rec.OriginalVesting, a.OriginalVesting},
			{&rec.PerPeriod, a.PerPeriod},
		} {
			if *f.dst, err = amount(f.src); err != nil {
				return migration.Run{}, fmt.Errorf("account %s: %w", a.Address, err)
			}
		}
		run.Accounts[i] = rec
	}

	return run, nil
}

func amount(s string) (uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("stored amount %q: %w", s, err)
	}
	return *v, nil
}
