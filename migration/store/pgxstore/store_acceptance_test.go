//go:build acceptance

package pgxstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/migration"
	"github.com/screwyprof/stakegenesis/migration/store/pgxstore"
	"github.com/screwyprof/stakegenesis/migration/testcfg"
	"github.com/screwyprof/stakegenesis/pkg/pgxdb/pgxdbtest"
)

func TestStoreAcceptanceBehavior(t *testing.T) {
	t.Parallel()

	cfg := testcfg.New()

	t.Run("it finds nothing for an unknown fingerprint", func(t *testing.T) {
		t.Parallel()

		// Arrange
		store, _ := pgxstore.New(pgxdbtest.CreateTestDatabase(t, cfg.MigrationsDir))
		ctx, cancel := context.WithTimeout(t.Context(), cfg.OperationTimeout)
		defer cancel()

		// Act
		_, found, err := store.FindRun(ctx, migration.Fingerprint{SnapshotDigest: "a", TemplateDigest: "b", ParamsDigest: "c"})

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("it saves a run and reads back the latest one", func(t *testing.T) {
		t.Parallel()

		// Arrange
		store, _ := pgxstore.New(pgxdbtest.CreateTestDatabase(t, cfg.MigrationsDir))
		ctx, cancel := context.WithTimeout(t.Context(), cfg.OperationTimeout)
		defer cancel()

		fp := migration.Fingerprint{SnapshotDigest: "snap", TemplateDigest: "tmpl", ParamsDigest: "params"}
		first := sampleRun(fp, "first")
		second := sampleRun(fp, "second")

		// Act
		require.NoError(t, store.SaveRun(ctx, first))
		require.NoError(t, store.SaveRun(ctx, second))
		got, found, err := store.FindRun(ctx, fp)

		// Assert
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, second, got)
	})

	t.Run("it records runs produced by the service", func(t *testing.T) {
		t.Parallel()

		// Arrange
		store, _ := pgxstore.New(pgxdbtest.CreateTestDatabase(t, cfg.MigrationsDir))
		ctx, cancel := context.WithTimeout(t.Context(), cfg.OperationTimeout)
		defer cancel()

		var failures []migration.LedgerRecordFailed
		svc := migration.NewService(migration.DefaultParams(),
			migration.WithLedger(store),
			migration.WithEventHandler(migration.NewSubscriber(
				migration.OnLedgerRecordFailed(func(e migration.LedgerRecordFailed) { failures = append(failures, e) }),
			)),
		)
		paths := migration.Paths{
			Snapshot:    "../../testdata/exported-genesis.json",
			Template:    "../../testdata/partial-genesis-without-accounts.json",
			Destination: filepath.Join(t.TempDir(), "partial-genesis.json"),
		}

		// Act
		res, err := svc.MigrateFiles(ctx, paths)
		require.NoError(t, err)
		_, err = svc.MigrateFiles(ctx, paths)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, failures)

		got, found, err := store.FindRun(ctx, fingerprint(t, paths))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, res.OutputDigest, got.OutputDigest)
		assert.Equal(t, res.Accounts, got.Accounts)
	})
}

func fingerprint(t *testing.T, paths migration.Paths) migration.Fingerprint {
	t.Helper()
	snapshot, err := os.ReadFile(paths.Snapshot)
	require.NoError(t, err)
	template, err := os.ReadFile(paths.Template)
	require.NoError(t, err)
	return migration.NewFingerprint(migration.Request{Snapshot: snapshot, Template: template}, migration.DefaultParams())
}

func sampleRun(fp migration.Fingerprint, output string) migration.Run {
	return migration.Run{
		Fingerprint:       fp,
		OutputDigest:      output,
		TotalSupply:       *uint256.MustFromDecimal("2021052631578947371018"),
		SpecialAllocation: *uint256.MustFromDecimal("101052631578947371008"),
		CreatedAt:         time.Date(2024, time.March, 4, 16, 0, 0, 0, time.UTC),
		Accounts: []migration.AccountRecord{
			{
				Address:    migration.DefaultSpecialAddress,
				Kind:       migration.BaseAccount,
				Allocation: *uint256.MustFromDecimal("101052631578947371008"),
				Balance:    *uint256.MustFromDecimal("101052631578947371008"),
			},
			{
				Address:         "onomy1alice",
				Kind:            migration.VestingAccount,
				Allocation:      *uint256.MustFromDecimal("1000000000000000000000"),
				Balance:         *uint256.MustFromDecimal("999999999999999999996"),
				OriginalVesting: *uint256.MustFromDecimal("916666666666666666663"),
				PerPeriod:       *uint256.MustFromDecimal("83333333333333333333"),
			},
		},
	}
}
