package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/migration"
	"github.com/screwyprof/stakegenesis/migration/config"
	"github.com/screwyprof/stakegenesis/pkg/logger"
)

const (
	exportedFixture = "../../migration/testdata/exported-genesis.json"
	templateFixture = "../../migration/testdata/partial-genesis-without-accounts.json"
	goldenFixture   = "../../migration/testdata/partial-genesis.golden.json"
)

func TestRun(t *testing.T) {
	t.Run("it writes the migrated genesis and exits zero", func(t *testing.T) {
		// Arrange
		cfg, log, logs := testSetup(t)
		dest := filepath.Join(t.TempDir(), "partial-genesis.json")

		// Act
		code := run(context.Background(), cfg, log, args(dest))

		// Assert
		assert.Equal(t, migration.ExitOK, code)
		want, err := os.ReadFile(goldenFixture)
		require.NoError(t, err)
		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
		assert.Contains(t, logs.String(), `"msg":"Special allocation reserved"`)
		assert.Contains(t, logs.String(), `"totalSupply":"2021.052631578947371018"`)
	})

	t.Run("an invariant violation exits non-zero and leaves the destination alone", func(t *testing.T) {
		// Arrange
		cfg, log, _ := testSetup(t)
		cfg.ModuleAccounts = []string{"onomy1bob"}
		dest := filepath.Join(t.TempDir(), "partial-genesis.json")
		require.NoError(t, os.WriteFile(dest, []byte(`{"untouched": true}`), 0o644))

		// Act
		code := run(context.Background(), cfg, log, args(dest))

		// Assert
		assert.Equal(t, migration.ExitInvariantViolation, code)
		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, `{"untouched": true}`, string(got))
	})

	t.Run("a missing input exits with the io code", func(t *testing.T) {
		// Arrange
		cfg, log, _ := testSetup(t)
		dest := filepath.Join(t.TempDir(), "partial-genesis.json")

		// Act
		code := run(context.Background(), cfg, log, []string{
			"--exported-genesis-path", filepath.Join(t.TempDir(), "missing.json"),
			"--partial-genesis-without-accounts-path", templateFixture,
			"--partial-genesis-path", dest,
		})

		// Assert
		assert.Equal(t, migration.ExitIOError, code)
		assert.NoFileExists(t, dest)
	})

	t.Run("all three paths are required", func(t *testing.T) {
		// Arrange
		cfg, log, _ := testSetup(t)

		// Act
		code := run(context.Background(), cfg, log, []string{"--exported-genesis-path", exportedFixture})

		// Assert
		assert.Equal(t, migration.ExitFailure, code)
	})

	t.Run("ledger migrate needs a database url", func(t *testing.T) {
		// Arrange
		cfg, log, logs := testSetup(t)

		// Act
		code := run(context.Background(), cfg, log, []string{"ledger", "migrate"})

		// Assert
		assert.Equal(t, migration.ExitFailure, code)
		assert.Contains(t, logs.String(), errLedgerDisabled.Error())
	})
}

func testSetup(t *testing.T) (config.Config, *slog.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("GENESIS_DATABASE_URL", "")

	cfg, err := config.Parse()
	require.NoError(t, err)

	var buf bytes.Buffer
	log := logger.NewFromConfig(logger.Config{LogLevel: "info", Output: &buf})
	return cfg, log, &buf
}

func args(dest string) []string {
	return []string{
		"--exported-genesis-path", exportedFixture,
		"--partial-genesis-without-accounts-path", templateFixture,
		"--partial-genesis-path", dest,
	}
}
