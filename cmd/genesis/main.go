package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screwyprof/stakegenesis/migration"
	"github.com/screwyprof/stakegenesis/migration/config"
	"github.com/screwyprof/stakegenesis/migration/store/pgxstore"
	"github.com/screwyprof/stakegenesis/pkg/logger"
	"github.com/screwyprof/stakegenesis/pkg/pgxdb"
)

// These values are overridden at build time using -ldflags
var (
	version = "dev"
	date    = "unknown"
)

// tokenDecimals is the number of base-unit decimals of one whole token.
const tokenDecimals = 18

var errLedgerDisabled = errors.New("GENESIS_DATABASE_URL is not set")

func main() {
	// Load configuration from environment
	cfg := config.New()

	// Initialize logger and set as default
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	// Create a context that cancels on SIGINT/SIGTERM _or_ when the timeout elapses
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(baseCtx, cfg.OperationTimeout)

	code := run(ctx, cfg, log, os.Args[1:])

	cancel()
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) int {
	root := newRootCmd(cfg, log)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		code := migration.ExitCode(err)
		log.ErrorContext(ctx, "Genesis migration failed",
			slog.Any("error", err),
			slog.Int("exitCode", code),
		)
		return code
	}
	return migration.ExitOK
}

func newRootCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	var paths migration.Paths

	root := &cobra.Command{
		Use:           "genesis",
		Short:         "Build the vesting genesis of the new chain from an exported staking snapshot",
		Version:       version + " (" + date + ")",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), cfg, log, paths)
		},
	}

	flags := root.Flags()
	flags.StringVar(&paths.Snapshot, "exported-genesis-path", "", "exported genesis of the source chain")
	flags.StringVar(&paths.Template, "partial-genesis-without-accounts-path", "", "genesis template with empty accounts and balances")
	flags.StringVar(&paths.Destination, "partial-genesis-path", "", "destination of the migrated genesis; replaced wholesale")
	for _, name := range []string{"exported-genesis-path", "partial-genesis-without-accounts-path", "partial-genesis-path"} {
		_ = root.MarkFlagRequired(name)
	}

	root.AddCommand(newLedgerCmd(cfg, log))
	return root
}

func newLedgerCmd(cfg config.Config, log *slog.Logger) *cobra.Command {
	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the Postgres run ledger",
	}
	ledger.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the run ledger schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrateLedger(cmd.Context(), cfg, log)
		},
	})
	return ledger
}

func migrate(ctx context.Context, cfg config.Config, log *slog.Logger, paths migration.Paths) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "Starting genesis migration",
		slog.String("exportedGenesis", paths.Snapshot),
		slog.String("template", paths.Template),
		slog.String("destination", paths.Destination),
		slog.String("version", version),
	)

	opts := []migration.Option{
		migration.WithEventHandler(setupEventLogging(ctx, log)),
	}
	if cfg.LedgerEnabled() {
		db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WarnContext(ctx, "Run ledger unavailable, continuing without it", slog.Any("error", err))
		} else {
			store, storeCloser := pgxstore.New(db)
			defer storeCloser()
			opts = append(opts, migration.WithLedger(store))
		}
	}

	_, err = migration.NewService(params, opts...).MigrateFiles(ctx, paths)
	return err
}

func migrateLedger(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if !cfg.LedgerEnabled() {
		return errLedgerDisabled
	}

	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	log.InfoContext(ctx, "Applying run ledger migrations", slog.String("migrationsDir", cfg.MigrationsDir))
	n, err := pgxdb.ApplyMigrations(db, cfg.MigrationsDir)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "Run ledger migrations applied", slog.Int("applied", n))
	return nil
}

// setupEventLogging configures event handlers using slog directly
func setupEventLogging(ctx context.Context, log *slog.Logger) func(migration.Event) {
	return migration.NewSubscriber(
		migration.OnSnapshotParsed(func(event migration.SnapshotParsed) {
			log.InfoContext(ctx, "Snapshot parsed",
				slog.Int("validators", event.Validators),
				slog.Int("delegations", event.Delegations),
			)
		}),
		migration.OnDelegationsAggregated(func(event migration.DelegationsAggregated) {
			log.InfoContext(ctx, "Delegations aggregated",
				slog.Int("delegators", event.Delegators),
				logger.Tokens("delegatedSupply", event.DelegatedSupply.ToBig(), tokenDecimals),
			)
		}),
		migration.OnSupplyAdjusted(func(event migration.SupplyAdjusted) {
			log.InfoContext(ctx, "Special allocation reserved",
				slog.String("address", event.SpecialAddress),
				logger.Tokens("specialAllocation", event.SpecialAllocation.ToBig(), tokenDecimals),
				logger.Tokens("totalSupply", event.TotalSupply.ToBig(), tokenDecimals),
				slog.String("totalSupplyBaseUnits", event.TotalSupply.Dec()),
			)
		}),
		migration.OnAccountsClassified(func(event migration.AccountsClassified) {
			log.InfoContext(ctx, "Accounts classified",
				slog.Int("base", event.Base),
				slog.Int("vesting", event.Vesting),
				slog.Int("dropped", event.Dropped),
				logger.Tokens("droppedAmount", event.DroppedAmount.ToBig(), tokenDecimals),
			)
		}),
		migration.OnVestingScheduleBuilt(func(event migration.VestingScheduleBuilt) {
			log.InfoContext(ctx, "Vesting schedule built",
				slog.String("genesisTime", event.StartTime.Format(logger.TimeFormat)),
				slog.Int64("startUnix", event.StartUnix),
				slog.Int64("endUnix", event.EndUnix),
				slog.Int64("periodSeconds", event.PeriodSeconds),
				slog.Int("periods", event.Periods),
			)
		}),
		migration.OnGenesisWritten(func(event migration.GenesisWritten) {
			log.InfoContext(ctx, "Genesis written",
				slog.String("path", event.Path),
				slog.Int("accounts", event.Accounts),
				slog.String("sha256", event.OutputDigest),
				slog.Duration("duration", event.Duration),
			)
		}),
		migration.OnLedgerRecordFailed(func(event migration.LedgerRecordFailed) {
			log.WarnContext(ctx, "Run ledger operation failed",
				slog.String("op", event.Op),
				slog.Any("error", event.Err),
			)
		}),
	)
}
