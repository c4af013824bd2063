package pgxdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
)

// MigrationsTable is the bookkeeping table used by sql-migrate.
const MigrationsTable = "schema_migrations"

// Sentinel errors for pgxdb package operations
var (
	ErrInvalidConnectionString = errors.New("invalid database connection string")
	ErrConnectionPoolCreation  = errors.New("failed to create database connection pool")
	ErrDatabaseConnection      = errors.New("failed to connect to database")
	ErrMigrationExecution      = errors.New("migration execution failed")
)

// NewConnection creates a pgx connection pool sized for a short-lived batch
// tool: a single run records one ledger entry and exits.
func NewConnection(ctx context.Context, connectionString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	config.MinConns = 0
	config.MaxConns = 2
	config.MaxConnLifetime = 10 * time.Minute
	config.MaxConnIdleTime = time.Minute
	config.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionPoolCreation, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseConnection, err)
	}

	return pool, nil
}

// ApplyMigrations applies the sql-migrate files in migrationsDir and returns
// the number of migrations applied.
func ApplyMigrations(pool *pgxpool.Pool, migrationsDir string) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	set := &migrate.MigrationSet{TableName: MigrationsTable}

	n, err := set.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return n, nil
}
