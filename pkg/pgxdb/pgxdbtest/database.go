package pgxdbtest

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/pkg/pgxdb"
)

// ServerConfig points pgtestdb at the Postgres server hosting template databases
type ServerConfig struct {
	User     string `env:"PGTEST_USER" envDefault:"genesis"`
	Password string `env:"PGTEST_PASSWORD" envDefault:"genesis"`
	Host     string `env:"PGTEST_HOST" envDefault:"localhost"`
	Port     string `env:"PGTEST_PORT" envDefault:"5432"`
	Options  string `env:"PGTEST_OPTIONS" envDefault:"sslmode=disable"`
}

// CreateTestDatabase creates an isolated database with the migrations in
// migrationsDir applied and returns a pool connected to it.
func CreateTestDatabase(t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	server := env.Must(env.ParseAs[ServerConfig]())

	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	set := &migrate.MigrationSet{TableName: pgxdb.MigrationsTable}

	dbConfig := pgtestdb.Custom(t, pgtestdb.Config{
		DriverName: "pgx",
		User:       server.User,
		Password:   server.Password,
		Host:       server.Host,
		Port:       server.Port,
		Options:    server.Options,
	}, sqlmigrator.New(source, set))

	t.Logf("testdbconf: %s", dbConfig.URL())

	pool, err := pgxdb.NewConnection(t.Context(), dbConfig.URL())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
