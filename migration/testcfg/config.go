package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for run ledger acceptance tests
type Config struct {
	// Relative to the package under test
	MigrationsDir    string        `env:"GENESIS_TEST_MIGRATIONS_DIR" envDefault:"../../../migrations"`
	OperationTimeout time.Duration `env:"GENESIS_TEST_OPERATION_TIMEOUT" envDefault:"10s"`
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(env.ParseAs[Config]())
}
