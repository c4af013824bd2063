package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/holiman/uint256"

	"github.com/screwyprof/stakegenesis/migration"
)

// Config holds all configuration loaded from environment variables
type Config struct {
	Denom             string        `env:"GENESIS_DENOM" envDefault:"aonex"`
	AddressPrefix     string        `env:"GENESIS_ADDRESS_PREFIX" envDefault:"onomy"`
	SpecialAddress    string        `env:"GENESIS_SPECIAL_ADDRESS" envDefault:"onomy1cn8dfn77allkgte2hdfcpsypmsasy3lzeq9kcj"`
	BaseAddresses     []string      `env:"GENESIS_BASE_ADDRESSES" envDefault:"onomy1cn8dfn77allkgte2hdfcpsypmsasy3lzeq9kcj" envSeparator:","`
	ModuleNames       []string      `env:"GENESIS_MODULE_NAMES" envDefault:"distribution,fee_collector,bonded_tokens_pool,not_bonded_tokens_pool,gov,mint,transfer" envSeparator:","`
	ModuleAccounts    []string      `env:"GENESIS_MODULE_ACCOUNTS" envSeparator:","`
	MinimumAllocation string        `env:"GENESIS_MINIMUM_ALLOCATION" envDefault:"100000000000000000000"`
	StartTime         time.Time     `env:"GENESIS_START_TIME" envDefault:"2024-03-04T10:00:00-06:00"`
	VestingPeriod     time.Duration `env:"GENESIS_VESTING_PERIOD" envDefault:"720h"`
	VestingPeriods    int           `env:"GENESIS_VESTING_PERIODS" envDefault:"12"`
	DatabaseURL       string        `env:"GENESIS_DATABASE_URL"`
	MigrationsDir     string        `env:"GENESIS_MIGRATIONS_DIR" envDefault:"./migrations"`
	OperationTimeout  time.Duration `env:"GENESIS_OPERATION_TIMEOUT" envDefault:"1m"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly  bool          `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// Parse loads configuration from environment variables
func Parse() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads all configuration from environment variables
func New() Config {
	return env.Must(Parse())
}

// LedgerEnabled reports whether runs are recorded in Postgres
func (c Config) LedgerEnabled() bool {
	return c.DatabaseURL != ""
}

// Params converts the configuration into migration parameters, deriving the
// module account addresses from their names.
func (c Config) Params() (migration.Params, error) {
	minimum, err := uint256.FromDecimal(c.MinimumAllocation)
	if err != nil {
		return migration.Params{}, fmt.Errorf("%w: %w: GENESIS_MINIMUM_ALLOCATION %q: %w",
			migration.ErrInvariantViolation, migration.ErrInvalidParams, c.MinimumAllocation, err)
	}

	modules, err := migration.ModuleAccounts(c.AddressPrefix, c.ModuleNames, c.ModuleAccounts...)
	if err != nil {
		return migration.Params{}, err
	}

	params := migration.Params{
		Denom:             c.Denom,
		SpecialAddress:    c.SpecialAddress,
		BaseAddresses:     c.BaseAddresses,
		ModuleAccounts:    modules,
		MinimumAllocation: *minimum,
		Schedule: migration.Schedule{
			StartTime:    c.StartTime,
			PeriodLength: c.VestingPeriod,
			Periods:      c.VestingPeriods,
		},
	}
	return params, params.Validate()
}
