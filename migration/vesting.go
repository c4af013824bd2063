package migration

import (
	"fmt"
	"strconv"
	"time"

	"github.com/holiman/uint256"

	"github.com/screwyprof/stakegenesis/genesis"
)

// Vesting defaults: twelve 30-day periods
const (
	DefaultVestingPeriod  = 30 * 24 * time.Hour
	DefaultVestingPeriods = 12
	MinVestingPeriods     = 2
)

// DefaultStartTime is 2024-03-04 10:00 US Central time.
var DefaultStartTime = time.Date(2024, time.March, 4, 16, 0, 0, 0, time.UTC)

// Schedule describes the periodic unlock shared by every vesting account
type Schedule struct {
	StartTime    time.Time
	PeriodLength time.Duration
	Periods      int
}

// DefaultSchedule returns the twelve-period schedule starting at
// DefaultStartTime.
func DefaultSchedule() Schedule {
	return Schedule{
		StartTime:    DefaultStartTime,
		PeriodLength: DefaultVestingPeriod,
		Periods:      DefaultVestingPeriods,
	}
}

// Validate checks that the schedule has at least two whole-second periods.
func (s Schedule) Validate() error {
	switch {
	case s.Periods < MinVestingPeriods:
		return fmt.Errorf("%w: %w: vesting needs at least %d periods, got %d", ErrInvariantViolation, ErrInvalidParams, MinVestingPeriods, s.Periods)
	case s.PeriodLength < time.Second || s.PeriodLength%time.Second != 0:
		return fmt.Errorf("%w: %w: period length %s is not a positive whole number of seconds", ErrInvariantViolation, ErrInvalidParams, s.PeriodLength)
	}
	return nil
}

// PeriodSeconds returns the length of one period in seconds
func (s Schedule) PeriodSeconds() int64 {
	return int64(s.PeriodLength / time.Second)
}

// StartUnix returns the start of vesting in unix seconds
func (s Schedule) StartUnix() int64 {
	return s.StartTime.Unix()
}

// EndUnix returns start + period_length * periods in unix seconds
func (s Schedule) EndUnix() int64 {
	return s.StartUnix() + s.PeriodSeconds()*int64(s.Periods)
}

// AccountKind distinguishes liquid from vesting accounts
type AccountKind string

const (
	BaseAccount    AccountKind = "base"
	VestingAccount AccountKind = "vesting"
)

// AccountRecord is one account of the migrated genesis
type AccountRecord struct {
	Address         string
	Kind            AccountKind
	Allocation      uint256.Int
	Balance         uint256.Int
	OriginalVesting uint256.Int
	PerPeriod       uint256.Int
}

// VestingSplit divides allocation into n equal periods. The remainder of
// allocation / n is discarded and one period is liquid at genesis.
func VestingSplit(allocation uint256.Int, n int) (perPeriod, total, originalVesting uint256.Int, err error) {
	if n < MinVestingPeriods {
		return perPeriod, total, originalVesting, fmt.Errorf("%w: %w: %d vesting periods", ErrInvariantViolation, ErrInvalidParams, n)
	}
	periods := uint256.NewInt(uint64(n))
	perPeriod.Div(&allocation, periods)

	if _, overflow := total.MulOverflow(&perPeriod, periods); overflow {
		return perPeriod, total, originalVesting, fmt.Errorf("%w: vesting total of %s", ErrArithmeticOverflow, allocation.Dec())
	}
	if _, overflow := originalVesting.MulOverflow(&perPeriod, uint256.NewInt(uint64(n-1))); overflow {
		return perPeriod, total, originalVesting, fmt.Errorf("%w: original vesting of %s", ErrArithmeticOverflow, allocation.Dec())
	}
	if total, err = narrow(&total); err != nil {
		return perPeriod, total, originalVesting, err
	}
	return perPeriod, total, originalVesting, nil
}

// BuildAccounts turns a classification into account records: base accounts
// first, then vesting accounts, each block in address order.
func BuildAccounts(c Classification, s Schedule) ([]AccountRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	records := make([]AccountRecord, 0, len(c.Base)+c.Vesting.Len())
	for _, a := range c.Base {
		records = append(records, AccountRecord{
			Address:    a.Address,
			Kind:       BaseAccount,
			Allocation: a.Amount,
			Balance:    a.Amount,
		})
	}
	for _, a := range c.Vesting.Sorted() {
		perPeriod, total, original, err := VestingSplit(a.Amount, s.Periods)
		if err != nil {
			return nil, fmt.Errorf("vesting %s: %w", a.Address, err)
		}
		records = append(records, AccountRecord{
			Address:         a.Address,
			Kind:            VestingAccount,
			Allocation:      a.Amount,
			Balance:         total,
			OriginalVesting: original,
			PerPeriod:       perPeriod,
		})
	}
	return records, nil
}

// GenesisEntries renders account records as genesis accounts and balances
// in record order.
func GenesisEntries(records []AccountRecord, s Schedule, denom string) ([]any, []genesis.Balance) {
	var (
		accounts = make([]any, 0, len(records))
		balances = make([]genesis.Balance, 0, len(records))
		start    = strconv.FormatInt(s.StartUnix(), 10)
		end      = strconv.FormatInt(s.EndUnix(), 10)
		length   = strconv.FormatInt(s.PeriodSeconds(), 10)
	)

	for _, r := range records {
		switch r.Kind {
		case BaseAccount:
			accounts = append(accounts, genesis.NewBaseAccount(r.Address))
		case VestingAccount:
			periods := make([]genesis.VestingPeriod, s.Periods-1)
			for i := range periods {
				periods[i] = genesis.VestingPeriod{
					Amount: coins(r.PerPeriod, denom),
					Length: length,
				}
			}
			accounts = append(accounts, genesis.NewPeriodicVestingAccount(
				r.Address, coins(r.OriginalVesting, denom), start, end, periods,
			))
		}
		balances = append(balances, genesis.Balance{
			Address: r.Address,
			Coins:   coins(r.Balance, denom),
		})
	}
	return accounts, balances
}

func coins(amount uint256.Int, denom string) []genesis.Coin {
	return []genesis.Coin{{Amount: FormatAmount(amount), Denom: denom}}
}
