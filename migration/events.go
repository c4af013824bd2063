package migration

import (
	"time"

	"github.com/holiman/uint256"
)

// Event represents a pipeline progress event
// ------------------------------------------
type Event any

type SnapshotParsed struct {
	Validators  int
	Delegations int
}

type DelegationsAggregated struct {
	Delegators      int
	DelegatedSupply uint256.Int
}

type SupplyAdjusted struct {
	SpecialAddress    string
	SpecialAllocation uint256.Int
	TotalSupply       uint256.Int
}

type AccountsClassified struct {
	Base          int
	Vesting       int
	Dropped       int
	DroppedAmount uint256.Int
}

type VestingScheduleBuilt struct {
	StartTime     time.Time
	StartUnix     int64
	EndUnix       int64
	PeriodSeconds int64
	Periods       int
}

type GenesisWritten struct {
	Path         string
	Accounts     int
	Balances     int
	OutputDigest string
	Duration     time.Duration
}

// LedgerRecordFailed reports a run ledger lookup or save that failed. The
// written genesis stays authoritative.
type LedgerRecordFailed struct {
	Op  string
	Err error
}
