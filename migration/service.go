package migration

import (
	"context"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"github.com/screwyprof/stakegenesis/genesis"
	"github.com/screwyprof/stakegenesis/pkg/clock"
)

// Ledger operations reported by LedgerRecordFailed
const (
	LedgerOpFind = "find"
	LedgerOpSave = "save"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLedger enables the run ledger
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithEventHandler receives every pipeline event synchronously
func WithEventHandler(fn func(Event)) Option {
	return func(s *Service) { s.emit = fn }
}

// Service runs the migration pipeline:
// Parse → Aggregate → AdjustSupply → Classify → BuildVesting → Write.
// ------------------------------------------------------------------
type Service struct {
	params Params
	clock  Clock
	ledger Ledger
	emit   func(Event)
}

// NewService constructs a Service for params.
// By default it uses a real clock, no run ledger and discards events.
func NewService(params Params, opts ...Option) *Service {
	s := &Service{
		params: params,
		clock:  clock.SystemClock{},
		ledger: nopLedger{},
		emit:   func(Event) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request holds the raw input documents
type Request struct {
	Snapshot []byte
	Template []byte
}

// Result is the outcome of a migration
type Result struct {
	Output         []byte
	OutputDigest   string
	Supply         SupplyAdjustment
	Classification Classification
	Accounts       []AccountRecord
	// Sizes of the output arrays, template entries included
	GenesisAccounts int
	GenesisBalances int
}

// Paths locates the documents of a file based run
type Paths struct {
	Snapshot    string
	Template    string
	Destination string
}

// Migrate computes the migrated genesis document in memory. Nothing is
// written; any failure aborts the whole computation.
func (s *Service) Migrate(_ context.Context, req Request) (Result, error) {
	if err := s.params.Validate(); err != nil {
		return Result{}, err
	}

	snap, err := ParseSnapshot(req.Snapshot)
	if err != nil {
		return Result{}, err
	}
	template, err := genesis.ParseDocument(req.Template)
	if err != nil {
		return Result{}, fmt.Errorf("%w: template: %w", ErrParse, err)
	}
	s.emit(SnapshotParsed{
		Validators:  len(snap.Validators),
		Delegations: len(snap.Delegations),
	})

	allocs, err := Aggregate(snap, s.params.ModuleAccounts)
	if err != nil {
		return Result{}, err
	}
	delegated, err := allocs.Total()
	if err != nil {
		return Result{}, err
	}
	s.emit(DelegationsAggregated{Delegators: allocs.Len(), DelegatedSupply: delegated})

	supply, err := AdjustSupply(allocs, s.params.SpecialAddress)
	if err != nil {
		return Result{}, err
	}
	s.emit(SupplyAdjusted{
		SpecialAddress:    s.params.SpecialAddress,
		SpecialAllocation: supply.SpecialAllocation,
		TotalSupply:       supply.TotalSupply,
	})

	class, err := Classify(supply.Allocations, s.params.BaseAddresses, s.params.MinimumAllocation)
	if err != nil {
		return Result{}, err
	}
	var droppedAmount uint256.Int
	for _, d := range class.Dropped {
		if droppedAmount, err = addAmounts(droppedAmount, d.Amount); err != nil {
			return Result{}, err
		}
	}
	s.emit(AccountsClassified{
		Base:          len(class.Base),
		Vesting:       class.Vesting.Len(),
		Dropped:       len(class.Dropped),
		DroppedAmount: droppedAmount,
	})

	sched := s.params.Schedule
	records, err := BuildAccounts(class, sched)
	if err != nil {
		return Result{}, err
	}
	s.emit(VestingScheduleBuilt{
		StartTime:     sched.StartTime.UTC(),
		StartUnix:     sched.StartUnix(),
		EndUnix:       sched.EndUnix(),
		PeriodSeconds: sched.PeriodSeconds(),
		Periods:       sched.Periods,
	})

	accounts, balances := GenesisEntries(records, sched, s.params.Denom)
	if err := template.AppendAccounts(accounts...); err != nil {
		return Result{}, fmt.Errorf("%w: template: %w", ErrParse, err)
	}
	if err := template.AppendBalances(balances...); err != nil {
		return Result{}, fmt.Errorf("%w: template: %w", ErrParse, err)
	}
	genesisAccounts, err := template.Len(genesis.AccountsPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: template: %w", ErrParse, err)
	}
	genesisBalances, err := template.Len(genesis.BalancesPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: template: %w", ErrParse, err)
	}
	out, err := template.Encode()
	if err != nil {
		return Result{}, fmt.Errorf("%w: encoding genesis: %w", ErrIO, err)
	}

	return Result{
		Output:          out,
		OutputDigest:    Digest(out),
		Supply:          supply,
		Classification:  class,
		Accounts:        records,
		GenesisAccounts: genesisAccounts,
		GenesisBalances: genesisBalances,
	}, nil
}

// MigrateFiles reads both documents, migrates them and replaces the
// destination with the result. The destination is untouched on any failure
// before the write. With a ledger configured, a previous run over identical
// inputs must have produced identical output.
func (s *Service) MigrateFiles(ctx context.Context, paths Paths) (Result, error) {
	start := s.clock.Now()

	snapshot, err := os.ReadFile(paths.Snapshot)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading exported genesis: %w", ErrIO, err)
	}
	template, err := os.ReadFile(paths.Template)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading genesis template: %w", ErrIO, err)
	}

	req := Request{Snapshot: snapshot, Template: template}
	res, err := s.Migrate(ctx, req)
	if err != nil {
		return Result{}, err
	}

	fp := NewFingerprint(req, s.params)
	if err := s.checkReproducible(ctx, fp, res.OutputDigest); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := genesis.WriteFile(paths.Destination, res.Output); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.emit(GenesisWritten{
		Path:         paths.Destination,
		Accounts:     res.GenesisAccounts,
		Balances:     res.GenesisBalances,
		OutputDigest: res.OutputDigest,
		Duration:     s.clock.Now().Sub(start),
	})

	run := Run{
		Fingerprint:       fp,
		OutputDigest:      res.OutputDigest,
		TotalSupply:       res.Supply.TotalSupply,
		SpecialAllocation: res.Supply.SpecialAllocation,
		CreatedAt:         s.clock.Now().UTC(),
		Accounts:          res.Accounts,
	}
	if err := s.ledger.SaveRun(ctx, run); err != nil {
		s.emit(LedgerRecordFailed{Op: LedgerOpSave, Err: err})
	}

	return res, nil
}

func (s *Service) checkReproducible(ctx context.Context, fp Fingerprint, digest string) error {
	prev, found, err := s.ledger.FindRun(ctx, fp)
	if err != nil {
		s.emit(LedgerRecordFailed{Op: LedgerOpFind, Err: err})
		return nil
	}
	if found && prev.OutputDigest != digest {
		return fmt.Errorf("%w: %w: previous run %s, now %s", ErrInvariantViolation, ErrNonReproducibleOutput, prev.OutputDigest, digest)
	}
	return nil
}
