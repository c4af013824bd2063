package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// Chain defaults of the target ledger
const (
	DefaultDenom          = "aonex"
	DefaultAddressPrefix  = "onomy"
	DefaultSpecialAddress = "onomy1cn8dfn77allkgte2hdfcpsypmsasy3lzeq9kcj"
)

// Params are the inputs of a migration besides the two documents
type Params struct {
	Denom             string
	SpecialAddress    string
	BaseAddresses     []string
	ModuleAccounts    AddressSet
	MinimumAllocation uint256.Int
	Schedule          Schedule
}

// DefaultParams returns the parameters the target chain launched with.
// Module accounts are empty; derive them with ModuleAccounts.
func DefaultParams() Params {
	return Params{
		Denom:             DefaultDenom,
		SpecialAddress:    DefaultSpecialAddress,
		BaseAddresses:     []string{DefaultSpecialAddress},
		ModuleAccounts:    NewAddressSet(),
		MinimumAllocation: DefaultMinimumAllocation,
		Schedule:          DefaultSchedule(),
	}
}

// Validate checks the parameters before any document is touched.
func (p Params) Validate() error {
	switch {
	case p.Denom == "":
		return fmt.Errorf("%w: %w: empty denom", ErrInvariantViolation, ErrInvalidParams)
	case p.SpecialAddress == "":
		return fmt.Errorf("%w: %w: empty special address", ErrInvariantViolation, ErrInvalidParams)
	}
	for _, addr := range p.BaseAddresses {
		if addr == "" {
			return fmt.Errorf("%w: %w: empty base address", ErrInvariantViolation, ErrInvalidParams)
		}
	}
	return p.Schedule.Validate()
}

// Digest is a sha256 over a canonical rendering of the parameters. Runs with
// equal digests must produce equal outputs for equal documents.
func (p Params) Digest() string {
	modules := make([]string, 0, len(p.ModuleAccounts))
	for addr := range p.ModuleAccounts {
		modules = append(modules, addr)
	}
	slices.Sort(modules)

	base := slices.Clone(p.BaseAddresses)
	slices.Sort(base)

	lines := []string{
		"denom=" + p.Denom,
		"special=" + p.SpecialAddress,
		"base=" + strings.Join(base, ","),
		"modules=" + strings.Join(modules, ","),
		"minimum=" + p.MinimumAllocation.Dec(),
		"start=" + strconv.FormatInt(p.Schedule.StartUnix(), 10),
		"period=" + strconv.FormatInt(p.Schedule.PeriodSeconds(), 10),
		"periods=" + strconv.Itoa(p.Schedule.Periods),
	}
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
