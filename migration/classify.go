package migration

import (
	"fmt"
	"slices"
	"strings"

	"github.com/holiman/uint256"
)

// DefaultMinimumAllocation is 100 whole tokens in base units.
var DefaultMinimumAllocation = *new(uint256.Int).Mul(uint256.NewInt(100), uint256.NewInt(1_000_000_000_000_000_000))

// Classification splits the adjusted allocations into the accounts written
// to genesis and the dust that is dropped.
type Classification struct {
	// Base accounts are liquid at genesis; sorted by address.
	Base []Allocation
	// Vesting holds every remaining allocation at or above the minimum.
	Vesting *Allocations
	// Dropped allocations are below the minimum and get no genesis entry.
	Dropped []Allocation
}

// Classify moves baseAddresses out of allocs into liquid accounts and drops
// every remaining allocation strictly below minimum. allocs is left
// unmodified. Every base address must hold an allocation.
func Classify(allocs *Allocations, baseAddresses []string, minimum uint256.Int) (Classification, error) {
	remaining := allocs.Clone()

	base := make([]Allocation, 0, len(baseAddresses))
	seen := NewAddressSet()
	for _, addr := range baseAddresses {
		if seen.Contains(addr) {
			continue
		}
		seen[addr] = struct{}{}

		amount, ok := remaining.Remove(addr)
		if !ok {
			return Classification{}, fmt.Errorf("%w: %w: %s", ErrInvariantViolation, ErrBaseAccountMissing, addr)
		}
		base = append(base, Allocation{Address: addr, Amount: amount})
	}
	slices.SortFunc(base, func(a, b Allocation) int { return strings.Compare(a.Address, b.Address) })

	dropped := remaining.Retain(func(a Allocation) bool {
		return !a.Amount.Lt(&minimum)
	})

	return Classification{
		Base:    base,
		Vesting: remaining,
		Dropped: dropped,
	}, nil
}
