package migration

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// The reserved share is 5% of the final supply, i.e. 5/95 of the delegated
// supply. The ratio is evaluated in float64 at run time, matching genesis
// files that were already published.
var (
	specialShare   = 0.05
	remainderShare = 0.95
)

// SpecialAllocation computes floor((0.05/0.95) * total) with float64
// semantics: total is rounded to the nearest float64, multiplied by the
// float64 ratio and truncated toward zero.
func SpecialAllocation(total uint256.Int) (uint256.Int, error) {
	f, _ := new(big.Float).SetInt(total.ToBig()).Float64()
	ratio := specialShare / remainderShare
	product := ratio * f

	truncated, _ := big.NewFloat(product).Int(nil)
	v, overflow := uint256.FromBig(truncated)
	if overflow {
		return uint256.Int{}, fmt.Errorf("%w: %w: special allocation of %s", ErrArithmeticOverflow, ErrAmountTooLarge, total.Dec())
	}
	return narrow(v)
}

// SupplyAdjustment is the outcome of reserving the special allocation
type SupplyAdjustment struct {
	Allocations       *Allocations
	DelegatedSupply   uint256.Int
	SpecialAllocation uint256.Int
	TotalSupply       uint256.Int
}

// AdjustSupply reserves the special allocation for specialAddress on top of
// the delegated supply. allocs is left unmodified. specialAddress must not
// already hold an allocation.
func AdjustSupply(allocs *Allocations, specialAddress string) (SupplyAdjustment, error) {
	delegated, err := allocs.Total()
	if err != nil {
		return SupplyAdjustment{}, err
	}
	special, err := SpecialAllocation(delegated)
	if err != nil {
		return SupplyAdjustment{}, err
	}

	adjusted := allocs.Clone()
	if err := adjusted.Insert(specialAddress, special); err != nil {
		return SupplyAdjustment{}, fmt.Errorf("reserving special allocation: %w", err)
	}
	total, err := addAmounts(delegated, special)
	if err != nil {
		return SupplyAdjustment{}, fmt.Errorf("adjusting total supply: %w", err)
	}

	return SupplyAdjustment{
		Allocations:       adjusted,
		DelegatedSupply:   delegated,
		SpecialAllocation: special,
		TotalSupply:       total,
	}, nil
}
