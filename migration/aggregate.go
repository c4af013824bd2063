package migration

import (
	"fmt"

	"github.com/holiman/uint256"
)

// ValidatorTotals are the parsed stake totals of one validator
type ValidatorTotals struct {
	ID          string
	TotalShares uint256.Int
	TotalTokens uint256.Int
}

// ParseValidators parses validator records into totals keyed by operator
// address.
func ParseValidators(records []ValidatorRecord) (map[string]ValidatorTotals, error) {
	validators := make(map[string]ValidatorTotals, len(records))
	for _, r := range records {
		if _, ok := validators[r.OperatorAddress]; ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvariantViolation, ErrDuplicateValidator, r.OperatorAddress)
		}

		shares, err := ParseTruncatedDecimal(r.DelegatorShares)
		if err != nil {
			return nil, fmt.Errorf("validator %s delegator_shares: %w", r.OperatorAddress, err)
		}
		tokens, err := ParseTruncatedDecimal(r.Tokens)
		if err != nil {
			return nil, fmt.Errorf("validator %s tokens: %w", r.OperatorAddress, err)
		}
		if shares.IsZero() {
			return nil, fmt.Errorf("%w: %w: %s", ErrParse, ErrZeroShares, r.OperatorAddress)
		}

		validators[r.OperatorAddress] = ValidatorTotals{
			ID:          r.OperatorAddress,
			TotalShares: shares,
			TotalTokens: tokens,
		}
	}
	return validators, nil
}

// DelegatedTokens converts truncated delegation shares into bonded tokens:
// floor(shares * total_tokens / total_shares).
func DelegatedTokens(v ValidatorTotals, shares uint256.Int) (uint256.Int, error) {
	if v.TotalShares.IsZero() {
		return uint256.Int{}, fmt.Errorf("%w: %w: %s", ErrParse, ErrZeroShares, v.ID)
	}
	tokens, err := mulDiv(&shares, &v.TotalTokens, &v.TotalShares)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("validator %s: %w", v.ID, err)
	}
	return tokens, nil
}

// Aggregate sums the bonded tokens of every delegator across all validators.
// A delegation from any address in moduleAccounts aborts the run.
func Aggregate(snap Snapshot, moduleAccounts AddressSet) (*Allocations, error) {
	validators, err := ParseValidators(snap.Validators)
	if err != nil {
		return nil, err
	}

	allocs := NewAllocations()
	for _, d := range snap.Delegations {
		if moduleAccounts.Contains(d.DelegatorAddress) {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvariantViolation, ErrModuleAccountDelegation, d.DelegatorAddress)
		}

		v, ok := validators[d.ValidatorAddress]
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s delegates to %s", ErrInvariantViolation, ErrUnknownValidator, d.DelegatorAddress, d.ValidatorAddress)
		}

		shares, err := ParseTruncatedDecimal(d.Shares)
		if err != nil {
			return nil, fmt.Errorf("delegation of %s shares: %w", d.DelegatorAddress, err)
		}
		tokens, err := DelegatedTokens(v, shares)
		if err != nil {
			return nil, fmt.Errorf("delegation of %s: %w", d.DelegatorAddress, err)
		}
		if err := allocs.Add(d.DelegatorAddress, tokens); err != nil {
			return nil, err
		}
	}
	return allocs, nil
}
