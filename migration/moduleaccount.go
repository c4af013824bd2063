package migration

import (
	"crypto/sha256"
	"fmt"

	"github.com/cosmos/btcutil/bech32"
)

// moduleAddressLen is the length of a derived module address in bytes.
const moduleAddressLen = 20

// DefaultModuleNames are the modules of the source chain whose accounts hold
// protocol funds and therefore never delegate.
var DefaultModuleNames = []string{
	"distribution",
	"fee_collector",
	"bonded_tokens_pool",
	"not_bonded_tokens_pool",
	"gov",
	"mint",
	"transfer",
}

// ModuleAddress derives the bech32 account address of a named module:
// the first 20 bytes of sha256(name) encoded with prefix.
func ModuleAddress(prefix, name string) (string, error) {
	sum := sha256.Sum256([]byte(name))
	data, err := bech32.ConvertBits(sum[:moduleAddressLen], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w: module %q: %w", ErrInvariantViolation, ErrInvalidParams, name, err)
	}
	addr, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w: module %q: %w", ErrInvariantViolation, ErrInvalidParams, name, err)
	}
	return addr, nil
}

// AddressSet is a set of account addresses
type AddressSet map[string]struct{}

// NewAddressSet returns a set holding addresses
func NewAddressSet(addresses ...string) AddressSet {
	set := make(AddressSet, len(addresses))
	for _, a := range addresses {
		set[a] = struct{}{}
	}
	return set
}

// Contains reports whether address is in the set
func (s AddressSet) Contains(address string) bool {
	_, ok := s[address]
	return ok
}

// ModuleAccounts derives the addresses of the named modules and merges them
// with literal addresses into one set.
func ModuleAccounts(prefix string, names []string, literal ...string) (AddressSet, error) {
	set := NewAddressSet(literal...)
	for _, name := range names {
		addr, err := ModuleAddress(prefix, name)
		if err != nil {
			return nil, err
		}
		set[addr] = struct{}{}
	}
	return set, nil
}
