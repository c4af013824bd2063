package migration

import (
	"fmt"

	"github.com/google/btree"
	"github.com/holiman/uint256"
)

const allocationsDegree = 32

// Allocation is an amount of base units owned by an address
type Allocation struct {
	Address string
	Amount  uint256.Int
}

func allocationLess(a, b Allocation) bool {
	return a.Address < b.Address
}

// Allocations maps addresses to 128-bit amounts and iterates in byte-wise
// lexicographic address order. The zero value is not usable; use
// NewAllocations.
type Allocations struct {
	tree *btree.BTreeG[Allocation]
}

// NewAllocations returns an empty allocation map
func NewAllocations() *Allocations {
	return &Allocations{tree: btree.NewG(allocationsDegree, allocationLess)}
}

// Clone returns an independent copy. Copies share storage until either side
// is modified.
func (a *Allocations) Clone() *Allocations {
	return &Allocations{tree: a.tree.Clone()}
}

// Len returns the number of addresses
func (a *Allocations) Len() int {
	return a.tree.Len()
}

// Get returns the amount held by address
func (a *Allocations) Get(address string) (uint256.Int, bool) {
	item, ok := a.tree.Get(Allocation{Address: address})
	return item.Amount, ok
}

// Add accumulates amount into address, creating the entry when absent.
func (a *Allocations) Add(address string, amount uint256.Int) error {
	current, _ := a.Get(address)
	sum, err := addAmounts(current, amount)
	if err != nil {
		return fmt.Errorf("accumulating allocation of %s: %w", address, err)
	}
	a.tree.ReplaceOrInsert(Allocation{Address: address, Amount: sum})
	return nil
}

// Insert creates a new entry. It fails when address already has one.
func (a *Allocations) Insert(address string, amount uint256.Int) error {
	if _, ok := a.tree.Get(Allocation{Address: address}); ok {
		return fmt.Errorf("%w: %w: %s", ErrInvariantViolation, ErrAllocationExists, address)
	}
	v, err := narrow(&amount)
	if err != nil {
		return err
	}
	a.tree.ReplaceOrInsert(Allocation{Address: address, Amount: v})
	return nil
}

// Remove deletes address and returns what it held
func (a *Allocations) Remove(address string) (uint256.Int, bool) {
	item, ok := a.tree.Delete(Allocation{Address: address})
	return item.Amount, ok
}

// Retain keeps only the entries for which keep returns true and returns the
// removed entries in address order.
func (a *Allocations) Retain(keep func(Allocation) bool) []Allocation {
	var removed []Allocation
	a.tree.Ascend(func(item Allocation) bool {
		if !keep(item) {
			removed = append(removed, item)
		}
		return true
	})
	for _, item := range removed {
		a.tree.Delete(item)
	}
	return removed
}

// Total returns the sum of all amounts
func (a *Allocations) Total() (uint256.Int, error) {
	var (
		total uint256.Int
		err   error
	)
	a.tree.Ascend(func(item Allocation) bool {
		total, err = addAmounts(total, item.Amount)
		return err == nil
	})
	if err != nil {
		return uint256.Int{}, fmt.Errorf("summing total supply: %w", err)
	}
	return total, nil
}

// Sorted returns all entries in address order
func (a *Allocations) Sorted() []Allocation {
	out := make([]Allocation, 0, a.tree.Len())
	a.tree.Ascend(func(item Allocation) bool {
		out = append(out, item)
		return true
	})
	return out
}
