package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/migration"
)

func TestAllocations(t *testing.T) {
	t.Parallel()

	t.Run("it iterates in address order regardless of insertion order", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		for _, addr := range []string{"onomy1c", "onomy1a", "onomy1b", "Onomy1z"} {
			require.NoError(t, allocs.Add(addr, amount("1")))
		}

		// Act
		sorted := allocs.Sorted()

		// Assert
		var got []string
		for _, a := range sorted {
			got = append(got, a.Address)
		}
		assert.Equal(t, []string{"Onomy1z", "onomy1a", "onomy1b", "onomy1c"}, got)
	})

	t.Run("it accumulates amounts of the same address", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()

		// Act
		require.NoError(t, allocs.Add("onomy1a", amount("40")))
		require.NoError(t, allocs.Add("onomy1a", amount("2")))

		// Assert
		got, ok := allocs.Get("onomy1a")
		assert.True(t, ok)
		assert.Equal(t, "42", got.Dec())
		assert.Equal(t, 1, allocs.Len())
	})

	t.Run("it fails when a sum leaves 128 bits", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		require.NoError(t, allocs.Add("onomy1a", amount("340282366920938463463374607431768211455")))

		// Act
		err := allocs.Add("onomy1a", amount("1"))

		// Assert
		assert.ErrorIs(t, err, migration.ErrArithmeticOverflow)
	})

	t.Run("it refuses to insert over an existing entry", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		require.NoError(t, allocs.Insert("onomy1a", amount("1")))

		// Act
		err := allocs.Insert("onomy1a", amount("1"))

		// Assert
		assert.ErrorIs(t, err, migration.ErrInvariantViolation)
		assert.ErrorIs(t, err, migration.ErrAllocationExists)
	})

	t.Run("clones are independent", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		require.NoError(t, allocs.Add("onomy1a", amount("1")))

		// Act
		clone := allocs.Clone()
		require.NoError(t, clone.Add("onomy1b", amount("2")))
		clone.Remove("onomy1a")

		// Assert
		assert.Equal(t, 1, allocs.Len())
		_, ok := allocs.Get("onomy1a")
		assert.True(t, ok)
		_, ok = allocs.Get("onomy1b")
		assert.False(t, ok)
	})

	t.Run("retain returns removed entries in order", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		require.NoError(t, allocs.Add("onomy1c", amount("1")))
		require.NoError(t, allocs.Add("onomy1b", amount("100")))
		require.NoError(t, allocs.Add("onomy1a", amount("2")))

		// Act
		removed := allocs.Retain(func(a migration.Allocation) bool {
			return a.Amount.Uint64() >= 100
		})

		// Assert
		require.Len(t, removed, 2)
		assert.Equal(t, "onomy1a", removed[0].Address)
		assert.Equal(t, "onomy1c", removed[1].Address)
		assert.Equal(t, 1, allocs.Len())
	})

	t.Run("total sums every entry", func(t *testing.T) {
		t.Parallel()

		// Arrange
		allocs := migration.NewAllocations()
		require.NoError(t, allocs.Add("onomy1a", amount("1000000000000000000000")))
		require.NoError(t, allocs.Add("onomy1b", amount("1")))

		// Act
		total, err := allocs.Total()

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000000001", total.Dec())
	})
}
