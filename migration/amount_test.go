package migration_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/migration"
)

func TestParseTruncatedDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "integer", input: "1000", want: "1000"},
		{name: "fraction is truncated, not rounded", input: "500.9", want: "500"},
		{name: "long cosmos decimal", input: "1000000000000000000000.000000000000000000", want: "1000000000000000000000"},
		{name: "zero", input: "0.5", want: "0"},
		{name: "trailing dot", input: "7.", want: "7"},
		{name: "leading zeros", input: "007.5", want: "7"},
		{name: "all zeros", input: "000", want: "0"},
		{name: "max 256 bits", input: "115792089237316195423570985008687907853269984665640564039457584007913129639935.9", want: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{name: "wider than 128 bits", input: "340282366920938463463374607431768211456.1", want: "340282366920938463463374607431768211456"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			got, err := migration.ParseTruncatedDecimal(tc.input)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tc.want, migration.FormatAmount(got))
		})
	}
}

func TestParseTruncatedDecimalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: migration.ErrInvalidDecimal},
		{name: "no integer part", input: ".5", wantErr: migration.ErrInvalidDecimal},
		{name: "letters", input: "12a", wantErr: migration.ErrInvalidDecimal},
		{name: "negative", input: "-1", wantErr: migration.ErrInvalidDecimal},
		{name: "non-numeric fraction", input: "1.x", wantErr: migration.ErrInvalidDecimal},
		{name: "exponent", input: "1e18", wantErr: migration.ErrInvalidDecimal},
		{name: "beyond 256 bits", input: "1" + zeros(80), wantErr: migration.ErrArithmeticOverflow},
		{name: "one past 256 bits", input: "115792089237316195423570985008687907853269984665640564039457584007913129639936", wantErr: migration.ErrArithmeticOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			_, err := migration.ParseTruncatedDecimal(tc.input)

			// Assert
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseTruncatedDecimalCategory(t *testing.T) {
	t.Parallel()

	// Act
	_, err := migration.ParseTruncatedDecimal("abc")

	// Assert
	assert.ErrorIs(t, err, migration.ErrParse)
	assert.Equal(t, migration.ExitParseError, migration.ExitCode(err))
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func amount(s string) uint256.Int {
	return *uint256.MustFromDecimal(s)
}
