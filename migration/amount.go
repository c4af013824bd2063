package migration

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// AmountBits is the width of every allocation and balance.
const AmountBits = 128

// ParseTruncatedDecimal parses a non-negative decimal string, discarding any
// fractional part. "500.9" parses as 500; the fraction is never rounded.
func ParseTruncatedDecimal(s string) (uint256.Int, error) {
	integer, fraction, _ := strings.Cut(s, ".")
	if integer == "" || !isDigits(integer) || !isDigits(fraction) {
		return uint256.Int{}, fmt.Errorf("%w: %w: %q", ErrParse, ErrInvalidDecimal, s)
	}

	v, err := uint256.FromDecimal(integer)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("%w: %q does not fit 256 bits", ErrArithmeticOverflow, s)
	}
	return *v, nil
}

// FormatAmount renders an amount as a base-10 string.
func FormatAmount(v uint256.Int) string {
	return v.Dec()
}

// mulDiv returns floor(x*y/d) computed over a 512-bit intermediate product
// and narrowed to AmountBits. d must not be zero.
func mulDiv(x, y, d *uint256.Int) (uint256.Int, error) {
	var z uint256.Int
	if _, overflow := z.MulDivOverflow(x, y, d); overflow {
		return uint256.Int{}, fmt.Errorf("%w: %s * %s / %s does not fit 256 bits", ErrArithmeticOverflow, x.Dec(), y.Dec(), d.Dec())
	}
	return narrow(&z)
}

// narrow checks that v fits AmountBits.
func narrow(v *uint256.Int) (uint256.Int, error) {
	if v.BitLen() > AmountBits {
		return uint256.Int{}, fmt.Errorf("%w: %w: %s", ErrArithmeticOverflow, ErrAmountTooLarge, v.Dec())
	}
	return *v, nil
}

// addAmounts returns a+b, failing when the sum leaves AmountBits.
func addAmounts(a, b uint256.Int) (uint256.Int, error) {
	var sum uint256.Int
	sum.Add(&a, &b) // both operands are below 2^128, so this cannot wrap 256 bits
	return narrow(&sum)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
