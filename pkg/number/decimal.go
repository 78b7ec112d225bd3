package number

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"orboracle/pkg/fixed"
)

// ValueDecimals is the number of decimal places oracle values carry.
const ValueDecimals int32 = 6

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// FormatValue renders a fixed-point value with the given decimals,
// e.g. 123456789 with 6 decimals is "123.456789".
func FormatValue(v fixed.I128, decimals int32) string {
	return decimal.NewFromBigInt(v.Big(), -decimals).StringFixed(decimals)
}

// ParseValue converts a decimal string to a fixed-point value. Digits
// beyond decimals are truncated.
func ParseValue(s string, decimals int32) (fixed.I128, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fixed.I128{}, errors.Wrapf(err, "parse value %q", s)
	}

	return FromDecimal(d, decimals)
}

// FromDecimal scales d by 10^decimals, truncating the rest.
func FromDecimal(d decimal.Decimal, decimals int32) (fixed.I128, error) {
	return fixed.I128FromBig(d.Shift(decimals).Truncate(0).BigInt())
}

// Amount parses a base unit amount.
func Amount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse amount %q", s)
	}

	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, errors.Errorf("amount %q must be a non-negative integer", s)
	}

	b := d.BigInt()
	if !b.IsUint64() {
		return 0, errors.Errorf("amount %q overflows", s)
	}

	return b.Uint64(), nil
}

// Uint64 narrows a non-negative integral decimal.
func Uint64(d decimal.Decimal) uint64 {
	b := d.BigInt()
	if b.Sign() < 0 || !b.IsUint64() {
		return 0
	}

	return b.Uint64()
}
