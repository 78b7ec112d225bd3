package fixed

import (
	"math/bits"

	"orboracle/pkg/codes"
)

// AddU64 returns a+b or MathOverflow.
func AddU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, codes.MathOverflow
	}

	return sum, nil
}

// SubU64 returns a-b or MathUnderflow.
func SubU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, codes.MathUnderflow
	}

	return diff, nil
}

// MulU64 returns a*b or MathOverflow.
func MulU64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, codes.MathOverflow
	}

	return lo, nil
}

// DivU64 returns a/b, failing with MathUnderflow when b is zero.
func DivU64(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, codes.MathUnderflow
	}

	return a / b, nil
}

// ElapsedSeconds returns now-since clamped at zero.
func ElapsedSeconds(now, since int64) uint64 {
	if now <= since {
		return 0
	}

	return uint64(now - since)
}

const (
	// Denominator scales basis-point style ratios (reward rate, quorum).
	Denominator uint64 = 100_000
	// WAD is the 1e18 fixed-point unit.
	WAD uint64 = 1_000_000_000_000_000_000
)
