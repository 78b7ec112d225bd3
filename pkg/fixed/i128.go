package fixed

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
	"orboracle/pkg/codes"
)

var (
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
)

// I128 is a signed 128-bit integer. The zero value is 0.
type I128 struct {
	i sdkmath.Int
}

func NewI128(x int64) I128 {
	return I128{i: sdkmath.NewInt(x)}
}

// I128FromBig converts b, failing with MathOverflow outside the i128 range.
func I128FromBig(b *big.Int) (I128, error) {
	if b.Cmp(maxI128) > 0 || b.Cmp(minI128) < 0 {
		return I128{}, codes.MathOverflow
	}

	return I128{i: sdkmath.NewIntFromBigInt(b)}, nil
}

// I128FromParts decodes a two's complement value from its 64-bit words.
func I128FromParts(lo, hi uint64) I128 {
	b := new(big.Int).SetUint64(hi)
	b.Lsh(b, 64)
	b.Or(b, new(big.Int).SetUint64(lo))
	if hi>>63 == 1 {
		b.Sub(b, two128)
	}

	return I128{i: sdkmath.NewIntFromBigInt(b)}
}

func (a I128) int() sdkmath.Int {
	if a.i.IsNil() {
		return sdkmath.ZeroInt()
	}

	return a.i
}

// Parts returns the two's complement low and high words.
func (a I128) Parts() (lo, hi uint64) {
	b := a.Big()
	if b.Sign() < 0 {
		b.Add(b, two128)
	}

	mask := new(big.Int).SetUint64(^uint64(0))
	lo = new(big.Int).And(b, mask).Uint64()
	hi = new(big.Int).Rsh(b, 64).Uint64()
	return lo, hi
}

func (a I128) Big() *big.Int { return a.int().BigInt() }

func (a I128) Sign() int { return a.Big().Sign() }

func (a I128) IsZero() bool { return a.int().IsZero() }

func (a I128) Cmp(b I128) int { return a.Big().Cmp(b.Big()) }

func (a I128) String() string { return a.int().String() }

func checked(r sdkmath.Int, code codes.ErrorCode) (I128, error) {
	b := r.BigInt()
	if b.Cmp(maxI128) > 0 || b.Cmp(minI128) < 0 {
		return I128{}, code
	}

	return I128{i: r}, nil
}

func (a I128) Add(b I128) (I128, error) {
	return checked(a.int().Add(b.int()), codes.MathOverflow)
}

func (a I128) Sub(b I128) (I128, error) {
	return checked(a.int().Sub(b.int()), codes.MathUnderflow)
}

func (a I128) Mul(b I128) (I128, error) {
	return checked(a.int().Mul(b.int()), codes.MathOverflow)
}

// Div truncates toward zero. Division by zero fails with MathUnderflow.
func (a I128) Div(b I128) (I128, error) {
	if b.IsZero() {
		return I128{}, codes.MathUnderflow
	}

	return checked(a.int().Quo(b.int()), codes.MathOverflow)
}
