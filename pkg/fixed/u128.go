package fixed

import (
	"math/big"

	"github.com/holiman/uint256"
	"orboracle/pkg/codes"
)

// U128 is an unsigned 128-bit integer. The zero value is 0.
type U128 struct {
	v uint256.Int
}

func NewU128(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

// U128FromParts builds a value from its low and high 64-bit words.
func U128FromParts(lo, hi uint64) U128 {
	var u U128
	u.v[0], u.v[1] = lo, hi
	return u
}

// U128FromBig converts b, failing with MathOverflow outside [0, 2^128).
func U128FromBig(b *big.Int) (U128, error) {
	if b.Sign() < 0 {
		return U128{}, codes.MathUnderflow
	}

	v, overflow := uint256.FromBig(b)
	if overflow || v.BitLen() > 128 {
		return U128{}, codes.MathOverflow
	}

	return U128{v: *v}, nil
}

func (a U128) Lo() uint64 { return a.v[0] }
func (a U128) Hi() uint64 { return a.v[1] }

func (a U128) IsZero() bool { return a.v.IsZero() }

func (a U128) Cmp(b U128) int { return a.v.Cmp(&b.v) }

func (a U128) Big() *big.Int { return a.v.ToBig() }

func (a U128) String() string { return a.Big().String() }

func bounded(z *uint256.Int, overflow bool) (U128, error) {
	if overflow || z.BitLen() > 128 {
		return U128{}, codes.MathOverflow
	}

	return U128{v: *z}, nil
}

func (a U128) Add(b U128) (U128, error) {
	var z uint256.Int
	_, overflow := z.AddOverflow(&a.v, &b.v)
	return bounded(&z, overflow)
}

func (a U128) Sub(b U128) (U128, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&a.v, &b.v); underflow {
		return U128{}, codes.MathUnderflow
	}

	return U128{v: z}, nil
}

func (a U128) Mul(b U128) (U128, error) {
	var z uint256.Int
	_, overflow := z.MulOverflow(&a.v, &b.v)
	return bounded(&z, overflow)
}

// Div truncates. Division by zero fails with MathUnderflow.
func (a U128) Div(b U128) (U128, error) {
	if b.IsZero() {
		return U128{}, codes.MathUnderflow
	}

	var z uint256.Int
	z.Div(&a.v, &b.v)
	return U128{v: z}, nil
}

// Uint64 narrows a, failing with MathOverflow when it does not fit.
func (a U128) Uint64() (uint64, error) {
	if !a.v.IsUint64() {
		return 0, codes.MathOverflow
	}

	return a.v.Uint64(), nil
}

// Signed converts a to I128, failing with MathOverflow above 2^127-1.
func (a U128) Signed() (I128, error) {
	return I128FromBig(a.Big())
}
