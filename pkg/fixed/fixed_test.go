package fixed

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/pkg/codes"
	"pgregory.net/rapid"
)

func TestU64(t *testing.T) {
	_, err := AddU64(math.MaxUint64, 1)
	assert.Equal(t, codes.MathOverflow, err)

	_, err = SubU64(1, 2)
	assert.Equal(t, codes.MathUnderflow, err)

	_, err = MulU64(math.MaxUint64, 2)
	assert.Equal(t, codes.MathOverflow, err)

	_, err = DivU64(1, 0)
	assert.Equal(t, codes.MathUnderflow, err)

	v, err := MulU64(1_000_000, 500)
	require.Nil(t, err)
	assert.EqualValues(t, 500_000_000, v)

	assert.EqualValues(t, 0, ElapsedSeconds(10, 20))
	assert.EqualValues(t, 10, ElapsedSeconds(20, 10))
}

func TestU128Bounds(t *testing.T) {
	max := U128FromParts(math.MaxUint64, math.MaxUint64)

	_, err := max.Add(NewU128(1))
	assert.Equal(t, codes.MathOverflow, err)

	_, err = max.Mul(NewU128(2))
	assert.Equal(t, codes.MathOverflow, err)

	_, err = NewU128(1).Sub(NewU128(2))
	assert.Equal(t, codes.MathUnderflow, err)

	_, err = NewU128(1).Div(U128{})
	assert.Equal(t, codes.MathUnderflow, err)

	_, err = U128FromParts(0, 1).Uint64()
	assert.Equal(t, codes.MathOverflow, err)

	_, err = U128FromParts(0, 1<<63).Signed()
	assert.Equal(t, codes.MathOverflow, err)

	v, err := NewU128(7).Mul(NewU128(6))
	require.Nil(t, err)
	assert.Equal(t, "42", v.String())
}

func TestI128Bounds(t *testing.T) {
	max, err := I128FromBig(maxI128)
	require.Nil(t, err)
	min, err := I128FromBig(minI128)
	require.Nil(t, err)

	_, err = max.Add(NewI128(1))
	assert.Equal(t, codes.MathOverflow, err)

	_, err = min.Sub(NewI128(1))
	assert.Equal(t, codes.MathUnderflow, err)

	_, err = min.Div(NewI128(-1))
	assert.Equal(t, codes.MathOverflow, err)

	_, err = NewI128(1).Div(I128{})
	assert.Equal(t, codes.MathUnderflow, err)

	_, err = I128FromBig(new(big.Int).Add(maxI128, big.NewInt(1)))
	assert.Equal(t, codes.MathOverflow, err)

	q, err := NewI128(-7).Div(NewI128(2))
	require.Nil(t, err)
	assert.Equal(t, "-3", q.String())

	var zero I128
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0", zero.String())
}

func TestI128Parts(t *testing.T) {
	lo, hi := NewI128(-1).Parts()
	assert.EqualValues(t, uint64(math.MaxUint64), lo)
	assert.EqualValues(t, uint64(math.MaxUint64), hi)

	rapid.Check(t, func(t *rapid.T) {
		hi := rapid.Int64().Draw(t, "hi")
		lo := rapid.Uint64().Draw(t, "lo")
		v := I128FromParts(lo, uint64(hi))

		gotLo, gotHi := v.Parts()
		if gotLo != lo || gotHi != uint64(hi) {
			t.Fatalf("parts mismatch for %s", v)
		}

		if (hi < 0) != (v.Sign() < 0) {
			t.Fatalf("sign mismatch for %s", v)
		}
	})
}
