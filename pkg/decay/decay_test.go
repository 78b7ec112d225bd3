package decay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/pkg/codes"
	"orboracle/pkg/fixed"
	"pgregory.net/rapid"
)

func TestFactor(t *testing.T) {
	const h = 3600

	t.Run("no elapsed time keeps full weight", func(t *testing.T) {
		assert.Equal(t, fixed.WAD, Factor(0, h))
	})

	t.Run("whole half lives", func(t *testing.T) {
		assert.Equal(t, fixed.WAD/2, Factor(h, h))
		assert.Equal(t, fixed.WAD/4, Factor(2*h, h))
		assert.EqualValues(t, 1_907_348_632_812, Factor(19*h, h))
	})

	t.Run("interpolates between exponents", func(t *testing.T) {
		assert.EqualValues(t, 750_000_000_000_000_000, Factor(h/2, h))
	})

	t.Run("floors at one", func(t *testing.T) {
		assert.EqualValues(t, 1, Factor(61*h, h))
		assert.EqualValues(t, 1, Factor(1<<63, 1))
	})

	t.Run("zero half life discards history", func(t *testing.T) {
		assert.EqualValues(t, 0, Factor(0, 0))
		assert.EqualValues(t, 0, Factor(100, 0))
	})
}

func TestFactorMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := rapid.Uint64Range(1, 1_000_000).Draw(t, "half_life")
		a := rapid.Uint64Range(0, 100_000_000).Draw(t, "a")
		b := rapid.Uint64Range(a, 100_000_000).Draw(t, "b")

		if Factor(b, h) > Factor(a, h) {
			t.Fatalf("factor increased: f(%d)=%d f(%d)=%d", a, Factor(a, h), b, Factor(b, h))
		}
	})
}

func TestCombine(t *testing.T) {
	t.Run("first submission sets the value", func(t *testing.T) {
		out, err := Combine(Input{
			NewValue:  fixed.NewI128(123456),
			NewWeight: 1_000_000,
			Elapsed:   10,
			HalfLife:  3600,
			Alpha:     1,
		})
		require.Nil(t, err)
		assert.Equal(t, "123456", out.Value.String())
		assert.Equal(t, "1000000", out.Weight.String())
	})

	t.Run("zero half life replaces the aggregate", func(t *testing.T) {
		out, err := Combine(Input{
			PrevValue:  fixed.NewI128(500),
			PrevWeight: fixed.NewU128(1_000_000_000),
			NewValue:   fixed.NewI128(-77),
			NewWeight:  3,
			Elapsed:    0,
			HalfLife:   0,
			Alpha:      2,
		})
		require.Nil(t, err)
		assert.Equal(t, "-77", out.Value.String())
		assert.Equal(t, "6", out.Weight.String())
		assert.True(t, out.DecayedWeight.IsZero())
	})

	t.Run("equal weights meet in the middle", func(t *testing.T) {
		out, err := Combine(Input{
			PrevValue:  fixed.NewI128(100),
			PrevWeight: fixed.NewU128(10),
			NewValue:   fixed.NewI128(200),
			NewWeight:  10,
			HalfLife:   60,
			Alpha:      1,
		})
		require.Nil(t, err)
		assert.Equal(t, "150", out.Value.String())
	})

	t.Run("zero total weight", func(t *testing.T) {
		_, err := Combine(Input{NewValue: fixed.NewI128(1), NewWeight: 10, HalfLife: 60, Alpha: 0})
		assert.Equal(t, codes.ZeroWeightAfterUpdate, err)
	})

	t.Run("overflowing product", func(t *testing.T) {
		max := fixed.I128FromParts(^uint64(0), ^uint64(0)>>1)
		_, err := Combine(Input{
			PrevValue:  max,
			PrevWeight: fixed.NewU128(4),
			NewValue:   fixed.NewI128(1),
			NewWeight:  1,
			HalfLife:   60,
			Alpha:      1,
		})
		assert.Equal(t, codes.MathOverflow, err)
	})
}

func TestCombineStaysBetweenInputs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prev := rapid.Int64Range(-1_000_000_000_000, 1_000_000_000_000).Draw(t, "prev")
		next := rapid.Int64Range(-1_000_000_000_000, 1_000_000_000_000).Draw(t, "next")
		in := Input{
			PrevValue:  fixed.NewI128(prev),
			PrevWeight: fixed.NewU128(rapid.Uint64Range(0, 1_000_000_000_000).Draw(t, "prev_weight")),
			NewValue:   fixed.NewI128(next),
			NewWeight:  rapid.Uint64Range(1, 1_000_000_000_000).Draw(t, "weight"),
			Elapsed:    rapid.Uint64Range(0, 1_000_000).Draw(t, "elapsed"),
			HalfLife:   rapid.Uint64Range(0, 100_000).Draw(t, "half_life"),
			Alpha:      rapid.Uint64Range(1, 100).Draw(t, "alpha"),
		}

		out, err := Combine(in)
		if err != nil {
			t.Fatalf("combine: %v", err)
		}

		lo, hi := prev, next
		if lo > hi {
			lo, hi = hi, lo
		}

		v := out.Value.Big().Int64()
		if v < lo || v > hi {
			t.Fatalf("aggregate %d outside [%d, %d]", v, lo, hi)
		}
	})
}

func TestReward(t *testing.T) {
	total := fixed.NewU128(1_000_000)

	// pool = 1_000_000 * 500 / 100_000
	r, err := Reward(5000, 1_000_000, 1_700_000_000, total, 1, 3600)
	require.Nil(t, err)
	assert.EqualValues(t, 4999, r)

	r, err = Reward(5000, 1_000_000, 0, total, 1, 3600)
	require.Nil(t, err)
	assert.EqualValues(t, 0, r, "no activity since the previous submission")

	r, err = Reward(0, 1_000_000, 100, total, 1, 3600)
	require.Nil(t, err)
	assert.EqualValues(t, 0, r)

	r, err = Reward(5000, 1_000_000, 100, total, 1, 0)
	require.Nil(t, err)
	assert.EqualValues(t, 5000, r)
}
