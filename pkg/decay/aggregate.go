package decay

import (
	"orboracle/pkg/codes"
	"orboracle/pkg/fixed"
)

var wad = fixed.NewU128(fixed.WAD)

// Apply scales value by Factor(elapsed, halfLife).
func Apply(value fixed.U128, elapsed, halfLife uint64) (fixed.U128, error) {
	if value.IsZero() {
		return value, nil
	}

	scaled, err := value.Mul(fixed.NewU128(Factor(elapsed, halfLife)))
	if err != nil {
		return fixed.U128{}, err
	}

	return scaled.Div(wad)
}

type Input struct {
	PrevValue  fixed.I128
	PrevWeight fixed.U128
	NewValue   fixed.I128
	NewWeight  uint64
	Elapsed    uint64
	HalfLife   uint64
	Alpha      uint64
}

type Output struct {
	Value         fixed.I128
	Weight        fixed.U128
	DecayedWeight fixed.U128
}

// Combine blends a new submission into the running aggregate. It has no
// side effects; the caller decides whether to commit the output.
func Combine(in Input) (Output, error) {
	decayed, err := Apply(in.PrevWeight, in.Elapsed, in.HalfLife)
	if err != nil {
		return Output{}, err
	}

	effective, err := fixed.NewU128(in.NewWeight).Mul(fixed.NewU128(in.Alpha))
	if err != nil {
		return Output{}, err
	}

	total, err := decayed.Add(effective)
	if err != nil {
		return Output{}, err
	}

	if total.IsZero() {
		return Output{}, codes.ZeroWeightAfterUpdate
	}

	value, err := weightedMean(in.PrevValue, decayed, in.NewValue, effective, total)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Value:         value,
		Weight:        total,
		DecayedWeight: decayed,
	}, nil
}

func weightedMean(prev fixed.I128, prevWeight fixed.U128, next fixed.I128, nextWeight, total fixed.U128) (fixed.I128, error) {
	pw, err := prevWeight.Signed()
	if err != nil {
		return fixed.I128{}, err
	}

	nw, err := nextWeight.Signed()
	if err != nil {
		return fixed.I128{}, err
	}

	tw, err := total.Signed()
	if err != nil {
		return fixed.I128{}, err
	}

	a, err := prev.Mul(pw)
	if err != nil {
		return fixed.I128{}, err
	}

	b, err := next.Mul(nw)
	if err != nil {
		return fixed.I128{}, err
	}

	sum, err := a.Add(b)
	if err != nil {
		return fixed.I128{}, err
	}

	return sum.Div(tw)
}

// Activity is WAD minus the decay accumulated since the submitter's last
// value: long idle submitters earn the full reward share.
func Activity(sinceLast, halfLife uint64) uint64 {
	f := Factor(sinceLast, halfLife)
	if f >= fixed.WAD {
		return 0
	}

	return fixed.WAD - f
}

// Reward computes the lamports paid for a submission out of pool.
func Reward(pool uint64, weight uint64, sinceLast uint64, totalWeight fixed.U128, alpha, halfLife uint64) (uint64, error) {
	if pool == 0 || weight == 0 || totalWeight.IsZero() {
		return 0, nil
	}

	activity := Activity(sinceLast, halfLife)
	if activity == 0 {
		return 0, nil
	}

	num, err := fixed.NewU128(weight).Mul(fixed.NewU128(activity))
	if err != nil {
		return 0, err
	}

	if num, err = num.Div(wad); err != nil {
		return 0, err
	}

	reward, err := fixed.NewU128(alpha).Mul(fixed.NewU128(pool))
	if err != nil {
		return 0, err
	}

	if reward, err = reward.Mul(num); err != nil {
		return 0, err
	}

	if reward, err = reward.Div(totalWeight); err != nil {
		return 0, err
	}

	return reward.Uint64()
}
