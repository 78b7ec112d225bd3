package layout

import (
	"orboracle/core"
)

const (
	// OracleSpace and PositionSpace are the record sizes without the
	// discriminator, including trailing reserve bytes.
	OracleSpace   = 8841
	PositionSpace = 5290

	OracleAccountSize   = 8 + OracleSpace
	PositionAccountSize = 8 + PositionSpace
)

var (
	OracleDiscriminator   = Discriminator("account", "OracleState")
	PositionDiscriminator = Discriminator("account", "UserState")
)

func EncodeOracle(o *core.Oracle) ([]byte, error) {
	w := newWriter(OracleAccountSize)
	w.typeID(OracleDiscriminator)
	w.key(o.Authority)
	w.key(o.WeightAsset)
	w.u64(o.RewardBps)
	w.u64(o.HalfLifeSeconds)
	w.u64(o.Quorum)
	w.u64(o.DepositLockSeconds)
	w.u64(o.WithdrawLockSeconds)
	w.u64(o.Alpha)
	w.i128(o.AggregatedValue)
	w.i128(o.LatestValue)
	w.u128(o.AggregatedWeight)
	w.i64(o.LastSubmissionTime)
	w.i64(o.LastConfigTime)
	w.u64(o.TotalDepositedStake)
	w.u8(o.Bump)
	w.str(o.Name)
	w.str(o.Description)

	history := o.History.Records()
	w.u32(uint32(len(history)))
	for _, r := range history {
		w.i64(r.Timestamp)
		w.i128(r.AggregatedValue)
		w.i128(r.LatestValue)
	}

	targets := o.Targets.List()
	w.u32(uint32(len(targets)))
	for _, t := range targets {
		w.key(t.Target)
		w.u64(t.BlacklistVotes)
		w.u64(t.WhitelistVotes)
		w.boolean(t.IsBlacklisted)
	}

	return w.padded(OracleAccountSize)
}

func DecodeOracle(data []byte) (*core.Oracle, error) {
	r := newReader(data, OracleDiscriminator)

	o := &core.Oracle{}
	o.Authority = r.key()
	o.WeightAsset = r.key()
	o.RewardBps = r.u64()
	o.HalfLifeSeconds = r.u64()
	o.Quorum = r.u64()
	o.DepositLockSeconds = r.u64()
	o.WithdrawLockSeconds = r.u64()
	o.Alpha = r.u64()
	o.AggregatedValue = r.i128()
	o.LatestValue = r.i128()
	o.AggregatedWeight = r.u128()
	o.LastSubmissionTime = r.i64()
	o.LastConfigTime = r.i64()
	o.TotalDepositedStake = r.u64()
	o.Bump = r.u8()
	o.Name = r.str(core.MaxNameLen)
	o.Description = r.str(core.MaxDescriptionLen)

	for i, n := 0, r.count(core.MaxHistoryEntries); i < n; i++ {
		o.History.Push(core.PriceRecord{
			Timestamp:       r.i64(),
			AggregatedValue: r.i128(),
			LatestValue:     r.i128(),
		})
	}

	for i, n := 0, r.count(core.MaxTargetRecords); i < n; i++ {
		o.Targets.Append(core.TargetVotes{
			Target:         r.key(),
			BlacklistVotes: r.u64(),
			WhitelistVotes: r.u64(),
			IsBlacklisted:  r.boolean(),
		})
	}

	if r.err != nil {
		return nil, r.err
	}

	return o, nil
}

func EncodePosition(p *core.UserPosition) ([]byte, error) {
	w := newWriter(PositionAccountSize)
	w.typeID(PositionDiscriminator)
	w.key(p.Oracle)
	w.key(p.Owner)
	w.u64(p.LockedStake)
	w.u64(p.UnlockedStake)
	w.i64(p.DepositTimestamp)
	w.i64(p.LastOperationTimestamp)
	w.i64(p.LastSubmissionTime)
	w.i128(p.LastSubmittedValue)
	w.u64(p.Weight)
	w.boolean(p.Initialized)
	w.u8(p.Bump)

	for _, list := range []*core.VoteList{&p.BlacklistVotes, &p.WhitelistVotes} {
		votes := list.List()
		w.u32(uint32(len(votes)))
		for _, v := range votes {
			w.key(v.Target)
			w.u64(v.Weight)
		}
	}

	return w.padded(PositionAccountSize)
}

func DecodePosition(data []byte) (*core.UserPosition, error) {
	r := newReader(data, PositionDiscriminator)

	p := &core.UserPosition{}
	p.Oracle = r.key()
	p.Owner = r.key()
	p.LockedStake = r.u64()
	p.UnlockedStake = r.u64()
	p.DepositTimestamp = r.i64()
	p.LastOperationTimestamp = r.i64()
	p.LastSubmissionTime = r.i64()
	p.LastSubmittedValue = r.i128()
	p.Weight = r.u64()
	p.Initialized = r.boolean()
	p.Bump = r.u8()

	for _, list := range []*core.VoteList{&p.BlacklistVotes, &p.WhitelistVotes} {
		for i, n := 0, r.count(core.MaxUserVotes); i < n; i++ {
			list.Append(core.UserVote{
				Target: r.key(),
				Weight: r.u64(),
			})
		}
	}

	if r.err != nil {
		return nil, r.err
	}

	return p, nil
}
