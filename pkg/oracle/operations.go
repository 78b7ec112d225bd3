package oracle

import (
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/decay"
	"orboracle/pkg/fixed"
	"orboracle/pkg/governance"
	"orboracle/pkg/pda"
	"orboracle/pkg/stake"
)

func (c *Controller) Initialize(call Call, params core.InitializeParams) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	if call.Oracle != nil {
		return nil, ErrAlreadyInitialized
	}

	expected, bump, err := pda.OracleAddress(c.programID, call.Signer, call.WeightAsset)
	if err != nil {
		return nil, err
	}

	if !expected.Equals(call.OracleAddress) {
		return nil, codes.InvalidPda
	}

	o := &core.Oracle{
		Authority:           call.Signer,
		WeightAsset:         call.WeightAsset,
		RewardBps:           params.RewardBps,
		HalfLifeSeconds:     params.HalfLifeSeconds,
		Quorum:              params.Quorum,
		DepositLockSeconds:  params.DepositLockSeconds,
		WithdrawLockSeconds: params.WithdrawLockSeconds,
		Alpha:               params.Alpha,
		LastSubmissionTime:  call.Now,
		LastConfigTime:      call.Now,
		Bump:                bump,
		Name:                params.Name,
		Description:         params.Description,
	}

	return &Result{Oracle: o}, nil
}

func validateParams(params core.InitializeParams) error {
	name := params.Name
	if name == "" || len(name) > core.MaxNameLen || !utf8.ValidString(name) {
		return codes.InvalidName
	}

	desc := params.Description
	if len(desc) > core.MaxDescriptionLen || !utf8.ValidString(desc) {
		return codes.InvalidDescription
	}

	return codes.Require(params.RewardBps <= fixed.Denominator, codes.InvalidRewardRate)
}

func (c *Controller) Fund(call Call, amount uint64) (*Result, error) {
	if err := codes.Require(amount > 0, codes.AmountMustBePositive); err != nil {
		return nil, err
	}

	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	o.LastConfigTime = call.Now

	return &Result{
		Oracle:    o,
		Events:    []core.Event{core.Funded{From: call.Signer, Amount: amount}},
		Transfers: []*core.Transfer{core.NewTransfer(core.NativeAsset, call.Signer, call.OracleAddress, amount, "fund")},
	}, nil
}

func (c *Controller) Deposit(call Call, amount uint64) (*Result, error) {
	if err := codes.Require(amount > 0, codes.AmountMustBePositive); err != nil {
		return nil, err
	}

	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	p, err := c.position(call, true)
	if err != nil {
		return nil, err
	}

	if err := stake.Deposit(o, p, amount, call.Now); err != nil {
		return nil, err
	}

	o.LastConfigTime = call.Now

	return &Result{
		Oracle:    o,
		Position:  p,
		Events:    []core.Event{core.TokenDeposited{User: call.Signer, Amount: amount}},
		Transfers: []*core.Transfer{core.NewTransfer(o.WeightAsset, call.Signer, call.OracleAddress, amount, "deposit")},
	}, nil
}

func (c *Controller) Withdraw(call Call, amount uint64) (*Result, error) {
	if err := codes.Require(amount > 0, codes.AmountMustBePositive); err != nil {
		return nil, err
	}

	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	p, err := c.position(call, false)
	if err != nil {
		return nil, err
	}

	if err := stake.Withdraw(o, p, amount, call.Now); err != nil {
		return nil, err
	}

	events, err := governance.UpdateUserVoteWeights(o, p)
	if err != nil {
		return nil, err
	}

	o.LastConfigTime = call.Now

	return &Result{
		Oracle:    o,
		Position:  p,
		Events:    append([]core.Event{core.TokenWithdrawn{User: call.Signer, Amount: amount}}, events...),
		Transfers: []*core.Transfer{core.NewTransfer(o.WeightAsset, call.OracleAddress, call.Signer, amount, "withdraw")},
	}, nil
}

// Submit blends args.Value into the aggregate and pays the submitter.
func (c *Controller) Submit(call Call, args core.InstructionArgs) (*Result, error) {
	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	if err := codes.Require(!o.IsBlacklisted(call.Signer), codes.AccountBlacklisted); err != nil {
		return nil, err
	}

	p, err := c.position(call, false)
	if err != nil {
		return nil, err
	}

	if err := stake.MaybeUnlock(o, p, call.Now); err != nil {
		return nil, err
	}

	if err := codes.Require(p.Weight > 0, codes.NoUnlockedTokens); err != nil {
		return nil, err
	}

	out, err := decay.Combine(decay.Input{
		PrevValue:  o.AggregatedValue,
		PrevWeight: o.AggregatedWeight,
		NewValue:   args.Value,
		NewWeight:  p.Weight,
		Elapsed:    fixed.ElapsedSeconds(call.Now, o.LastSubmissionTime),
		HalfLife:   o.HalfLifeSeconds,
		Alpha:      o.Alpha,
	})
	if err != nil {
		return nil, err
	}

	pool, err := rewardPool(call.Lamports, o.RewardBps)
	if err != nil {
		return nil, err
	}

	reward, err := decay.Reward(
		pool,
		p.Weight,
		fixed.ElapsedSeconds(call.Now, p.LastSubmissionTime),
		out.Weight,
		o.Alpha,
		o.HalfLifeSeconds,
	)
	if err != nil {
		return nil, err
	}

	o.AggregatedValue = out.Value
	o.AggregatedWeight = out.Weight
	o.LatestValue = args.Value
	o.LastSubmissionTime = call.Now
	o.LastConfigTime = call.Now
	o.History.Push(core.PriceRecord{
		Timestamp:       call.Now,
		AggregatedValue: out.Value,
		LatestValue:     args.Value,
	})

	p.LastSubmittedValue = args.Value
	p.LastSubmissionTime = call.Now
	p.LastOperationTimestamp = call.Now

	result := &Result{
		Oracle:   o,
		Position: p,
		Events: []core.Event{core.ValueSubmitted{
			Submitter:       call.Signer,
			Timestamp:       call.Now,
			SubmittedValue:  args.Value,
			AggregatedValue: out.Value,
			Weight:          p.Weight,
			RewardLamports:  reward,
		}},
	}

	if reward > 0 {
		result.Transfers = append(result.Transfers, core.NewTransfer(core.NativeAsset, call.OracleAddress, call.Signer, reward, "reward"))
	}

	return result, nil
}

func rewardPool(lamports, bps uint64) (uint64, error) {
	pool, err := fixed.NewU128(lamports).Mul(fixed.NewU128(bps))
	if err != nil {
		return 0, err
	}

	if pool, err = pool.Div(fixed.NewU128(fixed.Denominator)); err != nil {
		return 0, err
	}

	return pool.Uint64()
}

func (c *Controller) Vote(call Call, target solana.PublicKey, kind core.VoteKind) (*Result, error) {
	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	p, err := c.position(call, false)
	if err != nil {
		return nil, err
	}

	if err := stake.MaybeUnlock(o, p, call.Now); err != nil {
		return nil, err
	}

	events, err := governance.Vote(o, p, target, kind)
	if err != nil {
		return nil, err
	}

	o.LastConfigTime = call.Now

	return &Result{Oracle: o, Position: p, Events: events}, nil
}

func (c *Controller) UpdateUserVoteWeights(call Call) (*Result, error) {
	o, err := c.oracle(call)
	if err != nil {
		return nil, err
	}

	p, err := c.position(call, false)
	if err != nil {
		return nil, err
	}

	if err := stake.MaybeUnlock(o, p, call.Now); err != nil {
		return nil, err
	}

	if p.Weight, err = stake.Weight(p); err != nil {
		return nil, err
	}

	events, err := governance.UpdateUserVoteWeights(o, p)
	if err != nil {
		return nil, err
	}

	o.LastConfigTime = call.Now
	p.LastOperationTimestamp = call.Now

	return &Result{Oracle: o, Position: p, Events: events}, nil
}
