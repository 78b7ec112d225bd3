// Package stake implements time locked staking of an oracle's weight asset.
//
// Deposits land in the locked balance and move to the unlocked balance once
// the oracle's deposit lock has elapsed. Weight is the sum of both balances.
package stake

import (
	"github.com/gagliardetto/solana-go"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/fixed"
)

// NewPosition returns an empty, initialized position of owner in oracle.
func NewPosition(oracle, owner solana.PublicKey, bump uint8) *core.UserPosition {
	return &core.UserPosition{
		Oracle:      oracle,
		Owner:       owner,
		Initialized: true,
		Bump:        bump,
	}
}

// Weight is the voting and submission weight of p.
func Weight(p *core.UserPosition) (uint64, error) {
	return fixed.AddU64(p.LockedStake, p.UnlockedStake)
}

func refreshWeight(p *core.UserPosition) error {
	w, err := Weight(p)
	if err != nil {
		return err
	}

	p.Weight = w
	return nil
}

func depositMatured(o *core.Oracle, p *core.UserPosition, now int64) bool {
	return fixed.ElapsedSeconds(now, p.DepositTimestamp) >= o.DepositLockSeconds
}

// MaybeUnlock moves locked stake to the unlocked balance once the deposit
// lock has elapsed.
func MaybeUnlock(o *core.Oracle, p *core.UserPosition, now int64) error {
	if p.LockedStake == 0 || !depositMatured(o, p, now) {
		return nil
	}

	unlocked, err := fixed.AddU64(p.UnlockedStake, p.LockedStake)
	if err != nil {
		return err
	}

	p.UnlockedStake = unlocked
	p.LockedStake = 0
	return nil
}

// Deposit locks amount of the weight asset for p.Owner.
func Deposit(o *core.Oracle, p *core.UserPosition, amount uint64, now int64) error {
	if err := codes.Require(amount > 0, codes.AmountMustBePositive); err != nil {
		return err
	}

	if err := codes.Require(!o.IsBlacklisted(p.Owner), codes.AccountBlacklisted); err != nil {
		return err
	}

	if err := MaybeUnlock(o, p, now); err != nil {
		return err
	}

	locked, err := fixed.AddU64(p.LockedStake, amount)
	if err != nil {
		return err
	}

	total, err := fixed.AddU64(o.TotalDepositedStake, amount)
	if err != nil {
		return err
	}

	p.LockedStake = locked
	p.DepositTimestamp = now
	p.LastOperationTimestamp = now
	if err := refreshWeight(p); err != nil {
		return err
	}

	o.TotalDepositedStake = total
	return nil
}

// Withdraw releases amount of unlocked stake. Withdrawals are spaced by the
// oracle's withdraw lock.
func Withdraw(o *core.Oracle, p *core.UserPosition, amount uint64, now int64) error {
	if err := codes.Require(amount > 0, codes.AmountMustBePositive); err != nil {
		return err
	}

	if fixed.ElapsedSeconds(now, p.LastOperationTimestamp) < o.WithdrawLockSeconds {
		return codes.WithdrawalLocked
	}

	if err := MaybeUnlock(o, p, now); err != nil {
		return err
	}

	if p.UnlockedStake == 0 {
		if p.LockedStake > 0 {
			return codes.WithdrawalLocked
		}

		return codes.NoUnlockedTokens
	}

	if err := codes.Require(amount <= p.UnlockedStake, codes.InsufficientUnlockedTokens); err != nil {
		return err
	}

	total, err := fixed.SubU64(o.TotalDepositedStake, amount)
	if err != nil {
		return err
	}

	p.UnlockedStake -= amount
	p.LastOperationTimestamp = now
	if err := refreshWeight(p); err != nil {
		return err
	}

	o.TotalDepositedStake = total
	return nil
}
