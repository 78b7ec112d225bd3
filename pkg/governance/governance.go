// Package governance tallies stake weighted blacklist and whitelist votes.
package governance

import (
	"github.com/gagliardetto/solana-go"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/fixed"
)

// Vote records p's vote of the given kind on target, weighted by p.Weight.
// Status changes of the target are returned as events.
func Vote(o *core.Oracle, p *core.UserPosition, target solana.PublicKey, kind core.VoteKind) ([]core.Event, error) {
	if err := codes.Require(!o.IsBlacklisted(p.Owner), codes.AccountBlacklisted); err != nil {
		return nil, err
	}

	weight := p.Weight
	if err := codes.Require(weight > 0, codes.NoUnlockedTokens); err != nil {
		return nil, err
	}

	votes := p.Votes(kind)
	if err := codes.Require(!votes.Contains(target), codes.AlreadyVoted); err != nil {
		return nil, err
	}

	if err := codes.Require(votes.Len() < core.MaxUserVotes, codes.TooManyVotes); err != nil {
		return nil, err
	}

	record, err := upsertTarget(o, target)
	if err != nil {
		return nil, err
	}

	tally := &record.WhitelistVotes
	if kind == core.VoteBlacklist {
		tally = &record.BlacklistVotes
	}

	sum, err := fixed.AddU64(*tally, weight)
	if err != nil {
		return nil, err
	}

	*tally = sum
	votes.Append(core.UserVote{Target: target, Weight: weight})

	events := []core.Event{core.Voted{
		Target:      target,
		Voter:       p.Owner,
		IsBlacklist: kind == core.VoteBlacklist,
		Weight:      weight,
	}}

	changed, err := refreshStatus(o, record)
	if err != nil {
		return nil, err
	}

	if changed {
		events = append(events, core.BlacklistStatusChanged{Target: target, IsBlacklisted: record.IsBlacklisted})
	}

	return events, nil
}

// UpdateUserVoteWeights moves every vote p has cast to p's current weight.
// Running it twice without a weight change leaves the tallies untouched.
func UpdateUserVoteWeights(o *core.Oracle, p *core.UserPosition) ([]core.Event, error) {
	var events []core.Event

	for _, kind := range []core.VoteKind{core.VoteBlacklist, core.VoteWhitelist} {
		votes := p.Votes(kind)
		for i := 0; i < votes.Len(); i++ {
			vote := votes.At(i)
			if vote.Weight == p.Weight {
				continue
			}

			record, err := upsertTarget(o, vote.Target)
			if err != nil {
				return nil, err
			}

			tally := &record.WhitelistVotes
			if kind == core.VoteBlacklist {
				tally = &record.BlacklistVotes
			}

			next, err := fixed.SubU64(*tally, vote.Weight)
			if err != nil {
				return nil, err
			}

			if next, err = fixed.AddU64(next, p.Weight); err != nil {
				return nil, err
			}

			*tally = next
			vote.Weight = p.Weight

			changed, err := refreshStatus(o, record)
			if err != nil {
				return nil, err
			}

			if changed {
				events = append(events, core.BlacklistStatusChanged{Target: vote.Target, IsBlacklisted: true})
			}
		}
	}

	return events, nil
}

func upsertTarget(o *core.Oracle, target solana.PublicKey) (*core.TargetVotes, error) {
	if i := o.Targets.Index(target); i >= 0 {
		return o.Targets.At(i), nil
	}

	if !o.Targets.Append(core.TargetVotes{Target: target}) {
		return nil, codes.TooManyTargets
	}

	return o.Targets.At(o.Targets.Len() - 1), nil
}

// refreshStatus blacklists t once blacklist votes lead the whitelist and
// exceed quorum/Denominator of the total deposited stake. Status is
// monotonic: a blacklisted target is never restored.
func refreshStatus(o *core.Oracle, t *core.TargetVotes) (bool, error) {
	if t.IsBlacklisted || t.BlacklistVotes <= t.WhitelistVotes {
		return false, nil
	}

	votes, err := fixed.NewU128(t.BlacklistVotes).Mul(fixed.NewU128(fixed.Denominator))
	if err != nil {
		return false, err
	}

	threshold, err := fixed.NewU128(o.Quorum).Mul(fixed.NewU128(o.TotalDepositedStake))
	if err != nil {
		return false, err
	}

	if votes.Cmp(threshold) <= 0 {
		return false, nil
	}

	t.IsBlacklisted = true
	return true, nil
}
