package governance

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/core"
	"orboracle/pkg/codes"
	"pgregory.net/rapid"
)

func staked(o *core.Oracle, weight uint64) *core.UserPosition {
	o.TotalDepositedStake += weight
	return &core.UserPosition{
		Owner:         solana.NewWallet().PublicKey(),
		UnlockedStake: weight,
		Weight:        weight,
		Initialized:   true,
	}
}

func TestVoteWhitelist(t *testing.T) {
	o := &core.Oracle{Quorum: 100}
	p := staked(o, 1_000_000)
	target := solana.NewWallet().PublicKey()

	events, err := Vote(o, p, target, core.VoteWhitelist)
	require.Nil(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, core.Voted{Target: target, Voter: p.Owner, Weight: 1_000_000}, events[0])

	require.Equal(t, 1, o.Targets.Len())
	record := o.Targets.At(0)
	assert.EqualValues(t, 1_000_000, record.WhitelistVotes)
	assert.False(t, record.IsBlacklisted)

	_, err = Vote(o, p, target, core.VoteWhitelist)
	assert.Equal(t, codes.AlreadyVoted, err)

	_, err = Vote(o, p, target, core.VoteBlacklist)
	assert.Nil(t, err, "the other kind is a separate vote")
}

func TestVoteBlacklistQuorum(t *testing.T) {
	o := &core.Oracle{Quorum: 50_000}
	alice := staked(o, 600)
	bob := staked(o, 400)
	target := solana.NewWallet().PublicKey()

	events, err := Vote(o, bob, target, core.VoteBlacklist)
	require.Nil(t, err)
	assert.Len(t, events, 1, "40% of stake is below a 50% quorum")
	assert.False(t, o.IsBlacklisted(target))

	events, err = Vote(o, alice, target, core.VoteBlacklist)
	require.Nil(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, core.BlacklistStatusChanged{Target: target, IsBlacklisted: true}, events[1])
	assert.True(t, o.IsBlacklisted(target))
}

func TestWhitelistBlocksFlip(t *testing.T) {
	o := &core.Oracle{Quorum: 100}
	alice := staked(o, 500)
	bob := staked(o, 500)
	target := solana.NewWallet().PublicKey()

	_, err := Vote(o, alice, target, core.VoteWhitelist)
	require.Nil(t, err)

	_, err = Vote(o, bob, target, core.VoteBlacklist)
	require.Nil(t, err)
	assert.False(t, o.IsBlacklisted(target), "blacklist must lead the whitelist")
}

// Assumed behavior: once blacklisted a target stays blacklisted, whatever
// whitelist weight arrives later.
func TestBlacklistIsMonotonic(t *testing.T) {
	o := &core.Oracle{Quorum: 100}
	alice := staked(o, 100)
	target := solana.NewWallet().PublicKey()

	_, err := Vote(o, alice, target, core.VoteBlacklist)
	require.Nil(t, err)
	require.True(t, o.IsBlacklisted(target))

	whale := staked(o, 1_000_000)
	_, err = Vote(o, whale, target, core.VoteWhitelist)
	require.Nil(t, err)
	assert.True(t, o.IsBlacklisted(target))

	alice.Weight = 0
	_, err = UpdateUserVoteWeights(o, alice)
	require.Nil(t, err)
	assert.True(t, o.IsBlacklisted(target))
}

func TestVoteGuards(t *testing.T) {
	t.Run("zero weight", func(t *testing.T) {
		o := &core.Oracle{}
		_, err := Vote(o, staked(o, 0), solana.NewWallet().PublicKey(), core.VoteBlacklist)
		assert.Equal(t, codes.NoUnlockedTokens, err)
	})

	t.Run("blacklisted voter", func(t *testing.T) {
		o := &core.Oracle{}
		p := staked(o, 10)
		o.Targets.Append(core.TargetVotes{Target: p.Owner, IsBlacklisted: true})
		_, err := Vote(o, p, solana.NewWallet().PublicKey(), core.VoteWhitelist)
		assert.Equal(t, codes.AccountBlacklisted, err)
	})

	t.Run("too many votes", func(t *testing.T) {
		o := &core.Oracle{Quorum: 100_000}
		p := staked(o, 10)
		for i := 0; i < core.MaxUserVotes; i++ {
			_, err := Vote(o, p, solana.NewWallet().PublicKey(), core.VoteWhitelist)
			require.Nil(t, err)
		}

		_, err := Vote(o, p, solana.NewWallet().PublicKey(), core.VoteWhitelist)
		assert.Equal(t, codes.TooManyVotes, err)
	})

	t.Run("too many targets", func(t *testing.T) {
		o := &core.Oracle{}
		for i := 0; i < core.MaxTargetRecords; i++ {
			o.Targets.Append(core.TargetVotes{Target: solana.NewWallet().PublicKey()})
		}

		p := staked(o, 10)
		_, err := Vote(o, p, solana.NewWallet().PublicKey(), core.VoteWhitelist)
		assert.Equal(t, codes.TooManyTargets, err)
		assert.Equal(t, 0, p.WhitelistVotes.Len())

		existing := o.Targets.At(3).Target
		_, err = Vote(o, p, existing, core.VoteWhitelist)
		assert.Nil(t, err, "known targets do not need a new slot")
	})
}

func TestUpdateUserVoteWeights(t *testing.T) {
	o := &core.Oracle{Quorum: 100_000}
	p := staked(o, 1_000)
	a, b := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()

	_, err := Vote(o, p, a, core.VoteWhitelist)
	require.Nil(t, err)
	_, err = Vote(o, p, b, core.VoteBlacklist)
	require.Nil(t, err)

	p.Weight = 250
	_, err = UpdateUserVoteWeights(o, p)
	require.Nil(t, err)

	assert.EqualValues(t, 250, o.Targets.At(o.Targets.Index(a)).WhitelistVotes)
	assert.EqualValues(t, 250, o.Targets.At(o.Targets.Index(b)).BlacklistVotes)
	assert.EqualValues(t, 250, p.WhitelistVotes.At(0).Weight)
}

func TestUpdateUserVoteWeightsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		o := &core.Oracle{Quorum: rapid.Uint64Range(0, 100_000).Draw(t, "quorum")}
		voters := make([]*core.UserPosition, rapid.IntRange(1, 4).Draw(t, "voters"))
		for i := range voters {
			voters[i] = staked(o, rapid.Uint64Range(1, 1_000_000).Draw(t, "stake"))
		}

		targets := []solana.PublicKey{{1}, {2}, {3}}
		for i := rapid.IntRange(0, 12).Draw(t, "votes"); i > 0; i-- {
			p := voters[rapid.IntRange(0, len(voters)-1).Draw(t, "voter")]
			target := targets[rapid.IntRange(0, len(targets)-1).Draw(t, "target")]
			kind := core.VoteKind(rapid.IntRange(0, 1).Draw(t, "kind"))
			_, _ = Vote(o, p, target, kind)
		}

		p := voters[0]
		p.Weight = rapid.Uint64Range(0, 1_000_000).Draw(t, "new_weight")

		if _, err := UpdateUserVoteWeights(o, p); err != nil {
			t.Fatalf("first update: %v", err)
		}
		first := o.Targets.List()

		if _, err := UpdateUserVoteWeights(o, p); err != nil {
			t.Fatalf("second update: %v", err)
		}

		second := o.Targets.List()
		if len(first) != len(second) {
			t.Fatalf("target count changed")
		}

		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("tallies changed: %+v != %+v", first[i], second[i])
			}
		}
	})
}

func TestUpdateWeightsRejectsShortTally(t *testing.T) {
	o := &core.Oracle{Quorum: 100_000}
	p := staked(o, 500)
	target := solana.NewWallet().PublicKey()

	_, err := Vote(o, p, target, core.VoteWhitelist)
	require.Nil(t, err)

	o.Targets.At(o.Targets.Index(target)).WhitelistVotes = 100
	p.Weight = 200
	_, err = UpdateUserVoteWeights(o, p)
	assert.Equal(t, codes.MathUnderflow, err)
}
