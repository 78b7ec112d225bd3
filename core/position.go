package core

import (
	"github.com/gagliardetto/solana-go"
	"orboracle/pkg/fixed"
)

// UserVote is a vote cast with the voter's weight at that time.
type UserVote struct {
	Target solana.PublicKey `json:"target"`
	Weight uint64           `json:"weight"`
}

// VoteList is a fixed capacity sequence of votes of one kind.
type VoteList struct {
	items [MaxUserVotes]UserVote
	n     int
}

func (l *VoteList) Len() int { return l.n }

func (l *VoteList) At(i int) *UserVote { return &l.items[i] }

func (l *VoteList) Contains(target solana.PublicKey) bool {
	for i := 0; i < l.n; i++ {
		if l.items[i].Target.Equals(target) {
			return true
		}
	}

	return false
}

// Append adds a vote, reporting false when the list is full.
func (l *VoteList) Append(v UserVote) bool {
	if l.n == MaxUserVotes {
		return false
	}

	l.items[l.n] = v
	l.n++
	return true
}

func (l *VoteList) List() []UserVote {
	return append([]UserVote(nil), l.items[:l.n]...)
}

// UserPosition is a user's stake and voting record in one oracle.
type UserPosition struct {
	Oracle                 solana.PublicKey
	Owner                  solana.PublicKey
	LockedStake            uint64
	UnlockedStake          uint64
	DepositTimestamp       int64
	LastOperationTimestamp int64
	LastSubmissionTime     int64
	LastSubmittedValue     fixed.I128
	Weight                 uint64
	Initialized            bool
	Bump                   uint8
	BlacklistVotes         VoteList
	WhitelistVotes         VoteList
}

func (p *UserPosition) Clone() *UserPosition {
	c := *p
	return &c
}

// Votes returns the vote list for kind.
func (p *UserPosition) Votes(kind VoteKind) *VoteList {
	if kind == VoteBlacklist {
		return &p.BlacklistVotes
	}

	return &p.WhitelistVotes
}

// VoteKind selects blacklist or whitelist voting.
type VoteKind uint8

const (
	VoteBlacklist VoteKind = iota
	VoteWhitelist
)

func (k VoteKind) String() string {
	if k == VoteBlacklist {
		return "blacklist"
	}

	return "whitelist"
}
