package core

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"orboracle/pkg/fixed"
)

const (
	MaxHistoryEntries = 128
	MaxTargetRecords  = 64
	MaxUserVotes      = 64
	MaxNameLen        = 64
	MaxDescriptionLen = 256
)

// PriceRecord is one entry of an oracle's value history.
type PriceRecord struct {
	Timestamp       int64      `json:"timestamp"`
	AggregatedValue fixed.I128 `json:"aggregated_value"`
	LatestValue     fixed.I128 `json:"latest_value"`
}

// PriceHistory keeps the latest MaxHistoryEntries records, dropping the oldest.
type PriceHistory struct {
	entries [MaxHistoryEntries]PriceRecord
	head    int
	size    int
}

func (h *PriceHistory) Push(r PriceRecord) {
	idx := (h.head + h.size) % MaxHistoryEntries
	h.entries[idx] = r
	if h.size < MaxHistoryEntries {
		h.size++
		return
	}

	h.head = (h.head + 1) % MaxHistoryEntries
}

func (h *PriceHistory) Len() int { return h.size }

// Records returns the history oldest first.
func (h *PriceHistory) Records() []PriceRecord {
	out := make([]PriceRecord, h.size)
	for i := range out {
		out[i] = h.entries[(h.head+i)%MaxHistoryEntries]
	}

	return out
}

func (h *PriceHistory) Latest() (PriceRecord, bool) {
	if h.size == 0 {
		return PriceRecord{}, false
	}

	return h.entries[(h.head+h.size-1)%MaxHistoryEntries], true
}

// TargetVotes tallies governance votes for one target identity.
type TargetVotes struct {
	Target         solana.PublicKey `json:"target"`
	BlacklistVotes uint64           `json:"blacklist_votes"`
	WhitelistVotes uint64           `json:"whitelist_votes"`
	IsBlacklisted  bool             `json:"is_blacklisted"`
}

// TargetTable is a fixed capacity set of TargetVotes.
type TargetTable struct {
	items [MaxTargetRecords]TargetVotes
	n     int
}

func (t *TargetTable) Len() int { return t.n }

// Index returns the position of target, or -1.
func (t *TargetTable) Index(target solana.PublicKey) int {
	for i := 0; i < t.n; i++ {
		if t.items[i].Target.Equals(target) {
			return i
		}
	}

	return -1
}

// At returns a pointer into the table; it stays valid until the table is copied.
func (t *TargetTable) At(i int) *TargetVotes { return &t.items[i] }

// Append adds a record, reporting false when the table is full.
func (t *TargetTable) Append(v TargetVotes) bool {
	if t.n == MaxTargetRecords {
		return false
	}

	t.items[t.n] = v
	t.n++
	return true
}

func (t *TargetTable) List() []TargetVotes {
	return append([]TargetVotes(nil), t.items[:t.n]...)
}

// Oracle is the on-ledger state of one oracle feed.
type Oracle struct {
	Authority           solana.PublicKey
	WeightAsset         solana.PublicKey
	RewardBps           uint64
	HalfLifeSeconds     uint64
	Quorum              uint64
	DepositLockSeconds  uint64
	WithdrawLockSeconds uint64
	Alpha               uint64
	AggregatedValue     fixed.I128
	LatestValue         fixed.I128
	AggregatedWeight    fixed.U128
	LastSubmissionTime  int64
	LastConfigTime      int64
	TotalDepositedStake uint64
	Bump                uint8
	Name                string
	Description         string
	History             PriceHistory
	Targets             TargetTable
}

// Clone returns an independent copy of o.
func (o *Oracle) Clone() *Oracle {
	c := *o
	return &c
}

// IsBlacklisted reports whether governance has blacklisted key.
func (o *Oracle) IsBlacklisted(key solana.PublicKey) bool {
	if i := o.Targets.Index(key); i >= 0 {
		return o.Targets.At(i).IsBlacklisted
	}

	return false
}

// InitializeParams configures a new oracle.
type InitializeParams struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	RewardBps           uint64 `json:"reward_bps"`
	HalfLifeSeconds     uint64 `json:"half_life_seconds"`
	Quorum              uint64 `json:"quorum"`
	DepositLockSeconds  uint64 `json:"deposit_locking_period"`
	WithdrawLockSeconds uint64 `json:"withdrawal_locking_period"`
	Alpha               uint64 `json:"alpha"`
}

// OracleView is a read model of an oracle and its balances.
type OracleView struct {
	Address solana.PublicKey `json:"address"`
	Oracle  *Oracle          `json:"-"`
	Pool    uint64           `json:"pool"`
	Vault   uint64           `json:"vault"`
}

// IOracleService applies instructions and serves read queries.
type IOracleService interface {
	Execute(ctx context.Context, ins *Instruction) (*Execution, error)
	FindOracle(ctx context.Context, address solana.PublicKey) (*OracleView, error)
	FindPosition(ctx context.Context, address solana.PublicKey) (*UserPosition, error)
	ListOracles(ctx context.Context) ([]*OracleView, error)
}
