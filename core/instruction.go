package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/lib/pq"
	"orboracle/pkg/fixed"
)

// InstructionKind names an oracle program instruction.
type InstructionKind string

const (
	InsInitialize            InstructionKind = "initialize"
	InsFund                  InstructionKind = "fund"
	InsDepositTokens         InstructionKind = "deposit_tokens"
	InsWithdrawTokens        InstructionKind = "withdraw_tokens"
	InsSubmitValue           InstructionKind = "submit_value"
	InsUpdateUserVoteWeights InstructionKind = "update_user_vote_weights"
	InsVoteBlacklist         InstructionKind = "vote_blacklist"
	InsVoteWhitelist         InstructionKind = "vote_whitelist"
)

// InstructionKinds lists every instruction in program order.
var InstructionKinds = []InstructionKind{
	InsInitialize,
	InsFund,
	InsDepositTokens,
	InsWithdrawTokens,
	InsSubmitValue,
	InsUpdateUserVoteWeights,
	InsVoteBlacklist,
	InsVoteWhitelist,
}

// InstructionArgs carries the decoded arguments of an instruction; only the
// fields used by Kind are set.
type InstructionArgs struct {
	Kind   InstructionKind
	Params InitializeParams
	Amount uint64
	Value  fixed.I128
	Target solana.PublicKey
}

// Account positions inside Instruction.Accounts.
const (
	AccountSigner = iota
	AccountOracle
	AccountPosition
	AccountWeightAsset
	accountCount
)

// InstructionAccounts are the accounts an instruction references.
type InstructionAccounts struct {
	Signer      solana.PublicKey
	Oracle      solana.PublicKey
	Position    solana.PublicKey
	WeightAsset solana.PublicKey
}

func (a InstructionAccounts) Keys() []solana.PublicKey {
	return []solana.PublicKey{a.Signer, a.Oracle, a.Position, a.WeightAsset}
}

func (a InstructionAccounts) Strings() pq.StringArray {
	keys := a.Keys()
	out := make(pq.StringArray, len(keys))
	for i, k := range keys {
		if !k.IsZero() {
			out[i] = k.String()
		}
	}

	return out
}

// ParseInstructionAccounts is the inverse of InstructionAccounts.Strings.
func ParseInstructionAccounts(values []string) (InstructionAccounts, error) {
	var keys [accountCount]solana.PublicKey
	for i := 0; i < len(values) && i < accountCount; i++ {
		if values[i] == "" {
			continue
		}

		k, err := solana.PublicKeyFromBase58(values[i])
		if err != nil {
			return InstructionAccounts{}, err
		}
		keys[i] = k
	}

	return InstructionAccounts{
		Signer:      keys[AccountSigner],
		Oracle:      keys[AccountOracle],
		Position:    keys[AccountPosition],
		WeightAsset: keys[AccountWeightAsset],
	}, nil
}

// InstructionStatus tracks an instruction through the processor.
type InstructionStatus int

const (
	InstructionPending InstructionStatus = iota
	InstructionDone
	InstructionFailed
	InstructionRejected
)

func (s InstructionStatus) String() string {
	switch s {
	case InstructionPending:
		return "pending"
	case InstructionDone:
		return "done"
	case InstructionFailed:
		return "failed"
	case InstructionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Instruction is a signed instruction queued for the processor.
type Instruction struct {
	ID          int64             `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt   time.Time         `json:"created_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at,omitempty"`
	Version     int64             `json:"version,omitempty"`
	TraceID     string            `sql:"size:36" json:"trace_id,omitempty"`
	Program     string            `sql:"size:44" json:"program,omitempty"`
	Kind        InstructionKind   `sql:"size:32" json:"kind,omitempty"`
	Accounts    pq.StringArray    `sql:"type:varchar(256)" json:"accounts,omitempty"`
	Data        []byte            `json:"data,omitempty"`
	Signature   string            `sql:"size:88" json:"signature,omitempty"`
	Timestamp   int64             `json:"timestamp,omitempty"`
	Status      InstructionStatus `json:"status,omitempty"`
	ErrorCode   int               `json:"error_code,omitempty"`
	ErrorMsg    string            `sql:"size:256" json:"error_msg,omitempty"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// InstructionError is returned once an instruction has been recorded as
// failed or rejected. Retrying it changes nothing.
type InstructionError struct {
	Status InstructionStatus
	Err    error
}

func (e *InstructionError) Error() string {
	return e.Status.String() + ": " + e.Err.Error()
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// Execution is the outcome of a successfully applied instruction.
type Execution struct {
	Instruction *Instruction
	Oracle      solana.PublicKey
	Events      []Event
	Transfers   []*Transfer
}

// IInstructionStore instruction store interface
type IInstructionStore interface {
	Create(ctx context.Context, ins *Instruction) error
	Find(ctx context.Context, traceID string) (*Instruction, bool, error)
	Update(ctx context.Context, tx *db.DB, ins *Instruction, version int64) error
	List(ctx context.Context, fromID int64, limit int) ([]*Instruction, error)
}
