package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/jmoiron/sqlx/types"
	"orboracle/pkg/fixed"
)

// Event is a notification emitted by a successful instruction.
type Event interface {
	EventName() string
}

type (
	ValueSubmitted struct {
		Submitter       solana.PublicKey `json:"submitter"`
		Timestamp       int64            `json:"timestamp"`
		SubmittedValue  fixed.I128       `json:"submitted_value"`
		AggregatedValue fixed.I128       `json:"aggregated_value"`
		Weight          uint64           `json:"weight"`
		RewardLamports  uint64           `json:"reward_lamports"`
	}

	Funded struct {
		From   solana.PublicKey `json:"from"`
		Amount uint64           `json:"amount"`
	}

	TokenDeposited struct {
		User   solana.PublicKey `json:"user"`
		Amount uint64           `json:"amount"`
	}

	TokenWithdrawn struct {
		User   solana.PublicKey `json:"user"`
		Amount uint64           `json:"amount"`
	}

	Voted struct {
		Target      solana.PublicKey `json:"target"`
		Voter       solana.PublicKey `json:"voter"`
		IsBlacklist bool             `json:"is_blacklist"`
		Weight      uint64           `json:"weight"`
	}

	BlacklistStatusChanged struct {
		Target        solana.PublicKey `json:"target"`
		IsBlacklisted bool             `json:"is_blacklisted"`
	}
)

func (ValueSubmitted) EventName() string         { return "ValueSubmitted" }
func (Funded) EventName() string                 { return "Funded" }
func (TokenDeposited) EventName() string         { return "TokenDeposited" }
func (TokenWithdrawn) EventName() string         { return "TokenWithdrawn" }
func (Voted) EventName() string                  { return "Voted" }
func (BlacklistStatusChanged) EventName() string { return "BlacklistStatusChanged" }

// EventLog is a persisted event, published to subscribers by the notifier.
type EventLog struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	TraceID   string         `sql:"size:36" json:"trace_id,omitempty"`
	Seq       int            `json:"seq,omitempty"`
	Oracle    string         `sql:"size:44" json:"oracle,omitempty"`
	Name      string         `sql:"size:32" json:"name,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	Raw       []byte         `json:"raw,omitempty"`
	Published bool           `json:"published,omitempty"`
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, logs ...*EventLog) error
	ListPending(ctx context.Context, limit int) ([]*EventLog, error)
	MarkPublished(ctx context.Context, ids ...int64) error
	List(ctx context.Context, oracle string, fromID int64, limit int) ([]*EventLog, error)
}
