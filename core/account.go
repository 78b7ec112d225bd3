package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// AccountKind identifies the record type stored in an account.
type AccountKind string

const (
	AccountKindOracle   AccountKind = "oracle"
	AccountKindPosition AccountKind = "position"
)

// Account is a program-owned account holding an encoded record.
type Account struct {
	ID        int64       `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
	Version   int64       `json:"version,omitempty"`
	Address   string      `sql:"size:44" json:"address,omitempty"`
	Kind      AccountKind `sql:"size:16" json:"kind,omitempty"`
	// Oracle is the oracle address for positions and the account itself for oracles.
	Oracle string `sql:"size:44" json:"oracle,omitempty"`
	// Owner is the oracle authority or the position owner.
	Owner string `sql:"size:44" json:"owner,omitempty"`
	Data  []byte `json:"data,omitempty"`
}

// IAccountStore account store interface
type IAccountStore interface {
	Find(ctx context.Context, address string) (*Account, bool, error)
	// Save creates the account when ID is zero, otherwise updates it
	// guarded by Version.
	Save(ctx context.Context, tx *db.DB, account *Account) error
	ListByKind(ctx context.Context, kind AccountKind, fromID int64, limit int) ([]*Account, error)
	ListPositions(ctx context.Context, oracle string) ([]*Account, error)
}
