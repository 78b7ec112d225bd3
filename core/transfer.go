package core

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned when a transfer exceeds the sender's balance.
var ErrInsufficientBalance = errors.New("vault: insufficient balance")

// NativeAsset keys lamport balances in the vault ledger.
var NativeAsset = solana.SystemProgramID

// Balance is the holding of one asset by one owner.
type Balance struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Version   int64           `json:"version,omitempty"`
	Owner     string          `sql:"size:44" json:"owner,omitempty"`
	Asset     string          `sql:"size:44" json:"asset,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(24,0)" json:"amount,omitempty"`
}

// Transfer transfer struct
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	TraceID   string          `sql:"size:36" json:"trace_id,omitempty"`
	Asset     string          `sql:"size:44" json:"asset,omitempty"`
	From      string          `sql:"size:44" json:"from,omitempty"`
	To        string          `sql:"size:44" json:"to,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(24,0)" json:"amount,omitempty"`
	Memo      string          `sql:"size:140" json:"memo,omitempty"`
}

// NewTransfer moves amount of asset from one owner to another.
func NewTransfer(asset, from, to solana.PublicKey, amount uint64, memo string) *Transfer {
	return &Transfer{
		Asset:  asset.String(),
		From:   from.String(),
		To:     to.String(),
		Amount: AmountToDecimal(amount),
		Memo:   memo,
	}
}

func AmountToDecimal(amount uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
}

// IVault is the asset ledger backing stake vaults and reward pools.
type IVault interface {
	Balance(ctx context.Context, owner, asset solana.PublicKey) (uint64, error)
	Credit(ctx context.Context, tx *db.DB, owner, asset solana.PublicKey, amount uint64) error
	// Apply executes transfers in order, failing on any insufficient balance.
	Apply(ctx context.Context, tx *db.DB, transfers ...*Transfer) error
	ListTransfers(ctx context.Context, fromID uint64, limit int) ([]*Transfer, error)
}
