package feeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/core"
	"orboracle/pkg/layout"
	"orboracle/pkg/pda"
)

type fixedTicker struct {
	price string
}

func (f fixedTicker) PullPriceTicker(ctx context.Context, symbol string, t time.Time) (*core.PriceTicker, error) {
	if f.price == "" {
		return nil, errors.New("no price")
	}

	return &core.PriceTicker{Symbol: symbol, Price: decimal.RequireFromString(f.price)}, nil
}

type queue struct {
	list []*core.Instruction
}

func (q *queue) Create(ctx context.Context, ins *core.Instruction) error {
	for _, v := range q.list {
		if v.TraceID == ins.TraceID {
			return nil
		}
	}

	q.list = append(q.list, ins)
	return nil
}

func (q *queue) Find(ctx context.Context, traceID string) (*core.Instruction, bool, error) {
	return nil, true, errors.New("not found")
}

func (q *queue) Update(ctx context.Context, tx *db.DB, ins *core.Instruction, version int64) error {
	return nil
}

func (q *queue) List(ctx context.Context, fromID int64, limit int) ([]*core.Instruction, error) {
	return q.list, nil
}

func TestFeederQueuesSignedSubmit(t *testing.T) {
	ctx := context.Background()
	program := pda.DefaultProgramID
	oracle := solana.NewWallet().PublicKey()
	key, err := solana.NewRandomPrivateKey()
	require.Nil(t, err)

	q := &queue{}
	f, err := New("UTC", program, key, core.Feeder{
		Oracle:   oracle.String(),
		Symbol:   "SOL",
		Decimals: 6,
		Schedule: "@every 1m",
	}, fixedTicker{price: "150.1234567"}, q)
	require.Nil(t, err)
	f.clock = func() time.Time { return time.Unix(1_700_000_000, 0) }

	require.Nil(t, f.onWork(ctx))
	require.Nil(t, f.onWork(ctx), "same tick")
	require.Len(t, q.list, 1)

	accounts, args, err := layout.VerifyInstruction(program, q.list[0])
	require.Nil(t, err)
	assert.Equal(t, core.InsSubmitValue, args.Kind)
	assert.Equal(t, "150123456", args.Value.String())
	assert.Equal(t, key.PublicKey(), accounts.Signer)
	assert.Equal(t, pda.MustPositionAddress(program, oracle, key.PublicKey()), accounts.Position)

	f.tickers = fixedTicker{}
	assert.NotNil(t, f.onWork(ctx))
}
