package oracle

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fox-one/pkg/store/db"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/layout"
	"orboracle/pkg/oracle"
	"orboracle/pkg/pda"
	"orboracle/store/account"
	"orboracle/store/balance"
	"orboracle/store/event"
	"orboracle/store/instruction"
)

type fixture struct {
	db           *db.DB
	svc          *Service
	accounts     core.IAccountStore
	vault        core.IVault
	events       core.IEventStore
	instructions core.IInstructionStore

	authority solana.PrivateKey
	user      solana.PrivateKey
	mint      solana.PublicKey
	address   solana.PublicKey
	position  solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	conn, err := db.Open(db.Config{
		Dialect: "sqlite3",
		Host:    filepath.Join(t.TempDir(), "oracle.db"),
	})
	require.Nil(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Nil(t, db.Migrate(conn))

	f := &fixture{
		db:           conn,
		accounts:     account.New(conn),
		vault:        balance.New(conn),
		events:       event.New(conn),
		instructions: instruction.New(conn),
		authority:    solana.NewWallet().PrivateKey,
		user:         solana.NewWallet().PrivateKey,
		mint:         solana.NewWallet().PublicKey(),
	}

	f.svc = New(oracle.New(pda.DefaultProgramID), conn, f.accounts, f.vault, f.events, f.instructions)
	f.svc.clock = func() time.Time { return time.Unix(1_700_000_000, 0) }

	f.address = pda.MustOracleAddress(pda.DefaultProgramID, f.authority.PublicKey(), f.mint)
	f.position = pda.MustPositionAddress(pda.DefaultProgramID, f.address, f.user.PublicKey())
	return f
}

// setup creates the oracle and gives the user credit weight tokens.
func (f *fixture) setup(t *testing.T, credit uint64) {
	ins := f.enqueue(t, f.authority, core.InstructionAccounts{
		Signer:      f.authority.PublicKey(),
		Oracle:      f.address,
		WeightAsset: f.mint,
	}, core.InstructionArgs{
		Kind: core.InsInitialize,
		Params: core.InitializeParams{
			Name:                "SOL/USD",
			RewardBps:           500,
			HalfLifeSeconds:     3600,
			Quorum:              100,
			DepositLockSeconds:  60,
			WithdrawLockSeconds: 30,
			Alpha:               1,
		},
	})
	_, err := f.svc.Execute(context.Background(), ins)
	require.Nil(t, err)

	err = f.db.Tx(func(tx *db.DB) error {
		return f.vault.Credit(context.Background(), tx, f.user.PublicKey(), f.mint, credit)
	})
	require.Nil(t, err)
}

func (f *fixture) enqueue(t *testing.T, signer solana.PrivateKey, accounts core.InstructionAccounts, args core.InstructionArgs) *core.Instruction {
	ins, err := layout.SignInstruction(pda.DefaultProgramID, signer, accounts, args, uuidutil.New())
	require.Nil(t, err)
	require.Nil(t, f.instructions.Create(context.Background(), ins))
	return ins
}

func (f *fixture) userAccounts() core.InstructionAccounts {
	return core.InstructionAccounts{
		Signer:      f.user.PublicKey(),
		Oracle:      f.address,
		Position:    f.position,
		WeightAsset: f.mint,
	}
}

func (f *fixture) stored(t *testing.T, traceID string) *core.Instruction {
	ins, _, err := f.instructions.Find(context.Background(), traceID)
	require.Nil(t, err)
	return ins
}

func (f *fixture) balance(t *testing.T, owner solana.PublicKey) uint64 {
	amount, err := f.vault.Balance(context.Background(), owner, f.mint)
	require.Nil(t, err)
	return amount
}

func (f *fixture) traceEvents(t *testing.T, traceID string) []*core.EventLog {
	logs, err := f.events.List(context.Background(), f.address.String(), 0, 100)
	require.Nil(t, err)

	var out []*core.EventLog
	for _, log := range logs {
		if log.TraceID == traceID {
			out = append(out, log)
		}
	}

	return out
}

func TestExecuteDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setup(t, 1000)

	ins := f.enqueue(t, f.user, f.userAccounts(), core.InstructionArgs{Kind: core.InsDepositTokens, Amount: 400})
	exec, err := f.svc.Execute(ctx, ins)
	require.Nil(t, err)
	require.Len(t, exec.Transfers, 1)
	assert.Equal(t, core.InstructionDone, ins.Status)
	assert.EqualValues(t, 1, ins.Version)

	stored := f.stored(t, ins.TraceID)
	assert.Equal(t, core.InstructionDone, stored.Status)
	assert.EqualValues(t, 1_700_000_000, stored.Timestamp)
	assert.NotNil(t, stored.ProcessedAt)

	assert.EqualValues(t, 600, f.balance(t, f.user.PublicKey()))
	assert.EqualValues(t, 400, f.balance(t, f.address))

	p, err := f.svc.FindPosition(ctx, f.position)
	require.Nil(t, err)
	assert.EqualValues(t, 400, p.LockedStake+p.UnlockedStake)
	assert.True(t, p.Owner.Equals(f.user.PublicKey()))

	view, err := f.svc.FindOracle(ctx, f.address)
	require.Nil(t, err)
	assert.EqualValues(t, 400, view.Oracle.TotalDepositedStake)
	assert.EqualValues(t, 400, view.Vault)

	logs := f.traceEvents(t, ins.TraceID)
	require.Len(t, logs, 1)
	assert.Equal(t, "TokenDeposited", logs[0].Name)

	transfers, err := f.vault.ListTransfers(ctx, 0, 10)
	require.Nil(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, uuidutil.Modify(ins.TraceID, "transfer:0"), transfers[0].TraceID)
}

func TestExecuteTerminalFailures(t *testing.T) {
	tests := []struct {
		name   string
		args   core.InstructionArgs
		tamper bool
		status core.InstructionStatus
		code   codes.ErrorCode
		msg    string
	}{
		{
			name:   "zero deposit",
			args:   core.InstructionArgs{Kind: core.InsDepositTokens},
			status: core.InstructionFailed,
			code:   codes.AmountMustBePositive,
		},
		{
			name:   "withdraw without position",
			args:   core.InstructionArgs{Kind: core.InsWithdrawTokens, Amount: 10},
			status: core.InstructionFailed,
			code:   codes.NoUnlockedTokens,
		},
		{
			name:   "deposit above balance",
			args:   core.InstructionArgs{Kind: core.InsDepositTokens, Amount: 5000},
			status: core.InstructionFailed,
			msg:    "insufficient balance",
		},
		{
			name:   "bad signature",
			args:   core.InstructionArgs{Kind: core.InsDepositTokens, Amount: 400},
			tamper: true,
			status: core.InstructionRejected,
			msg:    "instruction rejected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.setup(t, 1000)

			ins, err := layout.SignInstruction(pda.DefaultProgramID, f.user, f.userAccounts(), tt.args, uuidutil.New())
			require.Nil(t, err)
			if tt.tamper {
				ins.Data[len(ins.Data)-1] ^= 1
			}
			require.Nil(t, f.instructions.Create(ctx, ins))

			_, err = f.svc.Execute(ctx, ins)
			var insErr *core.InstructionError
			require.True(t, errors.As(err, &insErr), "error %v", err)
			assert.Equal(t, tt.status, insErr.Status)
			assert.Equal(t, tt.status, ins.Status)

			stored := f.stored(t, ins.TraceID)
			assert.Equal(t, tt.status, stored.Status)
			assert.Equal(t, int(tt.code), stored.ErrorCode)
			assert.Contains(t, stored.ErrorMsg, tt.msg)

			// nothing but the instruction status is written
			_, notFound, _ := f.accounts.Find(ctx, f.position.String())
			assert.True(t, notFound)
			assert.EqualValues(t, 1000, f.balance(t, f.user.PublicKey()))
			assert.EqualValues(t, 0, f.balance(t, f.address))
			assert.Empty(t, f.traceEvents(t, ins.TraceID))

			transfers, err := f.vault.ListTransfers(ctx, 0, 10)
			require.Nil(t, err)
			assert.Empty(t, transfers)

			// the queue is not blocked by the failure
			next := f.enqueue(t, f.user, f.userAccounts(), core.InstructionArgs{Kind: core.InsDepositTokens, Amount: 100})
			_, err = f.svc.Execute(ctx, next)
			require.Nil(t, err)
			assert.EqualValues(t, 900, f.balance(t, f.user.PublicKey()))
		})
	}
}

func TestExecuteRejectedIsErrRejected(t *testing.T) {
	f := newFixture(t)

	ins, err := layout.SignInstruction(pda.DefaultProgramID, f.user, f.userAccounts(), core.InstructionArgs{
		Kind:   core.InsDepositTokens,
		Amount: 1,
	}, uuidutil.New())
	require.Nil(t, err)
	ins.Signature = solana.Signature{}.String()
	require.Nil(t, f.instructions.Create(context.Background(), ins))

	_, err = f.svc.Execute(context.Background(), ins)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.Equal(t, core.InstructionRejected, f.stored(t, ins.TraceID).Status)
}
