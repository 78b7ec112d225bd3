// Package oracle applies oracle program instructions to ledger records.
//
// Every operation works on copies of the records it is given and returns
// the new records in a Result. On failure nothing is returned, so callers
// never observe a partially applied instruction.
package oracle

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/pda"
	"orboracle/pkg/stake"
)

// ErrAlreadyInitialized is returned when initializing an existing oracle.
var ErrAlreadyInitialized = errors.New("oracle: account already initialized")

// Call describes the accounts and clock an instruction executes against.
type Call struct {
	Signer          solana.PublicKey
	Now             int64
	OracleAddress   solana.PublicKey
	Oracle          *core.Oracle
	PositionAddress solana.PublicKey
	Position        *core.UserPosition
	WeightAsset     solana.PublicKey
	// Lamports is the oracle's reward pool balance.
	Lamports uint64
}

// Result holds the records and side effects of a successful instruction.
// Oracle and Position are nil when the instruction did not touch them.
type Result struct {
	Oracle    *core.Oracle
	Position  *core.UserPosition
	Events    []core.Event
	Transfers []*core.Transfer
}

type Controller struct {
	programID solana.PublicKey
}

func New(programID solana.PublicKey) *Controller {
	return &Controller{programID: programID}
}

func (c *Controller) ProgramID() solana.PublicKey {
	return c.programID
}

// Execute dispatches args to the matching operation.
func (c *Controller) Execute(call Call, args core.InstructionArgs) (*Result, error) {
	switch args.Kind {
	case core.InsInitialize:
		return c.Initialize(call, args.Params)
	case core.InsFund:
		return c.Fund(call, args.Amount)
	case core.InsDepositTokens:
		return c.Deposit(call, args.Amount)
	case core.InsWithdrawTokens:
		return c.Withdraw(call, args.Amount)
	case core.InsSubmitValue:
		return c.Submit(call, args)
	case core.InsVoteBlacklist:
		return c.Vote(call, args.Target, core.VoteBlacklist)
	case core.InsVoteWhitelist:
		return c.Vote(call, args.Target, core.VoteWhitelist)
	case core.InsUpdateUserVoteWeights:
		return c.UpdateUserVoteWeights(call)
	default:
		return nil, errors.Errorf("oracle: unknown instruction %q", args.Kind)
	}
}

// oracle validates the oracle account of call and returns a working copy.
func (c *Controller) oracle(call Call) (*core.Oracle, error) {
	if call.Oracle == nil {
		return nil, codes.InvalidPda
	}

	expected, _, err := pda.OracleAddress(c.programID, call.Oracle.Authority, call.Oracle.WeightAsset)
	if err != nil {
		return nil, errors.Wrap(err, "derive oracle address")
	}

	if !expected.Equals(call.OracleAddress) {
		return nil, codes.InvalidPda
	}

	return call.Oracle.Clone(), nil
}

// position validates the signer's position account. A missing position is
// created when create is set.
func (c *Controller) position(call Call, create bool) (*core.UserPosition, error) {
	expected, bump, err := pda.PositionAddress(c.programID, call.OracleAddress, call.Signer)
	if err != nil {
		return nil, errors.Wrap(err, "derive position address")
	}

	if !expected.Equals(call.PositionAddress) {
		return nil, codes.InvalidPda
	}

	if call.Position == nil {
		if !create {
			return nil, codes.NoUnlockedTokens
		}

		return stake.NewPosition(call.OracleAddress, call.Signer, bump), nil
	}

	p := call.Position
	if !p.Oracle.Equals(call.OracleAddress) || !p.Owner.Equals(call.Signer) {
		return nil, codes.InvalidAuthority
	}

	return p.Clone(), nil
}
