package layout

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
)

var (
	ErrProgramMismatch = errors.New("layout: instruction targets another program")
	ErrSignature       = errors.New("layout: invalid instruction signature")
)

// SignInstruction encodes args and signs them on behalf of accounts.Signer,
// which must be the public key of signer.
func SignInstruction(program solana.PublicKey, signer solana.PrivateKey, accounts core.InstructionAccounts, args core.InstructionArgs, traceID string) (*core.Instruction, error) {
	if !signer.PublicKey().Equals(accounts.Signer) {
		return nil, errors.New("layout: signer does not match accounts")
	}

	data, err := EncodeInstruction(args)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(SigningMessage(program, accounts, data))
	if err != nil {
		return nil, errors.Wrap(err, "sign instruction")
	}

	return &core.Instruction{
		TraceID:   traceID,
		Program:   program.String(),
		Kind:      args.Kind,
		Accounts:  accounts.Strings(),
		Data:      data,
		Signature: sig.String(),
	}, nil
}

// VerifyInstruction checks the signature of ins and decodes its payload.
func VerifyInstruction(program solana.PublicKey, ins *core.Instruction) (core.InstructionAccounts, core.InstructionArgs, error) {
	var args core.InstructionArgs

	if ins.Program != program.String() {
		return core.InstructionAccounts{}, args, ErrProgramMismatch
	}

	accounts, err := core.ParseInstructionAccounts(ins.Accounts)
	if err != nil {
		return accounts, args, errors.Wrap(err, "parse accounts")
	}

	if accounts.Signer.IsZero() {
		return accounts, args, ErrSignature
	}

	sig, err := solana.SignatureFromBase58(ins.Signature)
	if err != nil {
		return accounts, args, ErrSignature
	}

	if !sig.Verify(accounts.Signer, SigningMessage(program, accounts, ins.Data)) {
		return accounts, args, ErrSignature
	}

	if args, err = DecodeInstruction(ins.Data); err != nil {
		return accounts, args, err
	}

	if args.Kind != ins.Kind {
		return accounts, args, errors.Errorf("layout: instruction kind %q does not match data %q", ins.Kind, args.Kind)
	}

	return accounts, args, nil
}
