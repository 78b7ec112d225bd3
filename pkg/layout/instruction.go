package layout

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
)

func InstructionDiscriminator(kind core.InstructionKind) [8]byte {
	return Discriminator("global", string(kind))
}

// EncodeInstruction encodes the instruction data: discriminator then borsh args.
func EncodeInstruction(args core.InstructionArgs) ([]byte, error) {
	w := newWriter(64)
	w.typeID(InstructionDiscriminator(args.Kind))

	switch args.Kind {
	case core.InsInitialize:
		p := args.Params
		w.str(p.Name)
		w.str(p.Description)
		w.u64(p.RewardBps)
		w.u64(p.HalfLifeSeconds)
		w.u64(p.Quorum)
		w.u64(p.DepositLockSeconds)
		w.u64(p.WithdrawLockSeconds)
		w.u64(p.Alpha)
	case core.InsFund, core.InsDepositTokens, core.InsWithdrawTokens:
		w.u64(args.Amount)
	case core.InsSubmitValue:
		w.i128(args.Value)
	case core.InsVoteBlacklist, core.InsVoteWhitelist:
		w.key(args.Target)
	case core.InsUpdateUserVoteWeights:
	default:
		return nil, errors.Errorf("layout: unknown instruction %q", args.Kind)
	}

	return w.bytes()
}

// DecodeInstruction detects the instruction kind from its discriminator.
func DecodeInstruction(data []byte) (core.InstructionArgs, error) {
	if len(data) < 8 {
		return core.InstructionArgs{}, ErrDiscriminator
	}

	for _, kind := range core.InstructionKinds {
		id := InstructionDiscriminator(kind)
		if !bytes.Equal(id[:], data[:8]) {
			continue
		}

		args := core.InstructionArgs{Kind: kind}
		r := newReader(data, id)
		switch kind {
		case core.InsInitialize:
			// lengths are validated by the program, not the codec
			args.Params.Name = r.str(len(data))
			args.Params.Description = r.str(len(data))
			args.Params.RewardBps = r.u64()
			args.Params.HalfLifeSeconds = r.u64()
			args.Params.Quorum = r.u64()
			args.Params.DepositLockSeconds = r.u64()
			args.Params.WithdrawLockSeconds = r.u64()
			args.Params.Alpha = r.u64()
		case core.InsFund, core.InsDepositTokens, core.InsWithdrawTokens:
			args.Amount = r.u64()
		case core.InsSubmitValue:
			args.Value = r.i128()
		case core.InsVoteBlacklist, core.InsVoteWhitelist:
			args.Target = r.key()
		}

		if r.err != nil {
			return core.InstructionArgs{}, r.err
		}

		return args, nil
	}

	return core.InstructionArgs{}, ErrDiscriminator
}

// SigningMessage is the payload an instruction signer signs.
func SigningMessage(program solana.PublicKey, accounts core.InstructionAccounts, data []byte) []byte {
	msg := make([]byte, 0, solana.PublicKeyLength*5+len(data))
	msg = append(msg, program[:]...)
	for _, k := range accounts.Keys() {
		msg = append(msg, k[:]...)
	}

	return append(msg, data...)
}
