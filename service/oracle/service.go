package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
	"orboracle/pkg/codes"
	"orboracle/pkg/layout"
	"orboracle/pkg/oracle"
)

var _ core.IOracleService = (*Service)(nil)

// ErrRejected marks instructions that were refused before execution.
var ErrRejected = errors.New("instruction rejected")

// Service applies signed instructions to the account store
type Service struct {
	controller   *oracle.Controller
	db           *db.DB
	accounts     core.IAccountStore
	vault        core.IVault
	events       core.IEventStore
	instructions core.IInstructionStore
	clock        func() time.Time
}

// New new oracle service
func New(
	controller *oracle.Controller,
	db *db.DB,
	accounts core.IAccountStore,
	vault core.IVault,
	events core.IEventStore,
	instructions core.IInstructionStore,
) *Service {
	return &Service{
		controller:   controller,
		db:           db,
		accounts:     accounts,
		vault:        vault,
		events:       events,
		instructions: instructions,
		clock:        time.Now,
	}
}

// Execute applies ins and records its final status. Domain failures and
// rejections are persisted first and then returned as *core.InstructionError;
// any other error leaves the instruction pending. ins is only updated once
// the new status has been stored.
func (s *Service) Execute(ctx context.Context, ins *core.Instruction) (*core.Execution, error) {
	log := logger.FromContext(ctx).WithField("trace", ins.TraceID).WithField("kind", ins.Kind)

	ts := ins.Timestamp
	if ts == 0 {
		ts = s.clock().Unix()
	}

	accounts, args, err := layout.VerifyInstruction(s.controller.ProgramID(), ins)
	if err != nil {
		log.WithError(err).Infoln("reject instruction")
		return nil, s.terminate(ctx, ins, ts, core.InstructionRejected, errors.Wrap(ErrRejected, err.Error()))
	}

	oracleAccount, o, err := s.loadOracle(ctx, accounts.Oracle)
	if err != nil {
		return nil, err
	}

	var (
		positionAccount *core.Account
		position        *core.UserPosition
	)
	if !accounts.Position.IsZero() {
		if positionAccount, position, err = s.loadPosition(ctx, accounts.Position); err != nil {
			return nil, err
		}
	}

	lamports, err := s.vault.Balance(ctx, accounts.Oracle, core.NativeAsset)
	if err != nil {
		return nil, errors.Wrap(err, "read reward pool")
	}

	call := oracle.Call{
		Signer:          accounts.Signer,
		Now:             ts,
		OracleAddress:   accounts.Oracle,
		Oracle:          o,
		PositionAddress: accounts.Position,
		Position:        position,
		WeightAsset:     accounts.WeightAsset,
		Lamports:        lamports,
	}

	result, err := s.controller.Execute(call, args)
	if err != nil {
		if _, ok := codes.From(err); ok || errors.Is(err, oracle.ErrAlreadyInitialized) {
			log.WithError(err).Infoln("instruction failed")
			return nil, s.terminate(ctx, ins, ts, core.InstructionFailed, err)
		}

		return nil, err
	}

	for idx, t := range result.Transfers {
		t.TraceID = uuidutil.Modify(ins.TraceID, fmt.Sprintf("transfer:%d", idx))
	}

	logs, err := eventLogs(ins.TraceID, accounts.Oracle, result.Events)
	if err != nil {
		return nil, err
	}

	var done *core.Instruction
	err = s.db.Tx(func(tx *db.DB) error {
		if result.Oracle != nil {
			if oracleAccount == nil {
				oracleAccount = &core.Account{
					Address: accounts.Oracle.String(),
					Kind:    core.AccountKindOracle,
					Oracle:  accounts.Oracle.String(),
					Owner:   result.Oracle.Authority.String(),
				}
			}

			if oracleAccount.Data, err = layout.EncodeOracle(result.Oracle); err != nil {
				return err
			}

			if err := s.accounts.Save(ctx, tx, oracleAccount); err != nil {
				return errors.Wrap(err, "save oracle")
			}
		}

		if result.Position != nil {
			if positionAccount == nil {
				positionAccount = &core.Account{
					Address: accounts.Position.String(),
					Kind:    core.AccountKindPosition,
					Oracle:  accounts.Oracle.String(),
					Owner:   result.Position.Owner.String(),
				}
			}

			if positionAccount.Data, err = layout.EncodePosition(result.Position); err != nil {
				return err
			}

			if err := s.accounts.Save(ctx, tx, positionAccount); err != nil {
				return errors.Wrap(err, "save position")
			}
		}

		if err := s.vault.Apply(ctx, tx, result.Transfers...); err != nil {
			return errors.Wrap(err, "apply transfers")
		}

		if err := s.events.Create(ctx, tx, logs...); err != nil {
			return errors.Wrap(err, "create events")
		}

		done, err = s.finish(ctx, tx, ins, ts, core.InstructionDone, nil)
		return err
	})
	if errors.Is(err, core.ErrInsufficientBalance) {
		log.WithError(err).Infoln("instruction failed")
		return nil, s.terminate(ctx, ins, ts, core.InstructionFailed, err)
	} else if err != nil {
		log.WithError(err).Errorln("commit instruction")
		return nil, err
	}

	*ins = *done
	return &core.Execution{
		Instruction: ins,
		Oracle:      accounts.Oracle,
		Events:      result.Events,
		Transfers:   result.Transfers,
	}, nil
}

// terminate stores a final failed or rejected status for ins.
func (s *Service) terminate(ctx context.Context, ins *core.Instruction, ts int64, status core.InstructionStatus, cause error) error {
	next, err := s.finish(ctx, s.db, ins, ts, status, cause)
	if err != nil {
		return err
	}

	*ins = *next
	return &core.InstructionError{Status: status, Err: cause}
}

// finish writes the final state of ins through tx and returns the updated
// copy. ins itself is left untouched.
func (s *Service) finish(ctx context.Context, tx *db.DB, ins *core.Instruction, ts int64, status core.InstructionStatus, cause error) (*core.Instruction, error) {
	now := s.clock()
	next := *ins
	next.Timestamp = ts
	next.Status = status
	next.ProcessedAt = &now

	if cause != nil {
		if code, ok := codes.From(cause); ok {
			next.ErrorCode = int(code)
		}

		next.ErrorMsg = cause.Error()
		if len(next.ErrorMsg) > 256 {
			next.ErrorMsg = next.ErrorMsg[:256]
		}
	}

	if err := s.instructions.Update(ctx, tx, &next, ins.Version+1); err != nil {
		return nil, errors.Wrap(err, "update instruction")
	}

	return &next, nil
}

func (s *Service) loadOracle(ctx context.Context, address solana.PublicKey) (*core.Account, *core.Oracle, error) {
	if address.IsZero() {
		return nil, nil, nil
	}

	account, notFound, err := s.accounts.Find(ctx, address.String())
	if notFound {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, errors.Wrap(err, "find oracle")
	}

	if account.Kind != core.AccountKindOracle {
		// the controller reports a missing oracle as an address mismatch
		return nil, nil, nil
	}

	o, err := layout.DecodeOracle(account.Data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decode oracle %s", address)
	}

	return account, o, nil
}

func (s *Service) loadPosition(ctx context.Context, address solana.PublicKey) (*core.Account, *core.UserPosition, error) {
	account, notFound, err := s.accounts.Find(ctx, address.String())
	if notFound {
		return nil, nil, nil
	} else if err != nil {
		return nil, nil, errors.Wrap(err, "find position")
	}

	if account.Kind != core.AccountKindPosition {
		return nil, nil, nil
	}

	p, err := layout.DecodePosition(account.Data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decode position %s", address)
	}

	return account, p, nil
}

func eventLogs(traceID string, oracle solana.PublicKey, events []core.Event) ([]*core.EventLog, error) {
	logs := make([]*core.EventLog, 0, len(events))
	for idx, e := range events {
		raw, err := layout.EncodeEvent(e)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}

		logs = append(logs, &core.EventLog{
			TraceID: traceID,
			Seq:     idx,
			Oracle:  oracle.String(),
			Name:    e.EventName(),
			Data:    data,
			Raw:     raw,
		})
	}

	return logs, nil
}
