package feeder

import (
	"context"
	"fmt"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/core"
	"orboracle/pkg/id"
	"orboracle/pkg/layout"
	"orboracle/pkg/number"
	"orboracle/pkg/pda"
	"orboracle/worker"
)

// Feeder submits a reference price to one oracle on a schedule.
type Feeder struct {
	*worker.BaseJob
	program      solana.PublicKey
	oracle       solana.PublicKey
	signer       solana.PrivateKey
	symbol       string
	decimals     int32
	tickers      core.ITickerService
	instructions core.IInstructionStore
	clock        func() time.Time
}

// New new feeder worker
func New(
	location string,
	program solana.PublicKey,
	signer solana.PrivateKey,
	cfg core.Feeder,
	tickers core.ITickerService,
	instructions core.IInstructionStore,
) (*Feeder, error) {
	oracle, err := solana.PublicKeyFromBase58(cfg.Oracle)
	if err != nil {
		return nil, errors.Wrap(err, "feeder oracle")
	}

	f := &Feeder{
		program:      program,
		oracle:       oracle,
		signer:       signer,
		symbol:       cfg.Symbol,
		decimals:     cfg.Decimals,
		tickers:      tickers,
		instructions: instructions,
		clock:        time.Now,
	}

	if f.BaseJob, err = worker.NewBaseJob(location, cfg.Schedule, f.onWork); err != nil {
		return nil, err
	}

	return f, nil
}

func (w *Feeder) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "feeder").WithField("symbol", w.symbol)

	now := w.clock().Truncate(time.Second)
	ticker, err := w.tickers.PullPriceTicker(ctx, w.symbol, now)
	if err != nil {
		log.WithError(err).Errorln("PullPriceTicker")
		return err
	}

	ins, err := w.buildSubmit(ticker, now)
	if err != nil {
		log.WithError(err).Errorln("build submit")
		return err
	}

	if err := w.instructions.Create(ctx, ins); err != nil {
		log.WithError(err).Errorln("instructions.Create")
		return err
	}

	log.WithField("price", ticker.Price).WithField("trace", ins.TraceID).Infoln("submit queued")
	return nil
}

// buildSubmit signs a submit_value for price. The trace id depends on the
// oracle, signer and tick so a retried tick is queued only once.
func (w *Feeder) buildSubmit(ticker *core.PriceTicker, now time.Time) (*core.Instruction, error) {
	value, err := number.FromDecimal(ticker.Price, w.decimals)
	if err != nil {
		return nil, err
	}

	signer := w.signer.PublicKey()
	position, _, err := pda.PositionAddress(w.program, w.oracle, signer)
	if err != nil {
		return nil, err
	}

	accounts := core.InstructionAccounts{
		Signer:   signer,
		Oracle:   w.oracle,
		Position: position,
	}
	args := core.InstructionArgs{Kind: core.InsSubmitValue, Value: value}

	traceID := id.UUIDFromString(fmt.Sprintf("feeder:%s:%s:%d", w.oracle, signer, now.Unix()))
	return layout.SignInstruction(w.program, w.signer, accounts, args, traceID)
}
