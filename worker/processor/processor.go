package processor

import (
	"context"
	"errors"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"orboracle/core"
)

const checkpointKey = "processor_checkpoint"

// Checkpoint persists the id of the last handled instruction.
type Checkpoint interface {
	Load(ctx context.Context) (int64, error)
	Save(ctx context.Context, id int64) error
}

// PropertyCheckpoint keeps the checkpoint in the property store.
func PropertyCheckpoint(store property.Store) Checkpoint {
	return &propertyCheckpoint{store: store}
}

type propertyCheckpoint struct {
	store property.Store
}

func (c *propertyCheckpoint) Load(ctx context.Context) (int64, error) {
	v, err := c.store.Get(ctx, checkpointKey)
	if err != nil {
		return 0, err
	}

	return v.Int64(), nil
}

func (c *propertyCheckpoint) Save(ctx context.Context, id int64) error {
	return c.store.Save(ctx, checkpointKey, id)
}

// Processor applies queued instructions one at a time in id order.
type Processor struct {
	checkpoint   Checkpoint
	instructions core.IInstructionStore
	oracles      core.IOracleService
	batch        int
	interval     time.Duration
}

// New new processor worker
func New(
	checkpoint Checkpoint,
	instructions core.IInstructionStore,
	oracles core.IOracleService,
	batch int,
	interval time.Duration,
) *Processor {
	return &Processor{
		checkpoint:   checkpoint,
		instructions: instructions,
		oracles:      oracles,
		batch:        batch,
		interval:     interval,
	}
}

// Run run worker
func (w *Processor) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "processor")
	ctx = logger.WithContext(ctx, log)

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 100 * time.Millisecond
			} else {
				dur = w.interval
			}
		}
	}
}

func (w *Processor) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	from, err := w.checkpoint.Load(ctx)
	if err != nil {
		log.WithError(err).Errorln("checkpoint.Load")
		return err
	}

	list, err := w.instructions.List(ctx, from, w.batch)
	if err != nil {
		log.WithError(err).Errorln("instructions.List")
		return err
	}

	if len(list) == 0 {
		return errors.New("no more instructions")
	}

	for _, ins := range list {
		if err := w.handle(ctx, ins); err != nil {
			return err
		}

		if err := w.checkpoint.Save(ctx, ins.ID); err != nil {
			log.WithError(err).Errorln("checkpoint.Save:", ins.ID)
			return err
		}
	}

	return nil
}

func (w *Processor) handle(ctx context.Context, ins *core.Instruction) error {
	if ins.Status != core.InstructionPending {
		return nil
	}

	log := logger.FromContext(ctx).WithField("trace", ins.TraceID)
	ctx = logger.WithContext(ctx, log)

	exec, err := w.oracles.Execute(ctx, ins)
	if err != nil {
		var insErr *core.InstructionError
		if errors.As(err, &insErr) {
			log.WithError(err).Infoln("instruction", insErr.Status)
			return nil
		}

		log.WithError(err).Errorln("execute instruction")
		return err
	}

	log.WithField("events", len(exec.Events)).Infoln("instruction applied")
	return nil
}
