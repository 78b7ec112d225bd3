package notifier

import (
	"context"
	"errors"

	"github.com/fox-one/msgpack"
	"github.com/fox-one/pkg/logger"
	"github.com/yiplee/structs"
	"orboracle/core"
	"orboracle/worker"
)

// Publisher delivers encoded events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Message is the payload published for every event.
type Message struct {
	ID      int64  `msgpack:"id" json:"id"`
	TraceID string `msgpack:"trace_id" json:"trace_id"`
	Oracle  string `msgpack:"oracle" json:"oracle"`
	Name    string `msgpack:"name" json:"name"`
	Data    []byte `msgpack:"data" json:"-"`
	Raw     []byte `msgpack:"raw" json:"-"`
}

// Notifier publishes pending events in creation order.
type Notifier struct {
	*worker.BaseJob
	events    core.IEventStore
	publisher Publisher
	channel   string
	batch     int
}

// New new notifier worker
func New(location string, events core.IEventStore, publisher Publisher, cfg core.Notifier) (*Notifier, error) {
	n := &Notifier{
		events:    events,
		publisher: publisher,
		channel:   cfg.Channel,
		batch:     cfg.Batch,
	}

	job, err := worker.NewBaseJob(location, "@every 1s", n.onWork)
	if err != nil {
		return nil, err
	}

	n.BaseJob = job
	return n, nil
}

func (w *Notifier) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "notifier")

	logs, err := w.events.ListPending(ctx, w.batch)
	if err != nil {
		log.WithError(err).Errorln("events.ListPending")
		return err
	}

	if len(logs) == 0 {
		return errors.New("list events: EOF")
	}

	ids := make([]int64, 0, len(logs))
	for _, e := range logs {
		msg := Message{
			ID:      e.ID,
			TraceID: e.TraceID,
			Oracle:  e.Oracle,
			Name:    e.Name,
			Data:    e.Data,
			Raw:     e.Raw,
		}

		payload, err := msgpack.Marshal(msg)
		if err != nil {
			return err
		}

		if err := w.publisher.Publish(ctx, w.channel, payload); err != nil {
			log.WithError(err).Errorln("publish", e.ID)
			break
		}

		log.WithFields(structs.Map(msg)).Debugln("published")

		ids = append(ids, e.ID)
	}

	if err := w.events.MarkPublished(ctx, ids...); err != nil {
		log.WithError(err).Errorln("events.MarkPublished")
		return err
	}

	return nil
}
