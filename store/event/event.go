package event

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"orboracle/core"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.EventLog{})

		if err := tx.AutoMigrate(core.EventLog{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_event_logs_trace_seq", "trace_id", "seq").Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_event_logs_published", "published").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new event store
func New(db *db.DB) core.IEventStore {
	return &eventStore{db: db}
}

type eventStore struct {
	db *db.DB
}

func (s *eventStore) Create(ctx context.Context, tx *db.DB, logs ...*core.EventLog) error {
	for _, log := range logs {
		if err := tx.Update().Where("trace_id = ? AND seq = ?", log.TraceID, log.Seq).FirstOrCreate(log).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *eventStore) ListPending(ctx context.Context, limit int) ([]*core.EventLog, error) {
	var logs []*core.EventLog
	if err := s.db.View().Where("published = ?", false).Order("id").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (s *eventStore) MarkPublished(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	return s.db.Update().Model(core.EventLog{}).Where("id IN (?)", ids).Update("published", true).Error
}

func (s *eventStore) List(ctx context.Context, oracle string, fromID int64, limit int) ([]*core.EventLog, error) {
	var logs []*core.EventLog
	if err := s.db.View().Where("oracle = ? AND id > ?", oracle, fromID).Order("id").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
