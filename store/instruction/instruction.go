package instruction

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"orboracle/core"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Instruction{})

		if err := tx.AutoMigrate(core.Instruction{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_instructions_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new instruction store
func New(db *db.DB) core.IInstructionStore {
	return &instructionStore{db: db}
}

type instructionStore struct {
	db *db.DB
}

// Create queues ins; resubmitting a trace id returns the existing row.
func (s *instructionStore) Create(ctx context.Context, ins *core.Instruction) error {
	return s.db.Update().Where("trace_id = ?", ins.TraceID).FirstOrCreate(ins).Error
}

func (s *instructionStore) Find(ctx context.Context, traceID string) (*core.Instruction, bool, error) {
	var ins core.Instruction
	if err := s.db.View().Where("trace_id = ?", traceID).First(&ins).Error; err != nil {
		return nil, gorm.IsRecordNotFoundError(err), err
	}

	return &ins, false, nil
}

func toUpdateParams(ins *core.Instruction) map[string]interface{} {
	return map[string]interface{}{
		"status":       ins.Status,
		"timestamp":    ins.Timestamp,
		"error_code":   ins.ErrorCode,
		"error_msg":    ins.ErrorMsg,
		"processed_at": ins.ProcessedAt,
	}
}

func (s *instructionStore) Update(ctx context.Context, tx *db.DB, ins *core.Instruction, version int64) error {
	updates := toUpdateParams(ins)
	updates["version"] = version

	r := tx.Update().Model(ins).Where("version = ?", ins.Version).Updates(updates)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	ins.Version = version
	return nil
}

func (s *instructionStore) List(ctx context.Context, fromID int64, limit int) ([]*core.Instruction, error) {
	var list []*core.Instruction
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}
