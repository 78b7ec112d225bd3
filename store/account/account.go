package account

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"orboracle/core"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Account{})

		if err := tx.AutoMigrate(core.Account{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_accounts_address", "address").Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_accounts_oracle_kind", "oracle", "kind").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

type accountStore struct {
	db *db.DB
}

func (s *accountStore) Find(ctx context.Context, address string) (*core.Account, bool, error) {
	var account core.Account
	if err := s.db.View().Where("address = ?", address).First(&account).Error; err != nil {
		return nil, gorm.IsRecordNotFoundError(err), err
	}

	return &account, false, nil
}

func (s *accountStore) Save(ctx context.Context, tx *db.DB, account *core.Account) error {
	if account.ID == 0 {
		account.Version = 1
		return tx.Update().Create(account).Error
	}

	version := account.Version
	updates := map[string]interface{}{
		"data":    account.Data,
		"version": version + 1,
	}

	r := tx.Update().Model(account).Where("version = ?", version).Updates(updates)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	account.Version = version + 1
	return nil
}

func (s *accountStore) ListByKind(ctx context.Context, kind core.AccountKind, fromID int64, limit int) ([]*core.Account, error) {
	var accounts []*core.Account
	if err := s.db.View().Where("kind = ? AND id > ?", kind, fromID).Order("id").Limit(limit).Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (s *accountStore) ListPositions(ctx context.Context, oracle string) ([]*core.Account, error) {
	var accounts []*core.Account
	if err := s.db.View().Where("oracle = ? AND kind = ?", oracle, core.AccountKindPosition).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
