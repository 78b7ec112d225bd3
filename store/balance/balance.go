package balance

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/gagliardetto/solana-go"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"orboracle/core"
	"orboracle/pkg/number"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Balance{})
		if err := tx.AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_balances_owner_asset", "owner", "asset").Error; err != nil {
			return err
		}

		tx = db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_transfers_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// New new vault backed by the balances table
func New(db *db.DB) core.IVault {
	return &vault{db: db}
}

type vault struct {
	db *db.DB
}

func (s *vault) Balance(ctx context.Context, owner, asset solana.PublicKey) (uint64, error) {
	var b core.Balance
	err := s.db.View().Where("owner = ? AND asset = ?", owner.String(), asset.String()).First(&b).Error
	if gorm.IsRecordNotFoundError(err) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return number.Uint64(b.Amount), nil
}

func (s *vault) Credit(ctx context.Context, tx *db.DB, owner, asset solana.PublicKey, amount uint64) error {
	return s.add(tx, owner.String(), asset.String(), core.AmountToDecimal(amount))
}

func (s *vault) Apply(ctx context.Context, tx *db.DB, transfers ...*core.Transfer) error {
	for _, t := range transfers {
		if err := s.add(tx, t.From, t.Asset, t.Amount.Neg()); err != nil {
			return errors.Wrapf(err, "debit %s", t.From)
		}

		if err := s.add(tx, t.To, t.Asset, t.Amount); err != nil {
			return errors.Wrapf(err, "credit %s", t.To)
		}

		if err := tx.Update().Create(t).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *vault) add(tx *db.DB, owner, asset string, delta decimal.Decimal) error {
	var b core.Balance
	err := tx.Update().Where("owner = ? AND asset = ?", owner, asset).First(&b).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return err
	}

	amount := b.Amount.Add(delta)
	if amount.IsNegative() {
		return core.ErrInsufficientBalance
	}

	if b.ID == 0 {
		b = core.Balance{Owner: owner, Asset: asset, Amount: amount, Version: 1}
		return tx.Update().Create(&b).Error
	}

	r := tx.Update().Model(&b).Where("version = ?", b.Version).Updates(map[string]interface{}{
		"amount":  amount,
		"version": b.Version + 1,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *vault) ListTransfers(ctx context.Context, fromID uint64, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}
