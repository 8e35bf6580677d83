package repository

import (
	"context"

	"weighstation/internal/model"

	"gorm.io/gorm"
)

type RateRepository interface {
	// ReplaceAll swaps the entire rate table for rates in one transaction,
	// so concurrent readers never observe a half-empty table.
	ReplaceAll(ctx context.Context, rates []model.Rate) error
	ListAll(ctx context.Context) ([]model.Rate, error)
}

type rateRepo struct{ db *gorm.DB }

func NewRateRepository(db *gorm.DB) RateRepository { return &rateRepo{db: db} }

func (r *rateRepo) ReplaceAll(ctx context.Context, rates []model.Rate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Rate{}).Error; err != nil {
			return err
		}
		if len(rates) == 0 {
			return nil
		}
		return tx.Create(&rates).Error
	})
}

func (r *rateRepo) ListAll(ctx context.Context) ([]model.Rate, error) {
	var rates []model.Rate
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rates).Error
	return rates, err
}
