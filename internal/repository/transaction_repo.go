package repository

import (
	"context"
	"time"

	"weighstation/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	// FindOpenIn returns the most recent "in" row for the truck with no tare
	// recorded yet, optionally narrowed to a produce. When tx is non-nil the
	// row is locked FOR UPDATE so two concurrent OUT flows cannot both
	// consume the same session.
	FindOpenIn(ctx context.Context, tx *gorm.DB, truck, produce string) (*model.Transaction, error)
	// CountOutsAfter counts "out" rows for the truck recorded after t.
	CountOutsAfter(ctx context.Context, truck string, t time.Time) (int64, error)
	// FindOutAfter returns the earliest "out" row for the truck at or after t.
	FindOutAfter(ctx context.Context, truck string, t time.Time) (*model.Transaction, error)
	SetSessionResult(ctx context.Context, tx *gorm.DB, id uint, truckTara, neto *int) error
	// List returns transactions in [from, to) matching any of directions,
	// newest first.
	List(ctx context.Context, from, to time.Time, directions []string) ([]model.Transaction, error)
	ListByTruck(ctx context.Context, truck string, from, to time.Time) ([]model.Transaction, error)
	// LastKnownTara returns the most recently recorded truck tare for the
	// truck, or nil when none was ever recorded.
	LastKnownTara(ctx context.Context, truck string) (*int, error)
	// ContainerColumns returns the raw comma-joined container column of every
	// transaction that has one.
	ContainerColumns(ctx context.Context) ([]string, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) FindOpenIn(ctx context.Context, tx *gorm.DB, truck, produce string) (*model.Transaction, error) {
	q := r.db
	if tx != nil {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	q = q.WithContext(ctx).
		Where("direction = ? AND truck = ? AND truck_tara IS NULL", model.DirectionIn, truck)
	if produce != "" {
		q = q.Where("produce = ?", produce)
	}

	var t model.Transaction
	err := q.Order("datetime DESC").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) CountOutsAfter(ctx context.Context, truck string, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("direction = ? AND truck = ? AND datetime >= ?", model.DirectionOut, truck, t).
		Count(&n).Error
	return n, err
}

func (r *transactionRepo) FindOutAfter(ctx context.Context, truck string, t time.Time) (*model.Transaction, error) {
	var out model.Transaction
	err := r.db.WithContext(ctx).
		Where("direction = ? AND truck = ? AND datetime >= ?", model.DirectionOut, truck, t).
		Order("datetime ASC").First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *transactionRepo) SetSessionResult(ctx context.Context, tx *gorm.DB, id uint, truckTara, neto *int) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).
		Updates(map[string]interface{}{"truck_tara": truckTara, "neto": neto}).Error
}

func (r *transactionRepo) List(ctx context.Context, from, to time.Time, directions []string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("datetime >= ? AND datetime < ?", from, to).
		Where("direction IN ?", directions).
		Order("datetime DESC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) ListByTruck(ctx context.Context, truck string, from, to time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("truck = ? AND datetime >= ? AND datetime < ?", truck, from, to).
		Order("datetime DESC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) LastKnownTara(ctx context.Context, truck string) (*int, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).
		Where("truck = ? AND truck_tara IS NOT NULL", truck).
		Order("datetime DESC").First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return t.TruckTara, nil
}

func (r *transactionRepo) ContainerColumns(ctx context.Context) ([]string, error) {
	var cols []string
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("containers <> ''").
		Distinct().Pluck("containers", &cols).Error
	return cols, err
}
