package repository

import (
	"context"

	"weighstation/internal/model"

	"gorm.io/gorm"
)

type TruckRepository interface {
	Create(ctx context.Context, t *model.Truck) error
	FindByID(ctx context.Context, id string) (*model.Truck, error)
	Update(ctx context.Context, t *model.Truck) error
	ListByProvider(ctx context.Context, providerID uint) ([]model.Truck, error)
}

type truckRepo struct{ db *gorm.DB }

func NewTruckRepository(db *gorm.DB) TruckRepository { return &truckRepo{db: db} }

func (r *truckRepo) Create(ctx context.Context, t *model.Truck) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *truckRepo) FindByID(ctx context.Context, id string) (*model.Truck, error) {
	var t model.Truck
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *truckRepo) Update(ctx context.Context, t *model.Truck) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *truckRepo) ListByProvider(ctx context.Context, providerID uint) ([]model.Truck, error) {
	var trucks []model.Truck
	err := r.db.WithContext(ctx).Where("provider_id = ?", providerID).Find(&trucks).Error
	return trucks, err
}
