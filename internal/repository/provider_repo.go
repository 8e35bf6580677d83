package repository

import (
	"context"

	"weighstation/internal/model"

	"gorm.io/gorm"
)

type ProviderRepository interface {
	Create(ctx context.Context, p *model.Provider) error
	FindByID(ctx context.Context, id uint) (*model.Provider, error)
	FindByName(ctx context.Context, name string) (*model.Provider, error)
	Update(ctx context.Context, p *model.Provider) error
}

type providerRepo struct{ db *gorm.DB }

func NewProviderRepository(db *gorm.DB) ProviderRepository { return &providerRepo{db: db} }

func (r *providerRepo) Create(ctx context.Context, p *model.Provider) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *providerRepo) FindByID(ctx context.Context, id uint) (*model.Provider, error) {
	var p model.Provider
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *providerRepo) FindByName(ctx context.Context, name string) (*model.Provider, error) {
	var p model.Provider
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *providerRepo) Update(ctx context.Context, p *model.Provider) error {
	return r.db.WithContext(ctx).Save(p).Error
}
