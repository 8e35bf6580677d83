package repository

import (
	"context"

	"weighstation/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContainerRepository interface {
	// Upsert inserts or overwrites by container id — last write wins.
	Upsert(ctx context.Context, c *model.RegisteredContainer) error
	FindByContainerID(ctx context.Context, id string) (*model.RegisteredContainer, error)
	FindByContainerIDs(ctx context.Context, ids []string) ([]model.RegisteredContainer, error)
	ListContainerIDs(ctx context.Context) ([]string, error)
}

type containerRepo struct{ db *gorm.DB }

func NewContainerRepository(db *gorm.DB) ContainerRepository { return &containerRepo{db: db} }

func (r *containerRepo) Upsert(ctx context.Context, c *model.RegisteredContainer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "container_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "unit"}),
	}).Create(c).Error
}

func (r *containerRepo) FindByContainerID(ctx context.Context, id string) (*model.RegisteredContainer, error) {
	var c model.RegisteredContainer
	err := r.db.WithContext(ctx).Where("container_id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *containerRepo) FindByContainerIDs(ctx context.Context, ids []string) ([]model.RegisteredContainer, error) {
	var cs []model.RegisteredContainer
	err := r.db.WithContext(ctx).Where("container_id IN ?", ids).Find(&cs).Error
	return cs, err
}

func (r *containerRepo) ListContainerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.RegisteredContainer{}).
		Pluck("container_id", &ids).Error
	return ids, err
}
