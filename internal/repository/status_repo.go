package repository

import (
	"context"

	"gorm.io/gorm"

	"PolyFluid/internal/model"
)

// StatusRepository 健康检查记录
type StatusRepository interface {
	Create(ctx context.Context, check *model.StatusCheck) error
	List(ctx context.Context, limit int) ([]*model.StatusCheck, error)
}

type statusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) Create(ctx context.Context, check *model.StatusCheck) error {
	return r.db.WithContext(ctx).Create(check).Error
}

func (r *statusRepository) List(ctx context.Context, limit int) ([]*model.StatusCheck, error) {
	var list []*model.StatusCheck
	err := r.db.WithContext(ctx).Order(`"timestamp" DESC`).Limit(limit).Find(&list).Error
	return list, err
}
