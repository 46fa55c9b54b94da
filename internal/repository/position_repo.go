package repository

import (
	"context"

	"gorm.io/gorm"

	"PolyFluid/internal/model"
)

// PositionRepository 模拟仓位持久化
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	ListByUserStatus(ctx context.Context, userID, status string, limit int) ([]*model.Position, error)
}

type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository 创建仓位仓储
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepository) ListByUserStatus(ctx context.Context, userID, status string, limit int) ([]*model.Position, error) {
	var list []*model.Position
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("opened_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
