package repository

import (
	"context"

	"gorm.io/gorm"

	"PolyFluid/internal/model"
)

// OrderRepository 模拟订单持久化
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByUserStatus(ctx context.Context, userID, status string, limit int) ([]*model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) ListByUserStatus(ctx context.Context, userID, status string, limit int) ([]*model.Order, error) {
	var list []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
