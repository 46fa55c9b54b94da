package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/model"
	"PolyFluid/internal/repository"
)

const (
	// 列表接口最多返回的记录数
	maxOpenRecords   = 100
	maxStatusRecords = 1000
)

// BookkeepingService 前端模拟仓位/订单的存取，经济字段原样保存不做校验
type BookkeepingService struct {
	positions repository.PositionRepository
	orders    repository.OrderRepository
	statuses  repository.StatusRepository
	now       func() time.Time
	logger    *logrus.Logger
}

func NewBookkeepingService(positions repository.PositionRepository, orders repository.OrderRepository, statuses repository.StatusRepository, logger *logrus.Logger) *BookkeepingService {
	return &BookkeepingService{
		positions: positions,
		orders:    orders,
		statuses:  statuses,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// CreatePosition 保存仓位，返回记录 id
func (s *BookkeepingService) CreatePosition(ctx context.Context, doc model.PositionDoc) (string, error) {
	if strings.TrimSpace(doc.UserID) == "" {
		return "", errs.New(errs.KindInvalidInput, "user_id is required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = model.StatusOpen
	}
	if doc.OpenedAt.IsZero() {
		doc.OpenedAt = s.now()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidInput, "invalid position", err)
	}
	row := &model.Position{
		ID:       doc.ID,
		UserID:   doc.UserID,
		MarketID: doc.MarketID,
		Status:   doc.Status,
		OpenedAt: doc.OpenedAt,
		ClosedAt: doc.ClosedAt,
		Document: datatypes.JSON(raw),
	}
	if err := s.positions.Create(ctx, row); err != nil {
		return "", errs.Wrap(errs.KindStorage, "failed to create position", err)
	}
	return doc.ID, nil
}

// ListOpenPositions 用户的 OPEN 仓位，最多 100 条
func (s *BookkeepingService) ListOpenPositions(ctx context.Context, userID string) ([]model.PositionDoc, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.New(errs.KindInvalidInput, "user_id is required")
	}
	rows, err := s.positions.ListByUserStatus(ctx, userID, model.StatusOpen, maxOpenRecords)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, "failed to fetch positions", err)
	}
	out := make([]model.PositionDoc, 0, len(rows))
	for _, row := range rows {
		var doc model.PositionDoc
		if err := json.Unmarshal(row.Document, &doc); err != nil {
			s.logger.WithError(err).WithField("position_id", row.ID).Warn("仓位文档解析失败，已跳过")
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

// ClosePosition 只返回成功，不修改任何状态
func (s *BookkeepingService) ClosePosition(_ context.Context, positionID string) error {
	if strings.TrimSpace(positionID) == "" {
		return errs.New(errs.KindInvalidInput, "position_id is required")
	}
	s.logger.WithField("position_id", positionID).Info("关闭仓位（无状态变更）")
	return nil
}

// CreateOrder 保存订单，返回记录 id
func (s *BookkeepingService) CreateOrder(ctx context.Context, doc model.OrderDoc) (string, error) {
	if strings.TrimSpace(doc.UserID) == "" {
		return "", errs.New(errs.KindInvalidInput, "user_id is required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Status == "" {
		doc.Status = model.StatusOpen
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", errs.Wrap(errs.KindInvalidInput, "invalid order", err)
	}
	row := &model.Order{
		ID:        doc.ID,
		UserID:    doc.UserID,
		MarketID:  doc.MarketID,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
		Document:  datatypes.JSON(raw),
	}
	if err := s.orders.Create(ctx, row); err != nil {
		return "", errs.Wrap(errs.KindStorage, "failed to create order", err)
	}
	return doc.ID, nil
}

// ListOpenOrders 用户的 OPEN 订单，最多 100 条
func (s *BookkeepingService) ListOpenOrders(ctx context.Context, userID string) ([]model.OrderDoc, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.New(errs.KindInvalidInput, "user_id is required")
	}
	rows, err := s.orders.ListByUserStatus(ctx, userID, model.StatusOpen, maxOpenRecords)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, "failed to fetch orders", err)
	}
	out := make([]model.OrderDoc, 0, len(rows))
	for _, row := range rows {
		var doc model.OrderDoc
		if err := json.Unmarshal(row.Document, &doc); err != nil {
			s.logger.WithError(err).WithField("order_id", row.ID).Warn("订单文档解析失败，已跳过")
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

// CreateStatusCheck 记录一次客户端健康检查
func (s *BookkeepingService) CreateStatusCheck(ctx context.Context, clientName string) (model.StatusCheck, error) {
	if strings.TrimSpace(clientName) == "" {
		return model.StatusCheck{}, errs.New(errs.KindInvalidInput, "client_name is required")
	}
	check := model.StatusCheck{ID: uuid.NewString(), ClientName: clientName, Timestamp: s.now()}
	if err := s.statuses.Create(ctx, &check); err != nil {
		return model.StatusCheck{}, errs.Wrap(errs.KindStorage, "failed to create status check", err)
	}
	return check, nil
}

// ListStatusChecks 最近的健康检查记录
func (s *BookkeepingService) ListStatusChecks(ctx context.Context) ([]model.StatusCheck, error) {
	rows, err := s.statuses.List(ctx, maxStatusRecords)
	if err != nil {
		return nil, errs.Wrap(errs.KindStorage, "failed to fetch status checks", err)
	}
	out := make([]model.StatusCheck, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out, nil
}
