package model

import (
	"time"

	"gorm.io/datatypes"
)

const StatusOpen = "OPEN"

// Position 对应 positions 表。前端模拟仓位，经济字段不做校验，原样存入 document
type Position struct {
	ID        string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserID    string         `gorm:"column:user_id;type:varchar(128);not null;index:idx_positions_user_status" json:"user_id"`
	MarketID  string         `gorm:"column:market_id;type:varchar(128)" json:"market_id"`
	Status    string         `gorm:"column:status;type:varchar(16);not null;default:'OPEN';index:idx_positions_user_status" json:"status"`
	OpenedAt  time.Time      `gorm:"column:opened_at;type:timestamptz;not null" json:"opened_at"`
	ClosedAt  *time.Time     `gorm:"column:closed_at;type:timestamptz" json:"closed_at,omitempty"`
	Document  datatypes.JSON `gorm:"column:document;type:jsonb;not null" json:"-"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz;default:now()" json:"-"`
}

func (Position) TableName() string { return "positions" }

// PositionDoc 客户端提交的仓位
type PositionDoc struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id" binding:"required"`
	MarketID         string     `json:"market_id" binding:"required"`
	MarketTitle      string     `json:"market_title"`
	Side             string     `json:"side" binding:"required"` // LONG / SHORT
	EntryPrice       float64    `json:"entry_price"`
	CurrentPrice     float64    `json:"current_price"`
	Size             float64    `json:"size"`
	Leverage         int        `json:"leverage"`
	LiquidationPrice float64    `json:"liquidation_price"`
	Status           string     `json:"status"`
	OpenedAt         time.Time  `json:"opened_at"`
	ClosedAt         *time.Time `json:"closed_at"`
	PnL              *float64   `json:"pnl"`
}

// Order 对应 orders 表
type Order struct {
	ID        string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserID    string         `gorm:"column:user_id;type:varchar(128);not null;index:idx_orders_user_status" json:"user_id"`
	MarketID  string         `gorm:"column:market_id;type:varchar(128)" json:"market_id"`
	Status    string         `gorm:"column:status;type:varchar(16);not null;default:'OPEN';index:idx_orders_user_status" json:"status"`
	Document  datatypes.JSON `gorm:"column:document;type:jsonb;not null" json:"-"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz;not null" json:"created_at"`
}

func (Order) TableName() string { return "orders" }

// OrderDoc 客户端提交的订单
type OrderDoc struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id" binding:"required"`
	MarketID    string    `json:"market_id" binding:"required"`
	MarketTitle string    `json:"market_title"`
	Type        string    `json:"type" binding:"required"` // MARKET / LIMIT
	Side        string    `json:"side" binding:"required"`
	Price       float64   `json:"price"`
	Size        float64   `json:"size"`
	Filled      float64   `json:"filled"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatusCheck 对应 status_checks 表，健康检查记录
type StatusCheck struct {
	ID         string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	ClientName string    `gorm:"column:client_name;type:varchar(255);not null" json:"client_name"`
	Timestamp  time.Time `gorm:"column:timestamp;type:timestamptz;not null;index" json:"timestamp"`
}

func (StatusCheck) TableName() string { return "status_checks" }
