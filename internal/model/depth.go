package model

import "PolyFluid/internal/utils/jsonx"

// RawOrderBook CLOB /book 返回体（价格和数量是字符串）
type RawOrderBook struct {
	Market  string     `json:"market"`
	AssetID string     `json:"asset_id"`
	Bids    []RawLevel `json:"bids"`
	Asks    []RawLevel `json:"asks"`
}

type RawLevel struct {
	Price jsonx.Number `json:"price"`
	Size  jsonx.Number `json:"size"`
}

type RawPricePoint struct {
	T jsonx.Number `json:"t"`
	P jsonx.Number `json:"p"`
}

// OrderbookLevel Total 为从第一档到当前档的累计数量
type OrderbookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
	Total float64 `json:"total"`
}

// Orderbook bids 价格不增，asks 价格不减
type Orderbook struct {
	Bids []OrderbookLevel `json:"bids"`
	Asks []OrderbookLevel `json:"asks"`
}

// ChartPoint Date = Timestamp * 1000（毫秒，前端图表直接使用）
type ChartPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Date      int64   `json:"date"`
}
