package service

import (
	"math"

	"PolyFluid/internal/model"
)

// 每侧最多取的档位数
const maxBookLevels = 10

// AdaptOrderbook 取上游前 10 档，丢弃非法档和破坏排序的档，不重新排序
func AdaptOrderbook(raw *model.RawOrderBook) model.Orderbook {
	if raw == nil {
		return model.Orderbook{Bids: []model.OrderbookLevel{}, Asks: []model.OrderbookLevel{}}
	}
	return model.Orderbook{
		Bids: adaptSide(raw.Bids, true),
		Asks: adaptSide(raw.Asks, false),
	}
}

func adaptSide(levels []model.RawLevel, descending bool) []model.OrderbookLevel {
	if len(levels) > maxBookLevels {
		levels = levels[:maxBookLevels]
	}
	out := make([]model.OrderbookLevel, 0, len(levels))
	var total float64
	for _, l := range levels {
		price, size := float64(l.Price), float64(l.Size)
		if !validPrice(price) || math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
			continue
		}
		if len(out) > 0 {
			last := out[len(out)-1].Price
			if (descending && price > last) || (!descending && price < last) {
				continue
			}
		}
		total += size
		out = append(out, model.OrderbookLevel{Price: price, Size: size, Total: total})
	}
	return out
}

// AdaptChart 丢弃非法点，保持上游顺序
func AdaptChart(raw []model.RawPricePoint) []model.ChartPoint {
	out := make([]model.ChartPoint, 0, len(raw))
	for _, pt := range raw {
		ts := float64(pt.T)
		price := float64(pt.P)
		if math.IsNaN(ts) || ts <= 0 || ts > math.MaxInt64/1000 || !validPrice(price) {
			continue
		}
		sec := int64(ts)
		out = append(out, model.ChartPoint{Timestamp: sec, Price: price, Date: sec * 1000})
	}
	return out
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && p > 0 && p <= 1
}
