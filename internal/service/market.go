package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/interfaces"
	"PolyFluid/internal/model"
)

// MarketOptions 列表拉取参数
type MarketOptions struct {
	MaxFetch      int // 单次最多拉取的原始事件数
	ChartFidelity int // prices-history 精度（分钟）
}

// MarketService 面向前端的市场服务，每次请求都直接读上游，不做缓存
type MarketService struct {
	source     interfaces.MarketSource
	normalizer *Normalizer
	opts       MarketOptions
	now        func() time.Time
	logger     *logrus.Logger
}

// NewMarketService 创建 MarketService
func NewMarketService(source interfaces.MarketSource, normalizer *Normalizer, opts MarketOptions, logger *logrus.Logger) *MarketService {
	if opts.MaxFetch <= 0 {
		opts.MaxFetch = 400
	}
	if opts.ChartFidelity <= 0 {
		opts.ChartFidelity = 10
	}
	return &MarketService{
		source:     source,
		normalizer: normalizer,
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
}

// ListMarkets 活跃市场列表。过滤会丢掉一部分事件，所以按 2 倍 limit 拉取（上限 MaxFetch）
func (s *MarketService) ListMarkets(ctx context.Context, limit int) ([]model.Market, error) {
	markets, err := s.fetchNormalized(ctx, s.fetchSize(limit))
	if err != nil {
		return nil, withMessage(err, "failed to fetch markets")
	}
	return truncate(markets, limit), nil
}

// ListByCategory 按分类过滤，分类参数不区分大小写
func (s *MarketService) ListByCategory(ctx context.Context, category string, limit int) ([]model.Market, error) {
	if strings.TrimSpace(category) == "" {
		return nil, errs.New(errs.KindInvalidInput, "category is required")
	}
	markets, err := s.fetchNormalized(ctx, s.opts.MaxFetch)
	if err != nil {
		return nil, withMessage(err, "failed to fetch markets by category")
	}
	filtered := make([]model.Market, 0, len(markets))
	for _, m := range markets {
		if CategoryMatches(m.Category, category) {
			filtered = append(filtered, m)
		}
	}
	return truncate(filtered, limit), nil
}

// ListTrending 按 24h 成交量倒序，其次按流动性倒序
func (s *MarketService) ListTrending(ctx context.Context, limit int) ([]model.Market, error) {
	markets, err := s.fetchNormalized(ctx, s.fetchSize(limit))
	if err != nil {
		return nil, withMessage(err, "failed to fetch trending markets")
	}
	sort.SliceStable(markets, func(i, j int) bool {
		if markets[i].Volume24hr != markets[j].Volume24hr {
			return markets[i].Volume24hr > markets[j].Volume24hr
		}
		return markets[i].Liquidity > markets[j].Liquidity
	})
	return truncate(markets, limit), nil
}

// GetMarket 先按事件 id 查，查不到再按子市场 id 查并包装成事件；同样经过截止时间过滤
func (s *MarketService) GetMarket(ctx context.Context, id string) (model.Market, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Market{}, errs.New(errs.KindInvalidInput, "market id is required")
	}

	ev, err := s.source.FetchEvent(ctx, id)
	if errs.Is(err, errs.KindNotFound) {
		var mk model.RawMarket
		mk, err = s.source.FetchMarket(ctx, id)
		if err == nil {
			ev = model.EventFromMarket(mk)
		}
	}
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return model.Market{}, withMessage(err, "market not found")
		}
		return model.Market{}, withMessage(err, "failed to fetch market details")
	}

	markets := s.normalizer.Normalize([]model.RawEvent{ev}, Cutoff(s.now()))
	if len(markets) == 0 {
		return model.Market{}, errs.New(errs.KindNotFound, "market not found")
	}
	return markets[0], nil
}

// Orderbook 盘口。上游失败或无数据返回错误；有数据但全被过滤时返回空盘口
func (s *MarketService) Orderbook(ctx context.Context, tokenID string) (model.Orderbook, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return model.Orderbook{}, errs.New(errs.KindInvalidInput, "token_id is required")
	}
	raw, err := s.source.FetchOrderBook(ctx, tokenID)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return model.Orderbook{}, withMessage(err, "orderbook not found")
		}
		return model.Orderbook{}, withMessage(err, "failed to fetch orderbook")
	}
	return AdaptOrderbook(raw), nil
}

// MarketOrderbook 市场详情页盘口：token 必须属于该市场
func (s *MarketService) MarketOrderbook(ctx context.Context, marketID, tokenID string) (model.Orderbook, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return model.Orderbook{}, errs.New(errs.KindInvalidInput, "token_id is required")
	}
	m, err := s.GetMarket(ctx, marketID)
	if err != nil {
		return model.Orderbook{}, err
	}
	if !slices.Contains(m.TokenIDs(), tokenID) {
		return model.Orderbook{}, errs.New(errs.KindNotFound, "token not found in market")
	}
	return s.Orderbook(ctx, tokenID)
}

// Chart 历史价格，interval 原样透传，fidelity 固定
func (s *MarketService) Chart(ctx context.Context, tokenID, interval string) ([]model.ChartPoint, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, errs.New(errs.KindInvalidInput, "token_id is required")
	}
	if interval == "" {
		interval = "1h"
	}
	raw, err := s.source.FetchPriceHistory(ctx, tokenID, interval, s.opts.ChartFidelity)
	if err != nil {
		return nil, withMessage(err, "failed to fetch chart data")
	}
	return AdaptChart(raw), nil
}

// Outcomes 多选项市场的分支，用于生成点评；单选项或查询失败返回 nil
func (s *MarketService) Outcomes(ctx context.Context, id string) []model.Outcome {
	m, err := s.GetMarket(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("market_id", id).Debug("获取市场分支失败，按单选项处理")
		return nil
	}
	if multi, ok := m.Variant.(model.MultiOutcome); ok {
		return multi.Outcomes
	}
	return nil
}

func (s *MarketService) fetchNormalized(ctx context.Context, fetch int) ([]model.Market, error) {
	raw, err := s.source.FetchEvents(ctx, fetch, 0)
	if err != nil {
		return nil, err
	}
	markets := s.normalizer.Normalize(raw, Cutoff(s.now()))
	s.logger.WithFields(logrus.Fields{
		"fetched": len(raw),
		"kept":    len(markets),
	}).Debug("市场归一化完成")
	return markets, nil
}

func (s *MarketService) fetchSize(limit int) int {
	n := 2 * limit
	if n > s.opts.MaxFetch {
		n = s.opts.MaxFetch
	}
	if n < 1 {
		n = 1
	}
	return n
}

func truncate(markets []model.Market, limit int) []model.Market {
	if limit >= 0 && len(markets) > limit {
		return markets[:limit]
	}
	return markets
}

// withMessage 保留错误分类，替换对外文案
func withMessage(err error, msg string) error {
	return errs.Wrap(errs.KindOf(err), msg, err)
}
