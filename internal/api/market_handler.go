package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/service"
)

// MarketHandler 提供给前端的市场查询接口
type MarketHandler struct {
	markets  *service.MarketService
	insights *service.InsightService
	logger   *logrus.Logger
}

// NewMarketHandler 创建 MarketHandler
func NewMarketHandler(markets *service.MarketService, insights *service.InsightService, logger *logrus.Logger) *MarketHandler {
	return &MarketHandler{markets: markets, insights: insights, logger: logger}
}

// ListMarkets 活跃市场列表
// GET /api/markets?limit=150
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	limit, err := queryLimit(c, 150, 300)
	if err != nil {
		writeError(c, h.logger, "ListMarkets", err)
		return
	}
	markets, err := h.markets.ListMarkets(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, "ListMarkets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": markets, "count": len(markets)})
}

// GetMarket 市场详情
// GET /api/markets/:id
func (h *MarketHandler) GetMarket(c *gin.Context) {
	m, err := h.markets.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "GetMarket", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListByCategory 按分类过滤
// GET /api/markets/category/:category?limit=100
func (h *MarketHandler) ListByCategory(c *gin.Context) {
	limit, err := queryLimit(c, 100, 200)
	if err != nil {
		writeError(c, h.logger, "ListByCategory", err)
		return
	}
	markets, err := h.markets.ListByCategory(c.Request.Context(), c.Param("category"), limit)
	if err != nil {
		writeError(c, h.logger, "ListByCategory", err)
		return
	}
	c.JSON(http.StatusOK, markets)
}

// ListTrending 热门市场
// GET /api/markets/trending/top?limit=50
func (h *MarketHandler) ListTrending(c *gin.Context) {
	limit, err := queryLimit(c, 50, 100)
	if err != nil {
		writeError(c, h.logger, "ListTrending", err)
		return
	}
	markets, err := h.markets.ListTrending(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, "ListTrending", err)
		return
	}
	c.JSON(http.StatusOK, markets)
}

// GetOrderbook 按 token 查盘口
// GET /api/orderbook/:token_id
func (h *MarketHandler) GetOrderbook(c *gin.Context) {
	h.orderbook(c, c.Param("token_id"))
}

// GetMarketOrderbook 市场详情页盘口，token 由前端从 Market 中取
// GET /api/markets/:id/orderbook?token_id=
func (h *MarketHandler) GetMarketOrderbook(c *gin.Context) {
	tokenID, err := requiredQuery(c, "token_id")
	if err != nil {
		writeError(c, h.logger, "GetMarketOrderbook", err)
		return
	}
	book, err := h.markets.MarketOrderbook(c.Request.Context(), c.Param("id"), tokenID)
	if err != nil {
		writeError(c, h.logger, "GetMarketOrderbook", err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *MarketHandler) orderbook(c *gin.Context, tokenID string) {
	book, err := h.markets.Orderbook(c.Request.Context(), tokenID)
	if err != nil {
		writeError(c, h.logger, "Orderbook", err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetChart 历史价格
// GET /api/markets/:id/chart?token_id=&interval=1h
func (h *MarketHandler) GetChart(c *gin.Context) {
	tokenID, err := requiredQuery(c, "token_id")
	if err != nil {
		writeError(c, h.logger, "GetChart", err)
		return
	}
	points, err := h.markets.Chart(c.Request.Context(), tokenID, c.DefaultQuery("interval", "1h"))
	if err != nil {
		writeError(c, h.logger, "GetChart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

// GetInsights 大模型点评；多选项市场会带上各分支概率。失败时返回降级内容，状态码仍为 200
// GET /api/markets/:id/insights?market_title=&category=Politics
func (h *MarketHandler) GetInsights(c *gin.Context) {
	title, err := requiredQuery(c, "market_title")
	if err != nil {
		writeError(c, h.logger, "GetInsights", err)
		return
	}
	category := c.DefaultQuery("category", "Politics")
	ctx := c.Request.Context()
	outcomes := h.markets.Outcomes(ctx, c.Param("id"))
	c.JSON(http.StatusOK, h.insights.Generate(ctx, title, category, outcomes))
}
