package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"PolyFluid/internal/config"
)

// Handlers 路由依赖
type Handlers struct {
	Market      *MarketHandler
	Bookkeeping *BookkeepingHandler
	Refund      *RefundHandler
}

// NewEngine 创建 gin 引擎：pprof + CORS + /api 路由
func NewEngine(cfg config.ServerConfig, h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册 /api 下的所有路由
func RegisterRoutes(r gin.IRouter, h Handlers) {
	api := r.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "PolyFluid API"})
	})

	// 市场查询接口（给前端页面用）
	api.GET("/markets", h.Market.ListMarkets)
	api.GET("/markets/category/:category", h.Market.ListByCategory)
	api.GET("/markets/trending/top", h.Market.ListTrending)
	api.GET("/markets/:id", h.Market.GetMarket)
	api.GET("/markets/:id/orderbook", h.Market.GetMarketOrderbook)
	api.GET("/markets/:id/chart", h.Market.GetChart)
	api.GET("/markets/:id/insights", h.Market.GetInsights)
	api.GET("/orderbook/:token_id", h.Market.GetOrderbook)

	// 模拟仓位/订单
	api.POST("/positions", h.Bookkeeping.CreatePosition)
	api.GET("/positions", h.Bookkeeping.ListPositions)
	api.POST("/positions/close-with-refund", h.Refund.CloseWithRefund)
	api.POST("/positions/:position_id/close", h.Bookkeeping.ClosePosition)
	api.POST("/orders", h.Bookkeeping.CreateOrder)
	api.GET("/orders", h.Bookkeeping.ListOrders)

	api.POST("/status", h.Bookkeeping.CreateStatusCheck)
	api.GET("/status", h.Bookkeeping.ListStatusChecks)
}

// corsConfig 包含 "*" 时允许所有来源且不带凭证；否则只允许列出的来源
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	var list []string
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
		if o != "" {
			list = append(list, o)
		}
	}
	if len(list) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = list
	cfg.AllowCredentials = true
	return cfg
}
