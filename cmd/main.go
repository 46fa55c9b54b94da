package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"PolyFluid/internal/adapter/polymarket"
	"PolyFluid/internal/api"
	"PolyFluid/internal/chain"
	"PolyFluid/internal/config"
	"PolyFluid/internal/interfaces"
	"PolyFluid/internal/llm"
	"PolyFluid/internal/repository"
	"PolyFluid/internal/service"
	"PolyFluid/internal/utils/logx"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := logx.NewLogger(cfg.Log)
	logger.Info("配置文件加载成功")

	// 3. 文档库
	db, err := openDatabase(cfg.Postgres, logger)
	if err != nil {
		logger.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	logger.Info("PostgreSQL连接成功，表结构检查完成")

	// 4. 上游行情与大模型
	source := polymarket.NewPolymarketAdapter(cfg.Polymarket, logger)
	var completer interfaces.ChatCompleter
	if client, err := llm.NewClient(cfg.LLM, logger); err == nil {
		completer = client
	} else if errors.Is(err, llm.ErrNotConfigured) {
		logger.Warn("未配置 LLM_API_KEY，市场点评将返回降级内容")
	} else {
		logger.Fatalf("初始化LLM客户端失败: %v", err)
	}

	// 5. 退款钱包：私钥只在这里读取一次，随后从配置中清除
	var wallet interfaces.ChainClient
	client, err := chain.NewSolanaClient(cfg.Solana, logger)
	cfg.Solana.PrivateKey = ""
	switch {
	case err == nil:
		wallet = client
	case errors.Is(err, chain.ErrNoKey):
		logger.Warn("未配置 SOLANA_PRIVATE_KEY，退款接口不可用")
	default:
		logger.Fatalf("初始化Solana钱包失败: %v", err)
	}

	// 6. 服务
	markets := service.NewMarketService(source, service.NewNormalizer(logger), service.MarketOptions{
		MaxFetch:      cfg.Polymarket.MaxFetch,
		ChartFidelity: cfg.Polymarket.ChartFidelity,
	}, logger)
	insights := service.NewInsightService(completer, logger)
	refunds := service.NewRefundService(wallet, logger)
	books := service.NewBookkeepingService(
		repository.NewPositionRepository(db),
		repository.NewOrderRepository(db),
		repository.NewStatusRepository(db),
		logger,
	)

	// 7. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := api.NewEngine(cfg.Server, api.Handlers{
		Market:      api.NewMarketHandler(markets, insights, logger),
		Bookkeeping: api.NewBookkeepingHandler(books, logger),
		Refund:      api.NewRefundHandler(refunds, logger),
	})
	logger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 8. 启动服务（从配置读取端口）
	port := cfg.Server.Port
	logger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logger.Fatalf("启动服务失败: %v", err)
	}
}
