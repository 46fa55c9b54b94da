package interfaces

import (
	"context"

	"PolyFluid/internal/model"
)

// MarketSource 上游行情数据源（Polymarket Gamma + CLOB）
// 错误统一为 *errs.Error：网络/超时/非 2xx 为 KindUpstream，确认无数据为 KindNotFound
type MarketSource interface {
	FetchEvents(ctx context.Context, limit, offset int) ([]model.RawEvent, error)
	FetchEvent(ctx context.Context, id string) (model.RawEvent, error)
	FetchMarket(ctx context.Context, id string) (model.RawMarket, error)
	FetchOrderBook(ctx context.Context, tokenID string) (*model.RawOrderBook, error)
	FetchPriceHistory(ctx context.Context, tokenID, interval string, fidelity int) ([]model.RawPricePoint, error)
}

// ChatCompleter OpenAI 兼容的对话补全
type ChatCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChainClient 服务端热钱包，只支持查询余额和单笔原生币转账
type ChainClient interface {
	PayerAddress() string
	Balance(ctx context.Context) (lamports uint64, err error)
	Transfer(ctx context.Context, recipient string, lamports uint64) (signature string, err error)
	ValidateAddress(address string) error
}
