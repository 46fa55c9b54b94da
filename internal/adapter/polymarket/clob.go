package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/GoPolymarket/polymarket-go-sdk/pkg/clob/clobtypes"
	sdkerrors "github.com/GoPolymarket/polymarket-go-sdk/pkg/errors"
	"github.com/GoPolymarket/polymarket-go-sdk/pkg/types"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/errs"
	"PolyFluid/internal/model"
	"PolyFluid/internal/utils/jsonx"
)

// FetchOrderBook GET {clob}/book?token_id=
// 上游返回空对象视为盘口不存在。CLOB 的 bids 升序、asks 降序（最优价在末尾），这里翻转成最优价在前，不做排序
func (p *Adapter) FetchOrderBook(ctx context.Context, tokenID string) (*model.RawOrderBook, error) {
	book, err := p.clob.OrderBook(ctx, &clobtypes.BookRequest{TokenID: tokenID})
	if err != nil {
		return nil, p.clobError(err, "/book", "orderbook not found", "failed to fetch orderbook")
	}
	if book.MarketID == "" && book.Hash == "" && len(book.Bids) == 0 && len(book.Asks) == 0 {
		return nil, errs.New(errs.KindNotFound, "orderbook not found")
	}
	return &model.RawOrderBook{
		Market:  book.MarketID,
		AssetID: tokenID,
		Bids:    bestFirst(rawLevels(book.Bids), true),
		Asks:    bestFirst(rawLevels(book.Asks), false),
	}, nil
}

// FetchPriceHistory GET {clob}/prices-history?market=&interval=&fidelity=
func (p *Adapter) FetchPriceHistory(ctx context.Context, tokenID, interval string, fidelity int) ([]model.RawPricePoint, error) {
	hist, err := p.clob.PricesHistory(ctx, &clobtypes.PricesHistoryRequest{
		Market:   tokenID,
		Interval: clobtypes.PriceHistoryInterval(interval),
		Fidelity: fidelity,
	})
	if err != nil {
		return nil, p.clobError(err, "/prices-history", "price history not found", "failed to fetch chart data")
	}
	out := make([]model.RawPricePoint, 0, len(hist))
	for _, pt := range hist {
		out = append(out, model.RawPricePoint{T: jsonx.Number(pt.Timestamp), P: jsonx.Number(pt.Price)})
	}
	return out, nil
}

// rawLevels SDK 的字符串价格转数值，非法值记为 0，由下游丢弃
func rawLevels(levels []clobtypes.PriceLevel) []model.RawLevel {
	out := make([]model.RawLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, model.RawLevel{Price: parseLevel(l.Price), Size: parseLevel(l.Size)})
	}
	return out
}

// bestFirst 首档比末档差时整体翻转；descending 表示最优价是最高价（bids）
func bestFirst(levels []model.RawLevel, descending bool) []model.RawLevel {
	n := len(levels)
	if n < 2 {
		return levels
	}
	first, last := levels[0].Price, levels[n-1].Price
	if (descending && first < last) || (!descending && first > last) {
		slices.Reverse(levels)
	}
	return levels
}

func parseLevel(s string) jsonx.Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return jsonx.Number(f)
}

// clobError SDK 错误归类：404/400 视为无此 token，解析失败为 Malformed，其余（含 5xx 重试耗尽、超时）为 Upstream
func (p *Adapter) clobError(err error, path, notFoundMsg, failMsg string) error {
	var apiErr *types.Error
	if (errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound) || errors.Is(err, sdkerrors.ErrBadRequest) {
		return errs.Wrap(errs.KindNotFound, notFoundMsg, err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return errs.Wrap(errs.KindMalformed, failMsg, err)
	}
	p.logger.WithError(err).WithFields(logrus.Fields{"path": path}).Warn("请求 Polymarket CLOB 失败")
	return errs.Wrap(errs.KindUpstream, failMsg, err)
}
