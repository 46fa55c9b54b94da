package polymarket

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/GoPolymarket/polymarket-go-sdk/pkg/clob"
	"github.com/GoPolymarket/polymarket-go-sdk/pkg/transport"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/config"
	"PolyFluid/internal/errs"
	"PolyFluid/internal/interfaces"
	"PolyFluid/internal/model"
	"PolyFluid/internal/utils/httpclient"
	"PolyFluid/internal/utils/jsonx"
)

// 响应体上限，防止异常上游把内存打满
const maxBodyBytes = 16 << 20

// Adapter Polymarket 只读客户端：Gamma 提供事件/市场列表，CLOB 提供盘口和历史价格。
// Gamma 返回体字段形态不稳定，按松散 JSON 自己解析；CLOB 走 SDK 的公开行情接口
type Adapter struct {
	gammaBaseURL string
	httpClient   *http.Client
	clob         clob.Client
	logger       *logrus.Logger
}

// NewPolymarketAdapter 创建客户端，出站请求共享同一个限速器
func NewPolymarketAdapter(cfg config.PolymarketConfig, logger *logrus.Logger) interfaces.MarketSource {
	client := httpclient.NewHTTPClient(httpclient.Options{
		Timeout: cfg.RequestTimeout(),
		Proxy:   cfg.Proxy,
		Limiter: httpclient.NewLimiter(cfg.RateLimitPerSecond),
	}, logger)
	return NewWithClient(cfg.GammaBaseURL, cfg.ClobBaseURL, client, logger)
}

// NewWithClient 指定 http.Client（测试用 httptest 地址）。
// CLOB 客户端复用同一个 http.Client，限速和代理对两个上游都生效
func NewWithClient(gammaBaseURL, clobBaseURL string, client *http.Client, logger *logrus.Logger) *Adapter {
	return &Adapter{
		gammaBaseURL: strings.TrimRight(gammaBaseURL, "/"),
		httpClient:   client,
		clob:         clob.NewClient(transport.NewClient(client, clobBaseURL)),
		logger:       logger,
	}
}

// FetchEvents 活跃事件列表，按 24h 成交量倒序
// GET {gamma}/events?limit=&offset=&active=true&closed=false&archived=false&order=volume24hr&ascending=false
func (p *Adapter) FetchEvents(ctx context.Context, limit, offset int) ([]model.RawEvent, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("active", "true")
	q.Set("closed", "false")
	q.Set("archived", "false")
	q.Set("order", "volume24hr")
	q.Set("ascending", "false")

	body, err := p.get(ctx, p.gammaBaseURL+"/events?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var list []interface{}
	if err := jsonx.Decode(body, &list); err != nil {
		return nil, errs.Wrap(errs.KindMalformed, "failed to fetch markets", fmt.Errorf("解析事件列表失败: %w", err))
	}
	events := make([]model.RawEvent, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			events = append(events, obj)
		}
	}
	return events, nil
}

// FetchEvent 单个事件 GET {gamma}/events/{id}
func (p *Adapter) FetchEvent(ctx context.Context, id string) (model.RawEvent, error) {
	return p.getObject(ctx, p.gammaBaseURL+"/events/"+url.PathEscape(id))
}

// FetchMarket 单个子市场 GET {gamma}/markets/{id}
func (p *Adapter) FetchMarket(ctx context.Context, id string) (model.RawMarket, error) {
	return p.getObject(ctx, p.gammaBaseURL+"/markets/"+url.PathEscape(id))
}

func (p *Adapter) getObject(ctx context.Context, rawURL string) (jsonx.Object, error) {
	body, err := p.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if isEmptyPayload(body) {
		return nil, errs.New(errs.KindNotFound, "market not found")
	}
	var obj jsonx.Object
	if err := jsonx.Decode(body, &obj); err != nil {
		return nil, errs.Wrap(errs.KindMalformed, "failed to fetch market details", fmt.Errorf("解析返回体失败: %w", err))
	}
	if len(obj) == 0 {
		return nil, errs.New(errs.KindNotFound, "market not found")
	}
	return obj, nil
}

// get 发起 GET 请求；404 归为 KindNotFound，其余失败归为 KindUpstream
func (p *Adapter) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "internal server error", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.WithError(err).WithField("url", redactQuery(rawURL)).Warn("请求 Polymarket 失败")
		return nil, errs.Wrap(errs.KindUpstream, "upstream unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstream, "upstream unavailable", fmt.Errorf("读取响应失败: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.New(errs.KindNotFound, "not found")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		p.logger.WithFields(logrus.Fields{
			"url":    redactQuery(rawURL),
			"status": resp.StatusCode,
		}).Warn("Polymarket 返回非 2xx")
		return nil, errs.Wrap(errs.KindUpstream, "upstream unavailable", fmt.Errorf("status %d", resp.StatusCode))
	}
	return body, nil
}

func isEmptyPayload(body []byte) bool {
	s := strings.TrimSpace(string(body))
	return s == "" || s == "null" || s == "{}" || s == "[]"
}

// redactQuery 日志里只保留路径
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
