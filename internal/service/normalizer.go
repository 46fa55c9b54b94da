package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PolyFluid/internal/model"
	"PolyFluid/internal/utils/jsonx"
)

const (
	// 单选项未知价格的中性默认值
	defaultYesPrice = 0.5
	// 多选项分支未知价格：接近 0 但不为 0
	defaultBranchPrice = 0.01
	// change24h 估算值的截断范围
	maxChange24h = 15.0
	// 截止时间缓冲：24 小时内到期的市场视为已过期
	ExpiryBuffer = 24 * time.Hour
)

var endDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
}

// Normalizer 把 Gamma 的原始事件整理成统一的 Market
type Normalizer struct {
	logger *logrus.Logger
}

func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Cutoff 列表的截止时间 = now + 24h
func Cutoff(now time.Time) time.Time {
	return now.Add(ExpiryBuffer)
}

// Normalize 过滤并转换事件，单条事件失败只跳过该条
func (n *Normalizer) Normalize(raw []model.RawEvent, cutoff time.Time) []model.Market {
	out := make([]model.Market, 0, len(raw))
	for _, ev := range raw {
		if m, ok := n.normalizeEvent(ev, cutoff); ok {
			out = append(out, m)
		}
	}
	return out
}

func (n *Normalizer) normalizeEvent(ev model.RawEvent, cutoff time.Time) (m model.Market, ok bool) {
	id := jsonx.String(ev, "id")
	defer func() {
		if r := recover(); r != nil {
			n.logger.WithFields(logrus.Fields{"event_id": id, "panic": fmt.Sprint(r)}).Error("归一化事件异常，已跳过")
			ok = false
		}
	}()

	drop := func(reason string) (model.Market, bool) {
		n.logger.WithFields(logrus.Fields{"event_id": id, "reason": reason}).Debug("事件被过滤")
		return model.Market{}, false
	}

	markets := jsonx.Objects(ev, "markets")
	if len(markets) == 0 {
		return drop("no_markets")
	}
	if id == "" {
		return drop("missing_id")
	}
	if jsonx.Bool(ev, "closed", false) {
		return drop("closed")
	}
	if jsonx.Bool(ev, "archived", false) {
		return drop("archived")
	}
	first := markets[0]
	if !jsonx.Bool(first, "acceptingOrders", true) {
		return drop("not_accepting_orders")
	}

	endRaw := jsonx.String(ev, "endDate")
	if endRaw == "" {
		endRaw = jsonx.String(first, "endDate")
	}
	end, err := ParseEndDate(endRaw)
	if err != nil {
		return drop("unparsable_end_date")
	}
	if !end.After(cutoff) {
		return drop("expires_before_cutoff")
	}

	title := jsonx.FirstString(ev, "title", "question")
	if title == "" {
		title = jsonx.FirstString(first, "question", "title")
	}

	m = model.Market{
		ID:         id,
		Title:      title,
		Category:   Classify(jsonx.String(ev, "category"), tagLabels(ev), title),
		Volume:     nonNegative(firstFloat("volume", ev, first)),
		Volume24hr: nonNegative(firstFloat("volume24hr", ev, first)),
		Liquidity:  nonNegative(firstFloat("liquidity", ev, first)),
		EndDate:    end.UTC().Format(time.RFC3339),
		Image:      firstNonEmpty(jsonx.FirstString(ev, "image", "icon"), jsonx.FirstString(first, "image", "icon")),
		Slug:       jsonx.String(ev, "slug"),
	}

	if len(markets) > 2 {
		outcomes := buildOutcomes(markets)
		if len(outcomes) == 0 {
			return drop("no_open_outcomes")
		}
		m.Variant = model.MultiOutcome{Outcomes: outcomes}
	} else {
		prices := jsonx.StringList(first["outcomePrices"])
		m.Variant = model.NewSingleOutcome(priceAt(prices, 0, defaultYesPrice), firstToken(first))
	}

	m.Change24h = EstimateChange24h(m.Volume24hr, m.Volume, m.LeadingPrice())
	return m, true
}

// buildOutcomes 每个未关闭的子市场是一个分支，保持上游顺序
func buildOutcomes(markets []model.RawMarket) []model.Outcome {
	outcomes := make([]model.Outcome, 0, len(markets))
	for _, mk := range markets {
		if jsonx.Bool(mk, "closed", false) {
			continue
		}
		prices := jsonx.StringList(mk["outcomePrices"])
		outcomes = append(outcomes, model.Outcome{
			Title:    jsonx.FirstString(mk, "groupItemTitle", "question", "title"),
			Price:    priceAt(prices, 0, defaultBranchPrice),
			TokenID:  firstToken(mk),
			MarketID: jsonx.String(mk, "id"),
		})
	}
	return outcomes
}

// ParseEndDate 支持 RFC3339 各种写法；纯日期按当天 23:59:59 UTC 处理
func ParseEndDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty end date")
	}
	if len(s) == len("2006-01-02") {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, err
		}
		return d.Add(24*time.Hour - time.Second), nil
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized end date %q", s)
}

// EstimateChange24h 24h 成交占总成交的百分比，方向取决于领先价格是否 >= 0.5。
// 只是近似值，并非真实的 24h 价格变动
func EstimateChange24h(volume24hr, volume, leadingPrice float64) float64 {
	if volume <= 0 || volume24hr <= 0 {
		return 0
	}
	change := volume24hr / volume * 100
	if leadingPrice < 0.5 {
		change = -change
	}
	change = math.Round(change*100) / 100
	return math.Max(-maxChange24h, math.Min(maxChange24h, change))
}

// priceAt 取第 i 个价格；缺失、"0"、无法解析或不在 (0,1] 内时返回 def
func priceAt(prices []string, i int, def float64) float64 {
	if i >= len(prices) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(prices[i]), 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > 1 {
		return def
	}
	return f
}

func firstToken(mk model.RawMarket) string {
	ids := jsonx.StringList(mk["clobTokenIds"])
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func tagLabels(ev model.RawEvent) []string {
	var labels []string
	for _, tag := range jsonx.Objects(ev, "tags") {
		if l := jsonx.String(tag, "label"); l != "" {
			labels = append(labels, l)
		}
		if s := jsonx.String(tag, "slug"); s != "" {
			labels = append(labels, s)
		}
	}
	if len(labels) == 0 {
		labels = jsonx.StringList(ev["tags"])
	}
	return labels
}

func firstFloat(key string, objs ...jsonx.Object) float64 {
	for _, o := range objs {
		if f, ok := jsonx.Float(o, key); ok {
			return f
		}
	}
	return 0
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
