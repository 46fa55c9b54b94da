package model

import "encoding/json"

// Market 前端使用的统一市场记录，每次请求现算，不缓存、不修改
type Market struct {
	ID         string
	Title      string
	Category   string
	Volume     float64
	Volume24hr float64
	Liquidity  float64
	EndDate    string // RFC3339, UTC
	Image      string
	Change24h  float64 // 由 24h 成交占比估算，不是真实价格变动
	Slug       string
	Variant    MarketVariant
}

// MarketVariant 只有 SingleOutcome 与 MultiOutcome 两种实现
type MarketVariant interface {
	isMarketVariant()
}

// SingleOutcome 二元市场，NoPrice 恒为 1-YesPrice
type SingleOutcome struct {
	YesPrice float64
	NoPrice  float64
	TokenID  string
}

// NewSingleOutcome 由 yes 价格构造，保证 yes+no == 1
func NewSingleOutcome(yes float64, tokenID string) SingleOutcome {
	return SingleOutcome{YesPrice: yes, NoPrice: 1 - yes, TokenID: tokenID}
}

// MultiOutcome 多选项事件，每个分支对应一个子市场
type MultiOutcome struct {
	Outcomes []Outcome
}

// Outcome 多选项事件的一个分支
type Outcome struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	TokenID  string  `json:"token_id"`
	MarketID string  `json:"market_id"`
}

func (SingleOutcome) isMarketVariant() {}
func (MultiOutcome) isMarketVariant()  {}

// IsMultiOutcome 判别字段
func (m Market) IsMultiOutcome() bool {
	_, ok := m.Variant.(MultiOutcome)
	return ok
}

// TokenIDs 盘口/历史价格查询可用的 token 列表
func (m Market) TokenIDs() []string {
	switch v := m.Variant.(type) {
	case SingleOutcome:
		if v.TokenID == "" {
			return nil
		}
		return []string{v.TokenID}
	case MultiOutcome:
		ids := make([]string, 0, len(v.Outcomes))
		for _, o := range v.Outcomes {
			if o.TokenID != "" {
				ids = append(ids, o.TokenID)
			}
		}
		return ids
	default:
		return nil
	}
}

// LeadingPrice 单选项取 yes 价，多选项取最高分支价
func (m Market) LeadingPrice() float64 {
	switch v := m.Variant.(type) {
	case SingleOutcome:
		return v.YesPrice
	case MultiOutcome:
		var top float64
		for _, o := range v.Outcomes {
			if o.Price > top {
				top = o.Price
			}
		}
		return top
	default:
		return 0
	}
}

type marketJSON struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Volume         float64   `json:"volume"`
	Volume24hr     float64   `json:"volume24hr"`
	Liquidity      float64   `json:"liquidity"`
	EndDate        string    `json:"endDate"`
	Image          string    `json:"image"`
	Change24h      float64   `json:"change24h"`
	Slug           string    `json:"slug"`
	IsMultiOutcome bool      `json:"is_multi_outcome"`
	YesPrice       *float64  `json:"yesPrice,omitempty"`
	NoPrice        *float64  `json:"noPrice,omitempty"`
	TokenID        *string   `json:"token_id,omitempty"`
	Outcomes       []Outcome `json:"outcomes,omitempty"`
}

// MarshalJSON 按判别字段展开变体
func (m Market) MarshalJSON() ([]byte, error) {
	out := marketJSON{
		ID:             m.ID,
		Title:          m.Title,
		Category:       m.Category,
		Volume:         m.Volume,
		Volume24hr:     m.Volume24hr,
		Liquidity:      m.Liquidity,
		EndDate:        m.EndDate,
		Image:          m.Image,
		Change24h:      m.Change24h,
		Slug:           m.Slug,
		IsMultiOutcome: m.IsMultiOutcome(),
	}
	switch v := m.Variant.(type) {
	case SingleOutcome:
		yes, no, token := v.YesPrice, v.NoPrice, v.TokenID
		out.YesPrice, out.NoPrice, out.TokenID = &yes, &no, &token
	case MultiOutcome:
		out.Outcomes = v.Outcomes
		if out.Outcomes == nil {
			out.Outcomes = []Outcome{}
		}
	}
	return json.Marshal(out)
}
