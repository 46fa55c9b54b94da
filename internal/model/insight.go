package model

import "time"

const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// Insight 大模型生成的市场点评
type Insight struct {
	Success   bool      `json:"success"`
	Analysis  string    `json:"analysis"`
	Sentiment string    `json:"sentiment"`
	UpdatedAt time.Time `json:"updatedAt"`
	Error     string    `json:"error,omitempty"`
}
