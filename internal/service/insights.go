package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PolyFluid/internal/interfaces"
	"PolyFluid/internal/model"
)

const (
	insightSystemPrompt = `You are a prediction market analyst providing concise, data-driven insights.
Focus on:
1. Key factors affecting the outcome
2. Recent relevant developments
3. Probability assessment
4. Risk factors
Keep responses under 150 words, bullet points preferred.`

	insightUnavailable = "Insights temporarily unavailable. Please try again."
	insightFailed      = "Failed to generate insights"

	maxPromptOutcomes = 8
	maxTitleRunes     = 200
	maxCategoryRunes  = 40
	maxOutcomeRunes   = 80
	maxPromptRunes    = 2000
)

var (
	positiveKeywords = []string{"bullish", "likely", "strong", "favor", "positive", "increasing", "high probability"}
	negativeKeywords = []string{"bearish", "unlikely", "weak", "against", "negative", "decreasing", "low probability"}
)

// InsightService 调用大模型生成市场点评，任何失败都返回固定的降级内容
type InsightService struct {
	llm    interfaces.ChatCompleter // 为 nil 表示未配置
	now    func() time.Time
	logger *logrus.Logger
}

func NewInsightService(llm interfaces.ChatCompleter, logger *logrus.Logger) *InsightService {
	return &InsightService{llm: llm, now: time.Now, logger: logger}
}

// Generate 生成点评，不返回错误
func (s *InsightService) Generate(ctx context.Context, title, category string, outcomes []model.Outcome) model.Insight {
	if s.llm == nil {
		return s.fallback()
	}
	text, err := s.llm.Complete(ctx, insightSystemPrompt, BuildInsightPrompt(title, category, outcomes))
	if err != nil {
		s.logger.WithError(err).WithField("market_title", clip(title, 60)).Warn("生成市场点评失败")
		return s.fallback()
	}
	return model.Insight{
		Success:   true,
		Analysis:  text,
		Sentiment: Sentiment(text),
		UpdatedAt: s.now().UTC(),
	}
}

func (s *InsightService) fallback() model.Insight {
	return model.Insight{
		Success:   false,
		Analysis:  insightUnavailable,
		Sentiment: model.SentimentNeutral,
		UpdatedAt: s.now().UTC(),
		Error:     insightFailed,
	}
}

// BuildInsightPrompt 多选项时附带概率最高的 8 个分支，整体长度有上限
func BuildInsightPrompt(title, category string, outcomes []model.Outcome) string {
	var b strings.Builder
	b.WriteString("Analyze this prediction market:\n")
	fmt.Fprintf(&b, "Market: %s\n", clip(oneLine(title), maxTitleRunes))
	fmt.Fprintf(&b, "Category: %s\n", clip(oneLine(category), maxCategoryRunes))
	if len(outcomes) > 1 {
		fmt.Fprintf(&b, "Current Probabilities: %s\n", formatOutcomes(outcomes))
	}
	b.WriteString("\nProvide:\n1. Key Analysis (2-3 points)\n2. Betting Tips (1-2 points)\n3. Risk Assessment")
	return clip(b.String(), maxPromptRunes)
}

func formatOutcomes(outcomes []model.Outcome) string {
	sorted := make([]model.Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	if len(sorted) > maxPromptOutcomes {
		sorted = sorted[:maxPromptOutcomes]
	}
	parts := make([]string, 0, len(sorted))
	for _, o := range sorted {
		t := clip(oneLine(o.Title), maxOutcomeRunes)
		if t == "" {
			t = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("%s (%d%%)", t, int(math.Round(o.Price*100))))
	}
	return strings.Join(parts, ", ")
}

// Sentiment 统计正负关键词出现次数（不区分大小写、子串匹配），多者胜，相等为 neutral
func Sentiment(text string) string {
	lower := strings.ToLower(text)
	pos, neg := countKeywords(lower, positiveKeywords), countKeywords(lower, negativeKeywords)
	switch {
	case pos > neg:
		return model.SentimentBullish
	case neg > pos:
		return model.SentimentBearish
	default:
		return model.SentimentNeutral
	}
}

func countKeywords(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(text, kw)
	}
	return n
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
