package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"PolyFluid/internal/config"
	"PolyFluid/internal/utils/httpclient"
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = errors.New("llm: api key not configured")

// Client OpenAI 兼容的对话补全客户端，用于市场点评
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	logger    *logrus.Logger
}

// NewClient 创建客户端。APIKey 为空时返回 ErrNotConfigured，由调用方决定降级
func NewClient(cfg config.LLMConfig, logger *logrus.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.RequestTimeout()}, logger)

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		api:       openai.NewClientWithConfig(oc),
		model:     model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Complete 单轮对话：system + user，返回第一条回复
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat completion: empty content")
	}
	c.logger.WithFields(logrus.Fields{
		"model":             c.model,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("大模型返回点评")
	return text, nil
}
