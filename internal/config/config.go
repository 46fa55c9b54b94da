package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（对应 config/config.yaml）
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`     // 服务器配置
	Postgres   PostgresConfig   `mapstructure:"postgres"`   // 文档库（仓位/订单/健康检查）
	Log        LogConfig        `mapstructure:"log"`        // 日志
	Polymarket PolymarketConfig `mapstructure:"polymarket"` // 上游行情
	LLM        LLMConfig        `mapstructure:"llm"`        // 市场洞察用的大模型
	Solana     SolanaConfig     `mapstructure:"solana"`     // 退款钱包
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int      `mapstructure:"port"`         // 服务端口
	Mode        string   `mapstructure:"mode"`         // Gin运行模式：debug/release/test
	CORSOrigins []string `mapstructure:"cors_origins"` // 允许的前端来源，"*" 表示全部
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN，URL 形式
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// LogConfig 日志配置，File 为空时只输出到标准输出
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// PolymarketConfig Gamma（列表）与 CLOB（盘口/历史价格）配置
type PolymarketConfig struct {
	GammaBaseURL       string `mapstructure:"gamma_base_url"`
	ClobBaseURL        string `mapstructure:"clob_base_url"`
	Timeout            int    `mapstructure:"timeout"`               // 请求超时（秒）
	Proxy              string `mapstructure:"proxy"`                 // 代理地址
	RateLimitPerSecond int    `mapstructure:"rate_limit_per_second"` // 出站限速，<=0 不限速
	MaxFetch           int    `mapstructure:"max_fetch"`             // 单次最多拉取的原始事件数
	ChartFidelity      int    `mapstructure:"chart_fidelity"`        // prices-history 固定精度（分钟）
}

// LLMConfig OpenAI 兼容的对话补全接口
type LLMConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	Timeout   int    `mapstructure:"timeout"` // 秒
	MaxTokens int    `mapstructure:"max_tokens"`
}

// SolanaConfig 退款钱包配置。PrivateKey 只允许来自环境变量
type SolanaConfig struct {
	RPCURL     string `mapstructure:"rpc_url"`
	Timeout    int    `mapstructure:"timeout"` // 秒
	PrivateKey string `mapstructure:"-"`
}

// RequestTimeout 上游请求超时
func (p PolymarketConfig) RequestTimeout() time.Duration {
	return secondsOr(p.Timeout, 8)
}

// RequestTimeout LLM 请求超时
func (l LLMConfig) RequestTimeout() time.Duration {
	return secondsOr(l.Timeout, 20)
}

// RequestTimeout RPC 请求超时
func (s SolanaConfig) RequestTimeout() time.Duration {
	return secondsOr(s.Timeout, 10)
}

func secondsOr(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("polymarket.gamma_base_url", "https://gamma-api.polymarket.com")
	v.SetDefault("polymarket.clob_base_url", "https://clob.polymarket.com")
	v.SetDefault("polymarket.timeout", 8)
	v.SetDefault("polymarket.rate_limit_per_second", 10)
	v.SetDefault("polymarket.max_fetch", 400)
	v.SetDefault("polymarket.chart_fidelity", 10)

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 20)
	v.SetDefault("llm.max_tokens", 300)

	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.timeout", 10)
}

// LoadConfig 加载配置文件（./config/config.yaml），敏感项从 .env / 环境变量覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// .env 可不存在
	_ = godotenv.Load()
	return LoadConfigFrom("./config")
}

// LoadConfigFrom 从指定目录读取 config.yaml；文件不存在时使用默认值
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	overrideFromEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置（优先级 env > yaml）
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POLYMARKET_PROXY"); v != "" {
		cfg.Polymarket.Proxy = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.Solana.RPCURL = v
	}
	if v := os.Getenv("SOLANA_PRIVATE_KEY"); v != "" {
		cfg.Solana.PrivateKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port 非法: %d", c.Server.Port)
	}
	if c.Polymarket.GammaBaseURL == "" || c.Polymarket.ClobBaseURL == "" {
		return fmt.Errorf("polymarket.gamma_base_url 与 polymarket.clob_base_url 必填")
	}
	if c.Polymarket.MaxFetch <= 0 {
		c.Polymarket.MaxFetch = 400
	}
	if c.Polymarket.ChartFidelity <= 0 {
		c.Polymarket.ChartFidelity = 10
	}
	return nil
}
