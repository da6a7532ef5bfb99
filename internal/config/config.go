package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个程序的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Game   GameConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := resolveAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if err := cfg.Game.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Log.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServerConfig 描述 HTTP 展示层的监听配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Addr string
}

// resolveAddr 解析服务器监听地址。
func resolveAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	return ":" + port, nil
}

// AIConfig 描述对话模型相关配置。模型标识只从这里注入。
type AIConfig struct {
	APIKey      string  `env:"ARK_API_KEY"`
	AccessKey   string  `env:"ARK_ACCESS_KEY"`
	SecretKey   string  `env:"ARK_SECRET_KEY"`
	Model       string  `env:"ARK_MODEL"`
	BaseURL     string  `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string  `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature float64 `env:"ARK_TEMPERATURE"`
	TopP        float64 `env:"ARK_TOP_P"`
	MaxTokens   int     `env:"ARK_MAX_TOKENS"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return strings.TrimSpace(c.Model) != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。零值参数交给服务端默认值。
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     strings.TrimSpace(c.Model),
	}
	if c.Temperature > 0 {
		val := float32(c.Temperature)
		cfg.Temperature = &val
	}
	if c.TopP > 0 {
		val := float32(c.TopP)
		cfg.TopP = &val
	}
	if c.MaxTokens > 0 {
		val := c.MaxTokens
		cfg.MaxTokens = &val
	}

	return ark.NewChatModel(ctx, cfg)
}

// GameConfig 描述一局游戏的参数。
type GameConfig struct {
	PlayerName string `env:"PLAYER_NAME"`
	ScoresFile string `env:"HOTLINE_SCORES_FILE" envDefault:"high_scores.json"`
	FrameRate  int    `env:"HOTLINE_FRAME_RATE" envDefault:"30"`
}

func (c GameConfig) validate() error {
	if c.FrameRate < 1 {
		return fmt.Errorf("invalid HOTLINE_FRAME_RATE value %d: must be positive", c.FrameRate)
	}
	if strings.TrimSpace(c.ScoresFile) == "" {
		return fmt.Errorf("invalid HOTLINE_SCORES_FILE value: empty path")
	}
	return nil
}

// LogConfig 描述日志输出。File 为 "-" 时写到 stderr。
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE" envDefault:"hotline.log"`
}

func (c LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid LOG_LEVEL value %q", c.Level)
	}
}
