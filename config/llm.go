package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// LLM providers.
const (
	ProviderDeepSeek = "deepseek"
	ProviderBedrock  = "bedrock"
)

// LLMConfig configures the language model used for plan and dish generation.
type LLMConfig struct {
	Provider        string        `env:"LLM_PROVIDER,default=deepseek"`
	DeepSeekKey     string        `env:"DEEPSEEK_API_KEY"`
	DeepSeekKeyFile string        `env:"DEEPSEEK_API_KEY_FILE"`
	DeepSeekURL     string        `env:"DEEPSEEK_API_URL,default=https://api.deepseek.com/v1/chat/completions"`
	DeepSeekModel   string        `env:"DEEPSEEK_MODEL,default=deepseek-chat"`
	BedrockModelID  string        `env:"BEDROCK_MODEL_ID,default=us.anthropic.claude-3-7-sonnet-20250219-v1:0"`
	MaxTokens       int32         `env:"LLM_MAX_TOKENS,default=8192"`
	Temperature     float32       `env:"LLM_TEMPERATURE,default=0.2"`
	Timeout         time.Duration `env:"LLM_TIMEOUT,default=90s"`
}

// PlannerConfig tunes meal plan generation.
type PlannerConfig struct {
	DefaultDuration int           `env:"PLAN_DEFAULT_DURATION,default=7"`
	MaxDuration     int           `env:"PLAN_MAX_DURATION,default=30"`
	Language        string        `env:"PLAN_LANGUAGE,default=Thai"`
	DraftTTL        time.Duration `env:"PLAN_DRAFT_TTL,default=24h"`
	RateLimit       int           `env:"LLM_RATE_LIMIT,default=20"`
	RateWindow      time.Duration `env:"LLM_RATE_WINDOW,default=1h"`
}

// LoadLLMConfig decodes LLMConfig and resolves the DeepSeek key from its file if needed.
func LoadLLMConfig() (LLMConfig, error) {
	var cfg LLMConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, err
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if cfg.DeepSeekKey == "" && cfg.DeepSeekKeyFile != "" {
		data, err := os.ReadFile(cfg.DeepSeekKeyFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to read DeepSeek API key file: %w", err)
		}
		cfg.DeepSeekKey = strings.TrimSpace(string(data))
	}
	if cfg.DeepSeekKey == "" {
		cfg.DeepSeekKey = readSecret("deepseek_api_key")
	}
	return cfg, nil
}

// LoadPlannerConfig decodes PlannerConfig.
func LoadPlannerConfig() (PlannerConfig, error) {
	var cfg PlannerConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, err
	}
	return cfg, nil
}
