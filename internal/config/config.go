package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"signal-analyzer/internal/llm"

	"github.com/rs/zerolog/log"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider string

	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Empty model names mean the provider default.
	FastModel          string
	DeepModel          string
	FastThinkingBudget int32
	DeepThinkingBudget int32
	NewsModel          string
	ChatModel          string

	LogLevel string
	LogFile  string

	OTLPEndpoint string

	MCPRequestTimeoutSecs int
}

func Load() *Config {
	cfg := &Config{
		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		FastModel:     strings.TrimSpace(os.Getenv("ANALYZER_FAST_MODEL")),
		DeepModel:     strings.TrimSpace(os.Getenv("ANALYZER_DEEP_MODEL")),
		NewsModel:     strings.TrimSpace(os.Getenv("NEWS_MODEL")),
		ChatModel:     strings.TrimSpace(os.Getenv("CHAT_MODEL")),
		OTLPEndpoint:  strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	if cfg.Provider != ProviderGemini && cfg.Provider != ProviderOpenAI {
		log.Warn().Str("provider", cfg.Provider).Msg("unsupported LLM_PROVIDER, defaulting to gemini")
		cfg.Provider = ProviderGemini
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("API_KEY"))
	}
	if cfg.Provider == ProviderGemini && cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set")
	}
	if cfg.Provider == ProviderOpenAI && cfg.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set")
	}

	cfg.FastThinkingBudget = llm.DefaultFastThinkingBudget
	if v := strings.TrimSpace(os.Getenv("ANALYZER_FAST_THINKING_BUDGET")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			cfg.FastThinkingBudget = int32(n)
		}
	}

	cfg.DeepThinkingBudget = llm.DefaultDeepThinkingBudget
	if v := strings.TrimSpace(os.Getenv("ANALYZER_DEEP_THINKING_BUDGET")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			cfg.DeepThinkingBudget = int32(n)
		}
	}

	if cfg.DeepThinkingBudget <= cfg.FastThinkingBudget {
		log.Warn().
			Int32("fast", cfg.FastThinkingBudget).
			Int32("deep", cfg.DeepThinkingBudget).
			Msg("deep thinking budget must exceed fast, using defaults")
		cfg.FastThinkingBudget = llm.DefaultFastThinkingBudget
		cfg.DeepThinkingBudget = llm.DefaultDeepThinkingBudget
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.LogFile = strings.TrimSpace(os.Getenv("LOG_FILE"))
	if cfg.LogFile == "" {
		cfg.LogFile = "signal-analyzer.log"
	}

	cfg.MCPRequestTimeoutSecs = 0
	if v := strings.TrimSpace(os.Getenv("MCP_REQUEST_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MCPRequestTimeoutSecs = n
		}
	}

	return cfg
}

// Validate reports a missing credential for the selected provider. It is the
// only configuration problem that stops startup.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY (or API_KEY) is required")
		}
	}
	return nil
}

// Tiers overlays configured model names and budgets on the provider defaults.
func (c *Config) Tiers(defaults llm.Tiers) llm.Tiers {
	out := defaults
	if c.FastModel != "" {
		out.Fast.Model = c.FastModel
	}
	if c.DeepModel != "" {
		out.Deep.Model = c.DeepModel
	}
	if c.FastThinkingBudget > 0 {
		out.Fast.ThinkingBudget = c.FastThinkingBudget
	}
	if c.DeepThinkingBudget > 0 {
		out.Deep.ThinkingBudget = c.DeepThinkingBudget
	}
	return out
}
