package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/llm"
)

// createClassifier builds the classification client from configuration.
func createClassifier(logger *slog.Logger) (*llm.Classifier, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))

	cfg := llm.Config{
		Provider:         provider,
		Endpoint:         viper.GetString("llm.endpoint"),
		BaseURL:          viper.GetString("llm.base_url"),
		Model:            viper.GetString("llm.model"),
		APIKey:           viper.GetString("llm.api_key"),
		FallbackCategory: viper.GetString("llm.fallback_category"),
		Temperature:      viper.GetFloat64("llm.temperature"),
		MaxTokens:        viper.GetInt("llm.max_tokens"),
		Timeout:          viper.GetDuration("llm.timeout"),
		MaxRetries:       viper.GetInt("llm.max_retries"),
		RetryDelay:       viper.GetDuration("llm.retry_delay"),
		RateLimit:        viper.GetInt("llm.rate_limit"),
		CacheTTL:         viper.GetDuration("llm.cache_ttl"),
	}

	if cfg.APIKey == "" {
		switch provider {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	classifier, err := llm.NewClassifier(cfg, logger)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("Classifier is not configured for provider %q. Set llm.endpoint (AUTOBILL_LLM_ENDPOINT) or llm.provider.", provider),
			err)
	}
	return classifier, nil
}
