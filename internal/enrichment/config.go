// internal/enrichment/config.go
package enrichment

import (
	"time"

	appconfig "listing-monitor/internal/common/config"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	ProModel    string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// FromAppConfig builds the gateway config from the application GenAI section.
func FromAppConfig(cfg appconfig.GenAIConfig) Config {
	return Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		ProModel:    cfg.ProModel,
		Timeout:     time.Duration(cfg.Timeout) * time.Millisecond,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}
