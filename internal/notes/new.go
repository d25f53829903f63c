package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

// Config lists the providers in fallback order and their credentials.
type Config struct {
	Order    []string
	Gemini   GeminiConfig
	OpenAI   ChatConfig
	DeepSeek ChatConfig
	Timeout  time.Duration
}

type GeminiConfig struct {
	Model   string
	APIKeys []string
}

type ChatConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// New builds the fallback chain from cfg. Providers without credentials are skipped.
func New(cfg Config, log logger.Logger) (*Chain, error) {
	ctx := context.Background()
	providers := make([]Provider, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		switch name {
		case "gemini":
			if len(cfg.Gemini.APIKeys) == 0 {
				log.Warn(ctx, "Skipping provider gemini: no api keys")
				continue
			}
			providers = append(providers, NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, nil, log))
		case "openai":
			if cfg.OpenAI.APIKey == "" {
				log.Warn(ctx, "Skipping provider openai: no api key")
				continue
			}
			providers = append(providers, NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL))
		case "deepseek":
			if cfg.DeepSeek.APIKey == "" {
				log.Warn(ctx, "Skipping provider deepseek: no api key")
				continue
			}
			providers = append(providers, NewDeepSeek(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model, cfg.DeepSeek.BaseURL))
		default:
			return nil, fmt.Errorf("unknown notes provider %q", name)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no notes provider has credentials configured")
	}
	return NewChain(providers, cfg.Timeout, log), nil
}
