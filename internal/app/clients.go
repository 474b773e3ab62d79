package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/ollama"
	"github.com/yungbote/docqa-backend/internal/platform/openai"
	"github.com/yungbote/docqa-backend/internal/platform/pdftext"
	"github.com/yungbote/docqa-backend/internal/platform/qdrant"
	"github.com/yungbote/docqa-backend/internal/rag"
	"github.com/yungbote/docqa-backend/internal/services"
)

type Clients struct {
	LLM      services.LanguageModel
	Embedder rag.Embedder
	PDF      *pdftext.Reader
	Qdrant   *qdrant.Store
	Redis    *redis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, vcfg VectorProviderConfig) (Clients, error) {
	log.Info("Wiring clients...")

	llm, err := newLanguageModel(log, cfg.LLM)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}
	embedder, err := newEmbedder(log, cfg.Embed, cfg.LLM.MaxRetries)
	if err != nil {
		return Clients{}, fmt.Errorf("init embedding client: %w", err)
	}
	out := Clients{LLM: llm, Embedder: embedder, PDF: pdftext.New()}

	// Qdrant
	if vcfg.Provider == VectorProviderQdrant {
		store, err := qdrant.NewStore(ctx, log, vcfg.Qdrant)
		if err != nil {
			return Clients{}, fmt.Errorf("init qdrant store: %w", err)
		}
		out.Qdrant = store
	}

	// Redis
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}

func newLanguageModel(log *logger.Logger, cfg LLMConfig) (services.LanguageModel, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		c, err := openai.NewClient(log, openai.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxNewTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
			MaxRetries:  cfg.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return services.NewOpenAIModel(c), nil
	default:
		return ollama.NewClient(log, ollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxNewTokens,
			Temperature: cfg.Temperature,
			KeepAlive:   cfg.KeepAlive,
			Timeout:     cfg.Timeout,
			MaxRetries:  cfg.MaxRetries,
		})
	}
}

func newEmbedder(log *logger.Logger, cfg EmbedConfig, retries int) (rag.Embedder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return openai.NewClient(log, openai.Config{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			EmbedModel: cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: retries,
		})
	default:
		return ollama.NewClient(log, ollama.Config{
			BaseURL:    cfg.BaseURL,
			EmbedModel: cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: retries,
		})
	}
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
