package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/openai"
	"github.com/yungbote/docqa-backend/internal/rag"
)

var errModelUnavailable = &apierr.Error{
	Status:  http.StatusServiceUnavailable,
	Code:    "model_unavailable",
	Message: "Language model is not loaded",
}

// LanguageModel is a generator with an explicit lifecycle. The Ollama client satisfies it directly.
type LanguageModel interface {
	rag.Generator
	Model() string
	Load(ctx context.Context) error
	Unload(ctx context.Context) error
}

type ModelService interface {
	Load(ctx context.Context) error
	Unload(ctx context.Context) error
	LLM() (rag.Generator, error)
	ModelName() string
}

type modelService struct {
	log    *logger.Logger
	source LanguageModel

	mu     sync.RWMutex
	active LanguageModel
}

func NewModelService(log *logger.Logger, model LanguageModel) ModelService {
	return &modelService{log: log.With("service", "ModelService"), source: model}
}

// Load warms the model once at startup. Calling it again is a no-op.
func (ms *modelService) Load(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.active != nil {
		return nil
	}
	if ms.source == nil {
		return fmt.Errorf("load model: no model configured")
	}
	if err := ms.source.Load(ctx); err != nil {
		return fmt.Errorf("load model %s: %w", ms.source.Model(), err)
	}
	ms.active = ms.source
	ms.log.Info("language model ready", "model", ms.source.Model())
	return nil
}

// Unload releases the model and drops the handle. Later LLM calls return 503.
func (ms *modelService) Unload(ctx context.Context) error {
	ms.mu.Lock()
	active := ms.active
	ms.active = nil
	ms.mu.Unlock()
	if active == nil {
		return nil
	}
	if err := active.Unload(ctx); err != nil {
		return fmt.Errorf("unload model %s: %w", active.Model(), err)
	}
	ms.log.Info("language model unloaded", "model", active.Model())
	return nil
}

func (ms *modelService) LLM() (rag.Generator, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.active == nil {
		return nil, errModelUnavailable
	}
	return ms.active, nil
}

func (ms *modelService) ModelName() string {
	if ms.source == nil {
		return ""
	}
	return ms.source.Model()
}

type openAIModel struct {
	*openai.Client
}

// NewOpenAIModel adapts an OpenAI-compatible client. Load verifies the model exists; Unload is a no-op.
func NewOpenAIModel(c *openai.Client) LanguageModel {
	return openAIModel{Client: c}
}

func (m openAIModel) Load(ctx context.Context) error { return m.Ping(ctx) }

func (m openAIModel) Unload(context.Context) error { return nil }
