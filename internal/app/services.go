package app

import (
	"fmt"

	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/redislock"
	"github.com/yungbote/docqa-backend/internal/rag"
	"github.com/yungbote/docqa-backend/internal/services"
)

type Services struct {
	Tokens  services.TokenService
	Auth    services.AuthService
	User    services.UserService
	File    services.FileService
	Indexer services.IndexerService
	Model   services.ModelService
	Query   services.QueryService
}

func wireServices(
	log *logger.Logger,
	cfg Config,
	repos Repos,
	clients Clients,
	folders folderstore.Store,
	index rag.VectorIndex,
) (Services, error) {
	log.Info("Wiring services...")

	settings, err := rag.LoadSettings(cfg.RAGConfigFile)
	if err != nil {
		return Services{}, fmt.Errorf("load rag settings: %w", err)
	}
	if cfg.Embed.BatchSize > 0 {
		settings.EmbedBatchSize = cfg.Embed.BatchSize
	}
	splitter, err := settings.Splitter()
	if err != nil {
		return Services{}, fmt.Errorf("rag splitter: %w", err)
	}
	prompt, err := settings.Prompt()
	if err != nil {
		return Services{}, fmt.Errorf("rag prompt: %w", err)
	}

	tokens, err := services.NewTokenService(log, cfg.Tokens)
	if err != nil {
		return Services{}, fmt.Errorf("init token service: %w", err)
	}
	hasher := services.NewPasswordHasher(cfg.BcryptCost)

	builder := &rag.Builder{
		Log:         log.With("component", "IndexBuilder"),
		Loader:      &rag.DirectoryLoader{Log: log, Glob: settings.Glob, Reader: clients.PDF},
		Splitter:    splitter,
		Embedder:    clients.Embedder,
		Index:       index,
		BatchSize:   settings.EmbedBatchSize,
		Concurrency: cfg.Embed.Concurrency,
	}
	var locker services.FolderLocker
	if clients.Redis != nil {
		locker = services.NewRedisFolderLocker(log, redislock.New(clients.Redis, "docqa:lock:", cfg.Redis.LockTTL))
	}
	indexer := services.NewIndexerService(log, folders, builder, locker, cfg.IndexTimeout)

	models := services.NewModelService(log, clients.LLM)
	qa := &rag.RetrievalQA{
		Embedder: clients.Embedder,
		Index:    index,
		Prompt:   prompt,
		TopK:     settings.TopK,
	}

	return Services{
		Tokens:  tokens,
		Auth:    services.NewAuthService(log, repos.User, folders, tokens, hasher),
		User:    services.NewUserService(log, repos.User, folders, hasher),
		File:    services.NewFileService(log, repos.User, repos.File, folders, indexer),
		Indexer: indexer,
		Model:   models,
		Query:   services.NewQueryService(log, repos.QueryLog, index, qa, models),
	}, nil
}
