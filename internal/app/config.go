package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/docqa-backend/internal/data/db"
	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/envutil"
	"github.com/yungbote/docqa-backend/internal/services"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type LLMConfig struct {
	Provider     string
	BaseURL      string
	Model        string
	APIKey       string
	MaxNewTokens int
	Temperature  float64
	KeepAlive    string
	Timeout      time.Duration
	MaxRetries   int
}

type EmbedConfig struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	BatchSize   int
	Concurrency int
	Timeout     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type Config struct {
	LogMode         string
	Port            string
	BaseDir         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	DB         db.Config
	Tokens     services.TokenConfig
	BcryptCost int

	LLM           LLMConfig
	Embed         EmbedConfig
	VectorStore   string
	RAGConfigFile string
	IndexTimeout  time.Duration

	Redis         RedisConfig
	FolderWatch   bool
	WatchDebounce time.Duration

	Otel observability.OtelConfig
}

// LoadConfig reads the process environment. Call envutil.LoadDotEnv first to pick up a .env file.
func LoadConfig() (Config, error) {
	cfg := Config{
		LogMode:         envutil.String("LOG_MODE", "development"),
		Port:            envutil.String("PORT", "8000"),
		BaseDir:         envutil.String("BASE_DIR", "./data/users"),
		CORSOrigins:     envutil.List("CORS_ALLOW_ORIGINS", []string{"*"}),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT_SECONDS", time.Second, 20*time.Second),

		DB: db.Config{
			Driver:   envutil.String("DATABASE", db.DriverPostgres),
			Host:     envutil.String("DATABASE_HOST", "localhost"),
			Port:     envutil.String("DATABASE_PORT", "5432"),
			Username: envutil.String("DATABASE_USERNAME", "postgres"),
			Password: envutil.String("DATABASE_PASSWORD", ""),
			Name:     envutil.String("DATABASE_NAME", "docqa"),
			SSLMode:  envutil.String("DATABASE_SSLMODE", "disable"),
		},
		Tokens: services.TokenConfig{
			Secret:    envutil.String("SECRET_KEY", ""),
			Algorithm: envutil.String("ALGORITHM", "HS256"),
			AccessTTL: envutil.Duration("ACCESS_TOKEN_EXPIRE_MINUTES", time.Minute, 30*time.Minute),
			ResetTTL:  envutil.Duration("RESET_TOKEN_EXPIRE_MINUTES", time.Minute, 15*time.Minute),
		},
		BcryptCost: envutil.Int("BCRYPT_COST", 12),

		LLM: LLMConfig{
			Provider:     strings.ToLower(envutil.String("LLM_PROVIDER", ProviderOllama)),
			BaseURL:      envutil.String("LLM_BASE_URL", ""),
			Model:        envutil.String("LLM_MODEL", "llama3.2"),
			APIKey:       envutil.String("LLM_API_KEY", ""),
			MaxNewTokens: envutil.Int("LLM_MAX_NEW_TOKENS", 1024),
			Temperature:  envutil.Float("LLM_TEMPERATURE", 0.5),
			KeepAlive:    envutil.String("LLM_KEEP_ALIVE", "-1"),
			Timeout:      envutil.Duration("LLM_TIMEOUT_SECONDS", time.Second, 300*time.Second),
			MaxRetries:   envutil.Int("LLM_MAX_RETRIES", 2),
		},
		VectorStore:   strings.ToLower(envutil.String("VECTOR_STORE", string(VectorProviderLocal))),
		RAGConfigFile: envutil.String("RAG_CONFIG_FILE", ""),
		IndexTimeout:  envutil.Duration("INDEX_TIMEOUT_SECONDS", time.Second, 10*time.Minute),

		Redis: RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			LockTTL:  envutil.Duration("INDEX_LOCK_TTL_SECONDS", time.Second, 15*time.Minute),
		},
		FolderWatch:   envutil.Bool("FOLDER_WATCH_ENABLED", false),
		WatchDebounce: envutil.Duration("FOLDER_WATCH_DEBOUNCE_MS", time.Millisecond, 2*time.Second),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "docqa"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}

	// Embeddings default to the LLM endpoint.
	cfg.Embed = EmbedConfig{
		Provider:    strings.ToLower(envutil.String("EMBED_PROVIDER", cfg.LLM.Provider)),
		BaseURL:     envutil.String("EMBED_BASE_URL", cfg.LLM.BaseURL),
		Model:       envutil.String("EMBED_MODEL", "all-minilm"),
		APIKey:      envutil.String("EMBED_API_KEY", cfg.LLM.APIKey),
		BatchSize:   envutil.Int("EMBED_BATCH_SIZE", 0),
		Concurrency: envutil.Int("EMBED_CONCURRENCY", 4),
		Timeout:     envutil.Duration("EMBED_TIMEOUT_SECONDS", time.Second, 120*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Tokens.Secret) == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	switch strings.ToUpper(c.Tokens.Algorithm) {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("unsupported ALGORITHM=%q (want HS256, HS384 or HS512)", c.Tokens.Algorithm))
	}
	if !knownProvider(c.LLM.Provider) {
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER=%q", c.LLM.Provider))
	}
	if !knownProvider(c.Embed.Provider) {
		errs = append(errs, fmt.Errorf("unsupported EMBED_PROVIDER=%q", c.Embed.Provider))
	}
	if strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("BASE_DIR is required"))
	}
	return errors.Join(errs...)
}

func knownProvider(p string) bool {
	return p == ProviderOllama || p == ProviderOpenAI
}
