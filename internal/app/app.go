package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/data/db"
	"github.com/yungbote/docqa-backend/internal/http"
	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/envutil"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/fswatch"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *http.Server

	watcher      *fswatch.Watcher
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

func New(ctx context.Context) (*App, error) {
	if err := envutil.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	vcfg, err := resolveVectorProviderConfig(cfg.VectorStore, normalizedDriver(cfg.DB.Driver))
	if err != nil {
		log.Sync()
		return nil, err
	}

	dbs, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	a := &App{Log: log, DB: dbs, Cfg: cfg, otelShutdown: otelShutdown}
	if err := a.wire(ctx, vcfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, vcfg VectorProviderConfig) error {
	folders, err := folderstore.New(a.Log, a.Cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("init folder store: %w", err)
	}
	clients, err := wireClients(ctx, a.Log, a.Cfg, vcfg)
	if err != nil {
		return err
	}
	a.Clients = clients

	index, err := wireVectorIndex(a.Log, vcfg, folders.BaseDir(), a.DB.DB(), clients.Qdrant)
	if err != nil {
		return fmt.Errorf("init vector index: %w", err)
	}
	a.Repos = wireRepos(a.DB.DB(), a.Log)
	a.Services, err = wireServices(a.Log, a.Cfg, a.Repos, clients, folders, index)
	if err != nil {
		return err
	}

	handlers := wireHandlers(a.Log, a.Services, healthChecks(a.DB.DB(), a.Services, clients))
	middleware := wireMiddleware(a.Log, a.Services)
	a.Server = wireServer(a.Log, a.Cfg, handlers, middleware)

	if a.Cfg.FolderWatch {
		w, err := fswatch.New(a.Log, folders.BaseDir(), []string{".pdf"}, a.Cfg.WatchDebounce)
		if err != nil {
			return fmt.Errorf("init folder watcher: %w", err)
		}
		a.watcher = w
	}
	return nil
}

// Start loads the language model and starts background watchers.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	timeout := a.Cfg.LLM.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, timeout)
	defer cancelLoad()
	if err := a.Services.Model.Load(loadCtx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.watcher != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.watcher.Run(runCtx, a.Services.Indexer.OnFolderChanged)
		}()
		a.Log.Info("Folder watcher started", "root", a.Cfg.BaseDir)
	}
	return nil
}

// Run serves HTTP until Shutdown is called.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown drains in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	a.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Services.Model != nil {
		if err := a.Services.Model.Unload(ctx); err != nil {
			a.Log.Warn("Model unload failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	a.Log.Sync()
}

func normalizedDriver(raw string) string {
	switch raw {
	case db.DriverSQLite, "sqlite3":
		return db.DriverSQLite
	default:
		return db.DriverPostgres
	}
}
