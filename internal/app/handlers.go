package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/docqa-backend/internal/http/handlers"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	User   *httpH.UserHandler
	File   *httpH.FileHandler
	Query  *httpH.QueryHandler
}

func wireHandlers(log *logger.Logger, services Services, checks map[string]httpH.HealthCheck) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(checks),
		Auth:   httpH.NewAuthHandler(services.Auth),
		User:   httpH.NewUserHandler(services.User),
		File:   httpH.NewFileHandler(services.File),
		Query:  httpH.NewQueryHandler(services.Query),
	}
}

func healthChecks(gdb *gorm.DB, services Services, clients Clients) map[string]httpH.HealthCheck {
	checks := map[string]httpH.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"llm": func(context.Context) error {
			_, err := services.Model.LLM()
			return err
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return clients.Redis.Ping(ctx).Err() }
	}
	if clients.Qdrant != nil {
		checks["vector_store"] = vectorStoreCheck(clients.Qdrant)
	}
	return checks
}
