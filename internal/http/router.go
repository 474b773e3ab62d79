package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/docqa-backend/internal/http/handlers"
	httpMW "github.com/yungbote/docqa-backend/internal/http/middleware"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	CORSOrigins    []string
	TracingEnabled bool
	ServiceName    string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	FileHandler    *httpH.FileHandler
	QueryHandler   *httpH.QueryHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log.With("middleware", "RequestLogger")))
	r.Use(httpMW.Recovery(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/login", cfg.AuthHandler.Login)
		r.POST("/signup", cfg.AuthHandler.Signup)
		r.POST("/reset_password_request", cfg.AuthHandler.RequestPasswordReset)
		r.POST("/reset_password", cfg.AuthHandler.ResetPassword)
	}
	if cfg.UserHandler != nil {
		r.POST("/users", cfg.UserHandler.Create)
	}

	protected := r.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/users/me", cfg.UserHandler.GetMe)
			protected.GET("/users", cfg.UserHandler.List)
			protected.GET("/users/:user_id", cfg.UserHandler.Get)
			protected.GET("/users/email/:email", cfg.UserHandler.GetByEmail)
			protected.PUT("/users/:user_id", cfg.UserHandler.Update)
			protected.DELETE("/users/:user_id", cfg.UserHandler.Delete)
			protected.POST("/users/change_password", cfg.UserHandler.ChangePassword)
		}

		// Files
		if cfg.FileHandler != nil {
			protected.POST("/upload/:user_id/", cfg.FileHandler.Upload)
			protected.GET("/files/:user_id/", cfg.FileHandler.List)
			protected.DELETE("/files/:user_id/:file_id/", cfg.FileHandler.Delete)
		}

		// Queries
		if cfg.QueryHandler != nil {
			protected.GET("/query", cfg.QueryHandler.Answer)
			protected.GET("/queries/history", cfg.QueryHandler.History)
		}
	}

	return r
}
