// internal/api/router.go
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/handlers"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/middleware"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	AnalysisTimeout time.Duration
	MetricsEnabled  bool
	Logger          logger.Logger

	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter

	AnalyzeHandler *handlers.AnalyzeHandler
	ReportHandler  *handlers.ReportHandler
	ResumeHandler  *handlers.ResumeHandler
	HealthHandler  *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}
	router.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/api/health", cfg.HealthHandler.Check)
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// ===============
	// || Protected ||
	// ===============
	requireAuth := cfg.AuthMiddleware.RequireAuth()

	router.POST("/analyze",
		middleware.Timeout(cfg.AnalysisTimeout),
		requireAuth,
		cfg.RateLimiter.Limit("analyze"),
		cfg.AnalyzeHandler.Analyze,
	)
	// uploads include structured extraction and run under the analysis deadline
	router.POST("/api/resume/upload",
		middleware.Timeout(cfg.AnalysisTimeout),
		requireAuth,
		cfg.ResumeHandler.Upload,
	)

	api := router.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout), requireAuth)
	{
		// Reports
		api.GET("/reports/user/:userId", cfg.ReportHandler.ListByUser)
		api.GET("/reports/report/:reportId", cfg.ReportHandler.Get)
		api.POST("/reports", cfg.ReportHandler.Create)

		// Resume
		api.GET("/resume/user-resume/:userId", cfg.ResumeHandler.Latest)
	}

	return router
}
