// cmd/ikigai-api/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/handlers"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/middleware"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/auth"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
)

var withWorkers bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API on the configured port. With --with-workers and
camunda.enabled the workflow job workers run in the same process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&withWorkers, "with-workers", false, "also run the workflow job workers")
}

func runServe(cmd *cobra.Command, args []string) error {
	zapLog.Info("Starting ikigai API...")

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	svc, err := buildServices(ctx, obs)
	if err != nil {
		zapLog.Error("dependency initialization failed", zap.Error(err))
		return err
	}
	defer svc.Close()

	router := api.NewRouter(routerConfig(svc))

	analysisTimeout := config.GetDuration(cfg.Server.AnalysisTimeout)
	server := api.NewServer(cfg.Server.Address(), router, analysisTimeout+10*time.Second, log)

	var pool *workerPool
	if withWorkers && cfg.Camunda.Enabled {
		pool, err = startWorkers(ctx, svc)
		if err != nil {
			zapLog.Error("workers failed to start", zap.Error(err))
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if pool != nil {
		pool.Stop(shutdownCtx)
	}

	zapLog.Info("ikigai API stopped gracefully")
	return nil
}

func routerConfig(svc *services) api.RouterConfig {
	responder := response.NewResponder(cfg.App.IsProduction(), log)

	var counter middleware.WindowCounter
	var redisPinger handlers.Pinger
	if svc.redis != nil {
		counter = svc.redis
		redisPinger = svc.redis
	}
	limit := cfg.RateLimit.Requests
	if !cfg.RateLimit.Enabled {
		limit = 0
	}

	return api.RouterConfig{
		ServiceName:     cfg.App.Name,
		AllowedOrigins:  cfg.Server.AllowedOrigins(),
		RequestTimeout:  config.GetDuration(cfg.Server.RequestTimeout),
		AnalysisTimeout: config.GetDuration(cfg.Server.AnalysisTimeout),
		MetricsEnabled:  cfg.Server.MetricsEnabled,
		Logger:          log,

		AuthMiddleware: middleware.NewAuthMiddleware(log, auth.NewVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.JWTAudience), responder),
		RateLimiter:    middleware.NewRateLimiter(counter, limit, config.GetDuration(cfg.RateLimit.Window), log, responder),

		AnalyzeHandler: handlers.NewAnalyzeHandler(svc.analyzer, responder),
		ReportHandler:  handlers.NewReportHandler(svc.store, responder),
		ResumeHandler:  handlers.NewResumeHandler(svc.uploads, cfg.Server.MaxUploadBytes, responder),
		HealthHandler:  handlers.NewHealthHandler(svc.store, redisPinger),
	}
}
