// cmd/ikigai-api/deps.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/genai"

	awsclients "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/aws"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/database"
	httpclient "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/http"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/storage"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/llm/completion"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/persistence"
	generateanalysis "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/career-analysis/generate-analysis"
	notifyreportready "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/communication/notify-report-ready"
	parseresume "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/resume/parse-resume"
	uploadresume "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/resume/upload-resume"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// Logger adapters for workers that declare their own Logger interfaces
type analysisLoggerAdapter struct {
	logger.Logger
}

func (a *analysisLoggerAdapter) With(fields map[string]interface{}) generateanalysis.Logger {
	return &analysisLoggerAdapter{a.Logger.With(fields)}
}

type parseResumeLoggerAdapter struct {
	logger.Logger
}

func (a *parseResumeLoggerAdapter) With(fields map[string]interface{}) parseresume.Logger {
	return &parseResumeLoggerAdapter{a.Logger.With(fields)}
}

type notifyLoggerAdapter struct {
	logger.Logger
}

func (a *notifyLoggerAdapter) With(fields map[string]interface{}) notifyreportready.Logger {
	return &notifyLoggerAdapter{a.Logger.With(fields)}
}

// services holds every long-lived client shared by the commands.
type services struct {
	postgres *database.PostgresClient
	redis    *database.RedisClient
	store    *persistence.Store
	bucket   *storage.Bucket
	gemini   *genai.Client

	llm      *completion.Client
	notifier *notifyreportready.Handler
	analyzer *generateanalysis.Handler
	parser   *parseresume.Handler
	uploads  *uploadresume.Service
}

func (s *services) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if s.postgres != nil {
		if err := s.postgres.Close(); err != nil {
			zapLog.Error("Error closing PostgreSQL pool", zap.Error(err))
		}
	}
}

// connectPostgres opens the pool and waits for the database to accept connections.
func connectPostgres(ctx context.Context) (*database.PostgresClient, *persistence.Store, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			_ = pg.Close()
			return err
		}
		return nil
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, nil, err
	}
	zapLog.Info("PostgreSQL connected successfully")

	store := persistence.New(pg.GetDB(), persistence.Options{RLSEnabled: cfg.Supabase.RLSEnabled})
	return pg, store, nil
}

func connectRedis(ctx context.Context) (*database.RedisClient, error) {
	var rc *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		rc, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return err
		}
		return nil
	}, 5, time.Second, zapLog, "Redis connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Redis connected successfully")
	return rc, nil
}

func newCompletionClient() *completion.Client {
	groq := cfg.APIs.Groq
	return completion.NewClient(completion.Config{
		Provider:    "groq",
		BaseURL:     groq.BaseURL,
		APIKey:      groq.APIKey,
		Model:       groq.Model,
		Temperature: &groq.Temperature,
		MaxTokens:   groq.MaxTokens,
		JSONMode:    groq.JSONMode,
		Transport: retry.Policy{
			MaxRetries: cfg.Retry.TransportMaxRetries,
			BaseDelay:  config.GetDuration(cfg.Retry.TransportBaseDelay),
			MaxDelay:   config.GetDuration(cfg.Retry.TransportMaxDelay),
		},
	}, httpclient.NewClient(config.GetDuration(groq.Timeout)), log)
}

func newNotifier(ctx context.Context) (*notifyreportready.Handler, error) {
	var sesClient notifyreportready.SESService
	var snsClient notifyreportready.SNSService

	region := cfg.Notifications.AWS.Region
	if cfg.Notifications.Email.Enabled {
		c, err := awsclients.NewSESClient(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("ses client: %w", err)
		}
		sesClient = c
	}
	if cfg.Notifications.SNS.Enabled {
		c, err := awsclients.NewSNSClient(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("sns client: %w", err)
		}
		snsClient = c
	}

	return notifyreportready.NewHandler(notifyreportready.ConfigFrom(cfg), sesClient, snsClient, &notifyLoggerAdapter{log}), nil
}

// buildServices connects to every backing service and assembles the domain
// handlers. Redis is only connected when rate limiting is on.
func buildServices(ctx context.Context, obs *observability.Observability) (*services, error) {
	s := &services{}

	pg, store, err := connectPostgres(ctx)
	if err != nil {
		return nil, err
	}
	s.postgres, s.store = pg, store
	if err := pg.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		zapLog.Warn("pool metrics not exported", zap.Error(err))
	}

	if cfg.RateLimit.Enabled && cfg.Database.Redis.Address != "" {
		rc, err := connectRedis(ctx)
		if err != nil {
			// without a counter the limiter passes every request
			zapLog.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			s.redis = rc
		}
	}

	s3Client, err := storage.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	s.bucket = storage.NewBucket(s3Client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)

	s.gemini, err = parseresume.NewGeminiClient(ctx, cfg.APIs.Gemini,
		httpclient.NewClient(config.GetDuration(cfg.APIs.Gemini.Timeout)).HTTPClient())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	var generator parseresume.Generator
	if s.gemini != nil {
		generator = s.gemini.Models
	} else {
		zapLog.Warn("Gemini API key not set, resumes will be stored without structured data")
	}

	s.notifier, err = newNotifier(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	var notifier generateanalysis.Notifier
	if cfg.Notifications.Enabled() {
		notifier = s.notifier
	}

	s.llm = newCompletionClient()
	if !s.llm.Configured() {
		zapLog.Warn("Groq API key not set, analysis requests will fail")
	}

	s.analyzer = generateanalysis.NewHandler(generateanalysis.ConfigFrom(cfg), generateanalysis.Dependencies{
		LLM:           s.llm,
		Store:         store,
		Notifier:      notifier,
		Observability: obs,
	}, &analysisLoggerAdapter{log})

	s.parser = parseresume.NewHandler(parseresume.ConfigFrom(cfg), s.bucket, generator, &parseResumeLoggerAdapter{log})

	s.uploads = uploadresume.NewService(uploadresume.ServiceDependencies{
		Objects: s.bucket,
		Store:   store,
		Parser:  s.parser.Extractor(),
		Logger:  log,
	}, uploadresume.ConfigFrom(cfg))

	return s, nil
}
