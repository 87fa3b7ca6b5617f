// cmd/ikigai-api/worker.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/camunda"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
	generateanalysis "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/career-analysis/generate-analysis"
	notifyreportready "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/communication/notify-report-ready"
	parseresume "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/resume/parse-resume"
)

var healthAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the workflow job workers",
	Long: `Connects to the Zeebe gateway and opens a job worker for each enabled
task type (generate-analysis, parse-resume, notify-report-ready). A small
health and metrics listener runs alongside.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&healthAddr, "health-addr", ":8080", "listen address for /health, /ready and /metrics")
}

// workerPool owns the broker connection and the open job workers.
type workerPool struct {
	client  *camunda.Client
	workers []*camunda.CamundaWorker
}

func (p *workerPool) Stop(ctx context.Context) {
	for _, w := range p.workers {
		w.Stop(ctx)
	}
	if err := p.client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
}

func startWorkers(ctx context.Context, svc *services) (*workerPool, error) {
	// --- Init Zeebe Client with retry ---
	var client *camunda.Client
	err := retryWithBackoff(func() error {
		var err error
		client, err = camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Zeebe client connected successfully")

	pool := &workerPool{client: client}
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		pool.workers = append(pool.workers, camunda.NewWorker(client.GetClient(), taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, zapLog))
	}

	register(generateanalysis.TaskType, svc.analyzer)
	register(parseresume.TaskType, svc.parser)
	register(notifyreportready.TaskType, svc.notifier)

	zapLog.Info("workers registered", zap.Int("count", len(pool.workers)))
	return pool, nil
}

func runWorker(cmd *cobra.Command, args []string) error {
	zapLog.Info("Starting worker manager...")

	obs := observability.New(cfg.App.Name+"-worker", log)
	defer obs.Shutdown()

	ctx := context.Background()

	svc, err := buildServices(ctx, obs)
	if err != nil {
		zapLog.Error("dependency initialization failed", zap.Error(err))
		return err
	}
	defer svc.Close()

	pool, err := startWorkers(ctx, svc)
	if err != nil {
		zapLog.Error("zeebe client failed after retries", zap.Error(err))
		return err
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.client.ExecuteWithRetry(r.Context(), "topology", pool.client.HealthCheck); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	healthServer := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", healthAddr))
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Stop(shutdownCtx)
	_ = healthServer.Shutdown(shutdownCtx)

	zapLog.Info("Worker manager stopped gracefully")
	return nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
