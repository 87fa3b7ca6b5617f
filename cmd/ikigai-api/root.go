// cmd/ikigai-api/root.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
)

var (
	// Global flags
	configPath string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ikigai-api",
	Short: "Ikigai career guidance backend",
	Long: `ikigai-api serves the career analysis HTTP API and runs the
workflow job workers behind it.

Configuration is read from configs/config.yaml (or --config), overlaid with
environment variables and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}

		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
		log = logger.NewZapAdapter(zapLog).With(map[string]interface{}{
			"service": cfg.App.Name,
			"env":     cfg.App.Environment,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(analyzeCmd)
}
