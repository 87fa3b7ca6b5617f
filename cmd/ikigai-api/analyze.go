// cmd/ikigai-api/analyze.go
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	generateanalysis "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/career-analysis/generate-analysis"
)

var (
	analyzeResponses models.Responses
	analyzeUserID    string
	analyzeEmail     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis from the command line",
	Long: `Sends the four answers to the model and prints the analysis as JSON.

Without --user-id nothing is stored. With --user-id the responses and the
report are persisted exactly as POST /analyze would.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeResponses.Love, "love", "", "what you love")
	f.StringVar(&analyzeResponses.GoodAt, "good-at", "", "what you are good at")
	f.StringVar(&analyzeResponses.PaidFor, "paid-for", "", "what you can be paid for")
	f.StringVar(&analyzeResponses.WorldNeeds, "world-needs", "", "what the world needs")
	f.StringVar(&analyzeUserID, "user-id", "", "persist the report for this user")
	f.StringVar(&analyzeEmail, "email", "", "address for the report-ready notification")

	for _, name := range []string{"love", "good-at", "paid-for", "world-needs"} {
		_ = analyzeCmd.MarkFlagRequired(name)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.AnalysisTimeout))
	defer cancel()

	deps := generateanalysis.Dependencies{LLM: newCompletionClient()}
	if analyzeUserID != "" {
		pg, store, err := connectPostgres(ctx)
		if err != nil {
			return err
		}
		defer pg.Close()
		deps.Store = store
	}
	handler := generateanalysis.NewHandler(generateanalysis.ConfigFrom(cfg), deps, &analysisLoggerAdapter{log})

	var result interface{}
	if analyzeUserID == "" {
		analysis, attempts, err := handler.Analyze(ctx, analyzeResponses)
		if err != nil {
			return err
		}
		result = map[string]interface{}{"analysis": analysis, "attempts": attempts}
	} else {
		out, err := handler.Execute(ctx, &generateanalysis.Input{
			UserID:    analyzeUserID,
			Email:     analyzeEmail,
			Responses: analyzeResponses,
		})
		if err != nil {
			return err
		}
		result = out
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
