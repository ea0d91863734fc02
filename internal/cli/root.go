package cli

import (
	"context"
	"fmt"
	"time"

	"careernav/internal/analysis"
	"careernav/internal/config"
	"careernav/internal/errors"
	"careernav/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "careernav",
	Short: "Score resumes and suggest improvements",
	Long: `careernav reads resumes in text, PDF, DOCX or HTML form, detects
technical skills, scores the resume from 0 to 100 and suggests concrete
improvements. It runs as a one-shot CLI, an HTTP API, a RabbitMQ worker or an
inbox directory watcher.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newAnalysisService builds the observability manager and the analysis
// service recording into it. The caller must shut the manager down.
func newAnalysisService(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*analysis.Service, *observability.ObservabilityManager, error) {
	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	service, err := analysis.NewService(ctx, cfg, om, logger)
	if err != nil {
		shutdownObservability(om, logger)
		return nil, nil, fmt.Errorf("failed to create analysis service: %w", err)
	}

	return service, om, nil
}

// shutdownObservability flushes exporters with a bounded timeout
func shutdownObservability(om *observability.ObservabilityManager, logger *errors.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		logger.LogError(err, "Failed to shutdown observability")
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
