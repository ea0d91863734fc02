package cli

import (
	"fmt"

	"careernav/internal/common"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files or globs...]",
	Short: "Score one or more resumes",
	Long: `Analyze resumes and print a report with the overall score, grade,
detected skills and suggestions.

Arguments may be plain paths or glob patterns, including ** for recursive
matches (quote them so the shell does not expand them):

  careernav analyze resume.pdf
  careernav analyze 'inbox/**/*.docx' --format markdown -o reports.md

A single file produces one report. Several files produce a list of
{file, report|error} entries analyzed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())

		format, err := common.ResolveOutputFormat(analyzeConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		analyzeConfig.OutputFormat = format

		return common.ValidateConcurrency(analyzeConfig.Concurrency)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().IntVarP(&analyzeConfig.Concurrency, "concurrency", "c", 4, "Number of resumes analyzed in parallel")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(nil).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	service, om, err := newAnalysisService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownObservability(om, logger)

	logger.Info("Starting resume analysis",
		"inputs", len(args),
		"output_format", analyzeConfig.OutputFormat,
		"tagger", service.TaggerName())

	if err := common.RunAnalyzeCommand(cmd.Context(), logger, service, analyzeConfig, args); err != nil {
		return fmt.Errorf("failed to analyze resumes: %w", err)
	}

	logger.Info("Resume analysis completed successfully")
	return nil
}
