package cli

import (
	"careernav/internal/common"
	"careernav/internal/watcher"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyze resumes dropped into a directory",
	Long: `Watch a directory and analyze every supported resume that is created
or rewritten there. The report is written as <name>.report.<ext> next to the
resume, or into --output-dir when set.

The directory defaults to watch.dir from the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("output-dir", "", "Directory for report files (default: next to each resume)")
	watchCmd.Flags().String("format", "", "Report format: json, text, or markdown")
	watchCmd.Flags().Duration("debounce", 0, "Quiet period before a changed file is analyzed (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if len(args) == 1 {
		cfg.Watch.Dir = args[0]
	}
	overrideString(cmd, "output-dir", &cfg.Watch.OutputDir)
	overrideString(cmd, "format", &cfg.Watch.Format)
	if cmd.Flags().Changed("debounce") {
		if delay, err := cmd.Flags().GetDuration("debounce"); err == nil {
			cfg.Watch.DebounceDelay = delay
		}
	}

	format := cfg.OutputFormat()
	if err := common.ValidateOutputFormat(format, cfg.App.SupportedFormats); err != nil {
		return err
	}

	service, om, err := newAnalysisService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownObservability(om, logger)

	return watcher.New(cfg.Watch, format, service, logger).Run(cmd.Context())
}
