package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/config"
	"github.com/user/verity-adk/pkg/logger"
	"github.com/user/verity-adk/pkg/metrics"
)

var rootCmd = &cobra.Command{
	Use:   "verity-adk",
	Short: "AI-assisted authenticity analysis and reporting (ADK Pattern)",
	Long: `Verity-ADK sends files to a multimodal model for an authenticity
assessment, normalizes whatever the model returns into one canonical finding,
and lays that finding out as a paginated PDF report.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if cfg, err := config.LoadConfig(); err == nil {
			level = cfg.LogLevel
		}
		if DebugMode {
			level = "debug"
		}
		log = logger.New(logger.Config{Level: level, JSON: JSONLogs})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if MetricsFile != "" {
			if err := metrics.WriteTextfile(MetricsFile); err != nil {
				log.Warn("metrics not written", zap.String("path", MetricsFile), zap.Error(err))
			}
		}
		_ = log.Sync()
	},
}

var (
	DebugMode   bool
	JSONLogs    bool
	MetricsFile string

	log = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&JSONLogs, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}
