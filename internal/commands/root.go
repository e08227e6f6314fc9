package commands

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/assuranalytics/internal/config"
	"github.com/ppiankov/assuranalytics/internal/logging"
	"github.com/spf13/cobra"
)

const toolName = "assuranalytics"

var (
	verbose bool
	logJSON bool
	version string
	commit  string
	date    string

	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "assuranalytics",
	Short: "assuranalytics — insurance claims and policyholder analytics",
	Long: `assuranalytics loads an insurance portfolio (local CSV or s3://bucket/key) and
serves an interactive dashboard: filters, KPIs, insights, 13 charts and a data table.

The filtered view can be exported to Excel, HTML or PDF from the browser or the CLI.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg, err := config.Load(".")
		logging.Init(verbose, logJSON || cfg.LogJSON)
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		}
		appConfig = cfg
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit: %s, built: %s)\n", toolName, version, commit, date)
	},
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
