package commands

import (
	"fmt"
	"time"

	"github.com/ppiankov/assuranalytics/internal/report"
	"github.com/spf13/cobra"
)

var summaryFlags struct {
	data    string
	format  string
	filters filterFlags
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the KPIs and insights of the filtered portfolio",
	Long: `Compute the dashboard's indicators for the filtered portfolio and print them to
stdout, as an aligned text summary or as the JSON dashboard payload.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFlags.data, "data", "", "Portfolio CSV path or s3://bucket/key")
	summaryCmd.Flags().StringVar(&summaryFlags.format, "format", "", "Output format: text or json (default: config or text)")
	summaryFlags.filters.register(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	name := summaryFlags.format
	if name == "" {
		name = appConfig.Format
	}
	if name == "" {
		name = string(report.FormatText)
	}
	format, err := report.ParseFormat(name)
	if err != nil || (format != report.FormatText && format != report.FormatJSON) {
		return fmt.Errorf("unsupported format: %s (use text or json)", name)
	}
	criteria, err := summaryFlags.filters.criteria()
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context(), dataLocation(summaryFlags.data), appConfig)
	if err != nil {
		return err
	}
	data := reportData(ds, criteria, time.Now(), appConfig.TableRows)
	return generate(cmd.OutOrStdout(), format, data)
}
