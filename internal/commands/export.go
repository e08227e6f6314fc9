package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/report"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	data       string
	format     string
	outputFile string
	tableRows  int
	filters    filterFlags
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered portfolio to Excel, HTML or PDF",
	Long: `Apply the filter flags to the portfolio and write the same report the dashboard's
export buttons produce. Without --output the file is named after the format and
the current time, e.g. rapport_assuranalytics_20260314_092653.pdf.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.data, "data", "", "Portfolio CSV path or s3://bucket/key")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", string(report.FormatXLSX), "Export format: xlsx, html, pdf")
	exportCmd.Flags().StringVarP(&exportFlags.outputFile, "output", "o", "", "Output file path (default: timestamped name in the current directory)")
	exportCmd.Flags().IntVar(&exportFlags.tableRows, "table-rows", 0, "Rows kept in table-based sections")
	exportFlags.filters.register(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(exportFlags.format)
	if err != nil || !slices.Contains(report.Exports, format) {
		return fmt.Errorf("unsupported format: %s (use xlsx, html, or pdf)", exportFlags.format)
	}
	criteria, err := exportFlags.filters.criteria()
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context(), dataLocation(exportFlags.data), appConfig)
	if err != nil {
		return err
	}

	now := time.Now()
	data := reportData(ds, criteria, now, tableRows(exportFlags.tableRows))

	path := exportFlags.outputFile
	if path == "" {
		path = report.FileName(format, now)
	}
	if err := writeReport(path, format, data); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	slog.Info("Report exported", "format", format, "path", path, "records", len(data.Records))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d assurés)\n", path, len(data.Records))
	return nil
}

// reportData filters ds and assembles the input of every reporter.
func reportData(ds *portfolio.Dataset, criteria portfolio.Criteria, now time.Time, rows int) report.Data {
	full := ds.Records()
	return report.Data{
		Tool:      toolName,
		Version:   version,
		Generated: now,
		Source:    ds.Source(),
		Criteria:  criteria,
		Records:   portfolio.Filter(full, criteria),
		Full:      full,
		TableRows: rows,
	}
}

// writeReport renders the report to path, removing the file if rendering fails.
func writeReport(path string, format report.Format, data report.Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return generate(f, format, data)
}

func generate(w io.Writer, format report.Format, data report.Data) error {
	reporter, err := report.New(format, w)
	if err != nil {
		return err
	}
	return reporter.Generate(data)
}
