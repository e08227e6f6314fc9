package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/assuranalytics/internal/config"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/spf13/cobra"
)

var initFlags struct {
	force      bool
	sampleData int
	seed       uint64
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and an optional demo portfolio",
	Long: `Creates a sample .assuranalytics.yaml config file. With --sample-data N it also
writes a synthetic portfolio of N insured to data/assurance_data_1000.csv.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
	initCmd.Flags().IntVar(&initFlags.sampleData, "sample-data", 0, "Also write a synthetic portfolio with this many insured")
	initCmd.Flags().Uint64Var(&initFlags.seed, "seed", 42, "Random seed of the synthetic portfolio")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".assuranalytics.yaml"

	if err := writeIfNotExists(configPath, sampleConfig, initFlags.force); err != nil {
		return err
	}
	created := []string{configPath}

	if initFlags.sampleData > 0 {
		var buf bytes.Buffer
		if err := portfolio.WriteCSV(&buf, portfolio.Sample(initFlags.sampleData, initFlags.seed)); err != nil {
			return fmt.Errorf("generate sample portfolio: %w", err)
		}
		if err := writeIfNotExists(config.DefaultData, buf.String(), initFlags.force); err != nil {
			return err
		}
		created = append(created, config.DefaultData)
	}

	fmt.Printf("Created %s\n", strings.Join(created, " and "))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .assuranalytics.yaml to point 'data' at your portfolio (local path or s3://bucket/key)")
	fmt.Println("  2. Run: assuranalytics serve")
	fmt.Printf("  3. Open http://%s\n", config.DefaultListen)
	return nil
}

func writeIfNotExists(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, []byte(content), 0o644)
}

const sampleConfig = `# assuranalytics configuration
# See: https://github.com/ppiankov/assuranalytics

# Portfolio: semicolon-separated CSV, local path or s3://bucket/key
data: data/assurance_data_1000.csv

# Dashboard listen address
listen: 127.0.0.1:9753

# Rows shown in the data table
table_rows: 100

# Output format of 'assuranalytics summary': text or json
format: text

# Dataset load timeout
timeout: 1m

# HTTP timeouts. Exports are rendered within the write timeout.
read_timeout: 15s
write_timeout: 60s

# Write logs as JSON
log_json: false

# AWS settings for s3:// datasets (or set AWS_PROFILE / AWS_REGION)
# aws:
#   profile: default
#   region: eu-west-3
`
