package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/assuranalytics/internal/server"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	data      string
	listen    string
	tableRows int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Load the portfolio once and serve the dashboard. Every filter change recomputes
KPIs, insights, charts and the data table from the loaded records.

If the dataset cannot be loaded the dashboard still starts, on an empty portfolio.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.data, "data", "", "Portfolio CSV path or s3://bucket/key (default: config or data/assurance_data_1000.csv)")
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "Listen address (default: config or 127.0.0.1:9753)")
	serveCmd.Flags().IntVar(&serveFlags.tableRows, "table-rows", 0, "Rows shown in the data table (default 100)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds := loadOrEmpty(ctx, dataLocation(serveFlags.data), appConfig)

	addr := serveFlags.listen
	if addr == "" {
		addr = appConfig.ListenAddr()
	}
	srv := server.New(ds, server.Config{
		Addr:         addr,
		ReadTimeout:  appConfig.ReadTimeoutDuration(),
		WriteTimeout: appConfig.WriteTimeoutDuration(),
		TableRows:    tableRows(serveFlags.tableRows),
		Tool:         toolName,
		Version:      version,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.ErrOrStderr(), "Dashboard running on http://%s\n", srv.Addr())

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dashboard: %w", err)
	}
	slog.Debug("Dashboard stopped")
	return <-errCh
}
