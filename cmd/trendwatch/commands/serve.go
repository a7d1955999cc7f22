package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendwatch/internal/api"
	"github.com/wonny/trendwatch/internal/api/handlers"
	"github.com/wonny/trendwatch/internal/scheduler"
	"github.com/wonny/trendwatch/internal/scheduler/jobs"
	"github.com/wonny/trendwatch/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 + 스케줄러 시작",
	Long: `Starts the HTTP API and the refresh scheduler.

Endpoints:
  GET  /health             - Health check
  GET  /api/tickers        - Normalized watch-list
  GET  /api/cards          - Latest snapshot (?refresh=true forces one)
  GET  /api/cards/{code}   - Evaluate one ticker
  POST /api/refresh        - Force a refresh
  GET  /metrics            - Prometheus metrics (METRICS_ENABLED)

Example:
  go run ./cmd/trendwatch serve
  go run ./cmd/trendwatch serve --port 9090`,
	RunE: runServe,
}

var (
	servePort      string
	serveNoRefresh bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default $PORT)")
	serveCmd.Flags().BoolVar(&serveNoRefresh, "no-initial-refresh", false, "skip the refresh at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"schedule": cfg.Watchlist.RefreshSchedule,
	}).Info("Initializing trendwatch")

	a := newApp(cfg, log)
	defer a.Close()

	// Scheduler
	sched := scheduler.New(log, scheduler.DefaultOptions())
	refreshJob := jobs.NewRefreshJob(a.service, cfg.Watchlist.RefreshSchedule, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	if err := sched.AddJob(jobs.NewCacheCleanupJob(a.service, log)); err != nil {
		return fmt.Errorf("add cleanup job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveNoRefresh {
		go func() {
			if _, err := sched.RunJob(ctx, refreshJob.Name()); err != nil {
				log.WithError(err).Warn("Initial refresh not run")
			}
		}()
	}

	// HTTP
	router := api.NewRouter(handlers.NewCardHandler(a.service, log), a.metrics, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
