package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketbeacon/marketbeacon/internal/api"
)

var (
	serveAddr   string
	serveNoCron bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with scheduled collection",
	Long: `Serve exposes the HTTP API (collection trigger, insight queries,
ad-hoc verification, health, metrics) and runs collection cycles on
the configured cron schedule until interrupted.

Example:
  marketbeacon serve
  marketbeacon serve --addr :9090 --no-cron`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "disable scheduled collection")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.New(a.collector, a.engine, a.verifier, prometheus.NewRegistry(), a.logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var scheduler *cron.Cron
	if !serveNoCron && cfg.Collector.CronSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Collector.CronSchedule, func() {
			cycleCtx, cancel := context.WithTimeout(ctx, cfg.Collector.SourceTimeout*4)
			defer cancel()

			if _, err := a.collector.Collect(cycleCtx); err != nil {
				a.logger.Error("scheduled collection failed", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", cfg.Collector.CronSchedule, err)
		}
		scheduler.Start()
		a.logger.Info("scheduled collection enabled", zap.String("schedule", cfg.Collector.CronSchedule))
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	return nil
}
