package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shashwat106/the-financial-blueprint/api"
	"github.com/shashwat106/the-financial-blueprint/config"
	"github.com/shashwat106/the-financial-blueprint/events"
	kafkaevents "github.com/shashwat106/the-financial-blueprint/events/kafka"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shashwat106/the-financial-blueprint/finance/store"
	"github.com/shashwat106/the-financial-blueprint/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the achievement scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{ConfigFile: flagConfig})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	benchmarks, err := cfg.BenchmarkSet()
	if err != nil {
		return fmt.Errorf("loading benchmarks: %w", err)
	}

	records, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	handler := api.NewHandler(records, benchmarks, publisher, logger)

	scheduler := api.NewAchievementScheduler(records, handler, logger)
	scheduler.Enabled = cfg.Scheduler.Enabled
	scheduler.Interval = cfg.Scheduler.Interval.Duration

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(handler, cfg.Server.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			"addr", srv.Addr,
			"backend", cfg.Storage.Backend,
			"benchmarks", benchmarks.Names(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// openStore returns the configured record store and its close function.
func openStore(cfg config.Config) (finance.Store, func() error, error) {
	if cfg.Storage.Backend == "memory" {
		return store.NewMemory(), func() error { return nil }, nil
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, err
	}
	s, err := sqlite.New(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	return s, s.Close, nil
}

func newPublisher(cfg config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("no kafka brokers configured, achievement events disabled")
		return events.Nop{}
	}
	logger.Info("publishing achievement events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return kafkaevents.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
