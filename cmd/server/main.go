package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"breachwatch/internal/exposure/handler"
	"breachwatch/internal/factory"
	"breachwatch/internal/platform/config"
	"breachwatch/internal/platform/httpserver"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	httptransport "breachwatch/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/exposure.
func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("breachwatch stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("breachwatch stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := metrics.NewRegistry()
	components, err := factory.Build(ctx, cfg, log, reg)
	if err != nil {
		return fmt.Errorf("build components: %w", err)
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("failed to close backends", "error", err)
		}
	}()

	opts := []handler.Option{handler.WithLogger(log)}
	if summary, err := components.Summary(); err == nil {
		opts = append(opts, handler.WithSummary(summary))
	}
	api, err := handler.New(components.Orchestrator, components.Bulk, components.Passwords, components.AuthHook, opts...)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(api, components, reg.Handler(), log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting breachwatch",
			"addr", cfg.Addr,
			"result_store", cfg.ResultStore,
			"event_sink", cfg.EventSink,
		)
		return httpserver.Serve(gctx, srv, shutdownTimeout)
	})

	worker, err := components.Retention()
	switch {
	case err == nil:
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("retention worker: %w", err)
			}
			return nil
		})
	case errors.Is(err, factory.ErrNotSupported):
		log.Info("retention worker disabled; result store expires entries itself", "result_store", cfg.ResultStore)
	default:
		return err
	}

	return g.Wait()
}
