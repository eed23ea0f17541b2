package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/binance-spread/internal/api"
	"github.com/rickgao/binance-spread/internal/config"
	"github.com/rickgao/binance-spread/internal/feed"
	"github.com/rickgao/binance-spread/internal/metrics"
	"github.com/rickgao/binance-spread/internal/poller"
	"github.com/rickgao/binance-spread/internal/report"
	"github.com/rickgao/binance-spread/internal/server"
	"github.com/rickgao/binance-spread/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("starting spread exporter",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"api_url", cfg.API.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exporter failed", "error", err)
		os.Exit(1)
	}

	logger.Info("exporter stopped")
}

// run wires the components and blocks until ctx is cancelled or the delta
// loop fails.
func run(ctx context.Context, cfg *config.ExporterConfig, logger *slog.Logger) error {
	registry := metrics.NewRegistry()

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	opts := []poller.Option{
		poller.WithReporter(report.NewPrinter(os.Stdout)),
	}

	var broadcaster *feed.Broadcaster
	if !cfg.Server.FeedDisable {
		broadcaster = feed.NewBroadcaster(logger)
		defer broadcaster.Close()
		opts = append(opts, poller.WithCycleHandler(broadcaster))
	}

	p := poller.New(cfg.PollerConfig(), apiClient, registry, logger, opts...)

	srvCfg := server.Config{
		Port:        cfg.Server.Port,
		MetricsPath: cfg.Server.MetricsPath,
		HealthPath:  cfg.Server.HealthPath,
		FeedPath:    cfg.Server.FeedPath,
	}
	var srv *server.Server
	if broadcaster != nil {
		srv = server.New(srvCfg, registry.Handler(), broadcaster.Handler(), p, logger)
	} else {
		srv = server.New(srvCfg, registry.Handler(), nil, p, logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.ListenAndServe)

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := p.HealthCheck(gctx); err != nil {
			return err
		}

		for _, r := range cfg.Reports {
			if err := p.Report(gctx, poller.ReportKind(r.Kind), r.Query()); err != nil {
				return fmt.Errorf("startup report %s %s/%s: %w", r.Kind, r.Asset, r.Field, err)
			}
		}

		return p.Run(gctx, cfg.DeltaQuery())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
