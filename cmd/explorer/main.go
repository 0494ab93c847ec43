// Package main is the entry point for the chain explorer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fd1az/chain-explorer/business/api"
	"github.com/fd1az/chain-explorer/business/chain"
	"github.com/fd1az/chain-explorer/business/supply"
	"github.com/fd1az/chain-explorer/internal/apm"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/health"
	"github.com/fd1az/chain-explorer/internal/logger"
	"github.com/fd1az/chain-explorer/internal/metrics"
	"github.com/fd1az/chain-explorer/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const shutdownTimeout = 10 * time.Second

// stopper is implemented by modules that own goroutines or listeners.
type stopper interface {
	Shutdown(context.Context) error
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	tuiMode := flag.Bool("tui", false, "Run the operator console instead of logging to stderr")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("chain-explorer %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !*tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, *tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	var out io.Writer = os.Stderr
	if tuiMode {
		// The console owns the terminal.
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, apm.TraceIDFromContext)
	log.Info(ctx, "starting chain explorer",
		"version", version,
		"environment", cfg.App.Environment,
		"node", cfg.Node.URL(),
	)

	shutdownTelemetry, err := startTelemetry(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	healthServer := health.NewServer(cfg.App.HealthPort, version, log)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.App.HealthPort)
	}
	defer func() {
		stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		_ = healthServer.Stop(stopCtx)
	}()

	mono := monolith.New(cfg, log, healthServer)

	chainModule := &chain.Module{}
	if tuiMode {
		chainModule.Observer = consoleObserver
	}

	// Dependency order: chain provides the explorer, supply reads its tip,
	// api serves both.
	modules := []monolith.Module{
		chainModule,
		&supply.Module{},
		&api.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if tuiMode {
		return runTUI(ctx, mono, modules)
	}
	return runCLI(ctx, mono, modules, log)
}

// startTelemetry installs tracing and metrics when enabled. The returned
// func flushes exporters.
func startTelemetry(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (func(), error) {
	if !cfg.Telemetry.Enabled {
		return func() {}, nil
	}

	traceProvider, err := apm.NewTraceProvider(log,
		apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), cfg.Telemetry.OTLPEndpoint),
		apm.WithHeaders(cfg.Telemetry.OTLPHeaders),
		apm.WithServiceName(cfg.Telemetry.ServiceName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start tracing: %w", err)
	}

	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithPrometheusReader(),
	}
	if apm.Provider(cfg.Telemetry.TraceProvider) == apm.OTLPGRPCProvider && cfg.Telemetry.OTLPEndpoint != "" {
		metricOpts = append(metricOpts, metrics.WithOTLPReader(
			cfg.Telemetry.OTLPEndpoint, apm.ParseHeaders(cfg.Telemetry.OTLPHeaders)))
	}
	meterProvider, err := metrics.NewMetricProvider(metricOpts...)
	if err != nil {
		_ = traceProvider.Stop()
		return nil, fmt.Errorf("failed to start metrics: %w", err)
	}

	promServer := metrics.NewPrometheusServer(log, metrics.WithPort(cfg.Telemetry.PrometheusPort))
	promServer.Start()

	return func() {
		stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()

		if err := promServer.Stop(stopCtx); err != nil {
			log.Warn(ctx, "metrics server shutdown", "error", err)
		}
		if err := meterProvider.Shutdown(stopCtx); err != nil {
			log.Warn(ctx, "meter provider shutdown", "error", err)
		}
		if err := traceProvider.Stop(); err != nil {
			log.Warn(ctx, "trace provider shutdown", "error", err)
		}
	}, nil
}

func runCLI(ctx context.Context, mono *monolith.App, modules []monolith.Module, log logger.LoggerInterface) error {
	defer shutdownModules(mono.Logger(), modules)

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	log.Info(ctx, "all modules started")

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	return nil
}

// shutdownModules stops modules in reverse start order.
func shutdownModules(log logger.LoggerInterface, modules []monolith.Module) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i := len(modules) - 1; i >= 0; i-- {
		s, ok := modules[i].(stopper)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			log.Error(ctx, "module shutdown failed", "module", fmt.Sprintf("%T", modules[i]), "error", err)
		}
	}
}
