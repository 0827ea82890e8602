package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hknews/internal/aggregator"
	"hknews/internal/config"
	"hknews/internal/server"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (built-in sources when empty)")
)

func main() {
	flag.Parse()

	setupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	agg := aggregator.FromConfig(cfg)
	sched := aggregator.NewScheduler(agg, aggregator.SchedulerConfig{
		Interval: cfg.Scheduler.IntervalDuration(),
		RunOnce:  cfg.Scheduler.RunOnce,
	})
	srv := server.New(server.Config{Port: cfg.Server.Port}, agg)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("initiating shutdown")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	slog.Info("stopped")
	return nil
}

func loadConfig() (*config.Config, error) {
	if *configPath == "" {
		slog.Info("no config file given, using built-in sources")
		return config.Default(), nil
	}
	slog.Info("loading configuration", "path", *configPath)
	return config.Load(*configPath)
}
