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

	flag "github.com/spf13/pflag"

	"compboard/internal/config"
	"compboard/internal/dashboard"
	"compboard/internal/dataset"
	"compboard/internal/logging"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [--config compboard.yaml] [--data data.xlsx] [--addr host:port]\n", os.Args[0])
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "Optional YAML config file")
	dataFile := flag.String("data", "", "Listing spreadsheet (.xlsx or .csv), overrides data_file")
	addr := flag.String("addr", "", "HTTP listen address, overrides addr")
	logLevel := flag.String("log-level", "", "debug, info, warn or error")
	logFormat := flag.String("log-format", "", "text or json")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fatalf("%v", err)
		}
	}
	if flag.CommandLine.Changed("data") {
		cfg.DataFile = *dataFile
	}
	if flag.CommandLine.Changed("addr") {
		cfg.Addr = *addr
	}
	if flag.CommandLine.Changed("log-level") {
		cfg.Log.Level = *logLevel
	}
	if flag.CommandLine.Changed("log-format") {
		cfg.Log.Format = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		fatalf("config: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatalf("logging: %v", err)
	}
	slog.SetDefault(logger)

	loader, err := dataset.NewLoader(cfg.Cache.Size, logger)
	if err != nil {
		fatalf("loader: %v", err)
	}
	// Warm the cache so the first page view is fast. A bad file is reported
	// here and again on every page view until it is fixed.
	if _, err := loader.Load(cfg.DataFile); err != nil {
		var le *dataset.LoadError
		if errors.As(err, &le) {
			logger.Warn("data file not usable yet", "path", cfg.DataFile, "reason", le.UserMessage())
		} else {
			logger.Warn("data file not usable yet", "path", cfg.DataFile, "error", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           dashboard.NewServer(cfg, loader, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening", "addr", cfg.Addr, "data_file", cfg.DataFile)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
