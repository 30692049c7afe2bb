package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/runner"
	"wellsfargo-trader/internal/store"
	"wellsfargo-trader/internal/tradelog"
	"wellsfargo-trader/internal/types"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to config file")
		holdings   = flag.Bool("holdings", false, "collect holdings instead of trading")
		action     = flag.String("action", "", "order action: buy or sell")
		symbols    = flag.String("symbols", "", "comma-separated ticker symbols")
		amount     = flag.Int("amount", 1, "shares per symbol")
		dry        = flag.Bool("dry", false, "force dry-run regardless of config mode")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if *debug {
		os.Setenv("LOG_LEVEL", "DEBUG")
		os.Setenv("LOG_DETAILED", "true")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer shutdownSystem(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}

	raw := os.Getenv(cfg.AccountsEnv)
	if strings.TrimSpace(raw) == "" {
		logger.Warn(ctx, "No accounts configured, nothing to do", "env", cfg.AccountsEnv)
		return
	}
	creds, err := types.ParseCredentials(raw)
	if err != nil {
		logger.ErrorWithErr(ctx, "Invalid credential string", err, "env", cfg.AccountsEnv)
		os.Exit(1)
	}

	job, err := buildJob(cfg, *holdings, *action, *symbols, *amount, *dry)
	if err != nil {
		logger.ErrorWithErr(ctx, "Invalid order flags", err)
		os.Exit(1)
	}

	notifier := initializeNotifier(cfg)
	run := runner.New(browserFactory(cfg, notifier), notifier)

	summary := run.Run(ctx, creds, job)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}
