package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wellsfargo-trader/internal/broker/wellsfargo"
	"wellsfargo-trader/internal/browser"
	"wellsfargo-trader/internal/browser/browserobs"
	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/notify"
	"wellsfargo-trader/internal/runner"
	"wellsfargo-trader/internal/store"
	"wellsfargo-trader/internal/trace"
	"wellsfargo-trader/internal/types"
)

func initializeSystem() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	return nil
}

func shutdownSystem(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Trace shutdown failed", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Logger shutdown failed", "error", err)
	}
}

// buildJob turns the CLI flags into the single unit of per-account
// work. -holdings wins over order flags; otherwise an action and at
// least one symbol are required.
func buildJob(cfg *store.Config, holdings bool, action, symbols string, amount int, dry bool) (runner.Job, error) {
	if holdings {
		return runner.Job{Holdings: true}, nil
	}

	act, err := types.ParseAction(action)
	if err != nil {
		return runner.Job{}, err
	}

	var tickers []string
	for _, s := range strings.Split(symbols, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			tickers = append(tickers, s)
		}
	}
	if len(tickers) == 0 {
		return runner.Job{}, fmt.Errorf("no symbols given")
	}
	if amount < 1 {
		return runner.Job{}, fmt.Errorf("amount must be at least 1, got %d", amount)
	}

	return runner.Job{
		Order: types.OrderRequest{
			Action:  act,
			Symbols: tickers,
			Amount:  amount,
			DryRun:  dry || cfg.Mode != "LIVE",
		},
	}, nil
}

// initializeNotifier wires the code path for one-time codes. The plain
// console prompt is the default; relay mode keeps the same prompt but
// routes it through the channel rendezvous so another component could
// take over servicing.
func initializeNotifier(cfg *store.Config) interfaces.Notifier {
	console := notify.NewConsole()
	if !cfg.Notify.Relay {
		return console
	}

	relay := notify.NewRelay(console)
	go func() {
		for req := range relay.Requests() {
			code, err := console.RequestCode(context.Background(), req.SessionLabel, notify.DefaultCodeTimeout)
			if err != nil {
				continue
			}
			req.Reply <- code
		}
	}()
	return relay
}

// browserFactory builds a fresh browser and brokerage client per
// session so one account's state never leaks into the next.
func browserFactory(cfg *store.Config, notifier interfaces.Notifier) runner.Factory {
	timeouts := wellsfargo.Timeouts{
		PageLoad: time.Duration(cfg.Timeouts.PageLoadSeconds) * time.Second,
		Element:  time.Duration(cfg.Timeouts.ElementSeconds) * time.Second,
		Probe:    time.Duration(cfg.Timeouts.ProbeSeconds) * time.Second,
		Short:    time.Duration(cfg.Timeouts.ShortSeconds) * time.Second,
		Settle:   time.Duration(cfg.Timeouts.SettleSeconds) * time.Second,
		Code:     time.Duration(cfg.Timeouts.CodeSeconds) * time.Second,
	}

	return func(ctx context.Context, sessionLabel string) (interfaces.Browser, interfaces.Brokerage, error) {
		chrome, err := browser.NewChrome(ctx, browser.Options{
			Headless:  cfg.Browser.Headless,
			UserAgent: cfg.Browser.UserAgent,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("launching browser: %w", err)
		}

		b := browserobs.Wrap(chrome)
		client := wellsfargo.New(b, notifier, wellsfargo.Options{
			Label:         sessionLabel,
			ScreenshotDir: cfg.ScreenshotDir,
			Timeouts:      timeouts,
		})
		return b, client, nil
	}
}
