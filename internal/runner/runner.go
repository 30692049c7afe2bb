// Package runner drives one full run: every configured credential set
// strictly sequentially, each owning an exclusive browser session
// that is torn down no matter how the account ends. A failure on one
// account never prevents the next from being attempted.
package runner

import (
	"context"
	"fmt"

	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/tradelog"
	"wellsfargo-trader/internal/types"
)

// Job selects what to do with each authenticated session: collect
// holdings, or execute the order request.
type Job struct {
	Holdings bool
	Order    types.OrderRequest
}

// Factory produces a fresh browser session plus a brokerage bound to
// it, labelled for one account. Cross-session parallelism is
// deliberately absent: one automation engine instance, one session.
type Factory func(ctx context.Context, label string) (interfaces.Browser, interfaces.Brokerage, error)

// Summary aggregates one run for the caller; everything in it has
// already been reported incrementally.
type Summary struct {
	Accounts int
	Failed   int
	Holdings []types.HoldingRecord
	Outcomes []types.OrderOutcome
}

type Runner struct {
	factory  Factory
	notifier interfaces.Notifier
}

func New(factory Factory, notifier interfaces.Notifier) *Runner {
	return &Runner{factory: factory, notifier: notifier}
}

func (r *Runner) Run(ctx context.Context, creds []types.CredentialSet, job Job) Summary {
	summary := Summary{Accounts: len(creds)}
	logger.Info(ctx, "Processing accounts sequentially", "count", len(creds))

	for i, cred := range creds {
		label := fmt.Sprintf("WELLSFARGO %d", i+1)
		logger.Debug(ctx, "Starting account", "index", i+1, "total", len(creds), "session", label)

		holdings, outcomes, err := r.processAccount(ctx, label, cred, job)
		summary.Holdings = append(summary.Holdings, holdings...)
		summary.Outcomes = append(summary.Outcomes, outcomes...)
		if err != nil {
			summary.Failed++
			logger.ErrorWithErr(ctx, "Account processing failed", err, "session", label)
		}

		logger.Debug(ctx, "Completed account", "index", i+1, "total", len(creds), "session", label)
	}

	logger.Info(ctx, "Finished processing all accounts",
		"accounts", summary.Accounts, "failed", summary.Failed,
		"holdings", len(summary.Holdings), "outcomes", len(summary.Outcomes))
	return summary
}

// processAccount owns the session for one credential set. The browser
// is closed on every exit path, and a panic anywhere below converts
// to a per-account error instead of ending the run.
func (r *Runner) processAccount(ctx context.Context, label string, cred types.CredentialSet, job Job) (holdings []types.HoldingRecord, outcomes []types.OrderOutcome, err error) {
	op := logger.StartOperation(ctx, "runner.account", "session", label)
	ctx = op.GetContext()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic processing %s: %v", label, rec)
		}
		if err != nil {
			op.EndWithError(err)
		} else {
			op.End()
		}
	}()

	browser, brokerage, err := r.factory(ctx, label)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire browser session: %w", err)
	}
	defer func() {
		if cerr := browser.Close(ctx); cerr != nil {
			logger.Warn(ctx, "Error closing browser session", "session", label, "error", cerr)
		}
	}()

	if err := brokerage.Login(ctx, cred); err != nil {
		r.notifier.Send(ctx, fmt.Sprintf("%s: login failed", label))
		return nil, nil, err
	}

	if job.Holdings {
		records, err := brokerage.Holdings(ctx)
		if err != nil {
			return records, nil, err
		}
		r.reportHoldings(ctx, records)
		return records, nil, nil
	}

	outcomes, err = brokerage.Transact(ctx, job.Order)
	return nil, outcomes, err
}

func (r *Runner) reportHoldings(ctx context.Context, records []types.HoldingRecord) {
	for _, rec := range records {
		r.notifier.Send(ctx, fmt.Sprintf("%s %s: %s x%g @ $%.2f", rec.Broker, rec.Account, rec.Symbol, rec.Quantity, rec.Price))
		logger.Holding(ctx, rec.Broker, rec.Account, rec.Symbol, rec.Quantity, rec.Price)
		if err := tradelog.AppendHolding(tradelog.HoldingEntry{
			Broker:   rec.Broker,
			Account:  rec.Account,
			Symbol:   rec.Symbol,
			Quantity: rec.Quantity,
			Price:    rec.Price,
		}); err != nil {
			logger.Warn(ctx, "Could not append holding log entry", "error", err)
		}
	}
}
