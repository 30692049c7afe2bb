package notify

import (
	"context"
	"fmt"
	"time"

	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
)

// CodeRequest is one pending one-time-code request. Whoever services
// the relay's request channel answers on Reply; the reply channel is
// buffered so a late answer never blocks the servicer.
type CodeRequest struct {
	SessionLabel string
	Reply        chan<- string
}

// Relay hands code requests to an independently scheduled servicer (a
// chat bot, a web hook, another goroutine) and blocks the calling
// login flow until an answer or the timeout arrives. This is the only
// cross-scheduler rendezvous in the system; every other wait is a
// local poll.
type Relay struct {
	requests chan CodeRequest
	fallback interfaces.Notifier
}

var _ interfaces.Notifier = (*Relay)(nil)

// NewRelay builds a relay. fallback, when non-nil, is consulted after
// a relay timeout and also receives Send reports.
func NewRelay(fallback interfaces.Notifier) *Relay {
	return &Relay{
		requests: make(chan CodeRequest, 1),
		fallback: fallback,
	}
}

// Requests exposes the channel the external servicer must drain.
func (r *Relay) Requests() <-chan CodeRequest {
	return r.requests
}

// RequestCode submits the request and performs the bounded blocking
// wait. Timeout falls back to the synchronous notifier when one is
// configured.
func (r *Relay) RequestCode(ctx context.Context, sessionLabel string, timeout time.Duration) (string, error) {
	reply := make(chan string, 1)
	req := CodeRequest{SessionLabel: sessionLabel, Reply: reply}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r.requests <- req:
	case <-timer.C:
		return r.timedOut(ctx, sessionLabel, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case code := <-reply:
		logger.Debug(ctx, "One-time code received from relay", "session", sessionLabel)
		return code, nil
	case <-timer.C:
		return r.timedOut(ctx, sessionLabel, timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Relay) timedOut(ctx context.Context, sessionLabel string, timeout time.Duration) (string, error) {
	logger.Warn(ctx, "Relay code request timed out", "session", sessionLabel, "timeout", timeout)
	if r.fallback != nil {
		return r.fallback.RequestCode(ctx, sessionLabel, timeout)
	}
	return "", fmt.Errorf("no code for %s within %s", sessionLabel, timeout)
}

// Send forwards the report to the fallback notifier when present.
func (r *Relay) Send(ctx context.Context, msg string) {
	if r.fallback != nil {
		r.fallback.Send(ctx, msg)
		return
	}
	logger.Info(ctx, "Report", "message", msg)
}
