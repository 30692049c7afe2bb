package interfaces

import (
	"context"
	"time"
)

// Notifier is the outward report sink plus the one-time-code source.
// RequestCode bridges the sequential login flow to whatever channel a
// human supplies the 2FA code on; it blocks until a code arrives or
// the timeout expires.
type Notifier interface {
	RequestCode(ctx context.Context, sessionLabel string, timeout time.Duration) (string, error)
	Send(ctx context.Context, msg string)
}
