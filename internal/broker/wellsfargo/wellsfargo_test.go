package wellsfargo

import (
	"context"
	"strings"
	"testing"
	"time"

	"wellsfargo-trader/internal/browser/fake"
)

// testNotifier records reports and answers code requests from a
// canned value.
type testNotifier struct {
	code     string
	codeErr  error
	requests []string
	sent     []string
}

func (n *testNotifier) RequestCode(ctx context.Context, sessionLabel string, timeout time.Duration) (string, error) {
	n.requests = append(n.requests, sessionLabel)
	return n.code, n.codeErr
}

func (n *testNotifier) Send(ctx context.Context, msg string) {
	n.sent = append(n.sent, msg)
}

func (n *testNotifier) sentContaining(sub string) bool {
	for _, s := range n.sent {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func fastTimeouts() Timeouts {
	return Timeouts{
		PageLoad: 50 * time.Millisecond,
		Element:  50 * time.Millisecond,
		Probe:    50 * time.Millisecond,
		Short:    50 * time.Millisecond,
		Settle:   time.Millisecond,
		Code:     50 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, b *fake.Browser, n *testNotifier) *Client {
	t.Helper()
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	return New(b, n, Options{
		Label:         "WELLSFARGO 1",
		ScreenshotDir: t.TempDir(),
		Timeouts:      fastTimeouts(),
	})
}
