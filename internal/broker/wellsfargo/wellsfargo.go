// Package wellsfargo automates one authenticated Wells Fargo web
// session: login with the one-time-code handshake, sub-account
// discovery, holdings scraping and order entry. The brokerage exposes
// no programmatic API, so every operation works the live pages
// through the Browser capability set.
package wellsfargo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
)

// ErrAuthFailed marks a login that timed out at the credential step.
// The account is skipped, never retried.
var ErrAuthFailed = errors.New("wellsfargo: authentication failed")

// Timeouts bounds every wait in the session flows.
type Timeouts struct {
	PageLoad time.Duration // full page transitions
	Element  time.Duration // individual element waits
	Probe    time.Duration // short feature-presence probes
	Short    time.Duration // recovery clicks after a rejected order
	Settle   time.Duration // fixed delay after dropdown interactions
	Code     time.Duration // one-time code rendezvous
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		PageLoad: 20 * time.Second,
		Element:  10 * time.Second,
		Probe:    5 * time.Second,
		Short:    3 * time.Second,
		Settle:   time.Second,
		Code:     300 * time.Second,
	}
}

type Options struct {
	// Label is the human-readable session name, e.g. "WELLSFARGO 1".
	Label         string
	ScreenshotDir string
	Timeouts      Timeouts
}

// Client is one Wells Fargo web session. Not safe for concurrent use;
// the whole workflow is sequential by design since it owns an
// exclusive browser instance.
type Client struct {
	browser  interfaces.Browser
	notifier interfaces.Notifier
	opts     Options
	registry *Registry
}

var _ interfaces.Brokerage = (*Client)(nil)

func New(b interfaces.Browser, n interfaces.Notifier, opts Options) *Client {
	zero := Timeouts{}
	if opts.Timeouts == zero {
		opts.Timeouts = DefaultTimeouts()
	}
	return &Client{
		browser:  b,
		notifier: n,
		opts:     opts,
		registry: NewRegistry(),
	}
}

// Registry exposes the accounts discovered during Login.
func (c *Client) Registry() *Registry {
	return c.registry
}

// report sends one human-readable status line outward.
func (c *Client) report(ctx context.Context, format string, args ...any) {
	c.notifier.Send(ctx, fmt.Sprintf(format, args...))
}

// diagnose captures a screenshot for offline debugging of markup
// drift, then logs the error. Screenshot failures are logged and
// swallowed; the original error is what matters.
func (c *Client) diagnose(ctx context.Context, err error) {
	name := fmt.Sprintf("wells-fargo-error-%s.png", time.Now().Format("2006-01-02T15-04-05"))
	path := filepath.Join(c.opts.ScreenshotDir, name)
	if shotErr := c.browser.Screenshot(ctx, path); shotErr != nil {
		logger.Warn(ctx, "Could not capture diagnostic screenshot", "session", c.opts.Label, "error", shotErr)
	}
	logger.ErrorWithErr(ctx, "Session error", err, "session", c.opts.Label, "screenshot", path)
}
