// Package browser drives a headless Chrome through chromedp behind
// the interfaces.Browser capability set. One Chrome value owns one
// browser process; it is never shared between sessions.
package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
)

// Options configures the launched browser.
type Options struct {
	Headless  bool
	UserAgent string
}

type Chrome struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ interfaces.Browser = (*Chrome)(nil)

// NewChrome launches a fresh browser process. The returned Chrome is
// bound to parent; cancelling parent tears the whole session down.
func NewChrome(parent context.Context, opts Options) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1400, 1000),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Force the browser process to start now so an unavailable engine
	// fails the account up front, not mid-login.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &Chrome{ctx: ctx, cancelCtx: cancelCtx, cancelAlloc: cancelAlloc}, nil
}

// by maps an opaque selector string to a chromedp query option: XPath
// when it looks like one, CSS otherwise.
func by(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "//") || strings.HasPrefix(selector, "(//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// run executes actions with an optional bounded timeout, translating
// deadline expiry into interfaces.ErrTimeout.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx := c.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(c.ctx, timeout)
		defer cancel()
	}
	err := chromedp.Run(runCtx, actions...)
	if errors.Is(err, context.DeadlineExceeded) {
		return interfaces.ErrTimeout
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	logger.Debug(ctx, "Navigating", "url", url)
	return c.run(ctx, 0, chromedp.Navigate(url))
}

// WaitReady polls document.readyState until the page reports itself
// fully loaded.
func (c *Chrome) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var ready bool
		err := c.run(ctx, timeout, chromedp.Evaluate(`document.readyState === "complete"`, &ready))
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		if time.Now().After(deadline) {
			return interfaces.ErrTimeout
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	err := c.run(ctx, timeout, chromedp.WaitVisible(selector, by(selector)))
	if errors.Is(err, interfaces.ErrTimeout) {
		return fmt.Errorf("%w waiting for %s", interfaces.ErrTimeout, selector)
	}
	return err
}

func (c *Chrome) Click(ctx context.Context, selector string, timeout time.Duration) error {
	err := c.run(ctx, timeout, chromedp.Click(selector, by(selector)))
	if errors.Is(err, interfaces.ErrTimeout) {
		return fmt.Errorf("%w clicking %s", interfaces.ErrTimeout, selector)
	}
	return err
}

func (c *Chrome) Type(ctx context.Context, selector, text string, slow bool) error {
	if !slow {
		return c.run(ctx, 0, chromedp.SendKeys(selector, text, by(selector)))
	}
	// Character at a time with jitter, the way a human would.
	for _, r := range text {
		if err := c.run(ctx, 0, chromedp.SendKeys(selector, string(r), by(selector))); err != nil {
			return err
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
	return nil
}

func (c *Chrome) PressEnter(ctx context.Context, selector string) error {
	return c.run(ctx, 0, chromedp.SendKeys(selector, kb.Enter, by(selector)))
}

func (c *Chrome) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	var out string
	err := c.run(ctx, timeout, chromedp.Text(selector, &out, by(selector)))
	if errors.Is(err, interfaces.ErrTimeout) {
		return "", fmt.Errorf("%w reading text of %s", interfaces.ErrTimeout, selector)
	}
	return out, err
}

func (c *Chrome) OuterHTML(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	var out string
	err := c.run(ctx, timeout, chromedp.OuterHTML(selector, &out, by(selector)))
	if errors.Is(err, interfaces.ErrTimeout) {
		return "", fmt.Errorf("%w reading html of %s", interfaces.ErrTimeout, selector)
	}
	return out, err
}

func (c *Chrome) Eval(ctx context.Context, script string, out any) error {
	return c.run(ctx, 0, chromedp.Evaluate(script, out))
}

func (c *Chrome) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := c.run(ctx, 0, chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// Close shuts the browser down gracefully. Safe to call once per
// session; the allocator is cancelled even when the graceful path
// fails.
func (c *Chrome) Close(ctx context.Context) error {
	err := chromedp.Cancel(c.ctx)
	c.cancelCtx()
	c.cancelAlloc()
	return err
}
