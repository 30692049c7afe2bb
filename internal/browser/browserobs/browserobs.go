package browserobs

import (
	"context"
	"time"

	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/trace"
)

// observableBrowser wraps a Browser with observability (logging & tracing)
type observableBrowser struct {
	browser interfaces.Browser
}

// Compile-time interface check
var _ interfaces.Browser = (*observableBrowser)(nil)

// Wrap wraps a browser with observability middleware
func Wrap(browser interfaces.Browser) interfaces.Browser {
	return &observableBrowser{
		browser: browser,
	}
}

// Navigate loads a URL with observability
func (ob *observableBrowser) Navigate(ctx context.Context, url string) error {
	ctx, span := trace.StartSpan(ctx, "browser.Navigate")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Navigating", "url", url)

	if err := ob.browser.Navigate(ctx, url); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Navigation failed", err, "url", url)
		return err
	}
	return nil
}

// WaitReady waits for page load with observability
func (ob *observableBrowser) WaitReady(ctx context.Context, timeout time.Duration) error {
	ctx, span := trace.StartSpan(ctx, "browser.WaitReady")
	defer span.End()

	err := ob.browser.WaitReady(ctx, timeout)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Page ready wait expired", "timeout", timeout, "error", err)
	}
	return err
}

// WaitVisible waits for an element with observability
func (ob *observableBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, span := trace.StartSpan(ctx, "browser.WaitVisible")
	defer span.End()

	err := ob.browser.WaitVisible(ctx, selector, timeout)
	if err != nil {
		// Timeouts here are frequently a valid "feature absent" probe
		// result, so they log at debug, not error.
		logger.DebugSkip(ctx, 1, "Element wait expired", "selector", selector, "timeout", timeout, "error", err)
	}
	return err
}

// Click clicks an element with observability
func (ob *observableBrowser) Click(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, span := trace.StartSpan(ctx, "browser.Click")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Clicking", "selector", selector)

	if err := ob.browser.Click(ctx, selector, timeout); err != nil {
		logger.DebugSkip(ctx, 1, "Click failed", "selector", selector, "error", err)
		return err
	}
	return nil
}

// Type sends text into a field with observability. The text itself is
// never logged; it may be a credential.
func (ob *observableBrowser) Type(ctx context.Context, selector, text string, slow bool) error {
	ctx, span := trace.StartSpan(ctx, "browser.Type")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Typing", "selector", selector, "chars", len(text), "slow", slow)

	if err := ob.browser.Type(ctx, selector, text, slow); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Typing failed", err, "selector", selector)
		return err
	}
	return nil
}

// PressEnter confirms a field with observability
func (ob *observableBrowser) PressEnter(ctx context.Context, selector string) error {
	ctx, span := trace.StartSpan(ctx, "browser.PressEnter")
	defer span.End()

	return ob.browser.PressEnter(ctx, selector)
}

// Text reads element text with observability
func (ob *observableBrowser) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	ctx, span := trace.StartSpan(ctx, "browser.Text")
	defer span.End()

	out, err := ob.browser.Text(ctx, selector, timeout)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Text read failed", "selector", selector, "error", err)
		return "", err
	}
	return out, nil
}

// OuterHTML reads element markup with observability
func (ob *observableBrowser) OuterHTML(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	ctx, span := trace.StartSpan(ctx, "browser.OuterHTML")
	defer span.End()

	out, err := ob.browser.OuterHTML(ctx, selector, timeout)
	if err != nil {
		logger.DebugSkip(ctx, 1, "OuterHTML read failed", "selector", selector, "error", err)
		return "", err
	}
	logger.DebugSkip(ctx, 1, "OuterHTML read", "selector", selector, "bytes", len(out))
	return out, nil
}

// Eval runs a page script with observability
func (ob *observableBrowser) Eval(ctx context.Context, script string, out any) error {
	ctx, span := trace.StartSpan(ctx, "browser.Eval")
	defer span.End()

	if err := ob.browser.Eval(ctx, script, out); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Script evaluation failed", err)
		return err
	}
	return nil
}

// Screenshot captures a diagnostic image with observability
func (ob *observableBrowser) Screenshot(ctx context.Context, path string) error {
	ctx, span := trace.StartSpan(ctx, "browser.Screenshot")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Capturing screenshot", "path", path)

	if err := ob.browser.Screenshot(ctx, path); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Screenshot failed", err, "path", path)
		return err
	}
	return nil
}

// Close shuts the session down with observability
func (ob *observableBrowser) Close(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "browser.Close")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Closing browser session")

	if err := ob.browser.Close(ctx); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Browser close failed", err)
		return err
	}
	return nil
}
