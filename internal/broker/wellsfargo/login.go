package wellsfargo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"wellsfargo-trader/internal/extract"
	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/types"
)

// Login establishes the authenticated session and discovers the
// sub-accounts reachable under it. All errors are terminal for this
// account only; anything unexpected gets a diagnostic screenshot
// before it is returned.
func (c *Client) Login(ctx context.Context, creds types.CredentialSet) error {
	c.report(ctx, "Logging into %s...", c.opts.Label)

	err := c.login(ctx, creds)
	switch {
	case err == nil:
		c.report(ctx, "Logged in to %s!", c.opts.Label)
	case errors.Is(err, ErrAuthFailed):
		logger.Error(ctx, "Login failed", "session", c.opts.Label, "error", err)
	default:
		c.diagnose(ctx, err)
	}
	return err
}

func (c *Client) login(ctx context.Context, creds types.CredentialSet) error {
	t := c.opts.Timeouts

	if err := c.browser.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := c.browser.WaitReady(ctx, t.PageLoad); err != nil {
		return fmt.Errorf("login page load: %w", err)
	}

	// Credentials are typed character by character. The site's bot
	// detection rejects instantly filled fields.
	if err := c.browser.Type(ctx, selUsername, creds.Username, true); err != nil {
		return fmt.Errorf("enter username: %w", err)
	}
	if err := c.browser.Type(ctx, selPassword, creds.Password, true); err != nil {
		return fmt.Errorf("enter password: %w", err)
	}
	if err := c.browser.Click(ctx, selLoginButton, t.PageLoad); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			return fmt.Errorf("%w: login control never became clickable", ErrAuthFailed)
		}
		return fmt.Errorf("click login: %w", err)
	}
	if err := c.browser.WaitReady(ctx, t.PageLoad); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			return fmt.Errorf("%w: no page transition after submit", ErrAuthFailed)
		}
		return fmt.Errorf("post-login page load: %w", err)
	}

	if err := c.authHandshake(ctx, creds.PhoneFragment); err != nil {
		return err
	}

	if err := c.browser.WaitVisible(ctx, selLandmark, t.PageLoad); err != nil {
		return fmt.Errorf("post-login landmark: %w", err)
	}

	return c.discoverAccounts(ctx)
}

// authHandshake runs the optional one-time-code step. The popup not
// appearing is a valid path (already-trusted device), and so is the
// code field never showing up after the code was requested.
func (c *Client) authHandshake(ctx context.Context, phoneFragment string) error {
	t := c.opts.Timeouts

	if err := c.browser.WaitVisible(ctx, selAuthPopup, t.Element); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			logger.Debug(ctx, "No auth popup, device already trusted", "session", c.opts.Label)
			return nil
		}
		return fmt.Errorf("auth popup: %w", err)
	}

	var idx int
	if err := c.browser.Eval(ctx, selectPhoneScript(phoneFragment), &idx); err != nil {
		return fmt.Errorf("select phone entry: %w", err)
	}
	if idx < 0 {
		logger.Warn(ctx, "No 2FA device matched the configured fragment", "session", c.opts.Label)
	} else {
		logger.Info(ctx, "Selected 2FA device", "session", c.opts.Label, "entry", idx)
	}

	// Block this sequential flow until the externally supplied code
	// arrives or the rendezvous times out.
	code, err := c.notifier.RequestCode(ctx, c.opts.Label, t.Code)
	if err != nil {
		logger.Warn(ctx, "One-time code request failed", "session", c.opts.Label, "error", err)
		code = ""
	}

	if err := c.browser.WaitVisible(ctx, selCodeInput, t.PageLoad); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			// The site skipped the code entry after device selection.
			return nil
		}
		return fmt.Errorf("code input: %w", err)
	}
	if code != "" {
		if err := c.browser.Type(ctx, selCodeInput, code, false); err != nil {
			return fmt.Errorf("enter code: %w", err)
		}
	}
	if err := c.browser.Click(ctx, selCodeSubmit, t.Element); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			return nil
		}
		return fmt.Errorf("submit code: %w", err)
	}
	return nil
}

// discoverAccounts scrapes every sub-account block on the landing
// page into the registry, preserving block order.
func (c *Client) discoverAccounts(ctx context.Context) error {
	html, err := c.browser.OuterHTML(ctx, "body", c.opts.Timeouts.Element)
	if err != nil {
		return fmt.Errorf("read account overview: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse account overview: %w", err)
	}

	var parseErr error
	doc.Find(selAccountBlocks).EachWithBreak(func(i int, block *goquery.Selection) bool {
		masked := extract.Mask(block.Find(selMaskedNumber).Text(), maskGlyph)
		if masked == "" {
			parseErr = fmt.Errorf("account block %d: no masked number", i)
			return false
		}
		balance, err := extract.Balance(block.Find(selBalance).Text())
		if err != nil {
			parseErr = fmt.Errorf("account block %d (%s): %w", i, masked, err)
			return false
		}
		c.registry.Add(masked, balance)
		return true
	})
	if parseErr != nil {
		return parseErr
	}

	logger.Info(ctx, "Accounts discovered", "session", c.opts.Label, "count", c.registry.Len())
	return nil
}
