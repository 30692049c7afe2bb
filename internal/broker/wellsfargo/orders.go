package wellsfargo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wellsfargo-trader/internal/extract"
	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/tradelog"
	"wellsfargo-trader/internal/types"
)

// ticketState tracks whether the trade ticket is usable or left dirty
// by a failed (or simulated) submission. A dirty ticket needs the
// reset sequence before the next selector interaction will succeed;
// refreshing the page does not work.
type ticketState int

const (
	ticketReady ticketState = iota
	ticketNeedsReset
)

type priceMode string

const (
	priceMarket priceMode = "Market"
	priceLimit  priceMode = "Limit"
)

// Below limitCutoff the site rejects market orders against penny
// quotes, so the order goes in as a limit one tick past the quote.
const (
	limitCutoff = 2.00
	limitOffset = 0.01
)

// pricingFor decides the pricing mode from the live quote. The
// boundary is strict: a quote of exactly 2.00 trades at market.
func pricingFor(action types.Action, quote float64) (priceMode, float64) {
	if quote < limitCutoff {
		switch action {
		case types.ActionBuy:
			return priceLimit, quote + limitOffset
		case types.ActionSell:
			return priceLimit, quote - limitOffset
		}
	}
	return priceMarket, 0
}

// Transact walks every discovered account and every requested symbol,
// submitting (or, in dry-run, simulating) one order per pair. A
// rejected symbol is recorded and recovered from; only failures to
// reach the trade screen at all abort the account.
func (c *Client) Transact(ctx context.Context, order types.OrderRequest) ([]types.OrderOutcome, error) {
	if order.Action != types.ActionBuy && order.Action != types.ActionSell {
		return nil, fmt.Errorf("unsupported order action %q", order.Action)
	}
	t := c.opts.Timeouts

	logger.Info(ctx, "Processing orders", "session", c.opts.Label,
		"action", order.Action, "symbols", order.Symbols, "amount", order.Amount, "dry_run", order.DryRun)

	count, err := c.openTradeSelector(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get to trade: %w", err)
	}

	masks := c.registry.Masks()
	state := ticketReady
	var outcomes []types.OrderOutcome

	for i := 0; i < count; i++ {
		if err := c.browser.WaitReady(ctx, t.PageLoad); err != nil {
			return outcomes, fmt.Errorf("trade page load: %w", err)
		}
		// Selector rows beyond the discovered accounts are skipped.
		if i >= len(masks) {
			continue
		}
		if err := c.selectTradeAccount(ctx, masks[i], order.DryRun, state); err != nil {
			logger.Warn(ctx, "Could not change trade account", "session", c.opts.Label, "account", masks[i], "error", err)
			c.report(ctx, "%s: could not select account %s, skipping", c.opts.Label, masks[i])
			continue
		}
		for _, symbol := range order.Symbols {
			outcome, err := c.submitSymbol(ctx, masks[i], symbol, order, &state)
			outcomes = append(outcomes, outcome)
			if err != nil {
				return outcomes, err
			}
		}
	}
	return outcomes, nil
}

// openTradeSelector navigates to the trade ticket and returns the
// number of entries in its account selector.
func (c *Client) openTradeSelector(ctx context.Context) (int, error) {
	t := c.opts.Timeouts

	if err := c.browser.Click(ctx, selBrokerage, t.PageLoad); err != nil {
		return 0, err
	}
	if err := c.browser.Click(ctx, selTradeMenu, t.PageLoad); err != nil {
		return 0, err
	}
	if err := c.browser.Click(ctx, selTradeStocks, t.PageLoad); err != nil {
		return 0, err
	}
	if err := c.browser.Click(ctx, selTradeDropdown, t.PageLoad); err != nil {
		return 0, err
	}
	var count int
	if err := c.browser.Eval(ctx, countListScript(tradeListID), &count); err != nil {
		return 0, err
	}
	return count, nil
}

// selectTradeAccount opens the selector and picks the entry whose
// text contains the account's digits. In dry-run mode a dirty ticket
// is reset first, because the simulated failure left the ticket in
// the same state a real rejection would.
func (c *Client) selectTradeAccount(ctx context.Context, mask string, dryRun bool, state ticketState) error {
	t := c.opts.Timeouts

	if state == ticketNeedsReset && dryRun {
		if err := c.resetTicket(ctx); err != nil {
			return err
		}
	}
	if err := c.browser.Click(ctx, selTradeDropdown, t.PageLoad); err != nil {
		return err
	}
	var idx int
	if err := c.browser.Eval(ctx, findListEntryScript(tradeListID, digits(mask)), &idx); err != nil {
		return err
	}
	time.Sleep(2 * t.Settle)

	// Accepting a leftover "clear ticket" prompt. Absence is fine.
	_ = c.browser.Click(ctx, selContinue, t.Short)

	if idx < 0 {
		return fmt.Errorf("no selector entry matched account %s", mask)
	}
	return nil
}

// resetTicket re-opens Trade -> trade stocks and dismisses the
// continuation prompt, returning the ticket to a usable state after a
// failed submission.
func (c *Client) resetTicket(ctx context.Context) error {
	t := c.opts.Timeouts

	if err := c.browser.Click(ctx, selTradeMenu, t.PageLoad); err != nil {
		return fmt.Errorf("reset: open trade menu: %w", err)
	}
	if err := c.browser.Click(ctx, selTradeStocks, t.PageLoad); err != nil {
		return fmt.Errorf("reset: open trade stocks: %w", err)
	}
	if err := c.browser.Click(ctx, selContinue, t.PageLoad); err != nil {
		return fmt.Errorf("reset: dismiss prompt: %w", err)
	}
	return nil
}

// submitSymbol drives one order through the ticket for one account.
// The returned error is fatal to the whole account; a rejected
// submission is not an error, it comes back as a FAILED outcome.
func (c *Client) submitSymbol(ctx context.Context, mask, symbol string, order types.OrderRequest, state *ticketState) (types.OrderOutcome, error) {
	t := c.opts.Timeouts
	failed := func(msg string) types.OrderOutcome {
		return types.OrderOutcome{
			Broker: c.opts.Label, Account: mask, Symbol: symbol,
			Action: order.Action, Amount: order.Amount,
			Status: types.StatusFailed, Message: msg,
		}
	}

	if err := c.browser.WaitReady(ctx, t.PageLoad); err != nil {
		return failed(err.Error()), err
	}
	if *state == ticketNeedsReset {
		if err := c.resetTicket(ctx); err != nil {
			return failed(err.Error()), err
		}
	}
	time.Sleep(2 * t.Settle)

	// The action chooser ignores synthetic clicks; drive it from page
	// context.
	if err := c.browser.Eval(ctx, clickByIDScript(buySellBtnID), nil); err != nil {
		return failed(err.Error()), err
	}
	actionSel := selActionBuy
	if order.Action == types.ActionSell {
		actionSel = selActionSell
	}
	if err := c.browser.Click(ctx, actionSel, t.PageLoad); err != nil {
		return failed(err.Error()), err
	}

	if err := c.browser.WaitVisible(ctx, selReview, t.PageLoad); err != nil {
		return failed(err.Error()), err
	}
	_ = c.browser.Eval(ctx, scrollIntoViewScript(reviewID), nil)
	time.Sleep(2 * t.Settle)

	if err := c.browser.Type(ctx, selSymbol, symbol, false); err != nil {
		return failed(err.Error()), err
	}
	if err := c.browser.PressEnter(ctx, selSymbol); err != nil {
		return failed(err.Error()), err
	}
	if err := c.browser.Eval(ctx, setQuantityScript(order.Amount), nil); err != nil {
		return failed(err.Error()), err
	}

	if err := c.browser.WaitVisible(ctx, selQuote, t.PageLoad); err != nil {
		return failed(err.Error()), err
	}
	quoteText, err := c.browser.Text(ctx, selQuote, t.Element)
	if err != nil {
		return failed(err.Error()), err
	}
	// The quote must parse strictly: a lenient parse would turn an
	// unreadable quote into 0 and a live limit order at +/-0.01.
	quote, err := extract.Balance(quoteText)
	if err != nil {
		err = fmt.Errorf("parse quote %q: %w", quoteText, err)
		return failed(err.Error()), err
	}
	if quote <= 0 {
		err = fmt.Errorf("implausible quote %q", quoteText)
		return failed(err.Error()), err
	}

	mode, limitPrice := pricingFor(order.Action, quote)
	logger.Debug(ctx, "Pricing decision", "session", c.opts.Label, "symbol", symbol,
		"quote", quote, "mode", string(mode), "limit_price", limitPrice)

	if err := c.setPricing(ctx, mode, limitPrice); err != nil {
		return failed(err.Error()), err
	}

	// Proceed to review.
	if err := c.browser.Eval(ctx, clickByIDScript(reviewID), nil); err != nil {
		return failed(err.Error()), err
	}

	if order.DryRun {
		// Never touch the submit control. The simulated failure forces
		// the reset path on the next iteration, which keeps dry runs
		// exercising the same navigation a rejected order would.
		*state = ticketNeedsReset
		outcome := types.OrderOutcome{
			Broker: c.opts.Label, Account: mask, Symbol: symbol,
			Action: order.Action, Amount: order.Amount,
			Status: types.StatusDryRun,
		}
		c.reportOutcome(ctx, outcome)
		return outcome, nil
	}

	if err := c.browser.WaitVisible(ctx, selSubmit, t.Element); err != nil {
		if errors.Is(err, interfaces.ErrTimeout) {
			return c.recoverFailedOrder(ctx, mask, symbol, order, state), nil
		}
		return failed(err.Error()), err
	}
	// Submit is clicked from page context; it scrolls out of view on
	// long tickets.
	if err := c.browser.Eval(ctx, clickBySelectorScript(selSubmit), nil); err != nil {
		return failed(err.Error()), err
	}

	outcome := types.OrderOutcome{
		Broker: c.opts.Label, Account: mask, Symbol: symbol,
		Action: order.Action, Amount: order.Amount,
		Status: types.StatusSubmitted,
	}
	c.reportOutcome(ctx, outcome)

	// Return the ticket to a submittable state for the next symbol.
	if err := c.browser.Eval(ctx, clickBySelectorScript(selNextOrder), nil); err != nil {
		return outcome, err
	}
	*state = ticketReady
	return outcome, nil
}

// setPricing selects the order type, and for limit orders enters the
// computed price and a Day time-in-force.
func (c *Client) setPricing(ctx context.Context, mode priceMode, limitPrice float64) error {
	t := c.opts.Timeouts

	if err := c.browser.Eval(ctx, clickByIDScript(orderTypeBtnID), nil); err != nil {
		return err
	}
	modeSel := selMarket
	if mode == priceLimit {
		modeSel = selLimit
	}
	if err := c.browser.Click(ctx, modeSel, t.Element); err != nil {
		return err
	}
	if mode != priceLimit {
		return nil
	}

	price := strconv.FormatFloat(limitPrice, 'f', 2, 64)
	if err := c.browser.Type(ctx, selPriceField, price, false); err != nil {
		return err
	}
	if err := c.browser.PressEnter(ctx, selPriceField); err != nil {
		return err
	}
	if err := c.browser.Eval(ctx, clickByIDScript(tifBtnID), nil); err != nil {
		return err
	}
	time.Sleep(t.Settle)
	return c.browser.Click(ctx, selDayTIF, t.Element)
}

// recoverFailedOrder handles a submission the site rejected: extract
// the rejection text, cancel the pending ticket and mark the state so
// the next symbol starts from a reset ticket. The same symbol is not
// retried.
func (c *Client) recoverFailedOrder(ctx context.Context, mask, symbol string, order types.OrderRequest, state *ticketState) types.OrderOutcome {
	t := c.opts.Timeouts

	msg, err := c.browser.Text(ctx, selOrderError, t.Short)
	if err != nil {
		logger.Warn(ctx, "Could not extract rejection message", "session", c.opts.Label, "symbol", symbol, "error", err)
		msg = ""
	}
	*state = ticketNeedsReset

	outcome := types.OrderOutcome{
		Broker: c.opts.Label, Account: mask, Symbol: symbol,
		Action: order.Action, Amount: order.Amount,
		Status: types.StatusFailed, Message: msg,
	}
	c.reportOutcome(ctx, outcome)

	// Cancel the pending order so the next symbol can proceed.
	if err := c.browser.WaitVisible(ctx, selCancel, t.Short); err == nil {
		_ = c.browser.Eval(ctx, clickBySelectorScript(selCancel), nil)
	}
	_ = c.browser.Click(ctx, selContinue, t.Short)
	return outcome
}

// reportOutcome pushes one outcome to the notifier, the structured
// log and the trade log, incrementally as the run progresses.
func (c *Client) reportOutcome(ctx context.Context, o types.OrderOutcome) {
	switch o.Status {
	case types.StatusSubmitted:
		c.report(ctx, "%s %s: %s %d shares of %s", o.Broker, o.Account, o.Action, o.Amount, o.Symbol)
	case types.StatusDryRun:
		c.report(ctx, "DRY: %s account %s: %s %d shares of %s", o.Broker, o.Account, o.Action, o.Amount, o.Symbol)
	case types.StatusFailed:
		c.report(ctx, "%s %s: %s %d shares of %s. FAILED! %s", o.Broker, o.Account, o.Action, o.Amount, o.Symbol, o.Message)
	}

	logger.Order(ctx, o.Broker, o.Account, o.Symbol, string(o.Action), o.Amount, string(o.Status))
	if err := tradelog.Append(tradelog.Entry{
		Broker:  o.Broker,
		Account: o.Account,
		Symbol:  o.Symbol,
		Action:  string(o.Action),
		Amount:  o.Amount,
		Status:  string(o.Status),
		Message: o.Message,
	}); err != nil {
		logger.Warn(ctx, "Could not append trade log entry", "error", err)
	}
}
