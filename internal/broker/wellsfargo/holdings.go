package wellsfargo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellsfargo-trader/internal/extract"
	"wellsfargo-trader/internal/interfaces"
	"wellsfargo-trader/internal/logger"
	"wellsfargo-trader/internal/types"
)

// Holdings navigates to the positions view and scrapes one record per
// qualifying table row across every discovered account. Failure to
// reach the view is reported and yields an empty result; it never
// takes the rest of the run down.
func (c *Client) Holdings(ctx context.Context) ([]types.HoldingRecord, error) {
	t := c.opts.Timeouts

	if err := c.browser.Click(ctx, selBrokerage, t.PageLoad); err != nil {
		return nil, fmt.Errorf("open brokerage: %w", err)
	}
	if err := c.browser.Click(ctx, selHoldingsLink, t.PageLoad); err != nil {
		c.diagnose(ctx, fmt.Errorf("open holdings snapshot: %w", err))
		return nil, nil
	}
	if err := c.browser.Click(ctx, selPositions, t.Element); err != nil {
		c.diagnose(ctx, fmt.Errorf("open positions: %w", err))
		return nil, nil
	}

	// One-shot layout probe: the selector control only exists when the
	// session sees more than one account. Timeout means single-account.
	multi := true
	if err := c.browser.WaitVisible(ctx, selHoldingsDropdown, t.Probe); err != nil {
		if !errors.Is(err, interfaces.ErrTimeout) {
			return nil, fmt.Errorf("probe account selector: %w", err)
		}
		multi = false
	}

	masks := c.registry.Masks()
	if len(masks) == 0 {
		logger.Error(ctx, "No account masks stored for session", "session", c.opts.Label)
		return nil, nil
	}

	if !multi {
		logger.Debug(ctx, "Single-account holdings layout", "session", c.opts.Label)
		time.Sleep(t.Settle)
		return c.scrapePositions(ctx, masks[0])
	}

	logger.Debug(ctx, "Multi-account holdings layout", "session", c.opts.Label)
	if err := c.browser.Click(ctx, selHoldingsDropdown, t.PageLoad); err != nil {
		return nil, fmt.Errorf("open account selector: %w", err)
	}

	var count int
	if err := c.browser.Eval(ctx, countListScript(holdingsListID), &count); err != nil {
		return nil, fmt.Errorf("count selector entries: %w", err)
	}
	count -= holdingsListOffset

	var records []types.HoldingRecord
	for i := 0; i < count; i++ {
		// Extra selector rows beyond the discovered accounts are
		// skipped, never an error.
		if i >= len(masks) {
			continue
		}
		if err := c.selectHoldingsAccount(ctx, masks[i]); err != nil {
			logger.Warn(ctx, "Could not change account", "session", c.opts.Label, "account", masks[i], "error", err)
			continue
		}
		time.Sleep(t.Settle)
		recs, err := c.scrapePositions(ctx, masks[i])
		if err != nil {
			return records, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// selectHoldingsAccount reopens the selector and picks the entry whose
// text contains the account's unmasked digits. The text match is the
// selection key; a miss skips this account.
func (c *Client) selectHoldingsAccount(ctx context.Context, mask string) error {
	t := c.opts.Timeouts

	if err := c.browser.Click(ctx, selHoldingsDropdown, t.PageLoad); err != nil {
		return err
	}
	time.Sleep(t.Settle)

	var idx int
	if err := c.browser.Eval(ctx, findListEntryScript(holdingsListID, digits(mask)), &idx); err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("no selector entry matched account %s", mask)
	}
	return nil
}

// scrapePositions parses the currently displayed positions table.
func (c *Client) scrapePositions(ctx context.Context, mask string) ([]types.HoldingRecord, error) {
	html, err := c.browser.OuterHTML(ctx, "body", c.opts.Timeouts.Element)
	if err != nil {
		return nil, fmt.Errorf("read positions table: %w", err)
	}
	rows, err := extract.HoldingsRows(html)
	if err != nil {
		return nil, fmt.Errorf("parse positions table: %w", err)
	}

	records := make([]types.HoldingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, types.HoldingRecord{
			Broker:   c.opts.Label,
			Account:  mask,
			Symbol:   row.Symbol,
			Quantity: row.Quantity,
			Price:    row.Price,
		})
	}
	logger.Debug(ctx, "Scraped positions", "session", c.opts.Label, "account", mask, "rows", len(records))
	return records, nil
}
