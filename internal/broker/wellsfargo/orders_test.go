package wellsfargo

import (
	"context"
	"strings"
	"testing"

	"wellsfargo-trader/internal/browser/fake"
	"wellsfargo-trader/internal/types"
)

func TestPricingFor(t *testing.T) {
	tests := []struct {
		action    types.Action
		quote     float64
		wantMode  priceMode
		wantPrice float64
	}{
		{types.ActionBuy, 250.00, priceMarket, 0},
		{types.ActionSell, 250.00, priceMarket, 0},
		// Exactly at the cutoff still trades at market.
		{types.ActionBuy, 2.00, priceMarket, 0},
		{types.ActionSell, 2.00, priceMarket, 0},
		{types.ActionBuy, 1.99, priceLimit, 2.00},
		{types.ActionSell, 1.99, priceLimit, 1.98},
		{types.ActionBuy, 0.50, priceLimit, 0.51},
	}
	for _, tt := range tests {
		mode, price := pricingFor(tt.action, tt.quote)
		if mode != tt.wantMode || price != tt.wantPrice {
			t.Errorf("pricingFor(%s, %v) = %s, %v, want %s, %v",
				tt.action, tt.quote, mode, price, tt.wantMode, tt.wantPrice)
		}
	}
}

// tradeEval answers the trade selector scripts the same way
// holdingsEval does for the positions view.
func tradeEval(count int, matches map[string]int) func(string, any) error {
	return holdingsEval(count, matches)
}

func orderBrowser(matches map[string]int, count int) *fake.Browser {
	b := fake.New()
	b.Visible[selReview] = true
	b.Visible[selQuote] = true
	b.TextFor[selQuote] = "$12.34"
	b.OnEval = tradeEval(count, matches)
	return b
}

func TestTransactRejectsUnknownAction(t *testing.T) {
	b := fake.New()
	n := &testNotifier{}
	c := newTestClient(t, b, n)

	_, err := c.Transact(context.Background(), types.OrderRequest{Action: "hold", Symbols: []string{"AAPL"}, Amount: 1})
	if err == nil {
		t.Fatal("Transact() accepted an unknown action")
	}
	// Rejected before any page interaction.
	if len(b.Calls) != 0 {
		t.Errorf("browser calls = %v, want none", b.Calls)
	}
}

func TestTransactDryRunNeverTouchesSubmit(t *testing.T) {
	b := orderBrowser(map[string]int{"1234": 0}, 1)
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 1000)

	outcomes, err := c.Transact(context.Background(), types.OrderRequest{
		Action: types.ActionSell, Symbols: []string{"TSLA", "AAPL"}, Amount: 2, DryRun: true,
	})
	if err != nil {
		t.Fatalf("Transact() error = %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Status != types.StatusDryRun {
			t.Errorf("outcome %s status = %s, want %s", o.Symbol, o.Status, types.StatusDryRun)
		}
	}

	if got := b.CallCount("wait", selSubmit); got != 0 {
		t.Errorf("waited on submit control %d times, want 0", got)
	}
	for _, script := range b.EvalScripts() {
		if strings.Contains(script, "btn-wfa-submit") {
			t.Errorf("dry run evaluated submit click: %s", script)
		}
	}
	// The simulated failure after TSLA forces a ticket reset before
	// AAPL, so the trade entry point is opened a second time.
	if got := b.CallCount("click", selTradeStocks); got != 2 {
		t.Errorf("trade stocks clicked %d times, want 2 (open + reset)", got)
	}
	if !n.sentContaining("DRY:") {
		t.Errorf("missing dry-run report, sent = %v", n.sent)
	}
}

func TestTransactSubmitsLiveOrders(t *testing.T) {
	b := orderBrowser(map[string]int{"1234": 0}, 1)
	b.Visible[selSubmit] = true
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 1000)

	outcomes, err := c.Transact(context.Background(), types.OrderRequest{
		Action: types.ActionBuy, Symbols: []string{"TSLA", "AAPL"}, Amount: 1,
	})
	if err != nil {
		t.Fatalf("Transact() error = %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Status != types.StatusSubmitted {
			t.Errorf("outcome %s status = %s, want %s", o.Symbol, o.Status, types.StatusSubmitted)
		}
	}

	var submits, nexts int
	for _, script := range b.EvalScripts() {
		if strings.Contains(script, "btn-wfa-submit") {
			submits++
		}
		if strings.Contains(script, "btn-wfa-primary") {
			nexts++
		}
	}
	if submits != 2 || nexts != 2 {
		t.Errorf("submit clicks = %d, next-order clicks = %d, want 2 and 2", submits, nexts)
	}
	// Successful submissions leave the ticket clean: no resets beyond
	// the initial navigation.
	if got := b.CallCount("click", selTradeStocks); got != 1 {
		t.Errorf("trade stocks clicked %d times, want 1", got)
	}
	// Quote $12.34 is above the penny-stock cutoff.
	if got := b.CallCount("click", selMarket); got != 2 {
		t.Errorf("market order type picked %d times, want 2", got)
	}
}

func TestTransactRecoversFromRejectedOrder(t *testing.T) {
	b := orderBrowser(map[string]int{"1234": 0}, 1)
	// selSubmit stays invisible: every review is rejected.
	b.Visible[selCancel] = true
	b.TextFor[selOrderError] = "You do not have enough shares to sell."
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 1000)

	outcomes, err := c.Transact(context.Background(), types.OrderRequest{
		Action: types.ActionSell, Symbols: []string{"BAD", "WORSE"}, Amount: 5,
	})
	if err != nil {
		t.Fatalf("Transact() error = %v, rejections must not abort", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2 (second symbol still attempted)", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Status != types.StatusFailed {
			t.Errorf("outcome %s status = %s, want %s", o.Symbol, o.Status, types.StatusFailed)
		}
		if o.Message != "You do not have enough shares to sell." {
			t.Errorf("outcome %s message = %q", o.Symbol, o.Message)
		}
	}
	// The first rejection dirties the ticket; the second symbol must
	// run the reset sequence first.
	if got := b.CallCount("click", selTradeStocks); got != 2 {
		t.Errorf("trade stocks clicked %d times, want 2 (open + reset)", got)
	}
	if !n.sentContaining("FAILED!") {
		t.Errorf("missing failure report, sent = %v", n.sent)
	}
}

func TestTransactUnreadableQuoteNeverSubmits(t *testing.T) {
	for _, quoteText := range []string{"--", "0.00"} {
		b := orderBrowser(map[string]int{"1234": 0}, 1)
		b.Visible[selSubmit] = true
		b.TextFor[selQuote] = quoteText
		n := &testNotifier{}
		c := newTestClient(t, b, n)
		c.registry.Add("***1234", 1000)

		outcomes, err := c.Transact(context.Background(), types.OrderRequest{
			Action: types.ActionSell, Symbols: []string{"TSLA"}, Amount: 5,
		})
		if err == nil {
			t.Fatalf("quote %q: Transact() error = nil, want quote failure", quoteText)
		}
		if len(outcomes) != 1 || outcomes[0].Status != types.StatusFailed {
			t.Fatalf("quote %q: outcomes = %+v, want one failed outcome", quoteText, outcomes)
		}
		if len(b.Typed[selPriceField]) != 0 {
			t.Errorf("quote %q: typed into price field: %v", quoteText, b.Typed[selPriceField])
		}
		for _, script := range b.EvalScripts() {
			if strings.Contains(script, "btn-wfa-submit") {
				t.Errorf("quote %q: submitted against unreadable quote: %s", quoteText, script)
			}
		}
	}
}

func TestTransactSkipsUnmatchedTradeAccount(t *testing.T) {
	b := orderBrowser(map[string]int{"2222": 0}, 2)
	b.Visible[selSubmit] = true
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1111", 100)
	c.registry.Add("***2222", 200)

	outcomes, err := c.Transact(context.Background(), types.OrderRequest{
		Action: types.ActionBuy, Symbols: []string{"AAPL"}, Amount: 1,
	})
	if err != nil {
		t.Fatalf("Transact() error = %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Account != "***2222" {
		t.Fatalf("outcomes = %+v, want a single order on ***2222", outcomes)
	}
	if !n.sentContaining("could not select account ***1111") {
		t.Errorf("missing skip report, sent = %v", n.sent)
	}
}

func TestTransactExtraSelectorRowsIgnored(t *testing.T) {
	b := orderBrowser(map[string]int{"1234": 0}, 3)
	b.Visible[selSubmit] = true
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 1000)

	outcomes, err := c.Transact(context.Background(), types.OrderRequest{
		Action: types.ActionBuy, Symbols: []string{"AAPL"}, Amount: 1,
	})
	if err != nil {
		t.Fatalf("Transact() error = %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1 (rows past the accounts skipped)", len(outcomes))
	}
}
