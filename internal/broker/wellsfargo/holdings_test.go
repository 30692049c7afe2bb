package wellsfargo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wellsfargo-trader/internal/browser/fake"
)

const positionsHTML = `<body><table><tbody>
<tr><td>header</td><td>short row</td></tr>
<tr>
  <td></td><td>APPLE INC
AAPL</td><td></td><td>10</td><td>$189.50</td><td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td></td><td>TSLA</td><td></td><td>2.5</td><td>$244.10</td><td></td><td></td><td></td><td></td>
</tr>
</tbody></table></body>`

// holdingsEval answers the dropdown scripts: the entry count and the
// text-match lookups keyed by account digits.
func holdingsEval(count int, matches map[string]int) func(string, any) error {
	return func(script string, out any) error {
		if strings.Contains(script, "includes(") {
			for needle, idx := range matches {
				if strings.Contains(script, `"`+needle+`"`) {
					return fake.SetResult(out, idx)
				}
			}
			return fake.SetResult(out, -1)
		}
		if strings.Contains(script, ".length") {
			return fake.SetResult(out, count)
		}
		return nil
	}
}

func TestHoldingsSingleAccountLayout(t *testing.T) {
	b := fake.New()
	b.HTMLFor["body"] = positionsHTML
	// selHoldingsDropdown stays invisible: the probe times out and the
	// flow must treat the session as single-account.
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 100)

	records, err := c.Holdings(context.Background())
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (short row skipped)", len(records))
	}
	if records[0].Symbol != "APPLE INC" {
		t.Errorf("symbol = %q, want first line only", records[0].Symbol)
	}
	if records[0].Quantity != 10 || records[0].Price != 189.50 {
		t.Errorf("record = %+v, want qty 10 price 189.50", records[0])
	}
	if records[1].Symbol != "TSLA" || records[1].Quantity != 2.5 {
		t.Errorf("record = %+v, want TSLA x2.5", records[1])
	}
	for _, r := range records {
		if r.Account != "***1234" {
			t.Errorf("account = %q, want ***1234", r.Account)
		}
	}
}

func TestHoldingsMultiAccountLayout(t *testing.T) {
	b := fake.New()
	b.Visible[selHoldingsDropdown] = true
	b.HTMLFor["body"] = positionsHTML
	// Five selector rows minus the three non-account ones.
	b.OnEval = holdingsEval(5, map[string]int{"1234": 0, "5678": 1})
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 100)
	c.registry.Add("***5678", 200)

	records, err := c.Holdings(context.Background())
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (2 per account)", len(records))
	}
	if records[0].Account != "***1234" || records[2].Account != "***5678" {
		t.Errorf("accounts out of order: %q then %q", records[0].Account, records[2].Account)
	}
}

func TestHoldingsSkipsUnmatchedAccount(t *testing.T) {
	b := fake.New()
	b.Visible[selHoldingsDropdown] = true
	b.HTMLFor["body"] = positionsHTML
	// Second account's digits never match a selector entry.
	b.OnEval = holdingsEval(5, map[string]int{"1234": 0})
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 100)
	c.registry.Add("***5678", 200)

	records, err := c.Holdings(context.Background())
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (unmatched account skipped)", len(records))
	}
	for _, r := range records {
		if r.Account != "***1234" {
			t.Errorf("account = %q, want only ***1234", r.Account)
		}
	}
}

func TestHoldingsUnreachableViewIsNotFatal(t *testing.T) {
	b := fake.New()
	b.ClickErr[selHoldingsLink] = errors.New("nav shell changed")
	n := &testNotifier{}
	c := newTestClient(t, b, n)
	c.registry.Add("***1234", 100)

	records, err := c.Holdings(context.Background())
	if err != nil {
		t.Fatalf("Holdings() error = %v, want nil", err)
	}
	if records != nil {
		t.Errorf("records = %v, want nil", records)
	}
	if len(b.Screenshots) != 1 {
		t.Errorf("screenshots = %v, want a diagnostic capture", b.Screenshots)
	}
}
