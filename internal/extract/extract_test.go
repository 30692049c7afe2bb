package extract

import "testing"

func TestNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"150.25", 150.25},
		{"$1,234.56", 1234.56},
		{"12\n3.5", 123.5},
		{"-0.75", -0.75},
		{"  $2,000\n", 2000},
		{"N/A", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := Number(c.in); got != c.want {
			t.Errorf("Number(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNumberIdempotent(t *testing.T) {
	first := Number("$1,234.56")
	second := Number("1234.56")
	if first != second {
		t.Errorf("re-extraction changed value: %v vs %v", first, second)
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("AAPL\nApple Inc"); got != "AAPL" {
		t.Errorf("expected AAPL, got %q", got)
	}
	if got := FirstLine("  MSFT  "); got != "MSFT" {
		t.Errorf("expected MSFT, got %q", got)
	}
	if got := FirstLine("\nsecond line"); got != "second line" {
		t.Errorf("expected fallback to full text, got %q", got)
	}
}

func TestBalance(t *testing.T) {
	v, err := Balance("$12,345.67")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 12345.67 {
		t.Errorf("expected 12345.67, got %v", v)
	}
	if _, err := Balance("pending"); err == nil {
		t.Error("expected error for non-numeric balance")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("....1234", "."); got != "****1234" {
		t.Errorf("expected ****1234, got %q", got)
	}
}

const holdingsHTML = `
<table><tbody>
<tr><td>h</td><td>skip: too few cells</td><td></td></tr>
<tr>
  <td></td><td>AAPL
Apple Inc</td><td></td><td>10</td><td>$150.25</td><td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td></td><td>BRK.B</td><td></td><td>2.5</td><td>1,050.00</td><td></td><td></td><td></td><td></td><td>extra</td>
</tr>
</tbody></table>`

func TestHoldingsRows(t *testing.T) {
	rows, err := HoldingsRows(holdingsHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Symbol != "AAPL" || rows[0].Quantity != 10 || rows[0].Price != 150.25 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Symbol != "BRK.B" || rows[1].Quantity != 2.5 || rows[1].Price != 1050 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestHoldingsRowsDuplicateSymbolsAppend(t *testing.T) {
	html := `<tbody>
<tr><td></td><td>TSLA</td><td></td><td>1</td><td>200</td><td></td><td></td><td></td><td></td></tr>
<tr><td></td><td>TSLA</td><td></td><td>2</td><td>201</td><td></td><td></td><td></td><td></td></tr>
</tbody>`
	rows, err := HoldingsRows(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected duplicate symbols to append, got %d rows", len(rows))
	}
}
