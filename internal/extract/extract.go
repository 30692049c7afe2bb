// Package extract parses the loosely formatted text the brokerage
// renders into table cells and balance fields. All functions are pure.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	numberRe    = regexp.MustCompile(`-?\d+(\.\d+)?`)
	firstLineRe = regexp.MustCompile(`^[^\n]*`)
)

// Number extracts the first signed decimal from raw cell text,
// ignoring currency symbols, thousands separators and embedded
// newlines. Text with no numeric content yields 0.
func Number(s string) float64 {
	cleaned := strings.NewReplacer("\n", "", "$", "", ",", "").Replace(s)
	m := numberRe.FindString(cleaned)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// FirstLine returns the text up to the first newline, trimmed. If the
// match fails the full trimmed text is the fallback.
func FirstLine(s string) string {
	if m := firstLineRe.FindString(s); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(s)
}

// Balance strictly parses a displayed account balance after stripping
// the currency symbol and separators.
func Balance(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", "\n", "").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(cleaned, 64)
}

// Mask replaces the site's masking glyph with "*" in a displayed
// account number.
func Mask(s, glyph string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), glyph, "*")
}

// minHoldingCells is the cell count that distinguishes a data row from
// headers and separators.
const minHoldingCells = 9

// HoldingRow is one parsed position line: name from cell 1, quantity
// from cell 3, price from cell 4.
type HoldingRow struct {
	Symbol   string
	Quantity float64
	Price    float64
}

// HoldingsRows parses every qualifying "tbody tr" row out of a chunk
// of page HTML. Rows with fewer than 9 cells are skipped.
func HoldingsRows(html string) ([]HoldingRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var rows []HoldingRow
	doc.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < minHoldingCells {
			return
		}
		rows = append(rows, HoldingRow{
			Symbol:   FirstLine(cells.Eq(1).Text()),
			Quantity: Number(cells.Eq(3).Text()),
			Price:    Number(cells.Eq(4).Text()),
		})
	})
	return rows, nil
}
