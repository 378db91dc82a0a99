package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/beantab"
	"github.com/shopspring/decimal"
)

// Empty is shown for a cell without value.
const Empty = "·"

// formatNumber formats d with two decimals and thousands separators.
// Negative numbers are put in parentheses: "(1,234.50)".
func formatNumber(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	if d.IsNegative() {
		return "(" + b.String() + ")"
	}
	return b.String()
}

// formatValue formats a cell value and its tag symbol, if any.
func formatValue(v beantab.Value, t beantab.BalanceType) string {
	var s string
	switch d, ok := v.Decimal(); {
	case ok:
		s = formatNumber(d)
	case v.IsNull():
		return Empty
	default:
		s = v.String()
	}
	if !t.IsZero() {
		s += " " + t.Symbol()
	}
	return s
}

// CurrencyLabel returns the currency code with its symbol, "€ EUR", or a
// placeholder symbol for codes that are not ISO 4217 currencies.
func CurrencyLabel(code string) string {
	if c := money.GetCurrency(code); c != nil && c.Grapheme != "" {
		return c.Grapheme + " " + code
	}
	return "◌ " + code
}
