package beantab

import (
	"strings"

	"github.com/shopspring/decimal"
)

// A cell text is a number optionally followed by the symbol of a balance type:
//
//	"123.45"   regular value, no tag
//	"123.45~"  padded
//	"123.45F~" full-padded
//
// The symbols are tried longest first, so "F~" wins over "~" when both match.

// Encode returns the cell text for a value and an optional tag.
//
// A null value encodes as "" and never carries a tag.
func Encode(v Value, t BalanceType) string {
	if v.IsNull() {
		return ""
	}
	return v.String() + t.Symbol()
}

// Decode reads a cell text back into a value and a tag.
//
// Blank text is the null value. Text that is not a number, with or without a
// symbol, is returned verbatim as a Text value with no tag: it is up to the
// caller to treat it as undecodable.
func Decode(text string) (Value, BalanceType) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Null(), NoBalanceType
	}
	for _, t := range symbolOrder {
		prefix, ok := strings.CutSuffix(s, t.Symbol())
		if !ok {
			continue
		}
		if d, err := parseNumber(prefix); err == nil {
			return Number(d), t
		}
	}
	if d, err := parseNumber(s); err == nil {
		return Number(d), NoBalanceType
	}
	return Text(text), NoBalanceType
}

func parseNumber(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
