package beantab

import (
	"cmp"
	"fmt"
	"slices"
)

// BalanceType classifies how a balance was established in the ledger.
//
// The zero value, NoBalanceType, means the value carries no tag.
type BalanceType int

const (
	NoBalanceType BalanceType = iota
	// Regular is a plain balance assertion.
	Regular
	// Full asserts every currency of the account at once.
	Full
	// Padded lets the ledger insert a padding entry to reach the value.
	Padded
	// FullPadded is Full and Padded.
	FullPadded
	// Valuation records a market value rather than a quantity.
	Valuation
)

type balanceTypeDisplay struct {
	name   string
	symbol string
	color  string
}

var balanceTypeDisplays = [...]balanceTypeDisplay{
	NoBalanceType: {},
	Regular:       {name: "regular", symbol: "!", color: "#00897b"},
	Full:          {name: "full", symbol: "F", color: "rgb(30, 136, 229)"},
	Padded:        {name: "padded", symbol: "~", color: "#546e7a"},
	FullPadded:    {name: "full-padded", symbol: "F~", color: "rgb(30, 136, 229)"},
	Valuation:     {name: "valuation", symbol: "V", color: "rgb(30, 136, 229)"},
}

// symbolOrder lists the tags by decreasing symbol length, so that "F~" is
// tried before "~" when reading a cell.
var symbolOrder []BalanceType

func init() {
	seen := make(map[string]BalanceType)
	for t := Regular; int(t) < len(balanceTypeDisplays); t++ {
		s := balanceTypeDisplays[t].symbol
		if s == "" {
			panic(fmt.Sprintf("balance type %q has no symbol", balanceTypeDisplays[t].name))
		}
		if other, exists := seen[s]; exists {
			panic(fmt.Sprintf("balance types %v and %v share the symbol %q", other, t, s))
		}
		seen[s] = t
		symbolOrder = append(symbolOrder, t)
	}
	slices.SortStableFunc(symbolOrder, func(a, b BalanceType) int {
		return cmp.Compare(len(b.Symbol()), len(a.Symbol()))
	})
}

// BalanceTypes returns all the tags, in declaration order.
func BalanceTypes() []BalanceType {
	return []BalanceType{Regular, Full, Padded, FullPadded, Valuation}
}

func (t BalanceType) display() balanceTypeDisplay {
	if t < 0 || int(t) >= len(balanceTypeDisplays) {
		return balanceTypeDisplay{}
	}
	return balanceTypeDisplays[t]
}

// String returns the tag name as used on the wire ("full-padded"), or "" for NoBalanceType.
func (t BalanceType) String() string { return t.display().name }

// Symbol returns the suffix appended to a cell value to carry this tag.
func (t BalanceType) Symbol() string { return t.display().symbol }

// Color returns the CSS color used to display this tag.
func (t BalanceType) Color() string { return t.display().color }

// IsZero reports whether t carries no tag.
func (t BalanceType) IsZero() bool { return t == NoBalanceType }

// ParseBalanceType parses a tag name. The empty string is NoBalanceType.
func ParseBalanceType(name string) (BalanceType, error) {
	if name == "" {
		return NoBalanceType, nil
	}
	for _, t := range BalanceTypes() {
		if t.String() == name {
			return t, nil
		}
	}
	return NoBalanceType, fmt.Errorf("unknown balance type: %q", name)
}

// MarshalText encodes the tag by name.
func (t BalanceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a tag by name.
//
// Names this package does not know are read as NoBalanceType: the backend may
// know more kinds of balances than the grid can display.
func (t *BalanceType) UnmarshalText(text []byte) error {
	v, err := ParseBalanceType(string(text))
	if err != nil {
		v = NoBalanceType
	}
	*t = v
	return nil
}
