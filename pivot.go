package beantab

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// GridOptions are the display settings of the grid.
//
// The zero value is the default: no grouping, every date and every row shown.
type GridOptions struct {
	// GroupByAccount presents the rows of the same account as one group.
	// Rows are not changed, see Grid.Groups.
	GroupByAccount bool `yaml:"groupByAccount" json:"groupByAccount"`
	// HideDatesWithFewerThan hides the dates where fewer distinct accounts
	// have a value. Extra dates are always shown. 0 disables it.
	HideDatesWithFewerThan uint `yaml:"hideDatesWithFewerThan" json:"hideDatesWithFewerThan"`
	// HideAccountsWithNoEntries hides the rows with no value on any shown date.
	HideAccountsWithNoEntries bool `yaml:"hideAccountsWithNoEntries" json:"hideAccountsWithNoEntries"`
}

// DefaultGridOptions returns the options used when none are configured.
func DefaultGridOptions() GridOptions { return GridOptions{} }

// PivotInput is everything BuildGrid needs.
type PivotInput struct {
	Balances      []Balance
	Accounts      []Account
	BalanceErrors []BalanceError
	Edits         []Edit
	Filter        AccountFilter
	// ExtraDates are always shown, even without any balance. They are
	// expected to be valid and normalized, see date.Normalize.
	ExtraDates []string
	Options    GridOptions
}

// Cell is the content of the grid at one row and date.
type Cell struct {
	Value Value
	// Type is the tag shown next to the value. It is set only when it
	// differs from the account default or when an edit carries one.
	Type BalanceType
	// Modified is set when the cell shows a pending edit.
	Modified bool
	// Error is the failed balance check reported for this cell, if any.
	Error string
}

// Text returns the cell content as typed in the grid: "100", "50~", or "".
func (c Cell) Text() string { return Encode(c.Value, c.Type) }

// IsNull reports whether the cell is empty.
func (c Cell) IsNull() bool { return c.Value.IsNull() }

// GridRow is an (account, currency) row of the grid.
type GridRow struct {
	Account            string
	Currency           string
	DefaultBalanceType BalanceType
	// Cells is aligned with Grid.Dates.
	Cells []Cell
}

// Group lists the rows of one account, by index in Grid.Rows.
type Group struct {
	Account string
	Rows    []int
}

// Grid is the pivot of the balances: one row per (account, currency), one
// column per date.
type Grid struct {
	// Dates are the columns, sorted ascending.
	Dates []string
	Rows  []GridRow
	// Groups is set when GridOptions.GroupByAccount is, in first-seen
	// account order.
	Groups []Group
}

// BuildGrid pivots the balances into a Grid and overlays the pending edits.
//
// It is a pure function of its input: same input, same grid.
func BuildGrid(in PivotInput) Grid {
	// 1. keep the balances of the filtered accounts.
	facts := make([]Balance, 0, len(in.Balances))
	for _, b := range in.Balances {
		if in.Filter.Match(b.Account) {
			facts = append(facts, b)
		}
	}

	// 2. every date with a balance, an edit or asked for.
	extra := make(map[string]bool)
	for _, d := range in.ExtraDates {
		if d = strings.TrimSpace(d); d != "" {
			extra[d] = true
		}
	}
	candidates := make(map[string]bool)
	for _, b := range facts {
		candidates[b.Date] = true
	}
	for _, e := range in.Edits {
		candidates[e.Date] = true
	}
	for d := range extra {
		candidates[d] = true
	}

	// 3. hide sparse dates, counting accounts not currencies.
	accountsByDate := make(map[string]map[string]bool)
	for _, b := range facts {
		if b.Number.IsNull() {
			continue
		}
		s, exists := accountsByDate[b.Date]
		if !exists {
			s = make(map[string]bool)
			accountsByDate[b.Date] = s
		}
		s[b.Account] = true
	}
	threshold := in.Options.HideDatesWithFewerThan
	var dates []string
	for d := range candidates {
		if threshold > 0 && !extra[d] && uint(len(accountsByDate[d])) < threshold {
			continue
		}
		dates = append(dates, d)
	}
	slices.Sort(dates)
	column := make(map[string]int, len(dates))
	for i, d := range dates {
		column[d] = i
	}

	defaults := make(map[string]BalanceType, len(in.Accounts))
	for _, a := range in.Accounts {
		defaults[a.Account] = a.DefaultBalanceType
	}

	// 4. one row per (account, currency), in first-seen order.
	type pair struct{ account, currency string }
	var rows []GridRow
	rowIndex := make(map[pair]int)
	for _, b := range facts {
		p := pair{b.Account, b.Currency}
		if _, exists := rowIndex[p]; exists {
			continue
		}
		rowIndex[p] = len(rows)
		rows = append(rows, GridRow{
			Account:            b.Account,
			Currency:           b.Currency,
			DefaultBalanceType: defaults[b.Account],
			Cells:              make([]Cell, len(dates)),
		})
	}

	// 5. fill in the facts, the last one wins on duplicates.
	for _, b := range facts {
		i, ok := column[b.Date]
		if !ok {
			continue
		}
		row := &rows[rowIndex[pair{b.Account, b.Currency}]]
		c := Cell{Value: b.Number}
		if def := row.DefaultBalanceType; !def.IsZero() && !b.Number.IsNull() && b.Type != def {
			c.Type = b.Type
		}
		row.Cells[i] = c
	}

	// 6. overlay the edits on existing rows.
	for _, e := range in.Edits {
		r, exists := rowIndex[pair{e.Account, e.Currency}]
		if !exists {
			continue
		}
		i, ok := column[e.Date]
		if !ok {
			continue
		}
		rows[r].Cells[i] = Cell{Value: e.NewValue, Type: e.BalanceType, Modified: true}
	}

	for _, be := range in.BalanceErrors {
		r, exists := rowIndex[pair{be.Account, be.Currency}]
		if !exists {
			continue
		}
		i, ok := column[be.Date]
		if !ok {
			continue
		}
		if c := &rows[r].Cells[i]; c.Error == "" {
			c.Error = be.Message
		}
	}

	// 7. drop empty rows.
	if in.Options.HideAccountsWithNoEntries {
		rows = slices.DeleteFunc(rows, func(r GridRow) bool {
			return !slices.ContainsFunc(r.Cells, func(c Cell) bool { return !c.IsNull() })
		})
	}

	g := Grid{Dates: dates, Rows: rows}
	// 8. grouping only describes the rows.
	if in.Options.GroupByAccount {
		g.group()
	}
	return g
}

func (g *Grid) group() {
	g.Groups = nil
	index := make(map[string]int)
	for i, r := range g.Rows {
		gi, exists := index[r.Account]
		if !exists {
			gi = len(g.Groups)
			index[r.Account] = gi
			g.Groups = append(g.Groups, Group{Account: r.Account})
		}
		g.Groups[gi].Rows = append(g.Groups[gi].Rows, i)
	}
}

// Row returns the row of (account, currency).
func (g *Grid) Row(account, currency string) (*GridRow, bool) {
	for i := range g.Rows {
		if g.Rows[i].Account == account && g.Rows[i].Currency == currency {
			return &g.Rows[i], true
		}
	}
	return nil, false
}

// Cell returns the cell of (account, currency) on day. It reports false if
// there is no such row or no such column.
func (g *Grid) Cell(account, currency, day string) (Cell, bool) {
	row, ok := g.Row(account, currency)
	if !ok {
		return Cell{}, false
	}
	i, ok := slices.BinarySearch(g.Dates, day)
	if !ok {
		return Cell{}, false
	}
	return row.Cells[i], true
}

// Sort properties accepted by SortRows.
const (
	SortByAccount            = "account"
	SortByCurrency           = "currency"
	SortByDefaultBalanceType = "defaultBalanceType"
)

// SortRows reorders the rows by one of the fixed columns. The sort is
// stable and only changes the presentation, Groups follow the new order.
func (g *Grid) SortRows(prop string, descending bool) error {
	var key func(r GridRow) string
	switch prop {
	case SortByAccount:
		key = func(r GridRow) string { return r.Account }
	case SortByCurrency:
		key = func(r GridRow) string { return r.Currency }
	case SortByDefaultBalanceType:
		key = func(r GridRow) string { return r.DefaultBalanceType.String() }
	default:
		return fmt.Errorf("cannot sort rows by %q", prop)
	}
	slices.SortStableFunc(g.Rows, func(a, b GridRow) int {
		c := cmp.Compare(key(a), key(b))
		if descending {
			return -c
		}
		return c
	})
	if g.Groups != nil {
		g.group()
	}
	return nil
}

// MarshalJSON writes the grid as
//
//	{"dates": [...], "rows": [...], "modified": [...], "errors": {...}}
//
// where each row is one flat object: the fixed columns, then one key per
// date holding a number, an annotated text like "50~", or null. Modified
// lists the "account|currency|date" keys of the edited cells and errors maps
// those keys to the balance check failures.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([]flatRow, 0, len(g.Rows))
	modified := []string{}
	var failed map[string]string
	for _, r := range g.Rows {
		rows = append(rows, flatRow{row: r, dates: g.Dates})
		for i, c := range r.Cells {
			key := EditKey{r.Account, r.Currency, g.Dates[i]}.String()
			if c.Modified {
				modified = append(modified, key)
			}
			if c.Error != "" {
				if failed == nil {
					failed = make(map[string]string)
				}
				failed[key] = c.Error
			}
		}
	}
	dates := g.Dates
	if dates == nil {
		dates = []string{}
	}
	var w jsonObjectWriter
	w.Append("dates", dates).
		Append("rows", rows).
		Append("modified", modified).
		Optional("errors", failed)
	if len(g.Groups) > 0 {
		groups := make(map[string][]int, len(g.Groups))
		for _, gr := range g.Groups {
			groups[gr.Account] = gr.Rows
		}
		w.Append("groups", groups)
	}
	return w.MarshalJSON()
}

type flatRow struct {
	row   GridRow
	dates []string
}

func (f flatRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", f.row.Account).
		Append("currency", f.row.Currency).
		Append("defaultBalanceType", f.row.DefaultBalanceType)
	for i, c := range f.row.Cells {
		if c.Type.IsZero() {
			w.Append(f.dates[i], c.Value)
		} else {
			w.Append(f.dates[i], c.Text())
		}
	}
	return w.MarshalJSON()
}
