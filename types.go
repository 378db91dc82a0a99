package beantab

import (
	"cmp"
	"fmt"
	"strings"
)

// Balance is one observed (account, currency, date) value of the ledger.
type Balance struct {
	Account  string      `json:"account"`
	Currency string      `json:"currency"`
	Date     string      `json:"date"`
	Number   Value       `json:"number"`
	Type     BalanceType `json:"type"`
}

// Key returns the cell this balance belongs to.
func (b Balance) Key() EditKey { return EditKey{b.Account, b.Currency, b.Date} }

// Account describes a ledger account as the grid needs it.
type Account struct {
	Account            string      `json:"account"`
	DefaultBalanceType BalanceType `json:"defaultBalanceType"`
	Currencies         []string    `json:"currencies"`
}

// BalanceError is a failed balance check reported by the ledger.
type BalanceError struct {
	Account  string `json:"account"`
	Date     string `json:"date"`
	Currency string `json:"currency"`
	Message  string `json:"message"`
}

// Key returns the cell this error belongs to.
func (e BalanceError) Key() EditKey { return EditKey{e.Account, e.Currency, e.Date} }

// BalancesData is everything the grid is built from.
type BalancesData struct {
	Balances      []Balance      `json:"balances"`
	Accounts      []Account      `json:"accounts"`
	BalanceErrors []BalanceError `json:"balanceErrors,omitempty"`
}

// EditKey identifies a grid cell.
type EditKey struct {
	Account  string
	Currency string
	Date     string
}

// String returns the "account|currency|date" form of the key.
func (k EditKey) String() string { return k.Account + "|" + k.Currency + "|" + k.Date }

// compareKeys orders keys by date, then account, then currency.
func compareKeys(a, b EditKey) int {
	return cmp.Or(
		strings.Compare(a.Date, b.Date),
		strings.Compare(a.Account, b.Account),
		strings.Compare(a.Currency, b.Currency),
	)
}

// Edit is a pending modification of a cell.
//
// OriginalValue is the cell content when the cell was first edited, it does
// not change on later edits of the same cell.
type Edit struct {
	Account       string      `json:"account"`
	Currency      string      `json:"currency"`
	Date          string      `json:"date"`
	OriginalValue Value       `json:"originalValue"`
	NewValue      Value       `json:"newValue"`
	BalanceType   BalanceType `json:"balanceType,omitempty"`
}

// Key returns the cell this edit applies to.
func (e Edit) Key() EditKey { return EditKey{e.Account, e.Currency, e.Date} }

// Text returns the cell text of the new value, with its tag symbol.
func (e Edit) Text() string { return Encode(e.NewValue, e.BalanceType) }

// SaveResult is the backend answer to a submission.
type SaveResult struct {
	Message string   `json:"message"`
	Changes []Edit   `json:"changes"`
	Errors  []string `json:"errors,omitempty"`
}

// SafetyCheck is the advisory pre-save check answer.
type SafetyCheck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Problem is a local, recoverable issue with one input item: an invalid
// filter pattern, a malformed date. The item is excluded from effect.
type Problem struct {
	Item    string
	Message string
}

func (p Problem) String() string { return fmt.Sprintf("%q: %s", p.Item, p.Message) }
