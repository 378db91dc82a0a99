package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/beantab"
	"github.com/google/subcommands"
)

type editCmd struct{}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change one cell of the grid" }
func (*editCmd) Usage() string {
	return `edit <account> <currency> <date> <value>

Record a pending edit for the balance of account in currency on date, like
typing value in the grid cell.

The value can end with a balance type symbol: "!" regular, "F" full,
"~" padded, "F~" full padded, "V" valuation. An empty value "" removes the
balance. Typing the value the cell had before being edited drops the edit.

Edits are kept locally until "save".
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 4 {
		fmt.Fprintln(os.Stderr, "Error: edit takes an account, a currency, a date and a value")
		return subcommands.ExitUsageError
	}
	account, currency, day, text := f.Arg(0), f.Arg(1), f.Arg(2), f.Arg(3)

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if v, err := loadView(); err == nil {
		a.session.SetQuery(v.query())
	}
	if err := a.session.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	e, pending, err := a.session.Edit(account, currency, day, text)
	if errors.Is(err, beantab.ErrUnknownRow) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !pending {
		fmt.Printf("%s %s %s is back to its ledger value (%d pending)\n", account, currency, day, a.buffer.Len())
		return subcommands.ExitSuccess
	}
	fmt.Printf("%s %s %s: %q -> %q (%d pending)\n", account, currency, day,
		beantab.Encode(e.OriginalValue, beantab.NoBalanceType),
		beantab.Encode(e.NewValue, e.BalanceType),
		a.buffer.Len())
	return subcommands.ExitSuccess
}
