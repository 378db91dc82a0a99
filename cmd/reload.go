package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type reloadCmd struct{}

func (*reloadCmd) Name() string     { return "reload" }
func (*reloadCmd) Synopsis() string { return "ask the server to read the ledger files again" }
func (*reloadCmd) Usage() string {
	return `reload

Ask the server to read the ledger files again, for instance after editing
them by hand.
`
}

func (c *reloadCmd) SetFlags(f *flag.FlagSet) {}

func (c *reloadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if v, err := loadView(); err == nil {
		a.session.SetQuery(v.query())
	}
	if err := a.session.Reload(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	data := a.session.Balances()
	fmt.Printf("Ledger reloaded: %d balances in %d accounts\n", len(data.Balances), len(data.Accounts))
	return subcommands.ExitSuccess
}
