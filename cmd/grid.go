package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/beantab/renderer"
	"github.com/google/subcommands"
)

// stringList is a flag that can be repeated.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type gridCmd struct {
	filter      stringList
	group       bool
	minAccounts uint
	hideEmpty   bool
	sort        string
	json        bool
	save        bool
}

func (*gridCmd) Name() string     { return "grid" }
func (*gridCmd) Synopsis() string { return "show the balances grid with the pending edits" }
func (*gridCmd) Usage() string {
	return `grid [-f regex]... [-group] [-min-accounts N] [-hide-empty] [-sort prop[:desc]] [-json] [-save]

Fetch the balances from the ledger and show them as a grid: one row per
account and currency, one column per date. Pending edits are shown in bold.

Options not given on the command line are read from the view file. Use -save
to write the given ones back to it.
`
}

func (c *gridCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.filter, "f", "regular expression on account names, can be repeated")
	f.BoolVar(&c.group, "group", false, "group rows by account")
	f.UintVar(&c.minAccounts, "min-accounts", 0, "hide dates with balances for fewer accounts than `N`")
	f.BoolVar(&c.hideEmpty, "hide-empty", false, "hide rows without any balance")
	f.StringVar(&c.sort, "sort", "", "sort rows by account, currency or defaultBalanceType, append \":desc\" to reverse")
	f.BoolVar(&c.json, "json", false, "print the grid as JSON")
	f.BoolVar(&c.save, "save", false, "save the given options in the view file")
}

func (c *gridCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := loadView()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading view: %v\n", err)
		return subcommands.ExitFailure
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "f":
			v.Filter = c.filter
		case "group":
			v.Options.GroupByAccount = c.group
		case "min-accounts":
			v.Options.HideDatesWithFewerThan = c.minAccounts
		case "hide-empty":
			v.Options.HideAccountsWithNoEntries = c.hideEmpty
		case "sort":
			v.Sort = c.sort
		}
	})
	if c.save {
		if err := saveView(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving view: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	a.session.SetQuery(v.query())
	if err := a.session.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	g, problems := a.session.Grid(v.Filter, v.Options)
	if v.Sort != "" {
		if err := g.SortRows(v.sortBy()); err != nil {
			fmt.Fprintf(os.Stderr, "Error sorting rows: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	if c.json {
		out, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding grid: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "Warning: ignored filter %s\n", p)
		}
		fmt.Println(string(out))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ProblemsMarkdown("Ignored filters", problems) + renderer.GridMarkdown(g))
	return subcommands.ExitSuccess
}
