// Package cmd implements the btab command line application: an editable grid
// of the balances of a Fava ledger.
package cmd

import (
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&gridCmd{}, "grid")
	c.Register(&editCmd{}, "grid")
	c.Register(&revertCmd{}, "grid")
	c.Register(&diffCmd{}, "grid")
	c.Register(&datesCmd{}, "grid")
	c.Register(&filterCmd{}, "grid")

	c.Register(&checkCmd{}, "ledger")
	c.Register(&reloadCmd{}, "ledger")
	c.Register(&saveCmd{}, "ledger")

	c.Register(&emulateCmd{}, "tools")
	c.Register(&topicCmd{}, "tools")
}
