package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/beantab/renderer"
	"github.com/google/subcommands"
)

type diffCmd struct{}

func (*diffCmd) Name() string     { return "diff" }
func (*diffCmd) Synopsis() string { return "list the pending edits" }
func (*diffCmd) Usage() string {
	return `diff

List the pending edits, as they will be sent by "save".
`
}

func (c *diffCmd) SetFlags(f *flag.FlagSet) {}

func (c *diffCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	printMarkdown(renderer.EditsMarkdown(a.buffer.All()))
	return subcommands.ExitSuccess
}
