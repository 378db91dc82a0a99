package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// safetyWarning follows a failed safety check.
const safetyWarning = "Please make sure you track your ledger files in git and commit existing changes before saving."

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check whether the ledger files can be safely rewritten" }
func (*checkCmd) Usage() string {
	return `check

Ask the server whether saving now is advisable. The answer is advice only:
"save" does not refuse to run.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	sc, err := a.session.SafetyCheck(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !sc.OK {
		fmt.Printf("Warning: %s\n%s\n", sc.Reason, safetyWarning)
		return subcommands.ExitFailure
	}
	fmt.Println("OK")
	return subcommands.ExitSuccess
}
