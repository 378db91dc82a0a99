package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/beantab"
	"github.com/etnz/beantab/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type saveCmd struct {
	timeout  time.Duration
	interval time.Duration
	slow     time.Duration
	quiet    bool
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "write the pending edits into the ledger files" }
func (*saveCmd) Usage() string {
	return `save [-timeout d] [-interval d] [-slow d] [-q]

Send the pending edits to the server, then wait until the ledger shows it
changed. The edits are dropped only once the change is seen: if the save
fails or is not confirmed in time they are kept, and "save" can run again.

Interrupt with Ctrl-C to stop waiting, the edits are kept.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	def := beantab.DefaultReconcilerConfig()
	f.DurationVar(&c.timeout, "timeout", def.Timeout, "give up waiting for the ledger change after this duration")
	f.DurationVar(&c.interval, "interval", def.PollInterval, "time between two checks of the ledger")
	f.DurationVar(&c.slow, "slow", def.SlowAfter, "warn when the change is not seen after this duration")
	f.BoolVar(&c.quiet, "q", false, "do not list the edits before saving")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if a.buffer.IsEmpty() {
		fmt.Println("No changes to save.")
		return subcommands.ExitSuccess
	}
	if !c.quiet {
		printMarkdown(renderer.EditsMarkdown(a.buffer.All()))
	}

	// the check is advisory: saving goes on.
	if sc, err := a.session.SafetyCheck(ctx); err != nil {
		a.logger.Warn("safety check failed", zap.Error(err))
	} else if !sc.OK {
		fmt.Fprintf(os.Stderr, "Warning: %s\n%s\n", sc.Reason, safetyWarning)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg := beantab.ReconcilerConfig{
		PollInterval: c.interval,
		Timeout:      c.timeout,
		SlowAfter:    c.slow,
		OnSlow: func(since time.Duration) {
			fmt.Fprintf(os.Stderr, "The ledger has not changed %v after saving, still waiting...\n", since.Round(time.Second))
		},
		OnState: func(s beantab.State) {
			a.logger.Debug("save state", zap.Stringer("state", s))
		},
		Logger: a.logger,
	}
	n := a.buffer.Len()
	out, err := a.session.Save(ctx, cfg)
	switch {
	case errors.Is(err, beantab.ErrNothingToSave):
		fmt.Println("No changes to save.")
		return subcommands.ExitSuccess
	case errors.Is(err, beantab.ErrSubmitFailed):
		fmt.Fprintf(os.Stderr, "Error saving: %v\nThe edits are kept.\n", err)
		return subcommands.ExitFailure
	case errors.Is(err, beantab.ErrTimedOut) && !out.Submitted:
		fmt.Fprintf(os.Stderr, "Error: %v.\nThe server did not answer, the edits were not sent and are kept.\n", err)
		return subcommands.ExitFailure
	case errors.Is(err, beantab.ErrTimedOut):
		fmt.Fprintf(os.Stderr, "Error: %v.\nThe edits may have been written: check the ledger, then \"reload\" and \"save\" again or \"revert\".\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\nThe edits are kept.\n", err)
		return subcommands.ExitFailure
	}

	for _, msg := range out.Result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
	fmt.Printf("Saved %d edit(s) in %v", n, out.Elapsed.Round(time.Millisecond))
	if out.Result.Message != "" {
		fmt.Printf(": %s", out.Result.Message)
	}
	fmt.Println()
	return subcommands.ExitSuccess
}
