package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/beantab/emulator"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type emulateCmd struct {
	addr   string
	ledger string
	delay  time.Duration
	seed   string
	frozen bool
	reject string
	unsafe string
}

func (*emulateCmd) Name() string     { return "emulate" }
func (*emulateCmd) Synopsis() string { return "serve a fake ledger, for trying btab out" }
func (*emulateCmd) Usage() string {
	return `emulate [-addr :5000] [-ledger beancount] [-delay d] [-seed file.json]

Serve an in-memory ledger speaking the same protocol as Fava with the BeanTab
extension. Saved edits change the balances, and the ledger change marker
moves after -delay.

The balances are read from -seed, a JSON file in the format of the balances
endpoint, or are a small demo ledger.
`
}

func (c *emulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":5000", "listen `address`")
	f.StringVar(&c.ledger, "ledger", "beancount", "ledger name, the first segment of the URL path")
	f.DurationVar(&c.delay, "delay", 500*time.Millisecond, "time between a save and the ledger change")
	f.StringVar(&c.seed, "seed", "", "JSON `file` with the balances to serve")
	f.BoolVar(&c.frozen, "frozen", false, "never change the ledger marker, saves are never confirmed")
	f.StringVar(&c.reject, "reject", "", "reject every save with this error message")
	f.StringVar(&c.unsafe, "unsafe", "", "fail the safety check with this reason")
}

func (c *emulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	seed := emulator.Demo()
	if c.seed != "" {
		var err error
		if seed, err = emulator.LoadSeed(c.seed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	srv := emulator.New(seed, emulator.Options{
		Ledger:       c.ledger,
		Delay:        c.delay,
		Frozen:       c.frozen,
		RejectSubmit: c.reject,
		Unsafe:       c.unsafe,
		Logger:       logger,
	})
	defer srv.Close()

	hs := &http.Server{
		Addr:              c.addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdown); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	host, port, err := net.SplitHostPort(c.addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid address %q: %v\n", c.addr, err)
		return subcommands.ExitUsageError
	}
	if host == "" {
		host = "localhost"
	}
	fmt.Printf("Serving %d balances at http://%s/%s (set -url or %s to it)\n", len(seed.Balances), net.JoinHostPort(host, port), c.ledger, EnvURL)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
