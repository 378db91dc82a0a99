package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/beantab"
	"github.com/etnz/beantab/kv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Environment variables holding the default value of the global flags.
// They are also set for extensions.
const (
	EnvURL     = "BEANTAB_URL"
	EnvState   = "BEANTAB_STATE"
	EnvView    = "BEANTAB_VIEW"
	EnvVerbose = "BEANTAB_VERBOSE"
)

var dotenv sync.Once

// env returns the value of the environment variable key, or def if it is
// unset or empty. The .env file of the working directory is loaded first.
func env(key, def string) string {
	dotenv.Do(func() { _ = godotenv.Load() })
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(env(key, "false"))
	return b
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	serverURL = flag.String("url", env(EnvURL, "http://localhost:5000/beancount"), "URL of the Fava ledger running the BeanTab extension (env "+EnvURL+")")
	statePath = flag.String("state", env(EnvState, ".beantab.db"), "file keeping the pending edits and preferences, \".sqlite\" files use SQLite (env "+EnvState+")")
	viewPath  = flag.String("view", env(EnvView, ".beantab.yaml"), "YAML file keeping the account filter and grid options (env "+EnvView+")")
	// Verbose turns on debug logs on stderr.
	Verbose = flag.Bool("v", envBool(EnvVerbose), "print debug logs (env "+EnvVerbose+")")
)

func newLogger() *zap.Logger {
	if !*Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

// app is what every command works with.
type app struct {
	logger  *zap.Logger
	store   kv.Store
	client  *beantab.Client
	buffer  *beantab.EditBuffer
	session *beantab.Session
}

// openApp opens the local state and prepares the ledger client. It does not
// contact the server.
func openApp() (*app, error) {
	logger := newLogger()
	client, err := beantab.NewClient(*serverURL, beantab.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(*statePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open state file %q: %w", *statePath, err)
	}
	buffer := beantab.OpenEditBuffer(store, logger)
	return &app{
		logger:  logger,
		store:   store,
		client:  client,
		buffer:  buffer,
		session: beantab.NewSession(client, buffer, store, logger),
	}, nil
}

// Close releases the local state.
func (a *app) Close() {
	if err := a.buffer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing edits: %v\n", err)
	}
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing state file %q: %v\n", *statePath, err)
	}
	_ = a.logger.Sync()
}

// printMarkdown renders md for the terminal, or prints it as is if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
