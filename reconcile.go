package beantab

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrSubmitFailed is returned when the backend did not accept the edits.
	// Nothing was saved, the edits can be sent again.
	ErrSubmitFailed = errors.New("submission failed")
	// ErrTimedOut is returned when the ledger was not seen changing in time.
	// If Outcome.Submitted is set the save may or may not have been applied,
	// otherwise nothing was sent.
	ErrTimedOut = errors.New("save not confirmed in time")
)

// State is the progress of a save attempt.
type State int

const (
	Idle State = iota
	// Submitting reads the baseline marker, then sends the edits.
	Submitting
	// AwaitingConfirmation polls the marker until it moves past the baseline.
	AwaitingConfirmation
	Confirmed
	TimedOut
	Failed
	// Canceled is reached when the caller's context ends first.
	Canceled
)

var stateNames = [...]string{
	Idle:                 "idle",
	Submitting:           "submitting",
	AwaitingConfirmation: "awaiting confirmation",
	Confirmed:            "confirmed",
	TimedOut:             "timed out",
	Failed:               "failed",
	Canceled:             "canceled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Done reports whether s is a final state.
func (s State) Done() bool { return s >= Confirmed }

// ChangeMarker is the ledger modification token: an integer that grows every
// time the ledger is reloaded from disk.
type ChangeMarker struct {
	raw string
	n   *big.Int
}

// ParseChangeMarker reads a marker.
//
// A marker starting with "X" stands for a time the server does not know yet:
// every "X" is read as the digit 1 before comparing.
func ParseChangeMarker(s string) (ChangeMarker, error) {
	raw := strings.TrimSpace(s)
	digits := raw
	if strings.HasPrefix(digits, "X") {
		digits = strings.ReplaceAll(digits, "X", "1")
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return ChangeMarker{}, fmt.Errorf("invalid change marker %q", s)
	}
	return ChangeMarker{raw: raw, n: n}, nil
}

// MustParseChangeMarker is like ParseChangeMarker but panics on error.
func MustParseChangeMarker(s string) ChangeMarker {
	m, err := ParseChangeMarker(s)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// IsZero reports whether m was never set.
func (m ChangeMarker) IsZero() bool { return m.n == nil }

// After reports whether m is strictly greater than o. The zero marker is
// before every other one.
func (m ChangeMarker) After(o ChangeMarker) bool {
	switch {
	case m.n == nil:
		return false
	case o.n == nil:
		return true
	default:
		return m.n.Cmp(o.n) > 0
	}
}

// String returns the marker as received.
func (m ChangeMarker) String() string { return m.raw }

// SaveBackend is the part of the backend the reconciler talks to.
type SaveBackend interface {
	// SubmitEdits sends the edits and returns once the backend answered.
	SubmitEdits(ctx context.Context, edits []Edit) (SaveResult, error)
	// ChangeMarker returns the current ledger modification token.
	ChangeMarker(ctx context.Context) (ChangeMarker, error)
}

// ReconcilerConfig tunes a Reconciler.
type ReconcilerConfig struct {
	// PollInterval is the pace of marker polls.
	PollInterval time.Duration
	// Timeout bounds the whole attempt, from the first poll.
	Timeout time.Duration
	// SlowAfter is the time after submission when OnSlow is called, once.
	SlowAfter time.Duration
	// OnSlow, if set, is told that confirmation takes long. Polling goes on.
	OnSlow func(sinceSubmit time.Duration)
	// OnState, if set, is called on every state change.
	OnState func(State)
	Logger  *zap.Logger
}

// DefaultReconcilerConfig polls every second for at most two minutes, and
// reports slowness fifteen seconds after submission.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		PollInterval: time.Second,
		Timeout:      2 * time.Minute,
		SlowAfter:    15 * time.Second,
	}
}

// Outcome describes a finished save attempt.
type Outcome struct {
	// ID identifies the attempt in the logs.
	ID    uuid.UUID
	State State
	// Baseline is the marker read before submission.
	Baseline ChangeMarker
	// Marker is the last marker read.
	Marker ChangeMarker
	// Polls counts the marker reads, failed ones included.
	Polls int
	// Submitted is set once the edits were sent, answered or not.
	Submitted bool
	Result  SaveResult
	Elapsed time.Duration
}

// Reconciler sends edits and waits for the ledger to show that they were
// applied.
//
// It never changes the edit buffer: on Confirmed the caller clears it and
// fetches the balances again, on any other outcome the edits are kept.
type Reconciler struct {
	backend SaveBackend
	cfg     ReconcilerConfig
}

// NewReconciler returns a Reconciler. Zero durations in cfg take their
// default value.
func NewReconciler(backend SaveBackend, cfg ReconcilerConfig) *Reconciler {
	def := DefaultReconcilerConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.SlowAfter <= 0 {
		cfg.SlowAfter = def.SlowAfter
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Reconciler{backend: backend, cfg: cfg}
}

// Reconcile runs one save attempt of edits.
//
// The first marker read successfully is the baseline, then edits are
// submitted and the marker is polled until it moves past the baseline. The
// error is nil only for Confirmed, otherwise it wraps ErrSubmitFailed,
// ErrTimedOut or the context error.
func (r *Reconciler) Reconcile(ctx context.Context, edits []Edit) (Outcome, error) {
	out := Outcome{ID: uuid.New()}
	start := time.Now()
	log := r.cfg.Logger.With(zap.Stringer("save", out.ID))

	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	limiter := rate.NewLimiter(rate.Every(r.cfg.PollInterval), 1)

	finish := func(s State, err error) (Outcome, error) {
		out.State = s
		out.Elapsed = time.Since(start)
		r.setState(s)
		log.Info("save finished",
			zap.Stringer("state", s),
			zap.Int("polls", out.Polls),
			zap.Duration("elapsed", out.Elapsed),
			zap.Error(err),
		)
		return out, err
	}
	// stopped tells why polling cannot go on.
	stopped := func() (Outcome, error) {
		if err := ctx.Err(); err != nil {
			return finish(Canceled, fmt.Errorf("save canceled: %w", err))
		}
		if !out.Submitted {
			return finish(TimedOut, fmt.Errorf("%w: no change marker read after %v, before submission", ErrTimedOut, r.cfg.Timeout))
		}
		return finish(TimedOut, fmt.Errorf("%w: no change after %v", ErrTimedOut, r.cfg.Timeout))
	}
	poll := func() (ChangeMarker, bool) {
		out.Polls++
		m, err := r.backend.ChangeMarker(attemptCtx)
		if err != nil {
			log.Debug("change marker poll failed", zap.Int("poll", out.Polls), zap.Error(err))
			return ChangeMarker{}, false
		}
		out.Marker = m
		return m, true
	}

	r.setState(Submitting)
	log.Info("save started", zap.Int("edits", len(edits)))
	for out.Baseline.IsZero() {
		if err := limiter.Wait(attemptCtx); err != nil {
			return stopped()
		}
		if m, ok := poll(); ok {
			out.Baseline = m
		}
	}
	log.Debug("baseline", zap.Stringer("marker", out.Baseline))

	out.Submitted = true
	res, err := r.backend.SubmitEdits(attemptCtx, edits)
	if err != nil {
		if ctx.Err() != nil || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			// the backend may have applied a submission it did not answer.
			return stopped()
		}
		return finish(Failed, fmt.Errorf("%w: %w", ErrSubmitFailed, err))
	}
	out.Result = res
	submitted := time.Now()
	r.setState(AwaitingConfirmation)
	log.Debug("edits submitted", zap.String("message", res.Message), zap.Int("changes", len(res.Changes)))

	slowNotified := false
	for {
		if since := time.Since(submitted); !slowNotified && since >= r.cfg.SlowAfter {
			slowNotified = true
			log.Info("save is taking long", zap.Duration("since_submit", since))
			if r.cfg.OnSlow != nil {
				r.cfg.OnSlow(since)
			}
		}
		if err := limiter.Wait(attemptCtx); err != nil {
			return stopped()
		}
		m, ok := poll()
		if ok && m.After(out.Baseline) {
			return finish(Confirmed, nil)
		}
	}
}

func (r *Reconciler) setState(s State) {
	if r.cfg.OnState != nil {
		r.cfg.OnState(s)
	}
}
