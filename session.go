package beantab

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/etnz/beantab/date"
	"go.uber.org/zap"
)

var (
	// ErrNothingToSave is returned by Save when there is no pending edit.
	ErrNothingToSave = errors.New("no pending edits")
	// ErrUnknownRow is returned when editing an (account, currency) pair the
	// ledger has no balance for.
	ErrUnknownRow = errors.New("no such account and currency in the ledger")
)

// Session ties the ledger server, the pending edits and the user
// preferences together. It is what a user interface drives.
//
// A Session is not safe for concurrent use, and must not be edited while
// Save runs.
type Session struct {
	backend    Backend
	buffer     *EditBuffer
	prefs      Storage
	logger     *zap.Logger
	query      url.Values
	data       *BalancesData
	extraDates []string
}

// NewSession returns a session over backend. The extra dates are read from
// prefs, which may be nil. Without stored dates, today and tomorrow are used.
func NewSession(backend Backend, buffer *EditBuffer, prefs Storage, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		backend: backend,
		buffer:  buffer,
		prefs:   prefs,
		logger:  logger,
	}
	var stored []string
	if loadJSON(prefs, extraDatesStorageKey, &stored, logger) {
		s.extraDates, _ = date.Normalize(stored)
	}
	// an empty list starts again from today and tomorrow.
	if len(s.extraDates) == 0 {
		today := date.Today()
		s.extraDates = []string{today.String(), today.Add(1).String()}
	}
	return s
}

// Buffer returns the pending edits.
func (s *Session) Buffer() *EditBuffer { return s.buffer }

// SetQuery sets the query parameters sent with every balance fetch.
func (s *Session) SetQuery(q url.Values) { s.query = q }

// Refresh fetches the balances.
func (s *Session) Refresh(ctx context.Context) error {
	data, err := s.backend.FetchBalances(ctx, s.query)
	if err != nil {
		return fmt.Errorf("cannot fetch balances: %w", err)
	}
	s.data = data
	return nil
}

// Balances returns the balances fetched by the last Refresh, or nil.
func (s *Session) Balances() *BalancesData { return s.data }

// ExtraDates returns the dates always shown in the grid.
func (s *Session) ExtraDates() []string { return slices.Clone(s.extraDates) }

// SetExtraDates replaces the dates always shown in the grid. Invalid dates
// are reported and left out.
func (s *Session) SetExtraDates(list []string) []Problem {
	days, invalid := date.Normalize(list)
	var problems []Problem
	for _, d := range invalid {
		problems = append(problems, Problem{Item: d, Message: "not a YYYY-MM-DD date"})
	}
	s.extraDates = days
	if s.extraDates == nil {
		s.extraDates = []string{}
	}
	storeJSON(s.prefs, extraDatesStorageKey, s.extraDates, s.logger)
	return problems
}

// Grid builds the grid of the fetched balances with the pending edits.
// Invalid filter patterns are reported and ignored.
func (s *Session) Grid(filter []string, opts GridOptions) (Grid, []Problem) {
	f, problems := CompileAccountFilter(filter)
	in := PivotInput{
		Edits:      s.buffer.All(),
		Filter:     f,
		ExtraDates: s.extraDates,
		Options:    opts,
	}
	if s.data != nil {
		in.Balances = s.data.Balances
		in.Accounts = s.data.Accounts
		in.BalanceErrors = s.data.BalanceErrors
	}
	return BuildGrid(in), problems
}

// Edit sets the cell (account, currency, day) to text, like typing it in
// the grid. It reports whether an edit is now pending for the cell.
func (s *Session) Edit(account, currency, day, text string) (Edit, bool, error) {
	if _, err := date.Parse(day); err != nil {
		return Edit{}, false, err
	}
	original, found := s.lookup(account, currency, day)
	if !found {
		return Edit{}, false, fmt.Errorf("%w: %s %s", ErrUnknownRow, account, currency)
	}
	e, pending := s.buffer.RecordEdit(EditKey{account, currency, day}, original, text)
	return e, pending, nil
}

// lookup returns the ledger value of a cell, and whether the row exists.
func (s *Session) lookup(account, currency, day string) (Value, bool) {
	if s.data == nil {
		return Null(), false
	}
	var (
		v     = Null()
		found bool
	)
	for _, b := range s.data.Balances {
		if b.Account != account || b.Currency != currency {
			continue
		}
		found = true
		if b.Date == day {
			v = b.Number
		}
	}
	return v, found
}

// Revert drops the pending edit of a cell.
func (s *Session) Revert(account, currency, day string) {
	s.buffer.Revert(EditKey{account, currency, day})
}

// SafetyCheck asks the server whether saving is advisable. The answer is
// advice only, Save does not check it.
func (s *Session) SafetyCheck(ctx context.Context) (SafetyCheck, error) {
	return s.backend.SafetyCheck(ctx)
}

// Reload asks the server to read the ledger files again, then fetches the balances.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.backend.Reload(ctx); err != nil {
		return fmt.Errorf("cannot reload the ledger: %w", err)
	}
	s.invalidate()
	return s.Refresh(ctx)
}

// Save sends the pending edits and waits for the ledger to change.
//
// On confirmation the edits are cleared and the balances fetched again. On
// any failure they are kept, to be saved again or reverted.
func (s *Session) Save(ctx context.Context, cfg ReconcilerConfig) (Outcome, error) {
	if s.buffer.IsEmpty() {
		return Outcome{}, ErrNothingToSave
	}
	if cfg.Logger == nil {
		cfg.Logger = s.logger
	}
	out, err := NewReconciler(s.backend, cfg).Reconcile(ctx, s.buffer.All())
	if err != nil {
		return out, err
	}
	s.buffer.Clear()
	s.invalidate()
	if err := s.Refresh(ctx); err != nil {
		// the edits are saved, the grid is only stale.
		s.logger.Warn("cannot refresh after save", zap.Error(err))
	}
	return out, nil
}

func (s *Session) invalidate() {
	if c, ok := s.backend.(interface{ Invalidate() }); ok {
		c.Invalidate()
	}
}
