// Package emulator serves a fake Fava ledger with the BeanTab extension.
//
// Balances live in memory: saving edits changes them, and the ledger change
// marker moves a little later, as when Fava notices that a file changed.
// It is meant for tests and local development.
package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/etnz/beantab"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options tunes the emulated server.
type Options struct {
	// Ledger is the first path segment, "beancount" if empty.
	Ledger string
	// Delay is how long after a save the change marker moves.
	Delay time.Duration
	// Frozen keeps the change marker still, saves are never confirmed.
	Frozen bool
	// RejectSubmit, if set, is the error returned to every save.
	RejectSubmit string
	// Unsafe, if set, is the reason given by the safety check.
	Unsafe string
	Logger *zap.Logger
}

// Server is the emulated ledger server. It is an http.Handler.
type Server struct {
	opts   Options
	router chi.Router

	mu     sync.Mutex
	data   beantab.BalancesData
	marker int64
	timers []*time.Timer
}

// New returns a server holding a copy of seed.
func New(seed beantab.BalancesData, opts Options) *Server {
	if opts.Ledger == "" {
		opts.Ledger = "beancount"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		opts: opts,
		data: beantab.BalancesData{
			Balances:      slices.Clone(seed.Balances),
			Accounts:      slices.Clone(seed.Accounts),
			BalanceErrors: slices.Clone(seed.BalanceErrors),
		},
		marker: 1,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/"+opts.Ledger, func(r chi.Router) {
		r.Get("/api/changed", s.changed)
		r.Route("/extension/BeanTab", func(r chi.Router) {
			r.Get("/balances", s.balances)
			r.Post("/updateBalances", s.updateBalances)
			r.Get("/safety_check", s.safetyCheck)
			r.Get("/reload", s.reload)
		})
	})
	s.router = r
	return s
}

// LoadSeed reads the balances to serve from a JSON file in the format of
// the balances endpoint.
func LoadSeed(path string) (beantab.BalancesData, error) {
	var data beantab.BalancesData
	content, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return data, fmt.Errorf("invalid seed file %q: %w", path, err)
	}
	return data, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the pending marker updates.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// Balances returns a copy of the current balances.
func (s *Server) Balances() []beantab.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.Balances)
}

// Marker returns the current change marker.
func (s *Server) Marker() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatInt(s.marker, 10)
}

// Touch moves the change marker now, as if a ledger file was edited by hand.
func (s *Server) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker++
}

// envelope wraps every extension answer.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func (s *Server) changed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    false,
		"mtime":   s.Marker(),
	})
}

func (s *Server) balances(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := beantab.BalancesData{
		Balances:      slices.Clone(s.data.Balances),
		Accounts:      slices.Clone(s.data.Accounts),
		BalanceErrors: slices.Clone(s.data.BalanceErrors),
	}
	s.mu.Unlock()
	if data.Balances == nil {
		data.Balances = []beantab.Balance{}
	}
	if data.Accounts == nil {
		data.Accounts = []beantab.Account{}
	}
	writeData(w, data)
}

func (s *Server) safetyCheck(w http.ResponseWriter, r *http.Request) {
	if s.opts.Unsafe != "" {
		writeData(w, beantab.SafetyCheck{OK: false, Reason: s.opts.Unsafe})
		return
	}
	writeData(w, beantab.SafetyCheck{OK: true})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	s.opts.Logger.Info("ledger reload requested")
	writeData(w, map[string]bool{"reloaded": true})
}

func (s *Server) updateBalances(w http.ResponseWriter, r *http.Request) {
	if s.opts.RejectSubmit != "" {
		writeError(w, http.StatusInternalServerError, s.opts.RejectSubmit)
		return
	}
	var payload struct {
		ModifiedCells *[]beantab.Edit `json:"modifiedCells"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}
	if payload.ModifiedCells == nil {
		writeError(w, http.StatusBadRequest, "No modifiedCells in payload")
		return
	}
	edits := *payload.ModifiedCells
	for i, e := range edits {
		if e.Account == "" || e.Currency == "" || e.Date == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Missing account, currency or date in modifiedCells[%d]", i))
			return
		}
	}

	s.mu.Lock()
	res := s.apply(edits)
	if len(res.Changes) > 0 && !s.opts.Frozen {
		s.timers = append(s.timers, time.AfterFunc(s.opts.Delay, s.Touch))
	}
	s.mu.Unlock()

	s.opts.Logger.Info("updateBalances",
		zap.Int("cells", len(edits)),
		zap.Int("changes", len(res.Changes)),
		zap.Strings("errors", res.Errors),
	)
	writeData(w, res)
}

// apply writes the edits in the balances. An edit of an existing balance is
// only applied if the balance still holds the edit original value.
func (s *Server) apply(edits []beantab.Edit) beantab.SaveResult {
	res := beantab.SaveResult{Changes: []beantab.Edit{}}
	for _, e := range edits {
		i := slices.IndexFunc(s.data.Balances, func(b beantab.Balance) bool { return b.Key() == e.Key() })
		switch {
		case i >= 0 && !s.data.Balances[i].Number.Equal(e.OriginalValue):
			res.Errors = append(res.Errors, fmt.Sprintf("value mismatch for %s %s %s", e.Account, e.Currency, e.Date))
			continue
		case i >= 0 && e.NewValue.IsNull():
			s.data.Balances = slices.Delete(s.data.Balances, i, i+1)
		case i >= 0:
			s.data.Balances[i].Number = e.NewValue
			s.data.Balances[i].Type = s.typeOf(e)
		case e.NewValue.IsNull():
			res.Errors = append(res.Errors, fmt.Sprintf("no balance to delete for %s %s %s", e.Account, e.Currency, e.Date))
			continue
		default:
			s.data.Balances = append(s.data.Balances, beantab.Balance{
				Account:  e.Account,
				Currency: e.Currency,
				Date:     e.Date,
				Number:   e.NewValue,
				Type:     s.typeOf(e),
			})
		}
		res.Changes = append(res.Changes, e)
	}
	res.Message = fmt.Sprintf("updateBalances applied (%d cells)", len(res.Changes))
	return res
}

// typeOf returns the balance type written for e.
func (s *Server) typeOf(e beantab.Edit) beantab.BalanceType {
	if !e.BalanceType.IsZero() {
		return e.BalanceType
	}
	for _, a := range s.data.Accounts {
		if a.Account == e.Account && !a.DefaultBalanceType.IsZero() {
			return a.DefaultBalanceType
		}
	}
	return beantab.Regular
}
