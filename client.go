package beantab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Backend is the ledger server the grid reads from and saves to.
type Backend interface {
	SaveBackend
	// FetchBalances returns the balances, accounts and failed checks of the
	// ledger. query is passed through to the server.
	FetchBalances(ctx context.Context, query url.Values) (*BalancesData, error)
	// SafetyCheck tells whether saving now is advisable.
	SafetyCheck(ctx context.Context) (SafetyCheck, error)
	// Reload asks the server to read the ledger files again.
	Reload(ctx context.Context) error
}

// DefaultMarkerPath extracts the change marker from the /api/changed answer.
const DefaultMarkerPath = "$.mtime"

const extensionName = "BeanTab"

// Client talks to a Fava server running the BeanTab extension.
//
// It is safe for concurrent use.
type Client struct {
	base       string
	http       *http.Client
	balances   *cache.Cache
	markerPath string
	logger     *zap.Logger
}

var _ Backend = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http client used for every request.
func WithHTTPClient(hc *http.Client) ClientOption { return func(c *Client) { c.http = hc } }

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) ClientOption { return func(c *Client) { c.logger = l } }

// WithMarkerPath sets the JSONPath expression locating the change marker.
func WithMarkerPath(path string) ClientOption { return func(c *Client) { c.markerPath = path } }

// WithCacheTTL sets how long fetched balances are reused.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.balances = cache.New(ttl, 2*ttl) }
}

// NewClient returns a client for the Fava ledger at base, like
// "http://localhost:5000/beancount".
func NewClient(base string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: want http or https", base)
	}
	c := &Client{
		base:       u.String(),
		http:       &http.Client{Timeout: 30 * time.Second},
		balances:   cache.New(5*time.Minute, 10*time.Minute),
		markerPath: DefaultMarkerPath,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = logged(c.http, c.logger)
	return c, nil
}

// envelope wraps every extension answer.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// extension calls an extension endpoint and decodes the data of the answer into data.
func (c *Client) extension(ctx context.Context, method, endpoint string, query url.Values, body, data any) error {
	addr, err := url.JoinPath(c.base, "extension", extensionName, endpoint)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}
	raw, err := sendJSON(ctx, c.http, method, addr, body)
	var env envelope
	if se := (*httpStatusError)(nil); errors.As(err, &se) {
		// the server explains its failures in the envelope.
		if json.Unmarshal(se.Body, &env) == nil && env.Error != "" {
			return fmt.Errorf("%s %s: %s", method, endpoint, env.Error)
		}
		return err
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: invalid answer: %w", method, endpoint, err)
	}
	if !env.Success {
		if env.Error == "" {
			env.Error = "request failed"
		}
		return fmt.Errorf("%s %s: %s", method, endpoint, env.Error)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, data); err != nil {
		return fmt.Errorf("%s %s: invalid data: %w", method, endpoint, err)
	}
	return nil
}

// FetchBalances returns the ledger balances. Answers are cached per query
// until Invalidate.
func (c *Client) FetchBalances(ctx context.Context, query url.Values) (*BalancesData, error) {
	key := query.Encode()
	if v, found := c.balances.Get(key); found {
		c.logger.Debug("balances from cache", zap.String("query", key))
		return v.(*BalancesData), nil
	}
	data := new(BalancesData)
	if err := c.extension(ctx, http.MethodGet, "balances", query, nil, data); err != nil {
		return nil, err
	}
	c.balances.SetDefault(key, data)
	c.logger.Debug("balances fetched",
		zap.Int("balances", len(data.Balances)),
		zap.Int("accounts", len(data.Accounts)),
		zap.Int("errors", len(data.BalanceErrors)),
	)
	return data, nil
}

// Invalidate forgets the cached balances.
func (c *Client) Invalidate() { c.balances.Flush() }

// SubmitEdits sends the edits to be written in the ledger files.
func (c *Client) SubmitEdits(ctx context.Context, edits []Edit) (SaveResult, error) {
	if edits == nil {
		edits = []Edit{}
	}
	body := struct {
		ModifiedCells []Edit `json:"modifiedCells"`
	}{edits}
	var res SaveResult
	if err := c.extension(ctx, http.MethodPost, "updateBalances", nil, body, &res); err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

// SafetyCheck asks the server whether the ledger files can be safely
// rewritten.
func (c *Client) SafetyCheck(ctx context.Context) (SafetyCheck, error) {
	var sc SafetyCheck
	err := c.extension(ctx, http.MethodGet, "safety_check", nil, nil, &sc)
	return sc, err
}

// Reload asks the server to reload the ledger.
func (c *Client) Reload(ctx context.Context) error {
	return c.extension(ctx, http.MethodGet, "reload", nil, nil, nil)
}

// ChangeMarker reads the ledger modification token from {base}/api/changed.
func (c *Client) ChangeMarker(ctx context.Context) (ChangeMarker, error) {
	addr, err := url.JoinPath(c.base, "api", "changed")
	if err != nil {
		return ChangeMarker{}, err
	}
	var jobj any
	if err := getJSON(ctx, c.http, addr, &jobj); err != nil {
		return ChangeMarker{}, err
	}
	jval, err := jsonpath.Get(c.markerPath, jobj)
	if err != nil {
		return ChangeMarker{}, fmt.Errorf("cannot find change marker %q: %w", c.markerPath, err)
	}
	// jsonpath may return a list of one answer.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return ParseChangeMarker(v)
	case json.Number:
		return ParseChangeMarker(v.String())
	case float64:
		return ParseChangeMarker(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return ChangeMarker{}, fmt.Errorf("change marker %q is not a string: %v", c.markerPath, jval)
	}
}
