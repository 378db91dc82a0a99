package beantab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// contains http utils to talk to the ledger server

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("http request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
		return nil, err
	}
	t.logger.Debug("http request",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.String("status", resp.Status),
	)
	return resp, nil
}

// logged returns a client logging its requests through logger.
func logged(client *http.Client, logger *zap.Logger) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := *client
	c.Transport = &loggingTransport{base: base, logger: logger}
	return &c
}

// httpStatusError is a response outside of the 2xx range.
type httpStatusError struct {
	Method string
	Path   string
	Status string
	Body   []byte
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("cannot http %s %s: %s", e.Method, e.Path, e.Status)
}

// sendJSON performs an HTTP request with an optional JSON body and returns
// the raw response body. A status outside of 2xx is an *httpStatusError.
func sendJSON(ctx context.Context, client *http.Client, method, addr string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("cannot encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, addr, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{Method: method, Path: req.URL.Path, Status: resp.Status, Body: buf.Bytes()}
	}
	return buf.Bytes(), nil
}

// getJSON performs an HTTP GET request and decodes the JSON response into
// data. Numbers decoded into an interface are json.Number, so that long
// integers keep every digit.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	raw, err := sendJSON(ctx, client, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("invalid answer from %s: %w", addr, err)
	}
	return nil
}
