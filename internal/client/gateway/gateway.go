// Package gateway is the uniform request/response layer between the client
// and the reminder backend: JSON in, JSON out, one error type.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cfreminder/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const requestIDHeader = "X-Request-ID"

// Request describes one backend call. Method defaults to GET.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Gateway performs JSON calls against a base URL.
type Gateway struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	retries uint64
	backoff time.Duration
	log     logging.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

// WithTimeout bounds every attempt.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRetry sets how many extra attempts an idempotent call may make and the
// base of the exponential backoff between them.
func WithRetry(attempts uint64, backoff time.Duration) Option {
	return func(g *Gateway) {
		g.retries = attempts
		g.backoff = backoff
	}
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New constructs a Gateway for baseURL.
func New(baseURL string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: 15 * time.Second,
		backoff: 200 * time.Millisecond,
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Call performs req and decodes a successful JSON body into out (which may
// be nil). Non-2xx responses and network failures are returned as *Error.
// GET requests are retried on unavailability and 502/503/504.
func (g *Gateway) Call(ctx context.Context, req Request, out any) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		body = b
	}

	if req.Method != http.MethodGet || g.retries == 0 {
		return g.do(ctx, req, body, out)
	}

	base := g.backoff
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.WithMaxRetries(g.retries, retry.NewExponential(base))
	var last error
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		last = g.do(ctx, req, body, out)
		var ge *Error
		if errors.As(last, &ge) && ge.retryable() {
			g.log.Warn(ctx, "retrying request", "path", req.Path, "status", ge.Status)
			return retry.RetryableError(last)
		}
		return last
	})
	if err != nil && last != nil {
		return last
	}
	return err
}

func (g *Gateway) do(ctx context.Context, req Request, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	u := g.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, u, rdr)
	if err != nil {
		return &Error{Message: fmt.Sprintf("build request: %v", err), Err: err}
	}

	reqID := uuid.NewString()
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set(requestIDHeader, reqID)

	log := g.log.With("request_id", reqID, "method", req.Method, "path", req.Path)
	start := time.Now()

	resp, err := g.http.Do(hr)
	if err != nil {
		log.Error(ctx, "request failed", "error", err)
		return unavailable(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(ctx, "read body failed", "error", err)
		return unavailable(err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := detailMessage(data)
		if msg == "" {
			msg = statusText(resp)
		}
		log.Warn(ctx, "backend rejected request", "status", resp.StatusCode, "detail", msg)
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error(ctx, "decode body failed", "error", err)
		return &Error{Status: resp.StatusCode, Message: "invalid response from server", Err: err}
	}
	return nil
}

// detailMessage extracts the backend's "detail" field. FastAPI validation
// failures carry a list of {msg} objects instead of a string.
func detailMessage(data []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func statusText(resp *http.Response) string {
	if t := http.StatusText(resp.StatusCode); t != "" {
		return t
	}
	return resp.Status
}
