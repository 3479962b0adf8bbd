// Package client calls the daily missions REST API. Every call returns a
// missions.Result: Ok with the decoded payload, or Err with the server's error
// code, or missions.CodeNetwork when no answer could be obtained.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

// Client issues at most one HTTP request per call. It does not retry, cache or
// add timeouts beyond those of the underlying http.Client.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport used to reach the server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	op      string // Name used in diagnostics.
	method  string
	path    string
	query   url.Values
	body    interface{}
	session *Session
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var body io.Reader

	if r.body != nil {
		js, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}

		body = bytes.NewReader(js)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, err
	}

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")
	r.session.attach(req)

	return req, nil
}

// Will send the request and hand back the response when its status is 2xx.
// Every other outcome is logged and reduced to an error code.
func (c *Client) exchange(ctx context.Context, r request) (*http.Response, missions.ErrorCode, bool) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		c.networkError(r, err)
		return nil, missions.CodeNetwork, false
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.networkError(r, err)
		return nil, missions.CodeNetwork, false
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, 0, true
	}
	defer res.Body.Close()

	var apiErr missions.ApiError
	if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil {
		c.networkError(r, fmt.Errorf("decode error body (status %d): %w", res.StatusCode, err))
		return nil, missions.CodeNetwork, false
	}

	c.log.Warn(r.op+" failed",
		zap.String("message", apiErr.Message),
		zap.Int("code", int(apiErr.Code)),
		zap.Int("status", res.StatusCode),
	)

	return nil, apiErr.Code, false
}

func (c *Client) networkError(r request, err error) {
	c.log.Error("network error", zap.String("op", r.op), zap.Error(err))
}

// fetch performs a call whose success contract carries a JSON body.
func fetch[T any](ctx context.Context, c *Client, r request) missions.Result[T, missions.ErrorCode] {
	res, code, ok := c.exchange(ctx, r)
	if !ok {
		return missions.Err[T](code)
	}
	defer res.Body.Close()

	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		c.networkError(r, fmt.Errorf("decode body: %w", err))
		return missions.Err[T](missions.CodeNetwork)
	}

	return missions.Ok[T, missions.ErrorCode](v)
}

// exec performs a call whose success contract has no body. The body is
// discarded unread so an empty answer is never parsed.
func exec(ctx context.Context, c *Client, r request) missions.Result[missions.Null, missions.ErrorCode] {
	res, code, ok := c.exchange(ctx, r)
	if !ok {
		return missions.Err[missions.Null](code)
	}

	discard(res)

	return missions.Ok[missions.Null, missions.ErrorCode](missions.Null{})
}

func discard(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()
}
